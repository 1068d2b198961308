package domain

import (
	"encoding/json"
	"time"
)

// BookingDetails is the nested booking object some channels write instead of
// the flat booking_date/booking_time keys.
type BookingDetails struct {
	Date string `json:"date,omitempty"`
	Time string `json:"time,omitempty"`
}

// ChannelContext is the per-channel slice of a lead's unified context.
type ChannelContext struct {
	Summary         string            `json:"summary,omitempty"`
	LastInteraction *time.Time        `json:"last_interaction,omitempty"`
	BookingDate     string            `json:"booking_date,omitempty"`
	BookingTime     string            `json:"booking_time,omitempty"`
	Booking         *BookingDetails   `json:"booking,omitempty"`
	KeyInfo         map[string]string `json:"key_info,omitempty"`
}

// UnifiedContext aggregates conversation state for a lead across channels.
// Brand sub-objects are opaque to the scoring engine and carried untouched.
type UnifiedContext struct {
	Web            *ChannelContext            `json:"web,omitempty"`
	WhatsApp       *ChannelContext            `json:"whatsapp,omitempty"`
	Voice          *ChannelContext            `json:"voice,omitempty"`
	Social         *ChannelContext            `json:"social,omitempty"`
	UnifiedSummary string                     `json:"unified_summary,omitempty"`
	Brand          map[string]json.RawMessage `json:"brand,omitempty"`
}

// Channel returns the sub-context for the named channel, or nil.
func (c *UnifiedContext) Channel(channel string) *ChannelContext {
	if c == nil {
		return nil
	}
	switch channel {
	case ChannelWeb:
		return c.Web
	case ChannelWhatsApp:
		return c.WhatsApp
	case ChannelVoice:
		return c.Voice
	case ChannelSocial:
		return c.Social
	}
	return nil
}

func (c *UnifiedContext) setChannel(channel string, cc *ChannelContext) {
	switch channel {
	case ChannelWeb:
		c.Web = cc
	case ChannelWhatsApp:
		c.WhatsApp = cc
	case ChannelVoice:
		c.Voice = cc
	case ChannelSocial:
		c.Social = cc
	}
}

// MergeContext deep-merges patch into base and returns the result. Per-channel
// sub-objects are merged field-wise, never wholesale-replaced: a patch that
// only carries a whatsapp summary must not erase the web booking. Neither
// input is mutated.
func MergeContext(base, patch *UnifiedContext) *UnifiedContext {
	if base == nil && patch == nil {
		return nil
	}

	merged := &UnifiedContext{}
	if base != nil {
		*merged = *base
	}
	if patch == nil {
		return merged
	}

	for _, channel := range AllChannels {
		merged.setChannel(channel, mergeChannel(merged.Channel(channel), patch.Channel(channel)))
	}

	if patch.UnifiedSummary != "" {
		merged.UnifiedSummary = patch.UnifiedSummary
	}

	if len(patch.Brand) > 0 {
		brand := make(map[string]json.RawMessage, len(merged.Brand)+len(patch.Brand))
		for k, v := range merged.Brand {
			brand[k] = v
		}
		for k, v := range patch.Brand {
			brand[k] = v
		}
		merged.Brand = brand
	}

	return merged
}

func mergeChannel(base, patch *ChannelContext) *ChannelContext {
	if patch == nil {
		return base
	}
	if base == nil {
		copied := *patch
		return &copied
	}

	merged := *base
	if patch.Summary != "" {
		merged.Summary = patch.Summary
	}
	if patch.LastInteraction != nil {
		merged.LastInteraction = patch.LastInteraction
	}
	if patch.BookingDate != "" {
		merged.BookingDate = patch.BookingDate
	}
	if patch.BookingTime != "" {
		merged.BookingTime = patch.BookingTime
	}
	if patch.Booking != nil {
		booking := *patch.Booking
		if merged.Booking != nil {
			if booking.Date == "" {
				booking.Date = merged.Booking.Date
			}
			if booking.Time == "" {
				booking.Time = merged.Booking.Time
			}
		}
		merged.Booking = &booking
	}
	if len(patch.KeyInfo) > 0 {
		keyInfo := make(map[string]string, len(merged.KeyInfo)+len(patch.KeyInfo))
		for k, v := range merged.KeyInfo {
			keyInfo[k] = v
		}
		for k, v := range patch.KeyInfo {
			keyInfo[k] = v
		}
		merged.KeyInfo = keyInfo
	}

	return &merged
}

// Booking is a resolved booking date/time pair.
type Booking struct {
	Date string
	Time string
}

// ResolveBooking resolves the lead's booking through the fixed precedence
// chain: top-level lead fields, then web, whatsapp, voice, social. Each
// channel checks its flat booking_date/booking_time keys before the nested
// booking object. The first location holding either field supplies both;
// later locations never backfill a missing half. Returns false when no
// location holds any booking data.
func ResolveBooking(bookingDate, bookingTime string, ctx *UnifiedContext) (Booking, bool) {
	if bookingDate != "" || bookingTime != "" {
		return Booking{Date: bookingDate, Time: bookingTime}, true
	}

	for _, channel := range AllChannels {
		cc := ctx.Channel(channel)
		if cc == nil {
			continue
		}
		if cc.BookingDate != "" || cc.BookingTime != "" {
			return Booking{Date: cc.BookingDate, Time: cc.BookingTime}, true
		}
		if cc.Booking != nil && (cc.Booking.Date != "" || cc.Booking.Time != "") {
			return Booking{Date: cc.Booking.Date, Time: cc.Booking.Time}, true
		}
	}

	return Booking{}, false
}
