package scoring

import (
	"leadpulse_backend/internal/leads/domain"
	"leadpulse_backend/internal/leads/repository"
)

const (
	bookingPoints    = 10.0
	contactPoints    = 5.0
	multiTouchPoints = 5.0

	// businessCap is a hard ceiling: the raw sum (up to 20) is capped at 10
	// before it enters the weighted total, so business signals can never
	// contribute more than their 10% share.
	businessCap = 10.0
)

// BusinessSignals captures commercial readiness: a booking on the calendar,
// reachable contact details, and multi-channel presence.
type BusinessSignals struct {
	HasBooking   bool
	HasContact   bool
	MultiChannel bool
	Raw          float64 // uncapped sum, kept for the factor breakdown
	Contribution float64 // capped value added to the total
}

// AnalyzeBusiness derives business signals from the lead record and message
// log. Booking presence is resolved through the fixed fallback chain across
// top-level fields and all per-channel context locations.
func AnalyzeBusiness(lead repository.Lead, messages []repository.Message) BusinessSignals {
	_, hasBooking := domain.ResolveBooking(derefString(lead.BookingDate), derefString(lead.BookingTime), lead.Context)

	hasContact := derefString(lead.Email) != "" || lead.Phone != ""

	channels := map[string]struct{}{}
	for _, msg := range messages {
		channels[msg.Channel] = struct{}{}
	}
	multiChannel := len(channels) >= 2

	raw := 0.0
	if hasBooking {
		raw += bookingPoints
	}
	if hasContact {
		raw += contactPoints
	}
	if multiChannel {
		raw += multiTouchPoints
	}

	return BusinessSignals{
		HasBooking:   hasBooking,
		HasContact:   hasContact,
		MultiChannel: multiChannel,
		Raw:          raw,
		Contribution: minFloat(raw, businessCap),
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
