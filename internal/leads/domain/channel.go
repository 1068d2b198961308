package domain

// Channels a lead can interact through. Touchpoint fields and the unified
// context are keyed by these values.
const (
	ChannelWeb      = "web"
	ChannelWhatsApp = "whatsapp"
	ChannelVoice    = "voice"
	ChannelSocial   = "social"
)

// AllChannels lists channels in the fixed order used for booking resolution
// and context traversal.
var AllChannels = []string{ChannelWeb, ChannelWhatsApp, ChannelVoice, ChannelSocial}

var knownChannels = map[string]struct{}{
	ChannelWeb:      {},
	ChannelWhatsApp: {},
	ChannelVoice:    {},
	ChannelSocial:   {},
}

func IsKnownChannel(channel string) bool {
	_, ok := knownChannels[channel]
	return ok
}

// Message sender roles.
const (
	SenderCustomer = "customer"
	SenderAgent    = "agent"
	SenderSystem   = "system"
)

var knownSenders = map[string]struct{}{
	SenderCustomer: {},
	SenderAgent:    {},
	SenderSystem:   {},
}

func IsKnownSender(sender string) bool {
	_, ok := knownSenders[sender]
	return ok
}
