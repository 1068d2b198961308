package scoring

import (
	"time"

	"leadpulse_backend/internal/leads/domain"
	"leadpulse_backend/internal/leads/repository"
)

const (
	// messageVolumeCeiling is the message count at which volume saturates.
	messageVolumeCeiling = 100.0

	// recencyWindowDays is how long a lead stays "warm" after its last
	// interaction; recency decays linearly to zero over this window.
	recencyWindowDays = 30.0

	// channelMixBonus rewards leads active on two or more channels.
	channelMixBonus = 0.10
)

// ActivitySignals captures engagement volume, responsiveness and recency.
type ActivitySignals struct {
	MessageVolume float64 // 0-1, total messages over the saturation ceiling
	ResponseRate  float64 // agent/customer ratio, deliberately uncapped
	Recency       float64 // 0-1, linear decay over the recency window
	ChannelBonus  float64 // 0 or channelMixBonus
	Score         float64 // 0-100, feeds the aggregator at 30%
}

// AnalyzeActivity derives activity signals from the message log. now anchors
// the recency calculation so results are reproducible in tests.
func AnalyzeActivity(lead repository.Lead, messages []repository.Message, now time.Time) ActivitySignals {
	volume := minFloat(1.0, float64(len(messages))/messageVolumeCeiling)

	var customerCount, agentCount int
	channels := map[string]struct{}{}
	for _, msg := range messages {
		switch msg.Sender {
		case domain.SenderCustomer:
			customerCount++
		case domain.SenderAgent:
			agentCount++
		}
		channels[msg.Channel] = struct{}{}
	}

	// A ratio above 1.0 reflects agents over-engaging relative to customer
	// replies; the cap only applies to the blended score below.
	responseRate := 0.0
	if customerCount > 0 {
		responseRate = float64(agentCount) / float64(customerCount)
	}

	recency := recencyScore(lastInteraction(lead), now)

	bonus := 0.0
	if len(channels) >= 2 {
		bonus = channelMixBonus
	}

	score := minFloat(100, ((volume+responseRate+recency)/3+bonus)*100)

	return ActivitySignals{
		MessageVolume: volume,
		ResponseRate:  responseRate,
		Recency:       recency,
		ChannelBonus:  bonus,
		Score:         score,
	}
}

// lastInteraction resolves the freshest interaction timestamp through the
// fallback chain: lead.last_interaction_at, then per-channel context
// last_interaction, then the lead's own updated_at.
func lastInteraction(lead repository.Lead) time.Time {
	if lead.LastInteractionAt != nil {
		return *lead.LastInteractionAt
	}

	var latest time.Time
	for _, channel := range domain.AllChannels {
		if cc := lead.Context.Channel(channel); cc != nil && cc.LastInteraction != nil {
			if cc.LastInteraction.After(latest) {
				latest = *cc.LastInteraction
			}
		}
	}
	if !latest.IsZero() {
		return latest
	}

	return lead.UpdatedAt
}

func recencyScore(last time.Time, now time.Time) float64 {
	if last.IsZero() || last.After(now) {
		if last.After(now) {
			return 1.0
		}
		return 0
	}

	days := now.Sub(last).Hours() / 24
	return clampFloat(1-days/recencyWindowDays, 0, 1)
}
