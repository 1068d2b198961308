package scoring

import (
	"testing"
	"time"

	"leadpulse_backend/internal/leads/domain"
	"leadpulse_backend/internal/leads/repository"
)

func scoringFixtures(now time.Time) []struct {
	name     string
	lead     repository.Lead
	messages []repository.Message
} {
	recent := now.Add(-2 * time.Hour)
	stale := now.AddDate(0, 0, -60)

	return []struct {
		name     string
		lead     repository.Lead
		messages []repository.Message
	}{
		{"empty lead", repository.Lead{}, nil},
		{
			"hot lead",
			repository.Lead{
				Phone:             "+14155550100",
				BookingDate:       strptr("2026-03-10"),
				BookingTime:       strptr("14:00"),
				LastInteractionAt: &recent,
				Context: &domain.UnifiedContext{
					UnifiedSummary: "wants to book a demo asap, asked how much it costs, sounds good",
				},
			},
			append(msgs(domain.ChannelWeb, domain.SenderCustomer, 10), msgs(domain.ChannelWhatsApp, domain.SenderAgent, 10)...),
		},
		{
			"stale lead",
			repository.Lead{Phone: "+14155550101", LastInteractionAt: &stale},
			msgs(domain.ChannelWeb, domain.SenderCustomer, 2),
		},
		{
			"sour lead",
			repository.Lead{
				LastInteractionAt: &recent,
				Context:           &domain.UnifiedContext{UnifiedSummary: "not interested, too expensive, please cancel"},
			},
			msgs(domain.ChannelWeb, domain.SenderCustomer, 3),
		},
	}
}

func TestComputeLeadScoreBounds(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, tt := range scoringFixtures(now) {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeLeadScore(tt.lead, tt.messages, now)

			if got.Total < 0 || got.Total > 100 {
				t.Errorf("Total = %d, want within [0,100]", got.Total)
			}
			if got.Breakdown.AI < 0 || got.Breakdown.AI > maxAIContribution {
				t.Errorf("Breakdown.AI = %d, want within [0,%d]", got.Breakdown.AI, maxAIContribution)
			}
			if got.Breakdown.Activity < 0 || got.Breakdown.Activity > maxActivityContribution {
				t.Errorf("Breakdown.Activity = %d, want within [0,%d]", got.Breakdown.Activity, maxActivityContribution)
			}
			if got.Breakdown.Business < 0 || got.Breakdown.Business > maxBusinessContribution {
				t.Errorf("Breakdown.Business = %d, want within [0,%d]", got.Breakdown.Business, maxBusinessContribution)
			}
			if got.Version != scoreVersion {
				t.Errorf("Version = %q, want %q", got.Version, scoreVersion)
			}
		})
	}
}

func TestComputeLeadScoreBreakdownSum(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, tt := range scoringFixtures(now) {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeLeadScore(tt.lead, tt.messages, now)

			sum := got.Breakdown.AI + got.Breakdown.Activity + got.Breakdown.Business
			diff := sum - got.Total
			if diff < -1 || diff > 1 {
				t.Errorf("breakdown sum %d vs total %d: off by %d, rounding tolerance is 1", sum, got.Total, diff)
			}
		})
	}
}

func TestComputeLeadScoreDeterministic(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, tt := range scoringFixtures(now) {
		t.Run(tt.name, func(t *testing.T) {
			first := ComputeLeadScore(tt.lead, tt.messages, now)
			second := ComputeLeadScore(tt.lead, tt.messages, now)
			if first != second {
				t.Errorf("repeated evaluation diverged: %+v vs %+v", first, second)
			}
		})
	}
}

func TestComputeLeadScoreEmptyBaseline(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	got := ComputeLeadScore(repository.Lead{}, nil, now)

	// Neutral sentiment contributes 15 to the text composite, weighted to 9;
	// everything else is zero.
	if got.Total != 9 {
		t.Errorf("Total = %d, want 9", got.Total)
	}
	if got.Breakdown != (Breakdown{AI: 9}) {
		t.Errorf("Breakdown = %+v, want {AI:9}", got.Breakdown)
	}
}

func TestComputeLeadScoreBookingLiftsTotal(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	without := ComputeLeadScore(repository.Lead{}, nil, now)
	with := ComputeLeadScore(repository.Lead{
		BookingDate: strptr("2026-03-10"),
		BookingTime: strptr("14:00"),
	}, nil, now)

	if with.Total != without.Total+int(bookingPoints) {
		t.Errorf("booking lift = %d, want exactly %d points over %d", with.Total, int(bookingPoints), without.Total)
	}
	if with.Breakdown.Business != int(bookingPoints) {
		t.Errorf("Breakdown.Business = %d, want %d", with.Breakdown.Business, int(bookingPoints))
	}
}

func TestZeroResult(t *testing.T) {
	got := ZeroResult()
	if got.Total != 0 || got.Breakdown != (Breakdown{}) {
		t.Errorf("ZeroResult = %+v, want zeroed", got)
	}
	if got.Version != scoreVersion {
		t.Errorf("Version = %q, want %q", got.Version, scoreVersion)
	}
}
