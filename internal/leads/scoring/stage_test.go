package scoring

import (
	"testing"

	"leadpulse_backend/internal/leads/domain"
	"leadpulse_backend/internal/leads/repository"
)

func TestAutoDetectStageBoundaries(t *testing.T) {
	tests := []struct {
		name         string
		score        int
		messageCount int
		hasBooking   bool
		want         string
	}{
		{"zero", 0, 0, false, domain.StageNew},
		{"just under qualified", 30, 0, false, domain.StageNew},
		{"qualified floor", 31, 0, false, domain.StageQualified},
		{"just under high intent", 60, 0, false, domain.StageQualified},
		{"high intent floor", 61, 0, false, domain.StageHighIntent},
		{"just under booking made", 85, 0, false, domain.StageHighIntent},
		{"booking made floor", 86, 0, false, domain.StageBookingMade},
		{"max", 100, 0, false, domain.StageBookingMade},
		{"booking overrides low score", 5, 0, true, domain.StageBookingMade},
		{"engaged by volume", 10, 4, false, domain.StageEngaged},
		{"below engaged volume", 10, 3, false, domain.StageNew},
		{"score beats volume", 45, 4, false, domain.StageQualified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := autoDetectStage(tt.score, tt.messageCount, tt.hasBooking)
			if got != tt.want {
				t.Errorf("autoDetectStage(%d, %d, %v) = %q, want %q", tt.score, tt.messageCount, tt.hasBooking, got, tt.want)
			}
		})
	}
}

func TestAutoDetectStageMonotonic(t *testing.T) {
	prevRank := -1
	for score := 0; score <= 100; score++ {
		stage := autoDetectStage(score, 0, false)
		rank, ok := domain.StageRank(stage)
		if !ok {
			t.Fatalf("score %d produced unranked stage %q", score, stage)
		}
		if rank < prevRank {
			t.Fatalf("stage rank regressed at score %d: %q", score, stage)
		}
		prevRank = rank
	}
}

func TestClassifyStageOverridePin(t *testing.T) {
	pinned := domain.StageCold
	lead := repository.Lead{Stage: &pinned, StageOverride: true}

	if got := ClassifyStage(lead, 95, 50); got != domain.StageCold {
		t.Errorf("ClassifyStage = %q, want pinned %q despite score 95", got, domain.StageCold)
	}
}

func TestClassifyStagePersistedWins(t *testing.T) {
	persisted := domain.StageQualified
	lead := repository.Lead{Stage: &persisted}

	if got := ClassifyStage(lead, 95, 0); got != domain.StageQualified {
		t.Errorf("ClassifyStage = %q, want persisted %q", got, domain.StageQualified)
	}
}

func TestClassifyStageAutoDetectFallback(t *testing.T) {
	t.Run("nil stage", func(t *testing.T) {
		if got := ClassifyStage(repository.Lead{}, 65, 0); got != domain.StageHighIntent {
			t.Errorf("ClassifyStage = %q, want %q", got, domain.StageHighIntent)
		}
	})

	t.Run("empty stage string", func(t *testing.T) {
		empty := ""
		lead := repository.Lead{Stage: &empty}
		if got := ClassifyStage(lead, 65, 0); got != domain.StageHighIntent {
			t.Errorf("ClassifyStage = %q, want %q", got, domain.StageHighIntent)
		}
	})

	t.Run("booking in context", func(t *testing.T) {
		lead := repository.Lead{
			Context: &domain.UnifiedContext{Web: &domain.ChannelContext{BookingDate: "2026-04-01"}},
		}
		if got := ClassifyStage(lead, 10, 0); got != domain.StageBookingMade {
			t.Errorf("ClassifyStage = %q, want %q", got, domain.StageBookingMade)
		}
	})
}
