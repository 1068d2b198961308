package scoring

import (
	"testing"

	"leadpulse_backend/internal/leads/repository"
)

func history(scores ...int) []repository.StageHistoryEntry {
	out := make([]repository.StageHistoryEntry, 0, len(scores))
	for _, s := range scores {
		out = append(out, repository.StageHistoryEntry{ScoreAtChange: s})
	}
	return out
}

func TestCalculateTrend(t *testing.T) {
	tests := []struct {
		name    string
		current int
		history []repository.StageHistoryEntry
		want    string
	}{
		{"no history", 80, nil, TrendUnknown},
		{"single entry", 80, history(50), TrendUnknown},
		{"warming above band", 56, history(99, 50), TrendWarming},
		{"band edge up is stable", 55, history(99, 50), TrendStable},
		{"flat", 50, history(99, 50), TrendStable},
		{"band edge down is stable", 45, history(99, 50), TrendStable},
		{"cooling below band", 44, history(99, 50), TrendCooling},
		{"compares second entry not first", 10, history(10, 80), TrendCooling},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateTrend(tt.current, tt.history); got != tt.want {
				t.Errorf("CalculateTrend(%d) = %q, want %q", tt.current, got, tt.want)
			}
		})
	}
}
