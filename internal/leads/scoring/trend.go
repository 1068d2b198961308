package scoring

import "leadpulse_backend/internal/leads/repository"

// Trend labels. TrendUnknown is the empty string so it marshals as an omitted
// field: with fewer than two history snapshots no claim is made.
const (
	TrendWarming = "Warming"
	TrendCooling = "Cooling"
	TrendStable  = "Stable"
	TrendUnknown = ""
)

// trendBand is the noise threshold: score drift within ±5 of the previous
// snapshot is reported as Stable rather than a real movement.
const trendBand = 5

// CalculateTrend compares the current score against the second-most-recent
// stage history snapshot. history must be ordered by changed_at descending.
func CalculateTrend(currentScore int, history []repository.StageHistoryEntry) string {
	if len(history) < 2 {
		return TrendUnknown
	}

	previous := history[1].ScoreAtChange
	diff := currentScore - previous

	switch {
	case diff > trendBand:
		return TrendWarming
	case diff < -trendBand:
		return TrendCooling
	default:
		return TrendStable
	}
}
