package scoring

import (
	"math"
	"time"

	"leadpulse_backend/internal/leads/repository"
)

const (
	// scoreVersion tracks the scoring model for debugging and analysis.
	// Bump this when changing scoring logic significantly.
	scoreVersion = "2026-v1"

	// Weights of the three signal groups in the final score. The breakdown
	// sub-maxima (60 + 30 + 10) sum to exactly 100.
	aiWeight       = 0.6
	activityWeight = 0.3

	maxAIContribution       = 60
	maxActivityContribution = 30
	maxBusinessContribution = 10
)

// Breakdown splits the total score across the three weighted signal groups.
type Breakdown struct {
	AI       int `json:"ai"`       // 0-60
	Activity int `json:"activity"` // 0-30
	Business int `json:"business"` // 0-10
}

// Result holds a computed health score. It is derived state: recomputed on
// demand, never the source of truth.
type Result struct {
	Total     int       `json:"total"` // 0-100
	Breakdown Breakdown `json:"breakdown"`
	Version   string    `json:"version"`
}

// ZeroResult is the safe fallback returned when computation fails for any
// reason. Callers always receive a well-formed Result.
func ZeroResult() Result {
	return Result{Version: scoreVersion}
}

// ComputeLeadScore combines the three signal groups into a 0-100 total with a
// per-group breakdown. The function is pure: identical inputs yield identical
// output. Any panic inside the pipeline (malformed context, unexpected nils)
// degrades to the zero result instead of propagating.
func ComputeLeadScore(lead repository.Lead, messages []repository.Message, now time.Time) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = ZeroResult()
		}
	}()

	text := AnalyzeText(TextInput(lead.Context, messages))
	return composeResult(text, AnalyzeActivity(lead, messages, now), AnalyzeBusiness(lead, messages))
}

// composeResult applies the fixed weights. Breakdown components are rounded
// independently, so their sum may differ from the total by at most 1.
func composeResult(text TextSignals, activity ActivitySignals, business BusinessSignals) Result {
	aiPart := text.Composite * aiWeight
	activityPart := activity.Score * activityWeight
	businessPart := business.Contribution

	total := clampScore(aiPart + activityPart + businessPart)

	return Result{
		Total: total,
		Breakdown: Breakdown{
			AI:       clampInt(int(math.Round(aiPart)), 0, maxAIContribution),
			Activity: clampInt(int(math.Round(activityPart)), 0, maxActivityContribution),
			Business: clampInt(int(math.Round(businessPart)), 0, maxBusinessContribution),
		},
		Version: scoreVersion,
	}
}

func clampScore(value float64) int {
	rounded := int(math.Round(value))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

func clampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func clampFloat(value float64, min float64, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
