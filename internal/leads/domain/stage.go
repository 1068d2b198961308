package domain

const (
	// StageUnchanged is a sentinel indicating that a derivation function
	// intentionally does not prescribe a pipeline stage. The caller must
	// substitute the lead's current stage.
	StageUnchanged = ""

	StageNew         = "New"
	StageEngaged     = "Engaged"
	StageQualified   = "Qualified"
	StageHighIntent  = "High Intent"
	StageBookingMade = "Booking Made"
	StageConverted   = "Converted"

	// Out-of-funnel stages. These carry no funnel ordering and are only ever
	// set by operators or sequencing automation, never by auto-detection.
	StageClosedLost = "Closed Lost"
	StageInSequence = "In Sequence"
	StageCold       = "Cold"
)

// funnelOrder maps each in-funnel stage to its position. Higher means closer
// to conversion.
var funnelOrder = map[string]int{
	StageNew:         0,
	StageEngaged:     1,
	StageQualified:   2,
	StageHighIntent:  3,
	StageBookingMade: 4,
	StageConverted:   5,
}

var knownStages = map[string]struct{}{
	StageNew:         {},
	StageEngaged:     {},
	StageQualified:   {},
	StageHighIntent:  {},
	StageBookingMade: {},
	StageConverted:   {},
	StageClosedLost:  {},
	StageInSequence:  {},
	StageCold:        {},
}

func IsKnownStage(stage string) bool {
	_, ok := knownStages[stage]
	return ok
}

// StageRank returns the funnel position of a stage and whether the stage is
// part of the ordered funnel at all.
func StageRank(stage string) (int, bool) {
	rank, ok := funnelOrder[stage]
	return rank, ok
}
