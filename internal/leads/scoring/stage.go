package scoring

import (
	"leadpulse_backend/internal/leads/domain"
	"leadpulse_backend/internal/leads/repository"
)

// Auto-detection thresholds. Checked in descending precedence; the booking
// check ORs into the top bracket so a confirmed booking always classifies as
// Booking Made regardless of score.
const (
	stageBookingMadeMin = 86
	stageHighIntentMin  = 61
	stageQualifiedMin   = 31
	stageEngagedMinMsgs = 4
)

// ClassifyStage derives a pipeline stage from the score and raw signals.
// Precedence:
//  1. An operator override pin returns the pinned stage verbatim.
//  2. A previously persisted stage wins over fresh auto-detection, even
//     without an override. Auto-detection only fills in for leads that were
//     never explicitly staged.
//  3. Otherwise the score/booking/message thresholds decide.
func ClassifyStage(lead repository.Lead, score int, messageCount int) string {
	if lead.StageOverride && lead.Stage != nil && *lead.Stage != "" {
		return *lead.Stage
	}

	if lead.Stage != nil && *lead.Stage != "" {
		return *lead.Stage
	}

	_, hasBooking := domain.ResolveBooking(derefString(lead.BookingDate), derefString(lead.BookingTime), lead.Context)
	return autoDetectStage(score, messageCount, hasBooking)
}

// autoDetectStage is the raw threshold ladder, exposed separately so the
// boundary behavior is testable without a persisted stage in the way.
func autoDetectStage(score int, messageCount int, hasBooking bool) string {
	switch {
	case score >= stageBookingMadeMin || hasBooking:
		return domain.StageBookingMade
	case score >= stageHighIntentMin:
		return domain.StageHighIntent
	case score >= stageQualifiedMin:
		return domain.StageQualified
	case messageCount >= stageEngagedMinMsgs:
		return domain.StageEngaged
	default:
		return domain.StageNew
	}
}
