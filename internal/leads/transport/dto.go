package transport

import (
	"time"

	"github.com/google/uuid"

	"leadpulse_backend/internal/leads/domain"
	"leadpulse_backend/internal/leads/repository"
	"leadpulse_backend/internal/leads/scoring"
)

// CreateLeadRequest is the intake payload. Phone is the dedup key; intake
// with a known phone merges into the existing lead.
type CreateLeadRequest struct {
	Phone           string                 `json:"phone" validate:"required,min=5,max=32"`
	Email           *string                `json:"email,omitempty" validate:"omitempty,email"`
	DisplayName     string                 `json:"displayName,omitempty" validate:"max=200"`
	Brand           string                 `json:"brand" validate:"required,min=1,max=100"`
	FirstTouchpoint *string                `json:"firstTouchpoint,omitempty" validate:"omitempty,oneof=web whatsapp voice social"`
	Context         *domain.UnifiedContext `json:"context,omitempty"`
}

// RecordMessageRequest appends one conversation message, optionally carrying
// a per-channel context patch alongside it.
type RecordMessageRequest struct {
	Channel        string                 `json:"channel" validate:"required,oneof=web whatsapp voice social"`
	Sender         string                 `json:"sender" validate:"required,oneof=customer agent system"`
	Content        string                 `json:"content" validate:"max=10000"`
	ResponseTimeMs *int                   `json:"responseTimeMs,omitempty" validate:"omitempty,min=0"`
	ContextPatch   *domain.UnifiedContext `json:"contextPatch,omitempty"`
}

// ChangeStageRequest is a manual pipeline transition. Every manual change
// pins the stage against future auto-detection.
type ChangeStageRequest struct {
	Stage    string  `json:"stage" validate:"required"`
	SubStage *string `json:"subStage,omitempty" validate:"omitempty,max=100"`
}

// ListLeadsRequest is the query surface for the dashboard list.
type ListLeadsRequest struct {
	Brand  string `form:"brand" validate:"omitempty,max=100"`
	Stage  string `form:"stage" validate:"omitempty,max=50"`
	Limit  int    `form:"limit" validate:"omitempty,min=1,max=200"`
	Offset int    `form:"offset" validate:"omitempty,min=0"`
}

// ListMessagesRequest filters the conversation log.
type ListMessagesRequest struct {
	Channel string     `form:"channel" validate:"omitempty,oneof=web whatsapp voice social"`
	Sender  string     `form:"sender" validate:"omitempty,oneof=customer agent system"`
	Since   *time.Time `form:"since"`
}

// LeadResponse is the API projection of a lead.
type LeadResponse struct {
	ID                uuid.UUID              `json:"id"`
	Phone             string                 `json:"phone"`
	Email             *string                `json:"email,omitempty"`
	DisplayName       string                 `json:"displayName,omitempty"`
	Brand             string                 `json:"brand"`
	FirstTouchpoint   *string                `json:"firstTouchpoint,omitempty"`
	LastTouchpoint    *string                `json:"lastTouchpoint,omitempty"`
	LastInteractionAt *time.Time             `json:"lastInteractionAt,omitempty"`
	Stage             *string                `json:"stage,omitempty"`
	SubStage          *string                `json:"subStage,omitempty"`
	StageOverride     bool                   `json:"stageOverride"`
	BookingDate       *string                `json:"bookingDate,omitempty"`
	BookingTime       *string                `json:"bookingTime,omitempty"`
	Context           *domain.UnifiedContext `json:"context,omitempty"`
	CreatedAt         time.Time              `json:"createdAt"`
	UpdatedAt         time.Time              `json:"updatedAt"`
}

func ToLeadResponse(lead repository.Lead) LeadResponse {
	return LeadResponse{
		ID:                lead.ID,
		Phone:             lead.Phone,
		Email:             lead.Email,
		DisplayName:       lead.DisplayName,
		Brand:             lead.Brand,
		FirstTouchpoint:   lead.FirstTouchpoint,
		LastTouchpoint:    lead.LastTouchpoint,
		LastInteractionAt: lead.LastInteractionAt,
		Stage:             lead.Stage,
		SubStage:          lead.SubStage,
		StageOverride:     lead.StageOverride,
		BookingDate:       lead.BookingDate,
		BookingTime:       lead.BookingTime,
		Context:           lead.Context,
		CreatedAt:         lead.CreatedAt,
		UpdatedAt:         lead.UpdatedAt,
	}
}

// ListLeadsResponse wraps a page of leads with the unfiltered total.
type ListLeadsResponse struct {
	Leads []LeadResponse `json:"leads"`
	Total int            `json:"total"`
}

func ToListLeadsResponse(leads []repository.Lead, total int) ListLeadsResponse {
	out := make([]LeadResponse, 0, len(leads))
	for _, lead := range leads {
		out = append(out, ToLeadResponse(lead))
	}
	return ListLeadsResponse{Leads: out, Total: total}
}

// MessageResponse is the API projection of a conversation message.
type MessageResponse struct {
	ID             uuid.UUID `json:"id"`
	LeadID         uuid.UUID `json:"leadId"`
	Channel        string    `json:"channel"`
	Sender         string    `json:"sender"`
	Content        string    `json:"content"`
	ResponseTimeMs *int      `json:"responseTimeMs,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

func ToMessageResponse(msg repository.Message) MessageResponse {
	return MessageResponse{
		ID:             msg.ID,
		LeadID:         msg.LeadID,
		Channel:        msg.Channel,
		Sender:         msg.Sender,
		Content:        msg.Content,
		ResponseTimeMs: msg.ResponseTimeMs,
		CreatedAt:      msg.CreatedAt,
	}
}

func ToMessageResponses(messages []repository.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(messages))
	for _, msg := range messages {
		out = append(out, ToMessageResponse(msg))
	}
	return out
}

// ScoreResponse is the evaluation payload served by the score endpoint.
type ScoreResponse struct {
	LeadID     uuid.UUID         `json:"leadId"`
	Total      int               `json:"total"`
	Breakdown  scoring.Breakdown `json:"breakdown"`
	Version    string            `json:"version"`
	Stage      string            `json:"stage"`
	Health     string            `json:"health"`
	Trend      string            `json:"trend,omitempty"`
	Digest     string            `json:"digest,omitempty"`
	ComputedAt time.Time         `json:"computedAt"`
}

func ToScoreResponse(eval scoring.Evaluation) ScoreResponse {
	return ScoreResponse{
		LeadID:     eval.LeadID,
		Total:      eval.Score.Total,
		Breakdown:  eval.Score.Breakdown,
		Version:    eval.Score.Version,
		Stage:      eval.Stage,
		Health:     eval.Health,
		Trend:      eval.Trend,
		Digest:     eval.Digest,
		ComputedAt: eval.ComputedAt,
	}
}

// StageHistoryResponse is one stage transition snapshot.
type StageHistoryResponse struct {
	ID            uuid.UUID `json:"id"`
	LeadID        uuid.UUID `json:"leadId"`
	PreviousStage *string   `json:"previousStage,omitempty"`
	NewStage      string    `json:"newStage"`
	ScoreAtChange int       `json:"scoreAtChange"`
	ChangedBy     string    `json:"changedBy"`
	ChangedAt     time.Time `json:"changedAt"`
}

func ToStageHistoryResponses(entries []repository.StageHistoryEntry) []StageHistoryResponse {
	out := make([]StageHistoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, StageHistoryResponse{
			ID:            e.ID,
			LeadID:        e.LeadID,
			PreviousStage: e.PreviousStage,
			NewStage:      e.NewStage,
			ScoreAtChange: e.ScoreAtChange,
			ChangedBy:     e.ChangedBy,
			ChangedAt:     e.ChangedAt,
		})
	}
	return out
}
