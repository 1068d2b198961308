package webhook

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"leadpulse_backend/internal/leads/domain"
	"leadpulse_backend/internal/leads/repository"
	leadservice "leadpulse_backend/internal/leads/service"
	"leadpulse_backend/platform/apperr"
	"leadpulse_backend/platform/logger"
)

// LeadIntake is the slice of the leads service the webhook needs for lead
// creation/dedup.
type LeadIntake interface {
	Create(ctx context.Context, input leadservice.CreateLeadInput) (repository.Lead, error)
}

// MessageRecorder appends conversation messages to a lead.
type MessageRecorder interface {
	RecordMessage(ctx context.Context, leadID uuid.UUID, input leadservice.RecordMessageInput) (repository.Message, error)
}

// InboundEvent is one channel event pushed by an external integration: a
// message on an existing or new conversation, identified by phone.
type InboundEvent struct {
	Phone        string
	DisplayName  string
	Email        *string
	Channel      string
	Sender       string
	Content      string
	ContextPatch *domain.UnifiedContext
}

// InboundResult reports what the event resolved to.
type InboundResult struct {
	LeadID    uuid.UUID `json:"leadId"`
	MessageID uuid.UUID `json:"messageId"`
}

// Service maps inbound channel events onto lead intake and message logging.
type Service struct {
	intake   LeadIntake
	recorder MessageRecorder
	log      *logger.Logger
}

// NewService creates a new webhook service.
func NewService(intake LeadIntake, recorder MessageRecorder, log *logger.Logger) *Service {
	return &Service{intake: intake, recorder: recorder, log: log}
}

// ProcessInbound resolves the lead by phone (creating or merging through the
// intake dedup path) and appends the message. The sender defaults to
// customer: integrations pushing agent echoes set it explicitly.
func (s *Service) ProcessInbound(ctx context.Context, brand string, event InboundEvent) (InboundResult, error) {
	if strings.TrimSpace(event.Phone) == "" {
		return InboundResult{}, apperr.Validation("phone is required").WithOp("webhook.ProcessInbound")
	}

	sender := event.Sender
	if sender == "" {
		sender = domain.SenderCustomer
	}

	touchpoint := event.Channel
	lead, err := s.intake.Create(ctx, leadservice.CreateLeadInput{
		Phone:           event.Phone,
		Email:           event.Email,
		DisplayName:     event.DisplayName,
		Brand:           brand,
		FirstTouchpoint: &touchpoint,
		Context:         event.ContextPatch,
	})
	if err != nil {
		return InboundResult{}, err
	}

	msg, err := s.recorder.RecordMessage(ctx, lead.ID, leadservice.RecordMessageInput{
		Channel: event.Channel,
		Sender:  sender,
		Content: event.Content,
	})
	if err != nil {
		return InboundResult{}, err
	}

	s.log.Info("inbound event captured", "lead_id", lead.ID.String(), "channel", event.Channel, "brand", brand)

	return InboundResult{LeadID: lead.ID, MessageID: msg.ID}, nil
}
