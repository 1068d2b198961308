package webhook

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"leadpulse_backend/internal/leads/domain"
	"leadpulse_backend/internal/leads/repository"
	leadservice "leadpulse_backend/internal/leads/service"
	"leadpulse_backend/platform/apperr"
	"leadpulse_backend/platform/logger"
)

type stubIntake struct {
	lastInput leadservice.CreateLeadInput
	lead      repository.Lead
}

func (s *stubIntake) Create(ctx context.Context, input leadservice.CreateLeadInput) (repository.Lead, error) {
	s.lastInput = input
	return s.lead, nil
}

type stubRecorder struct {
	lastLeadID uuid.UUID
	lastInput  leadservice.RecordMessageInput
	msg        repository.Message
}

func (s *stubRecorder) RecordMessage(ctx context.Context, leadID uuid.UUID, input leadservice.RecordMessageInput) (repository.Message, error) {
	s.lastLeadID = leadID
	s.lastInput = input
	return s.msg, nil
}

func TestProcessInbound(t *testing.T) {
	leadID := uuid.New()
	msgID := uuid.New()
	intake := &stubIntake{lead: repository.Lead{ID: leadID}}
	recorder := &stubRecorder{msg: repository.Message{ID: msgID, LeadID: leadID}}

	svc := NewService(intake, recorder, logger.New("test"))

	result, err := svc.ProcessInbound(context.Background(), "acme", InboundEvent{
		Phone:   "+14155550100",
		Channel: domain.ChannelWhatsApp,
		Content: "hi, do you have slots this week",
	})
	if err != nil {
		t.Fatalf("ProcessInbound: %v", err)
	}

	if result.LeadID != leadID || result.MessageID != msgID {
		t.Errorf("result = %+v, want lead %v message %v", result, leadID, msgID)
	}
	if intake.lastInput.Brand != "acme" {
		t.Errorf("brand = %q, want acme (from the API key, not the payload)", intake.lastInput.Brand)
	}
	if intake.lastInput.FirstTouchpoint == nil || *intake.lastInput.FirstTouchpoint != domain.ChannelWhatsApp {
		t.Errorf("first touchpoint = %v, want the event channel", intake.lastInput.FirstTouchpoint)
	}
	if recorder.lastLeadID != leadID {
		t.Errorf("message recorded for lead %v, want %v", recorder.lastLeadID, leadID)
	}
	if recorder.lastInput.Sender != domain.SenderCustomer {
		t.Errorf("sender = %q, want customer default", recorder.lastInput.Sender)
	}
}

func TestProcessInboundExplicitSender(t *testing.T) {
	intake := &stubIntake{lead: repository.Lead{ID: uuid.New()}}
	recorder := &stubRecorder{}
	svc := NewService(intake, recorder, logger.New("test"))

	_, err := svc.ProcessInbound(context.Background(), "acme", InboundEvent{
		Phone:   "+14155550100",
		Channel: domain.ChannelVoice,
		Sender:  domain.SenderAgent,
		Content: "call summary",
	})
	if err != nil {
		t.Fatalf("ProcessInbound: %v", err)
	}
	if recorder.lastInput.Sender != domain.SenderAgent {
		t.Errorf("sender = %q, want agent", recorder.lastInput.Sender)
	}
}

func TestProcessInboundRequiresPhone(t *testing.T) {
	svc := NewService(&stubIntake{}, &stubRecorder{}, logger.New("test"))

	_, err := svc.ProcessInbound(context.Background(), "acme", InboundEvent{Channel: domain.ChannelWeb})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestGenerateAPIKey(t *testing.T) {
	plaintext, hash, prefix, err := GenerateAPIKey()
	if err != nil {
		t.Fatalf("GenerateAPIKey: %v", err)
	}

	if !strings.HasPrefix(plaintext, "whk_") {
		t.Errorf("plaintext %q missing whk_ prefix", plaintext)
	}
	if !strings.HasPrefix(plaintext, prefix) {
		t.Errorf("prefix %q is not a prefix of the key", prefix)
	}
	if HashKey(plaintext) != hash {
		t.Error("stored hash does not match HashKey of the plaintext")
	}

	_, hash2, _, err := GenerateAPIKey()
	if err != nil {
		t.Fatalf("GenerateAPIKey: %v", err)
	}
	if hash == hash2 {
		t.Error("two generated keys hashed identically")
	}
}
