package scoring

import (
	"testing"

	"leadpulse_backend/internal/leads/domain"
	"leadpulse_backend/internal/leads/repository"
)

func strptr(s string) *string { return &s }

func TestAnalyzeBusinessEmpty(t *testing.T) {
	got := AnalyzeBusiness(repository.Lead{}, nil)

	if got.HasBooking || got.HasContact || got.MultiChannel {
		t.Errorf("empty lead produced signals: %+v", got)
	}
	if got.Raw != 0 || got.Contribution != 0 {
		t.Errorf("Raw/Contribution = %v/%v, want 0/0", got.Raw, got.Contribution)
	}
}

func TestAnalyzeBusinessBooking(t *testing.T) {
	t.Run("top-level fields", func(t *testing.T) {
		lead := repository.Lead{BookingDate: strptr("2026-03-10"), BookingTime: strptr("14:00")}
		got := AnalyzeBusiness(lead, nil)
		if !got.HasBooking {
			t.Fatal("HasBooking = false, want true")
		}
		if got.Contribution != bookingPoints {
			t.Errorf("Contribution = %v, want %v", got.Contribution, bookingPoints)
		}
	})

	t.Run("nested channel context", func(t *testing.T) {
		lead := repository.Lead{
			Context: &domain.UnifiedContext{
				WhatsApp: &domain.ChannelContext{BookingDate: "2026-03-11"},
			},
		}
		got := AnalyzeBusiness(lead, nil)
		if !got.HasBooking {
			t.Error("HasBooking = false, want true for nested booking")
		}
	})
}

func TestAnalyzeBusinessContact(t *testing.T) {
	tests := []struct {
		name string
		lead repository.Lead
		want bool
	}{
		{"phone only", repository.Lead{Phone: "+14155550100"}, true},
		{"email only", repository.Lead{Email: strptr("lead@example.com")}, true},
		{"neither", repository.Lead{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AnalyzeBusiness(tt.lead, nil); got.HasContact != tt.want {
				t.Errorf("HasContact = %v, want %v", got.HasContact, tt.want)
			}
		})
	}
}

func TestAnalyzeBusinessCapped(t *testing.T) {
	lead := repository.Lead{
		Phone:       "+14155550100",
		BookingDate: strptr("2026-03-10"),
		BookingTime: strptr("14:00"),
	}
	messages := []repository.Message{
		{Channel: domain.ChannelWeb, Sender: domain.SenderCustomer},
		{Channel: domain.ChannelVoice, Sender: domain.SenderCustomer},
	}

	got := AnalyzeBusiness(lead, messages)

	if !got.HasBooking || !got.HasContact || !got.MultiChannel {
		t.Fatalf("expected all signals set, got %+v", got)
	}
	if got.Raw != bookingPoints+contactPoints+multiTouchPoints {
		t.Errorf("Raw = %v, want %v", got.Raw, bookingPoints+contactPoints+multiTouchPoints)
	}
	if got.Contribution != businessCap {
		t.Errorf("Contribution = %v, want capped at %v", got.Contribution, businessCap)
	}
}
