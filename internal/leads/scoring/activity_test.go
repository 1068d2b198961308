package scoring

import (
	"math"
	"testing"
	"time"

	"leadpulse_backend/internal/leads/domain"
	"leadpulse_backend/internal/leads/repository"
)

func msgs(channel string, sender string, n int) []repository.Message {
	out := make([]repository.Message, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, repository.Message{Channel: channel, Sender: sender})
	}
	return out
}

func TestAnalyzeActivityVolume(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		count int
		want  float64
	}{
		{"empty", 0, 0},
		{"half ceiling", 50, 0.5},
		{"at ceiling", 100, 1.0},
		{"saturated", 250, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeActivity(repository.Lead{}, msgs(domain.ChannelWeb, domain.SenderCustomer, tt.count), now)
			if got.MessageVolume != tt.want {
				t.Errorf("MessageVolume = %v, want %v", got.MessageVolume, tt.want)
			}
		})
	}
}

func TestAnalyzeActivityResponseRate(t *testing.T) {
	now := time.Now()

	messages := append(msgs(domain.ChannelWeb, domain.SenderCustomer, 4), msgs(domain.ChannelWeb, domain.SenderAgent, 2)...)
	got := AnalyzeActivity(repository.Lead{}, messages, now)
	if got.ResponseRate != 0.5 {
		t.Errorf("ResponseRate = %v, want 0.5", got.ResponseRate)
	}

	// Above 1.0 stays uncapped at the signal level.
	messages = append(msgs(domain.ChannelWeb, domain.SenderCustomer, 1), msgs(domain.ChannelWeb, domain.SenderAgent, 3)...)
	got = AnalyzeActivity(repository.Lead{}, messages, now)
	if got.ResponseRate != 3.0 {
		t.Errorf("ResponseRate = %v, want 3.0", got.ResponseRate)
	}

	// System messages count toward neither side.
	messages = append(msgs(domain.ChannelWeb, domain.SenderSystem, 5), msgs(domain.ChannelWeb, domain.SenderAgent, 2)...)
	got = AnalyzeActivity(repository.Lead{}, messages, now)
	if got.ResponseRate != 0 {
		t.Errorf("ResponseRate with no customer messages = %v, want 0", got.ResponseRate)
	}
}

func TestRecencyScore(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		last time.Time
		want float64
	}{
		{"zero time", time.Time{}, 0},
		{"just now", now, 1.0},
		{"future clock skew", now.Add(time.Hour), 1.0},
		{"half window", now.AddDate(0, 0, -15), 0.5},
		{"window edge", now.AddDate(0, 0, -30), 0},
		{"beyond window", now.AddDate(0, 0, -90), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := recencyScore(tt.last, now)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("recencyScore = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLastInteractionFallback(t *testing.T) {
	explicit := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	fromContext := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("explicit field wins", func(t *testing.T) {
		lead := repository.Lead{
			LastInteractionAt: &explicit,
			Context:           &domain.UnifiedContext{Web: &domain.ChannelContext{LastInteraction: &fromContext}},
			UpdatedAt:         updated,
		}
		if got := lastInteraction(lead); !got.Equal(explicit) {
			t.Errorf("lastInteraction = %v, want %v", got, explicit)
		}
	})

	t.Run("freshest channel context next", func(t *testing.T) {
		older := fromContext.AddDate(0, 0, -5)
		lead := repository.Lead{
			Context: &domain.UnifiedContext{
				Web:      &domain.ChannelContext{LastInteraction: &older},
				WhatsApp: &domain.ChannelContext{LastInteraction: &fromContext},
			},
			UpdatedAt: updated,
		}
		if got := lastInteraction(lead); !got.Equal(fromContext) {
			t.Errorf("lastInteraction = %v, want %v", got, fromContext)
		}
	})

	t.Run("updated_at last", func(t *testing.T) {
		lead := repository.Lead{UpdatedAt: updated}
		if got := lastInteraction(lead); !got.Equal(updated) {
			t.Errorf("lastInteraction = %v, want %v", got, updated)
		}
	})
}

func TestAnalyzeActivityChannelBonus(t *testing.T) {
	now := time.Now()

	single := AnalyzeActivity(repository.Lead{}, msgs(domain.ChannelWeb, domain.SenderCustomer, 3), now)
	if single.ChannelBonus != 0 {
		t.Errorf("single-channel bonus = %v, want 0", single.ChannelBonus)
	}

	mixed := append(msgs(domain.ChannelWeb, domain.SenderCustomer, 2), msgs(domain.ChannelWhatsApp, domain.SenderCustomer, 1)...)
	multi := AnalyzeActivity(repository.Lead{}, mixed, now)
	if multi.ChannelBonus != channelMixBonus {
		t.Errorf("multi-channel bonus = %v, want %v", multi.ChannelBonus, channelMixBonus)
	}
}

func TestAnalyzeActivityScoreCapped(t *testing.T) {
	now := time.Now()
	last := now.Add(-time.Hour)

	// Max out every component: full volume, rate above 1, fresh contact,
	// multi-channel.
	messages := append(msgs(domain.ChannelWeb, domain.SenderCustomer, 60), msgs(domain.ChannelWhatsApp, domain.SenderAgent, 120)...)
	lead := repository.Lead{LastInteractionAt: &last}

	got := AnalyzeActivity(lead, messages, now)
	if got.Score != 100 {
		t.Errorf("Score = %v, want capped at 100", got.Score)
	}
}
