package scoring

import (
	"math"
	"testing"
	"time"

	"leadpulse_backend/internal/leads/domain"
	"leadpulse_backend/internal/leads/repository"
)

func TestAnalyzeTextEmpty(t *testing.T) {
	got := AnalyzeText("")

	if got.Intent != 0 {
		t.Errorf("intent = %v, want 0", got.Intent)
	}
	if got.Sentiment != 50 {
		t.Errorf("sentiment = %v, want 50", got.Sentiment)
	}
	if got.Buying != 0 {
		t.Errorf("buying = %v, want 0", got.Buying)
	}
	if got.Composite != 15 {
		t.Errorf("composite = %v, want 15 (neutral baseline)", got.Composite)
	}
}

func TestScoreIntent(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"no keywords", "hello there", 0},
		{"one category", "what is the price", 100.0 / 3},
		{"category counted once", "price cost budget fees", 100.0 / 3},
		{"two categories", "can i book a slot and what is the cost", 200.0 / 3},
		{"all three", "urgent: book a demo, what does it cost", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreIntent(tt.text)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("scoreIntent(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestScoreSentiment(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"neutral", "when are you open", 50},
		{"positive", "great, thanks", 70},
		{"positive capped", "great good perfect thanks interested excited love", 100},
		{"negative outweighs embedded positive", "not interested, too expensive", 30},
		{"negative floored", "bad problem issue cancel refund never waste", 0},
		{"tie leans negative", "good but there is a problem", 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoreSentiment(tt.text); got != tt.want {
				t.Errorf("scoreSentiment(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestScoreBuying(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"none", "hello", 0},
		{"single phrase", "how much is it", 20},
		{"repeat counted", "how much for one, how much for two", 40},
		{"capped", "how much, i want, interested in, sign up, enroll, join", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoreBuying(tt.text); got != tt.want {
				t.Errorf("scoreBuying(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestAnalyzeTextCaseInsensitive(t *testing.T) {
	lower := AnalyzeText("what is the price? i want to book ASAP")
	upper := AnalyzeText("WHAT IS THE PRICE? I WANT TO BOOK asap")

	if lower != upper {
		t.Errorf("case changed the result: %+v vs %+v", lower, upper)
	}
}

func TestTextInputPriority(t *testing.T) {
	messages := []repository.Message{
		{Channel: domain.ChannelWeb, Sender: domain.SenderCustomer, Content: "raw message text", CreatedAt: time.Now()},
	}

	t.Run("unified summary wins", func(t *testing.T) {
		ctx := &domain.UnifiedContext{
			UnifiedSummary: "unified",
			Web:            &domain.ChannelContext{Summary: "web summary"},
		}
		if got := TextInput(ctx, messages); got != "unified" {
			t.Errorf("TextInput = %q, want unified summary", got)
		}
	})

	t.Run("channel summaries next", func(t *testing.T) {
		ctx := &domain.UnifiedContext{
			Web:      &domain.ChannelContext{Summary: "web summary"},
			WhatsApp: &domain.ChannelContext{Summary: "wa summary"},
		}
		want := "web summary\nwa summary"
		if got := TextInput(ctx, messages); got != want {
			t.Errorf("TextInput = %q, want %q", got, want)
		}
	})

	t.Run("raw messages last", func(t *testing.T) {
		if got := TextInput(nil, messages); got != "raw message text" {
			t.Errorf("TextInput = %q, want raw message text", got)
		}
	})

	t.Run("blank summary skipped", func(t *testing.T) {
		ctx := &domain.UnifiedContext{UnifiedSummary: "   "}
		if got := TextInput(ctx, messages); got != "raw message text" {
			t.Errorf("TextInput = %q, want raw message fallback", got)
		}
	})
}
