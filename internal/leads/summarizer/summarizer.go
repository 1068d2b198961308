// Package summarizer generates conversation summaries with Gemini. The
// scoring engine treats it as optional: any failure here degrades to the
// keyword pipeline, so this package never has to be available for scoring to
// work.
package summarizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"leadpulse_backend/internal/leads/repository"
)

// maxTranscriptMessages bounds the prompt size. Older messages are dropped
// first; the tail of the conversation carries the current intent.
const maxTranscriptMessages = 50

type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Summarizer produces a short cross-channel conversation summary.
type Summarizer struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// New creates a Gemini-backed summarizer.
func New(ctx context.Context, cfg Config) (*Summarizer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("summarizer: create client: %w", err)
	}

	return &Summarizer{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

// Summarize renders the message log into a transcript and asks the model for
// a concise summary. The call is bounded by the configured timeout.
func (s *Summarizer) Summarize(ctx context.Context, messages []repository.Message) (string, error) {
	if len(messages) == 0 {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt := buildSummaryPrompt(messages)

	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("summarizer: generate: %w", err)
	}

	return strings.TrimSpace(resp.Text()), nil
}

func buildSummaryPrompt(messages []repository.Message) string {
	if len(messages) > maxTranscriptMessages {
		messages = messages[len(messages)-maxTranscriptMessages:]
	}

	var b strings.Builder
	b.WriteString("Summarize this customer conversation in 2-3 sentences.\n")
	b.WriteString("Focus on what the customer wants, their urgency, and any booking or pricing discussion.\n")
	b.WriteString("Reply with the summary only, no preamble.\n\nTranscript:\n")

	for _, msg := range messages {
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}
		fmt.Fprintf(&b, "[%s/%s] %s\n", msg.Channel, msg.Sender, content)
	}
	return b.String()
}
