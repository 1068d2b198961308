package summarizer

import (
	"strings"
	"testing"

	"leadpulse_backend/internal/leads/domain"
	"leadpulse_backend/internal/leads/repository"
)

func TestBuildSummaryPrompt(t *testing.T) {
	messages := []repository.Message{
		{Channel: domain.ChannelWeb, Sender: domain.SenderCustomer, Content: "how much is the premium plan"},
		{Channel: domain.ChannelWeb, Sender: domain.SenderAgent, Content: "it starts at 49 per month"},
		{Channel: domain.ChannelWhatsApp, Sender: domain.SenderCustomer, Content: "   "},
	}

	prompt := buildSummaryPrompt(messages)

	if !strings.Contains(prompt, "[web/customer] how much is the premium plan") {
		t.Errorf("prompt missing customer line:\n%s", prompt)
	}
	if !strings.Contains(prompt, "[web/agent] it starts at 49 per month") {
		t.Errorf("prompt missing agent line:\n%s", prompt)
	}
	if strings.Contains(prompt, "whatsapp") {
		t.Error("blank message should be dropped from the transcript")
	}
}

func TestBuildSummaryPromptTruncates(t *testing.T) {
	messages := make([]repository.Message, 0, maxTranscriptMessages+10)
	for i := 0; i < maxTranscriptMessages+10; i++ {
		content := "old"
		if i >= 10 {
			content = "recent"
		}
		messages = append(messages, repository.Message{Channel: domain.ChannelWeb, Sender: domain.SenderCustomer, Content: content})
	}

	prompt := buildSummaryPrompt(messages)

	if strings.Contains(prompt, "old") {
		t.Error("oldest messages should be dropped, tail kept")
	}
	if got := strings.Count(prompt, "recent"); got != maxTranscriptMessages {
		t.Errorf("transcript lines = %d, want %d", got, maxTranscriptMessages)
	}
}
