package scoring

import (
	"strings"

	"leadpulse_backend/internal/leads/domain"
	"leadpulse_backend/internal/leads/repository"
)

// Intent keyword categories. Matching any word in a category counts the whole
// category once; the intent score is the fraction of categories matched.
var (
	pricingKeywords = []string{"price", "pricing", "cost", "fee", "fees", "charge", "budget", "emi", "installment", "discount"}
	bookingKeywords = []string{"book", "booking", "schedule", "appointment", "slot", "demo", "consultation", "visit", "call me"}
	urgencyKeywords = []string{"urgent", "asap", "immediately", "today", "right away", "soon as possible", "this week"}
)

// Sentiment word lists. This is deliberately a coarse keyword heuristic, not
// NLP sentiment; it only needs to separate warm conversations from sour ones.
var (
	positiveWords = []string{"great", "good", "perfect", "thanks", "thank you", "interested", "excited", "love", "awesome", "yes please", "sounds good"}
	negativeWords = []string{"not interested", "expensive", "bad", "problem", "issue", "cancel", "refund", "never", "waste", "disappointed", "no thanks"}
)

// Buying phrases indicating purchase intent.
var buyingPhrases = []string{"how much", "i want", "interested in", "sign up", "enroll", "join", "when can i start", "ready to", "where do i pay", "payment link"}

// TextSignals is the keyword analysis of a lead's conversation text.
type TextSignals struct {
	Intent    float64 // 0-100, fraction of intent categories matched
	Sentiment float64 // 0-100, 50 is neutral
	Buying    float64 // 0-100, buying phrase density
	Composite float64 // 0-100, weighted blend feeding the aggregator at 60%
}

// AnalyzeText runs the keyword pipeline over the given conversation text.
// Empty text yields the neutral baseline: intent 0, sentiment 50, buying 0.
func AnalyzeText(text string) TextSignals {
	lowered := strings.ToLower(text)

	intent := scoreIntent(lowered)
	sentiment := scoreSentiment(lowered)
	buying := scoreBuying(lowered)

	return TextSignals{
		Intent:    intent,
		Sentiment: sentiment,
		Buying:    buying,
		Composite: intent*0.4 + sentiment*0.3 + buying*0.3,
	}
}

// TextInput assembles the analyzer input in priority order: the unified
// cross-channel summary, then per-channel summaries, then raw message
// contents. The first non-empty tier wins.
func TextInput(ctx *domain.UnifiedContext, messages []repository.Message) string {
	if ctx != nil && strings.TrimSpace(ctx.UnifiedSummary) != "" {
		return ctx.UnifiedSummary
	}

	if ctx != nil {
		var summaries []string
		for _, channel := range domain.AllChannels {
			if cc := ctx.Channel(channel); cc != nil && strings.TrimSpace(cc.Summary) != "" {
				summaries = append(summaries, cc.Summary)
			}
		}
		if len(summaries) > 0 {
			return strings.Join(summaries, "\n")
		}
	}

	var contents []string
	for _, msg := range messages {
		if strings.TrimSpace(msg.Content) != "" {
			contents = append(contents, msg.Content)
		}
	}
	return strings.Join(contents, "\n")
}

func scoreIntent(text string) float64 {
	if text == "" {
		return 0
	}

	matched := 0
	for _, category := range [][]string{pricingKeywords, bookingKeywords, urgencyKeywords} {
		if containsAny(text, category) {
			matched++
		}
	}
	return float64(matched) / 3.0 * 100
}

func scoreSentiment(text string) float64 {
	positive := countOccurrences(text, positiveWords)
	negative := countOccurrences(text, negativeWords)

	// Ties take the negative branch.
	if positive > negative {
		return minFloat(100, 50+float64(positive)*10)
	}
	return maxFloat(0, 50-float64(negative)*10)
}

func scoreBuying(text string) float64 {
	count := countOccurrences(text, buyingPhrases)
	return minFloat(100, float64(count)*20)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func countOccurrences(s string, phrases []string) int {
	total := 0
	for _, phrase := range phrases {
		total += strings.Count(s, phrase)
	}
	return total
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
