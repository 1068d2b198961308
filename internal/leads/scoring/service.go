package scoring

import (
	"context"
	"fmt"
	"strings"
	"time"

	"leadpulse_backend/internal/leads/domain"
	"leadpulse_backend/internal/leads/repository"
	"leadpulse_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// stageHistoryDepth is how many history snapshots the evaluator fetches. The
// trend calculation only ever consumes the two most recent.
const stageHistoryDepth = 2

// Stores is the read-only slice of the repository the evaluator depends on.
// Dependencies are injected; the scoring engine holds no ambient state.
type Stores interface {
	repository.LeadReader
	repository.MessageReader
	repository.StageHistoryReader
}

// SummaryProvider optionally generates a fresh conversation summary for the
// text analyzer. Implementations must respect the context deadline; any error
// falls back to the keyword-only path.
type SummaryProvider interface {
	Summarize(ctx context.Context, messages []repository.Message) (string, error)
}

// Evaluation is the full scoring output for one lead.
type Evaluation struct {
	LeadID     uuid.UUID `json:"leadId"`
	Score      Result    `json:"score"`
	Stage      string    `json:"stage"`
	Health     string    `json:"health"`
	Trend      string    `json:"trend,omitempty"`
	ComputedAt time.Time `json:"computedAt"`

	// Digest is a short factual line for dashboard display. It is never
	// persisted: writing it into the unified summary would shadow the raw
	// conversation text on the next evaluation.
	Digest string `json:"digest,omitempty"`

	// DerivedSummary is the write-back candidate for the lead's unified
	// context, set only when the model generated a fresh conversation
	// summary. Persisting it is the caller's fire-and-forget concern.
	DerivedSummary string `json:"-"`
}

// Service computes lead health evaluations.
type Service struct {
	store     Stores
	summaries SummaryProvider
	health    HealthConfig
	log       *logger.Logger
}

// New creates a scoring service. summaries may be nil to disable the LLM
// summary path entirely.
func New(store Stores, summaries SummaryProvider, health HealthConfig, log *logger.Logger) *Service {
	return &Service{store: store, summaries: summaries, health: health, log: log}
}

// signals is the collected raw input set for one evaluation.
type signals struct {
	lead     repository.Lead
	messages []repository.Message
	history  []repository.StageHistoryEntry
}

// Evaluate scores a lead. Only a missing lead is a hard error; every other
// input degrades (empty messages, no history, no context) and the score is
// computed from whatever was obtained.
func (s *Service) Evaluate(ctx context.Context, leadID uuid.UUID) (Evaluation, error) {
	sig, err := s.collect(ctx, leadID)
	if err != nil {
		return Evaluation{}, err
	}

	return s.evaluateSignals(ctx, sig), nil
}

// collect gathers the three independent input reads concurrently. Message and
// history fetch failures are logged and degraded to empty sets.
func (s *Service) collect(ctx context.Context, leadID uuid.UUID) (signals, error) {
	var sig signals

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		lead, err := s.store.GetByID(gctx, leadID)
		if err != nil {
			return err
		}
		sig.lead = lead
		return nil
	})

	g.Go(func() error {
		messages, err := s.store.ListMessages(gctx, leadID, repository.MessageFilters{})
		if err != nil {
			s.log.ScoringFallback(leadID.String(), "messages", err)
			return nil
		}
		sig.messages = messages
		return nil
	})

	g.Go(func() error {
		history, err := s.store.ListStageHistory(gctx, leadID, stageHistoryDepth)
		if err != nil {
			s.log.ScoringFallback(leadID.String(), "stage_history", err)
			return nil
		}
		sig.history = history
		return nil
	})

	if err := g.Wait(); err != nil {
		return signals{}, err
	}
	return sig, nil
}

func (s *Service) evaluateSignals(ctx context.Context, sig signals) Evaluation {
	now := time.Now().UTC()

	lead := sig.lead
	var generated string
	if s.summaries != nil && len(sig.messages) > 0 && contextSummaryMissing(lead) {
		summary, err := s.summaries.Summarize(ctx, sig.messages)
		if err == nil && strings.TrimSpace(summary) != "" {
			generated = strings.TrimSpace(summary)
			lead = withUnifiedSummary(lead, generated)
		} else if err != nil {
			s.log.ScoringFallback(lead.ID.String(), "llm_summary", err)
		}
	}

	result := ComputeLeadScore(lead, sig.messages, now)
	stage := ClassifyStage(lead, result.Total, len(sig.messages))

	return Evaluation{
		LeadID:         lead.ID,
		Score:          result,
		Stage:          stage,
		Health:         s.health.Label(result.Total),
		Trend:          CalculateTrend(result.Total, sig.history),
		ComputedAt:     now,
		Digest:         DeriveSummary(lead, sig.messages, result, stage),
		DerivedSummary: generated,
	}
}

func contextSummaryMissing(lead repository.Lead) bool {
	return lead.Context == nil || strings.TrimSpace(lead.Context.UnifiedSummary) == ""
}

// withUnifiedSummary returns a copy of lead whose context carries the given
// unified summary. The stored lead is not touched here; persistence is the
// caller's write-back concern.
func withUnifiedSummary(lead repository.Lead, summary string) repository.Lead {
	patched := lead
	if lead.Context == nil {
		patched.Context = &domain.UnifiedContext{UnifiedSummary: summary}
		return patched
	}
	copied := *lead.Context
	copied.UnifiedSummary = summary
	patched.Context = &copied
	return patched
}

// DeriveSummary produces the compact cross-channel digest attached to an
// evaluation. Kept short and factual: the dashboard renders it verbatim.
func DeriveSummary(lead repository.Lead, messages []repository.Message, result Result, stage string) string {
	if len(messages) == 0 {
		return ""
	}

	channels := map[string]struct{}{}
	for _, msg := range messages {
		channels[msg.Channel] = struct{}{}
	}

	parts := []string{
		fmt.Sprintf("%d messages across %d channel(s)", len(messages), len(channels)),
		fmt.Sprintf("health score %d", result.Total),
		fmt.Sprintf("stage %s", stage),
	}
	bookingDate := derefString(lead.BookingDate)
	bookingTime := derefString(lead.BookingTime)
	if _, ok := domain.ResolveBooking(bookingDate, bookingTime, lead.Context); ok {
		parts = append(parts, "meeting on calendar")
	}
	return strings.Join(parts, "; ")
}
