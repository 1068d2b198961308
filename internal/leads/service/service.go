// Package service implements the leads application service: intake with
// phone dedup, conversation logging, stage management and score retrieval.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"leadpulse_backend/internal/events"
	"leadpulse_backend/internal/leads/cache"
	"leadpulse_backend/internal/leads/domain"
	"leadpulse_backend/internal/leads/repository"
	"leadpulse_backend/internal/leads/scoring"
	"leadpulse_backend/platform/apperr"
	"leadpulse_backend/platform/logger"
	"leadpulse_backend/platform/phone"
)

// writeBackTimeout bounds the fire-and-forget summary persistence. It runs
// detached from the request context.
const writeBackTimeout = 10 * time.Second

// Service orchestrates lead operations on top of the repository, the scoring
// engine and the score cache.
type Service struct {
	repo   repository.LeadsRepository
	scorer *scoring.Service
	cache  *cache.ScoreCache
	bus    events.Bus
	log    *logger.Logger
}

func New(repo repository.LeadsRepository, scorer *scoring.Service, scoreCache *cache.ScoreCache, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		scorer: scorer,
		cache:  scoreCache,
		bus:    bus,
		log:    log,
	}
}

// CreateLeadInput is the intake payload after transport validation.
type CreateLeadInput struct {
	Phone           string
	Email           *string
	DisplayName     string
	Brand           string
	FirstTouchpoint *string
	Context         *domain.UnifiedContext
}

// Create stores a new lead, deduplicating on the normalized phone key. An
// existing lead with the same key is updated and context-merged instead of
// duplicated.
func (s *Service) Create(ctx context.Context, input CreateLeadInput) (repository.Lead, error) {
	phoneKey := phone.DedupKey(input.Phone)
	if phoneKey == "" {
		return repository.Lead{}, apperr.Validation("phone is required").WithOp("leads.Create")
	}

	existing, err := s.repo.GetByPhoneKey(ctx, phoneKey)
	if err == nil {
		return s.mergeIntoExisting(ctx, existing, input)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return repository.Lead{}, apperr.Wrap(apperr.KindInternal, "lookup lead by phone", err).WithOp("leads.Create")
	}

	normalized := phone.NormalizeE164(input.Phone)
	if normalized == "" {
		normalized = input.Phone
	}

	lead, err := s.repo.Create(ctx, repository.CreateLeadParams{
		Phone:           normalized,
		PhoneKey:        phoneKey,
		Email:           input.Email,
		DisplayName:     input.DisplayName,
		Brand:           input.Brand,
		FirstTouchpoint: input.FirstTouchpoint,
		Context:         input.Context,
	})
	if err != nil {
		return repository.Lead{}, apperr.Wrap(apperr.KindInternal, "create lead", err).WithOp("leads.Create")
	}

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		Brand:     lead.Brand,
		Channel:   derefString(input.FirstTouchpoint),
	})

	return lead, nil
}

// mergeIntoExisting applies intake fields to a deduplicated lead. Only fields
// present in the input overwrite; the context patch deep-merges.
func (s *Service) mergeIntoExisting(ctx context.Context, existing repository.Lead, input CreateLeadInput) (repository.Lead, error) {
	var displayName *string
	if input.DisplayName != "" {
		displayName = &input.DisplayName
	}

	lead, err := s.repo.Update(ctx, existing.ID, repository.UpdateLeadParams{
		Email:       input.Email,
		DisplayName: displayName,
	})
	if err != nil {
		return repository.Lead{}, apperr.Wrap(apperr.KindInternal, "update deduplicated lead", err).WithOp("leads.Create")
	}

	if input.Context != nil {
		lead, err = s.repo.MergeContext(ctx, existing.ID, input.Context)
		if err != nil {
			return repository.Lead{}, apperr.Wrap(apperr.KindInternal, "merge lead context", err).WithOp("leads.Create")
		}
	}

	return lead, nil
}

// GetByID returns a single lead.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Lead{}, apperr.NotFound("lead not found").WithOp("leads.GetByID")
	}
	if err != nil {
		return repository.Lead{}, apperr.Wrap(apperr.KindInternal, "get lead", err).WithOp("leads.GetByID")
	}
	return lead, nil
}

// List returns leads filtered by brand and stage, with the total count.
func (s *Service) List(ctx context.Context, params repository.ListParams) ([]repository.Lead, int, error) {
	leads, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "list leads", err).WithOp("leads.List")
	}
	return leads, total, nil
}

// RecordMessageInput is a validated conversation message plus an optional
// per-channel context patch delivered alongside it.
type RecordMessageInput struct {
	Channel        string
	Sender         string
	Content        string
	ResponseTimeMs *int
	ContextPatch   *domain.UnifiedContext
}

// RecordMessage appends a message, bumps the lead's channel touchpoints,
// merges any context patch and invalidates the cached score. Subscribers of
// MessageLogged pick it up for the async rescore.
func (s *Service) RecordMessage(ctx context.Context, leadID uuid.UUID, input RecordMessageInput) (repository.Message, error) {
	if !domain.IsKnownChannel(input.Channel) {
		return repository.Message{}, apperr.Validation("unknown channel: " + input.Channel).WithOp("leads.RecordMessage")
	}
	if !domain.IsKnownSender(input.Sender) {
		return repository.Message{}, apperr.Validation("unknown sender: " + input.Sender).WithOp("leads.RecordMessage")
	}

	if _, err := s.GetByID(ctx, leadID); err != nil {
		return repository.Message{}, err
	}

	msg, err := s.repo.CreateMessage(ctx, repository.CreateMessageParams{
		LeadID:         leadID,
		Channel:        input.Channel,
		Sender:         input.Sender,
		Content:        input.Content,
		ResponseTimeMs: input.ResponseTimeMs,
	})
	if err != nil {
		return repository.Message{}, apperr.Wrap(apperr.KindInternal, "create message", err).WithOp("leads.RecordMessage")
	}

	if err := s.repo.TouchChannel(ctx, leadID, input.Channel, msg.CreatedAt); err != nil {
		s.log.DatabaseError("leads.touch_channel", err)
	}

	if input.ContextPatch != nil {
		if _, err := s.repo.MergeContext(ctx, leadID, input.ContextPatch); err != nil {
			s.log.DatabaseError("leads.merge_context", err)
		}
	}

	s.cache.Invalidate(ctx, leadID)

	s.bus.Publish(ctx, events.MessageLogged{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
		MessageID: msg.ID,
		Channel:   input.Channel,
		Sender:    input.Sender,
	})

	return msg, nil
}

// ChangeStageInput is a validated manual stage transition.
type ChangeStageInput struct {
	Stage     string
	SubStage  *string
	ChangedBy string
}

// ChangeStage applies a manual stage transition. Manual changes always set
// the override pin so auto-detection cannot move the lead afterwards. The
// history entry captures the health score at the moment of change so trends
// can be derived later.
func (s *Service) ChangeStage(ctx context.Context, leadID uuid.UUID, input ChangeStageInput) (repository.Lead, error) {
	if !domain.IsKnownStage(input.Stage) {
		return repository.Lead{}, apperr.Validation("unknown stage: " + input.Stage).WithOp("leads.ChangeStage")
	}

	current, err := s.GetByID(ctx, leadID)
	if err != nil {
		return repository.Lead{}, err
	}

	scoreAtChange := 0
	if eval, err := s.scorer.Evaluate(ctx, leadID); err == nil {
		scoreAtChange = eval.Score.Total
	} else {
		s.log.ScoringFallback(leadID.String(), "stage_change_score", err)
	}

	lead, err := s.repo.UpdateStage(ctx, leadID, input.Stage, input.SubStage, true)
	if err != nil {
		return repository.Lead{}, apperr.Wrap(apperr.KindInternal, "update stage", err).WithOp("leads.ChangeStage")
	}

	if _, err := s.repo.AppendStageHistory(ctx, repository.AppendStageHistoryParams{
		LeadID:        leadID,
		PreviousStage: current.Stage,
		NewStage:      input.Stage,
		ScoreAtChange: scoreAtChange,
		ChangedBy:     input.ChangedBy,
	}); err != nil {
		s.log.DatabaseError("leads.append_stage_history", err)
	}

	s.cache.Invalidate(ctx, leadID)

	s.bus.Publish(ctx, events.StageChanged{
		BaseEvent:     events.NewBaseEvent(),
		LeadID:        leadID,
		PreviousStage: derefString(current.Stage),
		NewStage:      input.Stage,
		ScoreAtChange: scoreAtChange,
		ChangedBy:     input.ChangedBy,
	})

	return lead, nil
}

// GetScore returns the lead's evaluation, from cache when fresh. A cache miss
// recomputes, repopulates the cache and dispatches the summary write-back
// after the result is ready.
func (s *Service) GetScore(ctx context.Context, leadID uuid.UUID) (scoring.Evaluation, error) {
	if eval, ok := s.cache.Get(ctx, leadID); ok {
		return eval, nil
	}

	eval, err := s.scorer.Evaluate(ctx, leadID)
	if errors.Is(err, repository.ErrNotFound) {
		return scoring.Evaluation{}, apperr.NotFound("lead not found").WithOp("leads.GetScore")
	}
	if err != nil {
		return scoring.Evaluation{}, apperr.Wrap(apperr.KindInternal, "evaluate lead", err).WithOp("leads.GetScore")
	}

	s.cache.Put(ctx, eval)
	s.writeBackSummary(eval)

	s.bus.Publish(ctx, events.LeadScored{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
		Total:     eval.Score.Total,
		Stage:     eval.Stage,
	})

	return eval, nil
}

// Rescore recomputes a lead's evaluation, refreshes the cache and persists
// the derived summary. Used by the scheduler worker and the backfill CLI;
// concurrent rescores of the same lead are last-write-wins.
func (s *Service) Rescore(ctx context.Context, leadID uuid.UUID) (scoring.Evaluation, error) {
	eval, err := s.scorer.Evaluate(ctx, leadID)
	if err != nil {
		return scoring.Evaluation{}, err
	}

	s.cache.Put(ctx, eval)

	if eval.DerivedSummary != "" {
		if err := s.repo.UpdateUnifiedSummary(ctx, leadID, eval.DerivedSummary); err != nil {
			s.log.WriteBackFailed(leadID.String(), err)
		}
	}

	s.bus.Publish(ctx, events.LeadScored{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
		Total:     eval.Score.Total,
		Stage:     eval.Stage,
	})

	return eval, nil
}

// ListMessages returns the lead's conversation log, oldest first.
func (s *Service) ListMessages(ctx context.Context, leadID uuid.UUID, filters repository.MessageFilters) ([]repository.Message, error) {
	if _, err := s.GetByID(ctx, leadID); err != nil {
		return nil, err
	}

	messages, err := s.repo.ListMessages(ctx, leadID, filters)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list messages", err).WithOp("leads.ListMessages")
	}
	return messages, nil
}

// ListStageHistory returns the lead's stage transitions, newest first.
func (s *Service) ListStageHistory(ctx context.Context, leadID uuid.UUID, limit int) ([]repository.StageHistoryEntry, error) {
	if _, err := s.GetByID(ctx, leadID); err != nil {
		return nil, err
	}

	history, err := s.repo.ListStageHistory(ctx, leadID, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list stage history", err).WithOp("leads.ListStageHistory")
	}
	return history, nil
}

// writeBackSummary persists the derived summary on a detached context so the
// score response never waits on it.
func (s *Service) writeBackSummary(eval scoring.Evaluation) {
	if eval.DerivedSummary == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), writeBackTimeout)
		defer cancel()

		if err := s.repo.UpdateUnifiedSummary(ctx, eval.LeadID, eval.DerivedSummary); err != nil {
			s.log.WriteBackFailed(eval.LeadID.String(), err)
		}
	}()
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
