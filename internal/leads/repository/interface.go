package repository

import (
	"context"
	"time"

	"leadpulse_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// LeadReader provides read-only access to lead data.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	GetByPhoneKey(ctx context.Context, phoneKey string) (Lead, error)
	List(ctx context.Context, params ListParams) ([]Lead, int, error)
	ListIDs(ctx context.Context, afterCreatedAt time.Time, afterID uuid.UUID, limit int) ([]LeadCursor, error)
}

// LeadWriter provides write operations for lead management.
type LeadWriter interface {
	Create(ctx context.Context, params CreateLeadParams) (Lead, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (Lead, error)
	MergeContext(ctx context.Context, id uuid.UUID, patch *domain.UnifiedContext) (Lead, error)
	UpdateStage(ctx context.Context, id uuid.UUID, stage string, subStage *string, override bool) (Lead, error)
	TouchChannel(ctx context.Context, id uuid.UUID, channel string, at time.Time) error
}

// SummaryWriter is the best-effort write-back target for derived summaries.
type SummaryWriter interface {
	UpdateUnifiedSummary(ctx context.Context, id uuid.UUID, summary string) error
}

// MessageReader provides read access to the conversation log.
type MessageReader interface {
	ListMessages(ctx context.Context, leadID uuid.UUID, filters MessageFilters) ([]Message, error)
}

// MessageWriter appends to the conversation log.
type MessageWriter interface {
	CreateMessage(ctx context.Context, params CreateMessageParams) (Message, error)
}

// StageHistoryReader provides read access to stage transition snapshots.
type StageHistoryReader interface {
	ListStageHistory(ctx context.Context, leadID uuid.UUID, limit int) ([]StageHistoryEntry, error)
}

// StageHistoryWriter appends stage transition snapshots.
type StageHistoryWriter interface {
	AppendStageHistory(ctx context.Context, params AppendStageHistoryParams) (StageHistoryEntry, error)
}

// =====================================
// Composite Interface
// =====================================

// LeadsRepository defines the complete interface for leads data operations.
// Composed of smaller, focused interfaces for better testability and flexibility.
type LeadsRepository interface {
	LeadReader
	LeadWriter
	SummaryWriter
	MessageReader
	MessageWriter
	StageHistoryReader
	StageHistoryWriter
}

// Ensure Repository implements LeadsRepository
var _ LeadsRepository = (*Repository)(nil)
