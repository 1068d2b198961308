package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StageHistoryEntry is a point-in-time snapshot taken whenever a lead's stage
// changes. Entries are append-only; readers consume them newest-first.
type StageHistoryEntry struct {
	ID            uuid.UUID
	LeadID        uuid.UUID
	PreviousStage *string
	NewStage      string
	ScoreAtChange int
	ChangedBy     string
	ChangedAt     time.Time
}

type AppendStageHistoryParams struct {
	LeadID        uuid.UUID
	PreviousStage *string
	NewStage      string
	ScoreAtChange int
	ChangedBy     string
}

func (r *Repository) AppendStageHistory(ctx context.Context, params AppendStageHistoryParams) (StageHistoryEntry, error) {
	var entry StageHistoryEntry
	err := r.pool.QueryRow(ctx, `
		INSERT INTO lead_stage_history (lead_id, previous_stage, new_stage, score_at_change, changed_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, lead_id, previous_stage, new_stage, score_at_change, changed_by, changed_at`,
		params.LeadID, params.PreviousStage, params.NewStage, params.ScoreAtChange, params.ChangedBy,
	).Scan(&entry.ID, &entry.LeadID, &entry.PreviousStage, &entry.NewStage, &entry.ScoreAtChange, &entry.ChangedBy, &entry.ChangedAt)
	return entry, err
}

// ListStageHistory returns entries ordered by changed_at descending. The trend
// calculator only ever needs the two most recent entries.
func (r *Repository) ListStageHistory(ctx context.Context, leadID uuid.UUID, limit int) ([]StageHistoryEntry, error) {
	if limit <= 0 {
		limit = 2
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, previous_stage, new_stage, score_at_change, changed_by, changed_at
		FROM lead_stage_history
		WHERE lead_id = $1
		ORDER BY changed_at DESC
		LIMIT $2`,
		leadID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]StageHistoryEntry, 0, limit)
	for rows.Next() {
		var entry StageHistoryEntry
		if err := rows.Scan(&entry.ID, &entry.LeadID, &entry.PreviousStage, &entry.NewStage, &entry.ScoreAtChange, &entry.ChangedBy, &entry.ChangedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
