package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"leadpulse_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID                uuid.UUID
	Phone             string
	PhoneKey          string
	Email             *string
	DisplayName       string
	Brand             string
	FirstTouchpoint   *string
	LastTouchpoint    *string
	LastInteractionAt *time.Time
	Stage             *string
	SubStage          *string
	StageOverride     bool
	BookingDate       *string
	BookingTime       *string
	Context           *domain.UnifiedContext
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

const leadColumns = `id, phone, phone_key, email, display_name, brand,
	first_touchpoint, last_touchpoint, last_interaction_at,
	lead_stage, sub_stage, stage_override, booking_date, booking_time,
	unified_context, created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	var rawContext []byte
	err := row.Scan(
		&lead.ID, &lead.Phone, &lead.PhoneKey, &lead.Email, &lead.DisplayName, &lead.Brand,
		&lead.FirstTouchpoint, &lead.LastTouchpoint, &lead.LastInteractionAt,
		&lead.Stage, &lead.SubStage, &lead.StageOverride, &lead.BookingDate, &lead.BookingTime,
		&rawContext, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return Lead{}, err
	}

	// A malformed context blob degrades to a nil context rather than failing
	// the read; scoring treats missing context as null-derived fields.
	if len(rawContext) > 0 {
		var ctx domain.UnifiedContext
		if err := json.Unmarshal(rawContext, &ctx); err == nil {
			lead.Context = &ctx
		}
	}

	return lead, nil
}

type CreateLeadParams struct {
	Phone           string
	PhoneKey        string
	Email           *string
	DisplayName     string
	Brand           string
	FirstTouchpoint *string
	Context         *domain.UnifiedContext
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	contextJSON, err := marshalContext(params.Context)
	if err != nil {
		return Lead{}, err
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (phone, phone_key, email, display_name, brand,
			first_touchpoint, last_touchpoint, last_interaction_at, unified_context)
		VALUES ($1, $2, $3, $4, $5, $6, $6, now(), $7)
		RETURNING `+leadColumns,
		params.Phone, params.PhoneKey, params.Email, params.DisplayName, params.Brand,
		params.FirstTouchpoint, contextJSON,
	)
	return scanLead(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

func (r *Repository) GetByPhoneKey(ctx context.Context, phoneKey string) (Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE phone_key = $1`, phoneKey)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

type ListParams struct {
	Brand  string
	Stage  string
	Limit  int
	Offset int
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]Lead, int, error) {
	where := []string{"1=1"}
	args := []any{}

	if params.Brand != "" {
		args = append(args, params.Brand)
		where = append(where, fmt.Sprintf("brand = $%d", len(args)))
	}
	if params.Stage != "" {
		args = append(args, params.Stage)
		where = append(where, fmt.Sprintf("lead_stage = $%d", len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM leads WHERE `+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := params.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	args = append(args, limit, params.Offset)
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE %s ORDER BY last_interaction_at DESC NULLS LAST, created_at DESC LIMIT $%d OFFSET $%d`,
		leadColumns, whereClause, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, lead)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return leads, total, nil
}

type UpdateLeadParams struct {
	Email       *string
	DisplayName *string
	BookingDate *string
	BookingTime *string
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET
			email = COALESCE($2, email),
			display_name = COALESCE($3, display_name),
			booking_date = COALESCE($4, booking_date),
			booking_time = COALESCE($5, booking_time),
			updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns,
		id, params.Email, params.DisplayName, params.BookingDate, params.BookingTime,
	)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

// MergeContext deep-merges patch into the stored unified context under a row
// lock so that concurrent writers on different channels never clobber each
// other's sub-objects.
func (r *Repository) MergeContext(ctx context.Context, id uuid.UUID, patch *domain.UnifiedContext) (Lead, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Lead{}, err
	}
	defer tx.Rollback(ctx)

	var rawContext []byte
	err = tx.QueryRow(ctx, `SELECT unified_context FROM leads WHERE id = $1 FOR UPDATE`, id).Scan(&rawContext)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	if err != nil {
		return Lead{}, err
	}

	var current *domain.UnifiedContext
	if len(rawContext) > 0 {
		var parsed domain.UnifiedContext
		if err := json.Unmarshal(rawContext, &parsed); err == nil {
			current = &parsed
		}
	}

	merged := domain.MergeContext(current, patch)
	mergedJSON, err := marshalContext(merged)
	if err != nil {
		return Lead{}, err
	}

	row := tx.QueryRow(ctx, `
		UPDATE leads SET unified_context = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns, id, mergedJSON)
	lead, err := scanLead(row)
	if err != nil {
		return Lead{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Lead{}, err
	}
	return lead, nil
}

// UpdateStage persists a stage transition. override marks the stage as
// operator-pinned so auto-detection must not overwrite it.
func (r *Repository) UpdateStage(ctx context.Context, id uuid.UUID, stage string, subStage *string, override bool) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET lead_stage = $2, sub_stage = COALESCE($3, sub_stage),
			stage_override = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns,
		id, stage, subStage, override,
	)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

// TouchChannel records a fresh interaction on the given channel, setting the
// first touchpoint only when it was never set.
func (r *Repository) TouchChannel(ctx context.Context, id uuid.UUID, channel string, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET
			first_touchpoint = COALESCE(first_touchpoint, $2),
			last_touchpoint = $2,
			last_interaction_at = $3,
			updated_at = now()
		WHERE id = $1`,
		id, channel, at,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateUnifiedSummary is the best-effort write-back target for derived
// summaries. It merges only the unified_summary field.
func (r *Repository) UpdateUnifiedSummary(ctx context.Context, id uuid.UUID, summary string) error {
	if strings.TrimSpace(summary) == "" {
		return nil
	}
	_, err := r.MergeContext(ctx, id, &domain.UnifiedContext{UnifiedSummary: summary})
	return err
}

// ListIDs pages over lead ids in insertion order for batch jobs.
func (r *Repository) ListIDs(ctx context.Context, afterCreatedAt time.Time, afterID uuid.UUID, limit int) ([]LeadCursor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, created_at FROM leads
		WHERE (created_at, id) > ($1, $2)
		ORDER BY created_at ASC, id ASC
		LIMIT $3`,
		afterCreatedAt, afterID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cursors := make([]LeadCursor, 0, limit)
	for rows.Next() {
		var c LeadCursor
		if err := rows.Scan(&c.ID, &c.CreatedAt); err != nil {
			return nil, err
		}
		cursors = append(cursors, c)
	}
	return cursors, rows.Err()
}

// LeadCursor is a (created_at, id) pagination cursor for batch traversal.
type LeadCursor struct {
	ID        uuid.UUID
	CreatedAt time.Time
}

func marshalContext(ctx *domain.UnifiedContext) ([]byte, error) {
	if ctx == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(ctx)
}
