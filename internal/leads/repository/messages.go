package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message is one logged conversation utterance. Messages are append-only and
// immutable once written.
type Message struct {
	ID             uuid.UUID
	LeadID         uuid.UUID
	Channel        string
	Sender         string
	Content        string
	ResponseTimeMs *int
	CreatedAt      time.Time
}

type CreateMessageParams struct {
	LeadID         uuid.UUID
	Channel        string
	Sender         string
	Content        string
	ResponseTimeMs *int
}

func (r *Repository) CreateMessage(ctx context.Context, params CreateMessageParams) (Message, error) {
	var msg Message
	err := r.pool.QueryRow(ctx, `
		INSERT INTO conversation_messages (lead_id, channel, sender, content, response_time_ms)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, lead_id, channel, sender, content, response_time_ms, created_at`,
		params.LeadID, params.Channel, params.Sender, params.Content, params.ResponseTimeMs,
	).Scan(&msg.ID, &msg.LeadID, &msg.Channel, &msg.Sender, &msg.Content, &msg.ResponseTimeMs, &msg.CreatedAt)
	return msg, err
}

// MessageFilters narrows a message listing. Zero values mean no filtering.
type MessageFilters struct {
	Channel string
	Sender  string
	Since   time.Time
}

// ListMessages returns the lead's messages ordered by created_at ascending.
func (r *Repository) ListMessages(ctx context.Context, leadID uuid.UUID, filters MessageFilters) ([]Message, error) {
	where := []string{"lead_id = $1"}
	args := []any{leadID}

	if filters.Channel != "" {
		args = append(args, filters.Channel)
		where = append(where, fmt.Sprintf("channel = $%d", len(args)))
	}
	if filters.Sender != "" {
		args = append(args, filters.Sender)
		where = append(where, fmt.Sprintf("sender = $%d", len(args)))
	}
	if !filters.Since.IsZero() {
		args = append(args, filters.Since)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}

	query := fmt.Sprintf(`
		SELECT id, lead_id, channel, sender, content, response_time_ms, created_at
		FROM conversation_messages
		WHERE %s
		ORDER BY created_at ASC`, strings.Join(where, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]Message, 0)
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.ID, &msg.LeadID, &msg.Channel, &msg.Sender, &msg.Content, &msg.ResponseTimeMs, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
