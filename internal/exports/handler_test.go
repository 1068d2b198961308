package exports

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"leadpulse_backend/internal/leads/repository"
)

func TestLeadRow(t *testing.T) {
	email := "lead@example.com"
	stage := "Qualified"
	interaction := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

	lead := repository.Lead{
		ID:                uuid.MustParse("11111111-2222-3333-4444-555555555555"),
		Phone:             "+14155550100",
		Email:             &email,
		DisplayName:       "Dana",
		Brand:             "acme",
		Stage:             &stage,
		StageOverride:     true,
		LastInteractionAt: &interaction,
		CreatedAt:         time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	row := leadRow(lead)
	if len(row) != len(csvHeaders) {
		t.Fatalf("row has %d columns, header has %d", len(row), len(csvHeaders))
	}
	if row[0] != "11111111-2222-3333-4444-555555555555" {
		t.Errorf("id column = %q", row[0])
	}
	if row[2] != email {
		t.Errorf("email column = %q, want %q", row[2], email)
	}
	if row[8] != stage {
		t.Errorf("stage column = %q, want %q", row[8], stage)
	}
	if row[10] != "true" {
		t.Errorf("stage_override column = %q, want true", row[10])
	}
	if row[7] != "2026-03-01T10:30:00Z" {
		t.Errorf("last_interaction_at column = %q", row[7])
	}
}

func TestLeadRowNilFields(t *testing.T) {
	row := leadRow(repository.Lead{ID: uuid.New()})

	for i, col := range []int{2, 5, 6, 7, 8, 9, 11, 12} {
		if row[col] != "" {
			t.Errorf("column %d (check %d) = %q, want empty for nil field", col, i, row[col])
		}
	}
}
