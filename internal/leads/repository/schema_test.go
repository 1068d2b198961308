package repository

import (
	"regexp"
	"strings"
	"testing"

	"leadpulse_backend/migrations"
)

// The repositories hand-write their column lists, so a rename in a migration
// can silently break every query. These tests pin the query columns to the
// columns the embedded migrations actually create.

func migrationColumns(t *testing.T, file, table string) map[string]struct{} {
	t.Helper()

	raw, err := migrations.FS.ReadFile(file)
	if err != nil {
		t.Fatalf("read migration %s: %v", file, err)
	}

	create := regexp.MustCompile(`(?s)CREATE TABLE ` + table + ` \((.*?)\);`)
	match := create.FindSubmatch(raw)
	if match == nil {
		t.Fatalf("migration %s does not create table %s", file, table)
	}

	columns := make(map[string]struct{})
	for _, line := range strings.Split(string(match[1]), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		columns[fields[0]] = struct{}{}
	}
	return columns
}

func assertColumnsExist(t *testing.T, columns map[string]struct{}, table, list string) {
	t.Helper()

	for _, col := range strings.Split(list, ",") {
		col = strings.TrimSpace(col)
		if col == "" {
			continue
		}
		if _, ok := columns[col]; !ok {
			t.Errorf("query column %q does not exist on table %s", col, table)
		}
	}
}

func TestLeadColumnsMatchMigration(t *testing.T) {
	columns := migrationColumns(t, "00001_create_leads.sql", "leads")
	assertColumnsExist(t, columns, "leads", leadColumns)

	for _, col := range []string{"unified_context", "phone_key", "lead_stage", "stage_override"} {
		if _, ok := columns[col]; !ok {
			t.Errorf("leads migration is missing column %q", col)
		}
	}
}

func TestMessageColumnsMatchMigration(t *testing.T) {
	columns := migrationColumns(t, "00002_create_conversation_messages.sql", "conversation_messages")
	assertColumnsExist(t, columns, "conversation_messages",
		"id, lead_id, channel, sender, content, response_time_ms, created_at")
}

func TestStageHistoryColumnsMatchMigration(t *testing.T) {
	columns := migrationColumns(t, "00003_create_lead_stage_history.sql", "lead_stage_history")
	assertColumnsExist(t, columns, "lead_stage_history",
		"id, lead_id, previous_stage, new_stage, score_at_change, changed_by, changed_at")
}
