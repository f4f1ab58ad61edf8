package integration_test

import (
	"database/sql"
	"encoding/json"
	"testing"

	_ "modernc.org/sqlite"
)

type auditRow struct {
	Actor   string
	Type    string
	Payload map[string]any
}

// loadAuditRows reads every audit event in insertion order.
func loadAuditRows(t *testing.T, dbPath string) []auditRow {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open audit db: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	rows, err := db.Query("SELECT actor, type, payload_json FROM events ORDER BY id")
	if err != nil {
		t.Fatalf("query audit events: %v", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []auditRow
	for rows.Next() {
		var row auditRow
		var payload string
		if err := rows.Scan(&row.Actor, &row.Type, &payload); err != nil {
			t.Fatalf("scan audit event: %v", err)
		}
		if err := json.Unmarshal([]byte(payload), &row.Payload); err != nil {
			t.Fatalf("decode %s payload %q: %v", row.Type, payload, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("iterate audit events: %v", err)
	}
	return out
}

func requireAuditEvents(t *testing.T, dbPath string, want []string) {
	t.Helper()
	seen := make(map[string]bool)
	for _, row := range loadAuditRows(t, dbPath) {
		seen[row.Type] = true
	}
	for _, eventType := range want {
		if !seen[eventType] {
			t.Fatalf("missing audit event %s in %s", eventType, dbPath)
		}
	}
}

// lastAuditEvent returns the newest event of eventType recorded for actor.
func lastAuditEvent(t *testing.T, dbPath, actor, eventType string) auditRow {
	t.Helper()
	rows := loadAuditRows(t, dbPath)
	for i := len(rows) - 1; i >= 0; i-- {
		if rows[i].Actor == actor && rows[i].Type == eventType {
			return rows[i]
		}
	}
	t.Fatalf("no %s event for %s in %s", eventType, actor, dbPath)
	return auditRow{}
}
