package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"cadence/internal/milestone"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestBreakdownText(t *testing.T) {
	out, err := execute(t, "breakdown", "--start", "2025-01-01", "--target", "2026-01-01")
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	for _, want := range []string{"12_month", "6_month", "3_month", "1_month", "weekly", "2026-01-01", "100%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestBreakdownJSONAndYAML(t *testing.T) {
	out, err := execute(t, "breakdown", "--json", "--start", "2025-01-01", "--target", "2025-04-01")
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	var fromJSON []milestone.Milestone
	if err := json.Unmarshal([]byte(out), &fromJSON); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if len(fromJSON) != 6 || fromJSON[0].PeriodType != milestone.Period3Month {
		t.Fatalf("unexpected milestones: %+v", fromJSON)
	}

	out, err = execute(t, "breakdown", "--yaml", "--start", "2025-01-01", "--target", "2025-04-01")
	if err != nil {
		t.Fatalf("breakdown yaml: %v", err)
	}
	var fromYAML []map[string]any
	if err := yaml.Unmarshal([]byte(out), &fromYAML); err != nil {
		t.Fatalf("decode yaml: %v\n%s", err, out)
	}
	if len(fromYAML) != 6 || fromYAML[0]["period_type"] != "3_month" {
		t.Fatalf("unexpected yaml: %v", fromYAML)
	}
}

func TestBreakdownRejectsReversedDates(t *testing.T) {
	if _, err := execute(t, "breakdown", "--start", "2025-05-01", "--target", "2025-01-01"); err == nil {
		t.Fatalf("expected error for target before start")
	}
	if _, err := execute(t, "breakdown", "--start", "May 1", "--target", "2025-01-01"); err == nil {
		t.Fatalf("expected error for bad start")
	}
}

func TestTier(t *testing.T) {
	cases := map[string]string{
		"2025-01-20": "weekly",
		"2025-02-01": "1_month",
		"2025-07-15": "6_month",
		"2026-01-01": "12_month",
	}
	for now, want := range cases {
		out, err := execute(t, "tier", "--start", "2025-01-15", "--now", now)
		if err != nil {
			t.Fatalf("tier %s: %v", now, err)
		}
		if strings.TrimSpace(out) != want {
			t.Fatalf("tier at %s = %q, want %q", now, out, want)
		}
	}
}

func TestCheckRequiresUser(t *testing.T) {
	_, err := execute(t, "check", "--data-dir", t.TempDir(), "--start", "2025-03-10 09:00", "--end", "2025-03-10 10:00")
	if err == nil || !strings.Contains(err.Error(), "--user") {
		t.Fatalf("expected --user error, got %v", err)
	}
}

func TestSeedThenCheckAndDay(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CADENCE_CONFLICT_POLICY", "block_protected")
	seedFile := filepath.Join("..", "..", "internal", "seed", "testdata", "demo.yaml")
	abs, err := filepath.Abs(seedFile)
	if err != nil {
		t.Fatalf("abs: %v", err)
	}

	out, err := execute(t, "seed", "--data-dir", dir, abs)
	if err != nil {
		t.Fatalf("seed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "user alice") || !strings.Contains(out, "Long run") {
		t.Fatalf("unexpected seed output:\n%s", out)
	}

	out, err = execute(t, "check", "--data-dir", dir, "-u", "alice", "--json",
		"--start", "2025-03-10T10:00:00Z", "--end", "2025-03-10T13:15:00Z")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	var check struct {
		HasConflicts bool `json:"has_conflicts"`
		Conflicts    []struct {
			Title     string `json:"title"`
			Protected bool   `json:"protected"`
		} `json:"conflicts"`
	}
	if err := json.Unmarshal([]byte(out), &check); err != nil {
		t.Fatalf("decode check: %v\n%s", err, out)
	}
	if !check.HasConflicts || len(check.Conflicts) != 2 {
		t.Fatalf("expected 2 conflicts, got %+v", check)
	}
	if check.Conflicts[0].Title != "Deep work" || !check.Conflicts[0].Protected {
		t.Fatalf("first conflict = %+v", check.Conflicts[0])
	}

	out, err = execute(t, "day", "--data-dir", dir, "-u", "alice", "--date", "2025-03-10")
	if err != nil {
		t.Fatalf("day: %v", err)
	}
	if !strings.Contains(out, "2025-03-10 (2 events)") || !strings.Contains(out, "Team sync") {
		t.Fatalf("unexpected day output:\n%s", out)
	}

	out, err = execute(t, "audit", "--data-dir", dir, "--actor", "alice", "-n", "1")
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if !strings.Contains(out, "seed_applied") {
		t.Fatalf("expected seed_applied event, got:\n%s", out)
	}
}
