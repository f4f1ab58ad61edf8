package main

import (
	"fmt"
	"strings"
	"time"

	"cadence/internal/audit"
	"cadence/internal/coach"
	"cadence/internal/config"
	"cadence/internal/notify"
	"cadence/internal/schedule"
	"cadence/internal/store"
	"cadence/internal/timeline"
	"cadence/internal/workspace"
)

// app bundles what a command needs once the data directory is open.
type app struct {
	cfg    *config.Config
	ws     *workspace.Workspace
	store  *store.Store
	audit  *audit.Logger
	svc    *schedule.Service
	loc    *time.Location
	weekOn time.Weekday
}

func openApp() (*app, error) {
	cfg, ws, err := config.Load(dataDir)
	if err != nil {
		return nil, err
	}
	if err := ws.EnsureDirs(); err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	weekOn, err := cfg.Weekday()
	if err != nil {
		return nil, err
	}

	st, err := store.Open(ws.StateDBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger := audit.NewLogger(ws.AuditDBPath)
	svc := schedule.New(st, schedule.Options{
		Policy:       cfg.ConflictPolicy,
		Location:     loc,
		WeekStartsOn: weekOn,
		Coach:        coach.New(cfg.Coach),
		Audit:        logger,
		Notifier:     notify.New(cfg.Notify),
	})
	return &app{cfg: cfg, ws: ws, store: st, audit: logger, svc: svc, loc: loc, weekOn: weekOn}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// parseTimestamp reads a timestamp flag, RFC3339 or local to loc.
func parseTimestamp(flagName, value string, loc *time.Location) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, fmt.Errorf("--%s is required", flagName)
	}
	t, err := timeline.ParseLocalTimestamp(value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %w", flagName, err)
	}
	return t, nil
}

func requireUser(user string) error {
	if strings.TrimSpace(user) == "" {
		return fmt.Errorf("--user is required")
	}
	return nil
}
