package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cadence/internal/milestone"
)

// Goal is a user goal with the date span its milestones are derived from.
type Goal struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Title      string    `json:"title"`
	StartDate  time.Time `json:"start_date"`
	TargetDate time.Time `json:"target_date"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateGoal inserts a goal, assigning an id when empty.
func (s *Store) CreateGoal(ctx context.Context, g *Goal) error {
	if g.ID == "" {
		g.ID = newID()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO goals (id, user_id, title, start_date, target_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, g.ID, g.UserID, g.Title, formatDate(g.StartDate), formatDate(g.TargetDate), formatTime(g.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}
	return nil
}

// GetGoal returns the user's goal by id.
func (s *Store) GetGoal(ctx context.Context, userID, id string) (*Goal, error) {
	var g Goal
	var startDate, targetDate, createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, start_date, target_date, created_at
		FROM goals
		WHERE id = ? AND user_id = ?
	`, id, userID).Scan(&g.ID, &g.UserID, &g.Title, &startDate, &targetDate, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("goal %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}

	if g.StartDate, err = parseDate(startDate); err != nil {
		return nil, err
	}
	if g.TargetDate, err = parseDate(targetDate); err != nil {
		return nil, err
	}
	if g.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &g, nil
}

// RescheduleGoal changes a goal's date span and swaps in its regenerated
// milestones in one transaction, so dates and milestones never disagree.
func (s *Store) RescheduleGoal(ctx context.Context, userID, id string, start, target time.Time, milestones []milestone.Milestone) ([]MilestoneRecord, error) {
	var records []MilestoneRecord
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE goals
			SET start_date = ?,
			    target_date = ?
			WHERE id = ? AND user_id = ?
		`, formatDate(start), formatDate(target), id, userID)
		if err != nil {
			return fmt.Errorf("update goal: %w", err)
		}
		if err := requireAffected(res, "goal", id); err != nil {
			return err
		}
		records, err = replaceMilestones(ctx, tx, id, milestones)
		return err
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteGoal removes a goal. Its milestones are removed by cascade and its
// tasks are detached.
func (s *Store) DeleteGoal(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM goals WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return requireAffected(res, "goal", id)
}
