package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cadence/internal/calendar"
	"cadence/internal/timeline"
)

const taskColumns = `id, user_id, goal_id, title, scheduled_start, scheduled_end, priority_score, status`

// CreateTask inserts a task, assigning an id when empty.
func (s *Store) CreateTask(ctx context.Context, t *calendar.Task) error {
	if t.ID == "" {
		t.ID = newID()
	}
	if t.Status == "" {
		t.Status = "todo"
	}
	goalID := sql.NullString{String: t.GoalID, Valid: t.GoalID != ""}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.UserID, goalID, t.Title,
		formatTimePtr(t.ScheduledStart), formatTimePtr(t.ScheduledEnd),
		t.PriorityScore, t.Status)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// GetTask returns the user's task by id.
func (s *Store) GetTask(ctx context.Context, userID, id string) (*calendar.Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = ? AND user_id = ?
	`, id, userID)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

// UpdateTaskSchedule sets or clears a task's schedule. Passing nil for both
// unschedules the task.
func (s *Store) UpdateTaskSchedule(ctx context.Context, userID, id string, start, end *time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks
		SET scheduled_start = ?,
		    scheduled_end = ?
		WHERE id = ? AND user_id = ?
	`, formatTimePtr(start), formatTimePtr(end), id, userID)
	if err != nil {
		return fmt.Errorf("update task schedule: %w", err)
	}
	return requireAffected(res, "task", id)
}

// ScheduledTasks returns the user's scheduled tasks intersecting r, ordered
// by start time.
func (s *Store) ScheduledTasks(ctx context.Context, userID string, r timeline.Range) ([]calendar.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = ?
		  AND scheduled_start IS NOT NULL
		  AND scheduled_end IS NOT NULL
		  AND scheduled_start <= ?
		  AND scheduled_end >= ?
		ORDER BY scheduled_start ASC, id ASC
	`, userID, formatTime(r.End), formatTime(r.Start))
	if err != nil {
		return nil, fmt.Errorf("query scheduled tasks: %w", err)
	}
	defer rows.Close()

	var tasks []calendar.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*calendar.Task, error) {
	var t calendar.Task
	var goalID, start, end sql.NullString
	if err := row.Scan(&t.ID, &t.UserID, &goalID, &t.Title, &start, &end, &t.PriorityScore, &t.Status); err != nil {
		return nil, err
	}
	if goalID.Valid {
		t.GoalID = goalID.String
	}
	var err error
	if t.ScheduledStart, err = parseTimePtr(start); err != nil {
		return nil, err
	}
	if t.ScheduledEnd, err = parseTimePtr(end); err != nil {
		return nil, err
	}
	return &t, nil
}
