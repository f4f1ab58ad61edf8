package schedule

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cadence/internal/audit"
	"cadence/internal/calendar"
	"cadence/internal/conflict"
)

// BlockInput describes a time block to create or the new state of one being
// edited.
type BlockInput struct {
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	BlockType   string    `json:"block_type"`
	IsProtected bool      `json:"is_protected"`
}

// TaskInput describes a task to create. The schedule is optional but both
// ends must be given together.
type TaskInput struct {
	Title          string     `json:"title"`
	GoalID         string     `json:"goal_id"`
	PriorityScore  int        `json:"priority_score"`
	ScheduledStart *time.Time `json:"scheduled_start"`
	ScheduledEnd   *time.Time `json:"scheduled_end"`
}

// Check reports the user's events overlapping [start, end), skipping
// excludeID. It never writes. An interval ending before it starts is
// invalid; a zero-length one conflicts with nothing.
func (s *Service) Check(ctx context.Context, userID string, start, end time.Time, excludeID string) (conflict.Conflicts, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("end %s before start %s: %w",
			end.Format(time.RFC3339), start.Format(time.RFC3339), ErrInvalidInterval)
	}
	return s.detector.Detect(ctx, userID, start, end, excludeID)
}

// CreateTimeBlock stores a new time block subject to the conflict policy.
// Under the warn policy the block is saved and its conflicts are returned.
func (s *Service) CreateTimeBlock(ctx context.Context, userID string, in BlockInput) (*calendar.TimeBlock, conflict.Conflicts, error) {
	if err := validWrite(in.Start, in.End); err != nil {
		return nil, nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, nil, fmt.Errorf("time block title is required: %w", ErrInvalidInput)
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	cs, err := s.detector.Detect(ctx, userID, in.Start, in.End, "")
	if err != nil {
		return nil, nil, err
	}
	if err := s.enforce(userID, audit.TypeTimeBlockCreated, cs); err != nil {
		return nil, cs, err
	}

	block := &calendar.TimeBlock{
		UserID:      userID,
		Title:       title,
		StartTime:   in.Start,
		EndTime:     in.End,
		BlockType:   in.BlockType,
		IsProtected: in.IsProtected,
	}
	if err := s.store.CreateTimeBlock(ctx, block); err != nil {
		return nil, nil, err
	}
	s.record(userID, audit.TypeTimeBlockCreated, map[string]any{
		"id":        block.ID,
		"start":     block.StartTime,
		"end":       block.EndTime,
		"protected": block.IsProtected,
		"conflicts": cs.IDs(),
	})
	return block, cs, nil
}

// MoveTimeBlock replaces a time block's title, interval and type. The block
// is excluded from its own conflict check.
func (s *Service) MoveTimeBlock(ctx context.Context, userID, id string, in BlockInput) (*calendar.TimeBlock, conflict.Conflicts, error) {
	if err := validWrite(in.Start, in.End); err != nil {
		return nil, nil, err
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	block, err := s.store.GetTimeBlock(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}
	cs, err := s.detector.Detect(ctx, userID, in.Start, in.End, id)
	if err != nil {
		return nil, nil, err
	}
	if err := s.enforce(userID, audit.TypeTimeBlockMoved, cs); err != nil {
		return nil, cs, err
	}

	from := map[string]any{"start": block.StartTime, "end": block.EndTime}
	if title := strings.TrimSpace(in.Title); title != "" {
		block.Title = title
	}
	block.StartTime = in.Start
	block.EndTime = in.End
	block.BlockType = in.BlockType
	block.IsProtected = in.IsProtected
	if err := s.store.UpdateTimeBlock(ctx, block); err != nil {
		return nil, nil, err
	}
	s.record(userID, audit.TypeTimeBlockMoved, map[string]any{
		"id":        block.ID,
		"from":      from,
		"start":     block.StartTime,
		"end":       block.EndTime,
		"conflicts": cs.IDs(),
	})
	return block, cs, nil
}

// DeleteTimeBlock removes one of the user's time blocks.
func (s *Service) DeleteTimeBlock(ctx context.Context, userID, id string) error {
	unlock := s.locks.lock(userID)
	defer unlock()

	if err := s.store.DeleteTimeBlock(ctx, userID, id); err != nil {
		return err
	}
	s.record(userID, audit.TypeTimeBlockDeleted, map[string]any{"id": id})
	return nil
}

// CreateTask stores a task. A scheduled task goes through the conflict
// policy like a time block.
func (s *Service) CreateTask(ctx context.Context, userID string, in TaskInput) (*calendar.Task, conflict.Conflicts, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, nil, fmt.Errorf("task title is required: %w", ErrInvalidInput)
	}
	scheduled, err := taskSchedule(in.ScheduledStart, in.ScheduledEnd)
	if err != nil {
		return nil, nil, err
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	if in.GoalID != "" {
		if _, err := s.store.GetGoal(ctx, userID, in.GoalID); err != nil {
			return nil, nil, err
		}
	}

	cs := conflict.Conflicts{}
	if scheduled {
		cs, err = s.detector.Detect(ctx, userID, *in.ScheduledStart, *in.ScheduledEnd, "")
		if err != nil {
			return nil, nil, err
		}
		if err := s.enforce(userID, audit.TypeTaskScheduled, cs); err != nil {
			return nil, cs, err
		}
	}

	task := &calendar.Task{
		UserID:         userID,
		GoalID:         in.GoalID,
		Title:          title,
		ScheduledStart: in.ScheduledStart,
		ScheduledEnd:   in.ScheduledEnd,
		PriorityScore:  in.PriorityScore,
	}
	if err := s.store.CreateTask(ctx, task); err != nil {
		return nil, nil, err
	}
	if scheduled {
		s.record(userID, audit.TypeTaskScheduled, map[string]any{
			"id":        task.ID,
			"start":     task.ScheduledStart,
			"end":       task.ScheduledEnd,
			"conflicts": cs.IDs(),
		})
	}
	return task, cs, nil
}

// ScheduleTask moves a task to [start, end), or unschedules it when both
// are nil. The task is excluded from its own conflict check.
func (s *Service) ScheduleTask(ctx context.Context, userID, id string, start, end *time.Time) (*calendar.Task, conflict.Conflicts, error) {
	scheduled, err := taskSchedule(start, end)
	if err != nil {
		return nil, nil, err
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	task, err := s.store.GetTask(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}

	cs := conflict.Conflicts{}
	if scheduled {
		cs, err = s.detector.Detect(ctx, userID, *start, *end, id)
		if err != nil {
			return nil, nil, err
		}
		if err := s.enforce(userID, audit.TypeTaskScheduled, cs); err != nil {
			return nil, cs, err
		}
	}

	if err := s.store.UpdateTaskSchedule(ctx, userID, id, start, end); err != nil {
		return nil, nil, err
	}
	task.ScheduledStart = start
	task.ScheduledEnd = end
	s.record(userID, audit.TypeTaskScheduled, map[string]any{
		"id":        id,
		"start":     start,
		"end":       end,
		"conflicts": cs.IDs(),
	})
	return task, cs, nil
}

func taskSchedule(start, end *time.Time) (bool, error) {
	switch {
	case start == nil && end == nil:
		return false, nil
	case start == nil || end == nil:
		return false, fmt.Errorf("scheduled start and end must be set together: %w", ErrInvalidInterval)
	}
	if err := validWrite(*start, *end); err != nil {
		return false, err
	}
	return true, nil
}
