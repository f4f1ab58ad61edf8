package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"cadence/internal/audit"
	"cadence/internal/calendar"
	"cadence/internal/conflict"
	"cadence/internal/schedule"
)

// Scheduler is the subset of the scheduling service a seed is applied
// through, so seeded rows pass the same conflict policy as any other write.
type Scheduler interface {
	CreateGoal(ctx context.Context, userID string, in schedule.GoalInput) (*schedule.GoalPlan, error)
	CreateTask(ctx context.Context, userID string, in schedule.TaskInput) (*calendar.Task, conflict.Conflicts, error)
	CreateTimeBlock(ctx context.Context, userID string, in schedule.BlockInput) (*calendar.TimeBlock, conflict.Conflicts, error)
}

// Result summarizes an applied seed.
type Result struct {
	User       string   `json:"user"`
	Goals      int      `json:"goals"`
	Milestones int      `json:"milestones"`
	Tasks      int      `json:"tasks"`
	TimeBlocks int      `json:"time_blocks"`
	Conflicts  int      `json:"conflicts"`
	Rejected   []string `json:"rejected"`
}

// LoadFile reads and validates a seed file.
func LoadFile(path string, loc *time.Location) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(data, path, loc)
}

// Apply creates the document's goals, time blocks and tasks, in that order.
// userID overrides the document's user. Rows rejected by the conflict policy
// are listed in the result and do not stop the rest of the seed.
func Apply(ctx context.Context, s Scheduler, doc Document, userID string, logger *audit.Logger) (*Result, error) {
	if userID == "" {
		userID = doc.User
	}
	if userID == "" {
		return nil, ValidationErrors{{File: doc.Source, Field: "user", Message: "is required when no user is given"}}
	}

	res := &Result{User: userID, Rejected: []string{}}
	goalIDs := make(map[string]string, len(doc.Goals))
	for _, g := range doc.Goals {
		plan, err := s.CreateGoal(ctx, userID, schedule.GoalInput{Title: g.Title, StartDate: g.StartDate, TargetDate: g.TargetDate})
		if err != nil {
			return res, fmt.Errorf("seed goal %q: %w", g.Title, err)
		}
		if g.Key != "" {
			goalIDs[g.Key] = plan.Goal.ID
		}
		res.Goals++
		res.Milestones += len(plan.Milestones)
	}

	for _, b := range doc.TimeBlocks {
		_, cs, err := s.CreateTimeBlock(ctx, userID, schedule.BlockInput{
			Title:       b.Title,
			Start:       b.Start,
			End:         b.End,
			BlockType:   b.BlockType,
			IsProtected: b.Protected,
		})
		if rejected, err := res.note(b.Title, cs, err); err != nil {
			return res, fmt.Errorf("seed time block %q: %w", b.Title, err)
		} else if !rejected {
			res.TimeBlocks++
		}
	}

	for _, t := range doc.Tasks {
		_, cs, err := s.CreateTask(ctx, userID, schedule.TaskInput{
			Title:          t.Title,
			GoalID:         goalIDs[t.GoalKey],
			PriorityScore:  t.Priority,
			ScheduledStart: t.Start,
			ScheduledEnd:   t.End,
		})
		if rejected, err := res.note(t.Title, cs, err); err != nil {
			return res, fmt.Errorf("seed task %q: %w", t.Title, err)
		} else if !rejected {
			res.Tasks++
		}
	}

	if err := logger.LogEvent(userID, audit.TypeSeedApplied, map[string]any{
		"source": doc.Source,
		"result": res,
	}); err != nil {
		return res, err
	}
	return res, nil
}

// note folds a write outcome into the result. It reports whether the write
// was rejected by policy and returns any other error.
func (r *Result) note(title string, cs conflict.Conflicts, err error) (bool, error) {
	r.Conflicts += len(cs)
	var conflictErr *schedule.ConflictError
	if errors.As(err, &conflictErr) {
		r.Rejected = append(r.Rejected, title)
		return true, nil
	}
	return false, err
}
