package schedule

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	"cadence/internal/audit"
	"cadence/internal/coach"
	"cadence/internal/milestone"
	"cadence/internal/store"
	"cadence/internal/timeline"
)

// GoalInput describes a goal to create.
type GoalInput struct {
	Title      string    `json:"title"`
	StartDate  time.Time `json:"start_date"`
	TargetDate time.Time `json:"target_date"`
}

// GoalPlan is a goal with its current milestone schedule.
type GoalPlan struct {
	Goal       *store.Goal             `json:"goal"`
	Milestones []store.MilestoneRecord `json:"milestones"`
	Tier       milestone.PeriodType    `json:"current_tier"`
	Diff       string                  `json:"diff,omitempty"`
}

// CreateGoal stores a goal and generates its milestones.
func (s *Service) CreateGoal(ctx context.Context, userID string, in GoalInput) (*GoalPlan, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("goal title is required: %w", ErrInvalidInput)
	}
	start, target := s.localDate(in.StartDate), s.localDate(in.TargetDate)
	milestones, err := milestone.Breakdown(start, target)
	if err != nil {
		return nil, err
	}

	goal := &store.Goal{UserID: userID, Title: title, StartDate: start, TargetDate: target}
	if err := s.store.CreateGoal(ctx, goal); err != nil {
		return nil, err
	}
	records, err := s.store.ReplaceMilestones(ctx, goal.ID, milestones)
	if err != nil {
		if delErr := s.store.DeleteGoal(ctx, userID, goal.ID); delErr != nil {
			log.Printf("remove goal %s after failed breakdown: %v", goal.ID, delErr)
		}
		return nil, err
	}
	s.record(userID, audit.TypeGoalCreated, map[string]any{
		"id":          goal.ID,
		"title":       goal.Title,
		"start_date":  goal.StartDate.Format(timeline.DateLayout),
		"target_date": goal.TargetDate.Format(timeline.DateLayout),
	})
	s.record(userID, audit.TypeMilestonesGenerated, map[string]any{
		"goal_id": goal.ID,
		"count":   len(records),
	})

	plan := &GoalPlan{Goal: goal, Milestones: records, Tier: milestone.CurrentPeriodTier(start, s.now())}
	if err := s.assignDeliverables(ctx, userID, plan); err != nil {
		return plan, err
	}
	return plan, nil
}

// SetGoalDates changes a goal's dates and regenerates its milestones. The
// previous set is replaced, so repeating the call leaves the same schedule.
// The change is recorded to the audit log as a unified diff.
func (s *Service) SetGoalDates(ctx context.Context, userID, goalID string, startDate, targetDate time.Time) (*GoalPlan, error) {
	start, target := s.localDate(startDate), s.localDate(targetDate)
	milestones, err := milestone.Breakdown(start, target)
	if err != nil {
		return nil, err
	}

	goal, err := s.store.GetGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	previous, err := s.store.ListMilestones(ctx, goalID)
	if err != nil {
		return nil, err
	}
	records, err := s.store.RescheduleGoal(ctx, userID, goalID, start, target, milestones)
	if err != nil {
		return nil, err
	}
	goal.StartDate, goal.TargetDate = start, target

	diff, err := milestoneDiff(previous, records)
	if err != nil {
		return nil, err
	}
	s.record(userID, audit.TypeMilestonesGenerated, map[string]any{
		"goal_id": goalID,
		"count":   len(records),
		"diff":    diff,
	})

	plan := &GoalPlan{Goal: goal, Milestones: records, Tier: milestone.CurrentPeriodTier(start, s.now()), Diff: diff}
	if err := s.assignDeliverables(ctx, userID, plan); err != nil {
		return plan, err
	}
	return plan, nil
}

// Milestones returns a goal's stored milestones in emission order.
func (s *Service) Milestones(ctx context.Context, userID, goalID string) (*GoalPlan, error) {
	goal, err := s.store.GetGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	records, err := s.store.ListMilestones(ctx, goalID)
	if err != nil {
		return nil, err
	}
	return &GoalPlan{Goal: goal, Milestones: records, Tier: milestone.CurrentPeriodTier(goal.StartDate, s.now())}, nil
}

// Tier returns the goal's current period tier and the milestones of that tier.
func (s *Service) Tier(ctx context.Context, userID, goalID string) (milestone.PeriodType, []store.MilestoneRecord, error) {
	plan, err := s.Milestones(ctx, userID, goalID)
	if err != nil {
		return "", nil, err
	}
	active := []store.MilestoneRecord{}
	for _, rec := range plan.Milestones {
		if rec.PeriodType == plan.Tier {
			active = append(active, rec)
		}
	}
	return plan.Tier, active, nil
}

// DeleteGoal removes a goal. Its milestones go with it and its tasks are
// detached.
func (s *Service) DeleteGoal(ctx context.Context, userID, goalID string) error {
	if err := s.store.DeleteGoal(ctx, userID, goalID); err != nil {
		return err
	}
	s.record(userID, audit.TypeGoalDeleted, map[string]any{"id": goalID})
	return nil
}

// assignDeliverables asks the coach, when configured, for key deliverables
// and stores them on the plan's milestones.
func (s *Service) assignDeliverables(ctx context.Context, userID string, plan *GoalPlan) error {
	if s.coach == nil || len(plan.Milestones) == 0 {
		return nil
	}
	req := coach.Request{
		GoalTitle:  plan.Goal.Title,
		StartDate:  plan.Goal.StartDate.Format(timeline.DateLayout),
		TargetDate: plan.Goal.TargetDate.Format(timeline.DateLayout),
	}
	for _, rec := range plan.Milestones {
		req.Milestones = append(req.Milestones, rec.Milestone)
	}
	resp, err := s.coach.Generate(ctx, req)
	if err != nil {
		return &CoachError{Generator: s.coach.Name(), Err: err}
	}

	assigned := 0
	for i := range plan.Milestones {
		rec := &plan.Milestones[i]
		items, ok := resp.ForIndex(rec.OrderIndex)
		if !ok {
			continue
		}
		if err := s.store.UpdateMilestoneDeliverables(ctx, rec.ID, items); err != nil {
			return err
		}
		rec.KeyDeliverables = items
		assigned++
	}
	s.record(userID, audit.TypeDeliverablesAssigned, map[string]any{
		"goal_id":   plan.Goal.ID,
		"generator": s.coach.Name(),
		"assigned":  assigned,
	})
	return nil
}

func milestoneDiff(before, after []store.MilestoneRecord) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        milestoneLines(before),
		B:        milestoneLines(after),
		FromFile: "milestones/before",
		ToFile:   "milestones/after",
		Context:  1,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("diff milestones: %w", err)
	}
	return text, nil
}

func milestoneLines(records []store.MilestoneRecord) []string {
	lines := make([]string, 0, len(records))
	for _, rec := range records {
		lines = append(lines, fmt.Sprintf("%d %s %s %d%%\n",
			rec.OrderIndex, rec.Title, rec.TargetDate.Format(timeline.DateLayout), rec.CompletionPercentageTarget))
	}
	return lines
}
