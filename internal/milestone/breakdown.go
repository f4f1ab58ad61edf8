package milestone

import (
	"errors"
	"fmt"
	"math"
	"time"

	"cadence/internal/timeline"
)

// PeriodType is a milestone tier, ordered coarsest first.
type PeriodType string

const (
	Period12Month PeriodType = "12_month"
	Period6Month  PeriodType = "6_month"
	Period3Month  PeriodType = "3_month"
	Period1Month  PeriodType = "1_month"
	PeriodWeekly  PeriodType = "weekly"
)

// Tiers lists every period type, coarsest first.
var Tiers = []PeriodType{Period12Month, Period6Month, Period3Month, Period1Month, PeriodWeekly}

// ErrTargetBeforeStart is returned when a goal ends before it begins.
var ErrTargetBeforeStart = errors.New("target date is before start date")

// Milestone is one entry of a goal's breakdown schedule.
type Milestone struct {
	PeriodType                 PeriodType `json:"period_type" yaml:"period_type"`
	Title                      string     `json:"title" yaml:"title"`
	Description                string     `json:"description" yaml:"description"`
	TargetDate                 time.Time  `json:"target_date" yaml:"target_date"`
	CompletionPercentageTarget int        `json:"completion_percentage_target" yaml:"completion_percentage_target"`
	KeyDeliverables            []string   `json:"key_deliverables" yaml:"key_deliverables"`
	OrderIndex                 int        `json:"order_index" yaml:"order_index"`
}

type monthTier struct {
	period PeriodType
	months int
	title  string
}

// Gated tiers, emitted in this order when the goal is long enough.
var monthTiers = []monthTier{
	{Period12Month, 12, "12-Month Milestone"},
	{Period6Month, 6, "6-Month Milestone"},
	{Period3Month, 3, "3-Month Milestone"},
}

const weeklyMilestones = 4

// Breakdown computes the milestone schedule for a goal spanning
// [startDate, targetDate]. The result is fully determined by the two dates.
// Order is emission order: gated month tiers coarsest first, then the
// 1-month milestone, then four weekly milestones. This is not chronological.
func Breakdown(startDate, targetDate time.Time) ([]Milestone, error) {
	start := timeline.StartOfDay(startDate)
	target := timeline.StartOfDay(targetDate)
	if target.Before(start) {
		return nil, fmt.Errorf("breakdown %s..%s: %w",
			start.Format(timeline.DateLayout), target.Format(timeline.DateLayout), ErrTargetBeforeStart)
	}

	totalMonths := timeline.MonthsBetween(start, target)
	divisor := max(totalMonths, 1)

	var out []Milestone
	emit := func(m Milestone) {
		m.OrderIndex = len(out)
		m.KeyDeliverables = []string{}
		out = append(out, m)
	}

	for _, tier := range monthTiers {
		if totalMonths < tier.months {
			continue
		}
		date := timeline.AddMonths(start, tier.months)
		pct := percent(tier.months, divisor)
		emit(Milestone{
			PeriodType:                 tier.period,
			Title:                      tier.title,
			Description:                describe(pct, date),
			TargetDate:                 date,
			CompletionPercentageTarget: pct,
		})
	}

	oneMonth := timeline.AddMonths(start, 1)
	pct := percent(1, divisor)
	emit(Milestone{
		PeriodType:                 Period1Month,
		Title:                      "1-Month Milestone",
		Description:                describe(pct, oneMonth),
		TargetDate:                 oneMonth,
		CompletionPercentageTarget: pct,
	})

	for week := 1; week <= weeklyMilestones; week++ {
		date := start.AddDate(0, 0, 7*week)
		pct := percent(week, divisor*weeklyMilestones)
		emit(Milestone{
			PeriodType:                 PeriodWeekly,
			Title:                      fmt.Sprintf("Week %d", week),
			Description:                describe(pct, date),
			TargetDate:                 date,
			CompletionPercentageTarget: pct,
		})
	}

	return out, nil
}

// CurrentPeriodTier returns the coarsest tier reached by the months elapsed
// between startDate and now.
func CurrentPeriodTier(startDate, now time.Time) PeriodType {
	elapsed := timeline.MonthsBetween(startDate, now)
	switch {
	case elapsed >= 12:
		return Period12Month
	case elapsed >= 6:
		return Period6Month
	case elapsed >= 3:
		return Period3Month
	case elapsed >= 1:
		return Period1Month
	default:
		return PeriodWeekly
	}
}

// ActiveMilestones returns the milestones of the tier active at now,
// preserving order.
func ActiveMilestones(milestones []Milestone, startDate, now time.Time) []Milestone {
	tier := CurrentPeriodTier(startDate, now)
	var out []Milestone
	for _, m := range milestones {
		if m.PeriodType == tier {
			out = append(out, m)
		}
	}
	return out
}

// ParsePeriodType validates a stored period type string.
func ParsePeriodType(value string) (PeriodType, error) {
	for _, tier := range Tiers {
		if string(tier) == value {
			return tier, nil
		}
	}
	return "", fmt.Errorf("unknown period type %q", value)
}

func percent(n, of int) int {
	pct := int(math.Round(float64(n) / float64(of) * 100))
	return min(pct, 100)
}

func describe(pct int, date time.Time) string {
	return fmt.Sprintf("Reach %d%% of the goal by %s.", pct, date.Format(timeline.DateLayout))
}
