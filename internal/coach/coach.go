package coach

import (
	"context"
	"fmt"
	"strings"

	"cadence/internal/config"
	"cadence/internal/milestone"
	"cadence/internal/timeline"
)

// Generator proposes key deliverables for a goal's milestones.
type Generator interface {
	Name() string
	Generate(ctx context.Context, req Request) (Response, error)
}

// New builds the generator described by cfg. It returns nil when the coach
// is disabled. The command name "mock" selects MockGenerator.
func New(cfg config.CoachConfig) Generator {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Command == "mock" {
		return &MockGenerator{}
	}
	return &CommandGenerator{Command: cfg.Command, Args: cfg.Args, Timeout: cfg.Timeout}
}

// Request describes one goal and the milestones to fill in.
type Request struct {
	GoalTitle  string                `json:"goal_title"`
	StartDate  string                `json:"start_date"`
	TargetDate string                `json:"target_date"`
	Milestones []milestone.Milestone `json:"milestones"`
}

// Response carries deliverables keyed by milestone order index.
type Response struct {
	Deliverables []MilestoneDeliverables `json:"deliverables"`
}

// MilestoneDeliverables is the generator's answer for one milestone.
type MilestoneDeliverables struct {
	OrderIndex      int      `json:"order_index"`
	KeyDeliverables []string `json:"key_deliverables"`
}

// ForIndex returns the deliverables proposed for a milestone, if any.
func (r Response) ForIndex(orderIndex int) ([]string, bool) {
	for _, d := range r.Deliverables {
		if d.OrderIndex == orderIndex {
			return d.KeyDeliverables, true
		}
	}
	return nil, false
}

// Prompt renders the text sent to an external generator.
func Prompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Goal: %s\n", req.GoalTitle)
	fmt.Fprintf(&b, "Start: %s\nTarget: %s\n\n", req.StartDate, req.TargetDate)
	b.WriteString("Milestones:\n")
	for _, m := range req.Milestones {
		fmt.Fprintf(&b, "- [%d] %s (%s, %d%% by %s)\n",
			m.OrderIndex, m.Title, m.PeriodType, m.CompletionPercentageTarget, m.TargetDate.Format(timeline.DateLayout))
	}
	b.WriteString("\nPropose 1-3 concrete key deliverables per milestone.\n")
	b.WriteString("Respond with JSON only, shaped as:\n")
	b.WriteString(`{"deliverables":[{"order_index":0,"key_deliverables":["..."]}]}`)
	b.WriteString("\n")
	return b.String()
}
