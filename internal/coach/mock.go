package coach

import (
	"context"
	"fmt"

	"cadence/internal/milestone"
)

// MockGenerator is a deterministic, offline generator used in tests and
// when no external command is configured.
type MockGenerator struct{}

func (g *MockGenerator) Name() string {
	return "mock"
}

func (g *MockGenerator) Generate(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	resp := Response{Deliverables: make([]MilestoneDeliverables, 0, len(req.Milestones))}
	for _, m := range req.Milestones {
		resp.Deliverables = append(resp.Deliverables, MilestoneDeliverables{
			OrderIndex:      m.OrderIndex,
			KeyDeliverables: mockDeliverables(req.GoalTitle, m),
		})
	}
	return resp, nil
}

func mockDeliverables(goal string, m milestone.Milestone) []string {
	switch m.PeriodType {
	case milestone.PeriodWeekly:
		return []string{fmt.Sprintf("%s: finish the next step for %q", m.Title, goal)}
	default:
		return []string{
			fmt.Sprintf("Review progress toward %q", goal),
			fmt.Sprintf("Reach %d%% of the goal", m.CompletionPercentageTarget),
		}
	}
}
