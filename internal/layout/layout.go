package layout

import (
	"sort"
	"time"

	"cadence/internal/calendar"
)

// Placed is an event with its side-by-side column assignment.
type Placed struct {
	calendar.TimedEvent
	Column      int `json:"column"`
	ColumnCount int `json:"column_count"`
}

// WidthPercent is the rendered width of the event's column.
func (p Placed) WidthPercent() float64 {
	if p.ColumnCount <= 0 {
		return 100
	}
	return 100 / float64(p.ColumnCount)
}

// LeftPercent is the rendered left offset of the event's column.
func (p Placed) LeftPercent() float64 {
	return float64(p.Column) * p.WidthPercent()
}

// Groups sorts events by start (stable) and partitions them into overlap
// groups in a single greedy pass. An event joins the open group when it
// starts before the latest end seen in that group; otherwise it opens a new
// group. Chained overlaps therefore share one group, and events in different
// groups never overlap.
func Groups(events []calendar.TimedEvent) [][]calendar.TimedEvent {
	sorted := make([]calendar.TimedEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	var groups [][]calendar.TimedEvent
	var open []calendar.TimedEvent
	var openEnd time.Time
	for _, e := range sorted {
		if len(open) > 0 && e.Start.Before(openEnd) {
			open = append(open, e)
			if e.End.After(openEnd) {
				openEnd = e.End
			}
			continue
		}
		if len(open) > 0 {
			groups = append(groups, open)
		}
		open = []calendar.TimedEvent{e}
		openEnd = e.End
	}
	if len(open) > 0 {
		groups = append(groups, open)
	}
	return groups
}

// Arrange assigns each event a column equal to its position in its overlap
// group and a column count equal to the group size. Columns are not reused
// within a group once an earlier event ends.
func Arrange(events []calendar.TimedEvent) []Placed {
	placed := make([]Placed, 0, len(events))
	for _, group := range Groups(events) {
		for i, e := range group {
			placed = append(placed, Placed{
				TimedEvent:  e,
				Column:      i,
				ColumnCount: len(group),
			})
		}
	}
	return placed
}
