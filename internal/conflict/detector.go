package conflict

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cadence/internal/calendar"
	"cadence/internal/timeline"
)

// Source reads a user's existing schedule. Implementations return every
// row whose interval intersects the range; exact overlap filtering happens
// in the Detector.
type Source interface {
	ScheduledTasks(ctx context.Context, userID string, r timeline.Range) ([]calendar.Task, error)
	TimeBlocks(ctx context.Context, userID string, r timeline.Range) ([]calendar.TimeBlock, error)
}

// Conflict describes an existing event that collides with a proposed interval.
type Conflict struct {
	EventID   string        `json:"event_id"`
	Kind      calendar.Kind `json:"kind"`
	Title     string        `json:"title"`
	Start     time.Time     `json:"start"`
	End       time.Time     `json:"end"`
	Protected bool          `json:"protected"`
	BlockType string        `json:"block_type,omitempty"`
}

// Conflicts is an ordered conflict list.
type Conflicts []Conflict

// HasProtected reports whether any conflict is a protected time block.
func (cs Conflicts) HasProtected() bool {
	for _, c := range cs {
		if c.Protected {
			return true
		}
	}
	return false
}

// IDs returns the conflicting event ids in order.
func (cs Conflicts) IDs() []string {
	ids := make([]string, 0, len(cs))
	for _, c := range cs {
		ids = append(ids, c.EventID)
	}
	return ids
}

// Detector checks proposed intervals against stored schedules. It only
// reads; what to do about a conflict is the caller's decision.
type Detector struct {
	source Source
}

// NewDetector returns a Detector reading from source.
func NewDetector(source Source) *Detector {
	return &Detector{source: source}
}

// Detect returns the user's events overlapping [start, end) under the
// exclusive-boundary rule, ordered by start time. excludeID names the event
// being edited so it does not conflict with its own previous position. A
// zero-length or inverted interval conflicts with nothing.
func (d *Detector) Detect(ctx context.Context, userID string, start, end time.Time, excludeID string) (Conflicts, error) {
	if !start.Before(end) {
		return Conflicts{}, nil
	}
	window := timeline.Range{Start: start, End: end}

	tasks, err := d.source.ScheduledTasks(ctx, userID, window)
	if err != nil {
		return nil, fmt.Errorf("load scheduled tasks: %w", err)
	}
	blocks, err := d.source.TimeBlocks(ctx, userID, window)
	if err != nil {
		return nil, fmt.Errorf("load time blocks: %w", err)
	}

	return Match(calendar.Merge(tasks, blocks), start, end, excludeID), nil
}

// Match filters events down to those overlapping [start, end), skipping
// excludeID, and converts them to conflicts ordered by start.
func Match(events []calendar.TimedEvent, start, end time.Time, excludeID string) Conflicts {
	proposed := calendar.TimedEvent{Start: start, End: end}
	out := Conflicts{}
	for _, e := range events {
		if excludeID != "" && e.ID == excludeID {
			continue
		}
		if !calendar.Overlaps(proposed, e) {
			continue
		}
		c := Conflict{
			EventID: e.ID,
			Kind:    e.Kind,
			Title:   e.Title,
			Start:   e.Start,
			End:     e.End,
		}
		if block, ok := e.TimeBlock(); ok {
			c.Protected = block.IsProtected
			c.BlockType = block.BlockType
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}
