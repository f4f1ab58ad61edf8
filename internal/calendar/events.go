package calendar

import (
	"time"

	"cadence/internal/timeline"
)

const minutesPerDay = 24 * 60

// FromTasks converts task rows into events, skipping unscheduled tasks.
// Input order is preserved.
func FromTasks(tasks []Task) []TimedEvent {
	events := make([]TimedEvent, 0, len(tasks))
	for i := range tasks {
		task := &tasks[i]
		if !task.Scheduled() {
			continue
		}
		events = append(events, TimedEvent{
			ID:      task.ID,
			Title:   task.Title,
			Start:   *task.ScheduledStart,
			End:     *task.ScheduledEnd,
			Kind:    KindTask,
			Payload: task,
		})
	}
	return events
}

// FromTimeBlocks converts time block rows into events, preserving order.
func FromTimeBlocks(blocks []TimeBlock) []TimedEvent {
	events := make([]TimedEvent, 0, len(blocks))
	for i := range blocks {
		block := &blocks[i]
		events = append(events, TimedEvent{
			ID:      block.ID,
			Title:   block.Title,
			Start:   block.StartTime,
			End:     block.EndTime,
			Kind:    KindTimeBlock,
			Payload: block,
		})
	}
	return events
}

// Merge converts tasks then time blocks into a single event list.
func Merge(tasks []Task, blocks []TimeBlock) []TimedEvent {
	events := FromTasks(tasks)
	return append(events, FromTimeBlocks(blocks)...)
}

// Overlaps reports whether the open intervals of a and b intersect.
// Back-to-back events (a.End == b.Start) do not overlap, and a zero-length
// event overlaps nothing.
func Overlaps(a, b TimedEvent) bool {
	if a.Degenerate() || b.Degenerate() {
		return false
	}
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// ForDay returns the events whose interval intersects the day containing
// day, including events that start before it and end after it.
func ForDay(events []TimedEvent, day time.Time) []TimedEvent {
	span := timeline.DayRange(day)
	var out []TimedEvent
	for _, e := range events {
		if intersectsDay(e, span) {
			out = append(out, e)
		}
	}
	return out
}

func intersectsDay(e TimedEvent, span timeline.Range) bool {
	if e.Degenerate() {
		// A zero-length event still belongs to the day its instant falls in.
		return !e.Start.Before(span.Start) && e.Start.Before(span.End)
	}
	return span.Overlaps(e.Start, e.End)
}

// Duration returns the event length in whole minutes.
func Duration(e TimedEvent) int {
	return int(e.End.Sub(e.Start) / time.Minute)
}

// PositionWithinDay places e inside the day column of day. The event is
// clamped to the visible day window before conversion to percentages. The
// window is the day's real length, which is 23 or 25 hours on DST changes.
func PositionWithinDay(e TimedEvent, day time.Time) Position {
	span := timeline.DayRange(day)
	start := clamp(e.Start, span.Start, span.End)
	end := clamp(e.End, span.Start, span.End)
	if end.Before(start) {
		end = start
	}
	total := span.End.Sub(span.Start).Minutes()
	if total <= 0 {
		total = minutesPerDay
	}
	top := start.Sub(span.Start).Minutes()
	height := end.Sub(start).Minutes()
	return Position{
		TopPercent:    top / total * 100,
		HeightPercent: height / total * 100,
	}
}

func clamp(t, lo, hi time.Time) time.Time {
	if t.Before(lo) {
		return lo
	}
	if t.After(hi) {
		return hi
	}
	return t
}
