package calendar

import "time"

// Kind tags the source of a TimedEvent.
type Kind string

const (
	KindTask      Kind = "task"
	KindTimeBlock Kind = "time_block"
)

// Task is a task row as read from storage. Only tasks with both schedule
// timestamps appear on the calendar.
type Task struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	GoalID         string     `json:"goal_id,omitempty"`
	Title          string     `json:"title"`
	ScheduledStart *time.Time `json:"scheduled_start,omitempty"`
	ScheduledEnd   *time.Time `json:"scheduled_end,omitempty"`
	PriorityScore  int        `json:"priority_score"`
	Status         string     `json:"status"`
}

// Scheduled reports whether the task carries both schedule timestamps.
func (t Task) Scheduled() bool {
	return t.ScheduledStart != nil && t.ScheduledEnd != nil
}

// TimeBlock is a user-defined interval on the calendar, independent of tasks.
type TimeBlock struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	BlockType   string    `json:"block_type"`
	IsProtected bool      `json:"is_protected"`
}

// TimedEvent is the uniform read-side projection of a task or time block.
// It is rebuilt on every fetch and never persisted; Payload points at the
// source row (*Task or *TimeBlock) for kind-specific rendering.
type TimedEvent struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Kind    Kind      `json:"kind"`
	Payload any       `json:"payload"`
}

// Task returns the task payload, if the event came from a task.
func (e TimedEvent) Task() (*Task, bool) {
	t, ok := e.Payload.(*Task)
	return t, ok && t != nil
}

// TimeBlock returns the time block payload, if the event came from a block.
func (e TimedEvent) TimeBlock() (*TimeBlock, bool) {
	b, ok := e.Payload.(*TimeBlock)
	return b, ok && b != nil
}

// Protected reports whether the event is a protected time block.
func (e TimedEvent) Protected() bool {
	b, ok := e.TimeBlock()
	return ok && b.IsProtected
}

// Degenerate reports whether the event has no positive duration.
func (e TimedEvent) Degenerate() bool {
	return !e.Start.Before(e.End)
}

// Position is an event's vertical placement within a day column, in percent
// of the 24h day.
type Position struct {
	TopPercent    float64 `json:"top_percent"`
	HeightPercent float64 `json:"height_percent"`
}
