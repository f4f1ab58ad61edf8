package schedule

import (
	"context"
	"time"

	"cadence/internal/calendar"
	"cadence/internal/layout"
	"cadence/internal/timeline"
)

// WeekView is the render model of a week: seven laid-out day columns.
type WeekView struct {
	Start string           `json:"start"`
	End   string           `json:"end"`
	Days  []layout.DayView `json:"days"`
}

// MonthView is a month grid padded to whole weeks.
type MonthView struct {
	Month string     `json:"month"`
	Days  []MonthDay `json:"days"`
}

// MonthDay is one cell of a month grid.
type MonthDay struct {
	Date    string       `json:"date"`
	InMonth bool         `json:"in_month"`
	Count   int          `json:"count"`
	Events  []MonthEntry `json:"events"`
}

// MonthEntry is the compact form of an event shown in a month cell.
type MonthEntry struct {
	ID    string        `json:"id"`
	Title string        `json:"title"`
	Kind  calendar.Kind `json:"kind"`
	Start time.Time     `json:"start"`
	Color string        `json:"color"`
}

// Events returns the user's tasks and time blocks intersecting r as timed
// events, tasks first. Unscheduled tasks never appear.
func (s *Service) Events(ctx context.Context, userID string, r timeline.Range) ([]calendar.TimedEvent, error) {
	tasks, err := s.store.ScheduledTasks(ctx, userID, r)
	if err != nil {
		return nil, err
	}
	blocks, err := s.store.TimeBlocks(ctx, userID, r)
	if err != nil {
		return nil, err
	}
	// Storage returns a superset that includes rows touching r's edges.
	var out []calendar.TimedEvent
	for _, e := range calendar.Merge(tasks, blocks) {
		if inRange(e, r) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Day lays out the calendar date of day in the service's zone.
func (s *Service) Day(ctx context.Context, userID string, day time.Time) (layout.DayView, error) {
	d := s.localDate(day)
	events, err := s.Events(ctx, userID, timeline.DayRange(d))
	if err != nil {
		return layout.DayView{}, err
	}
	return layout.Day(events, d), nil
}

// Week lays out the week containing date.
func (s *Service) Week(ctx context.Context, userID string, date time.Time) (WeekView, error) {
	d := s.localDate(date)
	r := timeline.WeekRange(d, s.weekStartsOn)
	events, err := s.Events(ctx, userID, r)
	if err != nil {
		return WeekView{}, err
	}
	return WeekView{
		Start: r.Start.Format(timeline.DateLayout),
		End:   r.End.Format(timeline.DateLayout),
		Days:  layout.Week(events, d, s.weekStartsOn),
	}, nil
}

// Month builds the grid for the month containing date, including the
// padding days of neighbouring months.
func (s *Service) Month(ctx context.Context, userID string, date time.Time) (MonthView, error) {
	d := s.localDate(date)
	grid := timeline.MonthGridDays(d, s.weekStartsOn)
	r := timeline.Range{Start: grid[0], End: timeline.DayRange(grid[len(grid)-1]).End}
	events, err := s.Events(ctx, userID, r)
	if err != nil {
		return MonthView{}, err
	}

	view := MonthView{Month: d.Format("2006-01"), Days: make([]MonthDay, 0, len(grid))}
	for _, day := range grid {
		cell := MonthDay{
			Date:    day.Format(timeline.DateLayout),
			InMonth: day.Month() == d.Month(),
			Events:  []MonthEntry{},
		}
		for _, e := range calendar.ForDay(events, day) {
			cell.Events = append(cell.Events, MonthEntry{
				ID:    e.ID,
				Title: e.Title,
				Kind:  e.Kind,
				Start: e.Start,
				Color: e.ColorHint(),
			})
		}
		cell.Count = len(cell.Events)
		view.Days = append(view.Days, cell)
	}
	return view, nil
}

// localDate reinterprets t's calendar date as midnight in the service zone.
func (s *Service) localDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}

func inRange(e calendar.TimedEvent, r timeline.Range) bool {
	if e.Degenerate() {
		return !e.Start.Before(r.Start) && e.Start.Before(r.End)
	}
	return r.Overlaps(e.Start, e.End)
}
