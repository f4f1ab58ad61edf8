package layout

import (
	"time"

	"cadence/internal/calendar"
	"cadence/internal/timeline"
)

// DayItem is a fully positioned event for one day column.
type DayItem struct {
	Placed
	calendar.Position
	WidthPercent float64 `json:"width_percent"`
	LeftPercent  float64 `json:"left_percent"`
	Color        string  `json:"color"`
}

// DayView is the render model of a single calendar day.
type DayView struct {
	Date  string    `json:"date"`
	Hours []string  `json:"hours"`
	Items []DayItem `json:"items"`
}

// Day filters events to the day containing day, arranges them into columns
// and computes each event's clamped vertical position.
func Day(events []calendar.TimedEvent, day time.Time) DayView {
	view := DayView{
		Date:  day.Format(timeline.DateLayout),
		Hours: timeline.HourSlots(),
		Items: []DayItem{},
	}
	for _, p := range Arrange(calendar.ForDay(events, day)) {
		view.Items = append(view.Items, DayItem{
			Placed:       p,
			Position:     calendar.PositionWithinDay(p.TimedEvent, day),
			WidthPercent: p.WidthPercent(),
			LeftPercent:  p.LeftPercent(),
			Color:        p.ColorHint(),
		})
	}
	return view
}

// Week lays out each of the seven days of the week containing date.
func Week(events []calendar.TimedEvent, date time.Time, weekStartsOn time.Weekday) []DayView {
	days := timeline.WeekDays(date, weekStartsOn)
	views := make([]DayView, 0, len(days))
	for _, d := range days {
		views = append(views, Day(events, d))
	}
	return views
}
