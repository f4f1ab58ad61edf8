package calendar

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func event(id string, start, end time.Time) TimedEvent {
	return TimedEvent{ID: id, Title: id, Start: start, End: end, Kind: KindTimeBlock}
}

func TestOverlapsExclusiveBoundary(t *testing.T) {
	a := event("a", at(9, 0), at(10, 0))
	b := event("b", at(10, 0), at(11, 0))
	assert.False(t, Overlaps(a, b), "touching endpoints must not overlap")
	assert.False(t, Overlaps(b, a))

	b.Start = a.End.Add(-time.Millisecond)
	assert.True(t, Overlaps(a, b), "1ms overlap must count")
	assert.True(t, Overlaps(b, a))
}

func TestOverlapsContainment(t *testing.T) {
	outer := event("outer", at(8, 0), at(12, 0))
	inner := event("inner", at(9, 0), at(9, 30))
	assert.True(t, Overlaps(outer, inner))
	assert.True(t, Overlaps(inner, outer))
}

func TestOverlapsDegenerate(t *testing.T) {
	point := event("p", at(9, 30), at(9, 30))
	span := event("s", at(9, 0), at(10, 0))
	assert.False(t, Overlaps(point, span))
	assert.False(t, Overlaps(span, point))
}

func TestFromTasksSkipsUnscheduled(t *testing.T) {
	start, end := at(9, 0), at(10, 0)
	tasks := []Task{
		{ID: "t1", Title: "scheduled", ScheduledStart: &start, ScheduledEnd: &end, PriorityScore: 90},
		{ID: "t2", Title: "no end", ScheduledStart: &start},
		{ID: "t3", Title: "nothing"},
		{ID: "t4", Title: "also scheduled", ScheduledStart: &start, ScheduledEnd: &end},
	}
	events := FromTasks(tasks)
	require.Len(t, events, 2)
	assert.Equal(t, "t1", events[0].ID)
	assert.Equal(t, "t4", events[1].ID)
	assert.Equal(t, KindTask, events[0].Kind)

	task, ok := events[0].Task()
	require.True(t, ok)
	assert.Equal(t, 90, task.PriorityScore)
	assert.Equal(t, "red", events[0].ColorHint())
}

func TestFromTimeBlocks(t *testing.T) {
	blocks := []TimeBlock{
		{ID: "b1", Title: "Focus", StartTime: at(8, 0), EndTime: at(10, 0), BlockType: BlockDeepWork, IsProtected: true},
		{ID: "b2", Title: "Sync", StartTime: at(11, 0), EndTime: at(11, 30), BlockType: BlockMeeting},
	}
	events := FromTimeBlocks(blocks)
	require.Len(t, events, 2)
	assert.Equal(t, KindTimeBlock, events[1].Kind)
	assert.True(t, events[0].Protected())
	assert.False(t, events[1].Protected())
	assert.Equal(t, "purple", events[0].ColorHint())
	assert.Equal(t, "blue", events[1].ColorHint())
}

func TestMergeOrdersTasksBeforeBlocks(t *testing.T) {
	start, end := at(12, 0), at(13, 0)
	events := Merge(
		[]Task{{ID: "t", ScheduledStart: &start, ScheduledEnd: &end}},
		[]TimeBlock{{ID: "b", StartTime: at(8, 0), EndTime: at(9, 0)}},
	)
	require.Len(t, events, 2)
	assert.Equal(t, "t", events[0].ID)
	assert.Equal(t, "b", events[1].ID)
}

func TestForDayIncludesSpanningEvents(t *testing.T) {
	events := []TimedEvent{
		event("spanning", day.Add(-time.Hour), day.Add(25*time.Hour)),
		event("inside", at(9, 0), at(10, 0)),
		event("previous day", day.Add(-3*time.Hour), day),
		event("next day", day.Add(24*time.Hour), day.Add(25*time.Hour)),
		event("late start", at(23, 30), day.Add(26*time.Hour)),
	}
	got := ForDay(events, at(15, 0))
	ids := make([]string, 0, len(got))
	for _, e := range got {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"spanning", "inside", "late start"}, ids)
}

func TestDuration(t *testing.T) {
	assert.Equal(t, 90, Duration(event("x", at(9, 0), at(10, 30))))
	assert.Equal(t, 0, Duration(event("x", at(9, 0), at(9, 0))))
}

func TestPositionWithinDay(t *testing.T) {
	pos := PositionWithinDay(event("x", at(6, 0), at(12, 0)), day)
	assert.InDelta(t, 25.0, pos.TopPercent, 1e-9)
	assert.InDelta(t, 25.0, pos.HeightPercent, 1e-9)
}

func TestPositionWithinDayClamps(t *testing.T) {
	before := PositionWithinDay(event("x", day.Add(-2*time.Hour), at(3, 0)), day)
	assert.InDelta(t, 0.0, before.TopPercent, 1e-9)
	assert.InDelta(t, 12.5, before.HeightPercent, 1e-9)

	after := PositionWithinDay(event("y", at(18, 0), day.Add(30*time.Hour)), day)
	assert.InDelta(t, 75.0, after.TopPercent, 1e-9)
	assert.InDelta(t, 25.0, after.HeightPercent, 1e-9)

	whole := PositionWithinDay(event("z", day.Add(-time.Hour), day.Add(48*time.Hour)), day)
	assert.InDelta(t, 0.0, whole.TopPercent, 1e-9)
	assert.InDelta(t, 100.0, whole.HeightPercent, 1e-9)
}

func TestPositionWithinDayOnDSTFallBack(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	// 2025-11-02 repeats 01:00-02:00, so the day is 25 hours long.
	fallBack := time.Date(2025, 11, 2, 0, 0, 0, 0, ny)

	late := PositionWithinDay(event("late", time.Date(2025, 11, 2, 23, 0, 0, 0, ny), time.Date(2025, 11, 2, 23, 59, 0, 0, ny)), fallBack)
	assert.InDelta(t, 96.0, late.TopPercent, 1e-9)
	assert.InDelta(t, 59.0/1500*100, late.HeightPercent, 1e-9)
	assert.LessOrEqual(t, late.TopPercent+late.HeightPercent, 100.0)

	whole := PositionWithinDay(event("all", fallBack.Add(-time.Hour), fallBack.AddDate(0, 0, 2)), fallBack)
	assert.InDelta(t, 0.0, whole.TopPercent, 1e-9)
	assert.InDelta(t, 100.0, whole.HeightPercent, 1e-9)
}

func TestColorHints(t *testing.T) {
	assert.Equal(t, "red", PriorityColor(80))
	assert.Equal(t, "orange", PriorityColor(79))
	assert.Equal(t, "yellow", PriorityColor(40))
	assert.Equal(t, "blue", PriorityColor(0))
	assert.Equal(t, "green", BlockColor(BlockBreak))
	assert.Equal(t, "slate", BlockColor("unknown"))
}
