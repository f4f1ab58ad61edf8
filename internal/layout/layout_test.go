package layout

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadence/internal/calendar"
)

var day = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func hours(id string, start, end float64) calendar.TimedEvent {
	return calendar.TimedEvent{
		ID:    id,
		Title: id,
		Start: day.Add(time.Duration(start * float64(time.Hour))),
		End:   day.Add(time.Duration(end * float64(time.Hour))),
		Kind:  calendar.KindTask,
	}
}

func byID(placed []Placed) map[string]Placed {
	out := make(map[string]Placed, len(placed))
	for _, p := range placed {
		out[p.ID] = p
	}
	return out
}

func TestArrangeThreeEventScenario(t *testing.T) {
	placed := byID(Arrange([]calendar.TimedEvent{
		hours("C", 13, 14),
		hours("B", 10, 12),
		hours("A", 9, 11),
	}))

	assert.Equal(t, 0, placed["A"].Column)
	assert.Equal(t, 2, placed["A"].ColumnCount)
	assert.Equal(t, 1, placed["B"].Column)
	assert.Equal(t, 2, placed["B"].ColumnCount)
	assert.Equal(t, 0, placed["C"].Column)
	assert.Equal(t, 1, placed["C"].ColumnCount)

	assert.InDelta(t, 50.0, placed["B"].WidthPercent(), 1e-9)
	assert.InDelta(t, 50.0, placed["B"].LeftPercent(), 1e-9)
	assert.InDelta(t, 100.0, placed["C"].WidthPercent(), 1e-9)
}

func TestGroupsChainTransitively(t *testing.T) {
	// A overlaps B, B overlaps C, A does not overlap C.
	groups := Groups([]calendar.TimedEvent{
		hours("A", 9, 10),
		hours("B", 9.5, 11),
		hours("C", 10.5, 12),
	})
	require.Len(t, groups, 1)
	assert.Len(t, groups[0], 3)
}

func TestGroupsBackToBackSplit(t *testing.T) {
	groups := Groups([]calendar.TimedEvent{
		hours("A", 9, 10),
		hours("B", 10, 11),
	})
	require.Len(t, groups, 2)
}

func TestGroupsLongEventKeepsGroupOpen(t *testing.T) {
	// C does not overlap B (the most recent entry) but does overlap A.
	groups := Groups([]calendar.TimedEvent{
		hours("A", 9, 12),
		hours("B", 9.5, 10),
		hours("C", 11, 11.5),
	})
	require.Len(t, groups, 1)
	assert.Len(t, groups[0], 3)
}

func TestGroupsStableOnTies(t *testing.T) {
	placed := Arrange([]calendar.TimedEvent{
		hours("first", 9, 10),
		hours("second", 9, 10),
		hours("third", 9, 10),
	})
	require.Len(t, placed, 3)
	for i, want := range []string{"first", "second", "third"} {
		assert.Equal(t, want, placed[i].ID)
		assert.Equal(t, i, placed[i].Column)
		assert.Equal(t, 3, placed[i].ColumnCount)
	}
}

func TestArrangeEmpty(t *testing.T) {
	assert.Empty(t, Arrange(nil))
	assert.Empty(t, Groups(nil))
}

func TestArrangeInvariantsRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		n := rng.Intn(12) + 1
		events := make([]calendar.TimedEvent, n)
		for i := range events {
			start := rng.Intn(96)
			length := rng.Intn(16) + 1
			events[i] = hours(fmt.Sprintf("e%d", i), float64(start)/4, float64(start+length)/4)
		}

		groups := Groups(events)
		total := 0
		groupOf := make(map[string]int)
		for gi, g := range groups {
			total += len(g)
			for _, e := range g {
				groupOf[e.ID] = gi
			}
			// Every member after the first overlaps something earlier in its group.
			for i := 1; i < len(g); i++ {
				linked := false
				for j := 0; j < i; j++ {
					if calendar.Overlaps(g[i], g[j]) {
						linked = true
						break
					}
				}
				require.True(t, linked, "round %d: %s joined group %d without overlapping it", round, g[i].ID, gi)
			}
		}
		require.Equal(t, n, total)

		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if groupOf[events[i].ID] != groupOf[events[j].ID] {
					require.False(t, calendar.Overlaps(events[i], events[j]),
						"round %d: %s and %s overlap across groups", round, events[i].ID, events[j].ID)
				}
			}
		}

		for _, p := range Arrange(events) {
			require.Equal(t, len(groups[groupOf[p.ID]]), p.ColumnCount)
			require.Less(t, p.Column, p.ColumnCount)
		}
	}
}

func TestDayView(t *testing.T) {
	events := []calendar.TimedEvent{
		hours("yesterday", -5, -1),
		hours("overnight", -2, 2),
		hours("morning", 1, 3),
		hours("tomorrow", 25, 26),
	}
	view := Day(events, day.Add(12*time.Hour))
	assert.Equal(t, "2025-03-10", view.Date)
	assert.Len(t, view.Hours, 24)
	require.Len(t, view.Items, 2)

	overnight := view.Items[0]
	assert.Equal(t, "overnight", overnight.ID)
	assert.Equal(t, 2, overnight.ColumnCount)
	assert.InDelta(t, 0.0, overnight.TopPercent, 1e-9)
	assert.InDelta(t, 2.0/24*100, overnight.HeightPercent, 1e-9)
	assert.Equal(t, "slate", overnight.Color)
}

func TestWeekView(t *testing.T) {
	views := Week([]calendar.TimedEvent{hours("x", 9, 10)}, day, time.Monday)
	require.Len(t, views, 7)
	assert.Equal(t, "2025-03-10", views[0].Date)
	assert.Len(t, views[0].Items, 1)
	assert.Empty(t, views[1].Items)
}
