package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"cadence/internal/conflict"
	"cadence/internal/layout"
	"cadence/internal/timeline"
)

type calendarFlags struct {
	user    string
	start   string
	end     string
	exclude string
	date    string
}

func checkCmd() *cobra.Command {
	var f calendarFlags
	cmd := &cobra.Command{
		Use:   "check",
		Short: "List events that overlap a proposed interval",
		Long: `List the user's tasks and time blocks that overlap [start, end).

Times are RFC3339 or "YYYY-MM-DD HH:MM" in the configured time zone.

Examples:
  cadence check -u alice --start "2025-03-10 09:30" --end "2025-03-10 10:30"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, f)
		},
	}
	cmd.Flags().StringVarP(&f.user, "user", "u", "", "user id")
	cmd.Flags().StringVar(&f.start, "start", "", "interval start")
	cmd.Flags().StringVar(&f.end, "end", "", "interval end")
	cmd.Flags().StringVar(&f.exclude, "exclude", "", "event id to ignore (the event being moved)")
	return cmd
}

func runCheck(cmd *cobra.Command, f calendarFlags) error {
	if err := requireUser(f.user); err != nil {
		return err
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	start, err := parseTimestamp("start", f.start, a.loc)
	if err != nil {
		return err
	}
	end, err := parseTimestamp("end", f.end, a.loc)
	if err != nil {
		return err
	}
	cs, err := a.svc.Check(context.Background(), f.user, start, end, f.exclude)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, map[string]any{
			"has_conflicts": len(cs) > 0,
			"conflicts":     cs,
		})
	}
	printConflicts(out, cs, a.loc)
	return nil
}

func printConflicts(out io.Writer, cs conflict.Conflicts, loc *time.Location) {
	if len(cs) == 0 {
		fmt.Fprintln(out, "No conflicts.")
		return
	}
	fmt.Fprintf(out, "%d conflict(s):\n", len(cs))
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, c := range cs {
		flag := ""
		if c.Protected {
			flag = "protected"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s-%s\t%s\t%s\n",
			c.Kind, c.Title,
			c.Start.In(loc).Format("2006-01-02 15:04"), c.End.In(loc).Format("15:04"),
			flag, c.EventID)
	}
	tw.Flush()
}

func dayCmd() *cobra.Command {
	var f calendarFlags
	cmd := &cobra.Command{
		Use:   "day",
		Short: "Show the laid-out day view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDay(cmd, f)
		},
	}
	cmd.Flags().StringVarP(&f.user, "user", "u", "", "user id")
	cmd.Flags().StringVar(&f.date, "date", "", "YYYY-MM-DD (default today)")
	return cmd
}

func runDay(cmd *cobra.Command, f calendarFlags) error {
	if err := requireUser(f.user); err != nil {
		return err
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	day, err := flagDate(f.date, a.loc)
	if err != nil {
		return err
	}
	view, err := a.svc.Day(context.Background(), f.user, day)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, view)
	}
	printDay(out, view, a.loc)
	return nil
}

func weekCmd() *cobra.Command {
	var f calendarFlags
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the laid-out week containing a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWeek(cmd, f)
		},
	}
	cmd.Flags().StringVarP(&f.user, "user", "u", "", "user id")
	cmd.Flags().StringVar(&f.date, "date", "", "YYYY-MM-DD (default today)")
	return cmd
}

func runWeek(cmd *cobra.Command, f calendarFlags) error {
	if err := requireUser(f.user); err != nil {
		return err
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	date, err := flagDate(f.date, a.loc)
	if err != nil {
		return err
	}
	view, err := a.svc.Week(context.Background(), f.user, date)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, view)
	}
	fmt.Fprintf(out, "Week %s to %s\n", view.Start, view.End)
	for _, d := range view.Days {
		printDay(out, d, a.loc)
	}
	return nil
}

func printDay(out io.Writer, view layout.DayView, loc *time.Location) {
	fmt.Fprintf(out, "%s (%d events)\n", view.Date, len(view.Items))
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, item := range view.Items {
		fmt.Fprintf(tw, "  %s-%s\t%s\t%s\tcol %d/%d\t%s\n",
			item.Start.In(loc).Format("15:04"), item.End.In(loc).Format("15:04"),
			item.Title, item.Kind, item.Column+1, item.ColumnCount, item.Color)
	}
	tw.Flush()
}

func flagDate(value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return timeline.StartOfDay(time.Now().In(loc)), nil
	}
	return timeline.ParseDate(value, loc)
}
