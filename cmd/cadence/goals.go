package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"cadence/internal/milestone"
	"cadence/internal/timeline"
)

func breakdownCmd() *cobra.Command {
	var start, target string
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "breakdown",
		Short: "Print the milestone schedule for a goal date range",
		Long: `Print the milestone schedule for a goal spanning --start to --target.

Nothing is stored; use seed or the API to create a goal.

Examples:
  cadence breakdown --start 2025-01-01 --target 2026-01-01
  cadence breakdown --start 2025-01-01 --target 2025-04-01 --yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, err := timeline.ParseDate(start, time.UTC)
			if err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			targetDate, err := timeline.ParseDate(target, time.UTC)
			if err != nil {
				return fmt.Errorf("--target: %w", err)
			}
			milestones, err := milestone.Breakdown(startDate, targetDate)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case jsonOutput:
				return writeJSON(out, milestones)
			case asYAML:
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(milestones); err != nil {
					return err
				}
				return enc.Close()
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tPERIOD\tTARGET\tPCT\tTITLE")
			for _, m := range milestones {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d%%\t%s\n",
					m.OrderIndex, m.PeriodType, m.TargetDate.Format(timeline.DateLayout),
					m.CompletionPercentageTarget, m.Title)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "goal start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&target, "target", "", "goal target date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print YAML")
	return cmd
}

func tierCmd() *cobra.Command {
	var start, now string
	cmd := &cobra.Command{
		Use:   "tier",
		Short: "Print the milestone tier active for a goal start date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, err := timeline.ParseDate(start, time.UTC)
			if err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			at := timeline.StartOfDay(time.Now().UTC())
			if now != "" {
				if at, err = timeline.ParseDate(now, time.UTC); err != nil {
					return fmt.Errorf("--now: %w", err)
				}
			}
			tier := milestone.CurrentPeriodTier(startDate, at)
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"tier":           tier,
					"months_elapsed": timeline.MonthsBetween(startDate, at),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), tier)
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "goal start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&now, "now", "", "evaluation date (default today)")
	return cmd
}
