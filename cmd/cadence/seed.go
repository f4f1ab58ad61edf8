package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cadence/internal/seed"
)

var seedUser string

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed FILE",
		Short: "Load goals, tasks and time blocks from a YAML seed file",
		Long: `Load goals, tasks and time blocks from a YAML seed file.

Goals are created first, then time blocks, then tasks. Rows rejected by
the configured conflict policy are reported and skipped.

Examples:
  cadence seed seeds/demo.yaml
  cadence seed --user bob seeds/demo.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: runSeed,
	}
	cmd.Flags().StringVarP(&seedUser, "user", "u", "", "user id (overrides the file's user)")
	return cmd
}

func runSeed(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	path, err := a.ws.ResolvePath(args[0])
	if err != nil {
		return err
	}
	doc, err := seed.LoadFile(path, a.loc)
	if err != nil {
		return err
	}
	res, err := seed.Apply(context.Background(), a.svc, doc, seedUser, a.audit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, res)
	}
	fmt.Fprintf(out, "Seeded %s for user %s\n", path, res.User)
	fmt.Fprintf(out, "  goals: %d (milestones: %d)\n", res.Goals, res.Milestones)
	fmt.Fprintf(out, "  time blocks: %d\n", res.TimeBlocks)
	fmt.Fprintf(out, "  tasks: %d\n", res.Tasks)
	fmt.Fprintf(out, "  conflicts: %d\n", res.Conflicts)
	if len(res.Rejected) > 0 {
		fmt.Fprintf(out, "  rejected by %s policy: %s\n", a.cfg.ConflictPolicy, strings.Join(res.Rejected, ", "))
	}
	return nil
}
