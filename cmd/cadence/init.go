package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"cadence/internal/audit"
	"cadence/internal/config"
	"cadence/internal/store"
	"cadence/internal/workspace"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the data directory, databases and a default cadence.yaml",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	root := dataDir
	if root == "" {
		root = os.Getenv(config.EnvPrefix + "_DATA_DIR")
	}
	ws, err := workspace.Resolve(root)
	if err != nil {
		return err
	}
	if err := ws.EnsureDirs(); err != nil {
		return err
	}

	logger := audit.NewLogger(ws.AuditDBPath)
	if err := logger.LogEvent("cli", "data_dir_init_started", map[string]any{"data_dir": ws.Root}); err != nil {
		fmt.Fprintln(os.Stderr, "audit log failed:", err)
	}

	if _, err := os.Stat(ws.ConfigPath); errors.Is(err, fs.ErrNotExist) {
		if err := config.WriteDefault(ws.ConfigPath); err != nil {
			return fmt.Errorf("write %s: %w", ws.ConfigPath, err)
		}
	} else if err != nil {
		return fmt.Errorf("stat %s: %w", ws.ConfigPath, err)
	}

	st, err := store.Open(ws.StateDBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	if err := st.Close(); err != nil {
		return err
	}
	_ = logger.LogEvent("cli", "data_dir_init_finished", map[string]any{"data_dir": ws.Root})

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized data directory: %s\n", ws.Root)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintf(out, "  %s seed --data-dir %s --user <id> <file.yaml>\n", appName, ws.Root)
	fmt.Fprintf(out, "  %s serve --data-dir %s\n", appName, ws.Root)
	return nil
}
