package coach

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// CommandGenerator shells out to an external command. The request is
// written to stdin as a prompt followed by the raw JSON request, and a
// JSON response is read from stdout.
type CommandGenerator struct {
	Command string
	Args    []string
	Env     map[string]string
	Timeout time.Duration
}

func (g *CommandGenerator) Name() string {
	return g.Command
}

func (g *CommandGenerator) Generate(ctx context.Context, req Request) (Response, error) {
	if g.Command == "" {
		return Response{}, errors.New("coach command is required")
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if g.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	reqJSON, err := json.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("marshal coach request: %w", err)
	}
	var stdin bytes.Buffer
	stdin.WriteString(Prompt(req))
	stdin.WriteString("\nRequest:\n")
	stdin.Write(reqJSON)
	stdin.WriteString("\n")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, g.Command, g.Args...)
	cmd.Stdin = &stdin
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Env = mergeEnv(os.Environ(), g.Env)
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		if runCtx.Err() != nil {
			return Response{}, fmt.Errorf("coach %s: %w", g.Command, runCtx.Err())
		}
		return Response{}, fmt.Errorf("coach %s exited %d: %w: %s",
			g.Command, exitCodeFromError(err), err, strings.TrimSpace(stderr.String()))
	}
	return ParseResponse(bytes.TrimSpace(stdout.Bytes()), req)
}

func mergeEnv(base []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return base
	}
	merged := make([]string, 0, len(base)+len(overrides))
	for _, entry := range base {
		key, _, _ := strings.Cut(entry, "=")
		if _, ok := overrides[key]; ok {
			continue
		}
		merged = append(merged, entry)
	}
	for key, value := range overrides {
		merged = append(merged, fmt.Sprintf("%s=%s", key, value))
	}
	return merged
}

func exitCodeFromError(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return 124
	}
	return 1
}
