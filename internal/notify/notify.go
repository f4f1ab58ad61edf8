package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"cadence/internal/conflict"
)

// Notifier sends desktop notifications. A nil or disabled Notifier is a
// no-op.
type Notifier struct {
	Enabled bool

	// Platform selects the notification command; empty means runtime.GOOS.
	Platform string

	// Run executes the command; nil runs it with os/exec.
	Run func(name string, args ...string) error
}

// New returns a Notifier for the current platform.
func New(enabled bool) *Notifier {
	return &Notifier{Enabled: enabled}
}

// Send sends a desktop notification.
// macOS uses osascript, Linux uses notify-send. Other platforms are a no-op.
func (n *Notifier) Send(title, message string) error {
	if n == nil || !n.Enabled {
		return nil
	}
	platform := n.Platform
	if platform == "" {
		platform = runtime.GOOS
	}
	name, args, ok := command(platform, title, message)
	if !ok {
		return nil
	}
	run := n.Run
	if run == nil {
		run = runCommand
	}
	if err := run(name, args...); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}

func command(platform, title, message string) (string, []string, bool) {
	switch platform {
	case "darwin":
		title = strings.ReplaceAll(title, `"`, `\"`)
		message = strings.ReplaceAll(message, `"`, `\"`)
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, message, title)
		return "osascript", []string{"-e", script}, true
	case "linux":
		return "notify-send", []string{"--app-name=cadence", title, message}, true
	default:
		return "", nil, false
	}
}

func runCommand(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

// FormatRejected formats the notification for a write the conflict policy
// refused.
func FormatRejected(action, policy string, cs conflict.Conflicts) (title, message string) {
	title = "Cadence: schedule change blocked"
	names := make([]string, 0, len(cs))
	for _, c := range cs {
		name := c.Title
		if c.Protected {
			name += " (protected)"
		}
		names = append(names, name)
	}
	message = fmt.Sprintf("%s overlaps %s [%s policy]", strings.ReplaceAll(action, "_", " "), strings.Join(names, ", "), policy)
	return title, message
}
