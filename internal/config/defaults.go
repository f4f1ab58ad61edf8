package config

import (
	"os"
	"time"

	"cadence/internal/workspace"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		DataDir:        workspace.DefaultRoot,
		Addr:           ":8080",
		TimeZone:       "UTC",
		WeekStartsOn:   "monday",
		ConflictPolicy: PolicyWarn,
		Coach: CoachConfig{
			Enabled: false,
			Timeout: 60 * time.Second,
		},
	}
}

// WriteDefault writes a commented default configuration file
func WriteDefault(path string) error {
	content := `# cadence configuration
addr: ":8080"

# Calendar days are computed in this zone
timezone: UTC
week_starts_on: monday

# What to do when a new event overlaps existing ones:
#   warn             save and report the conflicts
#   block_protected  reject when a protected time block is hit
#   block            reject on any conflict
conflict_policy: warn

# Desktop notification (osascript or notify-send) when a change is blocked
notify: false

# External generator for milestone key deliverables.
# The prompt is written to stdin; a JSON object is expected on stdout.
coach:
  enabled: false
  # command: my-coach
  # args: ["--json"]
  timeout: 60s
`
	return os.WriteFile(path, []byte(content), 0o644)
}
