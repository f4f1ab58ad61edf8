package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, ws, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ws.Root != dir {
		t.Errorf("ws.Root = %q, want %q", ws.Root, dir)
	}
	if cfg.DataDir != dir {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, dir)
	}
	if cfg.ConflictPolicy != PolicyWarn {
		t.Errorf("ConflictPolicy = %q, want %q", cfg.ConflictPolicy, PolicyWarn)
	}
	if cfg.Coach.Timeout != 60*time.Second {
		t.Errorf("Coach.Timeout = %v, want 60s", cfg.Coach.Timeout)
	}
	wd, err := cfg.Weekday()
	if err != nil || wd != time.Monday {
		t.Errorf("Weekday() = %v, %v", wd, err)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	content := `timezone: Europe/Berlin
week_starts_on: sunday
conflict_policy: block_protected
coach:
  enabled: true
  command: echo
  timeout: 5s
`
	if err := os.WriteFile(filepath.Join(dir, "cadence.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CADENCE_ADDR", "127.0.0.1:9999")
	t.Setenv("CADENCE_CONFLICT_POLICY", "block")
	t.Setenv("CADENCE_NOTIFY", "true")

	cfg, _, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TimeZone != "Europe/Berlin" {
		t.Errorf("TimeZone = %q", cfg.TimeZone)
	}
	if cfg.WeekStartsOn != "sunday" {
		t.Errorf("WeekStartsOn = %q", cfg.WeekStartsOn)
	}
	if cfg.Addr != "127.0.0.1:9999" {
		t.Errorf("Addr = %q, want env override", cfg.Addr)
	}
	if cfg.ConflictPolicy != PolicyBlock {
		t.Errorf("ConflictPolicy = %q, want env override", cfg.ConflictPolicy)
	}
	if !cfg.Notify {
		t.Errorf("Notify = false, want env override")
	}
	if !cfg.Coach.Enabled || cfg.Coach.Command != "echo" || cfg.Coach.Timeout != 5*time.Second {
		t.Errorf("Coach = %+v", cfg.Coach)
	}
}

func TestLoadDataDirFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CADENCE_DATA_DIR", dir)
	cfg, _, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DataDir != dir {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, dir)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "bad timezone", mutate: func(c *Config) { c.TimeZone = "Mars/Olympus" }, wantErr: true},
		{name: "bad weekday", mutate: func(c *Config) { c.WeekStartsOn = "someday" }, wantErr: true},
		{name: "bad policy", mutate: func(c *Config) { c.ConflictPolicy = "ignore" }, wantErr: true},
		{name: "coach without command", mutate: func(c *Config) { c.Coach.Enabled = true }, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWriteDefaultLoads(t *testing.T) {
	dir := t.TempDir()
	if err := WriteDefault(filepath.Join(dir, "cadence.yaml")); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}
	cfg, _, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
}
