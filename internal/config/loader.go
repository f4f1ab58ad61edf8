package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"cadence/internal/workspace"
)

// EnvPrefix prefixes every environment override, e.g. CADENCE_CONFLICT_POLICY.
const EnvPrefix = "CADENCE"

// Load builds the configuration from defaults, <data dir>/cadence.yaml and
// CADENCE_* environment variables, in increasing precedence. A .env file in
// the working directory is loaded into the environment first. dataDir
// overrides CADENCE_DATA_DIR when non-empty.
func Load(dataDir string) (*Config, *workspace.Workspace, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("load .env: %w", err)
	}

	if dataDir == "" {
		dataDir = os.Getenv(EnvPrefix + "_DATA_DIR")
	}
	ws, err := workspace.Resolve(dataDir)
	if err != nil {
		return nil, nil, err
	}

	v := newViper()
	if _, err := os.Stat(ws.ConfigPath); err == nil {
		v.SetConfigFile(ws.ConfigPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", ws.ConfigPath, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("stat %s: %w", ws.ConfigPath, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.DataDir = ws.Root
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, ws, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults register every key so AutomaticEnv can override them.
	def := DefaultConfig()
	v.SetDefault("addr", def.Addr)
	v.SetDefault("timezone", def.TimeZone)
	v.SetDefault("week_starts_on", def.WeekStartsOn)
	v.SetDefault("conflict_policy", def.ConflictPolicy)
	v.SetDefault("notify", def.Notify)
	v.SetDefault("coach.enabled", def.Coach.Enabled)
	v.SetDefault("coach.command", def.Coach.Command)
	v.SetDefault("coach.args", []string{})
	v.SetDefault("coach.timeout", def.Coach.Timeout)
	return v
}
