package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultRoot is used when no data directory is configured.
const DefaultRoot = "~/.cadence"

// Workspace defines the data-directory layout of a cadence installation.
type Workspace struct {
	Root        string
	StateDBPath string
	AuditDBPath string
	ConfigPath  string
	SeedsDir    string
}

// Resolve expands root (~ and relative paths) without requiring it to exist.
func Resolve(root string) (*Workspace, error) {
	if strings.TrimSpace(root) == "" {
		root = DefaultRoot
	}
	abs, err := resolveRoot(root)
	if err != nil {
		return nil, err
	}
	return newWorkspace(abs), nil
}

// EnsureDirs creates the data directory and its standard subdirectories.
func (w *Workspace) EnsureDirs() error {
	if w == nil {
		return fmt.Errorf("workspace is nil")
	}
	for _, dir := range []string{w.Root, filepath.Dir(w.AuditDBPath), w.SeedsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure %s: %w", dir, err)
		}
	}
	return nil
}

// ResolvePath returns an absolute path, resolving relative paths from the workspace root.
func (w *Workspace) ResolvePath(path string) (string, error) {
	if w == nil {
		return "", fmt.Errorf("workspace is nil")
	}
	if strings.TrimSpace(path) == "" {
		return "", nil
	}
	expanded, err := expandHome(path)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(expanded) {
		return filepath.Clean(expanded), nil
	}
	return filepath.Abs(filepath.Join(w.Root, expanded))
}

func newWorkspace(root string) *Workspace {
	return &Workspace{
		Root:        root,
		StateDBPath: filepath.Join(root, "cadence.sqlite"),
		AuditDBPath: filepath.Join(root, "audit", "audit.sqlite"),
		ConfigPath:  filepath.Join(root, "cadence.yaml"),
		SeedsDir:    filepath.Join(root, "seeds"),
	}
}

func resolveRoot(root string) (string, error) {
	expanded, err := expandHome(strings.TrimSpace(root))
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("resolve data dir: %w", err)
	}
	return abs, nil
}

func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:]), nil
	}
	return "", fmt.Errorf("unsupported home expansion: %s", path)
}
