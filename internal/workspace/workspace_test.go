package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveLayout(t *testing.T) {
	root := t.TempDir()
	ws, err := Resolve(root)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if ws.StateDBPath != filepath.Join(root, "cadence.sqlite") {
		t.Fatalf("state db = %s", ws.StateDBPath)
	}
	if ws.AuditDBPath != filepath.Join(root, "audit", "audit.sqlite") {
		t.Fatalf("audit db = %s", ws.AuditDBPath)
	}
	if err := ws.EnsureDirs(); err != nil {
		t.Fatalf("ensure dirs: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "audit")); err != nil {
		t.Fatalf("audit dir missing: %v", err)
	}
}

func TestResolvePath(t *testing.T) {
	root := t.TempDir()
	ws, err := Resolve(root)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	got, err := ws.ResolvePath("seeds/demo.yaml")
	if err != nil {
		t.Fatalf("resolve path: %v", err)
	}
	if got != filepath.Join(root, "seeds", "demo.yaml") {
		t.Fatalf("path = %s", got)
	}
	abs := filepath.Join(root, "elsewhere.yaml")
	if got, _ := ws.ResolvePath(abs); got != abs {
		t.Fatalf("absolute path changed: %s", got)
	}
	if _, err := ws.ResolvePath("~user/x"); err == nil {
		t.Fatalf("expected unsupported home expansion error")
	}
}
