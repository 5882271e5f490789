package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindRootByMarkerDirectory(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".nextclass"), 0755); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	got, err := FindRoot(nested)
	if err != nil {
		t.Fatalf("FindRoot failed: %v", err)
	}
	if got != root {
		t.Errorf("got %q, want %q", got, root)
	}
}

func TestFindRootByConfigFile(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "nextclass.yaml"), []byte("data_dir: data\n"), 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	got, err := FindRoot(root)
	if err != nil {
		t.Fatalf("FindRoot failed: %v", err)
	}
	if got != root {
		t.Errorf("got %q, want %q", got, root)
	}
}

func TestFindRootNotFound(t *testing.T) {
	if _, err := FindRoot(t.TempDir()); err == nil {
		t.Error("expected error when no marker exists")
	}
}
