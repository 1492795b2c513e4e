package cliconfig

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_SignalsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("modem_count = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewWatcher(path, 20*time.Millisecond, nil)
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Several writes in a burst collapse into one reload.
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("modem_count = 2\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-w.Reload():
	case <-time.After(2 * time.Second):
		t.Fatal("no reload after config change")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewWatcher(path, 10*time.Millisecond, nil)
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-w.Reload():
		t.Fatal("reload for an unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_StartFailsForMissingDir(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "missing", "config.toml"), 0, nil)
	if err := w.Start(context.Background()); err == nil {
		t.Error("Start() expected error for missing directory")
	}
}
