package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestIsGCode(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"1001.nc", true},
		{"part.NC", true},
		{"part.gcode", true},
		{"part.GCODE", true},
		{"part.txt", false},
		{"part.nc.bak", false},
		{"no_extension", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isGCode(tt.name); got != tt.want {
				t.Errorf("isGCode(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestProcessExistingHandlesEachFileOnce(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.nc", "b.gcode", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("G0\n"), 0644); err != nil {
			t.Fatalf("failed to seed %s: %v", name, err)
		}
	}

	var handled []string
	w := New(dir, time.Millisecond, func(_ context.Context, path string) {
		handled = append(handled, filepath.Base(path))
	}, zap.NewNop())

	if err := w.ProcessExisting(context.Background()); err != nil {
		t.Fatalf("ProcessExisting failed: %v", err)
	}
	if len(handled) != 2 {
		t.Fatalf("handled %v, want the two G-code files", handled)
	}

	// a second pass must not re-process anything
	handled = nil
	if err := w.ProcessExisting(context.Background()); err != nil {
		t.Fatalf("second ProcessExisting failed: %v", err)
	}
	if len(handled) != 0 {
		t.Errorf("re-processed %v", handled)
	}
}

func TestProcessExistingStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.nc"), []byte("G0\n"), 0644); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := New(dir, time.Millisecond, func(context.Context, string) {
		t.Error("handler should not run after cancel")
	}, zap.NewNop())

	if err := w.ProcessExisting(ctx); err == nil {
		t.Error("expected context error")
	}
}
