package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"chipwarden/internal/adapters/archive"
	"chipwarden/internal/adapters/publish"
	"chipwarden/internal/application"
)

func programHeader(toolCount int, machine, setup, posted string) string {
	return fmt.Sprintf(`%%
O1001 (HYDRAULIC MANIFOLD)
(CHIP-WARDEN-START)
(PROJECT: HYDRAULIC MANIFOLD)
(PART: 1001)
(POSTED: %s)
(OPERATIONS: 3)
(TOOL-COUNT: %d)
(MACHINE: %s)
(SETUP: %s)
(CHIP-WARDEN-END)

G28 U0 W0
`, posted, toolCount, machine, setup)
}

type pipeline struct {
	store     *archive.Store
	publisher *publish.Publisher
	incoming  string
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()

	store, err := archive.NewStore(t.TempDir(), nil, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	publisher, err := publish.NewPublisher(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewPublisher failed: %v", err)
	}
	return &pipeline{store: store, publisher: publisher, incoming: t.TempDir()}
}

func (p *pipeline) post(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(p.incoming, "1001.nc")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write program: %v", err)
	}
	return path
}

func (p *pipeline) process(t *testing.T, path string, removeSource bool) *ProcessResult {
	t.Helper()
	cmd := NewProcessFileCommand(p.store, p.publisher, nil, nil, zap.NewNop(), path, 2, removeSource, false)
	result, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	return result
}

func TestProcessFirstVersion(t *testing.T) {
	p := newPipeline(t)
	src := p.post(t, programHeader(5, "PUMA", "OP1-ROUGH-FACE", "2025-10-30-1445"))

	result := p.process(t, src, true)

	if result.Skipped {
		t.Fatalf("unexpectedly skipped: %s", result.SkipReason)
	}
	if result.Version != 1 {
		t.Errorf("version = %d, want 1", result.Version)
	}
	if filepath.Base(result.ArchivedPath) != "1001_v1_2025-10-30-1445.nc" {
		t.Errorf("archived name = %s", filepath.Base(result.ArchivedPath))
	}
	if _, err := os.Stat(result.PublishedPath); err != nil {
		t.Errorf("published file missing: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Errorf("source should be removed after success, stat err = %v", err)
	}
	if result.Changes.HasChanges {
		t.Error("first version should have no change comparison")
	}

	changelog, err := p.store.Changelog("HYDRAULIC MANIFOLD", "1001")
	if err != nil {
		t.Fatalf("Changelog failed: %v", err)
	}
	if !strings.Contains(changelog, "## Version 1") {
		t.Errorf("changelog missing entry:\n%s", changelog)
	}
}

func TestProcessSecondVersionDetectsChanges(t *testing.T) {
	p := newPipeline(t)

	p.process(t, p.post(t, programHeader(5, "PUMA", "OP1-ROUGH-FACE", "2025-10-30-1445")), true)
	result := p.process(t, p.post(t, programHeader(7, "PUMA", "OP1-ROUGH-FACE", "2025-10-30-1600")), true)

	if result.Version != 2 {
		t.Errorf("version = %d, want 2", result.Version)
	}
	if !result.Changes.HasChanges {
		t.Fatal("expected change detection against v1")
	}

	high := 0
	for _, w := range result.Changes.Warnings {
		if w.Severity.String() == "high" {
			high++
			if !strings.Contains(w.Text, "Tool count changed significantly") {
				t.Errorf("unexpected high warning: %s", w.Text)
			}
		}
	}
	if high != 1 {
		t.Errorf("high warnings = %d, want 1 (tool delta of 2)", high)
	}
}

func TestProcessMachineChange(t *testing.T) {
	p := newPipeline(t)

	p.process(t, p.post(t, programHeader(5, "PUMA", "OP1-ROUGH-FACE", "2025-10-30-1445")), true)
	result := p.process(t, p.post(t, programHeader(5, "HAAS VF-2", "OP1-ROUGH-FACE", "2025-10-30-1600")), true)

	found := false
	for _, w := range result.Changes.Warnings {
		if strings.Contains(w.Text, "MACHINE CHANGED") {
			found = true
			if w.Severity.String() != "high" {
				t.Errorf("machine change severity = %s, want high", w.Severity)
			}
		}
	}
	if !found {
		t.Error("expected a machine change warning")
	}
}

func TestProcessSkipsFileWithoutMetadata(t *testing.T) {
	p := newPipeline(t)
	src := p.post(t, "%\nO1001\nG0 X0\nM30\n")

	result := p.process(t, src, true)

	if !result.Skipped {
		t.Fatal("expected file without metadata to be skipped")
	}
	if result.SkipReason != "no metadata" {
		t.Errorf("reason = %q", result.SkipReason)
	}
	if _, err := os.Stat(src); err != nil {
		t.Errorf("skipped source must be left in place: %v", err)
	}
}

func TestProcessSkipsMalformedMetadata(t *testing.T) {
	p := newPipeline(t)
	bad := strings.Replace(
		programHeader(5, "PUMA", "OP1-ROUGH-FACE", "2025-10-30-1445"),
		"(TOOL-COUNT: 5)", "(TOOL-COUNT: five)", 1)
	src := p.post(t, bad)

	result := p.process(t, src, true)

	if !result.Skipped || result.SkipReason != "malformed metadata" {
		t.Fatalf("result = %+v, want malformed skip", result)
	}
	if _, err := os.Stat(src); err != nil {
		t.Errorf("skipped source must be left in place: %v", err)
	}
}

func TestProcessMissingFileIsPipelineError(t *testing.T) {
	p := newPipeline(t)

	cmd := NewProcessFileCommand(p.store, p.publisher, nil, nil, zap.NewNop(),
		filepath.Join(p.incoming, "gone.nc"), 2, false, false)
	_, err := cmd.Execute(context.Background())
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, application.ErrProcessingFailed) {
		t.Errorf("error should wrap ErrProcessingFailed, got %v", err)
	}
}

func TestProcessValidation(t *testing.T) {
	p := newPipeline(t)

	tests := []struct {
		name string
		path string
		keep int
	}{
		{"empty path", "", 2},
		{"zero retention", "/tmp/x.nc", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewProcessFileCommand(p.store, p.publisher, nil, nil, zap.NewNop(), tt.path, tt.keep, false, false)
			if _, err := cmd.Execute(context.Background()); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

type stubNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (n *stubNotifier) Send(_ context.Context, text string, _ bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, text)
	return nil
}

func (n *stubNotifier) messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.sent...)
}

func (n *stubNotifier) waitFor(t *testing.T, want string) []string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		got := n.messages()
		for _, m := range got {
			if strings.Contains(m, want) {
				return got
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("no notice containing %q arrived, got %v", want, n.messages())
	return nil
}

func TestProcessFailureNoticeSentWithoutPostNotices(t *testing.T) {
	p := newPipeline(t)
	notifier := &stubNotifier{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := application.NewDispatcher(notifier, zap.NewNop())
	d.Start(ctx)

	missing := filepath.Join(p.incoming, "gone.nc")
	cmd := NewProcessFileCommand(p.store, p.publisher, nil, d, zap.NewNop(), missing, 2, false, false)
	if _, err := cmd.Execute(ctx); err == nil {
		t.Fatal("expected error for missing file")
	}

	got := notifier.waitFor(t, "Processing error")
	for _, m := range got {
		if strings.Contains(m, "New program posted") {
			t.Errorf("unexpected post notice: %q", m)
		}
	}
}

func TestProcessPostNoticeGatedOnNotifyFlag(t *testing.T) {
	p := newPipeline(t)
	notifier := &stubNotifier{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := application.NewDispatcher(notifier, zap.NewNop())
	d.Start(ctx)

	src := p.post(t, programHeader(5, "PUMA", "OP1-ROUGH-FACE", "2025-10-30-1445"))
	cmd := NewProcessFileCommand(p.store, p.publisher, nil, d, zap.NewNop(), src, 2, true, false)
	if _, err := cmd.Execute(ctx); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	// delivery is ordered, so a sentinel arriving alone proves no post
	// notice was enqueued ahead of it
	d.Enqueue("sentinel", false)
	got := notifier.waitFor(t, "sentinel")
	if len(got) != 1 {
		t.Fatalf("post notice sent with notify-on-post disabled: %v", got)
	}

	src = p.post(t, programHeader(5, "PUMA", "OP1-ROUGH-FACE", "2025-10-30-1600"))
	cmd = NewProcessFileCommand(p.store, p.publisher, nil, d, zap.NewNop(), src, 2, true, true)
	if _, err := cmd.Execute(ctx); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	got = notifier.waitFor(t, "New program posted")
	last := got[len(got)-1]
	if !strings.Contains(last, "(v2)") {
		t.Errorf("post notice missing version: %q", last)
	}
}

func TestProcessPrunesShare(t *testing.T) {
	p := newPipeline(t)

	for i := 0; i < 4; i++ {
		posted := fmt.Sprintf("2025-10-30-1%d00", i)
		p.process(t, p.post(t, programHeader(5, "PUMA", "OP1-ROUGH-FACE", posted)), true)
	}

	files, err := p.publisher.Files()
	if err != nil {
		t.Fatalf("Files failed: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("share holds %d files, want 2 after retention", len(files))
	}
}
