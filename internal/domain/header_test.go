package domain

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleProgram = `%
O1001 (HYDRAULIC MANIFOLD)
(CHIP-WARDEN-START)
(PROJECT: HYDRAULIC MANIFOLD)
(PART: 1001)
(POSTED: 2025-10-30-1445)
(OPERATIONS: 3)
(TOOL-COUNT: 5)
(MACHINE: PUMA)
(SETUP: OP1-ROUGH-FACE)
(CHIP-WARDEN-END)

G28 U0 W0
`

func TestParseContent_FullHeader(t *testing.T) {
	meta, err := ParseContent(sampleProgram)
	if err != nil {
		t.Fatalf("ParseContent failed: %v", err)
	}

	if meta.Project != "HYDRAULIC MANIFOLD" {
		t.Errorf("project = %q, want %q", meta.Project, "HYDRAULIC MANIFOLD")
	}
	if meta.Part != "1001" {
		t.Errorf("part = %q, want %q", meta.Part, "1001")
	}
	if meta.Posted != "2025-10-30-1445" {
		t.Errorf("posted = %q, want %q", meta.Posted, "2025-10-30-1445")
	}
	if meta.Operations != 3 {
		t.Errorf("operations = %d, want 3", meta.Operations)
	}
	if meta.ToolCount != 5 {
		t.Errorf("tool count = %d, want 5", meta.ToolCount)
	}
	if meta.Machine != "PUMA" {
		t.Errorf("machine = %q, want PUMA", meta.Machine)
	}
	if meta.Setup != "OP1-ROUGH-FACE" {
		t.Errorf("setup = %q, want OP1-ROUGH-FACE", meta.Setup)
	}
	if meta.ProgramNumber != "1001" {
		t.Errorf("program number = %q, want 1001", meta.ProgramNumber)
	}
}

func TestParseContent_Deterministic(t *testing.T) {
	first, err := ParseContent(sampleProgram)
	if err != nil {
		t.Fatalf("first parse failed: %v", err)
	}
	second, err := ParseContent(sampleProgram)
	if err != nil {
		t.Fatalf("second parse failed: %v", err)
	}
	if *first != *second {
		t.Errorf("identical input produced different records:\n%+v\n%+v", first, second)
	}
}

func TestParseContent_NoMetadata(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "empty input",
			content: "",
		},
		{
			name:    "plain program without sentinels",
			content: "%\nO42\nG0 X0 Y0\n(PROJECT: IGNORED)\n(PART: 1)\n(POSTED: 2025-01-01-0000)\nM30\n",
		},
		{
			name:    "block missing required field",
			content: "(CHIP-WARDEN-START)\n(PROJECT: X)\n(PART: 1)\n(CHIP-WARDEN-END)\n",
		},
		{
			name:    "end sentinel before block",
			content: "(CHIP-WARDEN-END)\n(CHIP-WARDEN-START)\n(PROJECT: X)\n(PART: 1)\n(POSTED: 2025-01-01-0000)\n(CHIP-WARDEN-END)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, err := ParseContent(tt.content)
			if !errors.Is(err, ErrNoMetadata) {
				t.Errorf("expected ErrNoMetadata, got %v (meta=%v)", err, meta)
			}
			if meta != nil {
				t.Errorf("expected nil record, got %+v", meta)
			}
		})
	}
}

func TestParseContent_MalformedCounts(t *testing.T) {
	tests := []struct {
		name  string
		field string
	}{
		{name: "non-numeric tool count", field: "(TOOL-COUNT: five)"},
		{name: "non-numeric operations", field: "(OPERATIONS: some)"},
		{name: "negative tool count", field: "(TOOL-COUNT: -3)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := "(CHIP-WARDEN-START)\n(PROJECT: X)\n(PART: 1)\n(POSTED: 2025-01-01-0000)\n" +
				tt.field + "\n(CHIP-WARDEN-END)\n"

			_, err := ParseContent(content)
			if !errors.Is(err, ErrMalformedMetadata) {
				t.Errorf("expected ErrMalformedMetadata, got %v", err)
			}
			if errors.Is(err, ErrNoMetadata) {
				t.Error("malformed field reported as absent metadata")
			}
		})
	}
}

func TestParseContent_FieldNormalization(t *testing.T) {
	content := "(CHIP-WARDEN-START)\n" +
		"(Tool-Count: 4)\n" +
		"(project: first)\n" +
		"(PROJECT: second)\n" +
		"(PART: 9)\n" +
		"(POSTED: 2025-06-01-0900)\n" +
		"(CHIP-WARDEN-END)\n"

	meta, err := ParseContent(content)
	if err != nil {
		t.Fatalf("ParseContent failed: %v", err)
	}

	// Keys are case-insensitive with hyphens folded to underscores.
	if meta.ToolCount != 4 {
		t.Errorf("tool count = %d, want 4", meta.ToolCount)
	}
	// Last write wins for repeated keys.
	if meta.Project != "second" {
		t.Errorf("project = %q, want %q", meta.Project, "second")
	}
}

func TestParseContent_Defaults(t *testing.T) {
	content := "(CHIP-WARDEN-START)\n(PROJECT: X)\n(PART: 1)\n(POSTED: 2025-01-01-0000)\n(CHIP-WARDEN-END)\n"

	meta, err := ParseContent(content)
	if err != nil {
		t.Fatalf("ParseContent failed: %v", err)
	}
	if meta.Operations != 0 || meta.ToolCount != 0 {
		t.Errorf("counts = %d/%d, want 0/0", meta.Operations, meta.ToolCount)
	}
	if meta.Machine != UnknownField || meta.Setup != UnknownField {
		t.Errorf("machine/setup = %q/%q, want %q", meta.Machine, meta.Setup, UnknownField)
	}
	if meta.ProgramNumber != "" {
		t.Errorf("program number = %q, want empty", meta.ProgramNumber)
	}
}

func TestParseContent_EndSentinelStopsScan(t *testing.T) {
	content := "(CHIP-WARDEN-START)\n" +
		"(PROJECT: X)\n(PART: 1)\n(POSTED: 2025-01-01-0000)\n" +
		"(CHIP-WARDEN-END)\n" +
		"(CHIP-WARDEN-START)\n(PROJECT: LATE)\n(CHIP-WARDEN-END)\n"

	meta, err := ParseContent(content)
	if err != nil {
		t.Fatalf("ParseContent failed: %v", err)
	}
	if meta.Project != "X" {
		t.Errorf("project = %q, scan continued past end sentinel", meta.Project)
	}
}

func TestParseContent_ProgramNumberFirstWins(t *testing.T) {
	content := "O100\nO200\n(CHIP-WARDEN-START)\n(PROJECT: X)\n(PART: 1)\n(POSTED: 2025-01-01-0000)\n(CHIP-WARDEN-END)\n"

	meta, err := ParseContent(content)
	if err != nil {
		t.Fatalf("ParseContent failed: %v", err)
	}
	if meta.ProgramNumber != "100" {
		t.Errorf("program number = %q, want 100", meta.ProgramNumber)
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "program.nc")
	if err := os.WriteFile(path, []byte(sampleProgram), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	meta, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if meta.Part != "1001" {
		t.Errorf("part = %q, want 1001", meta.Part)
	}

	_, err = ParseFile(filepath.Join(dir, "missing.nc"))
	if err == nil || errors.Is(err, ErrNoMetadata) || errors.Is(err, ErrMalformedMetadata) {
		t.Errorf("unreadable file: expected a plain read error, got %v", err)
	}
}
