package domain

import "fmt"

// Severity classifies change-detection warnings.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityHigh:
		return "high"
	default:
		return "info"
	}
}

// Warning is a human-readable change notice with a severity tag.
type Warning struct {
	Severity Severity
	Text     string
}

// FieldChange records the previous and new value of one compared field.
type FieldChange struct {
	Old string
	New string
}

// ChangeSet is the result of comparing two consecutive metadata records.
type ChangeSet struct {
	HasChanges bool
	Fields     map[string]FieldChange
	Warnings   []Warning
}

// significantToolDelta is the absolute tool-count difference at which a
// change is escalated to a high-severity warning.
const significantToolDelta = 2

// Compare diffs the previous version's metadata against the new one.
// All rules are evaluated independently:
//
//   - tool count: recorded; high warning when |delta| >= 2
//   - operations: recorded; info warning always
//   - machine: recorded; high warning always
//   - setup: recorded silently, setup changes are routine
//
// Project and part are the comparison key and never participate; posted
// timestamp and program number are expected to differ and carry no signal.
func Compare(old, new *Metadata) ChangeSet {
	cs := ChangeSet{Fields: make(map[string]FieldChange)}

	if old.ToolCount != new.ToolCount {
		cs.HasChanges = true
		cs.Fields["tool_count"] = FieldChange{
			Old: fmt.Sprintf("%d", old.ToolCount),
			New: fmt.Sprintf("%d", new.ToolCount),
		}
		if abs(new.ToolCount-old.ToolCount) >= significantToolDelta {
			cs.Warnings = append(cs.Warnings, Warning{
				Severity: SeverityHigh,
				Text:     fmt.Sprintf("Tool count changed significantly: %d -> %d", old.ToolCount, new.ToolCount),
			})
		}
	}

	if old.Operations != new.Operations {
		cs.HasChanges = true
		cs.Fields["operations"] = FieldChange{
			Old: fmt.Sprintf("%d", old.Operations),
			New: fmt.Sprintf("%d", new.Operations),
		}
		cs.Warnings = append(cs.Warnings, Warning{
			Severity: SeverityInfo,
			Text:     fmt.Sprintf("Operation count changed: %d -> %d", old.Operations, new.Operations),
		})
	}

	if old.Machine != new.Machine {
		cs.HasChanges = true
		cs.Fields["machine"] = FieldChange{Old: old.Machine, New: new.Machine}
		cs.Warnings = append(cs.Warnings, Warning{
			Severity: SeverityHigh,
			Text:     fmt.Sprintf("MACHINE CHANGED: %s -> %s - verify correct machine", old.Machine, new.Machine),
		})
	}

	if old.Setup != new.Setup {
		cs.HasChanges = true
		cs.Fields["setup"] = FieldChange{Old: old.Setup, New: new.Setup}
	}

	return cs
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
