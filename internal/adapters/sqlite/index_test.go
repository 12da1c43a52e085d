package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"chipwarden/internal/domain"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	idx := NewIndex()
	if err := idx.Open(filepath.Join(t.TempDir(), "index.db")); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func record(n int, project, part string) domain.Version {
	return domain.Version{
		Project:    project,
		Part:       part,
		Number:     n,
		Posted:     "2025-10-30-1445",
		Machine:    "HAAS VF-2",
		Setup:      "Op 10 vise",
		ToolCount:  6,
		Operations: 4,
		Path:       "/archive/p/x.nc",
		ArchivedAt: time.Unix(1730000000+int64(n), 0),
	}
}

func TestRecordAndLatest(t *testing.T) {
	idx := openTestIndex(t)

	for n := 1; n <= 3; n++ {
		if err := idx.Record(record(n, "fixture_plate", "pump_housing")); err != nil {
			t.Fatalf("Record %d failed: %v", n, err)
		}
	}

	latest, err := idx.Latest("pump_housing")
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest == nil || latest.Number != 3 {
		t.Errorf("Latest = %+v, want version 3", latest)
	}
	if latest.Machine != "HAAS VF-2" || latest.ToolCount != 6 {
		t.Errorf("Latest fields not round-tripped: %+v", latest)
	}
}

func TestLatestUnknownPart(t *testing.T) {
	idx := openTestIndex(t)

	latest, err := idx.Latest("nope")
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest != nil {
		t.Errorf("Latest = %+v, want nil", latest)
	}
}

func TestRecordIsUpsert(t *testing.T) {
	idx := openTestIndex(t)

	v := record(1, "fixture_plate", "pump_housing")
	if err := idx.Record(v); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	v.Machine = "DMG MORI NHX"
	if err := idx.Record(v); err != nil {
		t.Fatalf("re-Record failed: %v", err)
	}

	versions, err := idx.Versions("fixture_plate", "pump_housing")
	if err != nil {
		t.Fatalf("Versions failed: %v", err)
	}
	if len(versions) != 1 {
		t.Fatalf("got %d rows, want 1", len(versions))
	}
	if versions[0].Machine != "DMG MORI NHX" {
		t.Errorf("machine = %s, want the updated value", versions[0].Machine)
	}
}

func TestStatsAndClear(t *testing.T) {
	idx := openTestIndex(t)

	seed := []domain.Version{
		record(1, "fixture_plate", "pump_housing"),
		record(2, "fixture_plate", "pump_housing"),
		record(1, "fixture_plate", "bracket"),
		record(1, "gearbox", "bracket"),
	}
	for _, v := range seed {
		if err := idx.Record(v); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	stats, err := idx.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Projects != 2 || stats.Parts != 3 || stats.Versions != 4 {
		t.Errorf("Stats = %+v, want {2 3 4}", stats)
	}

	if err := idx.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	stats, err = idx.Stats()
	if err != nil {
		t.Fatalf("Stats after Clear failed: %v", err)
	}
	if stats.Versions != 0 {
		t.Errorf("versions after clear = %d, want 0", stats.Versions)
	}
}

func TestProjectsAndParts(t *testing.T) {
	idx := openTestIndex(t)

	for _, v := range []domain.Version{
		record(1, "gearbox", "shaft"),
		record(1, "fixture_plate", "pump_housing"),
		record(1, "fixture_plate", "bracket"),
	} {
		if err := idx.Record(v); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	projects, err := idx.Projects()
	if err != nil {
		t.Fatalf("Projects failed: %v", err)
	}
	if len(projects) != 2 || projects[0] != "fixture_plate" || projects[1] != "gearbox" {
		t.Errorf("Projects = %v", projects)
	}

	parts, err := idx.Parts("fixture_plate")
	if err != nil {
		t.Fatalf("Parts failed: %v", err)
	}
	if len(parts) != 2 || parts[0] != "bracket" || parts[1] != "pump_housing" {
		t.Errorf("Parts = %v", parts)
	}
}
