package ports

import "chipwarden/internal/domain"

// IndexStats holds archive totals for status reporting.
type IndexStats struct {
	Projects int
	Parts    int
	Versions int
}

// VersionIndex provides cached queries over archived versions. The index is
// derived state: the archive filesystem remains authoritative and the index
// can always be rebuilt from it.
type VersionIndex interface {
	// Lifecycle
	Open(dbPath string) error
	Close() error

	// Record upserts one archived version.
	Record(v domain.Version) error

	// Queries
	Latest(part string) (*domain.Version, error)
	Versions(project, part string) ([]domain.Version, error)
	Projects() ([]string, error)
	Parts(project string) ([]string, error)
	Stats() (IndexStats, error)

	// Clear empties the index ahead of a rebuild.
	Clear() error
}
