// Package sqlite caches archived version records for fast queries. The
// archive filesystem stays authoritative; the index is rebuilt on demand.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"chipwarden/internal/domain"
	"chipwarden/internal/ports"

	_ "github.com/mattn/go-sqlite3"
)

const schemaVersion = "1"

// Index implements ports.VersionIndex using SQLite
type Index struct {
	db     *sql.DB
	dbPath string
}

// Ensure Index implements VersionIndex
var _ ports.VersionIndex = (*Index)(nil)

// NewIndex creates a new SQLite index
func NewIndex() *Index {
	return &Index{}
}

// Open initializes the index database at dbPath
func (idx *Index) Open(dbPath string) error {
	idx.dbPath = dbPath

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	idx.db = db

	// Performance pragmas + schema in single batch (reduces round-trips)
	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA cache_size = -64000;
		PRAGMA temp_store = MEMORY;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS versions (
			project TEXT NOT NULL,
			part TEXT NOT NULL,
			version INTEGER NOT NULL,
			posted TEXT NOT NULL,
			machine TEXT NOT NULL,
			setup TEXT NOT NULL,
			tool_count INTEGER NOT NULL,
			operations INTEGER NOT NULL,
			path TEXT NOT NULL,
			archived_at INTEGER NOT NULL,
			PRIMARY KEY (project, part, version)
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_versions_part ON versions(part);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	if _, err := db.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)",
		schemaVersion,
	); err != nil {
		db.Close()
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	return nil
}

// Close closes the database connection
func (idx *Index) Close() error {
	if idx.db != nil {
		return idx.db.Close()
	}
	return nil
}

// Record upserts one archived version
func (idx *Index) Record(v domain.Version) error {
	_, err := idx.db.Exec(`
		INSERT OR REPLACE INTO versions
			(project, part, version, posted, machine, setup, tool_count, operations, path, archived_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.Project, v.Part, v.Number, v.Posted, v.Machine, v.Setup,
		v.ToolCount, v.Operations, v.Path, v.ArchivedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to record version: %w", err)
	}
	return nil
}

// Latest returns the highest recorded version for a part name, across
// projects. Returns nil if the part has never been archived.
func (idx *Index) Latest(part string) (*domain.Version, error) {
	row := idx.db.QueryRow(`
		SELECT project, part, version, posted, machine, setup, tool_count, operations, path, archived_at
		FROM versions WHERE part = ?
		ORDER BY version DESC LIMIT 1`, part)

	v, err := scanVersion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest version: %w", err)
	}
	return v, nil
}

// Versions returns recorded versions for a (project, part) key, newest first
func (idx *Index) Versions(project, part string) ([]domain.Version, error) {
	rows, err := idx.db.Query(`
		SELECT project, part, version, posted, machine, setup, tool_count, operations, path, archived_at
		FROM versions WHERE project = ? AND part = ?
		ORDER BY version DESC`, project, part)
	if err != nil {
		return nil, fmt.Errorf("failed to query versions: %w", err)
	}
	defer rows.Close()

	var versions []domain.Version
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		versions = append(versions, *v)
	}
	return versions, rows.Err()
}

// Projects returns the distinct recorded project names
func (idx *Index) Projects() ([]string, error) {
	return idx.distinct("SELECT DISTINCT project FROM versions ORDER BY project")
}

// Parts returns the distinct recorded part names within a project
func (idx *Index) Parts(project string) ([]string, error) {
	return idx.distinct("SELECT DISTINCT part FROM versions WHERE project = ? ORDER BY part", project)
}

// Stats returns archive totals
func (idx *Index) Stats() (ports.IndexStats, error) {
	var stats ports.IndexStats
	err := idx.db.QueryRow(`
		SELECT
			COUNT(DISTINCT project),
			COUNT(DISTINCT project || '/' || part),
			COUNT(*)
		FROM versions`).Scan(&stats.Projects, &stats.Parts, &stats.Versions)
	if err != nil {
		return ports.IndexStats{}, fmt.Errorf("failed to query stats: %w", err)
	}
	return stats, nil
}

// Clear empties the index ahead of a rebuild
func (idx *Index) Clear() error {
	if _, err := idx.db.Exec("DELETE FROM versions"); err != nil {
		return fmt.Errorf("failed to clear index: %w", err)
	}
	return nil
}

func (idx *Index) distinct(query string, args ...any) ([]string, error) {
	rows, err := idx.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query index: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVersion(row scanner) (*domain.Version, error) {
	var v domain.Version
	var archivedAt int64
	err := row.Scan(&v.Project, &v.Part, &v.Number, &v.Posted, &v.Machine,
		&v.Setup, &v.ToolCount, &v.Operations, &v.Path, &archivedAt)
	if err != nil {
		return nil, err
	}
	v.ArchivedAt = time.Unix(archivedAt, 0)
	return &v, nil
}
