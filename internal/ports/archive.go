package ports

import "chipwarden/internal/domain"

// Archive defines the interface for the versioned parts archive. The
// filesystem layout (archive root -> project -> part -> versioned files plus
// changelog) is the source of truth for version numbering.
type Archive interface {
	// Listing
	Projects() ([]string, error)
	Parts(project string) ([]string, error)
	// Versions returns a part's archived versions sorted by file
	// modification time, newest first.
	Versions(project, part string) ([]domain.Version, error)

	// NextVersion returns the version number the next archival for this key
	// will be assigned: count of existing versioned files plus one.
	NextVersion(project, part string) (int, error)

	// ArchiveFile copies the source program into the part directory under
	// the versioned filename, updates the changelog, and commits both when
	// commit-on-archive is enabled. Returns the destination path and the
	// assigned version number.
	ArchiveFile(src string, meta *domain.Metadata) (string, int, error)

	// Changelog returns the part's changelog document.
	Changelog(project, part string) (string, error)

	// Tree operations for the browser
	BuildTree() (*domain.TreeNode, error)
	LoadChildren(node *domain.TreeNode) error

	// Root returns the archive root directory.
	Root() string
}
