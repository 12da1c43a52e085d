package ports

// Repository defines the version-control collaborator used by the archive.
// Failures are bookkeeping failures: archival durability never depends on
// them.
type Repository interface {
	// Init initializes a repository at root. Idempotent: an already
	// initialized root is not an error.
	Init(root string) error

	// StageAndCommit stages the given paths (relative to root) and creates
	// a commit with the message.
	StageAndCommit(root string, relPaths []string, message string) error
}
