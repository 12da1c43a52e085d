package ports

import "chipwarden/internal/domain"

// Publisher defines the interface for the machine-accessible share. Published
// copies are ephemeral: byte-for-byte copies of archived versions, pruned by
// retention sweeps.
type Publisher interface {
	// Publish copies an archived file into the share under the versioned
	// filename convention and returns the published path.
	Publish(src string, meta *domain.Metadata, version int) (string, error)

	// Sweep groups published files by part key (filename prefix before the
	// first "_v"), keeps the newest keep files per key by modification time,
	// deletes the rest, and returns how many were removed. Per-file delete
	// failures are logged and skipped.
	Sweep(keep int) (int, error)

	// Files returns the programs currently on the share.
	Files() ([]string, error)
}
