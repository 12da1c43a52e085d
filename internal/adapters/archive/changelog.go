package archive

import (
	"fmt"
	"os"
	"path/filepath"

	"chipwarden/internal/domain"
)

const changelogName = "CHANGELOG.md"

// updateChangelog prepends an entry for the new version to the part's
// changelog, creating the document on first archival. Returns the changelog
// path for staging.
func (s *Store) updateChangelog(partDir string, meta *domain.Metadata, version int) (string, error) {
	path := filepath.Join(partDir, changelogName)

	existing := ""
	content, err := os.ReadFile(path)
	if err == nil {
		existing = string(content)
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read changelog: %w", err)
	}

	updated := domain.PrependEntry(existing, meta, version)
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		return "", fmt.Errorf("failed to write changelog: %w", err)
	}

	return path, nil
}
