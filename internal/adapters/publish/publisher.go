package publish

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"chipwarden/internal/domain"
	"chipwarden/internal/ports"
)

// Publisher copies archived versions to a flat machine-facing directory,
// typically a network share the CNC controls read from, and prunes old
// versions so operators only see the most recent programs.
type Publisher struct {
	dir    string
	logger *zap.Logger
}

var _ ports.Publisher = (*Publisher)(nil)

func NewPublisher(dir string, logger *zap.Logger) (*Publisher, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create publish directory: %w", err)
	}
	return &Publisher{dir: dir, logger: logger}, nil
}

// Publish copies the source file to the publish directory under the same
// versioned filename used in the archive, preserving timestamps.
func (p *Publisher) Publish(src string, meta *domain.Metadata, version int) (string, error) {
	dest := filepath.Join(p.dir, meta.VersionFilename(version))
	if err := copyPreservingTimes(src, dest); err != nil {
		return "", fmt.Errorf("failed to publish %s: %w", src, err)
	}
	return dest, nil
}

// Sweep groups published .nc files by part prefix (the filename portion
// before the first "_v") and removes all but the keep newest per group,
// newest by modification time. Per-file removal failures are logged and
// skipped; the sweep continues. Returns the number of files removed.
func (p *Publisher) Sweep(keep int) (int, error) {
	files, err := p.published()
	if err != nil {
		return 0, err
	}

	groups := make(map[string][]publishedFile)
	for _, f := range files {
		groups[partPrefix(f.name)] = append(groups[partPrefix(f.name)], f)
	}

	removed := 0
	for _, group := range groups {
		if len(group) <= keep {
			continue
		}
		sort.Slice(group, func(i, j int) bool {
			return group[i].modTime.After(group[j].modTime)
		})
		for _, f := range group[keep:] {
			if err := os.Remove(filepath.Join(p.dir, f.name)); err != nil {
				p.logger.Warn("failed to remove published file",
					zap.String("file", f.name), zap.Error(err))
				continue
			}
			removed++
		}
	}
	return removed, nil
}

// Files returns the published .nc filenames sorted newest first.
func (p *Publisher) Files() ([]string, error) {
	files, err := p.published()
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.After(files[j].modTime)
	})
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.name
	}
	return names, nil
}

type publishedFile struct {
	name    string
	modTime time.Time
}

func (p *Publisher) published() ([]publishedFile, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read publish directory: %w", err)
	}

	var files []publishedFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".nc") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, publishedFile{name: entry.Name(), modTime: info.ModTime()})
	}
	return files, nil
}

// partPrefix returns the grouping key for retention: the filename up to the
// first version marker. Files without a marker group under their full stem.
func partPrefix(name string) string {
	stem := strings.TrimSuffix(name, ".nc")
	if idx := strings.Index(stem, "_v"); idx >= 0 {
		return stem[:idx]
	}
	return stem
}

func copyPreservingTimes(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
