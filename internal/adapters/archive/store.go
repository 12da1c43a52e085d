package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"chipwarden/internal/domain"
	"chipwarden/internal/ports"
)

// versionedFile matches archived program filenames:
// {sanitized_part}_v{version}_{posted}.nc
var versionedFile = regexp.MustCompile(`^(.+)_v(\d+)_(.+)\.nc$`)

// Store implements ports.Archive on the filesystem. The archive root holds
// one directory per sanitized project name, each holding one directory per
// sanitized part name with the versioned files and the part changelog.
type Store struct {
	root   string
	repo   ports.Repository
	commit bool
	logger *zap.Logger
}

// Ensure Store implements Archive
var _ ports.Archive = (*Store)(nil)

// NewStore creates a Store rooted at root. When repo is non-nil it is
// initialized once here; an initialization failure is logged and does not
// prevent file-based archival. commit controls whether each archival is
// also committed.
func NewStore(root string, repo ports.Repository, commit bool, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive root: %w", err)
	}

	s := &Store{
		root:   root,
		repo:   repo,
		commit: commit,
		logger: logger,
	}

	if repo != nil {
		if err := repo.Init(root); err != nil {
			logger.Warn("repository initialization failed, archiving without commits",
				zap.String("root", root), zap.Error(err))
			s.repo = nil
		}
	}

	return s, nil
}

// Root returns the archive root directory.
func (s *Store) Root() string {
	return s.root
}

// Projects returns the sanitized project directory names under the root.
func (s *Store) Projects() ([]string, error) {
	return listDirs(s.root)
}

// Parts returns the sanitized part directory names under a project.
func (s *Store) Parts(project string) ([]string, error) {
	return listDirs(filepath.Join(s.root, domain.SanitizeName(project)))
}

// Versions returns a part's archived versions sorted by modification time,
// newest first. Version number and posted timestamp are recovered from the
// filename.
func (s *Store) Versions(project, part string) ([]domain.Version, error) {
	partDir := s.partDir(project, part)
	entries, err := os.ReadDir(partDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read part directory: %w", err)
	}

	prefix := domain.SanitizeName(part) + "_v"
	var versions []domain.Version
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		m := versionedFile.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		number, convErr := strconv.Atoi(m[2])
		if convErr != nil {
			continue
		}
		info, statErr := entry.Info()
		if statErr != nil {
			continue
		}
		versions = append(versions, domain.Version{
			Project:    project,
			Part:       part,
			Number:     number,
			Posted:     m[3],
			Path:       filepath.Join(partDir, entry.Name()),
			ArchivedAt: info.ModTime(),
		})
	}

	sort.Slice(versions, func(i, j int) bool {
		return versions[i].ArchivedAt.After(versions[j].ArchivedAt)
	})

	return versions, nil
}

// NextVersion returns count of existing versioned files for the key plus one.
func (s *Store) NextVersion(project, part string) (int, error) {
	versions, err := s.Versions(project, part)
	if err != nil {
		return 0, err
	}
	return len(versions) + 1, nil
}

// ArchiveFile copies the source program into the part directory under the
// versioned filename, preserving the source timestamps, prepends a changelog
// entry, and commits both files when commits are enabled. Commit failures
// are logged and non-fatal: the file copy and changelog are already durable.
func (s *Store) ArchiveFile(src string, meta *domain.Metadata) (string, int, error) {
	partDir := s.partDir(meta.Project, meta.Part)
	if err := os.MkdirAll(partDir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create part directory: %w", err)
	}

	version, err := s.NextVersion(meta.Project, meta.Part)
	if err != nil {
		return "", 0, err
	}

	destPath := filepath.Join(partDir, meta.VersionFilename(version))
	if err := copyPreservingTimes(src, destPath); err != nil {
		return "", 0, fmt.Errorf("failed to archive %s: %w", src, err)
	}

	changelogPath, err := s.updateChangelog(partDir, meta, version)
	if err != nil {
		return "", 0, err
	}

	if s.commit && s.repo != nil {
		s.commitVersion(meta, version, destPath, changelogPath)
	}

	return destPath, version, nil
}

// Changelog returns the part's changelog document.
func (s *Store) Changelog(project, part string) (string, error) {
	path := filepath.Join(s.partDir(project, part), changelogName)
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("no changelog for %s/%s", project, part)
	}
	if err != nil {
		return "", err
	}
	return string(content), nil
}

func (s *Store) partDir(project, part string) string {
	return filepath.Join(s.root, domain.SanitizeName(project), domain.SanitizeName(part))
}

func (s *Store) commitVersion(meta *domain.Metadata, version int, destPath, changelogPath string) {
	relDest, err := filepath.Rel(s.root, destPath)
	if err != nil {
		s.logger.Warn("commit skipped, destination outside archive root", zap.Error(err))
		return
	}
	relChangelog, err := filepath.Rel(s.root, changelogPath)
	if err != nil {
		s.logger.Warn("commit skipped, changelog outside archive root", zap.Error(err))
		return
	}

	message := commitMessage(meta, version)
	if err := s.repo.StageAndCommit(s.root, []string{relDest, relChangelog}, message); err != nil {
		s.logger.Warn("commit failed, archival still durable",
			zap.String("part", meta.Part), zap.Int("version", version), zap.Error(err))
		return
	}

	s.logger.Info("committed new version",
		zap.String("part", meta.Part), zap.Int("version", version))
}

func commitMessage(meta *domain.Metadata, version int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s v%d - %s\n\n", meta.Part, version, meta.Setup)
	fmt.Fprintf(&b, "Project: %s\n", meta.Project)
	fmt.Fprintf(&b, "Machine: %s\n", meta.Machine)
	fmt.Fprintf(&b, "Operations: %d\n", meta.Operations)
	fmt.Fprintf(&b, "Tools: %d\n", meta.ToolCount)
	fmt.Fprintf(&b, "Posted: %s\n", meta.Posted)
	return b.String()
}

// copyPreservingTimes copies src to dst byte-for-byte and carries over the
// source access/modification times.
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

func listDirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
