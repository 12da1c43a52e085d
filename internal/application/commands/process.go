package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"chipwarden/internal/application"
	"chipwarden/internal/domain"
	"chipwarden/internal/ports"
)

// ProcessResult contains the outcome of processing one posted program.
type ProcessResult struct {
	Metadata      *domain.Metadata
	Version       int
	ArchivedPath  string
	PublishedPath string
	Removed       int
	Changes       domain.ChangeSet
	Skipped       bool
	SkipReason    string
}

// ProcessFileCommand runs the full pipeline for one posted program file:
// extract metadata, compare against the previous version, archive, publish,
// prune the share, enqueue a notification, and finally remove the source.
// The source file is removed only after every prior step succeeded.
type ProcessFileCommand struct {
	archive    ports.Archive
	publisher  ports.Publisher
	index      ports.VersionIndex      // optional
	dispatcher *application.Dispatcher // optional
	logger     *zap.Logger

	Path         string
	KeepCount    int
	RemoveSource bool
	NotifyOnPost bool
}

// NewProcessFileCommand creates a new ProcessFileCommand. index and
// dispatcher may be nil when indexing or notifications are disabled.
// notifyOnPost gates only the new-version notice; failure notices go out
// whenever a dispatcher is present.
func NewProcessFileCommand(
	archive ports.Archive,
	publisher ports.Publisher,
	index ports.VersionIndex,
	dispatcher *application.Dispatcher,
	logger *zap.Logger,
	path string,
	keepCount int,
	removeSource bool,
	notifyOnPost bool,
) *ProcessFileCommand {
	return &ProcessFileCommand{
		archive:      archive,
		publisher:    publisher,
		index:        index,
		dispatcher:   dispatcher,
		logger:       logger,
		Path:         path,
		KeepCount:    keepCount,
		RemoveSource: removeSource,
		NotifyOnPost: notifyOnPost,
	}
}

// Validate checks the command parameters.
func (c *ProcessFileCommand) Validate() error {
	if c.Path == "" {
		return &application.ValidationError{
			Field:   "path",
			Message: "source file path is required",
		}
	}
	if c.KeepCount < 1 {
		return &application.ValidationError{
			Field:   "keepCount",
			Message: fmt.Sprintf("retention count must be at least 1, got %d", c.KeepCount),
		}
	}
	return nil
}

// Execute runs the pipeline. Absent or malformed metadata is not an error:
// the result reports Skipped and the source file is left untouched. Any
// returned error likewise leaves the source file in place. Pipeline failures
// additionally enqueue a failure notice when a dispatcher is present.
func (c *ProcessFileCommand) Execute(ctx context.Context) (*ProcessResult, error) {
	result, err := c.run(ctx)
	if err != nil && c.dispatcher != nil {
		var perr *application.PipelineError
		if errors.As(err, &perr) {
			c.dispatcher.Enqueue(application.ErrorMessage(perr.Path, perr.Err), true)
		}
	}
	return result, err
}

func (c *ProcessFileCommand) run(ctx context.Context) (result *ProcessResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("panic while processing file",
				zap.String("path", c.Path), zap.Any("panic", r))
			result = nil
			err = &application.PipelineError{
				Path:  c.Path,
				Stage: "process",
				Err:   fmt.Errorf("panic: %v", r),
			}
		}
	}()

	if err := c.Validate(); err != nil {
		return nil, err
	}

	meta, parseErr := domain.ParseFile(c.Path)
	if parseErr != nil {
		return c.skip(parseErr)
	}

	c.logger.Info("parsed program metadata",
		zap.String("project", meta.Project),
		zap.String("part", meta.Part),
		zap.String("machine", meta.Machine),
		zap.String("setup", meta.Setup),
		zap.Int("tools", meta.ToolCount),
		zap.Int("operations", meta.Operations))

	changes := c.detectChanges(meta)
	for _, w := range changes.Warnings {
		c.logger.Warn("change detected against previous version",
			zap.String("part", meta.Part),
			zap.String("severity", w.Severity.String()),
			zap.String("warning", w.Text))
	}

	archivedPath, version, archiveErr := c.archive.ArchiveFile(c.Path, meta)
	if archiveErr != nil {
		return nil, &application.PipelineError{Path: c.Path, Stage: "archive", Err: archiveErr}
	}
	c.logger.Info("archived new version",
		zap.String("part", meta.Part),
		zap.Int("version", version),
		zap.String("path", archivedPath))

	c.recordInIndex(meta, version, archivedPath)

	publishedPath, publishErr := c.publisher.Publish(archivedPath, meta, version)
	if publishErr != nil {
		return nil, &application.PipelineError{Path: c.Path, Stage: "publish", Err: publishErr}
	}

	removed, sweepErr := c.publisher.Sweep(c.KeepCount)
	if sweepErr != nil {
		// Sweep failures never undo a successful archival; the count
		// reflects what was actually removed.
		c.logger.Warn("retention sweep incomplete", zap.Error(sweepErr))
	}

	if c.dispatcher != nil && c.NotifyOnPost {
		c.dispatcher.Enqueue(application.NewVersionMessage(meta, version, changes.Warnings), true)
	}

	if c.RemoveSource {
		if rmErr := os.Remove(c.Path); rmErr != nil {
			c.logger.Warn("could not remove source file", zap.String("path", c.Path), zap.Error(rmErr))
		}
	}

	return &ProcessResult{
		Metadata:      meta,
		Version:       version,
		ArchivedPath:  archivedPath,
		PublishedPath: publishedPath,
		Removed:       removed,
		Changes:       changes,
	}, nil
}

// skip classifies a parse failure. Absent and malformed metadata are normal
// outcomes (file left untouched, distinction logged); anything else is an
// I/O-level failure for this file.
func (c *ProcessFileCommand) skip(parseErr error) (*ProcessResult, error) {
	switch {
	case isMalformed(parseErr):
		c.logger.Warn("metadata present but malformed, file skipped",
			zap.String("path", c.Path), zap.Error(parseErr))
		return &ProcessResult{Skipped: true, SkipReason: "malformed metadata"}, nil
	case isAbsent(parseErr):
		c.logger.Warn("no metadata header found, file skipped",
			zap.String("path", c.Path))
		return &ProcessResult{Skipped: true, SkipReason: "no metadata"}, nil
	default:
		return nil, &application.PipelineError{Path: c.Path, Stage: "extract", Err: parseErr}
	}
}

// detectChanges compares the new metadata against the most recent archived
// version for the same key. A missing or unparseable prior version simply
// yields no comparison.
func (c *ProcessFileCommand) detectChanges(meta *domain.Metadata) domain.ChangeSet {
	versions, err := c.archive.Versions(meta.Project, meta.Part)
	if err != nil || len(versions) == 0 {
		return domain.ChangeSet{}
	}

	prev, err := domain.ParseFile(versions[0].Path)
	if err != nil {
		c.logger.Warn("previous version unparseable, skipping comparison",
			zap.String("path", versions[0].Path), zap.Error(err))
		return domain.ChangeSet{}
	}

	return domain.Compare(prev, meta)
}

func (c *ProcessFileCommand) recordInIndex(meta *domain.Metadata, version int, path string) {
	if c.index == nil {
		return
	}
	info, statErr := os.Stat(path)
	archivedAt := timeNow()
	if statErr == nil {
		archivedAt = info.ModTime()
	}
	err := c.index.Record(domain.Version{
		Project:    meta.Project,
		Part:       meta.Part,
		Number:     version,
		Posted:     meta.Posted,
		Machine:    meta.Machine,
		Setup:      meta.Setup,
		ToolCount:  meta.ToolCount,
		Operations: meta.Operations,
		Path:       path,
		ArchivedAt: archivedAt,
	})
	if err != nil {
		c.logger.Warn("version index update failed", zap.Error(err))
	}
}

func isAbsent(err error) bool {
	return errors.Is(err, domain.ErrNoMetadata)
}

func isMalformed(err error) bool {
	return errors.Is(err, domain.ErrMalformedMetadata)
}

// timeNow is replaceable in tests.
var timeNow = time.Now
