package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"chipwarden/internal/domain"
	"chipwarden/internal/ports"
)

// ReindexResult contains the outcome of an index rebuild
type ReindexResult struct {
	Projects int
	Versions int
}

// ReindexCommand rebuilds the version index from the archive filesystem,
// which remains the source of truth.
type ReindexCommand struct {
	archive ports.Archive
	index   ports.VersionIndex
	logger  *zap.Logger
}

// NewReindexCommand creates a new ReindexCommand
func NewReindexCommand(archive ports.Archive, index ports.VersionIndex, logger *zap.Logger) *ReindexCommand {
	return &ReindexCommand{
		archive: archive,
		index:   index,
		logger:  logger,
	}
}

// Execute runs the reindex command
func (c *ReindexCommand) Execute(ctx context.Context) (*ReindexResult, error) {
	if err := c.index.Clear(); err != nil {
		return nil, fmt.Errorf("failed to clear index: %w", err)
	}

	result := &ReindexResult{}

	projects, err := c.archive.Projects()
	if err != nil {
		return nil, err
	}

	for _, project := range projects {
		result.Projects++

		parts, err := c.archive.Parts(project)
		if err != nil {
			return nil, err
		}

		for _, part := range parts {
			versions, err := c.archive.Versions(project, part)
			if err != nil {
				return nil, err
			}
			for _, v := range versions {
				if err := c.index.Record(c.fullRecord(v)); err != nil {
					return nil, fmt.Errorf("failed to record %s v%d: %w", part, v.Number, err)
				}
				result.Versions++
			}
		}
	}

	return result, nil
}

// fullRecord completes a filename-derived listing entry with the metadata
// header stored inside the archived file, so rebuilt records carry the same
// raw project/part names and fields as live processing. A file whose header
// is unreadable keeps its filename-derived record.
func (c *ReindexCommand) fullRecord(v domain.Version) domain.Version {
	meta, err := domain.ParseFile(v.Path)
	if err != nil {
		c.logger.Warn("archived file header unreadable, indexing from filename only",
			zap.String("path", v.Path), zap.Error(err))
		return v
	}

	v.Project = meta.Project
	v.Part = meta.Part
	v.Posted = meta.Posted
	v.Machine = meta.Machine
	v.Setup = meta.Setup
	v.ToolCount = meta.ToolCount
	v.Operations = meta.Operations
	return v
}
