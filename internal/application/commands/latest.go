package commands

import (
	"context"
	"fmt"

	"chipwarden/internal/application"
	"chipwarden/internal/domain"
	"chipwarden/internal/ports"
)

// LatestVersionCommand returns the newest archived version of a part
type LatestVersionCommand struct {
	archive ports.Archive
	Project string
	Part    string
}

// NewLatestVersionCommand creates a new LatestVersionCommand
func NewLatestVersionCommand(archive ports.Archive, project, part string) *LatestVersionCommand {
	return &LatestVersionCommand{
		archive: archive,
		Project: project,
		Part:    part,
	}
}

// Validate checks the command parameters
func (c *LatestVersionCommand) Validate() error {
	if c.Project == "" {
		return &application.ValidationError{Field: "project", Message: "project is required"}
	}
	if c.Part == "" {
		return &application.ValidationError{Field: "part", Message: "part is required"}
	}
	return nil
}

// Execute runs the latest version command
func (c *LatestVersionCommand) Execute(ctx context.Context) (*domain.Version, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	versions, err := c.archive.Versions(c.Project, c.Part)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("part %s/%s: %w", c.Project, c.Part, application.ErrNotFound)
	}
	return &versions[0], nil
}
