package commands

import (
	"context"

	"chipwarden/internal/application"
	"chipwarden/internal/ports"
)

// ChangelogCommand returns a part's changelog document
type ChangelogCommand struct {
	archive ports.Archive
	Project string
	Part    string
}

// NewChangelogCommand creates a new ChangelogCommand
func NewChangelogCommand(archive ports.Archive, project, part string) *ChangelogCommand {
	return &ChangelogCommand{
		archive: archive,
		Project: project,
		Part:    part,
	}
}

// Validate checks the command parameters
func (c *ChangelogCommand) Validate() error {
	if c.Project == "" {
		return &application.ValidationError{Field: "project", Message: "project is required"}
	}
	if c.Part == "" {
		return &application.ValidationError{Field: "part", Message: "part is required"}
	}
	return nil
}

// Execute runs the changelog command
func (c *ChangelogCommand) Execute(ctx context.Context) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c.archive.Changelog(c.Project, c.Part)
}
