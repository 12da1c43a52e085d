package commands

import (
	"context"

	"chipwarden/internal/domain"
	"chipwarden/internal/ports"
)

// ListProjectsCommand lists all projects in the archive
type ListProjectsCommand struct {
	archive ports.Archive
}

// NewListProjectsCommand creates a new ListProjectsCommand
func NewListProjectsCommand(archive ports.Archive) *ListProjectsCommand {
	return &ListProjectsCommand{archive: archive}
}

// Execute runs the list projects command
func (c *ListProjectsCommand) Execute(ctx context.Context) ([]string, error) {
	return c.archive.Projects()
}

// ListPartsCommand lists all parts within a project
type ListPartsCommand struct {
	archive ports.Archive
	Project string
}

// NewListPartsCommand creates a new ListPartsCommand
func NewListPartsCommand(archive ports.Archive, project string) *ListPartsCommand {
	return &ListPartsCommand{
		archive: archive,
		Project: project,
	}
}

// Execute runs the list parts command
func (c *ListPartsCommand) Execute(ctx context.Context) ([]string, error) {
	return c.archive.Parts(c.Project)
}

// ListVersionsCommand lists archived versions of a part, newest first
type ListVersionsCommand struct {
	archive ports.Archive
	Project string
	Part    string
}

// NewListVersionsCommand creates a new ListVersionsCommand
func NewListVersionsCommand(archive ports.Archive, project, part string) *ListVersionsCommand {
	return &ListVersionsCommand{
		archive: archive,
		Project: project,
		Part:    part,
	}
}

// Execute runs the list versions command
func (c *ListVersionsCommand) Execute(ctx context.Context) ([]domain.Version, error) {
	return c.archive.Versions(c.Project, c.Part)
}
