package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"chipwarden/internal/ports"
)

// RegisterReadTools adds all read-only archive tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, archive ports.Archive, index ports.VersionIndex) {
	s.AddTool(listProjectsTool(), listProjectsHandler(archive))
	s.AddTool(listPartsTool(), listPartsHandler(archive))
	s.AddTool(listVersionsTool(), listVersionsHandler(archive))
	s.AddTool(latestTool(), latestHandler(index, archive))
	s.AddTool(changelogTool(), changelogHandler(archive))
	s.AddTool(statsTool(), statsHandler(index))
}

// --- list_projects ---

func listProjectsTool() mcp.Tool {
	return mcp.NewTool("list_projects",
		mcp.WithDescription("List all projects in the parts archive."),
	)
}

func listProjectsHandler(archive ports.Archive) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projects, err := archive.Projects()
		if err != nil {
			return toolError(err)
		}
		return formatNames(projects)
	}
}

// --- list_parts ---

func listPartsTool() mcp.Tool {
	return mcp.NewTool("list_parts",
		mcp.WithDescription("List the parts archived under a project."),
		mcp.WithString("project",
			mcp.Description("Project name"),
			mcp.Required(),
		),
	)
}

func listPartsHandler(archive ports.Archive) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		project := req.GetString("project", "")
		if project == "" {
			return toolError(fmt.Errorf("project is required"))
		}
		parts, err := archive.Parts(project)
		if err != nil {
			return toolError(err)
		}
		return formatNames(parts)
	}
}

// --- list_versions ---

func listVersionsTool() mcp.Tool {
	return mcp.NewTool("list_versions",
		mcp.WithDescription("List a part's archived versions, newest first."),
		mcp.WithString("project",
			mcp.Description("Project name"),
			mcp.Required(),
		),
		mcp.WithString("part",
			mcp.Description("Part name"),
			mcp.Required(),
		),
	)
}

func listVersionsHandler(archive ports.Archive) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		project := req.GetString("project", "")
		part := req.GetString("part", "")
		if project == "" || part == "" {
			return toolError(fmt.Errorf("project and part are required"))
		}

		versions, err := archive.Versions(project, part)
		if err != nil {
			return toolError(err)
		}
		if len(versions) == 0 {
			return mcp.NewToolResultText("No versions archived."), nil
		}

		var sb strings.Builder
		for _, v := range versions {
			fmt.Fprintf(&sb, "v%d  %s  %s\n", v.Number, v.Posted, v.Path)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- latest ---

func latestTool() mcp.Tool {
	return mcp.NewTool("latest",
		mcp.WithDescription("Show the newest archived version of a part, with machine and tooling details when indexed."),
		mcp.WithString("part",
			mcp.Description("Part name (sanitized form, as listed)"),
			mcp.Required(),
		),
	)
}

func latestHandler(index ports.VersionIndex, archive ports.Archive) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		part := req.GetString("part", "")
		if part == "" {
			return toolError(fmt.Errorf("part is required"))
		}

		v, err := index.Latest(part)
		if err != nil {
			return toolError(err)
		}
		if v == nil {
			return mcp.NewToolResultText("Part has never been archived."), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "%s v%d\n", v.Part, v.Number)
		fmt.Fprintf(&sb, "Project: %s\n", v.Project)
		fmt.Fprintf(&sb, "Posted: %s\n", v.Posted)
		fmt.Fprintf(&sb, "Machine: %s\n", v.Machine)
		fmt.Fprintf(&sb, "Setup: %s\n", v.Setup)
		fmt.Fprintf(&sb, "Tools: %d\n", v.ToolCount)
		fmt.Fprintf(&sb, "Operations: %d\n", v.Operations)
		fmt.Fprintf(&sb, "Path: %s\n", v.Path)
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- changelog ---

func changelogTool() mcp.Tool {
	return mcp.NewTool("changelog",
		mcp.WithDescription("Read a part's changelog, newest entry first."),
		mcp.WithString("project",
			mcp.Description("Project name"),
			mcp.Required(),
		),
		mcp.WithString("part",
			mcp.Description("Part name"),
			mcp.Required(),
		),
	)
}

func changelogHandler(archive ports.Archive) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		project := req.GetString("project", "")
		part := req.GetString("part", "")
		if project == "" || part == "" {
			return toolError(fmt.Errorf("project and part are required"))
		}

		content, err := archive.Changelog(project, part)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(content), nil
	}
}

// --- stats ---

func statsTool() mcp.Tool {
	return mcp.NewTool("stats",
		mcp.WithDescription("Archive totals: projects, parts, versions."),
	)
}

func statsHandler(index ports.VersionIndex) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stats, err := index.Stats()
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf(
			"Projects: %d\nParts: %d\nVersions: %d",
			stats.Projects, stats.Parts, stats.Versions)), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatNames(names []string) (*mcp.CallToolResult, error) {
	if len(names) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, name := range names {
		sb.WriteString(name)
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}
