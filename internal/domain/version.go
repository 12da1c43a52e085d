package domain

import "time"

// Version is one immutable archived artifact for a (project, part) key.
// Listings produced by scanning the archive fill the fields derivable from
// the filename and file stat; the version index stores the full record.
type Version struct {
	Project    string
	Part       string
	Number     int
	Posted     string // raw posted timestamp from the filename/header
	Machine    string
	Setup      string
	ToolCount  int
	Operations int
	Path       string // absolute path of the archived file
	ArchivedAt time.Time
}

// TreeKind identifies the level of an archive tree node.
type TreeKind int

const (
	TreeProject TreeKind = iota
	TreePart
	TreeVersion
)

// TreeNode is one entry in the browsable archive tree
// (project -> part -> versions, newest first).
type TreeNode struct {
	Kind     TreeKind
	Label    string
	Project  string
	Part     string
	Version  *Version // set for TreeVersion nodes
	Children []*TreeNode
	Expanded bool
	Loaded   bool
}
