package domain

import (
	"fmt"
	"strings"
)

// EntryMarker opens every changelog entry. Re-reading a changelog splits the
// document at the first marker instead of counting header lines, so a
// prepend never corrupts the body regardless of how the header was written.
const EntryMarker = "## Version"

// ChangelogHeader renders the one-time header block of a per-part changelog.
func ChangelogHeader(m *Metadata) string {
	return fmt.Sprintf("# %s - Change Log\n\nProject: %s\n\n", m.Part, m.Project)
}

// ChangelogEntry renders one newest-first changelog entry for an archived
// version. The posted line shows calendar time when the raw timestamp parses,
// otherwise the raw string.
func ChangelogEntry(m *Metadata, version int) string {
	posted := m.Posted
	if t, ok := m.PostedTime(); ok {
		posted = t.Format("2006-01-02 15:04")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %d - %s\n\n", EntryMarker, version, m.Posted)
	fmt.Fprintf(&b, "- **Setup:** %s\n", m.Setup)
	fmt.Fprintf(&b, "- **Machine:** %s\n", m.Machine)
	fmt.Fprintf(&b, "- **Operations:** %d\n", m.Operations)
	fmt.Fprintf(&b, "- **Tools:** %d\n", m.ToolCount)
	fmt.Fprintf(&b, "- **Posted:** %s\n\n", posted)
	return b.String()
}

// SplitChangelog divides an existing changelog document into its header and
// the entry body. Everything before the first entry marker is header; a
// document with no entries is all header.
func SplitChangelog(content string) (header, body string) {
	idx := strings.Index(content, EntryMarker)
	if idx < 0 {
		return content, ""
	}
	return content[:idx], content[idx:]
}

// PrependEntry inserts a new entry above all prior entries, preserving the
// existing header and body verbatim. When the document is empty a fresh
// header is written first.
func PrependEntry(existing string, m *Metadata, version int) string {
	entry := ChangelogEntry(m, version)
	if existing == "" {
		return ChangelogHeader(m) + entry
	}
	header, body := SplitChangelog(existing)
	return header + entry + body
}
