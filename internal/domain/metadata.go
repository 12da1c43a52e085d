package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// PostedLayout is the lexical format of the posted timestamp embedded in
// program headers, e.g. "2025-10-30-1445".
const PostedLayout = "2006-01-02-1504"

// UnknownField is the default for optional identifier fields that are absent
// from a program header.
const UnknownField = "unknown"

// Metadata is the parsed header of a posted program. It is immutable once
// parsed; a record with the three required fields (Project, Part, Posted)
// is always complete, with optional fields defaulted.
type Metadata struct {
	Project       string
	Part          string
	Posted        string // raw posted timestamp, kept verbatim
	Operations    int
	ToolCount     int
	Machine       string
	Setup         string
	ProgramNumber string // from the O-number line, empty if absent
}

// PostedTime parses the posted timestamp. The second return value is false
// when the timestamp does not match PostedLayout; callers fall back to the
// raw string in that case.
func (m *Metadata) PostedTime() (time.Time, bool) {
	t, err := time.Parse(PostedLayout, m.Posted)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// VersionFilename renders the on-disk name for an archived or published copy:
// {sanitized_part}_v{version}_{posted}.nc. The posted timestamp is copied
// verbatim, not sanitized, so existing archives stay bit-compatible.
func (m *Metadata) VersionFilename(version int) string {
	return fmt.Sprintf("%s_v%d_%s.nc", SanitizeName(m.Part), version, m.Posted)
}

var (
	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_]`)
	underscores = regexp.MustCompile(`_+`)
)

// SanitizeName makes an identifier safe for use in paths and filenames:
// every character that is not a letter, digit, or underscore becomes an
// underscore, runs of underscores collapse to one, leading/trailing
// underscores are stripped, and the result is lower-cased.
func SanitizeName(name string) string {
	safe := unsafeChars.ReplaceAllString(name, "_")
	safe = underscores.ReplaceAllString(safe, "_")
	safe = strings.Trim(safe, "_")
	return strings.ToLower(safe)
}
