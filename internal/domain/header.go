package domain

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Sentinels that delimit the metadata block a post processor embeds in each
// program. Producers write one "(KEY: VALUE)" comment per line between them.
const (
	MetadataStart = "CHIP-WARDEN-START"
	MetadataEnd   = "CHIP-WARDEN-END"
)

var (
	// ErrNoMetadata reports that a program carries no usable header: either
	// the sentinels are absent or a required field (project, part, posted)
	// is missing. This is an expected outcome for plain program files.
	ErrNoMetadata = errors.New("no metadata found")

	// ErrMalformedMetadata reports that a header field was present but could
	// not be coerced (e.g. a non-numeric tool count). Handled the same as
	// ErrNoMetadata by callers, but kept distinct for diagnostics.
	ErrMalformedMetadata = errors.New("malformed metadata")
)

var (
	commentPattern = regexp.MustCompile(`\(([^)]+)\)`)
	programPattern = regexp.MustCompile(`^O(\d+)`)
)

// ParseFile reads a program file and extracts its metadata. A read failure
// is returned as-is, distinct from the metadata sentinels: an unreadable
// file is an I/O problem, not a plain program.
func ParseFile(path string) (*Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseContent(string(content))
}

// ParseContent extracts metadata from raw program text. It returns either a
// complete record or an error; never a partial record.
//
// Lines between the start and end sentinels are scanned for "(KEY: VALUE)"
// comments. Keys are case-insensitive with hyphens and underscores
// interchangeable; a repeated key overwrites the earlier value. A line
// containing the end sentinel terminates the scan entirely. The first
// pre-block line of the form O<digits> supplies the program number.
func ParseContent(content string) (*Metadata, error) {
	fields := make(map[string]string)
	programNumber := ""
	inBlock := false

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)

		if programNumber == "" && strings.HasPrefix(line, "O") {
			if m := programPattern.FindStringSubmatch(line); m != nil {
				programNumber = m[1]
			}
		}

		if strings.Contains(line, MetadataStart) {
			inBlock = true
			continue
		}
		if strings.Contains(line, MetadataEnd) {
			break
		}

		if !inBlock {
			continue
		}

		m := commentPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		comment := m[1]
		if !strings.Contains(comment, ":") {
			continue
		}

		key, value, _ := strings.Cut(comment, ":")
		key = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
		fields[key] = strings.TrimSpace(value)
	}

	for _, required := range []string{"project", "part", "posted"} {
		if _, ok := fields[required]; !ok {
			return nil, fmt.Errorf("missing required field %q: %w", required, ErrNoMetadata)
		}
	}

	operations, err := coerceCount(fields, "operations")
	if err != nil {
		return nil, err
	}
	toolCount, err := coerceCount(fields, "tool_count")
	if err != nil {
		return nil, err
	}

	return &Metadata{
		Project:       fields["project"],
		Part:          fields["part"],
		Posted:        fields["posted"],
		Operations:    operations,
		ToolCount:     toolCount,
		Machine:       fieldOrDefault(fields, "machine"),
		Setup:         fieldOrDefault(fields, "setup"),
		ProgramNumber: programNumber,
	}, nil
}

func coerceCount(fields map[string]string, key string) (int, error) {
	raw, ok := fields[key]
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("field %q has invalid value %q: %w", key, raw, ErrMalformedMetadata)
	}
	return n, nil
}

func fieldOrDefault(fields map[string]string, key string) string {
	if v, ok := fields[key]; ok && v != "" {
		return v
	}
	return UnknownField
}
