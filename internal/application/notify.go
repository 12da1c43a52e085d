package application

import (
	"fmt"
	"strings"

	"chipwarden/internal/domain"
)

// NewVersionMessage renders the "new program posted" notice. Markdown
// markup, degradable to plain text by notifiers that cannot format.
func NewVersionMessage(m *domain.Metadata, version int, warnings []domain.Warning) string {
	var b strings.Builder
	b.WriteString("*New program posted*\n\n")
	fmt.Fprintf(&b, "*Part:* %s (v%d)\n", m.Part, version)
	fmt.Fprintf(&b, "*Project:* %s\n", m.Project)
	fmt.Fprintf(&b, "*Setup:* %s\n", m.Setup)
	fmt.Fprintf(&b, "*Machine:* %s\n", m.Machine)
	fmt.Fprintf(&b, "*Tools:* %d\n", m.ToolCount)

	if len(warnings) > 0 {
		b.WriteString("\n*Warnings:*\n")
		for _, w := range warnings {
			fmt.Fprintf(&b, "  - %s\n", w.Text)
		}
	}

	b.WriteString("\nFile ready on the share.")
	return b.String()
}

// ErrorMessage renders a processing-failure notice.
func ErrorMessage(path string, err error) string {
	return fmt.Sprintf("*Processing error*\n\n%s\n\n%v", path, err)
}

// CleanupMessage renders a retention-sweep notice.
func CleanupMessage(removed int) string {
	return fmt.Sprintf("Share cleanup removed %d old file(s).", removed)
}
