package templates

import (
	"strings"

	"github.com/toyz/blockgen/internal/models"
)

const memberIndent = "    "

// RenderImpl renders a method collection back to impl-block source.
// Original members are emitted verbatim, keeping their interior line
// layout; synthesized members are rendered from their zero-indented raw
// text and indented to member level.
func RenderImpl(collection *models.MethodCollection) string {
	var out strings.Builder
	out.WriteString(collection.Header)
	out.WriteString(" {\n")
	for i, member := range collection.Members {
		if i > 0 {
			out.WriteString("\n")
		}
		if member.Synthesized {
			out.WriteString(indentLines(member.Raw, memberIndent))
		} else {
			out.WriteString(memberIndent)
			out.WriteString(member.Raw)
		}
		out.WriteString("\n")
	}
	out.WriteString("}")
	return out.String()
}

// indentLines prefixes every non-empty line with the given indent.
func indentLines(text, indent string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = indent + line
		}
	}
	return strings.Join(lines, "\n")
}
