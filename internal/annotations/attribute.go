// Package annotations parses the #[block_on("...")] marker that attaches
// the expansion to an impl block.
package annotations

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// AttributeName is the marker recognized on impl blocks
const AttributeName = "block_on"

// Attribute is the parsed form of a #[block_on("...")] marker
type Attribute struct {
	Name     string
	Selector string
}

// attribute is the participle grammar for an outer attribute carrying a
// single string argument: #[name("value")]
type attribute struct {
	Name     string `parser:"Hash LBracket @Ident"`
	Selector string `parser:"LParen @String RParen RBracket"`
}

var attrLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Hash", Pattern: `#`},
	{Name: "LBracket", Pattern: `\[`},
	{Name: "RBracket", Pattern: `\]`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var attrParser = participle.MustBuild[attribute](
	participle.Lexer(attrLexer),
	participle.Elide("Whitespace"),
)

// Match reports whether a source line looks like a block_on attribute.
// It is a cheap pre-filter; ParseAttribute performs the real parse.
func Match(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#") {
		return false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(trimmed, "#"))
	if !strings.HasPrefix(rest, "[") {
		return false
	}
	rest = strings.TrimSpace(strings.TrimPrefix(rest, "["))
	return strings.HasPrefix(rest, AttributeName)
}

// ParseAttribute parses an attribute line into its name and selector
// string. The selector is unquoted but otherwise unvalidated; resolving
// it against the supported backends is the configuration resolver's job.
func ParseAttribute(line string) (*Attribute, error) {
	parsed, err := attrParser.ParseString("", strings.TrimSpace(line))
	if err != nil {
		return nil, fmt.Errorf("malformed attribute %q: %w", strings.TrimSpace(line), err)
	}

	selector, err := strconv.Unquote(parsed.Selector)
	if err != nil {
		return nil, fmt.Errorf("malformed attribute argument %s: %w", parsed.Selector, err)
	}

	return &Attribute{
		Name:     parsed.Name,
		Selector: selector,
	}, nil
}

// ParseBlockOn parses an attribute line and verifies it is a block_on
// marker, returning the backend selector it carries.
func ParseBlockOn(line string) (string, error) {
	attr, err := ParseAttribute(line)
	if err != nil {
		return "", err
	}
	if attr.Name != AttributeName {
		return "", fmt.Errorf("unexpected attribute %q: expected %q", attr.Name, AttributeName)
	}
	return attr.Selector, nil
}
