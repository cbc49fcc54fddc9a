package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// implLexer tokenizes Rust-shaped source. Whitespace and comments are kept
// as tokens so member text can be recovered verbatim from source offsets.
// Char must come before Lifetime so 'a' beats 'a, and Arrow/PathSep must
// come before Punct so -> and :: stay single tokens.
var implLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "LineComment", Pattern: `//[^\n]*`},
	{Name: "BlockComment", Pattern: `/\*(?:[^*]|\*+[^*/])*\*+/`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Char", Pattern: `'(\\.|[^'\\])'`},
	{Name: "Lifetime", Pattern: `'[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Number", Pattern: `[0-9][0-9a-zA-Z_]*`},
	{Name: "Arrow", Pattern: `->`},
	{Name: "FatArrow", Pattern: `=>`},
	{Name: "PathSep", Pattern: `::`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Punct", Pattern: `[!#$%&()*+,\-./:;<=>?@\[\]^{|}~]`},
})

// symbolNames maps lexer token types back to their rule names.
var symbolNames = func() map[lexer.TokenType]string {
	names := make(map[lexer.TokenType]string)
	for name, typ := range implLexer.Symbols() {
		names[typ] = name
	}
	return names
}()

// lexTokens tokenizes src, dropping the trailing EOF marker.
func lexTokens(filename, src string) ([]lexer.Token, error) {
	lex, err := implLexer.Lex(filename, strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, err
	}
	if n := len(tokens); n > 0 && tokens[n-1].Type == lexer.EOF {
		tokens = tokens[:n-1]
	}
	return tokens, nil
}

// tokenKind returns the rule name of a token
func tokenKind(t lexer.Token) string {
	return symbolNames[t.Type]
}

// isTrivia reports whether a token is whitespace or a comment
func isTrivia(t lexer.Token) bool {
	switch tokenKind(t) {
	case "Whitespace", "LineComment", "BlockComment":
		return true
	}
	return false
}

// isWhitespace reports whether a token is pure whitespace
func isWhitespace(t lexer.Token) bool {
	return tokenKind(t) == "Whitespace"
}
