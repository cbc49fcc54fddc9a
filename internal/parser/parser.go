// Package parser turns impl-block source text into the neutral method
// collection the transform operates on. It understands just enough of the
// declaration grammar to classify members and split signatures; method
// bodies and non-method items are carried as verbatim source slices.
package parser

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/blockgen/internal/models"
)

// Parser holds the token stream for one unit of source text
type Parser struct {
	filename string
	src      string
	tokens   []lexer.Token
}

// NewParser tokenizes src and returns a parser over it
func NewParser(filename, src string) (*Parser, error) {
	tokens, err := lexTokens(filename, src)
	if err != nil {
		return nil, &models.GeneratorError{
			Type:    models.ErrorTypeSyntax,
			File:    filename,
			Message: "failed to tokenize source",
			Cause:   err,
		}
	}
	return &Parser{filename: filename, src: src, tokens: tokens}, nil
}

// ParseImpl parses a single impl block into a MethodCollection.
func ParseImpl(filename, src string) (*models.MethodCollection, error) {
	p, err := NewParser(filename, src)
	if err != nil {
		return nil, err
	}
	return p.parseImpl()
}

// FindImpl locates the impl block beginning at or after byte offset from
// in src, returning the start and end offsets of the block text. It is
// used to carve an annotated block out of a whole source file.
func FindImpl(filename, src string, from int) (start, end int, err error) {
	p, err := NewParser(filename, src)
	if err != nil {
		return 0, 0, err
	}

	first := -1
	for i := range p.tokens {
		if p.tokens[i].Pos.Offset >= from && !isTrivia(p.tokens[i]) {
			first = i
			break
		}
	}
	if first < 0 || p.tokens[first].Value != "impl" {
		return 0, 0, p.syntaxError(first, "expected an impl block after block_on attribute")
	}

	open := -1
	for k := first; k < len(p.tokens); k++ {
		if p.tokens[k].Value == "{" {
			open = k
			break
		}
	}
	if open < 0 {
		return 0, 0, p.syntaxError(first, "impl block has no body")
	}
	closing, err := p.skipBraces(open)
	if err != nil {
		return 0, 0, err
	}
	return p.offset(first), p.tokenEnd(closing), nil
}

// parseImpl consumes an entire impl block: header, members, closing brace.
func (p *Parser) parseImpl() (*models.MethodCollection, error) {
	i := p.nextCode(0)
	if i >= len(p.tokens) || p.tokens[i].Value != "impl" {
		return nil, p.syntaxError(i, "expected `impl` block")
	}
	implIdx := i
	i++

	j := p.nextCode(i)
	if j < len(p.tokens) && p.tokens[j].Value == "<" {
		var err error
		j, err = p.skipAngles(j)
		if err != nil {
			return nil, err
		}
	}

	// Everything up to the opening brace names the self type. A trait
	// impl carries a `Trait for` prefix; the self type follows the `for`.
	typeName := ""
	bodyOpen := -1
	depth := 0
	for k := j; k < len(p.tokens); k++ {
		t := p.tokens[k]
		if isTrivia(t) {
			continue
		}
		if t.Value == "{" && depth == 0 {
			bodyOpen = k
			break
		}
		switch t.Value {
		case "(", "[", "<":
			depth++
		case ")", "]", ">":
			depth--
		case "for":
			if depth == 0 {
				typeName = ""
			}
		case "where":
			// where-clause idents must not be mistaken for the self type
			if depth == 0 && typeName == "" {
				typeName = "?"
			}
		default:
			if depth == 0 && typeName == "" && tokenKind(t) == "Ident" {
				typeName = t.Value
			}
		}
	}
	if bodyOpen < 0 {
		return nil, p.syntaxError(j, "impl block has no body")
	}
	if typeName == "" || typeName == "?" {
		return nil, p.syntaxError(implIdx, "could not determine the impl self type")
	}

	header := strings.TrimSpace(p.src[p.offset(implIdx):p.offset(bodyOpen)])

	var members []models.Member
	i = bodyOpen + 1
	for {
		code := p.nextCode(i)
		if code >= len(p.tokens) {
			return nil, p.syntaxError(code, "unterminated impl block")
		}
		if p.tokens[code].Value == "}" {
			i = code
			break
		}
		member, next, err := p.parseMember(i)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
		i = next
	}

	if trailing := p.nextCode(i + 1); trailing < len(p.tokens) {
		return nil, p.syntaxError(trailing, "unexpected tokens after impl block")
	}

	return &models.MethodCollection{
		TypeName: typeName,
		Header:   header,
		Members:  members,
	}, nil
}

// parseMember consumes one impl item starting at token index i, which may
// point at leading trivia. Leading comments belong to the item's raw text.
func (p *Parser) parseMember(i int) (models.Member, int, error) {
	rawStart := p.nextNonSpace(i)
	itemStart := p.nextCode(i)

	end, bodyOpen, bodyClose, err := p.scanItem(itemStart)
	if err != nil {
		return models.Member{}, 0, err
	}
	rawEnd := p.tokenEnd(end - 1)
	raw := p.src[p.offset(rawStart):rawEnd]

	sigStart, fnIdx, isAsync, err := p.scanModifiers(itemStart, end)
	if err != nil {
		return models.Member{}, 0, err
	}
	if fnIdx < 0 {
		return models.Member{Kind: models.MemberKindOther, Raw: raw}, end, nil
	}

	nameIdx := p.nextCode(fnIdx + 1)
	if nameIdx >= end || tokenKind(p.tokens[nameIdx]) != "Ident" {
		return models.Member{}, 0, p.syntaxError(nameIdx, "expected method name after `fn`")
	}
	name := p.tokens[nameIdx].Value

	parenIdx := p.nextCode(nameIdx + 1)
	if parenIdx < end && p.tokens[parenIdx].Value == "<" {
		after, err := p.skipAngles(parenIdx)
		if err != nil {
			return models.Member{}, 0, err
		}
		parenIdx = p.nextCode(after)
	}
	if parenIdx >= end || p.tokens[parenIdx].Value != "(" {
		return models.Member{}, 0, p.syntaxError(parenIdx, "expected parameter list for method %q", name)
	}
	params, _, err := p.parseParams(parenIdx)
	if err != nil {
		return models.Member{}, 0, err
	}

	var sigEnd int
	if bodyOpen >= 0 {
		sigEnd = p.offset(bodyOpen)
	} else {
		// bodyless declaration terminated by a semicolon
		sigEnd = p.offset(end - 1)
	}
	signatureText := strings.TrimSpace(p.src[p.offset(sigStart):sigEnd])

	body := ""
	if bodyOpen >= 0 {
		body = p.src[p.offset(bodyOpen):p.tokenEnd(bodyClose)]
	}

	member := models.Member{
		Kind: models.MemberKindMethod,
		Raw:  raw,
		Method: &models.Method{
			Signature: models.MethodSignature{
				Name:       name,
				IsAsync:    isAsync,
				Parameters: params,
			},
			SignatureText: signatureText,
			Body:          body,
		},
	}
	return member, end, nil
}

// scanItem finds the extent of one impl item starting at code token i.
// Items end at a top-level semicolon or at the close of their first
// top-level brace block (an immediately following semicolon still belongs
// to the item).
func (p *Parser) scanItem(i int) (end, bodyOpen, bodyClose int, err error) {
	depth := 0
	bodyOpen, bodyClose = -1, -1
	for k := i; k < len(p.tokens); k++ {
		t := p.tokens[k]
		if isTrivia(t) {
			continue
		}
		switch t.Value {
		case "(", "[":
			depth++
		case ")", "]":
			depth--
		case ";":
			if depth == 0 {
				return k + 1, bodyOpen, bodyClose, nil
			}
		case "{":
			if depth == 0 {
				bodyOpen = k
				bodyClose, err = p.skipBraces(k)
				if err != nil {
					return 0, 0, 0, err
				}
				if next := p.nextCode(bodyClose + 1); next < len(p.tokens) && p.tokens[next].Value == ";" {
					return next + 1, bodyOpen, bodyClose, nil
				}
				return bodyClose + 1, bodyOpen, bodyClose, nil
			}
		}
	}
	return 0, 0, 0, p.syntaxError(i, "unterminated item")
}

// scanModifiers walks the modifier run of an item: attributes, visibility,
// async/const/unsafe/extern. It reports where the signature text begins
// (attributes and doc comments excluded), the index of the `fn` keyword
// (-1 for non-method items), and whether the async modifier is present.
func (p *Parser) scanModifiers(i, end int) (sigStart, fnIdx int, isAsync bool, err error) {
	sigStart, fnIdx = -1, -1
	k := i
	for k < end {
		t := p.tokens[k]
		if isTrivia(t) {
			k++
			continue
		}
		if t.Value == "#" {
			open := p.nextCode(k + 1)
			if open >= end || p.tokens[open].Value != "[" {
				return 0, 0, false, p.syntaxError(k, "malformed attribute")
			}
			closing, err := p.skipBrackets(open)
			if err != nil {
				return 0, 0, false, err
			}
			k = closing + 1
			continue
		}
		if sigStart < 0 {
			sigStart = k
		}
		switch t.Value {
		case "pub":
			k = p.skipVisibility(k)
		case "async":
			isAsync = true
			k++
		case "const", "unsafe", "extern":
			k++
		case "fn":
			fnIdx = k
			return sigStart, fnIdx, isAsync, nil
		default:
			if tokenKind(t) == "String" {
				// the ABI string of an extern qualifier
				k++
				continue
			}
			return sigStart, -1, false, nil
		}
	}
	return sigStart, -1, false, nil
}

// parseParams parses a parenthesized parameter list starting at the open
// paren, splitting entries on top-level commas.
func (p *Parser) parseParams(open int) ([]models.Parameter, int, error) {
	var params []models.Parameter
	depth := 0
	spanStart := p.nextCode(open + 1)

	flush := func(endIdx int) error {
		if spanStart >= endIdx {
			return nil
		}
		param, err := p.parseParam(spanStart, endIdx)
		if err != nil {
			return err
		}
		params = append(params, param)
		return nil
	}

	for k := open + 1; k < len(p.tokens); k++ {
		t := p.tokens[k]
		if isTrivia(t) {
			continue
		}
		switch t.Value {
		case "(", "[", "{", "<":
			depth++
		case "]", "}":
			depth--
		case ">":
			// `->` lexes as Arrow, so a bare `>` always closes a `<`
			depth--
		case ")":
			if depth == 0 {
				if err := flush(k); err != nil {
					return nil, 0, err
				}
				return params, k, nil
			}
			depth--
		case ",":
			if depth == 0 {
				if err := flush(k); err != nil {
					return nil, 0, err
				}
				spanStart = p.nextCode(k + 1)
			}
		}
	}
	return nil, 0, p.syntaxError(open, "unbalanced parameter list")
}

// parseParam classifies one parameter span as a receiver marker or a
// `pattern: type` binding.
func (p *Parser) parseParam(start, end int) (models.Parameter, error) {
	colon := -1
	depth := 0
	hasSelf := false
	for k := start; k < end; k++ {
		t := p.tokens[k]
		if isTrivia(t) {
			continue
		}
		switch t.Value {
		case "(", "[", "{", "<":
			depth++
		case ")", "]", "}", ">":
			depth--
		case ":":
			if depth == 0 && colon < 0 {
				colon = k
			}
		case "self":
			if depth == 0 {
				hasSelf = true
			}
		}
	}

	text := strings.TrimSpace(p.src[p.offset(start):p.offset(end)])
	if hasSelf && colon < 0 {
		return models.Parameter{Receiver: true, Pattern: text}, nil
	}
	if colon < 0 {
		return models.Parameter{}, p.syntaxError(start, "parameter %q is missing a type", text)
	}
	pattern := strings.TrimSpace(p.src[p.offset(start):p.offset(colon)])
	paramType := strings.TrimSpace(p.src[p.tokenEnd(colon):p.offset(end)])
	return models.Parameter{Pattern: pattern, Type: paramType}, nil
}

// skipVisibility advances past `pub` and an optional restriction such as
// `pub(crate)` or `pub(in path)`.
func (p *Parser) skipVisibility(i int) int {
	j := p.nextCode(i + 1)
	if j < len(p.tokens) && p.tokens[j].Value == "(" {
		depth := 0
		for ; j < len(p.tokens); j++ {
			switch p.tokens[j].Value {
			case "(":
				depth++
			case ")":
				depth--
				if depth == 0 {
					return j + 1
				}
			}
		}
	}
	return i + 1
}

// skipAngles advances past a balanced <...> group starting at i.
func (p *Parser) skipAngles(i int) (int, error) {
	depth := 0
	for ; i < len(p.tokens); i++ {
		switch p.tokens[i].Value {
		case "<":
			depth++
		case ">":
			depth--
			if depth == 0 {
				return i + 1, nil
			}
		}
	}
	return 0, p.syntaxError(i, "unbalanced generic parameter list")
}

// skipBraces returns the index of the brace matching the one at i.
func (p *Parser) skipBraces(i int) (int, error) {
	depth := 0
	for ; i < len(p.tokens); i++ {
		switch p.tokens[i].Value {
		case "{":
			depth++
		case "}":
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, p.syntaxError(i, "unbalanced braces")
}

// skipBrackets returns the index of the bracket matching the one at i.
func (p *Parser) skipBrackets(i int) (int, error) {
	depth := 0
	for ; i < len(p.tokens); i++ {
		switch p.tokens[i].Value {
		case "[":
			depth++
		case "]":
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, p.syntaxError(i, "unbalanced brackets")
}

// nextCode returns the first non-trivia token index at or after i.
func (p *Parser) nextCode(i int) int {
	for ; i < len(p.tokens); i++ {
		if !isTrivia(p.tokens[i]) {
			return i
		}
	}
	return len(p.tokens)
}

// nextNonSpace returns the first comment or code token index at or after i.
func (p *Parser) nextNonSpace(i int) int {
	for ; i < len(p.tokens); i++ {
		if !isWhitespace(p.tokens[i]) {
			return i
		}
	}
	return len(p.tokens)
}

// offset returns the byte offset where token i begins.
func (p *Parser) offset(i int) int {
	if i >= len(p.tokens) {
		return len(p.src)
	}
	return p.tokens[i].Pos.Offset
}

// tokenEnd returns the byte offset just past token i.
func (p *Parser) tokenEnd(i int) int {
	if i < 0 || i >= len(p.tokens) {
		return len(p.src)
	}
	return p.tokens[i].Pos.Offset + len(p.tokens[i].Value)
}

func (p *Parser) syntaxError(at int, format string, args ...interface{}) error {
	line := 0
	if at >= 0 && at < len(p.tokens) {
		line = p.tokens[at].Pos.Line
	}
	return &models.GeneratorError{
		Type:    models.ErrorTypeSyntax,
		File:    p.filename,
		Line:    line,
		Message: fmt.Sprintf(format, args...),
	}
}
