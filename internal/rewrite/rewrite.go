// Package rewrite expands block_on attributes across whole source files:
// each attribute is consumed and the impl block it annotates is replaced
// by its augmented form.
package rewrite

import (
	"os"
	"strings"

	"github.com/toyz/blockgen/internal/annotations"
	"github.com/toyz/blockgen/internal/backend"
	"github.com/toyz/blockgen/internal/models"
	"github.com/toyz/blockgen/internal/parser"
	"github.com/toyz/blockgen/internal/templates"
	"github.com/toyz/blockgen/internal/transform"
)

// ExpandSource rewrites every #[block_on("...")] annotated impl block in
// src. Returns the rewritten source and whether anything changed. Any
// error aborts the whole file; no partially expanded output is returned.
func ExpandSource(filename, src string) (string, bool, error) {
	var out strings.Builder
	changed := false
	offset := 0

	for offset < len(src) {
		attrStart, attrEnd, line := findAttribute(src, offset)
		if attrStart < 0 {
			out.WriteString(src[offset:])
			break
		}

		selector, err := annotations.ParseBlockOn(line)
		if err != nil {
			return "", false, &models.GeneratorError{
				Type:    models.ErrorTypeSyntax,
				File:    filename,
				Message: err.Error(),
				Cause:   err,
			}
		}
		profile, err := backend.Parse(selector)
		if err != nil {
			return "", false, err
		}

		implStart, implEnd, err := parser.FindImpl(filename, src, attrEnd)
		if err != nil {
			return "", false, err
		}
		collection, err := parser.ParseImpl(filename, src[implStart:implEnd])
		if err != nil {
			return "", false, err
		}
		expanded, err := transform.Transform(collection, profile)
		if err != nil {
			return "", false, err
		}

		out.WriteString(src[offset:attrStart])
		out.WriteString(templates.RenderImpl(expanded))
		offset = implEnd
		changed = true
	}

	if !changed {
		return src, false, nil
	}
	return out.String(), true, nil
}

// ExpandFile reads a source file and expands its contents.
func ExpandFile(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, &models.GeneratorError{
			Type:    models.ErrorTypeFileSystem,
			File:    path,
			Message: "failed to read source file",
			Cause:   err,
		}
	}
	return ExpandSource(path, string(data))
}

// findAttribute locates the next line that carries a block_on attribute,
// returning the line's start offset, the offset just past its newline,
// and the line text.
func findAttribute(src string, from int) (start, end int, line string) {
	for lineStart := from; lineStart < len(src); {
		var next, lineEnd int
		if idx := strings.IndexByte(src[lineStart:], '\n'); idx < 0 {
			lineEnd = len(src)
			next = lineEnd
		} else {
			lineEnd = lineStart + idx
			next = lineEnd + 1
		}
		text := src[lineStart:lineEnd]
		if annotations.Match(text) {
			return lineStart, next, text
		}
		lineStart = next
	}
	return -1, -1, ""
}
