package models

import (
	"errors"
	"fmt"
	"testing"
)

func TestGeneratorErrorFormatting(t *testing.T) {
	tests := []struct {
		name     string
		err      *GeneratorError
		expected string
	}{
		{
			name:     "file and line",
			err:      &GeneratorError{File: "lib.rs", Line: 12, Message: "unbalanced braces"},
			expected: "lib.rs:12: unbalanced braces",
		},
		{
			name:     "file only",
			err:      &GeneratorError{File: "lib.rs", Message: "failed to tokenize source"},
			expected: "lib.rs: failed to tokenize source",
		},
		{
			name:     "message only",
			err:      &GeneratorError{Message: "unsupported backend"},
			expected: "unsupported backend",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.expected {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.expected)
			}
		})
	}
}

func TestGeneratorErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &GeneratorError{Message: "wrapper", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause through Unwrap")
	}

	wrapped := fmt.Errorf("outer: %w", err)
	var genErr *GeneratorError
	if !errors.As(wrapped, &genErr) {
		t.Error("errors.As should find the GeneratorError through wrapping")
	}
}

func TestMethodCollectionClone(t *testing.T) {
	original := &MethodCollection{
		TypeName: "Client",
		Header:   "impl Client",
		Members: []Member{
			{
				Kind: MemberKindMethod,
				Raw:  "async fn fetch(&self) {}",
				Method: &Method{
					Signature: MethodSignature{
						Name:       "fetch",
						IsAsync:    true,
						Parameters: []Parameter{{Receiver: true, Pattern: "&self"}},
					},
					SignatureText: "async fn fetch(&self)",
					Body:          "{}",
				},
			},
		},
	}

	cloned := original.Clone()
	cloned.Members[0].Raw = "mutated"
	cloned.Members[0].Method.Signature.Name = "mutated"
	cloned.Members[0].Method.Signature.Parameters[0].Pattern = "mutated"

	if original.Members[0].Raw != "async fn fetch(&self) {}" {
		t.Error("clone aliased the member slice")
	}
	if original.Members[0].Method.Signature.Name != "fetch" {
		t.Error("clone aliased the method")
	}
	if original.Members[0].Method.Signature.Parameters[0].Pattern != "&self" {
		t.Error("clone aliased the parameter slice")
	}
}
