// Package backend resolves the backend selector string into one of the
// closed set of async runtime profiles a generated wrapper can block on.
package backend

import (
	"fmt"

	"github.com/toyz/blockgen/internal/models"
)

// Profile identifies the async runtime used to drive generated blocking
// wrappers to completion.
type Profile int

const (
	Tokio Profile = iota
	AsyncStd
)

// String returns the selector literal for the profile
func (p Profile) String() string {
	switch p {
	case Tokio:
		return "tokio"
	case AsyncStd:
		return "async-std"
	default:
		return "unknown"
	}
}

// Parse resolves a backend selector string to its Profile. Any selector
// outside the closed set is a configuration error; the caller must abort
// the whole expansion rather than fall back to a default, since one
// profile is shared by every method in the invocation.
func Parse(selector string) (Profile, error) {
	switch selector {
	case "tokio":
		return Tokio, nil
	case "async-std":
		return AsyncStd, nil
	default:
		return 0, &models.GeneratorError{
			Type:    models.ErrorTypeConfiguration,
			Message: fmt.Sprintf("unsupported backend %q: only `tokio` and `async-std` backends are supported", selector),
		}
	}
}
