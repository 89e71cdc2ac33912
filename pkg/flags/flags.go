// Package flags holds the request flag bits shared by the engine and every caller.
// Server messages, the CLI and the engine all reference these constants; there is no
// second copy to keep in sync.
package flags

import (
	"errors"
	"fmt"
	"strings"
)

// Flags bit-encodes locale specific search behaviors for one request.
type Flags uint32

const (
	// RequiresGermanUmlautProcessing explores folded umlaut digraphs (ae, oe, ue).
	RequiresGermanUmlautProcessing Flags = 0x1
	// UseFullEditDistance allows substitutions of unrelated keys.
	UseFullEditDistance Flags = 0x2

	// All is every bit the engine understands.
	All = RequiresGermanUmlautProcessing | UseFullEditDistance
)

// ErrUnknown reports flag bits outside All.
var ErrUnknown = errors.New("flags: unknown bits")

// Has reports whether every bit of f2 is set.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// Validate rejects bits the engine does not know about.
func (f Flags) Validate() error {
	if extra := f &^ All; extra != 0 {
		return fmt.Errorf("%#x: %w", uint32(extra), ErrUnknown)
	}
	return nil
}

func (f Flags) String() string {
	var parts []string
	if f.Has(RequiresGermanUmlautProcessing) {
		parts = append(parts, "umlaut")
	}
	if f.Has(UseFullEditDistance) {
		parts = append(parts, "full-edit-distance")
	}
	if extra := f &^ All; extra != 0 {
		parts = append(parts, fmt.Sprintf("%#x", uint32(extra)))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}
