// Package canon renders values in a canonical form suitable for structural
// change detection and content hashing.
package canon

import (
	"bytes"
	"encoding/json"

	"github.com/cespare/xxhash/v2"
)

// Marshal renders v as canonical JSON. Map keys are emitted in sorted order
// and zero-valued fields are pruned via the caller's omitempty tags, so two
// structurally equal values always produce identical bytes.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Fingerprint returns the 64-bit content hash of the canonical form of v.
func Fingerprint(v any) (uint64, error) {
	b, err := Marshal(v)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(b), nil
}

// Equal reports whether a and b have identical canonical forms.
func Equal(a, b any) (bool, error) {
	ab, err := Marshal(a)
	if err != nil {
		return false, err
	}
	bb, err := Marshal(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ab, bb), nil
}
