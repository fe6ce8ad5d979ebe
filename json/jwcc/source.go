// Package jwcc adapts "JSON with comments and commas" input — JSON5-ish
// text carrying line/block comments and trailing commas — into spac's
// plain json package, by standardizing it to strict JSON first.
//
// This mirrors how jtree's own jwcc package (and its bench_test.go) uses
// tailscale/hujson: as a thin preprocessing shim in front of the ordinary
// JSON parser, not a forked grammar of its own.
package jwcc

import (
	"bytes"
	"io"

	"github.com/tailscale/hujson"

	"github.com/creachadair/spac"
	"github.com/creachadair/spac/json"
)

// NewSource reads all of r, standardizes it with hujson.Standardize (strips
// comments and trailing commas), and returns a spac.Source[json.Event] over
// the result. The whole input must be buffered up front because
// Standardize operates on a complete byte slice, not a stream.
func NewSource(r io.Reader) (spac.Source[json.Event], error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	std, err := hujson.Standardize(raw)
	if err != nil {
		return nil, err
	}
	return json.NewSource(bytes.NewReader(std)), nil
}
