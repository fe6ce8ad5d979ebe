// Package xml projects an encoding/xml token stream onto the spac core's
// Event interface: element starts/ends drive the context stack, everything
// else (character data, comments, processing instructions) is content.
package xml

import (
	encxml "encoding/xml"

	"github.com/creachadair/spac"
)

// Event wraps one token from an encoding/xml.Decoder. Offset is the byte
// position in the input at which the token began, for building located
// errors; encoding/xml does not track line/column, so Location values built
// from it only ever populate Span.
type Event struct {
	Token  encxml.Token
	Offset int64
}

// ContextChange reports Push on a start element (the frame value is the
// encxml.StartElement itself, so leaf parsers and matchers can inspect its
// Name and Attr), Pop on an end element, and NoChange for everything else
// (spec.md §6 "xml package").
func (e Event) ContextChange() (spac.ChangeKind, any) {
	switch t := e.Token.(type) {
	case encxml.StartElement:
		return spac.Push, t
	case encxml.EndElement:
		return spac.Pop, nil
	default:
		return spac.NoChange, nil
	}
}

// Location builds a spac.Location for e, suitable for attaching to a
// *spac.ParseError raised while processing it.
func (e Event) Location() spac.Location {
	return spac.Location{Span: spac.Span{Pos: int(e.Offset)}}
}
