package xml

import (
	encxml "encoding/xml"
	"io"

	"github.com/creachadair/spac"
)

// Source adapts an io.Reader into a spac.Source[Event] via
// encoding/xml.Decoder, the xml package's rendering of spec.md §4.2's
// "Event Source adapter" for XML (design grounded on
// arturoeanton-go-xml's streaming-decoder-over-io.Reader convention).
type Source struct {
	dec    *encxml.Decoder
	closer io.Closer
	closed bool
}

// NewSource builds a Source reading from r. If r implements io.Closer,
// Close releases it; otherwise Close is a no-op.
func NewSource(r io.Reader) *Source {
	rc, _ := r.(io.Closer)
	return &Source{dec: encxml.NewDecoder(r), closer: rc}
}

// Next returns the next token as an Event, or io.EOF once the document is
// exhausted.
func (s *Source) Next() (Event, error) {
	offset := s.dec.InputOffset()
	tok, err := s.dec.Token()
	if err != nil {
		return Event{}, err
	}
	return Event{Token: encxml.CopyToken(tok), Offset: offset}, nil
}

// Close releases the underlying reader, if it is closeable. It is
// idempotent (spec.md §5 "Resource discipline").
func (s *Source) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

var _ spac.Source[Event] = (*Source)(nil)
