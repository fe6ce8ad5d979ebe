package json

import (
	encjson "encoding/json"
	"io"

	"github.com/creachadair/spac"
)

// frameState is the Source's own bookkeeping for one currently-open
// container, distinct from (and simpler than) the core Stack a Splitter
// maintains from the Events this type emits: it only needs to know whether
// the container is an array (so it knows the next scalar/container token is
// an element, not a key) and, for objects, whether the next token is a
// member name or a member value.
type frameState struct {
	isArray      bool
	expectingKey bool // meaningful only when !isArray
	index        int  // meaningful only when isArray; index of the next element
}

// Source adapts an io.Reader into a spac.Source[Event] via
// encoding/json.Decoder.Token, synthesizing the Refine events spec.md §6.2
// calls for: a bare member-name token refines the enclosing object frame
// instead of being reported as content, and a synthetic index-Refine event
// is emitted immediately before each array element's first real event.
type Source struct {
	dec    *encjson.Decoder
	closer io.Closer
	closed bool

	frames  []frameState
	pending []Event
}

// NewSource builds a Source reading from r. If r implements io.Closer,
// Close releases it; otherwise Close is a no-op. Numbers are decoded via
// encoding/json.Number (not float64) so json.Int can report exact integer
// values.
func NewSource(r io.Reader) *Source {
	dec := encjson.NewDecoder(r)
	dec.UseNumber()
	rc, _ := r.(io.Closer)
	return &Source{dec: dec, closer: rc}
}

func (s *Source) top() *frameState {
	if len(s.frames) == 0 {
		return nil
	}
	return &s.frames[len(s.frames)-1]
}

// Next returns the next Event, or io.EOF once the document is exhausted. A
// single underlying token can produce two Events (an index-Refine followed
// by the element's own event); Next buffers the second until the following
// call.
func (s *Source) Next() (Event, error) {
	if len(s.pending) > 0 {
		e := s.pending[0]
		s.pending = s.pending[1:]
		return e, nil
	}
	offset := s.dec.InputOffset()
	tok, err := s.dec.Token()
	if err != nil {
		return Event{}, err
	}
	s.project(tok, offset)
	e := s.pending[0]
	s.pending = s.pending[1:]
	return e, nil
}

// project turns one decoder token into one or two queued Events, updating
// the source's own frame bookkeeping as it goes.
func (s *Source) project(tok encjson.Token, offset int64) {
	switch t := tok.(type) {
	case encjson.Delim:
		switch t {
		case '{':
			s.enterValue(offset)
			s.push(Event{Kind: spac.Push, Frame: Frame{}, Offset: offset})
			s.frames = append(s.frames, frameState{expectingKey: true})
		case '[':
			s.enterValue(offset)
			s.push(Event{Kind: spac.Push, Frame: Frame{IsArray: true, Index: -1}, Offset: offset})
			s.frames = append(s.frames, frameState{isArray: true, index: -1})
		case '}', ']':
			s.frames = s.frames[:len(s.frames)-1]
			s.push(Event{Kind: spac.Pop, Offset: offset})
			s.leaveValue()
		}
	default:
		// A string, number, bool, or nil (json.Token never reports ',' or
		// ':' — encoding/json's tokenizer elides them).
		top := s.top()
		if top != nil && !top.isArray && top.expectingKey {
			key := t.(string)
			top.expectingKey = false
			s.push(Event{Kind: spac.Refine, Frame: Frame{Key: key, Refined: true}, Offset: offset})
			return
		}
		s.enterValue(offset)
		s.push(Event{Kind: spac.NoChange, Value: t, Offset: offset})
		s.leaveValue()
	}
}

// enterValue synthesizes the array-index Refine that must precede a value
// (scalar or container) sitting in array position, and advances that
// array's index — called once per value, before its first real event.
func (s *Source) enterValue(offset int64) {
	top := s.top()
	if top == nil || !top.isArray {
		return
	}
	top.index++
	s.push(Event{Kind: spac.Refine, Frame: Frame{IsArray: true, Index: top.index, Refined: true}, Offset: offset})
}

// leaveValue runs after a scalar content event or a container's closing
// Pop: an object awaiting its next member flips back to expecting a key.
func (s *Source) leaveValue() {
	top := s.top()
	if top != nil && !top.isArray {
		top.expectingKey = true
	}
}

func (s *Source) push(e Event) { s.pending = append(s.pending, e) }

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
