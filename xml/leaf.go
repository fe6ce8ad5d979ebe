package xml

import (
	encxml "encoding/xml"

	"github.com/creachadair/spac"
)

// attrHandler finishes on the very first event it sees, which is always the
// StartElement that caused its enclosing Splitter to open — the
// contextMiddleman delivers that triggering event to the freshly built
// inner handler (spec.md §4.4/§4.5), so a leaf parser that only needs the
// element's own attributes never has to look further than that one event.
type attrHandler struct {
	name     string
	optional bool
	finished bool
}

func (a *attrHandler) IsFinished() bool { return a.finished }

func (a *attrHandler) HandleInput(e Event) (spac.Result[string], bool) {
	a.finished = true
	kind, frame := e.ContextChange()
	if kind != spac.Push {
		return spac.Failure[string](spac.NewParseError(spac.KindCombinatorFault,
			"xml: attribute consumer did not observe a start element")), true
	}
	el := frame.(encxml.StartElement)
	for _, at := range el.Attr {
		if at.Name.Local == a.name {
			return spac.Success(at.Value), true
		}
	}
	if a.optional {
		return spac.Void[string](), true
	}
	return spac.Failure[string](spac.NewParseError("missing-attribute:"+a.name,
		"missing mandatory attribute %q", a.name)), true
}

func (a *attrHandler) HandleError(cause error) (spac.Result[string], bool) {
	a.finished = true
	return spac.Failure[string](cause), true
}

func (a *attrHandler) HandleEnd() spac.Result[string] {
	a.finished = true
	return spac.Void[string]()
}

// Attr is a mandatory-attribute leaf parser (spec.md §8 scenario 1/2): it
// reports the named attribute's value, or a Result.Error of kind
// "missing-attribute:<name>" if the matched element does not carry it.
func Attr(name string) spac.Consumer[Event, string] {
	return func(struct{}) spac.Handler[Event, spac.Result[string]] {
		return &attrHandler{name: name}
	}
}

// OptAttr is Attr's optional counterpart: a missing attribute reports Empty
// rather than Error.
func OptAttr(name string) spac.Consumer[Event, string] {
	return func(struct{}) spac.Handler[Event, spac.Result[string]] {
		return &attrHandler{name: name, optional: true}
	}
}

// textHandler concatenates every CharData token observed while its matched
// element (and any descendants) is open, finishing when the element's own
// closing tag is observed.
type textHandler struct {
	started  bool
	depth    int // nesting depth below the matched element itself
	buf      []byte
	finished bool
}

func (t *textHandler) IsFinished() bool { return t.finished }

func (t *textHandler) HandleInput(e Event) (spac.Result[string], bool) {
	kind, _ := e.ContextChange()
	switch kind {
	case spac.Push:
		if !t.started {
			t.started = true // the matched element's own opening tag
		} else {
			t.depth++
		}
	case spac.Pop:
		if t.depth == 0 {
			t.finished = true
			return spac.Success(string(t.buf)), true
		}
		t.depth--
	default:
		if cd, ok := e.Token.(encxml.CharData); ok {
			t.buf = append(t.buf, cd...)
		}
	}
	var zero spac.Result[string]
	return zero, false
}

func (t *textHandler) HandleError(cause error) (spac.Result[string], bool) {
	t.finished = true
	return spac.Failure[string](cause), true
}

func (t *textHandler) HandleEnd() spac.Result[string] {
	t.finished = true
	return spac.Success(string(t.buf))
}

// Text collects the concatenated character data of the matched element,
// including that of any descendants (spec.md §6.1 "concatenated character
// data of the current element").
func Text() spac.Consumer[Event, string] {
	return func(struct{}) spac.Handler[Event, spac.Result[string]] {
		return &textHandler{}
	}
}
