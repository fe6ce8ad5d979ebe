// Package json projects an encoding/json token stream onto the spac core's
// Event interface. Object/array delimiters drive Push/Pop; member names and
// array positions are not separate frames of their own but Refine the
// already-open container frame they belong to, mirroring how spec.md's
// Event model describes JSON object keys (§3 "Event": "JSON field names
// refine an already-open object frame") and generalizing the same idea to
// array indices.
package json

import "github.com/creachadair/spac"

// Frame is the value pushed onto the context stack for every JSON
// object/array: a container frame starts out unrefined (Refined == false)
// and is refined once its first member name or element position becomes
// known. Wildcard and AnyIndex require Refined so they never match the
// container's own opening Push, before it has a current member at all.
type Frame struct {
	IsArray bool
	Refined bool
	Key     string // valid when !IsArray && Refined
	Index   int    // valid when IsArray && Refined
}

// Event wraps one decoded step of the token stream. For Push/Refine, Frame
// carries the structural value; for a content event (Kind == NoChange),
// Value carries the decoded scalar (string, bool, encoding/json.Number, or
// nil for a JSON null).
type Event struct {
	Kind   spac.ChangeKind
	Frame  Frame
	Value  any
	Offset int64
}

// ContextChange implements spac.Event.
func (e Event) ContextChange() (spac.ChangeKind, any) {
	switch e.Kind {
	case spac.Push, spac.Refine:
		return e.Kind, e.Frame
	case spac.Pop:
		return spac.Pop, nil
	default:
		return spac.NoChange, nil
	}
}

// Location builds a spac.Location for e; encoding/json does not expose
// line/column, so only Span is populated.
func (e Event) Location() spac.Location {
	return spac.Location{Span: spac.Span{Pos: int(e.Offset)}}
}
