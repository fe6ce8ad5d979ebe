package json

import (
	encjson "encoding/json"
	"fmt"

	"github.com/creachadair/spac"
)

// scalarHandler skips Refine events and finishes on the first other event
// it observes — the value's own content event, delivered by the same contextMiddleman mechanism xml's
// leaf parsers rely on (spec.md §4.4: the triggering event is forwarded to
// the freshly built inner handler).
type scalarHandler[T any] struct {
	convert  func(any) (T, error)
	finished bool
}

func (s *scalarHandler[T]) IsFinished() bool { return s.finished }

// HandleInput's first call is always the Refine event that matched this
// member/element (spec.md §4.4: the triggering event is forwarded to the
// freshly built inner handler) — a scalar value has no frame of its own,
// so that first event carries only the key/index bookkeeping, not the
// value itself. The real value follows as the very next event.
func (s *scalarHandler[T]) HandleInput(e Event) (spac.Result[T], bool) {
	if e.Kind == spac.Refine {
		var zero spac.Result[T]
		return zero, false
	}
	s.finished = true
	if e.Kind != spac.NoChange {
		return spac.Failure[T](spac.NewParseError(spac.KindParseMismatch,
			"json: expected a scalar value, got a container")), true
	}
	v, err := s.convert(e.Value)
	if err != nil {
		return spac.Failure[T](spac.NewParseError(spac.KindParseMismatch, "%v", err)), true
	}
	return spac.Success(v), true
}

func (s *scalarHandler[T]) HandleError(cause error) (spac.Result[T], bool) {
	s.finished = true
	return spac.Failure[T](cause), true
}

func (s *scalarHandler[T]) HandleEnd() spac.Result[T] {
	s.finished = true
	return spac.Void[T]()
}

func newScalar[T any](convert func(any) (T, error)) spac.Consumer[Event, T] {
	return func(struct{}) spac.Handler[Event, spac.Result[T]] {
		return &scalarHandler[T]{convert: convert}
	}
}

// Int is a leaf parser for a JSON number with no fractional part.
func Int() spac.Consumer[Event, int64] {
	return newScalar(func(v any) (int64, error) {
		n, ok := v.(encjson.Number)
		if !ok {
			return 0, fmt.Errorf("json: expected a number, got %T", v)
		}
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("json: %q is not an integer", n)
		}
		return i, nil
	})
}

// Float is a leaf parser for any JSON number.
func Float() spac.Consumer[Event, float64] {
	return newScalar(func(v any) (float64, error) {
		n, ok := v.(encjson.Number)
		if !ok {
			return 0, fmt.Errorf("json: expected a number, got %T", v)
		}
		return n.Float64()
	})
}

// String is a leaf parser for a JSON string value.
func String() spac.Consumer[Event, string] {
	return newScalar(func(v any) (string, error) {
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("json: expected a string, got %T", v)
		}
		return s, nil
	})
}

// Bool is a leaf parser for a JSON boolean value.
func Bool() spac.Consumer[Event, bool] {
	return newScalar(func(v any) (bool, error) {
		b, ok := v.(bool)
		if !ok {
			return false, fmt.Errorf("json: expected a boolean, got %T", v)
		}
		return b, nil
	})
}

// container is the tree rawHandler builds up, re-marshaled to a
// canonical JSON value once the matched sub-stream closes.
type container struct {
	isArray bool
	arr     []any
	obj     map[string]any
	key     string
}

func newContainer(isArray bool) *container {
	if isArray {
		return &container{isArray: true, arr: []any{}}
	}
	return &container{obj: map[string]any{}}
}

func (c *container) value() any {
	if c.isArray {
		return c.arr
	}
	return c.obj
}

// rawHandler rebuilds the matched sub-stream's value as a generic Go value
// (map[string]any / []any / scalar) from its Events, rather than slicing the
// original input bytes — encoding/json.Decoder.Token does not expose the
// matched span directly, so "raw" here means "re-marshaled", not
// byte-identical (spec.md §6.2 "json.Raw() (re-marshaled original value...)").
// The re-marshaling itself is done by marshalValue, not encoding/json, so
// that string members go through this module's own escape.Quote rather than
// a second JSON-encoding library.
type rawHandler struct {
	started    bool
	containers []*container
	finished   bool
}

func (r *rawHandler) IsFinished() bool { return r.finished }

func (r *rawHandler) setValue(v any) {
	if len(r.containers) == 0 {
		return
	}
	top := r.containers[len(r.containers)-1]
	if top.isArray {
		top.arr = append(top.arr, v)
	} else {
		top.obj[top.key] = v
	}
}

func (r *rawHandler) HandleInput(e Event) (spac.Result[string], bool) {
	switch e.Kind {
	case spac.Push:
		r.started = true
		r.containers = append(r.containers, newContainer(e.Frame.IsArray))
		return spac.Result[string]{}, false
	case spac.Pop:
		top := r.containers[len(r.containers)-1]
		r.containers = r.containers[:len(r.containers)-1]
		v := top.value()
		if len(r.containers) == 0 {
			r.finished = true
			return spac.Success(marshalValue(v)), true
		}
		r.setValue(v)
		return spac.Result[string]{}, false
	case spac.Refine:
		if !e.Frame.IsArray && len(r.containers) > 0 {
			r.containers[len(r.containers)-1].key = e.Frame.Key
		}
		return spac.Result[string]{}, false
	default: // NoChange content
		if !r.started {
			r.finished = true
			return spac.Success(marshalValue(e.Value)), true
		}
		r.setValue(e.Value)
		return spac.Result[string]{}, false
	}
}

func (r *rawHandler) HandleError(cause error) (spac.Result[string], bool) {
	r.finished = true
	return spac.Failure[string](cause), true
}

func (r *rawHandler) HandleEnd() spac.Result[string] {
	r.finished = true
	return spac.Void[string]()
}

// Raw reconstructs the matched sub-stream's value as re-marshaled JSON
// text — useful for an OneOf alternative over heterogeneously shaped items
// (spec.md §8 scenario 6), where each alternative's parser must return the
// same type regardless of the matched item's actual shape.
func Raw() spac.Consumer[Event, string] {
	return func(struct{}) spac.Handler[Event, spac.Result[string]] {
		return &rawHandler{}
	}
}
