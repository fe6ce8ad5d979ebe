package json_test

import (
	"strings"
	"testing"

	"github.com/creachadair/spac"
	"github.com/creachadair/spac/json"
)

func splitOn[A any](matcher spac.ContextMatcher[json.Frame], inner spac.Consumer[json.Event, A]) spac.Handler[json.Event, spac.Result[A]] {
	return spac.Split[json.Event, json.Frame, A, spac.Result[A]](
		matcher,
		spac.AsParser[json.Event, json.Frame, A](inner),
		spac.First[A](),
	)
}

func parseString[A any](t *testing.T, doc string, h spac.Handler[json.Event, spac.Result[A]]) spac.Result[A] {
	t.Helper()
	result, err := spac.Parse[json.Event, A](json.NewSource(strings.NewReader(doc)), h)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return result
}

func TestFieldMatchesTopLevelMember(t *testing.T) {
	doc := `{"name": "widget", "count": 3}`
	result := parseString(t, doc, splitOn(json.Field("name"), json.String()))
	if !result.IsSuccess() || result.Value() != "widget" {
		t.Errorf("Field(\"name\")+String: got %+v, want Success(\"widget\")", result)
	}
}

func TestIntAndFloat(t *testing.T) {
	doc := `{"n": 7, "f": 2.5}`
	n := parseString(t, doc, splitOn(json.Field("n"), json.Int()))
	if !n.IsSuccess() || n.Value() != 7 {
		t.Errorf("Field(\"n\")+Int: got %+v, want Success(7)", n)
	}
	f := parseString(t, doc, splitOn(json.Field("f"), json.Float()))
	if !f.IsSuccess() || f.Value() != 2.5 {
		t.Errorf("Field(\"f\")+Float: got %+v, want Success(2.5)", f)
	}
}

func TestBool(t *testing.T) {
	doc := `{"ok": true}`
	result := parseString(t, doc, splitOn(json.Field("ok"), json.Bool()))
	if !result.IsSuccess() || result.Value() != true {
		t.Errorf("Field(\"ok\")+Bool: got %+v, want Success(true)", result)
	}
}

func TestWildcardMatchesAnyMember(t *testing.T) {
	doc := `{"whatever": "hit"}`
	result := parseString(t, doc, splitOn(json.Wildcard(), json.String()))
	if !result.IsSuccess() || result.Value() != "hit" {
		t.Errorf("Wildcard()+String: got %+v, want Success(\"hit\")", result)
	}
}

func TestAnyIndexMatchesArrayElement(t *testing.T) {
	doc := `[10, 20, 30]`
	result := parseString(t, doc, splitOn(json.AnyIndex(), json.Int()))
	if !result.IsSuccess() || result.Value() != 10 {
		t.Errorf("AnyIndex()+Int first match: got %+v, want Success(10)", result)
	}
}

func TestPathWithCrossesArrayBoundary(t *testing.T) {
	doc := `{"items": [{"id": "a"}, {"id": "b"}]}`
	path := json.PathWith(json.Field("items"), json.AnyIndex(), json.Field("id"))
	result := parseString(t, doc, splitOn(path, json.String()))
	if !result.IsSuccess() || result.Value() != "a" {
		t.Errorf("PathWith(Field(\"items\"), AnyIndex(), Field(\"id\")): got %+v, want Success(\"a\")", result)
	}
}

func TestAsListOfCollectsEveryArrayElement(t *testing.T) {
	doc := `{"items": [{"id": "a"}, {"id": "b"}, {"id": "c"}]}`
	path := json.PathWith(json.Field("items"), json.AnyIndex(), json.Field("id"))
	h := spac.Split[json.Event, json.Frame, string, spac.Result[[]string]](
		path,
		spac.AsParser[json.Event, json.Frame, string](json.String()),
		spac.AsListOf[string](),
	)
	result, err := spac.Parse[json.Event, []string](json.NewSource(strings.NewReader(doc)), h)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !result.IsSuccess() {
		t.Fatalf("AsListOf over items[].id: got %+v, want Success", result)
	}
	got := result.Value()
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("AsListOf count: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AsListOf[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRawReMarshalsObject(t *testing.T) {
	doc := `{"item": {"b": 2, "a": 1, "s": "hi", "n": null, "arr": [1, 2]}}`
	result := parseString(t, doc, splitOn(json.Field("item"), json.Raw()))
	if !result.IsSuccess() {
		t.Fatalf("Raw() over an object: got %+v, want Success", result)
	}
	// marshalObject sorts keys for determinism, so the re-marshaled text is
	// predictable even though encoding/json.Decoder.Token does not preserve
	// a Go-level ordered representation of object members.
	want := `{"a":1,"arr":[1,2],"b":2,"n":null,"s":"hi"}`
	if got := result.Value(); got != want {
		t.Errorf("Raw(): got %q, want %q", got, want)
	}
}

func TestRawReMarshalsScalar(t *testing.T) {
	doc := `{"n": 42}`
	result := parseString(t, doc, splitOn(json.Field("n"), json.Raw()))
	if !result.IsSuccess() || result.Value() != "42" {
		t.Errorf("Raw() over a scalar: got %+v, want Success(\"42\")", result)
	}
}

// hereMatcher matches whatever sub-stream it is installed into immediately,
// consuming its entire (possibly empty) stack — used below to run a OneOf
// over the shape of a single already-positioned value, rather than over a
// structural path, since the outer Splitter has already done the path
// matching by the time this runs.
func hereMatcher() spac.ContextMatcher[json.Frame] {
	return func(s *spac.Stack) (json.Frame, int, bool, error) {
		var zero json.Frame
		return zero, s.Depth(), true, nil
	}
}

// guardedShape wraps json.Raw() so that it only succeeds when the matched
// value's own first event satisfies want; otherwise it fails immediately,
// without waiting to see the rest of the value. This is what lets four
// OneOf alternatives, one per JSON shape, run over the very same item and
// have only the one whose shape actually matches report Success.
type guardedShape struct {
	want     func(json.Event) bool
	checked  bool
	finished bool
	inner    spac.Handler[json.Event, spac.Result[string]]
}

func guardShape(want func(json.Event) bool) spac.Consumer[json.Event, string] {
	return func(struct{}) spac.Handler[json.Event, spac.Result[string]] {
		return &guardedShape{want: want, inner: json.Raw()(struct{}{})}
	}
}

func (g *guardedShape) IsFinished() bool { return g.finished }

func (g *guardedShape) HandleInput(e json.Event) (spac.Result[string], bool) {
	if !g.checked && e.Kind != spac.Refine {
		g.checked = true
		if !g.want(e) {
			g.finished = true
			return spac.Failure[string](spac.NewParseError(spac.KindParseMismatch, "json: shape mismatch")), true
		}
	}
	r, done := g.inner.HandleInput(e)
	if done {
		g.finished = true
	}
	return r, done
}

func (g *guardedShape) HandleError(cause error) (spac.Result[string], bool) {
	r, done := g.inner.HandleError(cause)
	if done {
		g.finished = true
	}
	return r, done
}

func (g *guardedShape) HandleEnd() spac.Result[string] {
	g.finished = true
	return g.inner.HandleEnd()
}

func isObjectShape(e json.Event) bool { return e.Kind == spac.Push && !e.Frame.IsArray }
func isArrayShape(e json.Event) bool  { return e.Kind == spac.Push && e.Frame.IsArray }
func isStringShape(e json.Event) bool {
	_, ok := e.Value.(string)
	return e.Kind == spac.NoChange && ok
}
func isBoolShape(e json.Event) bool {
	_, ok := e.Value.(bool)
	return e.Kind == spac.NoChange && ok
}

// TestOneOfPicksSuccessPerItemNotFirstTerminalResult is spec.md §8 scenario
// 6: {"hello":[{"a":1},"str",[1,2,3],true]} parsed with one OneOf alternative
// per shape (object, string, array, bool, in that listed order), collected
// over every array element. For the final element (true), the first three
// alternatives all report Error on the very same triggering event before the
// bool alternative — listed last — ever gets a look at it, which is exactly
// the bug OneOf used to have: a non-Success terminal result from an earlier
// alternative must not stop a later alternative from seeing the same event.
func TestOneOfPicksSuccessPerItemNotFirstTerminalResult(t *testing.T) {
	doc := `{"hello": [{"a": 1}, "str", [1, 2, 3], true]}`

	perItem := func(json.Frame) spac.Handler[json.Event, spac.Result[string]] {
		return spac.OneOf[json.Event, json.Frame, string](
			spac.SplitSpec[json.Event, json.Frame, string]{
				Matcher: hereMatcher(),
				Make:    spac.AsParser[json.Event, json.Frame, string](guardShape(isObjectShape)),
			},
			spac.SplitSpec[json.Event, json.Frame, string]{
				Matcher: hereMatcher(),
				Make:    spac.AsParser[json.Event, json.Frame, string](guardShape(isStringShape)),
			},
			spac.SplitSpec[json.Event, json.Frame, string]{
				Matcher: hereMatcher(),
				Make:    spac.AsParser[json.Event, json.Frame, string](guardShape(isArrayShape)),
			},
			spac.SplitSpec[json.Event, json.Frame, string]{
				Matcher: hereMatcher(),
				Make:    spac.AsParser[json.Event, json.Frame, string](guardShape(isBoolShape)),
			},
		)
	}

	h := spac.Split[json.Event, json.Frame, string, spac.Result[[]string]](
		spac.Then(json.Field("hello"), json.AnyIndex()),
		perItem,
		spac.AsListOf[string](),
	)
	result, err := spac.Parse[json.Event, []string](json.NewSource(strings.NewReader(doc)), h)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !result.IsSuccess() {
		t.Fatalf("oneOf over hello[]: got %+v, want Success", result)
	}
	got := result.Value()
	want := []string{`{"a":1}`, `"str"`, `[1,2,3]`, `true`}
	if len(got) != len(want) {
		t.Fatalf("oneOf over hello[] count: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("oneOf over hello[][%d]: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSourceCloseIsIdempotent(t *testing.T) {
	src := json.NewSource(strings.NewReader(`{}`))
	if err := src.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("second Close: %v, want nil (idempotent)", err)
	}
}
