package spac_test

import (
	"testing"

	"github.com/creachadair/spac"
)

// TestFunnelMergesDisjointSubStreams exercises the motivating scenario for
// Funnel: two Splitters over different element names sharing one
// downstream First, so whichever matches first decides the result.
func TestFunnelMergesDisjointSubStreams(t *testing.T) {
	mkA := func(down spac.Handler[spac.Result[string], spac.Result[string]]) spac.Handler[testEvent, spac.Result[string]] {
		return spac.Split[testEvent, string, string, spac.Result[string]](
			spac.Then(name("root"), name("a")), spac.AsParser[testEvent, string, string](textConsumer()), down)
	}
	mkB := func(down spac.Handler[spac.Result[string], spac.Result[string]]) spac.Handler[testEvent, spac.Result[string]] {
		return spac.Split[testEvent, string, string, spac.Result[string]](
			spac.Then(name("root"), name("b")), spac.AsParser[testEvent, string, string](textConsumer()), down)
	}
	h := spac.Funnel[testEvent, spac.Result[string], spac.Result[string]](spac.First[string](), mkA, mkB)

	events := []testEvent{
		push("root"),
		push("b"), content("from-b"), pop(),
		pop(),
	}
	var out spac.Result[string]
	done := false
	for _, e := range events {
		out, done = h.HandleInput(e)
		if done {
			break
		}
	}
	if !done {
		t.Fatalf("Funnel: never finished")
	}
	if !out.IsSuccess() || out.Value() != "from-b" {
		t.Errorf("Funnel result: got %+v, want Success(\"from-b\")", out)
	}
}

// TestFunnelLetsSiblingKeepEmittingAfterOneExhausts checks the Open
// Question resolution: a funnelled transformer whose own sub-stream never
// matches (and so reaches its own EOF empty) must not prematurely end the
// shared downstream while a sibling is still live and later produces a
// real result — here "b" matches only after "a"'s single occurrence has
// already closed without ever matching.
func TestFunnelLetsSiblingKeepEmittingAfterOneExhausts(t *testing.T) {
	mkA := func(down spac.Handler[spac.Result[string], spac.Result[string]]) spac.Handler[testEvent, spac.Result[string]] {
		return spac.Split[testEvent, string, string, spac.Result[string]](
			spac.Then(name("root"), name("a")), spac.AsParser[testEvent, string, string](textConsumer()), down)
	}
	mkB := func(down spac.Handler[spac.Result[string], spac.Result[string]]) spac.Handler[testEvent, spac.Result[string]] {
		return spac.Split[testEvent, string, string, spac.Result[string]](
			spac.Then(name("root"), name("b")), spac.AsParser[testEvent, string, string](textConsumer()), down)
	}
	h := spac.Funnel[testEvent, spac.Result[string], spac.Result[string]](spac.First[string](), mkA, mkB)

	events := []testEvent{
		push("root"),
		push("c"), content("irrelevant"), pop(), // neither "a" nor "b": matches nothing
		push("b"), content("from-b"), pop(),
		pop(),
	}
	var out spac.Result[string]
	done := false
	for _, e := range events {
		out, done = h.HandleInput(e)
		if done {
			break
		}
	}
	if !done || !out.IsSuccess() || out.Value() != "from-b" {
		t.Errorf("Funnel with a never-matching sibling: got (%+v, %v), want Success(\"from-b\"), true", out, done)
	}
}

func TestFunnelHandleEndWithNoMatch(t *testing.T) {
	mkA := func(down spac.Handler[spac.Result[string], spac.Result[string]]) spac.Handler[testEvent, spac.Result[string]] {
		return spac.Split[testEvent, string, string, spac.Result[string]](
			spac.Then(name("root"), name("a")), spac.AsParser[testEvent, string, string](textConsumer()), down)
	}
	h := spac.Funnel[testEvent, spac.Result[string], spac.Result[string]](spac.First[string](), mkA)

	events := []testEvent{push("root"), content("x"), pop()}
	for _, e := range events {
		if _, done := h.HandleInput(e); done {
			t.Fatalf("Funnel finished mid-stream with no match")
		}
	}
	out := h.HandleEnd()
	if !out.IsEmpty() {
		t.Errorf("Funnel HandleEnd with no match ever found: got %+v, want Empty", out)
	}
}
