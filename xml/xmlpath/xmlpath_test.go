package xmlpath_test

import (
	"strings"
	"testing"

	encxml "encoding/xml"

	"github.com/creachadair/spac"
	"github.com/creachadair/spac/xml"
	"github.com/creachadair/spac/xml/xmlpath"
)

func TestParseLiteralPath(t *testing.T) {
	m, err := xmlpath.Parse(`root\a\b`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	doc := `<root><a><b id="x"/></a></root>`
	h := spac.Split[xml.Event, encxml.StartElement, string, spac.Result[string]](
		m,
		spac.AsParser[xml.Event, encxml.StartElement, string](xml.Attr("id")),
		spac.First[string](),
	)
	result, err := spac.Parse[xml.Event, string](xml.NewSource(strings.NewReader(doc)), h)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !result.IsSuccess() || result.Value() != "x" {
		t.Errorf("xmlpath.Parse(`root\\a\\b`): got %+v, want Success(\"x\")", result)
	}
}

func TestParseLiteralPathWithWildcard(t *testing.T) {
	m := xmlpath.MustParse(`root\*`)
	doc := `<root><anything id="y"/></root>`
	h := spac.Split[xml.Event, encxml.StartElement, string, spac.Result[string]](
		m,
		spac.AsParser[xml.Event, encxml.StartElement, string](xml.Attr("id")),
		spac.First[string](),
	)
	result, err := spac.Parse[xml.Event, string](xml.NewSource(strings.NewReader(doc)), h)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !result.IsSuccess() || result.Value() != "y" {
		t.Errorf("xmlpath.MustParse(`root\\*`): got %+v, want Success(\"y\")", result)
	}
}

func TestParseRejectsEmptySegment(t *testing.T) {
	for _, bad := range []string{``, `\a`, `a\`, `a\\b`} {
		if _, err := xmlpath.Parse(bad); err == nil {
			t.Errorf("Parse(%q): got nil error, want a parse error for an empty segment", bad)
		}
	}
}

func TestMustParsePanicsOnMalformedPath(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("MustParse with a malformed path: want a panic, got none")
		}
	}()
	xmlpath.MustParse(`\bad`)
}
