package rdf

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseTypedNodes(t *testing.T) {
	g := parseFixture(t)

	if !g.HasType("#item_1", bibArticle) {
		t.Error("missing rdf:type for typed node element")
	}
	if !g.HasType("#attachment_1", zAttachment) {
		t.Error("missing rdf:type for attachment node")
	}
	// rdf:Description does not emit a type triple.
	if types := g.Objects("#item_2", rdfType); len(types) != 0 {
		t.Errorf("rdf:Description gained types: %v", types)
	}
}

func TestParseSeqNumbering(t *testing.T) {
	g := parseFixture(t)

	seq, ok := g.First("#item_1", bibAuthors)
	if !ok || !seq.IsRef() {
		t.Fatalf("bib:authors object = %+v, ok = %v", seq, ok)
	}
	first, ok := g.First(seq.Value, NSRDF+"_1")
	if !ok || !first.IsRef() {
		t.Fatal("missing rdf:_1 member")
	}
	if got := g.FirstValue(first.Value, foafSurname); got != "Ambrosio" {
		t.Errorf("rdf:_1 surname = %q", got)
	}
	second, ok := g.First(seq.Value, NSRDF+"_2")
	if !ok {
		t.Fatal("missing rdf:_2 member")
	}
	if got := g.FirstValue(second.Value, foafSurname); got != "Gigli" {
		t.Errorf("rdf:_2 surname = %q", got)
	}
}

func TestParseResourceReference(t *testing.T) {
	g := parseFixture(t)

	link, ok := g.First("#item_1", linkLink)
	if !ok {
		t.Fatal("missing link:link triple")
	}
	if link.Kind != KindIRI || link.Value != "#attachment_1" {
		t.Errorf("link = %+v", link)
	}
}

func TestParseLiteralTrimming(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
         xmlns:dc="http://purl.org/dc/elements/1.1/">
  <rdf:Description rdf:about="#x">
    <dc:title>
      Padded Title
    </dc:title>
    <dc:date></dc:date>
  </rdf:Description>
</rdf:RDF>`

	g, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := g.FirstValue("#x", dcTitle); got != "Padded Title" {
		t.Errorf("title = %q", got)
	}
	// Whitespace-only properties produce no triple.
	if _, ok := g.First("#x", dcDate); ok {
		t.Error("empty property produced a triple")
	}
}

func TestParseMalformedXML(t *testing.T) {
	_, err := Parse(strings.NewReader("<rdf:RDF><unclosed>"))
	if err == nil {
		t.Fatal("expected error for malformed xml")
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "library.rdf")
	if err := os.WriteFile(path, []byte(zoteroFixture), 0644); err != nil {
		t.Fatal(err)
	}

	g, warnings, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if g.Len() == 0 {
		t.Error("empty graph")
	}
}

func TestParseFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := ParseFile(filepath.Join(dir, "missing.rdf"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing file: err = %v, want ErrNotFound", err)
	}

	empty := filepath.Join(dir, "empty.rdf")
	if err := os.WriteFile(empty, nil, 0644); err != nil {
		t.Fatal(err)
	}
	_, _, err = ParseFile(empty)
	if !errors.Is(err, ErrEmptyFile) {
		t.Errorf("empty file: err = %v, want ErrEmptyFile", err)
	}

	_, _, err = ParseFile(dir)
	if !errors.Is(err, ErrNotAFile) {
		t.Errorf("directory: err = %v, want ErrNotAFile", err)
	}
}

func TestValidateGraphNoBibliography(t *testing.T) {
	g := NewGraph()
	g.Add("#a", "http://example.org/p", Term{Value: "v", Kind: KindLiteral})

	_, err := ValidateGraph(g)
	if !errors.Is(err, ErrNoBibliography) {
		t.Errorf("err = %v, want ErrNoBibliography", err)
	}

	_, err = ValidateGraph(NewGraph())
	if !errors.Is(err, ErrNoTriples) {
		t.Errorf("empty graph: err = %v, want ErrNoTriples", err)
	}
}
