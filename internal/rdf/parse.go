package rdf

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Parse reads an RDF/XML document from r and returns the resulting graph.
// It handles the subset of RDF/XML that Zotero exports use: typed node
// elements, rdf:Description, rdf:about/rdf:ID/rdf:nodeID subjects,
// rdf:resource references, nested node elements, literal property values,
// and rdf:Seq containers with rdf:li members. Reference values are kept
// verbatim (no base IRI resolution) so identifiers stay stable across
// machines.
func Parse(r io.Reader) (*Graph, error) {
	p := &parser{
		graph: NewGraph(),
		dec:   xml.NewDecoder(r),
	}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.graph, nil
}

type frameKind int

const (
	frameDoc frameKind = iota
	frameNode
	frameProperty
)

type frame struct {
	kind frameKind

	// Node frames
	subject string
	liCount int

	// Property frames
	predicate string
	onSubject string
	hasObject bool
	text      []byte
}

type parser struct {
	graph      *Graph
	dec        *xml.Decoder
	stack      []*frame
	blankCount int
}

func (p *parser) run() error {
	for {
		tok, err := p.dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("parse rdf/xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			p.startElement(t)
		case xml.CharData:
			if f := p.top(); f != nil && f.kind == frameProperty && !f.hasObject {
				f.text = append(f.text, t...)
			}
		case xml.EndElement:
			p.endElement()
		}
	}
}

func (p *parser) top() *frame {
	if len(p.stack) == 0 {
		return nil
	}
	return p.stack[len(p.stack)-1]
}

func (p *parser) push(f *frame) { p.stack = append(p.stack, f) }

func (p *parser) startElement(el xml.StartElement) {
	name := el.Name.Space + el.Name.Local

	parent := p.top()
	if parent == nil || parent.kind == frameDoc {
		if parent == nil && name == NSRDF+"RDF" {
			p.push(&frame{kind: frameDoc})
			return
		}
		p.startNode(el, name, nil)
		return
	}

	switch parent.kind {
	case frameNode:
		p.startProperty(el, name, parent)
	case frameProperty:
		// Nested node element: link it to the enclosing property.
		p.startNode(el, name, parent)
	}
}

// startNode opens a node element and, when it appears inside a property
// element, emits the linking triple.
func (p *parser) startNode(el xml.StartElement, name string, prop *frame) {
	subject, kind := p.subjectOf(el)

	if prop != nil && !prop.hasObject {
		p.graph.Add(prop.onSubject, prop.predicate, Term{Value: subject, Kind: kind})
		prop.hasObject = true
	}

	if name != rdfDescription {
		p.graph.Add(subject, rdfType, Term{Value: name, Kind: KindIRI})
	}

	// Non-rdf attributes on node elements are shorthand literal properties.
	for _, attr := range el.Attr {
		if skipAttr(attr) || attr.Name.Space == NSRDF || attr.Name.Space == "" {
			continue
		}
		p.graph.Add(subject, attr.Name.Space+attr.Name.Local, Term{Value: attr.Value, Kind: KindLiteral})
	}

	p.push(&frame{kind: frameNode, subject: subject})
}

func (p *parser) startProperty(el xml.StartElement, name string, node *frame) {
	// rdf:li members number themselves per enclosing container.
	if name == rdfLi {
		node.liCount++
		name = fmt.Sprintf("%s_%d", NSRDF, node.liCount)
	}

	f := &frame{kind: frameProperty, predicate: name, onSubject: node.subject}

	for _, attr := range el.Attr {
		if skipAttr(attr) {
			continue
		}
		switch {
		case attr.Name.Space == NSRDF && attr.Name.Local == "resource":
			p.graph.Add(f.onSubject, f.predicate, Term{Value: resolveRef(attr.Value), Kind: KindIRI})
			f.hasObject = true
		case attr.Name.Space == NSRDF && attr.Name.Local == "nodeID":
			p.graph.Add(f.onSubject, f.predicate, Term{Value: "_:" + attr.Value, Kind: KindBlank})
			f.hasObject = true
		}
	}

	p.push(f)
}

func (p *parser) endElement() {
	f := p.top()
	if f == nil {
		return
	}
	p.stack = p.stack[:len(p.stack)-1]

	if f.kind != frameProperty || f.hasObject {
		return
	}
	if text := strings.TrimSpace(string(f.text)); text != "" {
		p.graph.Add(f.onSubject, f.predicate, Term{Value: text, Kind: KindLiteral})
	}
}

// subjectOf resolves a node element's subject from its rdf attributes,
// synthesizing a blank node when none is present.
func (p *parser) subjectOf(el xml.StartElement) (string, TermKind) {
	for _, attr := range el.Attr {
		if attr.Name.Space != NSRDF {
			continue
		}
		switch attr.Name.Local {
		case "about":
			return resolveRef(attr.Value), KindIRI
		case "ID":
			return "#" + attr.Value, KindIRI
		case "nodeID":
			return "_:" + attr.Value, KindBlank
		}
	}
	p.blankCount++
	return fmt.Sprintf("_:b%d", p.blankCount), KindBlank
}

// resolveRef normalizes a reference value. References are intentionally not
// resolved against a base IRI: Zotero exports use fragment identifiers like
// "#item_12" and keeping them verbatim preserves the join keys.
func resolveRef(v string) string {
	return strings.TrimSpace(v)
}

func skipAttr(attr xml.Attr) bool {
	if attr.Name.Space == "xmlns" || attr.Name.Local == "xmlns" {
		return true
	}
	// xml:lang, xml:base and friends.
	return attr.Name.Space == "http://www.w3.org/XML/1998/namespace" || attr.Name.Space == "xml"
}
