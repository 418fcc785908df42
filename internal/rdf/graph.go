package rdf

// TermKind distinguishes the three kinds of RDF object terms.
type TermKind int

const (
	KindIRI TermKind = iota
	KindLiteral
	KindBlank
)

// Term is the object of a triple: an IRI reference, a literal value, or a
// blank node identifier.
type Term struct {
	Value string
	Kind  TermKind
}

// IsRef reports whether the term references a node (IRI or blank) rather
// than carrying a literal value.
func (t Term) IsRef() bool {
	return t.Kind == KindIRI || t.Kind == KindBlank
}

// Triple is one subject/predicate/object statement. Subjects are IRI or
// blank node identifiers.
type Triple struct {
	Subject   string
	Predicate string
	Object    Term
}

// Graph is an in-memory triple store indexed for the extraction queries.
// Triples and subjects keep document order so extraction output is
// deterministic for a given input.
type Graph struct {
	triples     []Triple
	bySubject   map[string][]int
	byPredicate map[string][]int
	subjectSeen map[string]struct{}
	subjects    []string
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		bySubject:   make(map[string][]int),
		byPredicate: make(map[string][]int),
		subjectSeen: make(map[string]struct{}),
	}
}

// Add appends one triple to the graph.
func (g *Graph) Add(subject, predicate string, object Term) {
	idx := len(g.triples)
	g.triples = append(g.triples, Triple{Subject: subject, Predicate: predicate, Object: object})
	g.bySubject[subject] = append(g.bySubject[subject], idx)
	g.byPredicate[predicate] = append(g.byPredicate[predicate], idx)
	if _, ok := g.subjectSeen[subject]; !ok {
		g.subjectSeen[subject] = struct{}{}
		g.subjects = append(g.subjects, subject)
	}
}

// Len returns the number of triples in the graph.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Subjects returns all distinct subjects in document order.
func (g *Graph) Subjects() []string {
	out := make([]string, len(g.subjects))
	copy(out, g.subjects)
	return out
}

// SubjectsWithType returns all subjects carrying rdf:type typeIRI, in
// document order.
func (g *Graph) SubjectsWithType(typeIRI string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, idx := range g.byPredicate[rdfType] {
		t := g.triples[idx]
		if t.Object.Value != typeIRI || !t.Object.IsRef() {
			continue
		}
		if _, ok := seen[t.Subject]; ok {
			continue
		}
		seen[t.Subject] = struct{}{}
		out = append(out, t.Subject)
	}
	return out
}

// SubjectsWithPredicate returns all distinct subjects that have at least
// one triple with the given predicate, in document order.
func (g *Graph) SubjectsWithPredicate(predicate string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, idx := range g.byPredicate[predicate] {
		subj := g.triples[idx].Subject
		if _, ok := seen[subj]; ok {
			continue
		}
		seen[subj] = struct{}{}
		out = append(out, subj)
	}
	return out
}

// HasType reports whether the subject carries rdf:type typeIRI.
func (g *Graph) HasType(subject, typeIRI string) bool {
	for _, idx := range g.bySubject[subject] {
		t := g.triples[idx]
		if t.Predicate == rdfType && t.Object.IsRef() && t.Object.Value == typeIRI {
			return true
		}
	}
	return false
}

// Objects returns all objects of (subject, predicate) triples in document
// order.
func (g *Graph) Objects(subject, predicate string) []Term {
	var out []Term
	for _, idx := range g.bySubject[subject] {
		t := g.triples[idx]
		if t.Predicate == predicate {
			out = append(out, t.Object)
		}
	}
	return out
}

// First returns the first object of (subject, predicate), if any.
func (g *Graph) First(subject, predicate string) (Term, bool) {
	for _, idx := range g.bySubject[subject] {
		t := g.triples[idx]
		if t.Predicate == predicate {
			return t.Object, true
		}
	}
	return Term{}, false
}

// FirstValue returns the string value of the first object of
// (subject, predicate), or "" when there is none. Literal and reference
// objects are treated alike, matching the loose reads extraction performs.
func (g *Graph) FirstValue(subject, predicate string) string {
	if t, ok := g.First(subject, predicate); ok {
		return t.Value
	}
	return ""
}

// AllObjects returns every object attached to the subject, regardless of
// predicate, in document order.
func (g *Graph) AllObjects(subject string) []Term {
	var out []Term
	for _, idx := range g.bySubject[subject] {
		out = append(out, g.triples[idx].Object)
	}
	return out
}

// HasAnyPredicate reports whether any triple in the graph uses one of the
// given predicates.
func (g *Graph) HasAnyPredicate(predicates ...string) bool {
	for _, p := range predicates {
		if len(g.byPredicate[p]) > 0 {
			return true
		}
	}
	return false
}
