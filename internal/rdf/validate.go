package rdf

import (
	"fmt"
	"os"
	"strings"
)

// Files above this size parse fine but earn an advisory warning.
const largeFileBytes = 100 << 20

// ValidateFile checks that path names a readable, non-empty file. Returned
// warnings are advisory and do not block parsing.
func ValidateFile(path string) ([]string, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotAFile)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyFile)
	}

	var warnings []string
	if info.Size() > largeFileBytes {
		warnings = append(warnings, fmt.Sprintf("large rdf file (%.1fMB): %s", float64(info.Size())/(1<<20), path))
	}
	return warnings, nil
}

// ParseFile validates, parses, and integrity-checks the RDF file at path.
func ParseFile(path string) (*Graph, []string, error) {
	warnings, err := ValidateFile(path)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, warnings, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, err := Parse(f)
	if err != nil {
		return nil, warnings, fmt.Errorf("%s: %w", path, err)
	}

	graphWarnings, err := ValidateGraph(g)
	warnings = append(warnings, graphWarnings...)
	if err != nil {
		return nil, warnings, fmt.Errorf("%s: %w", path, err)
	}
	return g, warnings, nil
}

// ValidateGraph checks a parsed graph for minimum bibliographic content.
// A graph with no triples or no recognizable bibliography is an error; a
// graph without Zotero vocabulary is only suspicious.
func ValidateGraph(g *Graph) ([]string, error) {
	if g.Len() == 0 {
		return nil, ErrNoTriples
	}

	var warnings []string
	if !hasZoteroVocabulary(g) {
		warnings = append(warnings, "rdf graph may not be a Zotero export (no Zotero namespaces found)")
	}
	if !hasBibliographyContent(g) {
		return warnings, ErrNoBibliography
	}
	return warnings, nil
}

func hasZoteroVocabulary(g *Graph) bool {
	for _, t := range g.triples {
		if strings.HasPrefix(t.Predicate, NSBib) ||
			strings.HasPrefix(t.Predicate, NSZotero) ||
			strings.HasPrefix(t.Predicate, NSDC) {
			return true
		}
		if t.Predicate == rdfType && t.Object.IsRef() &&
			(strings.HasPrefix(t.Object.Value, NSBib) || strings.HasPrefix(t.Object.Value, NSZotero)) {
			return true
		}
	}
	return false
}

func hasBibliographyContent(g *Graph) bool {
	if len(g.SubjectsWithType(bibArticle)) > 0 || len(g.SubjectsWithType(bibBook)) > 0 {
		return true
	}
	return g.HasAnyPredicate(bibAuthors, dcTitle)
}
