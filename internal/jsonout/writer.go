package jsonout

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/matsen/litweb/internal/bib"
)

// Version stamps the metadata envelope of every generated file.
const Version = "1.0"

// Fixed output file names under the generator's data directory.
const (
	BibliographyFile = "bibliography.json"
	CollectionsFile  = "collections.json"
	SearchIndexFile  = "search_index.json"
	CombinedFile     = "data.json"
)

// Generator writes the projected JSON documents under a data directory.
// Output is pretty-printed UTF-8 by default; Compact produces the same
// data without indentation for production builds.
type Generator struct {
	dataDir string
	compact bool

	// now is injectable so metadata timestamps are stable in tests.
	now func() time.Time
}

// NewGenerator returns a Generator writing into dataDir.
func NewGenerator(dataDir string) *Generator {
	return &Generator{dataDir: dataDir, now: time.Now}
}

// SetCompact switches between pretty-printed and compact output.
func (g *Generator) SetCompact(compact bool) {
	g.compact = compact
}

// DataDir returns the directory the generator writes into.
func (g *Generator) DataDir() string {
	return g.dataDir
}

type bibliographyDoc struct {
	Metadata bibliographyMeta `json:"metadata"`
	Items    []ItemProjection `json:"items"`
}

type bibliographyMeta struct {
	TotalItems  int    `json:"total_items"`
	GeneratedAt string `json:"generated_at"`
	Version     string `json:"version"`
}

type collectionsDoc struct {
	Metadata    collectionsMeta        `json:"metadata"`
	Collections []CollectionProjection `json:"collections"`
	Index       map[string]IndexEntry  `json:"index"`
}

type collectionsMeta struct {
	TotalCollections int    `json:"total_collections"`
	RootCollections  int    `json:"root_collections"`
	GeneratedAt      string `json:"generated_at"`
	Version          string `json:"version"`
}

type searchDoc struct {
	Metadata bibliographyMeta `json:"metadata"`
	Index    []SearchEntry    `json:"index"`
}

type combinedDoc struct {
	Metadata     combinedMeta        `json:"metadata"`
	Bibliography combinedBib         `json:"bibliography"`
	Collections  combinedCollections `json:"collections"`
}

type combinedMeta struct {
	TotalItems       int    `json:"total_items"`
	TotalCollections int    `json:"total_collections"`
	RootCollections  int    `json:"root_collections"`
	GeneratedAt      string `json:"generated_at"`
	Version          string `json:"version"`
}

type combinedBib struct {
	Items []ItemProjection `json:"items"`
}

type combinedCollections struct {
	Hierarchy []CollectionProjection `json:"hierarchy"`
	Index     map[string]IndexEntry  `json:"index"`
}

// WriteBibliography writes bibliography.json and returns its path.
func (g *Generator) WriteBibliography(items []*bib.Item) (string, error) {
	doc := bibliographyDoc{
		Metadata: bibliographyMeta{
			TotalItems:  len(items),
			GeneratedAt: g.now().Format(time.RFC3339),
			Version:     Version,
		},
		Items: ProjectItems(items),
	}
	return g.writeFile(BibliographyFile, doc)
}

// WriteCollections writes collections.json and returns its path.
func (g *Generator) WriteCollections(roots []*bib.Collection) (string, error) {
	index := BuildIndex(roots)
	doc := collectionsDoc{
		Metadata: collectionsMeta{
			TotalCollections: len(index),
			RootCollections:  len(roots),
			GeneratedAt:      g.now().Format(time.RFC3339),
			Version:          Version,
		},
		Collections: ProjectCollections(roots),
		Index:       index,
	}
	return g.writeFile(CollectionsFile, doc)
}

// WriteSearchIndex writes search_index.json and returns its path.
func (g *Generator) WriteSearchIndex(items []*bib.Item) (string, error) {
	doc := searchDoc{
		Metadata: bibliographyMeta{
			TotalItems:  len(items),
			GeneratedAt: g.now().Format(time.RFC3339),
			Version:     Version,
		},
		Index: BuildSearchIndex(items),
	}
	return g.writeFile(SearchIndexFile, doc)
}

// WriteCombined writes the single-envelope data.json used in combined
// mode, and returns its path.
func (g *Generator) WriteCombined(items []*bib.Item, roots []*bib.Collection) (string, error) {
	index := BuildIndex(roots)
	doc := combinedDoc{
		Metadata: combinedMeta{
			TotalItems:       len(items),
			TotalCollections: len(index),
			RootCollections:  len(roots),
			GeneratedAt:      g.now().Format(time.RFC3339),
			Version:          Version,
		},
		Bibliography: combinedBib{Items: ProjectItems(items)},
		Collections: combinedCollections{
			Hierarchy: ProjectCollections(roots),
			Index:     index,
		},
	}
	return g.writeFile(CombinedFile, doc)
}

func (g *Generator) writeFile(name string, doc any) (string, error) {
	if err := os.MkdirAll(g.dataDir, 0755); err != nil {
		return "", fmt.Errorf("creating data directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if g.compact {
		data, err = json.Marshal(doc)
	} else {
		data, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return "", fmt.Errorf("marshaling %s: %w", name, err)
	}

	path := filepath.Join(g.dataDir, name)
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	return path, nil
}

// OutputFiles lists the generated JSON files in the data directory,
// sorted by name.
func (g *Generator) OutputFiles() []string {
	entries, err := os.ReadDir(g.dataDir)
	if err != nil {
		return nil
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		files = append(files, filepath.Join(g.dataDir, entry.Name()))
	}
	sort.Strings(files)
	return files
}

// ValidateFiles checks every generated file parses as JSON. Used by the
// post-build output validation, which only ever warns.
func (g *Generator) ValidateFiles() map[string]bool {
	results := make(map[string]bool)
	for _, path := range g.OutputFiles() {
		data, err := os.ReadFile(path)
		if err != nil {
			results[path] = false
			continue
		}
		var v any
		results[path] = json.Unmarshal(data, &v) == nil
	}
	return results
}

// FileSizes returns the byte size of every generated file.
func (g *Generator) FileSizes() map[string]int64 {
	sizes := make(map[string]int64)
	for _, path := range g.OutputFiles() {
		if info, err := os.Stat(path); err == nil {
			sizes[path] = info.Size()
		}
	}
	return sizes
}
