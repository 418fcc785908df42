// Package jsonout projects domain entities into the compact client-facing
// JSON shape and writes the output files. Projection is pure; the only
// side effects are the final writes.
package jsonout

import (
	"sort"
	"strings"

	"github.com/matsen/litweb/internal/bib"
)

// abstractExcerptLen bounds how much abstract text enters the search index.
const abstractExcerptLen = 200

// ItemProjection is the client-facing item shape. Empty fields are omitted
// entirely rather than emitted as placeholders.
type ItemProjection struct {
	ID          string                 `json:"id"`
	Type        string                 `json:"type"`
	Title       string                 `json:"title"`
	Authors     []AuthorProjection     `json:"authors,omitempty"`
	Year        *int                   `json:"year,omitempty"`
	Venue       string                 `json:"venue,omitempty"`
	Abstract    string                 `json:"abstract,omitempty"`
	DOI         string                 `json:"doi,omitempty"`
	URL         string                 `json:"url,omitempty"`
	Keywords    []string               `json:"keywords,omitempty"`
	Collections []string               `json:"collections,omitempty"`
	Attachments []AttachmentProjection `json:"attachments,omitempty"`
}

// AuthorProjection flattens an author to a display name plus parts.
type AuthorProjection struct {
	Name    string `json:"name"`
	Given   string `json:"given,omitempty"`
	Surname string `json:"surname,omitempty"`
}

// AttachmentProjection is the client-facing attachment shape.
type AttachmentProjection struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Type  string `json:"type,omitempty"`
	URL   string `json:"url,omitempty"`
}

// CollectionProjection is the client-facing collection tree node, with
// keys renamed to the client convention.
type CollectionProjection struct {
	ID        string                 `json:"id"`
	Title     string                 `json:"title"`
	ItemCount int                    `json:"itemCount"`
	ParentID  string                 `json:"parentId,omitempty"`
	ItemIDs   []string               `json:"itemIds,omitempty"`
	Children  []CollectionProjection `json:"children,omitempty"`
}

// IndexEntry is the flat per-collection lookup record. ParentID is always
// present (null for roots) so clients can walk upward without probing.
type IndexEntry struct {
	Title       string   `json:"title"`
	Path        []string `json:"path"`
	ItemCount   int      `json:"itemCount"`
	HasChildren bool     `json:"hasChildren"`
	ParentID    *string  `json:"parentId"`
}

// SearchEntry is one row of the client-side search index.
type SearchEntry struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Authors    []string `json:"authors,omitempty"`
	Year       *int     `json:"year,omitempty"`
	Venue      string   `json:"venue,omitempty"`
	Type       string   `json:"type"`
	Searchable string   `json:"searchable"`
	Keywords   []string `json:"keywords,omitempty"`
}

// ProjectItem maps a domain item to its compact external shape. Authors
// without a resolvable name and attachments with neither title nor URL
// are dropped.
func ProjectItem(item *bib.Item) ItemProjection {
	proj := ItemProjection{
		ID:          item.ID,
		Type:        string(item.Type),
		Title:       item.Title,
		Year:        item.Year,
		Venue:       item.Venue,
		Abstract:    item.Abstract,
		DOI:         item.DOI,
		URL:         item.URL,
		Keywords:    item.Keywords,
		Collections: item.Collections,
	}

	for _, a := range item.Authors {
		name := a.Name()
		if name == "" {
			continue
		}
		proj.Authors = append(proj.Authors, AuthorProjection{
			Name:    name,
			Given:   a.GivenName,
			Surname: a.Surname,
		})
	}

	for _, att := range item.Attachments {
		if att.Title == "" && att.URL == "" {
			continue
		}
		proj.Attachments = append(proj.Attachments, AttachmentProjection{
			ID:    att.ID,
			Title: att.Title,
			Type:  att.Type,
			URL:   att.URL,
		})
	}

	return proj
}

// ProjectItems projects and sorts items by lowercased title for
// deterministic, diff-friendly output.
func ProjectItems(items []*bib.Item) []ItemProjection {
	out := make([]ItemProjection, 0, len(items))
	for _, item := range items {
		out = append(out, ProjectItem(item))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
	})
	return out
}

// ProjectCollection maps a collection subtree, recursing through children.
func ProjectCollection(col *bib.Collection) CollectionProjection {
	proj := CollectionProjection{
		ID:        col.ID,
		Title:     col.Title,
		ItemCount: col.ItemCount,
		ParentID:  col.ParentID,
		ItemIDs:   col.ItemIDs,
	}
	for _, child := range col.Children {
		proj.Children = append(proj.Children, ProjectCollection(child))
	}
	return proj
}

// ProjectCollections maps a root set.
func ProjectCollections(roots []*bib.Collection) []CollectionProjection {
	out := make([]CollectionProjection, 0, len(roots))
	for _, root := range roots {
		out = append(out, ProjectCollection(root))
	}
	return out
}

// BuildIndex flattens the forest into an id-keyed lookup map with
// root-to-self title paths, covering deeply nested collections.
func BuildIndex(roots []*bib.Collection) map[string]IndexEntry {
	index := make(map[string]IndexEntry)
	for _, root := range roots {
		indexCollection(root, nil, index)
	}
	return index
}

func indexCollection(col *bib.Collection, path []string, index map[string]IndexEntry) {
	current := make([]string, len(path), len(path)+1)
	copy(current, path)
	current = append(current, col.Title)

	var parentID *string
	if col.ParentID != "" {
		id := col.ParentID
		parentID = &id
	}

	index[col.ID] = IndexEntry{
		Title:       col.Title,
		Path:        current,
		ItemCount:   col.ItemCount,
		HasChildren: len(col.Children) > 0,
		ParentID:    parentID,
	}

	for _, child := range col.Children {
		indexCollection(child, current, index)
	}
}

// BuildSearchIndex produces one search entry per item, in the same
// title-sorted order as the bibliography file.
func BuildSearchIndex(items []*bib.Item) []SearchEntry {
	sorted := make([]*bib.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Title) < strings.ToLower(sorted[j].Title)
	})

	out := make([]SearchEntry, 0, len(sorted))
	for _, item := range sorted {
		var authors []string
		for _, a := range item.Authors {
			if name := a.Name(); name != "" {
				authors = append(authors, name)
			}
		}
		out = append(out, SearchEntry{
			ID:         item.ID,
			Title:      item.Title,
			Authors:    authors,
			Year:       item.Year,
			Venue:      item.Venue,
			Type:       string(item.Type),
			Searchable: SearchableText(item),
			Keywords:   item.Keywords,
		})
	}
	return out
}

// SearchableText joins the lowercased title, author names, venue, the
// first 200 characters of the abstract, and keywords into one string for
// client-side substring search.
func SearchableText(item *bib.Item) string {
	var parts []string

	if item.Title != "" {
		parts = append(parts, strings.ToLower(item.Title))
	}
	for _, a := range item.Authors {
		if name := a.Name(); name != "" {
			parts = append(parts, strings.ToLower(name))
		}
	}
	if item.Venue != "" {
		parts = append(parts, strings.ToLower(item.Venue))
	}
	if item.Abstract != "" {
		excerpt := item.Abstract
		if runes := []rune(excerpt); len(runes) > abstractExcerptLen {
			excerpt = string(runes[:abstractExcerptLen])
		}
		parts = append(parts, strings.ToLower(excerpt))
	}
	for _, kw := range item.Keywords {
		parts = append(parts, strings.ToLower(kw))
	}

	return strings.Join(parts, " ")
}
