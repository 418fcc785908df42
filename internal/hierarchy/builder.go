// Package hierarchy assembles flat collections into a parent/child forest,
// assigns item membership, and maintains the aggregate count invariant:
// every collection's ItemCount equals the size of the deduplicated union
// of its own and all descendants' item ids.
package hierarchy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matsen/litweb/internal/bib"
)

// Builder holds the collection index between Build, AssignItems, and
// Validate calls. Children lists are always rebuilt from parent pointers,
// never trusted from input. Not safe for concurrent use.
type Builder struct {
	byID     map[string]*bib.Collection
	roots    []*bib.Collection
	warnings []string
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{byID: make(map[string]*bib.Collection)}
}

// Warnings returns the warnings accumulated since the last Build.
func (b *Builder) Warnings() []string {
	return b.warnings
}

func (b *Builder) warnf(format string, args ...any) {
	b.warnings = append(b.warnings, fmt.Sprintf(format, args...))
}

// Build links the flat collection set into a forest and returns the roots.
// Collections whose ParentID does not resolve are demoted to roots with
// the dangling pointer cleared. Idempotent: children are reset before
// linking, so repeated calls over the same objects yield the same tree.
func (b *Builder) Build(collections []*bib.Collection) []*bib.Collection {
	b.byID = make(map[string]*bib.Collection, len(collections))
	b.roots = nil
	b.warnings = nil

	for _, col := range collections {
		b.byID[col.ID] = col
		col.Children = nil
	}

	for _, col := range collections {
		if col.ParentID == "" {
			b.roots = append(b.roots, col)
			continue
		}
		parent, ok := b.byID[col.ParentID]
		if !ok {
			b.warnf("collection %q (%s): parent %q not found, treating as root",
				col.Title, col.ID, col.ParentID)
			col.ParentID = ""
			b.roots = append(b.roots, col)
			continue
		}
		parent.Children = append(parent.Children, col)
	}

	for _, root := range b.roots {
		updateCounts(root)
	}

	sortByTitle(b.roots)
	for _, col := range b.byID {
		sortByTitle(col.Children)
	}

	return b.roots
}

// AssignItems populates direct collection membership from the items'
// collection references, then recomputes counts across the whole forest.
// Existing direct membership is cleared first, so repeated assignment
// never duplicates an entry.
func (b *Builder) AssignItems(items []*bib.Item) {
	for _, col := range b.byID {
		col.ItemIDs = nil
	}

	for _, item := range items {
		for _, colID := range item.Collections {
			col, ok := b.byID[colID]
			if !ok {
				b.warnf("item %q (%s): collection %s not found", item.Title, item.ID, colID)
				continue
			}
			if !col.HasItem(item.ID) {
				col.ItemIDs = append(col.ItemIDs, item.ID)
			}
		}
	}

	for _, root := range b.roots {
		updateCounts(root)
	}
}

// CollectionByID returns an indexed collection, or nil when unknown.
func (b *Builder) CollectionByID(id string) *bib.Collection {
	return b.byID[id]
}

// Roots returns the current root set in sorted order.
func (b *Builder) Roots() []*bib.Collection {
	return b.roots
}

// Path returns the root-to-target chain for a collection id, or nil when
// the id is unknown. Walks parent pointers, so it is only meaningful after
// Build.
func (b *Builder) Path(id string) []*bib.Collection {
	col, ok := b.byID[id]
	if !ok {
		return nil
	}

	var path []*bib.Collection
	seen := make(map[string]struct{})
	for col != nil {
		if _, ok := seen[col.ID]; ok {
			break // defensive against cycles surviving into the index
		}
		seen[col.ID] = struct{}{}
		path = append([]*bib.Collection{col}, path...)
		if col.ParentID == "" {
			break
		}
		col = b.byID[col.ParentID]
	}
	return path
}

// updateCounts recomputes ItemCount for every node in the subtree.
// Post-order so children are settled before the parent unions them.
func updateCounts(col *bib.Collection) {
	for _, child := range col.Children {
		updateCounts(child)
	}
	col.ItemCount = len(col.AllItemIDs())
}

func sortByTitle(collections []*bib.Collection) {
	sort.SliceStable(collections, func(i, j int) bool {
		return strings.ToLower(collections[i].Title) < strings.ToLower(collections[j].Title)
	})
}
