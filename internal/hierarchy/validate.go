package hierarchy

import (
	"strings"

	"github.com/matsen/litweb/internal/bib"
)

// rootBucket keys root-level collections in the duplicate-title check.
const rootBucket = "ROOT"

// Validate runs a read-only integrity pass over the built index: cycles in
// parent chains, dangling parents, and duplicate titles under the same
// parent. Findings never block a build; callers surface them as warnings.
func (b *Builder) Validate() []bib.Issue {
	var issues []bib.Issue

	for _, col := range b.byID {
		if b.hasCycle(col) {
			issues = append(issues, bib.Warningf(
				"circular reference detected in collection %q (%s)", col.Title, col.ID))
		}
	}

	for _, col := range b.byID {
		if col.ParentID != "" {
			if _, ok := b.byID[col.ParentID]; !ok {
				issues = append(issues, bib.Warningf(
					"collection %q references non-existent parent %q", col.Title, col.ParentID))
			}
		}
	}

	titlesByParent := make(map[string]map[string]int)
	for _, col := range b.byID {
		parentKey := col.ParentID
		if parentKey == "" {
			parentKey = rootBucket
		}
		if titlesByParent[parentKey] == nil {
			titlesByParent[parentKey] = make(map[string]int)
		}
		titlesByParent[parentKey][strings.ToLower(col.Title)]++
	}
	for parentKey, titles := range titlesByParent {
		for title, count := range titles {
			if count > 1 {
				where := "parent " + parentKey
				if parentKey == rootBucket {
					where = "root level"
				}
				issues = append(issues, bib.Warningf(
					"duplicate collection title %q at %s", title, where))
			}
		}
	}

	return issues
}

// hasCycle walks the parent chain iteratively with a per-walk visited set.
// Terminates on every input: a chain either reaches a root, leaves the
// index, or revisits a node.
func (b *Builder) hasCycle(start *bib.Collection) bool {
	visited := make(map[string]struct{})
	current := start

	for current != nil {
		if _, ok := visited[current.ID]; ok {
			return true
		}
		visited[current.ID] = struct{}{}

		if current.ParentID == "" {
			return false
		}
		current = b.byID[current.ParentID]
	}
	return false
}
