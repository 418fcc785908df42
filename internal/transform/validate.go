package transform

import (
	"fmt"
	"strings"

	"github.com/matsen/litweb/internal/bib"
)

// ValidateTransformed runs the cross-entity consistency pass over the
// transformed corpus. It reports rather than fails: the caller decides
// which findings block a build. Duplicate item ids carry error severity
// because the item id is the join key for membership assignment and the
// search index; everything else is a warning.
func ValidateTransformed(items []*bib.Item, collections []*bib.Collection) []bib.Issue {
	var issues []bib.Issue

	if len(items) == 0 {
		issues = append(issues, bib.Errorf("no bibliography items after transformation"))
		return issues
	}

	itemIDs := make(map[string]struct{}, len(items))
	titleOwners := make(map[string][]string)

	for _, item := range items {
		if _, ok := itemIDs[item.ID]; ok {
			issues = append(issues, bib.Errorf("duplicate item ID: %s", item.ID))
		}
		itemIDs[item.ID] = struct{}{}

		if item.Title == "" {
			issues = append(issues, bib.Warningf("item %s has empty title", item.ID))
		} else {
			key := strings.ToLower(strings.TrimSpace(item.Title))
			titleOwners[key] = append(titleOwners[key], item.ID)
		}

		if item.Year != nil && (*item.Year < 1000 || *item.Year > 2030) {
			issues = append(issues, bib.Warningf("item %s has suspicious year: %d", item.ID, *item.Year))
		}
	}

	for title, ids := range titleOwners {
		if len(ids) > 1 {
			issues = append(issues, bib.Warningf(
				"potential duplicate titles: %s (items: %s)", title, strings.Join(ids, ", ")))
		}
	}

	collectionIDs := make(map[string]struct{}, len(collections))
	for _, col := range collections {
		if _, ok := collectionIDs[col.ID]; ok {
			issues = append(issues, bib.Warningf("duplicate collection ID: %s", col.ID))
		}
		collectionIDs[col.ID] = struct{}{}

		if col.Title == "" {
			issues = append(issues, bib.Warningf("collection %s has empty title", col.ID))
		}
	}

	for _, item := range items {
		for _, colID := range item.Collections {
			if _, ok := collectionIDs[colID]; !ok {
				issues = append(issues, bib.Warningf(
					"item %s references non-existent collection: %s", item.ID, colID))
			}
		}
	}

	return issues
}

// SummarizeIssues formats a compact one-line summary for logs.
func SummarizeIssues(issues []bib.Issue) string {
	errs, warns := bib.SplitIssues(issues)
	return fmt.Sprintf("%d errors, %d warnings", len(errs), len(warns))
}
