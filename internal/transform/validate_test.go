package transform

import (
	"strings"
	"testing"

	"github.com/matsen/litweb/internal/bib"
)

func TestValidateTransformed_DuplicateItemIDIsError(t *testing.T) {
	items := []*bib.Item{
		{ID: "dup", Title: "A"},
		{ID: "dup", Title: "B"},
	}

	issues := ValidateTransformed(items, nil)
	errs, _ := bib.SplitIssues(issues)

	found := false
	for _, e := range errs {
		if strings.Contains(e, "duplicate item ID: dup") {
			found = true
		}
	}
	if !found {
		t.Errorf("errors = %v, want duplicate item ID error", errs)
	}
}

func TestValidateTransformed_DuplicateCollectionIDIsWarning(t *testing.T) {
	items := []*bib.Item{{ID: "i1", Title: "A"}}
	collections := []*bib.Collection{
		{ID: "c1", Title: "One"},
		{ID: "c1", Title: "Two"},
	}

	issues := ValidateTransformed(items, collections)
	errs, warns := bib.SplitIssues(issues)

	if len(errs) != 0 {
		t.Errorf("errors = %v, duplicate collection ids must stay warnings", errs)
	}
	found := false
	for _, w := range warns {
		if strings.Contains(w, "duplicate collection ID: c1") {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v, want duplicate collection ID warning", warns)
	}
}

func TestValidateTransformed_DanglingReference(t *testing.T) {
	items := []*bib.Item{
		{ID: "i1", Title: "A", Collections: []string{"missing"}},
	}
	collections := []*bib.Collection{{ID: "c1", Title: "Real"}}

	issues := ValidateTransformed(items, collections)
	_, warns := bib.SplitIssues(issues)

	found := false
	for _, w := range warns {
		if strings.Contains(w, "non-existent collection: missing") {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v, want dangling reference warning", warns)
	}
}

func TestValidateTransformed_DuplicateTitlesInformational(t *testing.T) {
	items := []*bib.Item{
		{ID: "i1", Title: "Same Title"},
		{ID: "i2", Title: "same title"},
	}

	issues := ValidateTransformed(items, nil)
	_, warns := bib.SplitIssues(issues)

	found := false
	for _, w := range warns {
		if strings.Contains(w, "potential duplicate titles") {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v, want duplicate title warning", warns)
	}
}

func TestValidateTransformed_NoItemsIsError(t *testing.T) {
	issues := ValidateTransformed(nil, nil)
	errs, _ := bib.SplitIssues(issues)
	if len(errs) == 0 {
		t.Error("expected an error for empty item set")
	}
}

func TestValidateTransformed_CleanCorpus(t *testing.T) {
	year := 2020
	items := []*bib.Item{
		{ID: "i1", Title: "A", Year: &year, Collections: []string{"c1"}},
		{ID: "i2", Title: "B"},
	}
	collections := []*bib.Collection{{ID: "c1", Title: "Root"}}

	issues := ValidateTransformed(items, collections)
	if len(issues) != 0 {
		t.Errorf("issues = %v, want none for a clean corpus", issues)
	}
}

func TestSummarizeIssues(t *testing.T) {
	issues := []bib.Issue{
		bib.Errorf("duplicate item ID: dup"),
		bib.Warningf("duplicate collection ID: c1"),
		bib.Warningf("item i1 references non-existent collection: c9"),
	}

	if got := SummarizeIssues(issues); got != "1 errors, 2 warnings" {
		t.Errorf("SummarizeIssues() = %q, want %q", got, "1 errors, 2 warnings")
	}
}
