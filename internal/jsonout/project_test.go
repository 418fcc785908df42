package jsonout

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/matsen/litweb/internal/bib"
)

func TestProjectItem_OmitsEmpties(t *testing.T) {
	item := &bib.Item{
		ID:       "i1",
		Type:     bib.TypeArticle,
		Title:    "T",
		Abstract: "",
		DOI:      "",
		Keywords: []string{},
	}

	data, err := json.Marshal(ProjectItem(item))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	for _, key := range []string{"abstract", "doi", "keywords", "year", "venue", "url", "authors", "attachments", "collections"} {
		if strings.Contains(string(data), `"`+key+`"`) {
			t.Errorf("serialized item contains empty key %q: %s", key, data)
		}
	}
}

func TestProjectItem_DropsNamelessAuthors(t *testing.T) {
	item := &bib.Item{
		ID:    "i1",
		Title: "T",
		Authors: []bib.Author{
			{},
			{GivenName: "Ada", Surname: "Lovelace", FullName: "Ada Lovelace"},
		},
	}

	proj := ProjectItem(item)
	if len(proj.Authors) != 1 {
		t.Fatalf("len(Authors) = %d, want 1", len(proj.Authors))
	}
	if proj.Authors[0].Name != "Ada Lovelace" {
		t.Errorf("Name = %q, want Ada Lovelace", proj.Authors[0].Name)
	}
}

func TestProjectItem_DropsEmptyAttachments(t *testing.T) {
	item := &bib.Item{
		ID:    "i1",
		Title: "T",
		Attachments: []bib.Attachment{
			{ID: "a1"},
			{ID: "a2", Title: "PDF"},
			{ID: "a3", URL: "https://example.org/f.pdf"},
		},
	}

	proj := ProjectItem(item)
	if len(proj.Attachments) != 2 {
		t.Errorf("len(Attachments) = %d, want 2 (a1 dropped)", len(proj.Attachments))
	}
}

func TestProjectItems_SortedByLowerTitle(t *testing.T) {
	items := []*bib.Item{
		{ID: "i1", Title: "zebra"},
		{ID: "i2", Title: "Apple"},
	}

	out := ProjectItems(items)
	if out[0].Title != "Apple" || out[1].Title != "zebra" {
		t.Errorf("order = [%s, %s], want case-insensitive title sort", out[0].Title, out[1].Title)
	}
}

func TestProjectCollection_KeyRenames(t *testing.T) {
	col := &bib.Collection{
		ID:        "c2",
		Title:     "Child",
		ParentID:  "c1",
		ItemIDs:   []string{"i1"},
		ItemCount: 1,
	}

	data, err := json.Marshal(ProjectCollection(col))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	s := string(data)

	for _, want := range []string{`"itemCount":1`, `"parentId":"c1"`, `"itemIds":["i1"]`} {
		if !strings.Contains(s, want) {
			t.Errorf("serialized collection missing %s: %s", want, s)
		}
	}
	for _, reject := range []string{"item_count", "parent_id", "item_ids"} {
		if strings.Contains(s, reject) {
			t.Errorf("serialized collection leaks internal key %q: %s", reject, s)
		}
	}
}

func TestProjectCollection_OmitsEmptyParentAndItems(t *testing.T) {
	col := &bib.Collection{ID: "c1", Title: "Root"}

	data, err := json.Marshal(ProjectCollection(col))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(data), "parentId") {
		t.Errorf("root collection should omit parentId: %s", data)
	}
	if strings.Contains(string(data), "itemIds") {
		t.Errorf("empty itemIds should be omitted: %s", data)
	}
}

func TestBuildIndex_PathsAndHasChildren(t *testing.T) {
	grandchild := &bib.Collection{ID: "c3", Title: "Grandchild", ParentID: "c2"}
	child := &bib.Collection{ID: "c2", Title: "Child", ParentID: "c1", Children: []*bib.Collection{grandchild}}
	root := &bib.Collection{ID: "c1", Title: "Root", Children: []*bib.Collection{child}}

	index := BuildIndex([]*bib.Collection{root})

	if len(index) != 3 {
		t.Fatalf("len(index) = %d, want 3 (nested collections included)", len(index))
	}

	entry := index["c3"]
	wantPath := []string{"Root", "Child", "Grandchild"}
	if len(entry.Path) != len(wantPath) {
		t.Fatalf("Path = %v, want %v", entry.Path, wantPath)
	}
	for i := range wantPath {
		if entry.Path[i] != wantPath[i] {
			t.Errorf("Path[%d] = %q, want %q", i, entry.Path[i], wantPath[i])
		}
	}

	if !index["c1"].HasChildren || !index["c2"].HasChildren || index["c3"].HasChildren {
		t.Error("HasChildren flags wrong across the chain")
	}
	if index["c1"].ParentID != nil {
		t.Error("root ParentID should be nil")
	}
	if index["c2"].ParentID == nil || *index["c2"].ParentID != "c1" {
		t.Error("child ParentID should be c1")
	}
}

func TestSearchableText(t *testing.T) {
	year := 2020
	item := &bib.Item{
		ID:       "i1",
		Title:    "Deep Phylogenetics",
		Authors:  []bib.Author{{FullName: "Ada Lovelace"}},
		Year:     &year,
		Venue:    "Nature",
		Abstract: strings.Repeat("x", 300),
		Keywords: []string{"Evolution"},
	}

	text := SearchableText(item)
	for _, want := range []string{"deep phylogenetics", "ada lovelace", "nature", "evolution"} {
		if !strings.Contains(text, want) {
			t.Errorf("searchable text missing %q: %s", want, text)
		}
	}
	if strings.Contains(text, strings.Repeat("x", 201)) {
		t.Error("abstract excerpt exceeds 200 characters")
	}
	if text != strings.ToLower(text) {
		t.Error("searchable text must be lowercased")
	}
}
