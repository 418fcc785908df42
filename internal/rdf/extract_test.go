package rdf

import (
	"strings"
	"testing"
)

const zoteroFixture = `<?xml version="1.0"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
         xmlns:z="http://www.zotero.org/namespaces/export#"
         xmlns:bib="http://purl.org/net/biblio#"
         xmlns:link="http://purl.org/rss/1.0/modules/link/"
         xmlns:dc="http://purl.org/dc/elements/1.1/"
         xmlns:dcterms="http://purl.org/dc/terms/"
         xmlns:foaf="http://xmlns.com/foaf/0.1/">
  <bib:Article rdf:about="#item_1">
    <z:itemType>journalArticle</z:itemType>
    <dc:title>Gradient Flows in Metric Spaces</dc:title>
    <bib:authors>
      <rdf:Seq>
        <rdf:li>
          <foaf:Person>
            <foaf:surname>Ambrosio</foaf:surname>
            <foaf:givenName>Luigi</foaf:givenName>
          </foaf:Person>
        </rdf:li>
        <rdf:li>
          <foaf:Person>
            <foaf:surname>Gigli</foaf:surname>
            <foaf:givenName>Nicola</foaf:givenName>
          </foaf:Person>
        </rdf:li>
      </rdf:Seq>
    </bib:authors>
    <dc:date>2008-05-01</dc:date>
    <dcterms:isPartOf>
      <bib:Journal>
        <dc:title>Lectures in Mathematics</dc:title>
      </bib:Journal>
    </dcterms:isPartOf>
    <dcterms:abstract>Variational methods for evolution problems.</dcterms:abstract>
    <dc:identifier>
      <dcterms:URI>
        <rdf:value>https://doi.org/10.1007/978-3-7643-8722-8</rdf:value>
      </dcterms:URI>
    </dc:identifier>
    <dc:subject>optimal transport</dc:subject>
    <link:link rdf:resource="#attachment_1"/>
  </bib:Article>
  <z:Attachment rdf:about="#attachment_1">
    <dc:title>Full Text PDF</dc:title>
    <link:type>application/pdf</link:type>
    <dc:identifier>
      <dcterms:URI>
        <rdf:value>files/1/full.pdf</rdf:value>
      </dcterms:URI>
    </dc:identifier>
  </z:Attachment>
  <rdf:Description rdf:about="#item_2">
    <z:itemType>report</z:itemType>
    <dc:title>Annual Survey of Metric Geometry</dc:title>
    <dc:identifier>10.5555/12345678</dc:identifier>
    <dc:publisher>
      <foaf:Organization>
        <foaf:name>Fields Institute</foaf:name>
      </foaf:Organization>
    </dc:publisher>
  </rdf:Description>
  <bib:Book rdf:about="#item_3">
    <dc:date>1999</dc:date>
  </bib:Book>
  <z:Collection rdf:about="#collection_1">
    <dc:title>Analysis</dc:title>
    <dcterms:hasPart rdf:resource="#item_1"/>
    <dcterms:hasPart rdf:resource="#collection_2"/>
  </z:Collection>
  <z:Collection rdf:about="#collection_2">
    <dc:title>Metric Geometry</dc:title>
    <dcterms:hasPart rdf:resource="#item_1"/>
    <dcterms:hasPart rdf:resource="#item_2"/>
  </z:Collection>
</rdf:RDF>`

func parseFixture(t *testing.T) *Graph {
	t.Helper()
	g, err := Parse(strings.NewReader(zoteroFixture))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return g
}

func TestExtractItems(t *testing.T) {
	g := parseFixture(t)

	items, warnings := ExtractItems(g)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	byID := make(map[string]int)
	for i, item := range items {
		byID[item.ID] = i
	}

	article := items[byID["#item_1"]]
	if article.Type != "article" {
		t.Errorf("type = %q, want %q", article.Type, "article")
	}
	if article.Title != "Gradient Flows in Metric Spaces" {
		t.Errorf("title = %q", article.Title)
	}
	if len(article.Authors) != 2 {
		t.Fatalf("got %d authors, want 2", len(article.Authors))
	}
	if article.Authors[0].Surname != "Ambrosio" || article.Authors[0].GivenName != "Luigi" {
		t.Errorf("first author = %+v", article.Authors[0])
	}
	if article.Authors[1].Surname != "Gigli" {
		t.Errorf("second author = %+v", article.Authors[1])
	}
	if article.Year != 2008 {
		t.Errorf("year = %v, want 2008", article.Year)
	}
	if article.Venue != "Lectures in Mathematics" {
		t.Errorf("venue = %q", article.Venue)
	}
	if article.Abstract != "Variational methods for evolution problems." {
		t.Errorf("abstract = %q", article.Abstract)
	}
	if article.DOI != "https://doi.org/10.1007/978-3-7643-8722-8" {
		t.Errorf("doi = %q", article.DOI)
	}
	if len(article.Keywords) != 1 || article.Keywords[0] != "optimal transport" {
		t.Errorf("keywords = %v", article.Keywords)
	}
	if len(article.Attachments) != 1 {
		t.Fatalf("got %d attachments, want 1", len(article.Attachments))
	}
	att := article.Attachments[0]
	if att.Title != "Full Text PDF" || att.Type != "application/pdf" || att.URL != "files/1/full.pdf" {
		t.Errorf("attachment = %+v", att)
	}

	report := items[byID["#item_2"]]
	if report.Type != "report" {
		t.Errorf("type = %q, want %q", report.Type, "report")
	}
	if report.DOI != "10.5555/12345678" {
		t.Errorf("doi = %q", report.DOI)
	}
	if report.Venue != "Fields Institute" {
		t.Errorf("venue = %q", report.Venue)
	}

	// The titleless bib:Book is skipped, not extracted.
	if _, ok := byID["#item_3"]; ok {
		t.Error("titleless item was extracted")
	}
	var warned bool
	for _, w := range warnings {
		if strings.Contains(w, "#item_3") {
			warned = true
		}
	}
	if !warned {
		t.Errorf("no warning for titleless item; warnings = %v", warnings)
	}
}

func TestExtractItemsSkipsAttachmentSubjects(t *testing.T) {
	g := parseFixture(t)

	items, _ := ExtractItems(g)
	for _, item := range items {
		if item.ID == "#attachment_1" {
			t.Fatal("attachment extracted as item")
		}
	}
}

func TestExtractAuthorsFallbackScan(t *testing.T) {
	// A container whose members are plain references rather than numbered
	// rdf:_n properties still yields its Person members.
	g := NewGraph()
	g.Add("_:seq", NSRDF+"member", Term{Value: "_:p1", Kind: KindBlank})
	g.Add("_:p1", rdfType, Term{Value: foafPerson, Kind: KindIRI})
	g.Add("_:p1", foafSurname, Term{Value: "Villani", Kind: KindLiteral})

	authors := extractAuthors(g, "_:seq")
	if len(authors) != 1 || authors[0].Surname != "Villani" {
		t.Errorf("authors = %+v", authors)
	}
}

func TestExtractCollections(t *testing.T) {
	g := parseFixture(t)

	collections, warnings := ExtractCollections(g)
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if len(collections) != 2 {
		t.Fatalf("got %d collections, want 2", len(collections))
	}

	byID := make(map[string]int)
	for i, c := range collections {
		byID[c.ID] = i
	}

	parent := collections[byID["#collection_1"]]
	if parent.ParentID != "" {
		t.Errorf("parent collection has ParentID %q", parent.ParentID)
	}
	// The nested collection reference is not a member.
	if len(parent.ItemIDs) != 1 || parent.ItemIDs[0] != "#item_1" {
		t.Errorf("parent ItemIDs = %v", parent.ItemIDs)
	}

	child := collections[byID["#collection_2"]]
	if child.ParentID != "#collection_1" {
		t.Errorf("child ParentID = %q, want %q", child.ParentID, "#collection_1")
	}
	if len(child.ItemIDs) != 2 {
		t.Errorf("child ItemIDs = %v", child.ItemIDs)
	}
}

func TestExtractCollectionsWarnsOnMissingTitle(t *testing.T) {
	g := NewGraph()
	g.Add("#collection_x", rdfType, Term{Value: zCollection, Kind: KindIRI})

	collections, warnings := ExtractCollections(g)
	if len(collections) != 0 {
		t.Errorf("got %d collections, want 0", len(collections))
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "#collection_x") {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestAssignCollections(t *testing.T) {
	g := parseFixture(t)

	items, _ := ExtractItems(g)
	collections, _ := ExtractCollections(g)

	AssignCollections(items, collections)
	AssignCollections(items, collections) // must not duplicate

	byID := make(map[string][]string)
	for _, item := range items {
		byID[item.ID] = item.Collections
	}

	got := byID["#item_1"]
	if len(got) != 2 {
		t.Fatalf("item_1 collections = %v, want two entries", got)
	}
	want := map[string]bool{"#collection_1": true, "#collection_2": true}
	for _, id := range got {
		if !want[id] {
			t.Errorf("unexpected collection %q", id)
		}
	}

	if got := byID["#item_2"]; len(got) != 1 || got[0] != "#collection_2" {
		t.Errorf("item_2 collections = %v", got)
	}
}
