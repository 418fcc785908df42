package rdf

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/matsen/litweb/internal/bib"
)

var yearRun = regexp.MustCompile(`\d{4}`)

// typedItemSubjects are the bib: classes that mark a subject as a
// bibliography item, with the raw type each implies.
var typedItemSubjects = []struct {
	typeIRI string
	rawType string
}{
	{bibArticle, "article"},
	{bibBook, "book"},
	{bibConferencePaper, "conference"},
	{bibThesis, "thesis"},
}

// ExtractItems pulls raw item records out of the graph. Item subjects are
// the union of explicitly typed bib: nodes, nodes carrying a z:itemType
// literal (other than attachments), and untyped nodes that have both
// authors and a title. Titleless subjects are skipped with a warning:
// they are venue or container noise, not items.
func ExtractItems(g *Graph) ([]bib.RawItem, []string) {
	var (
		items    []bib.RawItem
		warnings []string
	)
	processed := make(map[string]struct{})

	appendItem := func(subject, rawType string) {
		if _, ok := processed[subject]; ok {
			return
		}
		item, ok := extractItem(g, subject, rawType)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("skipping titleless item subject %s", subject))
			processed[subject] = struct{}{}
			return
		}
		items = append(items, item)
		processed[subject] = struct{}{}
	}

	for _, typed := range typedItemSubjects {
		for _, subject := range g.SubjectsWithType(typed.typeIRI) {
			if g.HasType(subject, zAttachment) || g.HasType(subject, bibMemo) {
				continue
			}
			appendItem(subject, typed.rawType)
		}
	}

	for _, subject := range g.SubjectsWithPredicate(zItemType) {
		itemType := g.FirstValue(subject, zItemType)
		if itemType == "attachment" {
			continue
		}
		appendItem(subject, itemType)
	}

	// Untyped rdf:Description nodes that still look like items: they carry
	// authors and a title but are not attachments, memos, collections, or
	// venue entities.
	for _, subject := range g.SubjectsWithPredicate(bibAuthors) {
		if _, ok := processed[subject]; ok {
			continue
		}
		if g.HasType(subject, zAttachment) || g.HasType(subject, bibMemo) ||
			g.HasType(subject, zCollection) || g.HasType(subject, bibJournal) ||
			g.HasType(subject, bibProceedings) {
			continue
		}
		if g.FirstValue(subject, dcTitle) == "" {
			continue
		}
		appendItem(subject, "other")
	}

	return items, warnings
}

func extractItem(g *Graph, subject, rawType string) (bib.RawItem, bool) {
	item := bib.RawItem{ID: subject, Type: rawType}

	item.Title = g.FirstValue(subject, dcTitle)
	if strings.TrimSpace(item.Title) == "" {
		return bib.RawItem{}, false
	}

	if seq, ok := g.First(subject, bibAuthors); ok && seq.IsRef() {
		item.Authors = extractAuthors(g, seq.Value)
	}

	if date := g.FirstValue(subject, dcDate); date != "" {
		if match := yearRun.FindString(date); match != "" {
			if year, err := strconv.Atoi(match); err == nil {
				item.Year = year
			}
		}
	}

	item.Venue = extractVenue(g, subject)
	item.Abstract = g.FirstValue(subject, dctermsAbstract)
	item.DOI, item.URL = extractIdentifiers(g, subject)

	for _, link := range g.Objects(subject, linkLink) {
		if !link.IsRef() {
			continue
		}
		if att, ok := extractAttachment(g, link.Value); ok {
			item.Attachments = append(item.Attachments, att)
		}
	}

	for _, subj := range g.Objects(subject, dcSubject) {
		if subj.Kind == KindLiteral && strings.TrimSpace(subj.Value) != "" {
			item.Keywords = append(item.Keywords, subj.Value)
		}
	}

	return item, true
}

// extractAuthors walks an rdf:Seq container member by member (rdf:_1,
// rdf:_2, ...) collecting foaf:Person nodes. When no numbered members
// exist, any Person-typed object of the container is taken instead.
func extractAuthors(g *Graph, seqSubject string) []bib.RawAuthor {
	var authors []bib.RawAuthor

	for i := 1; ; i++ {
		member, ok := g.First(seqSubject, fmt.Sprintf("%s_%d", NSRDF, i))
		if !ok {
			break
		}
		if !member.IsRef() || !g.HasType(member.Value, foafPerson) {
			continue
		}
		if author, ok := extractAuthor(g, member.Value); ok {
			authors = append(authors, author)
		}
	}

	if len(authors) == 0 {
		for _, obj := range g.AllObjects(seqSubject) {
			if !obj.IsRef() || !g.HasType(obj.Value, foafPerson) {
				continue
			}
			if author, ok := extractAuthor(g, obj.Value); ok {
				authors = append(authors, author)
			}
		}
	}

	return authors
}

func extractAuthor(g *Graph, personSubject string) (bib.RawAuthor, bool) {
	given := g.FirstValue(personSubject, foafGivenName)
	surname := g.FirstValue(personSubject, foafSurname)
	if given == "" && surname == "" {
		return bib.RawAuthor{}, false
	}
	return bib.RawAuthor{
		GivenName: given,
		Surname:   surname,
		FullName:  strings.TrimSpace(given + " " + surname),
	}, true
}

// extractVenue resolves the publication venue: the title of the
// dcterms:isPartOf container first, the publisher's foaf:name second.
func extractVenue(g *Graph, subject string) string {
	if partOf, ok := g.First(subject, dctermsIsPartOf); ok && partOf.IsRef() {
		if title := g.FirstValue(partOf.Value, dcTitle); title != "" {
			return title
		}
	}
	if publisher, ok := g.First(subject, dcPublisher); ok && publisher.IsRef() {
		if name := g.FirstValue(publisher.Value, foafName); name != "" {
			return name
		}
	}
	return ""
}

// extractIdentifiers classifies dc:identifier values into DOI and URL.
// Identifiers are either direct references, dcterms:URI nodes whose
// rdf:value carries the string, or bare literals.
func extractIdentifiers(g *Graph, subject string) (doi, url string) {
	classify := func(value string) {
		switch {
		case strings.Contains(value, "doi.org") || strings.HasPrefix(value, "10."):
			if doi == "" {
				doi = value
			}
		default:
			if url == "" {
				url = value
			}
		}
	}

	for _, ident := range g.Objects(subject, dcIdentifier) {
		if ident.Kind == KindLiteral {
			classify(ident.Value)
			continue
		}
		// Reference: either a dcterms:URI node carrying rdf:value, or the
		// IRI itself is the identifier.
		if value := g.FirstValue(ident.Value, rdfValue); value != "" {
			classify(value)
			continue
		}
		classify(ident.Value)
	}
	return doi, url
}

func extractAttachment(g *Graph, subject string) (bib.RawAttachment, bool) {
	if !g.HasType(subject, zAttachment) {
		return bib.RawAttachment{}, false
	}

	att := bib.RawAttachment{
		ID:    subject,
		Title: g.FirstValue(subject, dcTitle),
		Type:  g.FirstValue(subject, linkType),
	}

	for _, ident := range g.Objects(subject, dcIdentifier) {
		if ident.IsRef() {
			if value := g.FirstValue(ident.Value, rdfValue); value != "" {
				att.URL = value
				break
			}
		} else if ident.Value != "" {
			att.URL = ident.Value
			break
		}
	}

	// Untitled attachments are noise in Zotero exports.
	if att.Title == "" {
		return bib.RawAttachment{}, false
	}
	return att, true
}

// ExtractCollections pulls raw collection records: subjects typed
// z:Collection, with membership read from dcterms:hasPart. A hasPart
// reference to another collection nests it (sets the child's parent id)
// rather than adding it to the member list.
func ExtractCollections(g *Graph) ([]bib.RawCollection, []string) {
	var (
		collections []bib.RawCollection
		warnings    []string
	)

	subjects := g.SubjectsWithType(zCollection)
	isCollection := make(map[string]struct{}, len(subjects))
	for _, s := range subjects {
		isCollection[s] = struct{}{}
	}
	parentOf := make(map[string]string)

	for _, subject := range subjects {
		title := g.FirstValue(subject, dcTitle)
		if strings.TrimSpace(title) == "" {
			warnings = append(warnings, fmt.Sprintf("skipping titleless collection %s", subject))
			continue
		}

		col := bib.RawCollection{ID: subject, Title: title}
		for _, part := range g.Objects(subject, dctermsHasPart) {
			if !part.IsRef() {
				continue
			}
			if _, ok := isCollection[part.Value]; ok {
				parentOf[part.Value] = subject
				continue
			}
			col.ItemIDs = append(col.ItemIDs, part.Value)
		}
		collections = append(collections, col)
	}

	for i := range collections {
		if parent, ok := parentOf[collections[i].ID]; ok {
			collections[i].ParentID = parent
		}
	}

	return collections, warnings
}

// AssignCollections copies collection membership onto the raw items so the
// transformer sees each item's collection ids directly. Idempotent.
func AssignCollections(items []bib.RawItem, collections []bib.RawCollection) {
	byID := make(map[string]*bib.RawItem, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}

	for _, col := range collections {
		for _, itemID := range col.ItemIDs {
			item, ok := byID[itemID]
			if !ok {
				continue
			}
			if !containsString(item.Collections, col.ID) {
				item.Collections = append(item.Collections, col.ID)
			}
		}
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
