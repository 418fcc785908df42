// Package transform converts raw extraction records into validated domain
// entities. All recoverable defects (bad years, malformed URLs, unparseable
// authors) degrade to warnings accumulated on the Transformer; only a
// missing id or an unsynthesizable title fails a record.
package transform

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/matsen/litweb/internal/bib"
)

// Record-level validation errors. These are the only failure modes of
// TransformItem and TransformCollection.
var (
	ErrMissingID = errors.New("missing required id field")
	ErrNoTitle   = errors.New("no title and fallback could not be synthesized")
)

// Transformer turns raw records into domain entities, accumulating
// warnings for every recovered defect. Not safe for concurrent use; the
// pipeline is single-threaded by design.
type Transformer struct {
	vocab    Vocabulary
	warnings []string

	// now is injectable so year-plausibility tests don't depend on the
	// wall clock.
	now func() time.Time
}

// New returns a Transformer with the default vocabulary.
func New() *Transformer {
	return NewWithVocabulary(DefaultVocabulary())
}

// NewWithVocabulary returns a Transformer using the given lookup tables.
func NewWithVocabulary(vocab Vocabulary) *Transformer {
	return &Transformer{vocab: vocab, now: time.Now}
}

// Warnings returns all warnings accumulated since the last reset.
func (t *Transformer) Warnings() []string {
	return t.warnings
}

// ResetWarnings clears the warning accumulator between builds.
func (t *Transformer) ResetWarnings() {
	t.warnings = nil
}

func (t *Transformer) warnf(format string, args ...any) {
	t.warnings = append(t.warnings, fmt.Sprintf(format, args...))
}

// TransformItem validates and normalizes a raw item record. It fails only
// when the record has no id, or when no title can be synthesized even via
// fallback; every other defect is recovered with a warning.
func (t *Transformer) TransformItem(raw bib.RawItem) (*bib.Item, error) {
	if strings.TrimSpace(raw.ID) == "" {
		return nil, ErrMissingID
	}

	title := t.CleanText(raw.Title)
	if title == "" {
		title = t.fallbackTitle(raw)
		if title == "" {
			return nil, fmt.Errorf("item %s: %w", raw.ID, ErrNoTitle)
		}
		t.warnf("item %s: generated fallback title: %s", raw.ID, title)
	}

	var authors []bib.Author
	for i, rawAuthor := range raw.Authors {
		author, ok := t.transformAuthor(rawAuthor)
		if !ok {
			if !emptyRawAuthor(rawAuthor) {
				t.warnf("item %s: author %d could not be processed", raw.ID, i)
			}
			continue
		}
		authors = append(authors, author)
	}

	var attachments []bib.Attachment
	for i, rawAtt := range raw.Attachments {
		att, ok := t.transformAttachment(rawAtt)
		if !ok {
			t.warnf("item %s: attachment %d has no id, dropped", raw.ID, i)
			continue
		}
		attachments = append(attachments, att)
	}

	abstract := t.CleanText(raw.Abstract)

	keywords := dedupeKeywords(raw.Keywords, t.vocab.MaxKeywords)
	if len(keywords) == 0 {
		keywords = t.extractKeywords(title, abstract)
	}

	return &bib.Item{
		ID:          raw.ID,
		Type:        t.NormalizeType(raw.Type),
		Title:       title,
		Authors:     authors,
		Year:        t.validateYear(raw.Year, raw.ID),
		Venue:       t.CleanText(raw.Venue),
		Abstract:    abstract,
		DOI:         t.normalizeURL(raw.DOI, "DOI", raw.ID),
		URL:         t.normalizeURL(raw.URL, "URL", raw.ID),
		Keywords:    keywords,
		Collections: raw.Collections,
		Attachments: attachments,
	}, nil
}

// TransformCollection validates a raw collection record. Only a missing id
// is fatal; everything else defaults.
func (t *Transformer) TransformCollection(raw bib.RawCollection) (*bib.Collection, error) {
	if strings.TrimSpace(raw.ID) == "" {
		return nil, ErrMissingID
	}

	return &bib.Collection{
		ID:       raw.ID,
		Title:    t.CleanText(raw.Title),
		ParentID: raw.ParentID,
		ItemIDs:  raw.ItemIDs,
	}, nil
}

// NormalizeType maps a raw type string to the closed item type enum.
// Total: unmapped values become bib.TypeOther, never an error.
func (t *Transformer) NormalizeType(rawType string) bib.ItemType {
	normalized := strings.ToLower(rawType)
	normalized = strings.ReplaceAll(normalized, "_", "")
	normalized = strings.ReplaceAll(normalized, "-", "")

	if mapped, ok := t.vocab.TypeMap[normalized]; ok {
		return mapped
	}
	return bib.TypeOther
}

func (t *Transformer) transformAuthor(raw bib.RawAuthor) (bib.Author, bool) {
	given := t.cleanName(raw.GivenName)
	surname := t.cleanName(raw.Surname)

	fullName := raw.FullName
	if fullName == "" {
		fullName = strings.TrimSpace(given + " " + surname)
	} else {
		fullName = t.cleanName(fullName)
	}

	// Backfill missing parts from the display name.
	if fullName != "" && (given == "" || surname == "") {
		parsedGiven, parsedSurname := splitFullName(fullName)
		if given == "" {
			given = parsedGiven
		}
		if surname == "" {
			surname = parsedSurname
		}
	}

	if given == "" && surname == "" && fullName == "" {
		return bib.Author{}, false
	}

	return bib.Author{GivenName: given, Surname: surname, FullName: fullName}, true
}

func emptyRawAuthor(raw bib.RawAuthor) bool {
	return strings.TrimSpace(raw.GivenName) == "" &&
		strings.TrimSpace(raw.Surname) == "" &&
		strings.TrimSpace(raw.FullName) == ""
}

func (t *Transformer) transformAttachment(raw bib.RawAttachment) (bib.Attachment, bool) {
	if strings.TrimSpace(raw.ID) == "" {
		return bib.Attachment{}, false
	}
	return bib.Attachment{
		ID:    raw.ID,
		Title: t.CleanText(raw.Title),
		Type:  raw.Type,
		URL:   t.normalizeURL(raw.URL, "attachment URL", raw.ID),
	}, true
}

// fallbackTitle synthesizes a title from whatever the record carries:
// "surname[ et al.] (year) in venue" or "[type]" in place of the venue,
// with "Untitled item <id>" as the last resort.
func (t *Transformer) fallbackTitle(raw bib.RawItem) string {
	var parts []string

	if len(raw.Authors) > 0 {
		first := raw.Authors[0]
		name := t.cleanName(first.Surname)
		if name == "" {
			name = t.cleanName(first.FullName)
		}
		if name != "" {
			if len(raw.Authors) > 1 {
				parts = append(parts, name+" et al.")
			} else {
				parts = append(parts, name)
			}
		}
	}

	// Plausibility-check the year without warning; TransformItem warns once.
	if year := t.plausibleYear(raw.Year); year != nil {
		parts = append(parts, fmt.Sprintf("(%d)", *year))
	}

	if venue := t.CleanText(raw.Venue); venue != "" {
		parts = append(parts, "in "+venue)
	} else {
		itemType := raw.Type
		if itemType == "" {
			itemType = "item"
		}
		parts = append(parts, "["+itemType+"]")
	}

	if len(parts) > 1 || (len(parts) == 1 && !strings.HasPrefix(parts[0], "[")) {
		return strings.Join(parts, " ")
	}

	return "Untitled item " + raw.ID
}

// validateYear accepts integers and numeric strings inside the plausible
// range [1000, now+5]. Anything else becomes nil with a warning.
func (t *Transformer) validateYear(raw any, itemID string) *int {
	if raw == nil {
		return nil
	}

	var year int
	switch v := raw.(type) {
	case int:
		year = v
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil
		}
		var err error
		year, err = strconv.Atoi(trimmed)
		if err != nil {
			t.warnf("item %s: invalid year format: %q", itemID, v)
			return nil
		}
	default:
		t.warnf("item %s: non-numeric year: %v", itemID, raw)
		return nil
	}

	maxYear := t.now().Year() + 5
	if year < 1000 {
		t.warnf("item %s: year too early: %d", itemID, year)
		return nil
	}
	if year > maxYear {
		t.warnf("item %s: year too far in future: %d", itemID, year)
		return nil
	}

	return &year
}

// plausibleYear is validateYear without the warning side effect.
func (t *Transformer) plausibleYear(raw any) *int {
	var year int
	switch v := raw.(type) {
	case int:
		year = v
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil
		}
		year = n
	default:
		return nil
	}
	if year < 1000 || year > t.now().Year()+5 {
		return nil
	}
	return &year
}

// normalizeURL cleans and validates a URL or DOI string. Bare DOIs get the
// doi.org prefix; strings with no dot are rejected; overlong URLs are
// truncated; embedded whitespace is stripped. An empty return means the
// value was rejected (with a warning).
func (t *Transformer) normalizeURL(url, kind, itemID string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return ""
	}

	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		switch {
		case strings.HasPrefix(url, "10.") && strings.Contains(url, "/"):
			url = "https://doi.org/" + url
		case kind == "DOI" && !strings.HasPrefix(url, "doi:"):
			if strings.Contains(url, "/") && strings.Contains(url, ".") {
				url = "https://doi.org/" + url
			} else {
				t.warnf("item %s: invalid %s format: %s", itemID, kind, url)
				return ""
			}
		case !strings.HasPrefix(url, "www.") && !strings.HasPrefix(url, "ftp://"):
			if !strings.Contains(url, ".") {
				t.warnf("item %s: invalid %s: %s", itemID, kind, url)
				return ""
			}
		}
	}

	// Truncate on runes so the cut cannot split a multi-byte character.
	if runes := []rune(url); len(runes) > t.vocab.MaxURLLength {
		t.warnf("item %s: overlong %s truncated: %.60s...", itemID, kind, url)
		url = string(runes[:t.vocab.MaxURLLength])
	}

	if strings.ContainsAny(url, " \t\n\r") {
		t.warnf("item %s: %s contains whitespace, stripped", itemID, kind)
		url = whitespaceRun.ReplaceAllString(url, "")
	}

	return url
}

// extractKeywords scans title+abstract for the common keyword vocabulary
// when an item supplies no keywords of its own.
func (t *Transformer) extractKeywords(title, abstract string) []string {
	text := strings.ToLower(title + " " + abstract)

	var keywords []string
	for _, keyword := range t.vocab.CommonKeywords {
		if strings.Contains(text, keyword) {
			keywords = append(keywords, keyword)
			if len(keywords) == t.vocab.MaxKeywords {
				break
			}
		}
	}
	return keywords
}

// dedupeKeywords removes duplicates (case-insensitive, first-seen wins) and
// caps the list.
func dedupeKeywords(keywords []string, limit int) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		key := strings.ToLower(kw)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, kw)
		if len(out) == limit {
			break
		}
	}
	return out
}
