// Package bib defines the core domain types for bibliography items and
// their collection hierarchy.
package bib

// ItemType classifies a bibliography item. Raw type strings are normalized
// to one of these values during transformation; anything unrecognized
// becomes TypeOther.
type ItemType string

const (
	TypeArticle    ItemType = "article"
	TypeBook       ItemType = "book"
	TypeConference ItemType = "conference"
	TypeThesis     ItemType = "thesis"
	TypeReport     ItemType = "report"
	TypeWebpage    ItemType = "webpage"
	TypeOther      ItemType = "other"
)

// Item represents a single validated bibliography entry.
type Item struct {
	// Identity
	ID string `json:"id"` // Stable external identifier, unique across the corpus

	// Metadata
	Type     ItemType `json:"type"`
	Title    string   `json:"title"` // Never empty after transformation
	Authors  []Author `json:"authors,omitempty"`
	Year     *int     `json:"year,omitempty"` // Nil when absent or implausible
	Venue    string   `json:"venue,omitempty"`
	Abstract string   `json:"abstract,omitempty"`
	DOI      string   `json:"doi,omitempty"`
	URL      string   `json:"url,omitempty"`
	Keywords []string `json:"keywords,omitempty"`

	// Membership (collection IDs; populated during hierarchy assignment)
	Collections []string `json:"collections,omitempty"`

	// Owned attachments
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment represents a file attached to a bibliography item.
type Attachment struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type,omitempty"` // MIME type
	URL   string `json:"url,omitempty"`
}
