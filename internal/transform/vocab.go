package transform

import "github.com/matsen/litweb/internal/bib"

// Vocabulary holds the fixed lookup tables the transformer consults. The
// tables are data, not code: tests inject reduced vocabularies and the
// transformation logic never needs to change when a table grows.
type Vocabulary struct {
	// TypeMap maps normalized raw type strings (lowercased, with "_" and
	// "-" stripped) to canonical item types. Unmapped values become
	// bib.TypeOther.
	TypeMap map[string]bib.ItemType

	// HonorificPrefixes are stripped from the front of author names when
	// present as whole tokens.
	HonorificPrefixes []string

	// NameSuffixes are stripped from the end of author names when present
	// as whole tokens.
	NameSuffixes []string

	// Entities is the fixed HTML entity decode table. Applied after tag
	// stripping; the order of the pairs is the order of replacement.
	Entities [][2]string

	// CommonKeywords is scanned against title+abstract when an item
	// carries no keywords of its own.
	CommonKeywords []string

	// MaxKeywords caps the keyword list per item.
	MaxKeywords int

	// MaxURLLength is the truncation bound for overlong URLs.
	MaxURLLength int
}

// DefaultVocabulary returns the standard tables for Zotero exports.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		TypeMap: map[string]bib.ItemType{
			"article":         bib.TypeArticle,
			"journalarticle":  bib.TypeArticle,
			"book":            bib.TypeBook,
			"booksection":     bib.TypeBook,
			"conference":      bib.TypeConference,
			"conferencepaper": bib.TypeConference,
			"thesis":          bib.TypeThesis,
			"report":          bib.TypeReport,
			"webpage":         bib.TypeWebpage,
			"other":           bib.TypeOther,
		},
		HonorificPrefixes: []string{"Dr.", "Prof.", "Mr.", "Ms.", "Mrs."},
		NameSuffixes:      []string{"Jr.", "Sr.", "PhD", "Ph.D.", "M.D.", "MD"},
		Entities: [][2]string{
			{"&amp;", "&"},
			{"&lt;", "<"},
			{"&gt;", ">"},
			{"&quot;", `"`},
			{"&#39;", "'"},
			{"&nbsp;", " "},
		},
		CommonKeywords: []string{
			"machine learning", "artificial intelligence", "deep learning",
			"neural network", "algorithm", "optimization", "classification",
			"regression", "clustering", "natural language processing",
			"computer vision", "data mining", "big data", "statistics",
		},
		MaxKeywords:  10,
		MaxURLLength: 2000,
	}
}
