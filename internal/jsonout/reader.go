package jsonout

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matsen/litweb/internal/bib"
)

// ReadItems loads items back from a data directory, preferring
// bibliography.json and falling back to the combined data.json. Used to
// refill the search database without reparsing the RDF export.
func ReadItems(dataDir string) ([]*bib.Item, error) {
	path := filepath.Join(dataDir, BibliographyFile)
	data, err := os.ReadFile(path)
	if err == nil {
		var doc bibliographyDoc
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", BibliographyFile, err)
		}
		return unprojectItems(doc.Items), nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading %s: %w", BibliographyFile, err)
	}

	path = filepath.Join(dataDir, CombinedFile)
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", CombinedFile, err)
	}
	var doc combinedDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", CombinedFile, err)
	}
	return unprojectItems(doc.Bibliography.Items), nil
}

func unprojectItems(projs []ItemProjection) []*bib.Item {
	items := make([]*bib.Item, 0, len(projs))
	for _, p := range projs {
		item := &bib.Item{
			ID:          p.ID,
			Type:        bib.ItemType(p.Type),
			Title:       p.Title,
			Year:        p.Year,
			Venue:       p.Venue,
			Abstract:    p.Abstract,
			DOI:         p.DOI,
			URL:         p.URL,
			Keywords:    p.Keywords,
			Collections: p.Collections,
		}
		for _, a := range p.Authors {
			item.Authors = append(item.Authors, bib.Author{
				GivenName: a.Given,
				Surname:   a.Surname,
				FullName:  a.Name,
			})
		}
		for _, att := range p.Attachments {
			item.Attachments = append(item.Attachments, bib.Attachment{
				ID:    att.ID,
				Title: att.Title,
				Type:  att.Type,
				URL:   att.URL,
			})
		}
		items = append(items, item)
	}
	return items
}
