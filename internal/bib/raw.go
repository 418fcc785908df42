package bib

// Raw records are the loosely-typed output of graph extraction, before any
// validation or normalization. Every field other than ID may be missing or
// malformed; the transformer owns all presence and plausibility checks.

// RawItem is an unvalidated bibliography entry straight from extraction.
type RawItem struct {
	ID          string
	Type        string
	Title       string
	Authors     []RawAuthor
	Year        any // int, numeric string, or nil
	Venue       string
	Abstract    string
	DOI         string
	URL         string
	Keywords    []string
	Collections []string
	Attachments []RawAttachment
}

// RawAuthor is an unvalidated author record. Any combination of fields may
// be present; records with no name information at all are dropped during
// transformation.
type RawAuthor struct {
	GivenName string
	Surname   string
	FullName  string
}

// RawAttachment is an unvalidated attachment record.
type RawAttachment struct {
	ID    string
	Title string
	Type  string
	URL   string
}

// RawCollection is an unvalidated collection record. ParentID may reference
// a collection that does not exist; the hierarchy builder demotes such
// collections to roots.
type RawCollection struct {
	ID       string
	Title    string
	ParentID string
	ItemIDs  []string
}
