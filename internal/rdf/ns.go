package rdf

// Namespace IRIs used by Zotero RDF exports. The extractor assumes this
// fixed vocabulary; no prefix discovery is performed.
const (
	NSRDF     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NSZotero  = "http://www.zotero.org/namespaces/export#"
	NSBib     = "http://purl.org/net/biblio#"
	NSLink    = "http://purl.org/rss/1.0/modules/link/"
	NSDC      = "http://purl.org/dc/elements/1.1/"
	NSDCTerms = "http://purl.org/dc/terms/"
	NSFOAF    = "http://xmlns.com/foaf/0.1/"
)

// Predicates and types queried during extraction.
const (
	rdfType        = NSRDF + "type"
	rdfValue       = NSRDF + "value"
	rdfDescription = NSRDF + "Description"
	rdfSeq         = NSRDF + "Seq"
	rdfLi          = NSRDF + "li"

	zItemType   = NSZotero + "itemType"
	zAttachment = NSZotero + "Attachment"
	zCollection = NSZotero + "Collection"

	bibArticle         = NSBib + "Article"
	bibBook            = NSBib + "Book"
	bibConferencePaper = NSBib + "ConferencePaper"
	bibThesis          = NSBib + "Thesis"
	bibMemo            = NSBib + "Memo"
	bibJournal         = NSBib + "Journal"
	bibProceedings     = NSBib + "Proceedings"
	bibAuthors         = NSBib + "authors"

	linkLink = NSLink + "link"
	linkType = NSLink + "type"

	dcTitle      = NSDC + "title"
	dcDate       = NSDC + "date"
	dcIdentifier = NSDC + "identifier"
	dcPublisher  = NSDC + "publisher"
	dcSubject    = NSDC + "subject"

	dctermsAbstract = NSDCTerms + "abstract"
	dctermsIsPartOf = NSDCTerms + "isPartOf"
	dctermsHasPart  = NSDCTerms + "hasPart"
	dctermsURI      = NSDCTerms + "URI"

	foafPerson    = NSFOAF + "Person"
	foafGivenName = NSFOAF + "givenName"
	foafSurname   = NSFOAF + "surname"
	foafName      = NSFOAF + "name"
)
