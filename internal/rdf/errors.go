package rdf

import "errors"

// Parse and validation errors.
var (
	ErrNotFound       = errors.New("rdf file not found")
	ErrNotAFile       = errors.New("path is not a file")
	ErrEmptyFile      = errors.New("rdf file is empty")
	ErrNoTriples      = errors.New("rdf file contains no triples")
	ErrNoBibliography = errors.New("no bibliography content found in rdf graph")
)
