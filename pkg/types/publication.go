// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the publication importers.
package types

// Source names for the supported importers.
const (
	SourceGoogleScholar   = "google_scholar"
	SourceSemanticScholar = "semantic_scholar"
)

// Link is one labelled external URL rendered under the links mapping.
type Link struct {
	Label string `json:"label" yaml:"label"`
	URL   string `json:"url" yaml:"url"`
}

// Publication is a single record produced by an extractor. Extractors fill it
// with whatever the source provides; the normalizer applies defaults before
// it is rendered.
type Publication struct {
	// Title is the publication title. Empty titles render as "Untitled".
	Title string `json:"title" yaml:"title"`

	// Year is the publication year. Zero renders as 1900.
	Year int `json:"year" yaml:"year"`

	// Venue is the journal, conference, or publication type list.
	Venue string `json:"venue" yaml:"venue"`

	// Authors lists the authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract may span several lines.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Links are rendered in order when non-empty.
	Links []Link `json:"links,omitempty" yaml:"links,omitempty"`

	// Source identifies which importer produced the record.
	Source string `json:"source" yaml:"source"`
}
