// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the refcheck pipeline:
// parsed references, identifier kinds, lookup records, verdicts, run
// results, history entries, and stage configuration.
package types

// ParsedReference holds the fields of a cleaned reference line as
// assigned by parse.Parse; see the internal/parse package doc for how
// comma segments map to fields. An empty field means the field is absent.
type ParsedReference struct {
	// Author is the first segment plus any initials segments after it,
	// e.g. "Smith" or "Smith, J.".
	Author string `json:"author" yaml:"author"`

	// Title may span several comma segments, rejoined with ", ".
	Title string `json:"title" yaml:"title"`

	// Identifier is the last segment (DOI or ISBN) when one follows the title.
	Identifier string `json:"identifier,omitempty" yaml:"identifier,omitempty"`
}

// HasAuthorAndTitle reports whether both fields needed for a title search
// are present.
func (p ParsedReference) HasAuthorAndTitle() bool {
	return p.Author != "" && p.Title != ""
}

// IdentifierKind classifies the identifier field of a reference.
type IdentifierKind int

const (
	IdentifierNone IdentifierKind = iota
	IdentifierDOI
	IdentifierISBN
)

func (k IdentifierKind) String() string {
	switch k {
	case IdentifierDOI:
		return "doi"
	case IdentifierISBN:
		return "isbn"
	default:
		return "none"
	}
}

// Record is a bibliographic record returned by a lookup service,
// normalized across CrossRef and Google Books.
type Record struct {
	// Source identifies the service that returned the record (e.g. "crossref").
	Source string `json:"source" yaml:"source"`

	// Title is the record title; the first title element for CrossRef.
	Title string `json:"title" yaml:"title"`

	// Authors lists author display names in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// DOI is set for scholarly records.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// ISBN is the preferred book identifier (ISBN-13 over ISBN-10).
	ISBN string `json:"isbn,omitempty" yaml:"isbn,omitempty"`
}
