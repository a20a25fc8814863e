// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse turns free-text reference lines into structured fields.
//
// A reference line has the form "Author[, Initials], Title[, Identifier]".
// Each comma-separated segment is trimmed of surrounding quotes and
// whitespace independently. Empty segments after the author are dropped,
// and the rest are assigned:
//
//   - segment 0 is the author; following segments made only of initials
//     ("J.", "J. R.", "J.-P.") are folded into it, as long as one segment
//     is left for the title;
//   - if two or more segments remain, the last one is the identifier and
//     the others are joined with ", " as the title;
//   - otherwise the single remaining segment is the title.
package parse

import (
	"regexp"
	"strings"

	"github.com/pdiddy/refcheck/pkg/types"
)

// cutset holds the characters stripped from both ends of lines and fields.
const cutset = " \t\r\n\v\f'\""

// initialsPattern matches a segment made only of name initials.
var initialsPattern = regexp.MustCompile(`^(?:\p{Lu}\.(?:-\p{Lu}\.)?\s*)+$`)

// isbnPattern matches a hyphen-free ISBN-10 or ISBN-13.
var isbnPattern = regexp.MustCompile(`^(\d{10}|\d{13})$`)

// Clean strips leading and trailing quote and whitespace characters.
func Clean(line string) string {
	return strings.Trim(line, cutset)
}

// Lines splits text into reference lines, dropping blank lines and lines
// whose first non-space character is '#'. Returned lines keep their
// original content apart from surrounding whitespace.
func Lines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if Skip(line) {
			continue
		}
		out = append(out, strings.TrimSpace(line))
	}
	return out
}

// Skip reports whether a line is blank or a comment.
func Skip(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}

// Parse splits a raw reference into author, title, and identifier.
// Missing fields are left empty; Parse never fails.
func Parse(raw string) types.ParsedReference {
	parts := strings.Split(Clean(raw), ",")
	segs := []string{Clean(parts[0])}
	for _, part := range parts[1:] {
		if seg := Clean(part); seg != "" {
			segs = append(segs, seg)
		}
	}

	p := types.ParsedReference{Author: segs[0]}
	i := 1
	for i < len(segs)-1 && initialsPattern.MatchString(segs[i]) {
		p.Author += ", " + segs[i]
		i++
	}

	rest := segs[i:]
	switch {
	case len(rest) >= 2:
		p.Identifier = rest[len(rest)-1]
		p.Title = strings.Join(rest[:len(rest)-1], ", ")
	case len(rest) == 1:
		p.Title = rest[0]
	}
	return p
}

// ClassifyIdentifier determines the identifier kind and returns its
// normalized form: hyphens are removed from ISBNs, DOIs are returned as
// given.
func ClassifyIdentifier(identifier string) (types.IdentifierKind, string) {
	identifier = Clean(identifier)
	if identifier == "" {
		return types.IdentifierNone, ""
	}

	if strings.HasPrefix(identifier, "10.") {
		return types.IdentifierDOI, identifier
	}

	digits := strings.ReplaceAll(identifier, "-", "")
	if isbnPattern.MatchString(digits) {
		return types.IdentifierISBN, digits
	}

	return types.IdentifierNone, identifier
}

// Surname returns the lower-cased last whitespace-delimited token of the
// author text before its first comma, e.g. "John Smith, Jr." -> "smith".
func Surname(author string) string {
	head, _, _ := strings.Cut(author, ",")
	fields := strings.Fields(head)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[len(fields)-1])
}
