// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package publication normalizes extracted records and writes them as
// front-matter Markdown files, one per publication, bucketed by year.
package publication

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pdiddy/pubimport/pkg/types"
)

const (
	// UntitledTitle replaces a missing or blank title.
	UntitledTitle = "Untitled"

	// SentinelYear replaces a missing or zero year.
	SentinelYear = 1900

	// MaxSlugLen bounds the slug portion of a file name.
	MaxSlugLen = 60

	emptySlug = "paper"
)

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize applies field defaults. The input is not modified.
func Normalize(p types.Publication) types.Publication {
	out := p
	out.Title = strings.TrimSpace(p.Title)
	if out.Title == "" {
		out.Title = UntitledTitle
	}
	if out.Year <= 0 {
		out.Year = SentinelYear
	}
	out.Venue = strings.TrimSpace(p.Venue)
	out.Abstract = strings.TrimSpace(p.Abstract)
	if p.Authors != nil {
		out.Authors = append([]string(nil), p.Authors...)
	}
	if p.Links != nil {
		out.Links = append([]types.Link(nil), p.Links...)
	}
	return out
}

// Slug lowercases title, collapses every run of characters outside [a-z0-9]
// into one hyphen, and trims hyphens from both ends. The result is at most
// MaxSlugLen bytes and may be empty.
func Slug(title string) string {
	s := nonSlugRun.ReplaceAllString(strings.ToLower(title), "-")
	s = strings.Trim(s, "-")
	if len(s) > MaxSlugLen {
		s = strings.TrimRight(s[:MaxSlugLen], "-")
	}
	return s
}

// FileName returns "<year>-<slug>.md" for an already normalized record.
// Distinct titles can share a file name; nothing disambiguates them.
func FileName(p types.Publication) string {
	slug := Slug(p.Title)
	if slug == "" {
		slug = emptySlug
	}
	return fmt.Sprintf("%04d-%s.md", p.Year, slug)
}

// Path returns the output path of p under root. p is normalized first.
func Path(root string, p types.Publication) string {
	n := Normalize(p)
	return filepath.Join(root, fmt.Sprintf("%d", n.Year), FileName(n))
}
