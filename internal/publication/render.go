// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publication

import (
	"fmt"
	"strings"

	"github.com/pdiddy/pubimport/pkg/types"
)

// DefaultDateOffset is the UTC offset written into the date field.
const DefaultDateOffset = "+0900"

const frontMatterDelim = "---"

// RenderOptions controls the parts of the document that do not come from
// the record itself.
type RenderOptions struct {
	Identity   Identity
	DateOffset string
}

// Render returns the front-matter document for p. p is normalized first, so
// title and year are always present. Field order is fixed: title, date,
// selected, pub, pub_date, abstract, authors, links.
func Render(p types.Publication, opts RenderOptions) []byte {
	n := Normalize(p)
	offset := opts.DateOffset
	if offset == "" {
		offset = DefaultDateOffset
	}

	lines := []string{
		frontMatterDelim,
		fmt.Sprintf("title: %s", quote(n.Title)),
		fmt.Sprintf("date: %d-01-01 00:00:00 %s", n.Year, offset),
		"selected: false",
		fmt.Sprintf("pub: %s", quote(n.Venue)),
		fmt.Sprintf("pub_date: \"%d\"", n.Year),
		"abstract: >-",
	}
	lines = append(lines, abstractLines(n.Abstract)...)

	lines = append(lines, "authors:")
	for _, name := range n.Authors {
		lines = append(lines, "- "+opts.Identity.Mark(name))
	}

	if len(n.Links) > 0 {
		lines = append(lines, "links:")
		for _, l := range n.Links {
			lines = append(lines, fmt.Sprintf("  %s: %s", l.Label, l.URL))
		}
	}
	lines = append(lines, frontMatterDelim)

	return []byte(strings.Join(lines, "\n") + "\n")
}

// abstractLines returns the continuation lines of the abstract block scalar.
// An empty abstract still gets one blank continuation line.
func abstractLines(abstract string) []string {
	if abstract == "" {
		return []string{"  "}
	}
	src := strings.Split(strings.ReplaceAll(abstract, "\r\n", "\n"), "\n")
	out := make([]string, len(src))
	for i, line := range src {
		out[i] = "  " + line
	}
	return out
}

var quoteReplacer = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quote(s string) string {
	return `"` + quoteReplacer.Replace(s) + `"`
}
