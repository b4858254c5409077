// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scholar imports a Google Scholar profile's publication list.
//
// The profile listing returns a JSON envelope whose "B" field holds an HTML
// fragment of table rows. Rows are split on their opening tag and each field
// is pulled out with a fixed pattern.
package scholar

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/pubimport/pkg/types"
)

// RowMarker opens every publication row in the listing fragment.
const RowMarker = `<tr class="gsc_a_tr"`

// SearchHomeURL is the static link attached to every imported record.
const SearchHomeURL = "https://scholar.google.com/scholar"

var (
	titlePattern    = regexp.MustCompile(`(?s)class="gsc_a_at"[^>]*>(.*?)</a>`)
	grayPattern     = regexp.MustCompile(`(?s)<div class="gs_gray">(.*?)</div>`)
	yearPattern     = regexp.MustCompile(`class="gsc_a_h gsc_a_hc gs_ibl">(\d{4})</span>`)
	spanPattern     = regexp.MustCompile(`<span[^>]*>.*?</span>`)
	authorSeparator = regexp.MustCompile(`,\s*`)
	asciiSpaceRun   = regexp.MustCompile(`[ \t\r\n\f\v]+`)
)

// ExtractRows splits a listing fragment into one fragment per row. Content
// before the first row is discarded and each row keeps its opening marker.
func ExtractRows(fragment string) []string {
	parts := strings.Split(fragment, RowMarker)
	if len(parts) < 2 {
		return nil
	}
	rows := make([]string, 0, len(parts)-1)
	for _, p := range parts[1:] {
		rows = append(rows, RowMarker+p)
	}
	return rows
}

// ParseTitle returns the title anchor text with ASCII whitespace runs
// collapsed to one space and trimmed, or "" when the row has no title
// anchor. Other Unicode spaces such as U+00A0 are kept as they are.
func ParseTitle(row string) string {
	m := titlePattern.FindStringSubmatch(row)
	if m == nil {
		return ""
	}
	return strings.Trim(asciiSpaceRun.ReplaceAllString(m[1], " "), " ")
}

// GrayLines returns the contents of every gs_gray div in row, in order. The
// first is the author line and the second the venue line.
func GrayLines(row string) []string {
	var lines []string
	for _, m := range grayPattern.FindAllStringSubmatch(row, -1) {
		lines = append(lines, m[1])
	}
	return lines
}

// ParseAuthors splits an author line on commas. Trailing empty entries are
// dropped; an empty line has no authors.
func ParseAuthors(line string) []string {
	if line == "" {
		return nil
	}
	parts := authorSeparator.Split(line, -1)
	authors := make([]string, 0, len(parts))
	for _, p := range parts {
		authors = append(authors, strings.TrimSpace(p))
	}
	for len(authors) > 0 && authors[len(authors)-1] == "" {
		authors = authors[:len(authors)-1]
	}
	if len(authors) == 0 {
		return nil
	}
	return authors
}

// ParseVenue strips nested spans (year and similar decorations) from the
// venue line.
func ParseVenue(line string) string {
	return strings.TrimSpace(spanPattern.ReplaceAllString(line, ""))
}

// ParseYear returns the four-digit year of row, or 0 when absent.
func ParseYear(row string) int {
	m := yearPattern.FindStringSubmatch(row)
	if m == nil {
		return 0
	}
	y, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return y
}

// ParseRow extracts a record from one row fragment. Missing fields are left
// empty for the normalizer.
func ParseRow(row string) types.Publication {
	gray := GrayLines(row)
	var authorsLine, venueLine string
	if len(gray) > 0 {
		authorsLine = gray[0]
	}
	if len(gray) > 1 {
		venueLine = gray[1]
	}

	return types.Publication{
		Title:   ParseTitle(row),
		Year:    ParseYear(row),
		Venue:   ParseVenue(venueLine),
		Authors: ParseAuthors(authorsLine),
		Links:   []types.Link{{Label: "GoogleScholar", URL: SearchHomeURL}},
		Source:  types.SourceGoogleScholar,
	}
}
