// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/segmentio/encoding/json"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/pubimport/internal/httputil"
	"github.com/pdiddy/pubimport/internal/publication"
)

// scholarBase is the profile listing endpoint. Declared as a var so tests
// can substitute an httptest server.
var scholarBase = "https://scholar.google.com/citations"

const (
	// PageSize is the number of rows requested per page.
	PageSize = 100

	// DefaultMaxPages bounds pagination when no limit is given.
	DefaultMaxPages = 5

	// DefaultUserAgent is sent when the importer has none configured.
	DefaultUserAgent = "academic-homepage-gs-import/1.0"
)

// PageURL returns the listing URL for the given zero-based page.
func PageURL(user string, page int) string {
	return fmt.Sprintf("%s?hl=en&user=%s&view_op=list_works&sortby=pubdate&cstart=%d&pagesize=%d&json=1",
		scholarBase, url.QueryEscape(user), page*PageSize, PageSize)
}

type listingPage struct {
	B *string `json:"B"`
}

// DecodePage returns the HTML fragment carried by a listing response. ok is
// false when body is not JSON or has no string "B" field; callers treat that
// as the end of the listing. A broken response therefore looks the same as
// an exhausted one.
func DecodePage(body []byte) (fragment string, ok bool) {
	var page listingPage
	if err := json.Unmarshal(body, &page); err != nil {
		return "", false
	}
	if page.B == nil {
		return "", false
	}
	return *page.B, true
}

// Importer walks a profile listing page by page and writes every row.
type Importer struct {
	Client    *http.Client
	Writer    *publication.Writer
	UserAgent string
	Log       logrus.FieldLogger
}

// Import fetches up to maxPages pages for user and writes each row. It
// stops early at the first page that does not decode or has no rows. A
// non-success HTTP status or a write failure aborts the run. The number of
// records written is returned in both cases.
func (im *Importer) Import(ctx context.Context, user string, maxPages int) (int, error) {
	log := im.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	ua := im.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	header := http.Header{}
	header.Set("User-Agent", ua)

	total := 0
	for page := 0; page < maxPages; page++ {
		pageURL := PageURL(user, page)
		plog := log.WithFields(logrus.Fields{"page": page, "url": pageURL})
		plog.Debug("fetching listing page")

		body, err := httputil.Get(ctx, im.Client, pageURL, header)
		if err != nil {
			return total, fmt.Errorf("fetching page %d: %w", page, err)
		}

		fragment, ok := DecodePage(body)
		if !ok {
			plog.Warn("listing page did not decode, stopping")
			break
		}
		rows := ExtractRows(fragment)
		if len(rows) == 0 {
			plog.Debug("listing page has no rows, stopping")
			break
		}

		for _, row := range rows {
			if _, err := im.Writer.Write(ctx, ParseRow(row)); err != nil {
				return total, err
			}
			total++
		}
		plog.WithField("rows", len(rows)).Info("imported listing page")
	}
	return total, nil
}

// Summary writes the end-of-run line for a Google Scholar import.
func Summary(w io.Writer, total int) {
	fmt.Fprintf(w, "Imported/updated ~%d items from Google Scholar.\n", total)
}
