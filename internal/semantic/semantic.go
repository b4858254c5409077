// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package semantic imports an author's papers from the Semantic Scholar
// Graph API.
package semantic

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/segmentio/encoding/json"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/pubimport/internal/httputil"
	"github.com/pdiddy/pubimport/internal/publication"
	"github.com/pdiddy/pubimport/pkg/types"
)

// semanticAPIBase is the Semantic Scholar author endpoint. Declared as a var
// so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/author"

const (
	semanticFields = "title,year,venue,publicationTypes,externalIds,authors,abstract"

	// PageLimit is the number of papers requested in the single call.
	PageLimit = 200

	// DefaultUserAgent is sent when the importer has none configured.
	DefaultUserAgent = "academic-homepage-import/1.0"
)

// Link targets for external identifiers.
const (
	doiBase    = "https://doi.org/"
	arxivBase  = "https://arxiv.org/abs/"
	corpusBase = "https://www.semanticscholar.org/paper/"
)

// PapersURL returns the author papers URL for authorID.
func PapersURL(authorID string) string {
	return fmt.Sprintf("%s/%s/papers?fields=%s&limit=%d",
		semanticAPIBase, url.PathEscape(authorID), semanticFields, PageLimit)
}

// Semantic Scholar API JSON structures.
type papersResponse struct {
	Data []json.RawMessage `json:"data"`
}

// wrappedPaper matches entries that nest the paper one level down.
type wrappedPaper struct {
	Paper json.RawMessage `json:"paper"`
}

type semanticPaper struct {
	Title            string              `json:"title"`
	Year             int                 `json:"year"`
	Venue            *string             `json:"venue"`
	PublicationTypes []string            `json:"publicationTypes"`
	Abstract         string              `json:"abstract"`
	Authors          []semanticAuthor    `json:"authors"`
	ExternalIDs      semanticExternalIDs `json:"externalIds"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticExternalIDs struct {
	DOI      string `json:"DOI"`
	ArXiv    string `json:"ArXiv"`
	CorpusID int64  `json:"CorpusId"`
}

// DecodePapers parses an author papers response. Unlike the Google Scholar
// listing, a body that does not parse is an error. A missing data array
// yields no records.
func DecodePapers(body []byte) ([]types.Publication, error) {
	var resp papersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}

	pubs := make([]types.Publication, 0, len(resp.Data))
	for i, raw := range resp.Data {
		if isNull(raw) {
			continue
		}
		paper, err := decodeEntry(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing Semantic Scholar paper %d: %w", i, err)
		}
		pubs = append(pubs, toPublication(paper))
	}
	return pubs, nil
}

// decodeEntry accepts both {"paper": {...}} and a flat paper object.
func decodeEntry(raw json.RawMessage) (semanticPaper, error) {
	var p semanticPaper

	var w wrappedPaper
	if err := json.Unmarshal(raw, &w); err != nil {
		return p, err
	}
	if !isNull(w.Paper) {
		raw = w.Paper
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, err
	}
	return p, nil
}

func isNull(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}

func toPublication(p semanticPaper) types.Publication {
	// Only a missing or null venue falls back; an empty string is kept.
	var venue string
	if p.Venue != nil {
		venue = *p.Venue
	} else {
		venue = strings.Join(p.PublicationTypes, ", ")
	}

	var authors []string
	for _, a := range p.Authors {
		authors = append(authors, a.Name)
	}

	return types.Publication{
		Title:    p.Title,
		Year:     p.Year,
		Venue:    venue,
		Authors:  authors,
		Abstract: strings.TrimSpace(p.Abstract),
		Links:    externalLinks(p.ExternalIDs),
		Source:   types.SourceSemanticScholar,
	}
}

// externalLinks returns DOI, arXiv, and corpus links, in that order, for
// whichever identifiers are present.
func externalLinks(ids semanticExternalIDs) []types.Link {
	var links []types.Link
	if ids.DOI != "" {
		links = append(links, types.Link{Label: "DOI", URL: doiBase + ids.DOI})
	}
	if ids.ArXiv != "" {
		links = append(links, types.Link{Label: "arXiv", URL: arxivBase + ids.ArXiv})
	}
	if ids.CorpusID != 0 {
		links = append(links, types.Link{Label: "SemanticScholar", URL: corpusBase + strconv.FormatInt(ids.CorpusID, 10)})
	}
	return links
}

// Importer fetches an author's papers in one request and writes each.
type Importer struct {
	Client    *http.Client
	Writer    *publication.Writer
	UserAgent string
	APIKey    string
	Log       logrus.FieldLogger

	// Out receives one "Wrote <path>" line per file; nil discards them.
	Out io.Writer
}

// Import fetches and writes every paper of authorID. It returns the number
// of files written. HTTP, parse, and write failures are returned along with
// the count written so far.
func (im *Importer) Import(ctx context.Context, authorID string) (int, error) {
	log := im.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	out := im.Out
	if out == nil {
		out = io.Discard
	}

	ua := im.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	header := http.Header{}
	header.Set("User-Agent", ua)
	if im.APIKey != "" {
		header.Set("x-api-key", im.APIKey)
	}

	reqURL := PapersURL(authorID)
	log.WithField("url", reqURL).Debug("fetching author papers")

	body, err := httputil.Get(ctx, im.Client, reqURL, header)
	if err != nil {
		return 0, fmt.Errorf("Semantic Scholar API request: %w", err)
	}

	pubs, err := DecodePapers(body)
	if err != nil {
		return 0, err
	}
	log.WithField("papers", len(pubs)).Info("fetched author papers")

	written := 0
	for _, p := range pubs {
		path, err := im.Writer.Write(ctx, p)
		if err != nil {
			return written, err
		}
		written++
		fmt.Fprintf(out, "Wrote %s\n", path)
	}
	return written, nil
}

// Summary writes the end-of-run line for a Semantic Scholar import.
func Summary(w io.Writer, total int) {
	fmt.Fprintf(w, "Imported %d papers.\n", total)
}
