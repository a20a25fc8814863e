// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lookup queries external bibliographic services (CrossRef and
// Google Books) and normalizes their responses into types.Record values.
package lookup

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/refcheck/internal/httputil"
	"github.com/pdiddy/refcheck/pkg/types"
)

// ErrNotFound is returned when a service has no record for an identifier.
var ErrNotFound = httputil.ErrNotFound

// crossrefAPIBase is the CrossRef works endpoint. Declared as a var so
// tests can substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org/works"

// SourceCrossRef names CrossRef in records and verdicts.
const SourceCrossRef = "crossref"

// noTitle is used when CrossRef returns a record without a title.
const noTitle = "No Title Found"

// CrossRef looks up scholarly works by DOI and by title.
type CrossRef struct {
	client *httputil.Client
	rows   int
}

// NewCrossRef creates a CrossRef client. When cfg.CrossRefMailto is set it
// is appended to the User-Agent so requests use CrossRef's polite pool.
func NewCrossRef(cfg types.LookupConfig, opts ...httputil.ClientOption) *CrossRef {
	httpCfg := cfg.HTTPConfig
	if cfg.CrossRefMailto != "" {
		httpCfg.UserAgent = strings.TrimSpace(httpCfg.UserAgent + " (mailto:" + cfg.CrossRefMailto + ")")
	}
	rows := cfg.ScholarlyRows
	if rows <= 0 {
		rows = types.DefaultScholarlyRows
	}
	return &CrossRef{
		client: httputil.NewClient("CrossRef", httpCfg, opts...),
		rows:   rows,
	}
}

// Name returns the service identifier.
func (c *CrossRef) Name() string { return SourceCrossRef }

// LookupDOI fetches the work registered under doi. It returns ErrNotFound
// when CrossRef answers 404.
func (c *CrossRef) LookupDOI(ctx context.Context, doi string) (types.Record, error) {
	var resp crossrefWorkResponse
	if err := c.client.GetJSON(ctx, crossrefAPIBase+"/"+url.PathEscape(doi), &resp); err != nil {
		return types.Record{}, err
	}
	rec := resp.Message.record()
	if rec.Title == "" {
		rec.Title = noTitle
	}
	if rec.DOI == "" {
		rec.DOI = doi
	}
	return rec, nil
}

// SearchTitle returns up to the configured number of ranked candidates
// for a free-text title query.
func (c *CrossRef) SearchTitle(ctx context.Context, title string) ([]types.Record, error) {
	params := url.Values{
		"query.title": {title},
		"rows":        {strconv.Itoa(c.rows)},
	}

	var resp crossrefListResponse
	if err := c.client.GetJSON(ctx, crossrefAPIBase+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	items := resp.Message.Items
	if len(items) > c.rows {
		items = items[:c.rows]
	}
	records := make([]types.Record, 0, len(items))
	for _, w := range items {
		records = append(records, w.record())
	}
	return records, nil
}

// CrossRef API JSON structures.
type crossrefWorkResponse struct {
	Status  string       `json:"status"`
	Message crossrefWork `json:"message"`
}

type crossrefListResponse struct {
	Status  string `json:"status"`
	Message struct {
		TotalResults int            `json:"total-results"`
		Items        []crossrefWork `json:"items"`
	} `json:"message"`
}

type crossrefWork struct {
	DOI    string           `json:"DOI"`
	Title  []string         `json:"title"`
	Author []crossrefAuthor `json:"author"`
}

type crossrefAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
	Name   string `json:"name"`
}

func (w crossrefWork) record() types.Record {
	rec := types.Record{Source: SourceCrossRef, DOI: w.DOI}
	if len(w.Title) > 0 {
		rec.Title = w.Title[0]
	}
	for _, a := range w.Author {
		if name := a.displayName(); name != "" {
			rec.Authors = append(rec.Authors, name)
		}
	}
	return rec
}

// displayName joins given and family names; organizational authors only
// carry a name.
func (a crossrefAuthor) displayName() string {
	name := strings.TrimSpace(a.Given + " " + a.Family)
	if name == "" {
		name = strings.TrimSpace(a.Name)
	}
	return name
}
