// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"context"
	"net/url"

	"github.com/pdiddy/refcheck/internal/httputil"
	"github.com/pdiddy/refcheck/pkg/types"
)

// googleBooksAPIBase is the Google Books volumes endpoint. Declared as a
// var so tests can substitute an httptest server.
var googleBooksAPIBase = "https://www.googleapis.com/books/v1/volumes"

// SourceGoogleBooks names Google Books in records and verdicts.
const SourceGoogleBooks = "googlebooks"

// GoogleBooks looks up books by ISBN and by title.
type GoogleBooks struct {
	client *httputil.Client
	apiKey string
}

// NewGoogleBooks creates a Google Books client.
func NewGoogleBooks(cfg types.LookupConfig, opts ...httputil.ClientOption) *GoogleBooks {
	return &GoogleBooks{
		client: httputil.NewClient("Google Books", cfg.HTTPConfig, opts...),
		apiKey: cfg.GoogleBooksAPIKey,
	}
}

// Name returns the service identifier.
func (g *GoogleBooks) Name() string { return SourceGoogleBooks }

// LookupISBN returns the first volume matching isbn, or ErrNotFound when
// the result set is empty. isbn must already be hyphen-free.
func (g *GoogleBooks) LookupISBN(ctx context.Context, isbn string) (types.Record, error) {
	items, err := g.volumes(ctx, "isbn:"+isbn)
	if err != nil {
		return types.Record{}, err
	}
	if len(items) == 0 {
		return types.Record{}, ErrNotFound
	}
	rec := items[0].record()
	if rec.ISBN == "" {
		rec.ISBN = isbn
	}
	return rec, nil
}

// SearchTitle returns every volume of the first result page for an
// intitle: query.
func (g *GoogleBooks) SearchTitle(ctx context.Context, title string) ([]types.Record, error) {
	items, err := g.volumes(ctx, "intitle:"+title)
	if err != nil {
		return nil, err
	}
	records := make([]types.Record, 0, len(items))
	for _, v := range items {
		records = append(records, v.record())
	}
	return records, nil
}

func (g *GoogleBooks) volumes(ctx context.Context, q string) ([]googleVolume, error) {
	params := url.Values{"q": {q}}
	if g.apiKey != "" {
		params.Set("key", g.apiKey)
	}

	var resp googleVolumesResponse
	if err := g.client.GetJSON(ctx, googleBooksAPIBase+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	if resp.TotalItems == 0 {
		return nil, nil
	}
	return resp.Items, nil
}

// Google Books API JSON structures.
type googleVolumesResponse struct {
	TotalItems int            `json:"totalItems"`
	Items      []googleVolume `json:"items"`
}

type googleVolume struct {
	ID         string           `json:"id"`
	VolumeInfo googleVolumeInfo `json:"volumeInfo"`
}

type googleVolumeInfo struct {
	Title               string             `json:"title"`
	Authors             []string           `json:"authors"`
	IndustryIdentifiers []googleIndustryID `json:"industryIdentifiers"`
}

type googleIndustryID struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

func (v googleVolume) record() types.Record {
	return types.Record{
		Source:  SourceGoogleBooks,
		Title:   v.VolumeInfo.Title,
		Authors: v.VolumeInfo.Authors,
		ISBN:    preferredISBN(v.VolumeInfo.IndustryIdentifiers),
	}
}

// preferredISBN picks ISBN_13 over ISBN_10 and ignores other identifier
// types such as OTHER or ISSN.
func preferredISBN(ids []googleIndustryID) string {
	var isbn10 string
	for _, id := range ids {
		switch id.Type {
		case "ISBN_13":
			return id.Identifier
		case "ISBN_10":
			if isbn10 == "" {
				isbn10 = id.Identifier
			}
		}
	}
	return isbn10
}
