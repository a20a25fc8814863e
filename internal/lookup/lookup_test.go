// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/refcheck/internal/httputil"
	"github.com/pdiddy/refcheck/pkg/types"
)

const sampleCrossRefWorkJSON = `{
  "status": "ok",
  "message": {
    "DOI": "10.1000/xyz123",
    "title": ["A Great Title"],
    "author": [
      {"given": "John", "family": "Smith"},
      {"name": "The Consortium"}
    ]
  }
}`

const sampleCrossRefListJSON = `{
  "status": "ok",
  "message": {
    "total-results": 2,
    "items": [
      {"DOI": "10.1/a", "title": ["A Great Title Revisited"], "author": [{"given": "Ann", "family": "Lee"}]},
      {"DOI": "10.1/b", "title": [], "author": []}
    ]
  }
}`

const sampleGoogleISBNJSON = `{
  "totalItems": 1,
  "items": [{
    "id": "vol1",
    "volumeInfo": {
      "title": "The Odyssey",
      "authors": ["Homer", "Robert Fagles"],
      "industryIdentifiers": [
        {"type": "ISBN_10", "identifier": "0140449132"},
        {"type": "ISBN_13", "identifier": "9780140449136"}
      ]
    }
  }]
}`

const sampleGoogleTitleJSON = `{
  "totalItems": 2,
  "items": [
    {"id": "v1", "volumeInfo": {"title": "Odyssey Guide", "industryIdentifiers": [{"type": "OTHER", "identifier": "UOM:39015"}]}},
    {"id": "v2", "volumeInfo": {"title": "The Odyssey", "authors": ["Homer"], "industryIdentifiers": [{"type": "ISBN_10", "identifier": "0140449132"}]}}
  ]
}`

func testConfig() types.LookupConfig {
	return types.LookupConfig{HTTPConfig: types.HTTPConfig{UserAgent: "refcheck-test/1.0"}}
}

// withServer points both service base URLs at an httptest server for the
// duration of the test.
func withServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(handler)
	oldCR, oldGB := crossrefAPIBase, googleBooksAPIBase
	crossrefAPIBase = ts.URL + "/works"
	googleBooksAPIBase = ts.URL + "/volumes"
	t.Cleanup(func() {
		crossrefAPIBase, googleBooksAPIBase = oldCR, oldGB
		ts.Close()
	})
	return ts
}

func noLimit(ts *httptest.Server) []httputil.ClientOption {
	return []httputil.ClientOption{httputil.WithHTTPClient(ts.Client()), httputil.WithLimiter(nil)}
}

// --- CrossRef ---

func TestCrossRefLookupDOI(t *testing.T) {
	var gotPath, gotUA string
	ts := withServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, sampleCrossRefWorkJSON)
	})

	cfg := testConfig()
	cfg.CrossRefMailto = "me@example.org"
	rec, err := NewCrossRef(cfg, noLimit(ts)...).LookupDOI(context.Background(), "10.1000/xyz123")
	require.NoError(t, err)

	assert.Equal(t, "/works/10.1000/xyz123", gotPath)
	assert.Equal(t, "refcheck-test/1.0 (mailto:me@example.org)", gotUA)
	assert.Equal(t, types.Record{
		Source:  SourceCrossRef,
		Title:   "A Great Title",
		Authors: []string{"John Smith", "The Consortium"},
		DOI:     "10.1000/xyz123",
	}, rec)
}

func TestCrossRefLookupDOI_NoTitle(t *testing.T) {
	ts := withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"message": {"title": []}}`)
	})

	rec, err := NewCrossRef(testConfig(), noLimit(ts)...).LookupDOI(context.Background(), "10.1/none")
	require.NoError(t, err)
	assert.Equal(t, "No Title Found", rec.Title)
	assert.Equal(t, "10.1/none", rec.DOI)
}

func TestCrossRefLookupDOI_NotFound(t *testing.T) {
	ts := withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := NewCrossRef(testConfig(), noLimit(ts)...).LookupDOI(context.Background(), "10.1/missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCrossRefLookupDOI_ServerError(t *testing.T) {
	ts := withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := NewCrossRef(testConfig(), noLimit(ts)...).LookupDOI(context.Background(), "10.1/x")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "CrossRef returned HTTP 500", err.Error())
}

func TestCrossRefSearchTitle(t *testing.T) {
	var gotQuery, gotRows string
	ts := withServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query.title")
		gotRows = r.URL.Query().Get("rows")
		fmt.Fprint(w, sampleCrossRefListJSON)
	})

	recs, err := NewCrossRef(testConfig(), noLimit(ts)...).SearchTitle(context.Background(), "A Great Title")
	require.NoError(t, err)

	assert.Equal(t, "A Great Title", gotQuery)
	assert.Equal(t, "5", gotRows)
	require.Len(t, recs, 2)
	assert.Equal(t, "A Great Title Revisited", recs[0].Title)
	assert.Equal(t, []string{"Ann Lee"}, recs[0].Authors)
	assert.Equal(t, "10.1/a", recs[0].DOI)
	assert.Empty(t, recs[1].Title, "untitled candidates stay empty so they never match")
}

func TestCrossRefSearchTitle_CapsRows(t *testing.T) {
	ts := withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		items := make([]string, 4)
		for i := range items {
			items[i] = fmt.Sprintf(`{"DOI": "10.1/%d", "title": ["T%d"]}`, i, i)
		}
		fmt.Fprintf(w, `{"message": {"items": [%s]}}`, strings.Join(items, ","))
	})

	cfg := testConfig()
	cfg.ScholarlyRows = 2
	recs, err := NewCrossRef(cfg, noLimit(ts)...).SearchTitle(context.Background(), "T")
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestCrossRefSearchTitle_MalformedJSON(t *testing.T) {
	ts := withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html>`)
	})

	_, err := NewCrossRef(testConfig(), noLimit(ts)...).SearchTitle(context.Background(), "T")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing CrossRef response")
}

// --- Google Books ---

func TestGoogleBooksLookupISBN(t *testing.T) {
	var gotQ, gotKey string
	ts := withServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQ = r.URL.Query().Get("q")
		gotKey = r.URL.Query().Get("key")
		fmt.Fprint(w, sampleGoogleISBNJSON)
	})

	cfg := testConfig()
	cfg.GoogleBooksAPIKey = "secret"
	rec, err := NewGoogleBooks(cfg, noLimit(ts)...).LookupISBN(context.Background(), "9780140449136")
	require.NoError(t, err)

	assert.Equal(t, "isbn:9780140449136", gotQ)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, types.Record{
		Source:  SourceGoogleBooks,
		Title:   "The Odyssey",
		Authors: []string{"Homer", "Robert Fagles"},
		ISBN:    "9780140449136",
	}, rec)
}

func TestGoogleBooksLookupISBN_Empty(t *testing.T) {
	ts := withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"kind": "books#volumes", "totalItems": 0}`)
	})

	_, err := NewGoogleBooks(testConfig(), noLimit(ts)...).LookupISBN(context.Background(), "0000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGoogleBooksLookupISBN_Error(t *testing.T) {
	ts := withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := NewGoogleBooks(testConfig(), noLimit(ts)...).LookupISBN(context.Background(), "0140449132")
	require.Error(t, err)
	assert.Equal(t, "Google Books returned HTTP 403", err.Error())
}

func TestGoogleBooksSearchTitle(t *testing.T) {
	var gotQ string
	ts := withServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQ = r.URL.Query().Get("q")
		fmt.Fprint(w, sampleGoogleTitleJSON)
	})

	recs, err := NewGoogleBooks(testConfig(), noLimit(ts)...).SearchTitle(context.Background(), "The Odyssey")
	require.NoError(t, err)

	assert.Equal(t, "intitle:The Odyssey", gotQ)
	require.Len(t, recs, 2)
	assert.Empty(t, recs[0].ISBN)
	assert.Equal(t, "0140449132", recs[1].ISBN)
	assert.Equal(t, []string{"Homer"}, recs[1].Authors)
}

func TestPreferredISBN(t *testing.T) {
	tests := []struct {
		name string
		ids  []googleIndustryID
		want string
	}{
		{"none", nil, ""},
		{"isbn10 only", []googleIndustryID{{"ISBN_10", "0140449132"}}, "0140449132"},
		{"isbn13 after isbn10", []googleIndustryID{{"ISBN_10", "0140449132"}, {"ISBN_13", "9780140449136"}}, "9780140449136"},
		{"other ignored", []googleIndustryID{{"OTHER", "UOM:1"}, {"ISSN", "1234-5678"}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, preferredISBN(tt.ids))
		})
	}
}
