// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/refcheck/pkg/types"
)

func TestContainsFold(t *testing.T) {
	assert.True(t, containsFold("A GREAT Title: Second Edition", "a great title"))
	assert.True(t, containsFold("Études de l'ÉCOLE", "école"), "non-ASCII letters fold")
	assert.False(t, containsFold("A Great Title", "Another Title"))
	assert.False(t, containsFold("anything", ""), "empty query never matches")
}

func TestAuthorMatches(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		author     string
		want       bool
	}{
		{"surname contained", []string{"John Smith"}, "Smith", true},
		{"initials after comma ignored", []string{"Jane Doe", "J. SMITH"}, "Smith, J.", true},
		{"full name uses last token", []string{"Ann Lee"}, "Bob Lee", true},
		{"no match", []string{"Ann Lee"}, "Smith", false},
		{"no candidates", nil, "Smith", false},
		{"empty author", []string{"Ann Lee"}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, authorMatches(tt.candidates, tt.author))
		})
	}
}

func TestMatch(t *testing.T) {
	wrongAuthor := crRecord("A Great Title", "10.1/wrong", "Ann Lee")
	rightAuthor := crRecord("A Great Title, Revised", "10.1/right", "John Smith")
	otherTitle := crRecord("Something Else", "10.1/other", "John Smith")

	t.Run("verified first candidate", func(t *testing.T) {
		v, p := Match([]types.Record{rightAuthor, wrongAuthor}, "a great title", "Smith")
		require.NotNil(t, v)
		assert.Equal(t, "10.1/right", v.DOI)
		assert.Nil(t, p)
	})

	t.Run("verified later than potential", func(t *testing.T) {
		v, p := Match([]types.Record{otherTitle, wrongAuthor, rightAuthor}, "A Great Title", "Smith")
		require.NotNil(t, v)
		assert.Equal(t, "10.1/right", v.DOI)
		require.NotNil(t, p)
		assert.Equal(t, "10.1/wrong", p.DOI)
	})

	t.Run("potential only keeps first", func(t *testing.T) {
		second := crRecord("A Great Title (2nd ed.)", "10.1/second", "Bob Jones")
		v, p := Match([]types.Record{wrongAuthor, second}, "A Great Title", "Smith")
		assert.Nil(t, v)
		require.NotNil(t, p)
		assert.Equal(t, "10.1/wrong", p.DOI)
	})

	t.Run("author match without title match is ignored", func(t *testing.T) {
		v, p := Match([]types.Record{otherTitle}, "A Great Title", "Smith")
		assert.Nil(t, v)
		assert.Nil(t, p)
	})

	t.Run("no candidates", func(t *testing.T) {
		v, p := Match(nil, "A Great Title", "Smith")
		assert.Nil(t, v)
		assert.Nil(t, p)
	})
}

func TestMatchConcurrentCallers(t *testing.T) {
	candidates := []types.Record{crRecord("A GREAT Title", "10.1/a", "John Smith")}

	var wg sync.WaitGroup
	results := make([]bool, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			verified, _ := Match(candidates, "a great title", "Smith, J.")
			results[i] = verified != nil
		}(i)
	}
	wg.Wait()

	for i, ok := range results {
		assert.True(t, ok, "caller %d", i)
	}
}
