package metadata

import (
	"Rex/internal/api/config"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchBooks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "dune", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"docs": [
				{"key": "/works/OL893415W", "title": "Dune", "author_name": ["Frank Herbert"], "first_publish_year": 1965, "cover_i": 11481354},
				{"key": "/works/OL893416W", "title": "Dune Messiah", "author_name": ["Frank Herbert"], "first_publish_year": 1969}
			]
		}`))
	}))
	defer server.Close()

	config.Cfg = &config.Config{}
	config.Cfg.Metadata.BooksURL = server.URL

	client := NewBooksClient()
	books, err := client.SearchBooks(context.Background(), "dune", 5)
	require.NoError(t, err)
	require.Len(t, books, 2)

	assert.Equal(t, "OL893415W", books[0].SourceID)
	assert.Equal(t, "Dune", books[0].Title)
	assert.Equal(t, "Frank Herbert", books[0].Author)
	assert.Equal(t, 1965, books[0].Year)
	assert.Contains(t, books[0].CoverURL, "11481354")

	assert.Empty(t, books[1].CoverURL)
}

func TestSearchBooksUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	config.Cfg = &config.Config{}
	config.Cfg.Metadata.BooksURL = server.URL

	client := NewBooksClient()
	_, err := client.SearchBooks(context.Background(), "dune", 5)
	assert.Error(t, err)
}

func TestSearchMoviesNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Response": "False", "Error": "Movie not found!"}`))
	}))
	defer server.Close()

	config.Cfg = &config.Config{}
	config.Cfg.Metadata.MoviesURL = server.URL

	client := NewMoviesClient()
	movies, err := client.SearchMovies(context.Background(), "zzzzz", 5)
	require.NoError(t, err)
	assert.Empty(t, movies)
}
