package metadata

import (
	"Rex/internal/api/config"
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// BookResult Open Library 检索结果
type BookResult struct {
	SourceID string `json:"sourceId"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Year     int    `json:"year"`
	CoverURL string `json:"coverUrl"`
}

type BooksClient interface {
	SearchBooks(ctx context.Context, query string, limit int) ([]*BookResult, error)
}

type booksClientImpl struct {
	http *resty.Client
}

func NewBooksClient() BooksClient {
	return &booksClientImpl{http: newHTTPClient()}
}

// openLibraryResp Open Library /search.json 响应，只取用到的字段
type openLibraryResp struct {
	Docs []struct {
		Key              string   `json:"key"`
		Title            string   `json:"title"`
		AuthorName       []string `json:"author_name"`
		FirstPublishYear int      `json:"first_publish_year"`
		CoverI           int      `json:"cover_i"`
	} `json:"docs"`
}

func (s *booksClientImpl) SearchBooks(ctx context.Context, query string, limit int) ([]*BookResult, error) {
	var result openLibraryResp

	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":      query,
			"limit":  fmt.Sprintf("%d", limit),
			"fields": "key,title,author_name,first_publish_year,cover_i",
		}).
		SetResult(&result).
		Get(config.Cfg.Metadata.BooksURL)
	if err != nil {
		return nil, errors.Wrap(err, "open library request failed")
	}
	if resp.IsError() {
		return nil, errors.Errorf("open library status %d", resp.StatusCode())
	}

	books := make([]*BookResult, 0, len(result.Docs))
	for _, doc := range result.Docs {
		book := &BookResult{
			SourceID: strings.TrimPrefix(doc.Key, "/works/"),
			Title:    doc.Title,
			Year:     doc.FirstPublishYear,
		}
		if len(doc.AuthorName) > 0 {
			book.Author = doc.AuthorName[0]
		}
		if doc.CoverI > 0 {
			book.CoverURL = fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-M.jpg", doc.CoverI)
		}
		books = append(books, book)
	}
	return books, nil
}
