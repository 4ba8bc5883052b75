package metadata

import (
	"Rex/internal/api/config"
	"context"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// MovieResult OMDb 检索结果
type MovieResult struct {
	SourceID  string `json:"sourceId"`
	Title     string `json:"title"`
	Year      int    `json:"year"`
	Director  string `json:"director"`
	PosterURL string `json:"posterUrl"`
}

type MoviesClient interface {
	SearchMovies(ctx context.Context, query string, limit int) ([]*MovieResult, error)
}

type moviesClientImpl struct {
	http *resty.Client
}

func NewMoviesClient() MoviesClient {
	return &moviesClientImpl{http: newHTTPClient()}
}

type omdbSearchResp struct {
	Search []struct {
		Title  string `json:"Title"`
		Year   string `json:"Year"`
		ImdbID string `json:"imdbID"`
		Poster string `json:"Poster"`
	} `json:"Search"`
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

func (s *moviesClientImpl) SearchMovies(ctx context.Context, query string, limit int) ([]*MovieResult, error) {
	metaCfg := config.Cfg.Metadata

	var result omdbSearchResp
	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"s":      query,
			"type":   "movie",
			"apikey": metaCfg.MoviesKey,
		}).
		SetResult(&result).
		Get(metaCfg.MoviesURL)
	if err != nil {
		return nil, errors.Wrap(err, "omdb request failed")
	}
	if resp.IsError() {
		return nil, errors.Errorf("omdb status %d", resp.StatusCode())
	}
	if result.Response != "True" {
		// "Movie not found!" 不算错误
		return []*MovieResult{}, nil
	}

	movies := make([]*MovieResult, 0, len(result.Search))
	for i, doc := range result.Search {
		if i >= limit {
			break
		}
		movie := &MovieResult{
			SourceID: doc.ImdbID,
			Title:    doc.Title,
		}
		if year, err := strconv.Atoi(doc.Year); err == nil {
			movie.Year = year
		}
		if doc.Poster != "N/A" {
			movie.PosterURL = doc.Poster
		}
		movies = append(movies, movie)
	}
	return movies, nil
}
