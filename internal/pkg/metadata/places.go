package metadata

import (
	"Rex/internal/api/config"
	"context"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// PlaceResult 地点检索结果
type PlaceResult struct {
	SourceID   string  `json:"sourceId"`
	Name       string  `json:"name"`
	Address    string  `json:"address"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	PriceLevel int     `json:"priceLevel"`
}

type PlacesClient interface {
	SearchPlaces(ctx context.Context, query string, limit int) ([]*PlaceResult, error)
}

type placesClientImpl struct {
	http *resty.Client
}

func NewPlacesClient() PlacesClient {
	return &placesClientImpl{http: newHTTPClient()}
}

type placesSearchResp struct {
	Results []struct {
		FsqID    string `json:"fsq_id"`
		Name     string `json:"name"`
		Location struct {
			FormattedAddress string `json:"formatted_address"`
		} `json:"location"`
		Geocodes struct {
			Main struct {
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
			} `json:"main"`
		} `json:"geocodes"`
		Price int `json:"price"`
	} `json:"results"`
}

func (s *placesClientImpl) SearchPlaces(ctx context.Context, query string, limit int) ([]*PlaceResult, error) {
	metaCfg := config.Cfg.Metadata

	var result placesSearchResp
	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("Authorization", metaCfg.PlacesKey).
		SetQueryParams(map[string]string{
			"query": query,
			"limit": strconv.Itoa(limit),
		}).
		SetResult(&result).
		Get(metaCfg.PlacesURL)
	if err != nil {
		return nil, errors.Wrap(err, "places request failed")
	}
	if resp.IsError() {
		return nil, errors.Errorf("places status %d", resp.StatusCode())
	}

	places := make([]*PlaceResult, 0, len(result.Results))
	for _, doc := range result.Results {
		places = append(places, &PlaceResult{
			SourceID:   doc.FsqID,
			Name:       doc.Name,
			Address:    doc.Location.FormattedAddress,
			Latitude:   doc.Geocodes.Main.Latitude,
			Longitude:  doc.Geocodes.Main.Longitude,
			PriceLevel: doc.Price,
		})
	}
	return places, nil
}
