package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/graph/tool"
)

// GooglePlaces implements Places against the Google Places API "Text
// Search" endpoint (Place Details is not called), via the engine's generic HTTPTool
// rather than a dedicated Google client library: no Go SDK for Places Web
// Service exists, and google.golang.org/api (already in go.mod for the
// Gemini oracle) doesn't cover it either.
type GooglePlaces struct {
	apiKey string
	http   *tool.HTTPTool
}

// NewGooglePlaces builds a GooglePlaces client for the given API key.
func NewGooglePlaces(apiKey string) *GooglePlaces {
	return &GooglePlaces{apiKey: apiKey, http: tool.NewHTTPTool()}
}

func (g *GooglePlaces) search(ctx context.Context, query string, limit int) ([]PlaceResult, error) {
	reqURL := fmt.Sprintf(
		"https://maps.googleapis.com/maps/api/place/textsearch/json?query=%s&key=%s",
		url.QueryEscape(query), g.apiKey,
	)
	out, err := g.http.Call(ctx, map[string]interface{}{"method": "GET", "url": reqURL})
	if err != nil {
		return nil, fmt.Errorf("places text search: %w", err)
	}
	status, _ := out["status_code"].(int)
	if status != 200 {
		return nil, fmt.Errorf("places text search: status %d", status)
	}
	body, _ := out["body"].(string)

	var parsed placesTextSearchResponse
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return nil, fmt.Errorf("places text search: decoding response: %w", err)
	}

	results := make([]PlaceResult, 0, limit)
	for _, r := range parsed.Results {
		if len(results) >= limit {
			break
		}
		results = append(results, r.toPlaceResult())
	}
	return results, nil
}

// SearchAttractions finds tourist attractions in a city.
func (g *GooglePlaces) SearchAttractions(ctx context.Context, city string, limit int) ([]PlaceResult, error) {
	return g.search(ctx, "tourist attractions in "+city, limit)
}

// SearchRestaurants finds restaurants in a city.
func (g *GooglePlaces) SearchRestaurants(ctx context.Context, city string, limit int) ([]PlaceResult, error) {
	return g.search(ctx, "restaurants in "+city, limit)
}

type placesTextSearchResponse struct {
	Results []placesResultEntry `json:"results"`
}

type placesResultEntry struct {
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Rating           *float64 `json:"rating"`
	UserRatingsTotal *int     `json:"user_ratings_total"`
	PlaceID          string   `json:"place_id"`
	FormattedPhone   string   `json:"formatted_phone_number"`
	Website          string   `json:"website"`
}

func (r placesResultEntry) toPlaceResult() PlaceResult {
	pr := PlaceResult{
		Name:    r.Name,
		Address: r.FormattedAddress,
		Rating:  r.Rating,
		Phone:   r.FormattedPhone,
		Website: r.Website,
	}
	if r.UserRatingsTotal != nil {
		pr.ReviewCount = r.UserRatingsTotal
	}
	if r.PlaceID != "" {
		pr.GoogleMapsURL = "https://www.google.com/maps/place/?q=place_id:" + r.PlaceID
	}
	return pr
}
