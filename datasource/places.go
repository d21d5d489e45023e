// Package datasource holds the external data-gathering capabilities the
// research, food_culture, and price_scraper workers consult: a places
// lookup and a set of per-source transport/restaurant price scrapers. Both
// are built on the engine's graph/tool.Tool abstraction rather than a new
// HTTP client convention.
package datasource

import "context"

// PlaceResult is a single place returned by a Places lookup, trimmed to the
// fields the research and food_culture workers actually consume. Workers
// translate this into a trip.Attraction or trip.Meal, enriching with the
// fields the original marked optional ("only set if present").
type PlaceResult struct {
	Name             string
	Address          string
	Rating           *float64
	ReviewCount      *int
	PhotoURLs        []string
	GoogleMapsURL    string
	Website          string
	Phone            string
	ReviewHighlights []string
}

// Places is the Google Places API capability: attraction and restaurant
// lookups by city.
type Places interface {
	SearchAttractions(ctx context.Context, city string, limit int) ([]PlaceResult, error)
	SearchRestaurants(ctx context.Context, city string, limit int) ([]PlaceResult, error)
}
