package workflow

import (
	"context"

	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/datasource"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/datasource/scrape"
)

// PlacesSource is the subset of datasource.Places the workers depend on;
// declared locally so workflow depends on an interface it owns rather than
// forcing every test double to implement datasource.Places in full.
type PlacesSource interface {
	SearchAttractions(ctx context.Context, city string, limit int) ([]datasource.PlaceResult, error)
	SearchRestaurants(ctx context.Context, city string, limit int) ([]datasource.PlaceResult, error)
}

// ScraperSource exposes the registries the price scraper and food_culture
// nodes select from by region.
type ScraperSource interface {
	TransportScrapers() map[string]scrape.Scraper
	ReviewScrapers() map[string]scrape.ReviewScraper
}

// StaticScraperSource is a ScraperSource backed by fixed registries, built
// once at startup from the concrete per-source scrapers in datasource/scrape.
type StaticScraperSource struct {
	Transport map[string]scrape.Scraper
	Review    map[string]scrape.ReviewScraper
}

func (s StaticScraperSource) TransportScrapers() map[string]scrape.Scraper       { return s.Transport }
func (s StaticScraperSource) ReviewScrapers() map[string]scrape.ReviewScraper    { return s.Review }

// NewDefaultScraperSource registers every scraper implementation this repo
// ships.
func NewDefaultScraperSource() StaticScraperSource {
	return StaticScraperSource{
		Transport: map[string]scrape.Scraper{
			scrape.SourceRome2Rio:      scrape.NewRome2Rio(),
			scrape.SourceGoogleFlights: scrape.NewGoogleFlights(),
			scrape.SourceRedBus:        scrape.NewRedBus(),
			scrape.SourceTrainman:      scrape.NewTrainman(),
			scrape.SourceTwelveGoAsia:  scrape.NewTwelveGoAsia(),
		},
		Review: map[string]scrape.ReviewScraper{
			scrape.SourceZomato: scrape.NewZomato(),
			scrape.SourceSwiggy: scrape.NewSwiggy(),
		},
	}
}

