// Package scrape provides per-source transport-price lookups, selected by
// route geography the way the original transport scraper chose which
// browser-automation sources to try for a given leg.
package scrape

import (
	"context"
	"strings"

	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/trip"
)

// Source names for the transport-price scrapers registered by the default
// scraper source.
const (
	SourceGoogleFlights = "google_flights"
	SourceRome2Rio      = "rome2rio"
	SourceRedBus        = "redbus"
	SourceTrainman      = "trainman"
	SourceTwelveGoAsia  = "12go_asia"
	SourceZomato        = "zomato"
	SourceSwiggy        = "swiggy"
)

// Scraper fetches price quotes for one transport leg from one source.
type Scraper interface {
	Source() string
	FetchPrices(ctx context.Context, from, to, date string) ([]trip.ScrapedPrice, error)
}

// ReviewScraper fetches restaurant review data from one source (used only
// by the India-specific food delivery platforms).
type ReviewScraper interface {
	Source() string
	FetchReviews(ctx context.Context, city, restaurant string) ([]string, error)
}

// indiaCities and asiaCountries mirror the original's region sets used to
// decide which scrapers are worth trying for a given route.
var indiaCities = map[string]struct{}{
	"delhi": {}, "mumbai": {}, "bangalore": {}, "bengaluru": {}, "chennai": {},
	"kolkata": {}, "hyderabad": {}, "pune": {}, "goa": {}, "jaipur": {},
	"agra": {}, "varanasi": {}, "kochi": {}, "udaipur": {}, "amritsar": {},
}

var asiaCountries = map[string]struct{}{
	"thailand": {}, "vietnam": {}, "cambodia": {}, "laos": {}, "malaysia": {},
	"singapore": {}, "indonesia": {}, "philippines": {}, "myanmar": {},
}

func isIndiaCity(city string) bool {
	_, ok := indiaCities[strings.ToLower(strings.TrimSpace(city))]
	return ok
}

func isAsiaRegion(cityOrCountry string) bool {
	_, ok := asiaCountries[strings.ToLower(strings.TrimSpace(cityOrCountry))]
	return ok
}

// SelectScrapers picks which price scrapers to try for a leg: rome2rio is
// always tried as a baseline; google_flights is added for international or
// flight-plausible legs; redbus/trainman are added for India-to-India legs;
// 12go_asia is added when either endpoint is in Southeast Asia.
func SelectScrapers(from, to string, international bool, registry map[string]Scraper) []Scraper {
	selected := make([]Scraper, 0, 4)
	if s, ok := registry[SourceRome2Rio]; ok {
		selected = append(selected, s)
	}
	if international {
		if s, ok := registry[SourceGoogleFlights]; ok {
			selected = append(selected, s)
		}
	}
	if isIndiaCity(from) && isIndiaCity(to) {
		if s, ok := registry[SourceRedBus]; ok {
			selected = append(selected, s)
		}
		if s, ok := registry[SourceTrainman]; ok {
			selected = append(selected, s)
		}
	}
	if isAsiaRegion(from) || isAsiaRegion(to) {
		if s, ok := registry[SourceTwelveGoAsia]; ok {
			selected = append(selected, s)
		}
	}
	return selected
}

// SelectReviewScrapers picks which restaurant-review sources to try for a
// city: Zomato and Swiggy only cover India.
func SelectReviewScrapers(city string, registry map[string]ReviewScraper) []ReviewScraper {
	if !isIndiaCity(city) {
		return nil
	}
	selected := make([]ReviewScraper, 0, 2)
	if s, ok := registry[SourceZomato]; ok {
		selected = append(selected, s)
	}
	if s, ok := registry[SourceSwiggy]; ok {
		selected = append(selected, s)
	}
	return selected
}
