package scrape

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/graph/tool"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/trip"
)

// httpScraper is the shared shape behind every concrete source: build a
// search URL, fetch it through the engine's HTTPTool, hand the response body
// to a source-specific parser. Each source follows the same
// fetch-one-page/parse-listing shape; a GET-and-parse HTTPTool call plays
// that role without pulling in a browser-automation dependency.
type httpScraper struct {
	source   string
	http     *tool.HTTPTool
	buildURL func(from, to, date string) string
	parse    func(body string, from, to, date string) ([]trip.ScrapedPrice, error)
}

func (s *httpScraper) Source() string { return s.source }

// FetchPrices never returns a "not found" condition as an error distinct
// from a genuine fetch failure: both are swallowed into an empty result,
// matching the original's bare `except Exception: continue` per-scraper
// fault isolation. Only a context cancellation propagates.
func (s *httpScraper) FetchPrices(ctx context.Context, from, to, date string) ([]trip.ScrapedPrice, error) {
	reqURL := s.buildURL(from, to, date)
	out, err := s.http.Call(ctx, map[string]interface{}{"method": "GET", "url": reqURL})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	status, _ := out["status_code"].(int)
	if status != 200 {
		return nil, nil
	}
	body, _ := out["body"].(string)
	prices, err := s.parse(body, from, to, date)
	if err != nil {
		return nil, nil
	}
	return prices, nil
}

// NewRome2Rio builds the rome2rio multi-modal route scraper, the baseline
// source tried for every leg regardless of region.
func NewRome2Rio() Scraper {
	return &httpScraper{
		source: SourceRome2Rio,
		http:   tool.NewHTTPTool(),
		buildURL: func(from, to, date string) string {
			return fmt.Sprintf("https://www.rome2rio.com/s/%s/%s", url.PathEscape(from), url.PathEscape(to))
		},
		parse: parseRome2Rio,
	}
}

// NewGoogleFlights builds the Google Flights scraper, added for
// international or flight-plausible legs.
func NewGoogleFlights() Scraper {
	return &httpScraper{
		source: SourceGoogleFlights,
		http:   tool.NewHTTPTool(),
		buildURL: func(from, to, date string) string {
			return fmt.Sprintf("https://www.google.com/travel/flights?q=flights+from+%s+to+%s+on+%s",
				url.QueryEscape(from), url.QueryEscape(to), url.QueryEscape(date))
		},
		parse: parseGoogleFlights,
	}
}

// NewRedBus builds the RedBus scraper, added for India-to-India legs.
func NewRedBus() Scraper {
	return &httpScraper{
		source: SourceRedBus,
		http:   tool.NewHTTPTool(),
		buildURL: func(from, to, date string) string {
			return fmt.Sprintf("https://www.redbus.in/bus-tickets/%s-to-%s", url.PathEscape(from), url.PathEscape(to))
		},
		parse: parseRedBus,
	}
}

// NewTrainman builds the Trainman scraper, added for India-to-India legs.
func NewTrainman() Scraper {
	return &httpScraper{
		source: SourceTrainman,
		http:   tool.NewHTTPTool(),
		buildURL: func(from, to, date string) string {
			return fmt.Sprintf("https://www.trainman.in/trains/%s/%s", url.PathEscape(from), url.PathEscape(to))
		},
		parse: parseTrainman,
	}
}

// NewTwelveGoAsia builds the 12go.asia scraper, added when either endpoint
// is in Southeast Asia.
func NewTwelveGoAsia() Scraper {
	return &httpScraper{
		source: SourceTwelveGoAsia,
		http:   tool.NewHTTPTool(),
		buildURL: func(from, to, date string) string {
			return fmt.Sprintf("https://12go.asia/en/travel/%s/%s", url.PathEscape(from), url.PathEscape(to))
		},
		parse: parseTwelveGoAsia,
	}
}
