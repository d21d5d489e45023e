package scrape

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/trip"
)

// priceRe matches a currency symbol followed by a number, e.g. "$123",
// "₹1,250", "€45.50" — the common shape across every source's listing page.
var priceRe = regexp.MustCompile(`[$₹€£]\s?([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)

// extractPrices finds every price-looking token in a page body and parses
// it to a float64, skipping tokens that don't parse cleanly.
func extractPrices(body string) []float64 {
	matches := priceRe.FindAllStringSubmatch(body, -1)
	prices := make([]float64, 0, len(matches))
	for _, m := range matches {
		clean := strings.ReplaceAll(m[1], ",", "")
		if v, err := strconv.ParseFloat(clean, 64); err == nil {
			prices = append(prices, v)
		}
	}
	return prices
}

func buildScrapedPrice(source, mode, from, to, date string, priceUSD float64) trip.ScrapedPrice {
	p := priceUSD
	return trip.ScrapedPrice{
		Source:       source,
		Mode:         mode,
		FromLocation: from,
		ToLocation:   to,
		TravelDate:   date,
		PriceUSD:     &p,
	}
}

// parseRome2Rio extracts the cheapest quoted fare per mode from a rome2rio
// results page; rome2rio aggregates flight/train/bus/car options on one
// page, so its normalizer (unlike the single-mode sources) yields up to one
// result per mode found.
func parseRome2Rio(body, from, to, date string) ([]trip.ScrapedPrice, error) {
	prices := extractPrices(body)
	if len(prices) == 0 {
		return nil, nil
	}
	modes := []string{"flight", "train", "bus"}
	out := make([]trip.ScrapedPrice, 0, len(modes))
	for i, mode := range modes {
		if i >= len(prices) {
			break
		}
		out = append(out, buildScrapedPrice(SourceRome2Rio, mode, from, to, date, prices[i]))
	}
	return out, nil
}

func parseGoogleFlights(body, from, to, date string) ([]trip.ScrapedPrice, error) {
	prices := extractPrices(body)
	if len(prices) == 0 {
		return nil, nil
	}
	return []trip.ScrapedPrice{buildScrapedPrice(SourceGoogleFlights, "flight", from, to, date, prices[0])}, nil
}

func parseRedBus(body, from, to, date string) ([]trip.ScrapedPrice, error) {
	prices := extractPrices(body)
	if len(prices) == 0 {
		return nil, nil
	}
	return []trip.ScrapedPrice{buildScrapedPrice(SourceRedBus, "bus", from, to, date, prices[0])}, nil
}

func parseTrainman(body, from, to, date string) ([]trip.ScrapedPrice, error) {
	prices := extractPrices(body)
	if len(prices) == 0 {
		return nil, nil
	}
	return []trip.ScrapedPrice{buildScrapedPrice(SourceTrainman, "train", from, to, date, prices[0])}, nil
}

func parseTwelveGoAsia(body, from, to, date string) ([]trip.ScrapedPrice, error) {
	prices := extractPrices(body)
	if len(prices) == 0 {
		return nil, nil
	}
	modes := []string{"bus", "ferry", "train"}
	out := make([]trip.ScrapedPrice, 0, len(modes))
	for i, mode := range modes {
		if i >= len(prices) {
			break
		}
		out = append(out, buildScrapedPrice(SourceTwelveGoAsia, mode, from, to, date, prices[i]))
	}
	return out, nil
}
