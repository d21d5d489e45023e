package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/cache"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/datasource/scrape"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/graph"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/trip"
)

// PriceScraperNode quotes real transport prices for every route segment by
// fanning out across the per-source scrapers SelectScrapers picks for that
// leg, bounded by FanoutCap the same way ResearchNode bounds per-city
// fan-out. Quotes are cached by source/route/date with the cache package's
// tiered TTLs, so a replan that revisits the same segment doesn't re-hit the
// scraper sources.
type PriceScraperNode struct {
	Scrapers  ScraperSource
	Cache     cache.Cache
	FanoutCap int
}

type segmentPriceResult struct {
	segment trip.RouteSegment
	prices  []trip.ScrapedPrice
	err     error
}

func (n *PriceScraperNode) Run(ctx context.Context, s trip.State) graph.NodeResult[trip.State] {
	if len(s.RouteSegments) == 0 {
		return graph.NodeResult[trip.State]{Err: trip.NewError(trip.KindInputInvalid, "price_scraper", fmt.Errorf("no route segments to price"))}
	}

	fanoutCap := n.FanoutCap
	if fanoutCap <= 0 {
		fanoutCap = 4
	}
	sem := make(chan struct{}, fanoutCap)
	var wg sync.WaitGroup
	results := make([]segmentPriceResult, len(s.RouteSegments))

	baseDate := ""
	if s.TravelStartDate != nil {
		baseDate = *s.TravelStartDate
	}
	elapsed := 0

	for i, seg := range s.RouteSegments {
		i, seg := i, seg
		date := segmentTravelDate(baseDate, elapsed)
		if i < len(s.CityAllocations) {
			elapsed += s.CityAllocations[i].Days
		}
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = n.priceSegment(ctx, seg, date)
		}()
	}
	wg.Wait()

	var allPrices []trip.ScrapedPrice
	var messages []trip.Message
	for _, r := range results {
		if r.err != nil {
			messages = append(messages, trip.Message{Role: "error", Text: fmt.Sprintf("price_scraper: %s to %s failed: %v", r.segment.FromCity, r.segment.ToCity, r.err)})
			continue
		}
		allPrices = append(allPrices, r.prices...)
	}

	messages = append(messages, trip.Message{Role: "node", Text: fmt.Sprintf("price_scraper: collected %d price quotes across %d segments", len(allPrices), len(s.RouteSegments))})

	return graph.NodeResult[trip.State]{
		Delta: trip.State{
			ScrapedPrices: allPrices,
			Messages:      messages,
		},
		Route: graph.Goto("transport_budget"),
	}
}

func (n *PriceScraperNode) priceSegment(ctx context.Context, seg trip.RouteSegment, date string) segmentPriceResult {
	international := seg.RecommendedMode == trip.ModeFlight
	scrapers := scrape.SelectScrapers(seg.FromCity, seg.ToCity, international, n.Scrapers.TransportScrapers())
	if len(scrapers) == 0 {
		return segmentPriceResult{segment: seg}
	}

	var prices []trip.ScrapedPrice
	for _, scraper := range scrapers {
		key := cache.TransportPriceKey(scraper.Source(), seg.FromCity, seg.ToCity, date)
		if cached, ok := n.Cache.Get(key); ok {
			decoded, err := decodeScrapedPrices(cached)
			if err == nil {
				prices = append(prices, decoded...)
				continue
			}
		}

		quotes, err := scraper.FetchPrices(ctx, seg.FromCity, seg.ToCity, date)
		if err != nil {
			if ctx.Err() != nil {
				return segmentPriceResult{segment: seg, err: ctx.Err()}
			}
			continue
		}
		if len(quotes) == 0 {
			continue
		}
		ttl := cache.TransportTTL(seg.FromCity, seg.ToCity)
		if encoded, err := encodeScrapedPrices(quotes); err == nil {
			n.Cache.Set(key, encoded, ttl)
		}
		prices = append(prices, quotes...)
	}

	return segmentPriceResult{segment: seg, prices: prices}
}

func encodeScrapedPrices(prices []trip.ScrapedPrice) ([]byte, error) {
	return json.Marshal(prices)
}

func decodeScrapedPrices(data []byte) ([]trip.ScrapedPrice, error) {
	var prices []trip.ScrapedPrice
	if err := json.Unmarshal(data, &prices); err != nil {
		return nil, err
	}
	return prices, nil
}

// segmentTravelDate offsets the base travel date by the cumulative days
// spent in prior cities, so later legs aren't all quoted against day one.
func segmentTravelDate(base string, daysElapsed int) string {
	if base == "" || daysElapsed == 0 {
		return base
	}
	t, err := time.Parse("2006-01-02", base)
	if err != nil {
		return base
	}
	return t.AddDate(0, 0, daysElapsed).Format("2006-01-02")
}
