package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/cache"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/datasource"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/graph"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/oracle"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/trip"
)

// maxAttractionsPerCity caps per-city attraction gathering regardless of
// trip length, the same ceiling the original applied alongside its
// days*4 target.
const maxAttractionsPerCity = 10

// ResearchNode gathers attractions for every city in the itinerary. Cities
// are researched concurrently, bounded by FanoutCap, the same pattern the
// price scraper uses for segments: a counting semaphore plus a WaitGroup,
// not the engine's own graph-level concurrency. Attraction listings are
// cached per city with cache.AttractionTTL, so a replan or a later session
// asking about the same city doesn't re-hit Places.
type ResearchNode struct {
	Oracle    oracle.Oracle
	Places    PlacesSource
	Cache     cache.Cache
	FanoutCap int
}

type cityResearchResult struct {
	city        string
	attractions []trip.Attraction
	source      string
	err         error
}

func (n *ResearchNode) Run(ctx context.Context, s trip.State) graph.NodeResult[trip.State] {
	cities := s.CityAllocations
	if len(cities) == 0 {
		return graph.NodeResult[trip.State]{Err: trip.NewError(trip.KindInputInvalid, "research", fmt.Errorf("no cities to research"))}
	}

	fanoutCap := n.FanoutCap
	if fanoutCap <= 0 {
		fanoutCap = 4
	}
	sem := make(chan struct{}, fanoutCap)
	var wg sync.WaitGroup
	results := make([]cityResearchResult, len(cities))

	for i, city := range cities {
		i, city := i, city
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = n.researchCity(ctx, city)
		}()
	}
	wg.Wait()

	var allAttractions []trip.Attraction
	var sources []string
	var messages []trip.Message
	for _, r := range results {
		if r.err != nil {
			messages = append(messages, trip.Message{Role: "error", Text: fmt.Sprintf("research: %s failed: %v", r.city, r.err)})
			continue
		}
		allAttractions = append(allAttractions, r.attractions...)
		if r.source != "" {
			sources = append(sources, r.source)
		}
	}
	if len(allAttractions) == 0 {
		return graph.NodeResult[trip.State]{Err: trip.NewError(trip.KindSourceFailure, "research", fmt.Errorf("no attractions found for any city"))}
	}

	messages = append(messages, trip.Message{Role: "node", Text: fmt.Sprintf("research: gathered %d attractions across %d cities", len(allAttractions), len(cities))})

	return graph.NodeResult[trip.State]{
		Delta: trip.State{
			Attractions:    allAttractions,
			SourcesBrowsed: sources,
			Messages:       messages,
		},
		Route: graph.Goto("food_culture"),
	}
}

var researchSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"attractions": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name":                     map[string]interface{}{"type": "string"},
					"description":              map[string]interface{}{"type": "string"},
					"category":                 map[string]interface{}{"type": "string"},
					"estimated_duration_hours": map[string]interface{}{"type": "number"},
					"opening_hours":            map[string]interface{}{"type": "string"},
					"booking_required":         map[string]interface{}{"type": "boolean"},
					"tips":                     map[string]interface{}{"type": "string"},
				},
				"required": []string{"name", "category"},
			},
		},
	},
	"required": []string{"attractions"},
}

type researchResponse struct {
	Attractions []trip.Attraction `json:"attractions"`
}

// researchCity queries the Places capability, then asks the oracle to
// structure/enrich the raw results (description, category, duration)
// the same way the original combined Places API data with an LLM
// structuring pass. If Places returns fewer than half the target count,
// this is recorded as a thin result via the "google_places_thin" source tag;
// no secondary browser scraper exists in this codebase for open-ended
// attraction discovery (unlike the price scrapers, which target a small
// fixed set of transport sites), so unlike the original there is no
// browser-tool fallback here — see DESIGN.md.
func (n *ResearchNode) researchCity(ctx context.Context, city trip.CityAllocation) cityResearchResult {
	target := city.Days * 4
	if target > maxAttractionsPerCity {
		target = maxAttractionsPerCity
	}
	if target <= 0 {
		target = 4
	}

	places, err := n.lookupAttractions(ctx, city.City, target)
	if err != nil {
		return cityResearchResult{city: city.City, err: err}
	}

	source := "google_places"
	if len(places) < target/2 {
		source = "google_places_thin"
	}

	raw, err := n.Oracle.StructuredCall(ctx, oracle.StructuredRequest{
		SystemPrompt: "You structure raw place listings into itinerary-ready attraction entries with category, duration estimate, and a visitor tip.",
		UserPrompt:   fmt.Sprintf("City: %s\nRaw places: %v", city.City, placeNames(places)),
		Schema:       researchSchema,
	})
	if err != nil {
		return cityResearchResult{city: city.City, err: err}
	}
	var resp researchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return cityResearchResult{city: city.City, err: err}
	}

	byName := make(map[string]int, len(places))
	for i, p := range places {
		byName[p.Name] = i
	}
	attractions := make([]trip.Attraction, 0, len(resp.Attractions))
	for _, a := range resp.Attractions {
		a.City = city.City
		if idx, ok := byName[a.Name]; ok {
			p := places[idx]
			a.Address = p.Address
			a.Rating = p.Rating
			a.ReviewCount = p.ReviewCount
			a.PhotoURLs = p.PhotoURLs
			a.GoogleMapsURL = p.GoogleMapsURL
			a.Website = p.Website
			a.Phone = p.Phone
			a.ReviewHighlights = p.ReviewHighlights
		}
		attractions = append(attractions, a)
	}

	return cityResearchResult{city: city.City, attractions: attractions, source: source}
}

// lookupAttractions serves an attraction listing from the cache when a
// prior query for this city hasn't expired, falling back to Places and
// populating the cache on miss.
func (n *ResearchNode) lookupAttractions(ctx context.Context, city string, limit int) ([]datasource.PlaceResult, error) {
	key := cache.AttractionKey(city)
	if cached, ok := n.Cache.Get(key); ok {
		var places []datasource.PlaceResult
		if err := json.Unmarshal(cached, &places); err == nil {
			return places, nil
		}
	}

	places, err := n.Places.SearchAttractions(ctx, city, limit)
	if err != nil {
		return nil, err
	}
	if encoded, err := json.Marshal(places); err == nil {
		n.Cache.Set(key, encoded, cache.AttractionTTL)
	}
	return places, nil
}

func placeNames(places []datasource.PlaceResult) []string {
	names := make([]string, len(places))
	for i, p := range places {
		names[i] = p.Name
	}
	return names
}
