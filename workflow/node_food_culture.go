package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/cache"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/datasource"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/datasource/scrape"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/graph"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/oracle"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/trip"
)

// FoodCultureNode recommends meals per city and surfaces cultural dos/
// don'ts/tips. Restaurant reviews come from Google Places always, and from
// Zomato/Swiggy additionally when the city is in India. Scraped review
// highlights are cached per source/city/restaurant with
// cache.RestaurantReviewTTL.
type FoodCultureNode struct {
	Oracle   oracle.Oracle
	Places   PlacesSource
	Scrapers ScraperSource
	Cache    cache.Cache
}

var foodCultureSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"meals": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"meal_type":       map[string]interface{}{"type": "string"},
					"restaurant_name": map[string]interface{}{"type": "string"},
					"cuisine_type":    map[string]interface{}{"type": "string"},
					"must_try_dishes": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
					"dietary_notes":   map[string]interface{}{"type": "string"},
				},
				"required": []string{"meal_type", "cuisine_type"},
			},
		},
		"cultural_dos":   map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
		"cultural_donts": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
		"cultural_tips":  map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
	},
	"required": []string{"meals"},
}

type foodCultureResponse struct {
	Meals         []trip.Meal `json:"meals"`
	CulturalDos   []string    `json:"cultural_dos"`
	CulturalDonts []string    `json:"cultural_donts"`
	CulturalTips  []string    `json:"cultural_tips"`
}

func (n *FoodCultureNode) Run(ctx context.Context, s trip.State) graph.NodeResult[trip.State] {
	var allMeals []trip.Meal
	var dos, donts, tips []string
	var messages []trip.Message

	for _, city := range s.CityAllocations {
		restaurants, err := n.Places.SearchRestaurants(ctx, city.City, 10)
		if err != nil {
			messages = append(messages, trip.Message{Role: "error", Text: fmt.Sprintf("food_culture: places lookup failed for %s: %v", city.City, err)})
			restaurants = nil
		}

		reviewsByRestaurant := n.scrapeReviews(ctx, city.City, restaurants)

		raw, err := n.Oracle.StructuredCall(ctx, oracle.StructuredRequest{
			SystemPrompt: "You recommend breakfast, lunch, and dinner options for a city, plus local cultural etiquette.",
			UserPrompt: fmt.Sprintf("City: %s, dietary restrictions: %s\nKnown restaurants: %s\nDietary restrictions must be respected.",
				city.City, strings.Join(s.DietaryRestrictions, ", "), strings.Join(restaurantNames(restaurants), ", ")),
			Schema: foodCultureSchema,
		})
		if err != nil {
			messages = append(messages, trip.Message{Role: "error", Text: fmt.Sprintf("food_culture: oracle failed for %s: %v", city.City, err)})
			continue
		}
		var resp foodCultureResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			messages = append(messages, trip.Message{Role: "error", Text: fmt.Sprintf("food_culture: decoding result for %s: %v", city.City, err)})
			continue
		}

		for _, meal := range resp.Meals {
			meal.City = city.City
			if match := findMatchingReview(meal.RestaurantName, restaurants); match != nil {
				meal.Rating = match.Rating
				meal.ReviewCount = match.ReviewCount
				meal.Address = match.Address
				meal.GoogleMapsURL = match.GoogleMapsURL
				meal.Website = match.Website
				meal.Phone = match.Phone
			}
			if highlights, ok := reviewsByRestaurant[meal.RestaurantName]; ok {
				meal.ReviewHighlights = highlights
				meal.ReviewSource = "zomato_swiggy"
			}
			allMeals = append(allMeals, meal)
		}
		dos = append(dos, resp.CulturalDos...)
		donts = append(donts, resp.CulturalDonts...)
		tips = append(tips, resp.CulturalTips...)
	}

	messages = append(messages, trip.Message{Role: "node", Text: fmt.Sprintf("food_culture: recommended %d meals", len(allMeals))})

	return graph.NodeResult[trip.State]{
		Delta: trip.State{
			Meals:         allMeals,
			CulturalDos:   dos,
			CulturalDonts: donts,
			CulturalTips:  tips,
			Messages:      messages,
		},
		Route: graph.Goto("price_scraper"),
	}
}

func restaurantNames(places []datasource.PlaceResult) []string {
	names := make([]string, len(places))
	for i, p := range places {
		names[i] = p.Name
	}
	return names
}

// findMatchingReview matches an oracle-recommended restaurant name against
// scraped Places results: exact match first, then a substring/contains
// match, mirroring the original's exact-then-partial matching strategy.
func findMatchingReview(name string, places []datasource.PlaceResult) *datasource.PlaceResult {
	if name == "" {
		return nil
	}
	lname := strings.ToLower(name)
	for i, p := range places {
		if strings.ToLower(p.Name) == lname {
			return &places[i]
		}
	}
	for i, p := range places {
		pl := strings.ToLower(p.Name)
		if strings.Contains(pl, lname) || strings.Contains(lname, pl) {
			return &places[i]
		}
	}
	return wordOverlapMatch(lname, places)
}

// wordOverlapMatch is the original's last-resort matcher: a restaurant
// whose name contains at least half of the recommended name's words.
func wordOverlapMatch(lname string, places []datasource.PlaceResult) *datasource.PlaceResult {
	nameWords := strings.Fields(lname)
	if len(nameWords) == 0 {
		return nil
	}
	for i, p := range places {
		placeWords := strings.Fields(strings.ToLower(p.Name))
		overlap := 0
		for _, w := range nameWords {
			for _, pw := range placeWords {
				if w == pw {
					overlap++
					break
				}
			}
		}
		if float64(overlap)/float64(len(nameWords)) >= 0.5 {
			return &places[i]
		}
	}
	return nil
}

func (n *FoodCultureNode) scrapeReviews(ctx context.Context, city string, restaurants []datasource.PlaceResult) map[string][]string {
	reviews := make(map[string][]string)
	scrapers := scrape.SelectReviewScrapers(city, n.Scrapers.ReviewScrapers())
	if len(scrapers) == 0 {
		return reviews
	}
	for _, r := range restaurants {
		for _, scraper := range scrapers {
			highlights, err := n.lookupReviews(ctx, scraper, city, r.Name)
			if err != nil || len(highlights) == 0 {
				continue
			}
			reviews[r.Name] = append(reviews[r.Name], highlights...)
		}
	}
	return reviews
}

// lookupReviews serves a scraped review set from the cache when a prior
// fetch for this source/city/restaurant hasn't expired, falling back to the
// scraper and populating the cache on miss.
func (n *FoodCultureNode) lookupReviews(ctx context.Context, scraper scrape.ReviewScraper, city, restaurant string) ([]string, error) {
	key := cache.RestaurantReviewKey(scraper.Source(), city, restaurant)
	if cached, ok := n.Cache.Get(key); ok {
		var highlights []string
		if err := json.Unmarshal(cached, &highlights); err == nil {
			return highlights, nil
		}
	}

	highlights, err := scraper.FetchReviews(ctx, city, restaurant)
	if err != nil {
		return nil, err
	}
	if encoded, err := json.Marshal(highlights); err == nil {
		n.Cache.Set(key, encoded, cache.RestaurantReviewTTL)
	}
	return highlights, nil
}
