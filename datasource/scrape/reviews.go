package scrape

import (
	"context"
	"fmt"
	"net/url"
	"regexp"

	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/graph/tool"
)

type httpReviewScraper struct {
	source   string
	http     *tool.HTTPTool
	buildURL func(city, restaurant string) string
}

func (s *httpReviewScraper) Source() string { return s.source }

var reviewSentenceRe = regexp.MustCompile(`"([^"]{20,140})"`)

// FetchReviews swallows fetch/parse failures into an empty result, the same
// per-source fault isolation as FetchPrices: one dead source never blocks
// the others from contributing review highlights.
func (s *httpReviewScraper) FetchReviews(ctx context.Context, city, restaurant string) ([]string, error) {
	reqURL := s.buildURL(city, restaurant)
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
	matches := reviewSentenceRe.FindAllStringSubmatch(body, 5)
	highlights := make([]string, 0, len(matches))
	for _, m := range matches {
		highlights = append(highlights, m[1])
	}
	return highlights, nil
}

// NewZomato builds the Zomato review scraper, tried only for India cities.
func NewZomato() ReviewScraper {
	return &httpReviewScraper{
		source: SourceZomato,
		http:   tool.NewHTTPTool(),
		buildURL: func(city, restaurant string) string {
			return fmt.Sprintf("https://www.zomato.com/%s/%s", url.PathEscape(city), url.PathEscape(restaurant))
		},
	}
}

// NewSwiggy builds the Swiggy review scraper, tried only for India cities.
func NewSwiggy() ReviewScraper {
	return &httpReviewScraper{
		source: SourceSwiggy,
		http:   tool.NewHTTPTool(),
		buildURL: func(city, restaurant string) string {
			return fmt.Sprintf("https://www.swiggy.com/city/%s/%s", url.PathEscape(city), url.PathEscape(restaurant))
		},
	}
}
