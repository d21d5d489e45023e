// Package tracing wraps the two external capability boundaries — oracle
// calls and data-source calls — in OpenTelemetry spans: a span per call,
// standard attributes, and the error recorded on the span rather than
// swallowed. Neither oracle.Oracle nor workflow.PlacesSource/ScraperSource
// know about tracing; these wrappers sit between cmd/tripplanner's
// construction of Dependencies and the real adapters.
package tracing

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/datasource"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/datasource/scrape"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/oracle"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/trip"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/workflow"
)

// Oracle wraps an oracle.Oracle so every StructuredCall becomes a span
// tagged with the worker it was made on behalf of.
type Oracle struct {
	Wrapped oracle.Oracle
	Tracer  trace.Tracer
	Worker  string
}

// WrapOracle returns an oracle.Oracle that traces every call made through
// it before delegating to wrapped.
func WrapOracle(tracer trace.Tracer, worker string, wrapped oracle.Oracle) Oracle {
	return Oracle{Wrapped: wrapped, Tracer: tracer, Worker: worker}
}

func (o Oracle) StructuredCall(ctx context.Context, req oracle.StructuredRequest) (json.RawMessage, error) {
	ctx, span := o.Tracer.Start(ctx, "oracle.structured_call")
	defer span.End()
	span.SetAttributes(
		attribute.String("tripplanner.worker", o.Worker),
		attribute.Float64("tripplanner.temperature", req.Temperature),
	)

	resp, err := o.Wrapped.StructuredCall(ctx, req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return resp, err
	}
	span.SetAttributes(attribute.Int("tripplanner.response_bytes", len(resp)))
	return resp, nil
}

// Places wraps a workflow.PlacesSource so every attraction/restaurant
// lookup becomes a span tagged with the city queried and the result count.
type Places struct {
	Wrapped workflow.PlacesSource
	Tracer  trace.Tracer
}

// WrapPlaces returns a workflow.PlacesSource that traces every call made
// through it before delegating to wrapped.
func WrapPlaces(tracer trace.Tracer, wrapped workflow.PlacesSource) Places {
	return Places{Wrapped: wrapped, Tracer: tracer}
}

func (p Places) SearchAttractions(ctx context.Context, city string, limit int) ([]datasource.PlaceResult, error) {
	ctx, span := p.Tracer.Start(ctx, "places.search_attractions")
	defer span.End()
	span.SetAttributes(attribute.String("tripplanner.city", city), attribute.Int("tripplanner.limit", limit))

	results, err := p.Wrapped.SearchAttractions(ctx, city, limit)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return results, err
	}
	span.SetAttributes(attribute.Int("tripplanner.result_count", len(results)))
	return results, nil
}

func (p Places) SearchRestaurants(ctx context.Context, city string, limit int) ([]datasource.PlaceResult, error) {
	ctx, span := p.Tracer.Start(ctx, "places.search_restaurants")
	defer span.End()
	span.SetAttributes(attribute.String("tripplanner.city", city), attribute.Int("tripplanner.limit", limit))

	results, err := p.Wrapped.SearchRestaurants(ctx, city, limit)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return results, err
	}
	span.SetAttributes(attribute.Int("tripplanner.result_count", len(results)))
	return results, nil
}

// transportScraper wraps one scrape.Scraper so FetchPrices becomes a span.
type transportScraper struct {
	wrapped scrape.Scraper
	tracer  trace.Tracer
}

func (s transportScraper) Source() string { return s.wrapped.Source() }

func (s transportScraper) FetchPrices(ctx context.Context, from, to, date string) ([]trip.ScrapedPrice, error) {
	ctx, span := s.tracer.Start(ctx, "scraper.fetch_prices")
	defer span.End()
	span.SetAttributes(
		attribute.String("tripplanner.source", s.wrapped.Source()),
		attribute.String("tripplanner.from", from),
		attribute.String("tripplanner.to", to),
	)

	prices, err := s.wrapped.FetchPrices(ctx, from, to, date)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return prices, err
	}
	span.SetAttributes(attribute.Int("tripplanner.price_count", len(prices)))
	return prices, nil
}

// reviewScraper wraps one scrape.ReviewScraper so FetchReviews becomes a span.
type reviewScraper struct {
	wrapped scrape.ReviewScraper
	tracer  trace.Tracer
}

func (s reviewScraper) Source() string { return s.wrapped.Source() }

func (s reviewScraper) FetchReviews(ctx context.Context, city, restaurant string) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "scraper.fetch_reviews")
	defer span.End()
	span.SetAttributes(
		attribute.String("tripplanner.source", s.wrapped.Source()),
		attribute.String("tripplanner.city", city),
		attribute.String("tripplanner.restaurant", restaurant),
	)

	reviews, err := s.wrapped.FetchReviews(ctx, city, restaurant)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return reviews, err
	}
	span.SetAttributes(attribute.Int("tripplanner.review_count", len(reviews)))
	return reviews, nil
}

// ScraperSource wraps a workflow.ScraperSource, tracing every scraper it
// hands out rather than the registries themselves.
type ScraperSource struct {
	Wrapped workflow.ScraperSource
	Tracer  trace.Tracer
}

// WrapScraperSource returns a workflow.ScraperSource whose registries yield
// traced scrapers.
func WrapScraperSource(tracer trace.Tracer, wrapped workflow.ScraperSource) ScraperSource {
	return ScraperSource{Wrapped: wrapped, Tracer: tracer}
}

func (s ScraperSource) TransportScrapers() map[string]scrape.Scraper {
	src := s.Wrapped.TransportScrapers()
	out := make(map[string]scrape.Scraper, len(src))
	for key, sc := range src {
		out[key] = transportScraper{wrapped: sc, tracer: s.Tracer}
	}
	return out
}

func (s ScraperSource) ReviewScrapers() map[string]scrape.ReviewScraper {
	src := s.Wrapped.ReviewScrapers()
	out := make(map[string]scrape.ReviewScraper, len(src))
	for key, sc := range src {
		out[key] = reviewScraper{wrapped: sc, tracer: s.Tracer}
	}
	return out
}
