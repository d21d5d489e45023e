package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/graph"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/oracle"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/trip"
)

// TransportBudgetNode turns the geography segments and scraped prices into
// per-segment transport recommendations plus an overall cost estimate.
// Where a real scraped quote exists for a segment, it's attached and used
// to anchor the recommended leg's cost; otherwise the oracle's own estimate
// stands as-is, mirroring the original's "prefer real data, fall back to
// the model's estimate" rule.
type TransportBudgetNode struct {
	Oracle oracle.Oracle
}

var transportBudgetSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"transport_options": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"from_location": map[string]interface{}{"type": "string"},
					"to_location":   map[string]interface{}{"type": "string"},
					"recommended": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"mode":               map[string]interface{}{"type": "string"},
							"duration_hours":     map[string]interface{}{"type": "number"},
							"estimated_cost_usd": map[string]interface{}{"type": "number"},
							"notes":              map[string]interface{}{"type": "string"},
						},
					},
					"reason": map[string]interface{}{"type": "string"},
				},
				"required": []string{"from_location", "to_location", "recommended"},
			},
		},
		"budget_breakdown": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"transport_inter_city":    map[string]interface{}{"type": "number"},
				"transport_local":         map[string]interface{}{"type": "number"},
				"accommodation":           map[string]interface{}{"type": "number"},
				"food":                    map[string]interface{}{"type": "number"},
				"activities_entrance_fees": map[string]interface{}{"type": "number"},
				"miscellaneous":           map[string]interface{}{"type": "number"},
				"total":                   map[string]interface{}{"type": "number"},
				"currency":                map[string]interface{}{"type": "string"},
				"notes":                   map[string]interface{}{"type": "string"},
				"money_saving_tips":       map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
				"booking_tips":            map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
			},
		},
	},
	"required": []string{"transport_options", "budget_breakdown"},
}

type transportBudgetResponse struct {
	TransportOptions []trip.TransportOption `json:"transport_options"`
	BudgetBreakdown  trip.BudgetBreakdown   `json:"budget_breakdown"`
}

func (n *TransportBudgetNode) Run(ctx context.Context, s trip.State) graph.NodeResult[trip.State] {
	prompt := buildTransportBudgetPrompt(s)
	raw, err := n.Oracle.StructuredCall(ctx, oracle.StructuredRequest{
		SystemPrompt: "You recommend a transport mode per segment and produce a whole-trip budget breakdown in USD.",
		UserPrompt:   prompt,
		Schema:       transportBudgetSchema,
	})
	if err != nil {
		return graph.NodeResult[trip.State]{Err: trip.NewError(trip.KindOracleFailure, "transport_budget", err)}
	}

	var resp transportBudgetResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return graph.NodeResult[trip.State]{Err: trip.NewError(trip.KindOracleFailure, "transport_budget", err)}
	}

	options := make([]trip.TransportOption, 0, len(resp.TransportOptions))
	for _, opt := range resp.TransportOptions {
		matches := findScrapedPricesForSegment(s.ScrapedPrices, opt.FromLocation, opt.ToLocation)
		if best := getBestRealPrice(matches); best != nil {
			opt.RealPrice = best
			if best.PriceUSD != nil {
				opt.Recommended.EstimatedCostUSD = *best.PriceUSD
			}
			opt.CheaperDates = getCheaperDates(matches, opt.Recommended.EstimatedCostUSD)
		}
		options = append(options, opt)
	}

	breakdown := resp.BudgetBreakdown
	if breakdown.Currency == "" {
		breakdown.Currency = "USD"
	}

	delta := trip.State{
		TransportOptions: options,
		BudgetBreakdown:  &breakdown,
		Messages:         []trip.Message{{Role: "node", Text: fmt.Sprintf("transport_budget: priced %d segments, total budget $%.0f", len(options), breakdown.Total)}},
	}

	return graph.NodeResult[trip.State]{Delta: delta, Route: graph.Goto("critic")}
}

// findScrapedPricesForSegment matches scraped quotes to a segment by
// case-insensitive substring match on both endpoints, the same loose
// matching the original used since scraped location names rarely match
// the planner's city names exactly ("Mumbai" vs "Mumbai CSMT Station").
func findScrapedPricesForSegment(prices []trip.ScrapedPrice, from, to string) []trip.ScrapedPrice {
	lf, lt := strings.ToLower(from), strings.ToLower(to)
	var matches []trip.ScrapedPrice
	for _, p := range prices {
		pf, pt := strings.ToLower(p.FromLocation), strings.ToLower(p.ToLocation)
		if (strings.Contains(pf, lf) || strings.Contains(lf, pf)) &&
			(strings.Contains(pt, lt) || strings.Contains(lt, pt)) {
			matches = append(matches, p)
		}
	}
	return matches
}

// getBestRealPrice picks the minimum-priced quote among matches, ignoring
// entries with no price at all.
func getBestRealPrice(matches []trip.ScrapedPrice) *trip.ScrapedPrice {
	var best *trip.ScrapedPrice
	for i := range matches {
		if matches[i].PriceUSD == nil {
			continue
		}
		if best == nil || *matches[i].PriceUSD < *best.PriceUSD {
			best = &matches[i]
		}
	}
	return best
}

// getCheaperDates collects every alternative date priced below the chosen
// fare, sorted ascending by price and capped at 3, mirroring the original's
// top-3 "cheaper dates" surfacing.
func getCheaperDates(matches []trip.ScrapedPrice, currentPrice float64) []trip.AlternativeDate {
	var cheaper []trip.AlternativeDate
	for _, m := range matches {
		for _, alt := range m.AlternativeDates {
			if alt.PriceUSD < currentPrice {
				cheaper = append(cheaper, alt)
			}
		}
	}
	sort.Slice(cheaper, func(i, j int) bool { return cheaper[i].PriceUSD < cheaper[j].PriceUSD })
	if len(cheaper) > 3 {
		cheaper = cheaper[:3]
	}
	return cheaper
}

func buildTransportBudgetPrompt(s trip.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Budget level: %s, travelers: %d\n", s.BudgetLevel, s.TravelersCount)
	b.WriteString("Route segments:\n")
	for _, seg := range s.RouteSegments {
		fmt.Fprintf(&b, "- %s to %s: %.0fkm, %.1fh, mode %s\n", seg.FromCity, seg.ToCity, seg.DistanceKM, seg.TravelTimeHours, seg.RecommendedMode)
	}
	if len(s.ScrapedPrices) > 0 {
		b.WriteString("Real scraped prices are available for some of these segments and will override your estimate where present.\n")
	}
	return b.String()
}
