package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/graph"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/oracle"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/trip"
)

// PlannerNode turns the parsed trip request into a trip_summary and an
// ordered city allocation list. It also re-runs on a replan: the critic
// routes back here with ReplanFeedback describing what must change, and the
// prompt includes that feedback so the oracle doesn't just repeat itself.
type PlannerNode struct {
	Oracle oracle.Oracle
}

var plannerSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"title":            map[string]interface{}{"type": "string"},
		"summary":          map[string]interface{}{"type": "string"},
		"total_days":       map[string]interface{}{"type": "integer"},
		"pace":             map[string]interface{}{"type": "string"},
		"city_allocations": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"city":        map[string]interface{}{"type": "string"},
					"country":     map[string]interface{}{"type": "string"},
					"days":        map[string]interface{}{"type": "integer"},
					"visit_order": map[string]interface{}{"type": "integer"},
					"highlights":  map[string]interface{}{"type": "string"},
					"reasoning":   map[string]interface{}{"type": "string"},
				},
				"required": []string{"city", "days", "visit_order"},
			},
		},
	},
	"required": []string{"total_days", "city_allocations"},
}

type plannerResponse struct {
	Title           string                `json:"title"`
	Summary         string                `json:"summary"`
	TotalDays       int                   `json:"total_days"`
	Pace            string                `json:"pace"`
	CityAllocations []trip.CityAllocation `json:"city_allocations"`
}

// maxCitiesForDays hardens the oracle's city count against the trip length
// the way the original prompt asked for but never enforced: a plan that
// crams 6 cities into 4 days is clipped to the top-visit_order N cities
// rather than trusted verbatim, regardless of what the oracle returned.
func maxCitiesForDays(days int) int {
	switch {
	case days <= 5:
		return 3
	case days <= 9:
		return 4
	default:
		return 5
	}
}

func (n *PlannerNode) Run(ctx context.Context, s trip.State) graph.NodeResult[trip.State] {
	prompt := buildPlannerPrompt(s)
	raw, err := n.Oracle.StructuredCall(ctx, oracle.StructuredRequest{
		SystemPrompt: "You are a travel planner. Allocate the traveler's trip across cities in a sensible visiting order.",
		UserPrompt:   prompt,
		Schema:       plannerSchema,
	})
	if err != nil {
		return graph.NodeResult[trip.State]{Err: trip.NewError(trip.KindOracleFailure, "planner", err)}
	}

	var resp plannerResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return graph.NodeResult[trip.State]{Err: trip.NewError(trip.KindOracleFailure, "planner", err)}
	}
	if resp.TotalDays <= 0 || len(resp.CityAllocations) == 0 {
		return graph.NodeResult[trip.State]{Err: trip.NewError(trip.KindOracleFailure, "planner", fmt.Errorf("empty plan returned"))}
	}

	allocations := capCityAllocations(resp.CityAllocations, maxCitiesForDays(resp.TotalDays), resp.TotalDays)

	budgetLevel := s.BudgetLevel
	if budgetLevel == "" {
		budgetLevel = trip.BudgetMid
	}
	profile := s.TravelerProfile
	if profile == "" {
		profile = trip.ProfileSolo
	}

	delta := trip.State{
		TripSummary: &trip.TripSummary{
			TotalDays:       resp.TotalDays,
			BudgetLevel:     budgetLevel,
			TravelerProfile: profile,
			Pace:            resp.Pace,
			Title:           resp.Title,
			Summary:         resp.Summary,
		},
		CityAllocations: allocations,
		Messages:        []trip.Message{{Role: "node", Text: fmt.Sprintf("planner: allocated %d cities over %d days", len(allocations), resp.TotalDays)}},
	}

	next := trip.BackfillEndDate(s, resp.TotalDays)
	if next.TravelEndDate != nil {
		delta.TravelEndDate = next.TravelEndDate
	}

	return graph.NodeResult[trip.State]{Delta: delta, Route: graph.Goto("geography")}
}

// capCityAllocations trims to the top maxCities by visit_order, then
// renumbers visit_order to a contiguous 1..N and rescales days so the
// clipped list still satisfies the planner's own day-sum and ordering
// invariants against totalDays.
func capCityAllocations(allocations []trip.CityAllocation, maxCities, totalDays int) []trip.CityAllocation {
	if len(allocations) <= maxCities {
		return allocations
	}
	sorted := append([]trip.CityAllocation{}, allocations...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].VisitOrder < sorted[j-1].VisitOrder; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	clipped := sorted[:maxCities]
	renumberVisitOrder(clipped)
	rescaleDays(clipped, totalDays)
	return clipped
}

// renumberVisitOrder assigns a contiguous 1..N visit_order to the clipped
// list, preserving the relative order the oracle returned.
func renumberVisitOrder(allocations []trip.CityAllocation) {
	for i := range allocations {
		allocations[i].VisitOrder = i + 1
	}
}

// rescaleDays redistributes totalDays across allocations proportional to
// their original day counts, so dropping cities during capping doesn't
// leave sum(days) short of or over TripSummary.TotalDays. Every city keeps
// at least one day; rounding remainder is walked across cities in visit
// order until it's exhausted.
func rescaleDays(allocations []trip.CityAllocation, totalDays int) {
	if len(allocations) == 0 || totalDays <= 0 {
		return
	}
	originalSum := 0
	for _, a := range allocations {
		originalSum += a.Days
	}
	if originalSum <= 0 {
		base := totalDays / len(allocations)
		extra := totalDays % len(allocations)
		for i := range allocations {
			allocations[i].Days = base
			if i < extra {
				allocations[i].Days++
			}
		}
		return
	}

	assigned := 0
	for i := range allocations {
		days := allocations[i].Days * totalDays / originalSum
		if days < 1 {
			days = 1
		}
		allocations[i].Days = days
		assigned += days
	}

	diff := totalDays - assigned
	for pass := 0; diff != 0 && pass < 2*len(allocations)+2; pass++ {
		progressed := false
		for i := range allocations {
			if diff == 0 {
				break
			}
			switch {
			case diff > 0:
				allocations[i].Days++
				diff--
				progressed = true
			case allocations[i].Days > 1:
				allocations[i].Days--
				diff++
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}
}

func buildPlannerPrompt(s trip.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Origin: %s\n", s.OriginCity)
	fmt.Fprintf(&b, "Destinations: %s\n", strings.Join(s.Destinations, ", "))
	if s.TravelStartDate != nil {
		fmt.Fprintf(&b, "Start date: %s\n", *s.TravelStartDate)
	}
	if s.TravelEndDate != nil {
		fmt.Fprintf(&b, "End date: %s\n", *s.TravelEndDate)
	}
	fmt.Fprintf(&b, "Date flexibility: %s\n", s.TravelDateFlexibility)
	fmt.Fprintf(&b, "Travelers: %d, profile: %s, budget: %s, pace: %s\n",
		s.TravelersCount, s.TravelerProfile, s.BudgetLevel, s.TravelPace)
	if len(s.VisitedPlaces) > 0 {
		fmt.Fprintf(&b, "Already visited (avoid repeating): %s\n", strings.Join(s.VisitedPlaces, ", "))
	}
	if len(s.ReplanFeedback) > 0 {
		fmt.Fprintf(&b, "Replan feedback from the previous attempt, address all of it:\n- %s\n",
			strings.Join(s.ReplanFeedback, "\n- "))
	}
	return b.String()
}
