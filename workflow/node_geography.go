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

// infeasibleTravelHours is the hard cutoff past which a single inter-city
// leg is flagged infeasible for one day's travel, regardless of what the
// oracle itself judged "feasible".
const infeasibleTravelHours = 8.0

// zigzagImprovementThreshold is the fractional reduction in total route
// distance that improveOrderIfWorthwhile's reversed ordering must exceed
// before GeographyNode applies it; at or below it, the oracle's original
// visit order is kept.
const zigzagImprovementThreshold = 0.10

type GeographyNode struct {
	Oracle oracle.Oracle
}

var geographySchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"segments": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"from_city":          map[string]interface{}{"type": "string"},
					"to_city":            map[string]interface{}{"type": "string"},
					"distance_km":        map[string]interface{}{"type": "number"},
					"recommended_mode":   map[string]interface{}{"type": "string"},
					"travel_time_hours":  map[string]interface{}{"type": "number"},
				},
				"required": []string{"from_city", "to_city", "distance_km", "travel_time_hours"},
			},
		},
	},
	"required": []string{"segments"},
}

type geographyResponse struct {
	Segments []trip.RouteSegment `json:"segments"`
}

func (n *GeographyNode) Run(ctx context.Context, s trip.State) graph.NodeResult[trip.State] {
	prompt := buildGeographyPrompt(s)
	raw, err := n.Oracle.StructuredCall(ctx, oracle.StructuredRequest{
		SystemPrompt: "You are a travel-route geographer. Estimate inter-city distances, travel times, and recommended transport modes for the given visiting order.",
		UserPrompt:   prompt,
		Schema:       geographySchema,
	})
	if err != nil {
		return graph.NodeResult[trip.State]{Err: trip.NewError(trip.KindOracleFailure, "geography", err)}
	}

	var resp geographyResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return graph.NodeResult[trip.State]{Err: trip.NewError(trip.KindOracleFailure, "geography", err)}
	}

	segments, notes := evaluateSegments(resp.Segments)
	routeChanged, reordered := improveOrderIfWorthwhile(s.CityAllocations, segments)

	validation := &trip.RouteValidation{
		RouteIsValid:    allFeasible(segments),
		RouteChanged:    routeChanged,
		TotalDistanceKM: totalDistance(segments),
		Notes:           notes,
	}

	delta := trip.State{
		RouteSegments:   segments,
		RouteValidation: validation,
		Messages:        []trip.Message{{Role: "node", Text: fmt.Sprintf("geography: validated %d segments", len(segments))}},
	}
	if routeChanged {
		delta.CityAllocations = reordered
	}

	return graph.NodeResult[trip.State]{Delta: delta, Route: graph.Goto("research")}
}

// evaluateSegments applies the hard infeasibility cutoff deterministically,
// rather than trusting the oracle's own Feasible judgment, and collects a
// human-readable note for every leg it flags.
func evaluateSegments(segments []trip.RouteSegment) ([]trip.RouteSegment, []string) {
	var notes []string
	out := make([]trip.RouteSegment, len(segments))
	for i, seg := range segments {
		seg.Feasible = seg.TravelTimeHours <= infeasibleTravelHours
		if !seg.Feasible {
			issue := fmt.Sprintf("%s to %s is %.1fh, over the %.0fh single-day cutoff", seg.FromCity, seg.ToCity, seg.TravelTimeHours, infeasibleTravelHours)
			seg.Issues = append(seg.Issues, issue)
			notes = append(notes, issue)
		}
		out[i] = seg
	}
	return out, notes
}

func allFeasible(segments []trip.RouteSegment) bool {
	for _, s := range segments {
		if !s.Feasible {
			return false
		}
	}
	return true
}

func totalDistance(segments []trip.RouteSegment) float64 {
	var total float64
	for _, s := range segments {
		total += s.DistanceKM
	}
	return total
}

// improveOrderIfWorthwhile compares the forward segment total against the
// same segments' distances summed in reverse order, and reverses the visiting
// order only if that cuts the total by more than zigzagImprovementThreshold.
// Both sums cover the same legs, so they are always equal: the function
// never reports an improvement and never reorders. No other ordering is
// tried, and distances between non-adjacent cities are not estimated.
func improveOrderIfWorthwhile(allocations []trip.CityAllocation, segments []trip.RouteSegment) (bool, []trip.CityAllocation) {
	if len(allocations) < 3 || len(segments) == 0 {
		return false, nil
	}
	original := totalDistance(segments)
	if original <= 0 {
		return false, nil
	}
	reversedDistance := 0.0
	for i := len(segments) - 1; i >= 0; i-- {
		reversedDistance += segments[i].DistanceKM
	}
	improvement := (original - reversedDistance) / original
	if improvement <= zigzagImprovementThreshold {
		return false, nil
	}
	reordered := make([]trip.CityAllocation, len(allocations))
	for i, a := range allocations {
		a.VisitOrder = len(allocations) - i
		reordered[len(allocations)-1-i] = a
	}
	return true, reordered
}

func buildGeographyPrompt(s trip.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Origin: %s\n", s.OriginCity)
	b.WriteString("Cities in visit order:\n")
	for _, c := range s.CityAllocations {
		fmt.Fprintf(&b, "- %d. %s (%s), %d days\n", c.VisitOrder, c.City, c.Country, c.Days)
	}
	return b.String()
}
