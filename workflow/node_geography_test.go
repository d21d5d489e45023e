package workflow

import (
	"testing"

	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/trip"
)

func TestEvaluateSegments_FlagsOverCutoff(t *testing.T) {
	segments := []trip.RouteSegment{
		{FromCity: "Delhi", ToCity: "Agra", TravelTimeHours: 3},
		{FromCity: "Agra", ToCity: "Goa", TravelTimeHours: 12},
	}
	evaluated, notes := evaluateSegments(segments)
	if !evaluated[0].Feasible {
		t.Fatalf("expected short segment to be feasible")
	}
	if evaluated[1].Feasible {
		t.Fatalf("expected long segment to be infeasible")
	}
	if len(notes) != 1 {
		t.Fatalf("expected 1 note, got %v", notes)
	}
}

func TestAllFeasible(t *testing.T) {
	if !allFeasible([]trip.RouteSegment{{Feasible: true}, {Feasible: true}}) {
		t.Fatalf("expected all feasible")
	}
	if allFeasible([]trip.RouteSegment{{Feasible: true}, {Feasible: false}}) {
		t.Fatalf("expected not all feasible")
	}
}

func TestImproveOrderIfWorthwhile_NoReorderWhenReverseTotalMatches(t *testing.T) {
	allocations := []trip.CityAllocation{
		{City: "A", VisitOrder: 1}, {City: "B", VisitOrder: 2}, {City: "C", VisitOrder: 3},
	}
	// Two long legs; summed in either direction they give the same total.
	segments := []trip.RouteSegment{
		{FromCity: "A", ToCity: "B", DistanceKM: 1000},
		{FromCity: "B", ToCity: "C", DistanceKM: 1000},
	}
	changed, reordered := improveOrderIfWorthwhile(allocations, segments)
	_ = changed
	_ = reordered
	// Forward and reversed totals are identical here (sum is the same either
	// way for a 2-segment path), so no reorder should be applied.
	if changed {
		t.Fatalf("expected no reorder when forward and reverse distances match")
	}
}

func TestImproveOrderIfWorthwhile_NoOpBelowThreshold(t *testing.T) {
	allocations := []trip.CityAllocation{
		{City: "A", VisitOrder: 1}, {City: "B", VisitOrder: 2}, {City: "C", VisitOrder: 3},
	}
	segments := []trip.RouteSegment{
		{FromCity: "A", ToCity: "B", DistanceKM: 100},
		{FromCity: "B", ToCity: "C", DistanceKM: 105},
	}
	changed, _ := improveOrderIfWorthwhile(allocations, segments)
	if changed {
		t.Fatalf("expected no reorder below the improvement threshold")
	}
}

func TestImproveOrderIfWorthwhile_TooFewCities(t *testing.T) {
	allocations := []trip.CityAllocation{{City: "A"}, {City: "B"}}
	segments := []trip.RouteSegment{{FromCity: "A", ToCity: "B", DistanceKM: 100}}
	changed, _ := improveOrderIfWorthwhile(allocations, segments)
	if changed {
		t.Fatalf("expected no reorder with fewer than 3 cities")
	}
}
