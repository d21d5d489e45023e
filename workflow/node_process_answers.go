package workflow

import (
	"context"
	"strconv"
	"strings"

	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/graph"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/trip"
)

// ProcessAnswersNode is only ever entered via ResumeFromCheckpoint(...,
// "process_answers"): it turns the traveler's clarification answers into
// the same parsed-input fields ClarificationNode would have produced
// directly, then continues to the planner.
type ProcessAnswersNode struct{}

func (n *ProcessAnswersNode) Run(ctx context.Context, s trip.State) graph.NodeResult[trip.State] {
	delta := trip.State{
		Messages: []trip.Message{{Role: "node", Text: "process_answers: applying clarification answers"}},
	}

	if v, ok := s.ClarificationAnswers["origin_city"]; ok {
		delta.OriginCity = strings.TrimSpace(v)
	}
	if v, ok := s.ClarificationAnswers["specific_destinations"]; ok {
		delta.Destinations = trip.ParseDestinations(v)
	}
	if v, ok := s.ClarificationAnswers["travel_dates"]; ok {
		dates := trip.ParseTravelDates(v)
		delta.TravelStartDate = dates.Start
		delta.TravelEndDate = dates.End
		delta.TravelDateFlexibility = dates.Flexibility
	}
	if v, ok := s.ClarificationAnswers["travelers_count"]; ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			delta.TravelersCount = n
		}
	}
	if v, ok := s.ClarificationAnswers["dietary"]; ok && v != "" {
		delta.DietaryRestrictions = trip.ParseDestinations(v)
	}
	if v, ok := s.ClarificationAnswers["travel_pace"]; ok {
		delta.TravelPace = strings.TrimSpace(v)
	}
	if v, ok := s.ClarificationAnswers["visited_places"]; ok && v != "" {
		delta.VisitedPlaces = trip.ParseDestinations(v)
	}

	return graph.NodeResult[trip.State]{Delta: delta, Route: graph.Goto("planner")}
}
