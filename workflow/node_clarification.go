package workflow

import (
	"context"
	"regexp"
	"strings"

	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/graph"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/trip"
)

// ClarificationNode inspects the raw free-text trip request and either
// extracts enough structured input to proceed straight to planning, or
// raises a set of follow-up questions and suspends the run.
//
// Suspension has no dedicated engine primitive: this node returns
// graph.Stop() while leaving ClarificationAnswers nil. The caller
// (session.Manager) distinguishes this from a completed run by checking
// ClarificationNeeded && ClarificationAnswers == nil on the returned state.
type ClarificationNode struct{}

var originRe = regexp.MustCompile(`(?i)from\s+([A-Za-z][A-Za-z\s]{1,30}?)(?:\s+to|\s*,|\s*$)`)
var destinationsRe = regexp.MustCompile(`(?i)to\s+([A-Za-z][A-Za-z\s,]{1,120})`)

func (n *ClarificationNode) Run(ctx context.Context, s trip.State) graph.NodeResult[trip.State] {
	origin := extractOrigin(s.RawRequest)
	destinations := extractDestinations(s.RawRequest)
	dates := trip.ParseTravelDates(s.RawRequest)

	// travel_dates always leads when it's asked at all: it's the field the
	// planner needs first to size the trip, so it shouldn't land behind
	// origin/destinations in the question list.
	var questions []trip.ClarificationQuestion
	if dates.Start == nil {
		questions = append(questions, trip.ClarificationQuestion{
			ID: "travel_dates", Text: "When would you like to travel, and for how long?",
			Type: trip.QuestionTravelDates, Required: true,
		})
	}
	if origin == "" {
		questions = append(questions, trip.ClarificationQuestion{
			ID: "origin_city", Text: "Which city will you be traveling from?",
			Type: trip.QuestionOriginCity, Required: true,
		})
	}
	if len(destinations) == 0 {
		questions = append(questions, trip.ClarificationQuestion{
			ID: "specific_destinations", Text: "Which cities or regions would you like to visit?",
			Type: trip.QuestionSpecificDestinations, Required: true,
		})
	}

	// Once a required field is missing the run suspends anyway, so the
	// remaining preference questions ride along in the same round trip
	// instead of costing the traveler a second suspend/resume cycle later.
	if len(questions) > 0 {
		questions = append(questions,
			trip.ClarificationQuestion{
				ID: "visited_places", Text: "Have you already visited any of these places before? If so, which?",
				Type: trip.QuestionVisitedPlaces, Required: false,
			},
			trip.ClarificationQuestion{
				ID: "dietary", Text: "Any dietary restrictions we should plan meals around?",
				Type: trip.QuestionDietary, Required: false,
			},
			trip.ClarificationQuestion{
				ID: "travel_pace", Text: "Do you prefer a relaxed, moderate, or packed travel pace?",
				Type: trip.QuestionTravelPace, Required: false,
			},
		)
	}

	if len(questions) > 0 {
		return graph.NodeResult[trip.State]{
			Delta: trip.State{
				ClarificationNeeded:    true,
				ClarificationQuestions: questions,
				Messages:               []trip.Message{{Role: "node", Text: "clarification: awaiting answers"}},
			},
			Route: graph.Stop(),
		}
	}

	delta := trip.State{
		OriginCity:   origin,
		Destinations: destinations,
		Messages:     []trip.Message{{Role: "node", Text: "clarification: extracted enough detail, continuing"}},
	}
	if dates.Start != nil {
		delta.TravelStartDate = dates.Start
	}
	if dates.End != nil {
		delta.TravelEndDate = dates.End
	}
	delta.TravelDateFlexibility = dates.Flexibility

	return graph.NodeResult[trip.State]{Delta: delta, Route: graph.Goto("planner")}
}

func extractOrigin(raw string) string {
	m := originRe.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func extractDestinations(raw string) []string {
	m := destinationsRe.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	return trip.ParseDestinations(m[1])
}
