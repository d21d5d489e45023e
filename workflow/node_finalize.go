package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/graph"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/trip"
)

// timeSlots are the fixed daily scheduling slots every day plan fills in
// order: breakfast, morning attraction, lunch, afternoon attraction,
// dinner, with any remaining attractions folded into free time.
var timeSlots = []string{"08:00", "09:00", "12:30", "14:00", "19:00"}

// FinalizeNode assembles the day-by-day itinerary from everything gathered
// by the earlier workers. It never calls the oracle: by this point in the
// graph, plan content has already been generated and critiqued, so
// finalization is pure deterministic assembly, the same separation of
// concerns the original kept between its validator and its final formatter.
type FinalizeNode struct{}

func (n *FinalizeNode) Run(ctx context.Context, s trip.State) graph.NodeResult[trip.State] {
	itinerary := &trip.TravelItinerary{
		TripTitle:          tripTitle(s),
		DestinationSummary: tripSummary(s),
		TravelersCount:     s.TravelersCount,
		CulturalTips:       s.CulturalTips,
		SourcesConsulted:   s.SourcesBrowsed,
	}
	if s.TripSummary != nil {
		itinerary.TotalDays = s.TripSummary.TotalDays
		itinerary.TravelerProfile = s.TripSummary.TravelerProfile
		itinerary.BudgetLevel = s.TripSummary.BudgetLevel
	}
	if s.TravelStartDate != nil {
		if t, err := time.Parse("2006-01-02", *s.TravelStartDate); err == nil {
			itinerary.StartDate = &t
		}
	}
	if s.TravelEndDate != nil {
		if t, err := time.Parse("2006-01-02", *s.TravelEndDate); err == nil {
			itinerary.EndDate = &t
		}
	}
	if s.BudgetBreakdown != nil {
		itinerary.BudgetBreakdown = *s.BudgetBreakdown
		itinerary.TotalEstimatedCostUSD = s.BudgetBreakdown.Total
	}

	for _, c := range s.CityAllocations {
		itinerary.CitiesVisited = append(itinerary.CitiesVisited, c.City)
	}

	attractionsByCity := dedupAttractionsByCity(s.Attractions)
	mealsByCity := mealsByCityIndex(s.Meals)

	dayNumber := 0
	var dailyBudget float64
	if s.BudgetBreakdown != nil && itinerary.TotalDays > 0 {
		dailyBudget = s.BudgetBreakdown.Total / float64(itinerary.TotalDays)
	}

	for _, city := range s.CityAllocations {
		cityAttractions := attractionsByCity[city.City]
		maxForCity := city.Days * 4
		if len(cityAttractions) > maxForCity {
			cityAttractions = cityAttractions[:maxForCity]
		}
		base := len(cityAttractions) / city.Days
		extra := len(cityAttractions) % city.Days
		cursor := 0

		for d := 0; d < city.Days; d++ {
			dayNumber++
			count := base
			if d < extra {
				count++
			}
			dayAttractions := cityAttractions[cursor : cursor+count]
			cursor += count

			plan := trip.DayPlan{
				DayNumber:      dayNumber,
				City:           city.City,
				DailyBudgetUSD: dailyBudget,
			}
			if itinerary.StartDate != nil {
				date := itinerary.StartDate.AddDate(0, 0, dayNumber-1)
				plan.Date = &date
			}
			plan.Activities = buildDayActivities(dayAttractions, mealsByCity[city.City], d)
			itinerary.DailyPlans = append(itinerary.DailyPlans, plan)
		}
	}

	itinerary.OriginTransport, itinerary.InterCityTransport = splitTransportOptions(s.TransportOptions)
	if s.BudgetBreakdown != nil {
		itinerary.LocalTransportTips = s.BudgetBreakdown.LocalTransportTips
	}

	itinerary.Warnings = collectWarnings(s)

	delta := trip.State{
		FinalItinerary: itinerary,
		Messages:       []trip.Message{{Role: "node", Text: fmt.Sprintf("finalize: assembled %d-day itinerary across %d cities", dayNumber, len(itinerary.CitiesVisited))}},
	}

	return graph.NodeResult[trip.State]{Delta: delta, Route: graph.Stop()}
}

func tripTitle(s trip.State) string {
	if s.TripSummary != nil && s.TripSummary.Title != "" {
		return s.TripSummary.Title
	}
	return "Your trip"
}

func tripSummary(s trip.State) string {
	if s.TripSummary != nil {
		return s.TripSummary.Summary
	}
	return ""
}

// dedupAttractionsByCity keeps each attraction's first occurrence (by city
// and name, case-sensitive) and groups the survivors by city, preserving arrival
// order within each city.
func dedupAttractionsByCity(attractions []trip.Attraction) map[string][]trip.Attraction {
	seen := make(map[string]struct{}, len(attractions))
	byCity := make(map[string][]trip.Attraction)
	for _, a := range attractions {
		key := a.City + "|" + a.Name
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		byCity[a.City] = append(byCity[a.City], a)
	}
	return byCity
}

func mealsByCityIndex(meals []trip.Meal) map[string][]trip.Meal {
	byCity := make(map[string][]trip.Meal)
	for _, m := range meals {
		byCity[m.City] = append(byCity[m.City], m)
	}
	return byCity
}

// buildDayActivities lays attractions and meals onto the fixed time slots:
// breakfast, morning attraction, lunch, afternoon attraction, dinner. Extra
// attractions beyond the two slots fold into a trailing free-time block; a
// thin day with fewer attractions or meals than slots just omits the
// unused ones.
func buildDayActivities(attractions []trip.Attraction, meals []trip.Meal, dayIndex int) []trip.DayActivity {
	var activities []trip.DayActivity

	if meal := mealForType(meals, dayIndex, "breakfast"); meal != nil {
		activities = append(activities, trip.DayActivity{
			TimeSlot:     timeSlots[0],
			ActivityType: "meal",
			Title:        meal.RestaurantName,
			Meal:         meal,
		})
	}
	if len(attractions) > 0 {
		activities = append(activities, trip.DayActivity{
			TimeSlot:     timeSlots[1],
			ActivityType: "attraction",
			Title:        attractions[0].Name,
			Attraction:   &attractions[0],
		})
	}
	if meal := mealForType(meals, dayIndex, "lunch"); meal != nil {
		activities = append(activities, trip.DayActivity{
			TimeSlot:     timeSlots[2],
			ActivityType: "meal",
			Title:        meal.RestaurantName,
			Meal:         meal,
		})
	}
	if len(attractions) > 1 {
		activities = append(activities, trip.DayActivity{
			TimeSlot:     timeSlots[3],
			ActivityType: "attraction",
			Title:        attractions[1].Name,
			Attraction:   &attractions[1],
		})
	}
	if meal := mealForType(meals, dayIndex, "dinner"); meal != nil {
		activities = append(activities, trip.DayActivity{
			TimeSlot:     timeSlots[4],
			ActivityType: "meal",
			Title:        meal.RestaurantName,
			Meal:         meal,
		})
	}
	if len(attractions) > 2 {
		for i := 2; i < len(attractions); i++ {
			activities = append(activities, trip.DayActivity{
				TimeSlot:     "free_time",
				ActivityType: "attraction",
				Title:        attractions[i].Name,
				Attraction:   &attractions[i],
			})
		}
	}
	return activities
}

// mealForType picks the dayIndex-th meal of the requested type from the
// city's meal list, if one exists, so repeat days don't all repeat the
// first lunch recommendation.
func mealForType(meals []trip.Meal, dayIndex int, mealType string) *trip.Meal {
	matches := make([]trip.Meal, 0, len(meals))
	for _, m := range meals {
		if m.MealType == mealType {
			matches = append(matches, m)
		}
	}
	if len(matches) == 0 {
		return nil
	}
	return &matches[dayIndex%len(matches)]
}

func splitTransportOptions(options []trip.TransportOption) (*trip.TransportSegment, []trip.TransportSegment) {
	var origin *trip.TransportSegment
	var interCity []trip.TransportSegment
	for _, opt := range options {
		seg := trip.TransportSegment{
			Mode:             opt.Recommended.Mode,
			FromLocation:     opt.FromLocation,
			ToLocation:       opt.ToLocation,
			DurationHours:    opt.Recommended.DurationHours,
			EstimatedCostUSD: opt.Recommended.EstimatedCostUSD,
			Notes:            opt.Recommended.Notes,
		}
		if opt.IsOriginTransport {
			origin = &seg
			continue
		}
		interCity = append(interCity, seg)
	}
	return origin, interCity
}

// collectWarnings unions the critic's final recommendations with the
// description of every high- or critical-severity or process-category issue, the
// finalizer's only surface for issues the critic chose to force-approve
// through rather than resolve.
func collectWarnings(s trip.State) []string {
	if s.ValidationResult == nil {
		return nil
	}
	var warnings []string
	warnings = append(warnings, s.ValidationResult.FinalRecommendations...)
	for _, issue := range s.ValidationResult.Issues {
		switch issue.Severity {
		case trip.SeverityHigh, trip.SeverityCritical:
			warnings = append(warnings, issue.Description)
		}
		if issue.Category == trip.CategoryProcess {
			warnings = append(warnings, issue.Description)
		}
	}
	return warnings
}
