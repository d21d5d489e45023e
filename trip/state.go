package trip

// State is the single value threaded through every node of the travel
// planning graph. Every node reads the accumulated State and returns a
// State delta; Reduce folds deltas into the running value.
//
// Field groups follow the "nil/zero means untouched" convention: a node
// that does not touch a group leaves it at its zero value in its returned
// delta, and Reduce keeps whatever the accumulated state already had.
type State struct {
	// --- Input group (set once, by the caller, never touched again) ---
	RawRequest string `json:"raw_request"`

	// --- Clarification group ---
	ClarificationNeeded    bool                     `json:"clarification_needed"`
	ClarificationQuestions []ClarificationQuestion  `json:"clarification_questions,omitempty"`
	ClarificationAnswers   map[string]string        `json:"clarification_answers,omitempty"`

	// --- Parsed-input group (filled by process_answers, or directly from
	// RawRequest when no clarification round is needed) ---
	OriginCity              string   `json:"origin_city,omitempty"`
	Destinations            []string `json:"destinations,omitempty"`
	TravelStartDate         *string  `json:"travel_start_date,omitempty"` // ISO 8601 date
	TravelEndDate           *string  `json:"travel_end_date,omitempty"`   // ISO 8601 date
	TravelDateFlexibility   string   `json:"travel_date_flexibility,omitempty"`
	TravelersCount          int      `json:"travelers_count,omitempty"`
	TravelerProfile         TravelerProfile `json:"traveler_profile,omitempty"`
	BudgetLevel             BudgetLevel     `json:"budget_level,omitempty"`
	DietaryRestrictions     []string `json:"dietary_restrictions,omitempty"`
	TravelPace              string   `json:"travel_pace,omitempty"`
	VisitedPlaces           []string `json:"visited_places,omitempty"`

	// --- Planner group ---
	TripSummary      *TripSummary      `json:"trip_summary,omitempty"`
	CityAllocations  []CityAllocation  `json:"city_allocations,omitempty"`

	// --- Geography group ---
	RouteSegments    []RouteSegment    `json:"route_segments,omitempty"`
	RouteValidation  *RouteValidation  `json:"route_validation,omitempty"`

	// --- Research group ---
	Attractions      []Attraction      `json:"attractions,omitempty"`
	Hotels           []Hotel           `json:"hotels,omitempty"`
	SourcesBrowsed   []string          `json:"sources_browsed,omitempty"`

	// --- Food & culture group ---
	Meals            []Meal            `json:"meals,omitempty"`
	CulturalDos      []string          `json:"cultural_dos,omitempty"`
	CulturalDonts    []string          `json:"cultural_donts,omitempty"`
	CulturalTips     []string          `json:"cultural_tips,omitempty"`

	// --- Price scraper group ---
	ScrapedPrices    []ScrapedPrice    `json:"scraped_prices,omitempty"`
	StationInfo      map[string]StationInfo `json:"station_info,omitempty"`

	// --- Transport & budget group ---
	TransportOptions []TransportOption `json:"transport_options,omitempty"`
	BudgetBreakdown  *BudgetBreakdown  `json:"budget_breakdown,omitempty"`

	// --- Critic group ---
	ValidationResult   *ValidationResult `json:"validation_result,omitempty"`
	ReplanIteration    int               `json:"replan_iteration"`
	ReplanFeedback     []string          `json:"replan_feedback,omitempty"`

	// --- Finalizer group ---
	FinalItinerary *TravelItinerary `json:"final_itinerary,omitempty"`

	// --- Bookkeeping (append-only, never cleared) ---
	Messages []Message `json:"messages,omitempty"`
}

// Reduce merges a node-produced delta into the accumulated state. It
// implements three kinds of field-group reduction:
//
//   - overwrite: the delta's value replaces the accumulated one whenever the
//     delta actually carries a value (non-nil pointer, non-empty slice/map,
//     non-zero scalar for fields that are only ever set once).
//   - append-sequence: the delta's slice is appended after the accumulated
//     one, preserving order (Attractions, Hotels, ReplanFeedback, Messages;
//     Messages are never deduplicated).
//   - append-accumulate: the delta's entries are unioned into the accumulated
//     slice, skipping duplicates (SourcesBrowsed, CulturalDos/Donts/Tips), or
//     merged by key with the delta winning (StationInfo, ClarificationAnswers).
//
// Meals, ScrapedPrices, TransportOptions, RouteSegments and CityAllocations
// are overwrite fields: a replan's fresh list replaces the previous one.
//
// Reduce never mutates prev or delta; it returns a new State.
func Reduce(prev, delta State) State {
	next := prev

	if delta.RawRequest != "" {
		next.RawRequest = delta.RawRequest
	}

	// Clarification group: overwrite.
	if delta.ClarificationNeeded {
		next.ClarificationNeeded = true
	}
	if len(delta.ClarificationQuestions) > 0 {
		next.ClarificationQuestions = delta.ClarificationQuestions
	}
	if len(delta.ClarificationAnswers) > 0 {
		merged := make(map[string]string, len(next.ClarificationAnswers)+len(delta.ClarificationAnswers))
		for k, v := range next.ClarificationAnswers {
			merged[k] = v
		}
		for k, v := range delta.ClarificationAnswers {
			merged[k] = v
		}
		next.ClarificationAnswers = merged
	}

	// Parsed-input group: overwrite.
	if delta.OriginCity != "" {
		next.OriginCity = delta.OriginCity
	}
	if len(delta.Destinations) > 0 {
		next.Destinations = delta.Destinations
	}
	if delta.TravelStartDate != nil {
		next.TravelStartDate = delta.TravelStartDate
	}
	if delta.TravelEndDate != nil {
		next.TravelEndDate = delta.TravelEndDate
	}
	if delta.TravelDateFlexibility != "" {
		next.TravelDateFlexibility = delta.TravelDateFlexibility
	}
	if delta.TravelersCount != 0 {
		next.TravelersCount = delta.TravelersCount
	}
	if delta.TravelerProfile != "" {
		next.TravelerProfile = delta.TravelerProfile
	}
	if delta.BudgetLevel != "" {
		next.BudgetLevel = delta.BudgetLevel
	}
	if len(delta.DietaryRestrictions) > 0 {
		next.DietaryRestrictions = delta.DietaryRestrictions
	}
	if delta.TravelPace != "" {
		next.TravelPace = delta.TravelPace
	}
	if len(delta.VisitedPlaces) > 0 {
		next.VisitedPlaces = delta.VisitedPlaces
	}

	// Planner group: overwrite (a replan fully replaces the prior plan).
	if delta.TripSummary != nil {
		next.TripSummary = delta.TripSummary
	}
	if len(delta.CityAllocations) > 0 {
		next.CityAllocations = delta.CityAllocations
	}

	// Geography group: overwrite.
	if len(delta.RouteSegments) > 0 {
		next.RouteSegments = delta.RouteSegments
	}
	if delta.RouteValidation != nil {
		next.RouteValidation = delta.RouteValidation
	}

	// Research group: append-sequence for Attractions/Hotels, append-accumulate
	// for SourcesBrowsed.
	if len(delta.Attractions) > 0 {
		next.Attractions = append(append([]Attraction{}, next.Attractions...), delta.Attractions...)
	}
	if len(delta.Hotels) > 0 {
		next.Hotels = append(append([]Hotel{}, next.Hotels...), delta.Hotels...)
	}
	if len(delta.SourcesBrowsed) > 0 {
		next.SourcesBrowsed = unionStrings(next.SourcesBrowsed, delta.SourcesBrowsed)
	}

	// Food & culture group: overwrite for Meals, append-accumulate for tips.
	if len(delta.Meals) > 0 {
		next.Meals = delta.Meals
	}
	if len(delta.CulturalDos) > 0 {
		next.CulturalDos = unionStrings(next.CulturalDos, delta.CulturalDos)
	}
	if len(delta.CulturalDonts) > 0 {
		next.CulturalDonts = unionStrings(next.CulturalDonts, delta.CulturalDonts)
	}
	if len(delta.CulturalTips) > 0 {
		next.CulturalTips = unionStrings(next.CulturalTips, delta.CulturalTips)
	}

	// Price scraper group: overwrite for prices, append-accumulate (by
	// key) for station info.
	if len(delta.ScrapedPrices) > 0 {
		next.ScrapedPrices = delta.ScrapedPrices
	}
	if len(delta.StationInfo) > 0 {
		merged := make(map[string]StationInfo, len(next.StationInfo)+len(delta.StationInfo))
		for k, v := range next.StationInfo {
			merged[k] = v
		}
		for k, v := range delta.StationInfo {
			merged[k] = v
		}
		next.StationInfo = merged
	}

	// Transport & budget group: overwrite for options and breakdown.
	if len(delta.TransportOptions) > 0 {
		next.TransportOptions = delta.TransportOptions
	}
	if delta.BudgetBreakdown != nil {
		next.BudgetBreakdown = delta.BudgetBreakdown
	}

	// Critic group: overwrite for the verdict, append-sequence for feedback,
	// overwrite (increment happens at the call site) for the iteration counter.
	if delta.ValidationResult != nil {
		next.ValidationResult = delta.ValidationResult
	}
	if delta.ReplanIteration != 0 {
		next.ReplanIteration = delta.ReplanIteration
	}
	if len(delta.ReplanFeedback) > 0 {
		next.ReplanFeedback = append(append([]string{}, next.ReplanFeedback...), delta.ReplanFeedback...)
	}

	// Finalizer group: overwrite.
	if delta.FinalItinerary != nil {
		next.FinalItinerary = delta.FinalItinerary
	}

	// Bookkeeping: always append, never deduplicated.
	if len(delta.Messages) > 0 {
		next.Messages = append(append([]Message{}, next.Messages...), delta.Messages...)
	}

	return next
}

func unionStrings(base, add []string) []string {
	seen := make(map[string]struct{}, len(base)+len(add))
	out := make([]string, 0, len(base)+len(add))
	for _, s := range base {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	for _, s := range add {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}
