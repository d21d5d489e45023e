package trip

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var parenthetical = regexp.MustCompile(`\s*\([^)]*\)`)

// ParseDestinations splits a free-text destinations answer into a clean
// city/region list. Any parenthetical aside — "(if possible)", "(maybe)",
// "(2-3 days)", whatever the traveler wrote — is stripped before splitting,
// not just the literal "(if possible)" the original matched on.
func ParseDestinations(raw string) []string {
	cleaned := parenthetical.ReplaceAllString(raw, "")
	parts := strings.FieldsFunc(cleaned, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

var flexibleMarkers = []string{
	"flexible", "whenever", "sometime", "around", "ish", "roughly", "approximately",
}

var monthNames = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June, "july": time.July,
	"august": time.August, "september": time.September, "october": time.October,
	"november": time.November, "december": time.December,
}

var isoRangeRe = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})\s*(?:to|-|through|until)\s*(\d{4}-\d{2}-\d{2})`)
var isoSingleRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
var monthRangeRe = regexp.MustCompile(`(?i)(` + monthAlternation() + `)\s+(\d{1,2})\s*(?:-|to|–)\s*(\d{1,2})\s*,?\s*(\d{4})`)
var monthSingleRe = regexp.MustCompile(`(?i)(` + monthAlternation() + `)\s+(\d{1,2})(?:st|nd|rd|th)?\s*,?\s*(\d{4})`)

func monthAlternation() string {
	names := make([]string, 0, len(monthNames))
	for k := range monthNames {
		names = append(names, k)
	}
	return strings.Join(names, "|")
}

// ParsedDates is the result of interpreting a free-text travel-dates answer.
type ParsedDates struct {
	Start       *string // ISO 8601 date, nil if unparseable
	End         *string // ISO 8601 date, nil if unparseable or a single date
	Flexibility string  // "specific" or "flexible_week"
}

// ParseTravelDates interprets a free-text answer to the travel-dates
// clarification question. It never returns an error: an unparseable answer
// yields Flexibility "specific" with both dates nil, matching how a
// downstream planner treats "the traveler didn't give us usable dates".
func ParseTravelDates(raw string) ParsedDates {
	lower := strings.ToLower(raw)
	for _, marker := range flexibleMarkers {
		if strings.Contains(lower, marker) {
			return ParsedDates{Flexibility: "flexible_week"}
		}
	}

	if m := isoRangeRe.FindStringSubmatch(raw); m != nil {
		start, end := m[1], m[2]
		return ParsedDates{Start: &start, End: &end, Flexibility: "specific"}
	}

	if m := monthRangeRe.FindStringSubmatch(raw); m != nil {
		month := monthNames[strings.ToLower(m[1])]
		startDay, _ := strconv.Atoi(m[2])
		endDay, _ := strconv.Atoi(m[3])
		year, _ := strconv.Atoi(m[4])
		start := fmt.Sprintf("%04d-%02d-%02d", year, int(month), startDay)
		end := fmt.Sprintf("%04d-%02d-%02d", year, int(month), endDay)
		return ParsedDates{Start: &start, End: &end, Flexibility: "specific"}
	}

	if m := monthSingleRe.FindStringSubmatch(raw); m != nil {
		month := monthNames[strings.ToLower(m[1])]
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		start := fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
		// End date intentionally left nil: the original only fills it in
		// once a planner knows trip length, and so do we (see
		// workflow/node_planner.go).
		return ParsedDates{Start: &start, Flexibility: "specific"}
	}

	if loc := isoSingleRe.FindString(raw); loc != "" {
		start := loc
		return ParsedDates{Start: &start, Flexibility: "specific"}
	}

	return ParsedDates{Flexibility: "specific"}
}

// BackfillEndDate computes TravelEndDate as the last day of a totalDays-long
// trip, i.e. TravelStartDate + (totalDays - 1) days, counting the start date
// as day one, when the traveler gave a single specific date and no end date has been
// derived yet. It is a no-op otherwise (flexible travel, already-known end
// date, or unparseable start date).
func BackfillEndDate(s State, totalDays int) State {
	if s.TravelDateFlexibility != "specific" || s.TravelEndDate != nil || s.TravelStartDate == nil || totalDays <= 0 {
		return s
	}
	start, err := time.Parse("2006-01-02", *s.TravelStartDate)
	if err != nil {
		return s
	}
	end := start.AddDate(0, 0, totalDays-1).Format("2006-01-02")
	s.TravelEndDate = &end
	return s
}
