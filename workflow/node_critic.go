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

// CriticNode judges the assembled plan and decides whether to send it back
// to the planner or let it proceed to finalization. The decision rule is
// deterministic Go, not left to the oracle: any critical issue, or three or
// more high-severity issues, forces a replan; everything else approves.
// Once MaxReplanIterations is reached the plan is force-approved with a
// synthetic medium-severity issue in the process category recording that
// the loop was cut short,
// the same escape valve the original used to guarantee termination.
type CriticNode struct {
	Oracle oracle.Oracle
}

var criticSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"overall_score": map[string]interface{}{"type": "integer"},
		"issues": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"category":        map[string]interface{}{"type": "string"},
					"description":     map[string]interface{}{"type": "string"},
					"severity":        map[string]interface{}{"type": "string"},
					"affected_days":   map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "integer"}},
					"affected_cities": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
					"suggested_fix":   map[string]interface{}{"type": "string"},
				},
				"required": []string{"category", "description", "severity"},
			},
		},
		"final_recommendations": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
	},
	"required": []string{"overall_score", "issues"},
}

type criticResponse struct {
	OverallScore         int                     `json:"overall_score"`
	Issues               []trip.ValidationIssue  `json:"issues"`
	FinalRecommendations []string                `json:"final_recommendations"`
}

func (n *CriticNode) Run(ctx context.Context, s trip.State) graph.NodeResult[trip.State] {
	prompt := buildCriticPrompt(s)
	raw, err := n.Oracle.StructuredCall(ctx, oracle.StructuredRequest{
		SystemPrompt: "You are a skeptical trip-plan critic. Find timing conflicts, logistics gaps, budget overruns, feasibility problems, and pacing imbalance. Be specific and cite affected cities or days.",
		UserPrompt:   prompt,
		Schema:       criticSchema,
	})
	if err != nil {
		return graph.NodeResult[trip.State]{Err: trip.NewError(trip.KindOracleFailure, "critic", err)}
	}

	var resp criticResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return graph.NodeResult[trip.State]{Err: trip.NewError(trip.KindOracleFailure, "critic", err)}
	}

	result := trip.ValidationResult{
		OverallScore:         resp.OverallScore,
		Issues:               resp.Issues,
		FinalRecommendations: resp.FinalRecommendations,
	}

	iteration := s.ReplanIteration
	requiresReplan := decisionRequiresReplan(result.Issues)

	if requiresReplan && iteration >= MaxReplanIterations {
		result.Issues = append(result.Issues, trip.ValidationIssue{
			Category:    trip.CategoryProcess,
			Description: fmt.Sprintf("replan budget of %d iterations exhausted; approving plan with unresolved issues", MaxReplanIterations),
			Severity:    trip.SeverityMedium,
		})
		requiresReplan = false
	}
	result.RequiresReplanning = requiresReplan
	result.IsValid = !requiresReplan

	delta := trip.State{
		ValidationResult: &result,
		Messages:         []trip.Message{{Role: "node", Text: fmt.Sprintf("critic: score %d, %d issues, replan=%v", result.OverallScore, len(result.Issues), requiresReplan)}},
	}

	if requiresReplan {
		delta.ReplanIteration = iteration + 1
		delta.ReplanFeedback = feedbackFromIssues(result.Issues)
		return graph.NodeResult[trip.State]{Delta: delta, Route: graph.Goto("planner")}
	}

	return graph.NodeResult[trip.State]{Delta: delta, Route: graph.Goto("finalize")}
}

// decisionRequiresReplan mirrors the original's fixed escalation rule: any
// critical issue, or three or more high-severity issues, forces a replan.
func decisionRequiresReplan(issues []trip.ValidationIssue) bool {
	high := 0
	for _, issue := range issues {
		if issue.Severity == trip.SeverityCritical {
			return true
		}
		if issue.Severity == trip.SeverityHigh {
			high++
		}
	}
	return high >= 3
}

func feedbackFromIssues(issues []trip.ValidationIssue) []string {
	feedback := make([]string, 0, len(issues))
	for _, issue := range issues {
		if issue.Severity == trip.SeverityLow {
			continue
		}
		line := fmt.Sprintf("[%s/%s] %s", issue.Category, issue.Severity, issue.Description)
		if issue.SuggestedFix != "" {
			line += " Fix: " + issue.SuggestedFix
		}
		feedback = append(feedback, line)
	}
	return feedback
}

func buildCriticPrompt(s trip.State) string {
	var b strings.Builder
	if s.TripSummary != nil {
		fmt.Fprintf(&b, "Trip: %s, %d days, pace %s\n", s.TripSummary.Title, s.TripSummary.TotalDays, s.TripSummary.Pace)
	}
	fmt.Fprintf(&b, "Cities: ")
	for _, c := range s.CityAllocations {
		fmt.Fprintf(&b, "%s(%dd) ", c.City, c.Days)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Attractions gathered: %d, meals: %d\n", len(s.Attractions), len(s.Meals))
	if s.RouteValidation != nil && !s.RouteValidation.RouteIsValid {
		b.WriteString("Route has infeasible segments:\n")
		for _, note := range s.RouteValidation.Notes {
			fmt.Fprintf(&b, "- %s\n", note)
		}
	}
	if s.BudgetBreakdown != nil {
		fmt.Fprintf(&b, "Estimated total budget: $%.0f %s\n", s.BudgetBreakdown.Total, s.BudgetBreakdown.Currency)
	}
	return b.String()
}
