package ai

import (
	"fmt"
	"strings"
)

// SeverityDescription maps a 0-100 severity score to the operational label
// used in prompts and briefings.
func SeverityDescription(score float64) string {
	switch {
	case score >= 90:
		return "CRITICAL"
	case score >= 75:
		return "SEVERE"
	case score >= 50:
		return "MODERATE"
	case score >= 25:
		return "MINOR"
	default:
		return "MINIMAL"
	}
}

func disasterExplanationPrompt(req ExplainRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "As an emergency response AI, explain the current %s at location (%.4f, %.4f) with severity level %s (%g/100).\n\n",
		req.DisasterType, req.Latitude, req.Longitude, SeverityDescription(req.SeverityScore), req.SeverityScore)
	b.WriteString("Provide:\n")
	b.WriteString("1. Immediate impacts and hazards\n")
	b.WriteString("2. Expected spread/duration estimates\n")
	b.WriteString("3. Most vulnerable populations\n")
	b.WriteString("4. Infrastructure at risk\n\n")
	b.WriteString("Keep explanation operational and actionable.")
	if req.Context != "" {
		fmt.Fprintf(&b, "\n\nAdditional context: %s", req.Context)
	}
	return b.String()
}

func resourcePriorityPrompt(req PrioritizeRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Given a %s severity %s disaster, prioritize dispatch from these available resources:\n\n",
		SeverityDescription(req.SeverityScore), req.DisasterType)
	for _, r := range req.AvailableResources {
		fmt.Fprintf(&b, "  - %s (%s type, %.1f km away)\n", r.Name, r.Type, r.DistanceKM)
	}
	b.WriteString("\nProvide:\n")
	b.WriteString("1. Top 3 resources to dispatch by priority\n")
	b.WriteString("2. Reasoning for each selection\n")
	b.WriteString("3. Type of assistance each should provide\n")
	b.WriteString("4. Recommended arrival sequence\n\n")
	b.WriteString("Be tactical and specific.")
	if req.CurrentSituation != "" {
		fmt.Fprintf(&b, "\n\nCurrent situation: %s", req.CurrentSituation)
	}
	return b.String()
}

func safetyInstructionsPrompt(req SafetyRequest) string {
	locationType := req.LocationType
	if locationType == "" {
		locationType = "urban"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Provide step-by-step safety instructions for civilians in a %s in a %s area.\n\n",
		req.DisasterType, locationType)
	b.WriteString("Include:\n")
	b.WriteString("1. Immediate actions (first 5 minutes)\n")
	b.WriteString("2. Safety measures to take\n")
	b.WriteString("3. What to avoid\n")
	b.WriteString("4. When to evacuate\n")
	b.WriteString("5. How to call for help\n")
	b.WriteString("6. Essential supplies to bring\n\n")
	b.WriteString("Format as numbered, concise, actionable steps.")
	if req.HasVulnerablePopulations {
		b.WriteString("\n\nSpecial considerations for elderly, disabled, and children.")
	}
	return b.String()
}
