package disaster

import (
	"fmt"
	"math"
	"strings"
)

type ValidationRequest struct {
	Type          Type    `json:"type" binding:"required"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	SeverityScore float64 `json:"severity_score"`
	Description   string  `json:"description"`
	Source        string  `json:"source"`
}

type ValidationResult struct {
	IsValid            bool           `json:"is_valid"`
	ValidationScore    float64        `json:"validation_score"`
	Reason             string         `json:"reason"`
	SeverityLevel      string         `json:"severity_level"`
	RecommendedActions []string       `json:"recommended_actions"`
	ValidationDetails  map[string]any `json:"validation_details"`
}

var officialSources = map[string]bool{
	"usgs":              true,
	"official":          true,
	"government":        true,
	"emergency_service": true,
}

var citizenSources = map[string]bool{
	"news":           true,
	"media":          true,
	"citizen_report": true,
	"social_media":   true,
}

// Validate scores a disaster report on a 0-100 scale from four factors:
// source credibility, severity consistency, location validity and description
// quality. Reports scoring at least 40 are considered credible.
func Validate(req ValidationRequest) ValidationResult {
	score := 50.0
	details := map[string]any{
		"source_credibility":   0,
		"severity_consistency": 0,
		"location_validity":    0,
		"description_quality":  0,
	}
	var reasons []string

	source := strings.ToLower(req.Source)
	switch {
	case officialSources[source]:
		details["source_credibility"] = 95
		score += 20
		reasons = append(reasons, "High credibility source (official)")
	case citizenSources[source]:
		details["source_credibility"] = 60
		score += 5
		reasons = append(reasons, "Medium credibility source (citizen/media)")
	default:
		details["source_credibility"] = 40
		reasons = append(reasons, "Unknown source - requires verification")
	}

	severity := req.SeverityScore
	if severity >= 0 && severity <= 10 {
		switch {
		case severity >= 7:
			details["severity_consistency"] = 90
			score += 15
			reasons = append(reasons, "High severity score is critical")
		case severity >= 4:
			details["severity_consistency"] = 75
			score += 10
			reasons = append(reasons, "Medium severity score")
		default:
			details["severity_consistency"] = 60
			score += 5
			reasons = append(reasons, "Low severity score")
		}
	}

	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		details["location_validity"] = 0
		return ValidationResult{
			IsValid:            false,
			ValidationScore:    0,
			Reason:             "Invalid location data",
			SeverityLevel:      "Invalid",
			RecommendedActions: []string{},
			ValidationDetails:  details,
		}
	}
	details["location_validity"] = 85
	score += 10
	reasons = append(reasons, "Valid geographic coordinates")

	description := strings.TrimSpace(req.Description)
	switch {
	case len(description) >= 20:
		details["description_quality"] = 80
		score += 10
		reasons = append(reasons, "Detailed description provided")
	case len(description) >= 10:
		details["description_quality"] = 50
		score += 3
		reasons = append(reasons, "Brief description provided")
	default:
		details["description_quality"] = 20
		reasons = append(reasons, "Missing or minimal description")
	}

	score = math.Min(100, math.Max(0, score))
	isValid := score >= 40

	details["input_type"] = string(req.Type)
	details["input_severity"] = severity
	details["input_location"] = fmt.Sprintf("(%.4f, %.4f)", req.Latitude, req.Longitude)
	details["description_length"] = len(description)

	return ValidationResult{
		IsValid:            isValid,
		ValidationScore:    score,
		Reason:             fmt.Sprintf("Validation Score: %g%%. %s", score, strings.Join(reasons, " | ")),
		SeverityLevel:      severityLevel(severity),
		RecommendedActions: recommendedActions(isValid, severity),
		ValidationDetails:  details,
	}
}

func severityLevel(severity float64) string {
	switch {
	case severity >= 8:
		return "Critical"
	case severity >= 6:
		return "High"
	case severity >= 4:
		return "Medium"
	default:
		return "Low"
	}
}

func recommendedActions(isValid bool, severity float64) []string {
	if !isValid {
		return []string{
			"Disaster report requires additional verification",
			"Collect more credible evidence",
			"Contact source for confirmation",
			"Monitor for corroborating reports",
		}
	}

	actions := []string{"Disaster report is VALID - activate response protocols"}
	switch {
	case severity >= 8:
		actions = append(actions,
			"Deploy maximum available resources immediately",
			"Issue public alert and evacuation orders",
			"Activate emergency communication systems",
		)
	case severity >= 6:
		actions = append(actions,
			"Deploy adequate resources to affected area",
			"Monitor situation closely for escalation",
		)
	default:
		actions = append(actions, "Monitor situation and prepare resources")
	}
	actions = append(actions,
		"Establish command center at strategic location",
		"Activate medical and rescue teams",
		"Begin damage assessment",
	)
	return actions
}
