package disaster

import (
	"strings"
	"testing"
)

func TestValidate_OfficialHighSeverityDetailed(t *testing.T) {
	result := Validate(ValidationRequest{
		Type:          TypeEarthquake,
		Latitude:      28.7041,
		Longitude:     77.1025,
		SeverityScore: 8.5,
		Description:   "Major earthquake felt across the city, buildings damaged",
		Source:        "usgs",
	})

	// 50 base + 20 official + 15 high severity + 10 location + 10 description.
	if result.ValidationScore != 100 {
		t.Fatalf("expected score 100, got %g", result.ValidationScore)
	}
	if !result.IsValid {
		t.Fatal("expected valid report")
	}
	if result.SeverityLevel != "Critical" {
		t.Fatalf("expected Critical, got %s", result.SeverityLevel)
	}
	if !strings.Contains(result.Reason, "High credibility source (official)") {
		t.Fatalf("reason missing source factor: %s", result.Reason)
	}
	if len(result.RecommendedActions) == 0 {
		t.Fatal("expected recommended actions")
	}
	if result.RecommendedActions[0] != "Disaster report is VALID - activate response protocols" {
		t.Fatalf("unexpected first action: %s", result.RecommendedActions[0])
	}
}

func TestValidate_InvalidCoordinates(t *testing.T) {
	result := Validate(ValidationRequest{
		Type:          TypeFlood,
		Latitude:      95.0,
		Longitude:     77.1,
		SeverityScore: 7,
		Source:        "official",
	})

	if result.IsValid {
		t.Fatal("expected invalid report")
	}
	if result.ValidationScore != 0 {
		t.Fatalf("expected score 0, got %g", result.ValidationScore)
	}
	if result.Reason != "Invalid location data" {
		t.Fatalf("unexpected reason: %s", result.Reason)
	}
	if result.SeverityLevel != "Invalid" {
		t.Fatalf("expected Invalid, got %s", result.SeverityLevel)
	}
	if len(result.RecommendedActions) != 0 {
		t.Fatalf("expected no actions, got %v", result.RecommendedActions)
	}
}

func TestValidate_UnknownSourceStillPasses(t *testing.T) {
	// 50 base + 0 source + 5 low severity + 10 location + 0 description = 65.
	result := Validate(ValidationRequest{
		Type:          TypeWildfire,
		Latitude:      19.0,
		Longitude:     72.8,
		SeverityScore: 2,
		Source:        "anonymous_tip",
	})

	if result.ValidationScore != 65 {
		t.Fatalf("expected score 65, got %g", result.ValidationScore)
	}
	if !result.IsValid {
		t.Fatal("expected valid report at score 65")
	}
	if !strings.Contains(result.Reason, "Unknown source - requires verification") {
		t.Fatalf("reason missing source factor: %s", result.Reason)
	}
}

func TestValidate_CitizenSourceBriefDescription(t *testing.T) {
	// 50 base + 5 citizen + 10 medium severity + 10 location + 3 brief = 78.
	result := Validate(ValidationRequest{
		Type:          TypeHurricane,
		Latitude:      13.08,
		Longitude:     80.27,
		SeverityScore: 5,
		Description:   "heavy winds",
		Source:        "social_media",
	})

	if result.ValidationScore != 78 {
		t.Fatalf("expected score 78, got %g", result.ValidationScore)
	}
	if result.SeverityLevel != "Medium" {
		t.Fatalf("expected Medium, got %s", result.SeverityLevel)
	}
	if result.ValidationDetails["description_quality"] != 50 {
		t.Fatalf("expected brief description quality 50, got %v", result.ValidationDetails["description_quality"])
	}
}

func TestSeverityLevel_Boundaries(t *testing.T) {
	cases := []struct {
		severity float64
		want     string
	}{
		{9.0, "Critical"},
		{8.0, "Critical"},
		{7.9, "High"},
		{6.0, "High"},
		{5.0, "Medium"},
		{4.0, "Medium"},
		{3.9, "Low"},
		{0, "Low"},
	}
	for _, tc := range cases {
		if got := severityLevel(tc.severity); got != tc.want {
			t.Errorf("severityLevel(%g) = %s, want %s", tc.severity, got, tc.want)
		}
	}
}

func TestRecommendedActions_ScaleWithSeverity(t *testing.T) {
	critical := recommendedActions(true, 9)
	moderate := recommendedActions(true, 5)

	if len(critical) <= len(moderate) {
		t.Fatalf("critical should carry more actions: %d vs %d", len(critical), len(moderate))
	}

	invalid := recommendedActions(false, 9)
	if invalid[0] != "Disaster report requires additional verification" {
		t.Fatalf("unexpected first action for invalid report: %s", invalid[0])
	}
}

// --- Lifecycle ---

func TestDisaster_LifecycleTransitions(t *testing.T) {
	d := New(CreateRequest{
		Type:          TypeEarthquake,
		Latitude:      28.7,
		Longitude:     77.1,
		SeverityScore: 8,
		Description:   "test",
	})

	if d.Status != StatusReported {
		t.Fatalf("expected reported, got %s", d.Status)
	}
	if err := d.TransitionTo(StatusActive); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.TransitionTo(StatusResolved); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ResolvedAt == nil {
		t.Fatal("expected resolved_at stamp")
	}
	if err := d.TransitionTo(StatusActive); err == nil {
		t.Fatal("expected error reopening a resolved disaster")
	}
}
