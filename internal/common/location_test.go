package common

import (
	"math"
	"testing"
	"time"
)

var (
	delhi  = NewLocation(28.7041, 77.1025)
	mumbai = NewLocation(19.0760, 72.8777)
)

func TestHaversineDistance_ZeroForSamePoint(t *testing.T) {
	if d := HaversineDistance(delhi, delhi); d != 0 {
		t.Fatalf("expected 0, got %f", d)
	}
}

func TestHaversineDistance_Symmetric(t *testing.T) {
	ab := HaversineDistance(delhi, mumbai)
	ba := HaversineDistance(mumbai, delhi)
	if math.Abs(ab-ba) > 1e-9 {
		t.Fatalf("expected symmetric distance, got %f and %f", ab, ba)
	}
}

func TestHaversineDistance_DelhiToMumbai(t *testing.T) {
	d := HaversineDistance(delhi, mumbai)
	if d < 1100 || d > 1200 {
		t.Fatalf("expected roughly 1150 km, got %f", d)
	}
}

func TestHaversineDistance_Antipodal(t *testing.T) {
	a := NewLocation(0, 0)
	b := NewLocation(0, 180)
	d := HaversineDistance(a, b)
	// Half the Earth's circumference.
	if math.Abs(d-math.Pi*6371) > 1 {
		t.Fatalf("expected ~20015 km, got %f", d)
	}
}

// --- ETA ---

func TestEstimateArrival_KnownSpeeds(t *testing.T) {
	if eta := EstimateArrival(120, "ambulance"); eta != 2*time.Hour {
		t.Fatalf("expected 2h for 120km ambulance, got %s", eta)
	}
	if eta := EstimateArrival(50, "drone"); eta != time.Hour {
		t.Fatalf("expected 1h for 50km drone, got %s", eta)
	}
	if eta := EstimateArrival(40, "rescue"); eta != time.Hour {
		t.Fatalf("expected 1h for 40km rescue, got %s", eta)
	}
}

func TestEstimateArrival_UnknownTypeUsesDefault(t *testing.T) {
	if eta := EstimateArrival(50, "helicopter"); eta != time.Hour {
		t.Fatalf("expected default 50 km/h, got %s", eta)
	}
}

func TestEstimateArrivalMinutes_Rounded(t *testing.T) {
	// 10 km at 40 km/h is 15 minutes exactly.
	if m := EstimateArrivalMinutes(10, "rescue"); m != 15.0 {
		t.Fatalf("expected 15.0, got %f", m)
	}
	if m := EstimateArrivalMinutes(0, "ambulance"); m != 0 {
		t.Fatalf("expected 0 for zero distance, got %f", m)
	}
}

// --- Validation ---

func TestValidateLatLng(t *testing.T) {
	if err := ValidateLatLng(28.7, 77.1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateLatLng(91, 0); err == nil {
		t.Fatal("expected error for latitude > 90")
	}
	if err := ValidateLatLng(-91, 0); err == nil {
		t.Fatal("expected error for latitude < -90")
	}
	if err := ValidateLatLng(0, 181); err == nil {
		t.Fatal("expected error for longitude > 180")
	}
	if err := ValidateLatLng(0, -181); err == nil {
		t.Fatal("expected error for longitude < -180")
	}
	if err := ValidateLatLng(90, -180); err != nil {
		t.Fatalf("boundary values should be valid: %v", err)
	}
}
