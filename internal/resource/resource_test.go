package resource

import (
	"testing"

	"disaster-response/internal/common"
	domainerrors "disaster-response/internal/errors"
)

func newTestResource(id string, lat, lng float64, t Type) *Resource {
	r := New("unit-"+id, t, common.NewLocation(lat, lng), nil)
	r.ID = id
	return r
}

func TestNew_DefaultsAvailable(t *testing.T) {
	r := New("amb-1", TypeAmbulance, common.NewLocation(28.7, 77.1), nil)

	if r.Status != StatusAvailable {
		t.Fatalf("expected available, got %s", r.Status)
	}
	if r.Type != TypeAmbulance {
		t.Fatalf("expected ambulance, got %s", r.Type)
	}
	if r.ID == "" {
		t.Fatal("expected generated id")
	}
}

// --- Status machine ---

func TestTransition_AvailableToBusy(t *testing.T) {
	r := newTestResource("a", 0, 0, TypeDrone)
	if err := r.MarkBusy(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Status != StatusBusy {
		t.Fatalf("expected busy, got %s", r.Status)
	}
}

func TestTransition_BusyBackToAvailable(t *testing.T) {
	r := newTestResource("a", 0, 0, TypeDrone)
	_ = r.MarkBusy()
	if err := r.MarkAvailable(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Status != StatusAvailable {
		t.Fatalf("expected available, got %s", r.Status)
	}
}

func TestTransition_OfflineToBusy_Fails(t *testing.T) {
	r := newTestResource("a", 0, 0, TypeDrone)
	_ = r.MarkOffline()

	err := r.MarkBusy()
	if err == nil {
		t.Fatal("expected error")
	}
	de, ok := err.(*domainerrors.DomainError)
	if !ok {
		t.Fatalf("expected DomainError, got %T", err)
	}
	if de.Code != domainerrors.ErrInvalidTransition {
		t.Fatalf("expected INVALID_TRANSITION, got %s", de.Code)
	}
}

func TestTransition_SameStatus_Fails(t *testing.T) {
	r := newTestResource("a", 0, 0, TypeDrone)
	if err := r.MarkAvailable(); err == nil {
		t.Fatal("expected error for available -> available")
	}
}

// --- Locator ---

func TestRankNearby_SortsByDistance(t *testing.T) {
	center := common.NewLocation(28.7041, 77.1025)
	resources := []*Resource{
		newTestResource("far", 28.80, 77.10, TypeAmbulance),  // ~10.7 km north
		newTestResource("near", 28.71, 77.10, TypeAmbulance), // ~0.7 km north
		newTestResource("mid", 28.75, 77.10, TypeRescue),     // ~5.1 km north
	}

	nearby := RankNearby(resources, center, 50)

	if len(nearby) != 3 {
		t.Fatalf("expected 3 results, got %d", len(nearby))
	}
	if nearby[0].Resource.ID != "near" || nearby[1].Resource.ID != "mid" || nearby[2].Resource.ID != "far" {
		t.Fatalf("wrong order: %s, %s, %s", nearby[0].Resource.ID, nearby[1].Resource.ID, nearby[2].Resource.ID)
	}
	if nearby[0].DistanceKM >= nearby[1].DistanceKM {
		t.Fatal("distances not ascending")
	}
}

func TestRankNearby_FiltersOutsideRadius(t *testing.T) {
	center := common.NewLocation(28.7041, 77.1025)
	resources := []*Resource{
		newTestResource("inside", 28.71, 77.10, TypeDrone),
		newTestResource("outside", 29.70, 77.10, TypeDrone), // ~110 km away
	}

	nearby := RankNearby(resources, center, 10)

	if len(nearby) != 1 {
		t.Fatalf("expected 1 result, got %d", len(nearby))
	}
	if nearby[0].Resource.ID != "inside" {
		t.Fatalf("expected inside, got %s", nearby[0].Resource.ID)
	}
}

func TestRankNearby_TieBrokenByID(t *testing.T) {
	center := common.NewLocation(28.70, 77.10)
	resources := []*Resource{
		newTestResource("b", 28.71, 77.10, TypeDrone),
		newTestResource("a", 28.71, 77.10, TypeDrone),
	}

	nearby := RankNearby(resources, center, 10)

	if len(nearby) != 2 {
		t.Fatalf("expected 2 results, got %d", len(nearby))
	}
	if nearby[0].Resource.ID != "a" {
		t.Fatalf("expected id tie broken ascending, got %s first", nearby[0].Resource.ID)
	}
}

func TestRankNearby_CarriesETA(t *testing.T) {
	center := common.NewLocation(28.70, 77.10)
	resources := []*Resource{newTestResource("a", 28.70, 77.10, TypeAmbulance)}

	nearby := RankNearby(resources, center, 10)
	if nearby[0].EstimatedArrival != 0 {
		t.Fatalf("expected 0 minutes at zero distance, got %f", nearby[0].EstimatedArrival)
	}
}
