package dispatch

import (
	"testing"

	"disaster-response/internal/common"
	"disaster-response/internal/resource"
)

func testResource(id string, lat, lng float64, t resource.Type) *resource.Resource {
	r := resource.New("unit-"+id, t, common.NewLocation(lat, lng), nil)
	r.ID = id
	return r
}

// --- Priority bonus ---

func TestTypePriorityBonus(t *testing.T) {
	priority := []resource.Type{resource.TypeAmbulance, resource.TypeDrone}

	if b := typePriorityBonus(resource.TypeAmbulance, priority); b != 200 {
		t.Fatalf("expected 200 for first choice, got %f", b)
	}
	if b := typePriorityBonus(resource.TypeDrone, priority); b != 100 {
		t.Fatalf("expected 100 for second choice, got %f", b)
	}
	if b := typePriorityBonus(resource.TypeRescue, priority); b != 0 {
		t.Fatalf("expected 0 for unlisted type, got %f", b)
	}
	if b := typePriorityBonus(resource.TypeAmbulance, nil); b != 0 {
		t.Fatalf("expected 0 with no priority list, got %f", b)
	}
}

// --- Selection ---

func TestSelectBest_NearestWinsWithoutPriority(t *testing.T) {
	disaster := common.NewLocation(28.70, 77.10)
	candidates := []*resource.Resource{
		testResource("far", 28.90, 77.10, resource.TypeAmbulance),
		testResource("near", 28.71, 77.10, resource.TypeAmbulance),
	}

	best := selectBest(candidates, disaster, nil)
	if best == nil {
		t.Fatal("expected a candidate")
	}
	if best.resource.ID != "near" {
		t.Fatalf("expected near, got %s", best.resource.ID)
	}
}

func TestSelectBest_PriorityBeatsDistance(t *testing.T) {
	disaster := common.NewLocation(28.70, 77.10)
	// The rescue unit is closer, but ambulances are preferred and the
	// 100-point bonus dwarfs a few kilometers.
	candidates := []*resource.Resource{
		testResource("rescue-near", 28.71, 77.10, resource.TypeRescue),
		testResource("amb-far", 28.80, 77.10, resource.TypeAmbulance),
	}

	best := selectBest(candidates, disaster, []resource.Type{resource.TypeAmbulance})
	if best.resource.ID != "amb-far" {
		t.Fatalf("expected amb-far, got %s", best.resource.ID)
	}
}

func TestSelectBest_TieGoesToLowestID(t *testing.T) {
	disaster := common.NewLocation(28.70, 77.10)
	candidates := []*resource.Resource{
		testResource("b", 28.71, 77.10, resource.TypeDrone),
		testResource("a", 28.71, 77.10, resource.TypeDrone),
	}

	best := selectBest(candidates, disaster, nil)
	if best.resource.ID != "a" {
		t.Fatalf("expected a, got %s", best.resource.ID)
	}
}

func TestSelectBest_Empty(t *testing.T) {
	if best := selectBest(nil, common.NewLocation(0, 0), nil); best != nil {
		t.Fatal("expected nil for no candidates")
	}
}

// --- Record status machine ---

func TestDispatchRecord_ForwardTransitions(t *testing.T) {
	rec := NewRecord("res-1", common.NewLocation(28.7, 77.1), "earthquake", 8, 3.2, 0)

	if rec.Status != StatusDispatched {
		t.Fatalf("expected dispatched, got %s", rec.Status)
	}
	if err := rec.TransitionTo(StatusEnRoute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := rec.TransitionTo(StatusCompleted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rec.Terminal() {
		t.Fatal("completed record should be terminal")
	}
}

func TestDispatchRecord_NoReopening(t *testing.T) {
	rec := NewRecord("res-1", common.NewLocation(28.7, 77.1), "flood", 5, 1.0, 0)
	_ = rec.TransitionTo(StatusCancelled)

	if err := rec.TransitionTo(StatusEnRoute); err == nil {
		t.Fatal("expected error reopening a cancelled record")
	}
}

func TestFilterByType(t *testing.T) {
	resources := []*resource.Resource{
		testResource("a", 0, 0, resource.TypeAmbulance),
		testResource("b", 0, 0, resource.TypeDrone),
		testResource("c", 0, 0, resource.TypeRescue),
	}

	filtered := filterByType(resources, []resource.Type{resource.TypeDrone, resource.TypeRescue})
	if len(filtered) != 2 {
		t.Fatalf("expected 2, got %d", len(filtered))
	}
	for _, r := range filtered {
		if r.Type == resource.TypeAmbulance {
			t.Fatal("ambulance should have been filtered out")
		}
	}
}
