package alert

import "testing"

func fixed(v float64) func() float64 {
	return func() float64 { return v }
}

func TestEstimateRecipients_VarianceBounds(t *testing.T) {
	// randFloat at 0 gives the low end, just under 1 approaches the high end.
	if got := estimateRecipients(ScopeImmediate, fixed(0)); got != 400 {
		t.Fatalf("expected 400 at low variance, got %d", got)
	}
	if got := estimateRecipients(ScopeDistrict, fixed(0.5)); got != 50_000 {
		t.Fatalf("expected 50000 at mid variance, got %d", got)
	}
	high := estimateRecipients(ScopeNational, fixed(0.999))
	if high < 5_000_000 || high >= 6_000_000 {
		t.Fatalf("expected high variance within 20%%, got %d", high)
	}
}

func TestEstimateRecipients_ScopeOrdering(t *testing.T) {
	immediate := estimateRecipients(ScopeImmediate, fixed(0.5))
	district := estimateRecipients(ScopeDistrict, fixed(0.5))
	state := estimateRecipients(ScopeState, fixed(0.5))
	national := estimateRecipients(ScopeNational, fixed(0.5))

	if !(immediate < district && district < state && state < national) {
		t.Fatalf("expected widening reach: %d, %d, %d, %d", immediate, district, state, national)
	}
}

func TestEstimateRecipients_UnknownScopeFallsBack(t *testing.T) {
	unknown := estimateRecipients(Scope("galactic"), fixed(0.5))
	immediate := estimateRecipients(ScopeImmediate, fixed(0.5))
	if unknown != immediate {
		t.Fatalf("expected fallback to immediate base, got %d vs %d", unknown, immediate)
	}
}
