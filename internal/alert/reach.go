package alert

// Baseline audience per scope. Real delivery would go through cell broadcast
// or push infrastructure; these figures drive the simulated reach counter.
var scopeBaseRecipients = map[Scope]int{
	ScopeImmediate: 500,
	ScopeDistrict:  50_000,
	ScopeState:     500_000,
	ScopeNational:  5_000_000,
}

// estimateRecipients returns the simulated audience size for a scope with up
// to 20% variance either way. randFloat must return a value in [0, 1).
func estimateRecipients(scope Scope, randFloat func() float64) int {
	base, ok := scopeBaseRecipients[scope]
	if !ok {
		base = scopeBaseRecipients[ScopeImmediate]
	}
	return int(float64(base) * (0.8 + randFloat()*0.4))
}
