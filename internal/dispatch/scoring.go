package dispatch

import (
	"math"
	"time"

	"disaster-response/internal/common"
	"disaster-response/internal/resource"
)

type candidate struct {
	resource *resource.Resource
	distance float64
	eta      time.Duration
	score    float64
}

// typePriorityBonus rewards resource types by their position in the caller's
// preference list: first choice gets len*100, last gets 100, unlisted gets 0.
func typePriorityBonus(t resource.Type, priority []resource.Type) float64 {
	for i, p := range priority {
		if p == t {
			return float64(len(priority)-i) * 100
		}
	}
	return 0
}

// selectBest scores every candidate as priority bonus minus distance and picks
// the highest. Ties go to the lowest resource id so selection is deterministic.
func selectBest(resources []*resource.Resource, disaster common.Location, priority []resource.Type) *candidate {
	var best *candidate

	for _, r := range resources {
		dist := common.HaversineDistance(disaster, r.Location())
		c := &candidate{
			resource: r,
			distance: dist,
			eta:      common.EstimateArrival(dist, string(r.Type)),
			score:    typePriorityBonus(r.Type, priority) - dist,
		}
		if best == nil || c.score > best.score ||
			(c.score == best.score && c.resource.ID < best.resource.ID) {
			best = c
		}
	}

	return best
}

func roundKM(d float64) float64 {
	return math.Round(d*100) / 100
}
