package resource

import (
	"sort"

	"disaster-response/internal/common"
)

// RankNearby keeps the resources within radiusKM of center and orders them by
// ascending distance, ties broken by id so results are deterministic.
func RankNearby(resources []*Resource, center common.Location, radiusKM float64) []NearbyResource {
	nearby := make([]NearbyResource, 0, len(resources))

	for _, r := range resources {
		dist := common.HaversineDistance(center, r.Location())
		if dist > radiusKM {
			continue
		}
		nearby = append(nearby, NearbyResource{
			Resource:         r,
			DistanceKM:       dist,
			EstimatedArrival: common.EstimateArrivalMinutes(dist, string(r.Type)),
		})
	}

	sort.Slice(nearby, func(i, j int) bool {
		if nearby[i].DistanceKM != nearby[j].DistanceKM {
			return nearby[i].DistanceKM < nearby[j].DistanceKM
		}
		return nearby[i].Resource.ID < nearby[j].Resource.ID
	})

	return nearby
}
