package sos

import (
	"fmt"
	"time"

	"disaster-response/internal/common"
)

// Cluster is a group of active reports within clustering distance of a seed
// report, aggregated for map display.
type Cluster struct {
	ClusterID          string     `json:"cluster_id"`
	CenterLatitude     float64    `json:"center_latitude"`
	CenterLongitude    float64    `json:"center_longitude"`
	NumIncidents       int        `json:"num_incidents"`
	SeverityAverage    float64    `json:"severity_average"`
	IncidentTypes      []string   `json:"incident_types"`
	MostRecentIncident time.Time  `json:"most_recent_incident"`
	NearbyResources    int        `json:"nearby_resources"`
	Incidents          []*SOSReport `json:"-"`
}

// ClusterReports groups reports with single-pass greedy absorption: the first
// unprocessed report seeds a cluster and absorbs every later report within
// radiusKM of the seed (not of the growing cluster). The centroid is the mean
// of member coordinates. countNearbyResources is consulted once per cluster
// with the centroid; pass nil to skip the lookup.
func ClusterReports(reports []*SOSReport, radiusKM float64, countNearbyResources func(center common.Location) int) []Cluster {
	clusters := []Cluster{}
	processed := make([]bool, len(reports))

	for i, seed := range reports {
		if processed[i] {
			continue
		}
		members := []*SOSReport{seed}
		processed[i] = true

		for j := i + 1; j < len(reports); j++ {
			if processed[j] {
				continue
			}
			if common.HaversineDistance(seed.Location(), reports[j].Location()) <= radiusKM {
				members = append(members, reports[j])
				processed[j] = true
			}
		}

		clusters = append(clusters, summarize(members, len(clusters), countNearbyResources))
	}

	return clusters
}

func summarize(members []*SOSReport, index int, countNearbyResources func(center common.Location) int) Cluster {
	var sumLat, sumLng, sumSeverity float64
	mostRecent := members[0].ReportedAt
	seen := map[string]bool{}
	types := []string{}

	for _, r := range members {
		sumLat += r.Latitude
		sumLng += r.Longitude
		sumSeverity += r.SeverityScore
		if r.ReportedAt.After(mostRecent) {
			mostRecent = r.ReportedAt
		}
		if t := string(r.EmergencyType); !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}

	n := float64(len(members))
	center := common.NewLocation(sumLat/n, sumLng/n)

	nearby := 0
	if countNearbyResources != nil {
		nearby = countNearbyResources(center)
	}

	return Cluster{
		ClusterID:          fmt.Sprintf("cluster_%d", index),
		CenterLatitude:     center.Lat,
		CenterLongitude:    center.Lng,
		NumIncidents:       len(members),
		SeverityAverage:    sumSeverity / n,
		IncidentTypes:      types,
		MostRecentIncident: mostRecent,
		NearbyResources:    nearby,
		Incidents:          members,
	}
}
