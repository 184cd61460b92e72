package sos

import (
	"math"
	"testing"
	"time"

	"disaster-response/internal/common"
)

func testReport(id string, lat, lng, severity float64, t EmergencyType, reported time.Time) *SOSReport {
	return &SOSReport{
		ID:            id,
		Latitude:      lat,
		Longitude:     lng,
		EmergencyType: t,
		SeverityScore: severity,
		Status:        StatusPending,
		ReportedAt:    reported,
	}
}

func TestClusterReports_GroupsCloseReports(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reports := []*SOSReport{
		testReport("a", 28.700, 77.100, 6, EmergencyMedical, base),
		testReport("b", 28.705, 77.102, 8, EmergencyFire, base.Add(10*time.Minute)),
		testReport("c", 28.702, 77.101, 4, EmergencyMedical, base.Add(5*time.Minute)),
	}

	clusters := ClusterReports(reports, 2.0, nil)

	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(clusters))
	}
	c := clusters[0]
	if c.ClusterID != "cluster_0" {
		t.Fatalf("expected cluster_0, got %s", c.ClusterID)
	}
	if c.NumIncidents != 3 {
		t.Fatalf("expected 3 incidents, got %d", c.NumIncidents)
	}
	if math.Abs(c.SeverityAverage-6.0) > 1e-9 {
		t.Fatalf("expected severity average 6.0, got %f", c.SeverityAverage)
	}
	// Types deduplicated in first-seen order.
	if len(c.IncidentTypes) != 2 || c.IncidentTypes[0] != "medical" || c.IncidentTypes[1] != "fire" {
		t.Fatalf("unexpected incident types: %v", c.IncidentTypes)
	}
	if !c.MostRecentIncident.Equal(base.Add(10 * time.Minute)) {
		t.Fatalf("unexpected most recent incident: %s", c.MostRecentIncident)
	}
	wantLat := (28.700 + 28.705 + 28.702) / 3
	if math.Abs(c.CenterLatitude-wantLat) > 1e-9 {
		t.Fatalf("expected centroid latitude %f, got %f", wantLat, c.CenterLatitude)
	}
}

func TestClusterReports_SeparatesDistantGroups(t *testing.T) {
	base := time.Now()
	reports := []*SOSReport{
		testReport("a", 28.70, 77.10, 5, EmergencyFlooding, base),
		testReport("b", 28.701, 77.101, 5, EmergencyFlooding, base),
		// Mumbai, well outside any 2km radius of the first seed.
		testReport("c", 19.07, 72.87, 7, EmergencyTrapped, base),
	}

	clusters := ClusterReports(reports, 2.0, nil)

	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(clusters))
	}
	if clusters[0].ClusterID != "cluster_0" || clusters[1].ClusterID != "cluster_1" {
		t.Fatalf("unexpected cluster ids: %s, %s", clusters[0].ClusterID, clusters[1].ClusterID)
	}
	if clusters[0].NumIncidents != 2 || clusters[1].NumIncidents != 1 {
		t.Fatalf("unexpected sizes: %d, %d", clusters[0].NumIncidents, clusters[1].NumIncidents)
	}
}

func TestClusterReports_CountsNearbyResourcesPerCluster(t *testing.T) {
	reports := []*SOSReport{
		testReport("a", 28.70, 77.10, 5, EmergencyMedical, time.Now()),
	}

	calls := 0
	clusters := ClusterReports(reports, 2.0, func(center common.Location) int {
		calls++
		if math.Abs(center.Lat-28.70) > 1e-9 {
			t.Fatalf("unexpected centroid latitude %f", center.Lat)
		}
		return 3
	})

	if calls != 1 {
		t.Fatalf("expected 1 lookup, got %d", calls)
	}
	if clusters[0].NearbyResources != 3 {
		t.Fatalf("expected 3 nearby resources, got %d", clusters[0].NearbyResources)
	}
}

func TestClusterReports_Empty(t *testing.T) {
	clusters := ClusterReports(nil, 2.0, nil)
	if len(clusters) != 0 {
		t.Fatalf("expected no clusters, got %d", len(clusters))
	}
}

// --- Nearby ranking ---

func TestRankNearby_SortsAndFilters(t *testing.T) {
	center := common.NewLocation(28.7041, 77.1025)
	reports := []*SOSReport{
		testReport("far", 28.80, 77.10, 5, EmergencyMedical, time.Now()),
		testReport("near", 28.71, 77.10, 5, EmergencyMedical, time.Now()),
		testReport("outside", 29.70, 77.10, 5, EmergencyMedical, time.Now()),
	}

	nearby := rankNearby(reports, center, 20)

	if len(nearby) != 2 {
		t.Fatalf("expected 2 results, got %d", len(nearby))
	}
	if nearby[0].Report.ID != "near" || nearby[1].Report.ID != "far" {
		t.Fatalf("wrong order: %s, %s", nearby[0].Report.ID, nearby[1].Report.ID)
	}
}

// --- Status machine ---

func TestSOSReport_ForwardOnly(t *testing.T) {
	r := New(CreateRequest{
		ReporterName:  "Asha",
		ReporterPhone: "+911234567890",
		Latitude:      28.7,
		Longitude:     77.1,
		EmergencyType: EmergencyMedical,
		SeverityScore: 6,
	})

	if r.Status != StatusPending {
		t.Fatalf("expected pending, got %s", r.Status)
	}
	if !r.CrowdAssistanceEnabled {
		t.Fatal("crowd assistance should default on")
	}
	if r.NumPeopleAffected != 1 {
		t.Fatalf("expected at least 1 person affected, got %d", r.NumPeopleAffected)
	}

	if err := r.TransitionTo(StatusAcknowledged); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.AcknowledgedAt == nil {
		t.Fatal("expected acknowledged_at stamp")
	}
	if err := r.TransitionTo(StatusResolved); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.ResolvedAt == nil {
		t.Fatal("expected resolved_at stamp")
	}
	if err := r.TransitionTo(StatusPending); err == nil {
		t.Fatal("expected error moving backwards from resolved")
	}
}
