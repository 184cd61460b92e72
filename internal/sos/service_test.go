package sos

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"disaster-response/internal/common"
	"disaster-response/internal/resource"
)

type fakeSOSRepo struct {
	Repository
	active []*SOSReport
}

func (f *fakeSOSRepo) ListActive(_ context.Context, _ sqlx.ExtContext, _ int) ([]*SOSReport, error) {
	return f.active, nil
}

type fakeResourceService struct {
	resource.Service
}

func (f *fakeResourceService) FindNearby(_ context.Context, _ common.Location, _ float64, _ *resource.Status, _ *resource.Type) ([]resource.NearbyResource, error) {
	return nil, nil
}

func clusterTestService(radiusKM float64, active []*SOSReport) Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSOSService(&fakeSOSRepo{active: active}, &fakeResourceService{}, nil, nil, radiusKM, logger)
}

func TestClustered_UsesConfiguredRadiusByDefault(t *testing.T) {
	base := time.Now()
	// ~1.1 km apart: one cluster at the 2 km default, two clusters at 0.5 km.
	reports := []*SOSReport{
		testReport("a", 28.700, 77.100, 5, EmergencyMedical, base),
		testReport("b", 28.710, 77.100, 5, EmergencyMedical, base.Add(time.Minute)),
	}

	svc := clusterTestService(2.0, reports)
	clusters, err := svc.Clustered(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster at configured radius, got %d", len(clusters))
	}

	narrow := clusterTestService(0.5, reports)
	clusters, err = narrow.Clustered(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters at narrow radius, got %d", len(clusters))
	}
}

func TestClustered_ExplicitRadiusWins(t *testing.T) {
	base := time.Now()
	reports := []*SOSReport{
		testReport("a", 28.700, 77.100, 5, EmergencyFire, base),
		testReport("b", 28.710, 77.100, 5, EmergencyFire, base),
	}

	svc := clusterTestService(0.5, reports)
	clusters, err := svc.Clustered(context.Background(), 5.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clusters) != 1 {
		t.Fatalf("expected explicit radius to override configuration, got %d clusters", len(clusters))
	}
}
