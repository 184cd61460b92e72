package sos

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"disaster-response/internal/alert"
	"disaster-response/internal/common"
	domainerrors "disaster-response/internal/errors"
	"disaster-response/internal/metrics"
	"disaster-response/internal/resource"
)

type UpdateRequest struct {
	Status            *Status `json:"status"`
	Description       *string `json:"description"`
	NearestResourceID *string `json:"nearest_resource_id"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*SOSReport, error)
	GetByID(ctx context.Context, id string) (*SOSReport, error)
	ListActive(ctx context.Context, limit int) ([]*SOSReport, error)
	Nearby(ctx context.Context, center common.Location, radiusKM float64, statusFilter string, limit int) ([]NearbyReport, error)
	ByType(ctx context.Context, emergencyType EmergencyType, activeOnly bool) ([]*SOSReport, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*SOSReport, error)
	Acknowledge(ctx context.Context, id string) (*SOSReport, error)
	Resolve(ctx context.Context, id string) (*SOSReport, error)
	Clustered(ctx context.Context, radiusKM float64) ([]Cluster, error)
	NearbyResources(ctx context.Context, sosID string, radiusKM float64) ([]resource.NearbyResource, error)
	Analytics(ctx context.Context) (*Analytics, error)
}

type service struct {
	repo            Repository
	resources       resource.Service
	alerts          alert.Service
	db              *sqlx.DB
	clusterRadiusKM float64
	logger          *slog.Logger
}

func NewSOSService(repo Repository, resources resource.Service, alerts alert.Service, db *sqlx.DB, clusterRadiusKM float64, logger *slog.Logger) Service {
	if clusterRadiusKM <= 0 {
		clusterRadiusKM = 2.0
	}
	return &service{
		repo:            repo,
		resources:       resources,
		alerts:          alerts,
		db:              db,
		clusterRadiusKM: clusterRadiusKM,
		logger:          logger,
	}
}

// Create records a citizen emergency report and broadcasts a new_sos alert.
// Severe reports (5+) go out district-wide, the rest stay in the immediate
// area.
func (s *service) Create(ctx context.Context, req CreateRequest) (*SOSReport, error) {
	if !req.EmergencyType.Valid() {
		return nil, domainerrors.NewValidation("emergency_type must be one of: medical, accident, fire, flooding, trapped, missing, other")
	}
	if err := common.ValidateLatLng(req.Latitude, req.Longitude); err != nil {
		return nil, domainerrors.NewInvalidLocation(err.Error())
	}
	if req.SeverityScore < 0 || req.SeverityScore > 10 {
		return nil, domainerrors.NewValidation("severity_score must be between 0 and 10")
	}

	report := New(req)
	if err := s.repo.Insert(ctx, s.db, report); err != nil {
		return nil, domainerrors.NewInternal("failed to create sos report", err)
	}

	metrics.SOSReportsTotal.WithLabelValues(string(report.EmergencyType)).Inc()
	s.logger.Info("sos report created",
		"sos_id", report.ID,
		"emergency_type", report.EmergencyType,
		"severity", report.SeverityScore,
		"urgent", report.IsUrgent,
	)

	scope := alert.ScopeImmediate
	if report.SeverityScore >= 5 {
		scope = alert.ScopeDistrict
	}
	if _, err := s.alerts.Broadcast(ctx, alert.Params{
		SOSReportID: report.ID,
		AlertType:   alert.TypeNewSOS,
		Message: fmt.Sprintf("New %s emergency reported near (%.4f, %.4f). Severity: %.1f/10",
			report.EmergencyType, report.Latitude, report.Longitude, report.SeverityScore),
		Scope:           scope,
		BroadcasterType: "citizen",
		Location:        report.Location(),
		Extra: map[string]any{
			"emergency_type": report.EmergencyType,
			"severity_score": report.SeverityScore,
		},
	}); err != nil {
		s.logger.Error("failed to broadcast new_sos alert", "sos_id", report.ID, "error", err)
	}

	return report, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*SOSReport, error) {
	report, err := s.repo.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, domainerrors.SOSNotFound(id)
	}
	return report, nil
}

func (s *service) ListActive(ctx context.Context, limit int) ([]*SOSReport, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListActive(ctx, s.db, limit)
}

// Nearby finds reports within radiusKM of a point, closest first. The status
// filter accepts a single status, "all", or empty for all active reports.
func (s *service) Nearby(ctx context.Context, center common.Location, radiusKM float64, statusFilter string, limit int) ([]NearbyReport, error) {
	if err := common.ValidateLatLng(center.Lat, center.Lng); err != nil {
		return nil, domainerrors.NewInvalidLocation(err.Error())
	}
	if radiusKM <= 0 {
		radiusKM = 5.0
	}
	if limit <= 0 {
		limit = 20
	}

	var reports []*SOSReport
	var err error
	if statusFilter != "" && statusFilter != "all" {
		status := Status(statusFilter)
		if !status.Valid() {
			return nil, domainerrors.NewValidation("invalid status filter")
		}
		reports, err = s.repo.ListByStatus(ctx, s.db, status)
	} else {
		reports, err = s.repo.ListActive(ctx, s.db, 0)
	}
	if err != nil {
		return nil, domainerrors.NewInternal("failed to list sos reports", err)
	}

	nearby := rankNearby(reports, center, radiusKM)
	if len(nearby) > limit {
		nearby = nearby[:limit]
	}
	return nearby, nil
}

func rankNearby(reports []*SOSReport, center common.Location, radiusKM float64) []NearbyReport {
	nearby := make([]NearbyReport, 0, len(reports))
	for _, r := range reports {
		dist := common.HaversineDistance(center, r.Location())
		if dist <= radiusKM {
			nearby = append(nearby, NearbyReport{Report: r, DistanceKM: dist})
		}
	}
	sort.Slice(nearby, func(i, j int) bool {
		if nearby[i].DistanceKM != nearby[j].DistanceKM {
			return nearby[i].DistanceKM < nearby[j].DistanceKM
		}
		return nearby[i].Report.ID < nearby[j].Report.ID
	})
	return nearby
}

func (s *service) ByType(ctx context.Context, emergencyType EmergencyType, activeOnly bool) ([]*SOSReport, error) {
	if !emergencyType.Valid() {
		return nil, domainerrors.NewValidation("unknown emergency type")
	}
	return s.repo.ListByType(ctx, s.db, emergencyType, activeOnly)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*SOSReport, error) {
	report, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, domainerrors.NewValidation("unknown sos status")
		}
		if err := report.TransitionTo(*req.Status); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		report.Description = *req.Description
	}
	if req.NearestResourceID != nil {
		report.NearestResourceID = req.NearestResourceID
	}
	report.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, s.db, report); err != nil {
		return nil, domainerrors.NewInternal("failed to update sos report", err)
	}
	return report, nil
}

func (s *service) Acknowledge(ctx context.Context, id string) (*SOSReport, error) {
	report, err := s.transition(ctx, id, StatusAcknowledged)
	if err != nil {
		return nil, err
	}

	if _, err := s.alerts.Broadcast(ctx, alert.Params{
		SOSReportID:     report.ID,
		AlertType:       alert.TypeStatusUpdate,
		Message:         "SOS report acknowledged. Emergency response initiated.",
		Scope:           alert.ScopeImmediate,
		BroadcasterType: "emergency_official",
		Location:        report.Location(),
		Extra:           map[string]any{"status": report.Status},
	}); err != nil {
		s.logger.Error("failed to broadcast acknowledgement", "sos_id", report.ID, "error", err)
	}

	return report, nil
}

func (s *service) Resolve(ctx context.Context, id string) (*SOSReport, error) {
	report, err := s.transition(ctx, id, StatusResolved)
	if err != nil {
		return nil, err
	}

	if _, err := s.alerts.Broadcast(ctx, alert.Params{
		SOSReportID:     report.ID,
		AlertType:       alert.TypeResolved,
		Message:         "Emergency resolved. Response completed.",
		Scope:           alert.ScopeImmediate,
		BroadcasterType: "emergency_official",
		Location:        report.Location(),
		Extra:           map[string]any{"status": report.Status},
	}); err != nil {
		s.logger.Error("failed to broadcast resolution", "sos_id", report.ID, "error", err)
	}

	return report, nil
}

func (s *service) transition(ctx context.Context, id string, to Status) (*SOSReport, error) {
	report, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := report.TransitionTo(to); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, s.db, report); err != nil {
		return nil, domainerrors.NewInternal("failed to update sos report", err)
	}
	s.logger.Info("sos status changed", "sos_id", report.ID, "status", report.Status)
	return report, nil
}

// Clustered groups active reports for map display. Reports are clustered in
// reporting order so repeated calls over the same data produce the same
// cluster ids.
func (s *service) Clustered(ctx context.Context, radiusKM float64) ([]Cluster, error) {
	if radiusKM <= 0 {
		radiusKM = s.clusterRadiusKM
	}

	reports, err := s.repo.ListActive(ctx, s.db, 0)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to list active sos reports", err)
	}
	sort.Slice(reports, func(i, j int) bool {
		if !reports[i].ReportedAt.Equal(reports[j].ReportedAt) {
			return reports[i].ReportedAt.Before(reports[j].ReportedAt)
		}
		return reports[i].ID < reports[j].ID
	})

	countNearby := func(center common.Location) int {
		nearby, err := s.resources.FindNearby(ctx, center, 5.0, nil, nil)
		if err != nil {
			return 0
		}
		available := 0
		for _, n := range nearby {
			if n.Resource.Status == resource.StatusAvailable {
				available++
			}
		}
		return available
	}

	return ClusterReports(reports, radiusKM, countNearby), nil
}

func (s *service) NearbyResources(ctx context.Context, sosID string, radiusKM float64) ([]resource.NearbyResource, error) {
	if radiusKM <= 0 {
		radiusKM = 10.0
	}
	report, err := s.GetByID(ctx, sosID)
	if err != nil {
		return nil, err
	}
	status := resource.StatusAvailable
	return s.resources.FindNearby(ctx, report.Location(), radiusKM, &status, nil)
}

// Analytics aggregates operational counters. The independent queries fan out
// concurrently; the nearby-resource tally runs last since it needs the active
// report list.
func (s *service) Analytics(ctx context.Context) (*Analytics, error) {
	var result Analytics
	var active []*SOSReport

	today := time.Now().Truncate(24 * time.Hour)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.repo.CountActive(gctx, s.db)
		result.TotalActiveSOS = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountResolvedSince(gctx, s.db, today)
		result.TotalResolvedToday = n
		return err
	})
	g.Go(func() error {
		avg, err := s.repo.AverageResponseMinutes(gctx, s.db)
		result.AverageResponseTimeMinutes = math.Round(avg*10) / 10
		return err
	})
	g.Go(func() error {
		t, err := s.repo.MostCommonEmergencyType(gctx, s.db)
		result.MostCommonEmergencyType = t
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountUrgentActive(gctx, s.db)
		result.UrgentCases = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountAvailableHelpers(gctx, s.db)
		result.CrowdAssistanceAvailable = n
		return err
	})
	g.Go(func() error {
		var err error
		active, err = s.repo.ListActive(gctx, s.db, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, domainerrors.NewInternal("failed to compute sos analytics", err)
	}

	status := resource.StatusAvailable
	for _, report := range active {
		nearby, err := s.resources.FindNearby(ctx, report.Location(), 10.0, &status, nil)
		if err != nil {
			continue
		}
		result.NearbyResourcesCount += len(nearby)
	}

	return &result, nil
}
