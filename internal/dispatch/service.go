package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"disaster-response/internal/common"
	domainerrors "disaster-response/internal/errors"
	"disaster-response/internal/metrics"
	"disaster-response/internal/resource"
)

type Service interface {
	AutoDispatch(ctx context.Context, req Request) (*Recommendation, error)
	GetByID(ctx context.Context, id string) (*DispatchRecord, error)
	ListActive(ctx context.Context) ([]*ActiveDispatch, error)
	UpdateStatus(ctx context.Context, id string, newStatus Status) (*DispatchRecord, error)
}

type service struct {
	repo        Repository
	resources   resource.Service
	db          *sqlx.DB
	broadcaster resource.Broadcaster
	logger      *slog.Logger
}

func NewDispatchService(repo Repository, resources resource.Service, db *sqlx.DB, broadcaster resource.Broadcaster, logger *slog.Logger) Service {
	return &service{
		repo:        repo,
		resources:   resources,
		db:          db,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// AutoDispatch picks the best available resource for a disaster and claims it.
// Candidate selection and the status flip run in one transaction over locked
// rows, so two concurrent dispatches can never claim the same resource.
func (s *service) AutoDispatch(ctx context.Context, req Request) (*Recommendation, error) {
	if err := common.ValidateLatLng(req.DisasterLat, req.DisasterLon); err != nil {
		return nil, domainerrors.NewInvalidLocation(err.Error())
	}
	for _, t := range req.ResourceTypePriority {
		if !t.Valid() {
			return nil, domainerrors.NewValidation(fmt.Sprintf("unknown resource type %q in priority list", t))
		}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to begin dispatch transaction", err)
	}
	defer tx.Rollback()

	available, err := s.resources.ListAvailableForUpdate(ctx, tx, nil)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to list available resources", err)
	}
	if len(req.ResourceTypePriority) > 0 {
		available = filterByType(available, req.ResourceTypePriority)
	}

	disaster := common.NewLocation(req.DisasterLat, req.DisasterLon)
	best := selectBest(available, disaster, req.ResourceTypePriority)
	if best == nil {
		metrics.DispatchesTotal.WithLabelValues("no_resource").Inc()
		return nil, domainerrors.NoAvailableResource()
	}

	if err := best.resource.MarkBusy(); err != nil {
		return nil, err
	}
	if err := s.resources.UpdateWithTx(ctx, tx, best.resource); err != nil {
		return nil, domainerrors.NewInternal("failed to claim resource", err)
	}

	record := NewRecord(best.resource.ID, disaster, req.DisasterType, req.SeverityScore, best.distance, best.eta)
	if err := s.repo.Insert(ctx, tx, record); err != nil {
		return nil, domainerrors.NewInternal("failed to create dispatch record", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, domainerrors.NewInternal("failed to commit dispatch", err)
	}

	metrics.DispatchesTotal.WithLabelValues("dispatched").Inc()
	s.logger.Info("resource dispatched",
		"dispatch_id", record.ID,
		"resource_id", best.resource.ID,
		"distance_km", roundKM(best.distance),
		"disaster_type", req.DisasterType,
	)

	event := map[string]any{
		"type":          "dispatch_alert",
		"dispatch_id":   record.ID,
		"resource_id":   best.resource.ID,
		"resource_type": best.resource.Type,
		"disaster_type": req.DisasterType,
		"distance_km":   roundKM(best.distance),
		"timestamp":     record.DispatchTime.UTC().Format(time.RFC3339),
	}
	s.broadcaster.Publish("resource:"+best.resource.ID, event)
	s.broadcaster.PublishLocation(disaster, event)

	return &Recommendation{
		DispatchID:              record.ID,
		ResourceID:              best.resource.ID,
		ResourceName:            best.resource.Name,
		ResourceType:            best.resource.Type,
		DistanceKM:              roundKM(best.distance),
		CurrentLocation:         best.resource.Location(),
		EstimatedArrivalMinutes: common.EstimateArrivalMinutes(best.distance, string(best.resource.Type)),
		Reason:                  fmt.Sprintf("Best match: %.1fkm away, Type: %s", best.distance, best.resource.Type),
	}, nil
}

func filterByType(resources []*resource.Resource, types []resource.Type) []*resource.Resource {
	filtered := make([]*resource.Resource, 0, len(resources))
	for _, r := range resources {
		for _, t := range types {
			if r.Type == t {
				filtered = append(filtered, r)
				break
			}
		}
	}
	return filtered
}

func (s *service) GetByID(ctx context.Context, id string) (*DispatchRecord, error) {
	d, err := s.repo.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, domainerrors.DispatchNotFound(id)
	}
	return d, nil
}

func (s *service) ListActive(ctx context.Context) ([]*ActiveDispatch, error) {
	records, err := s.repo.ListActive(ctx, s.db)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to list active dispatches", err)
	}

	active := make([]*ActiveDispatch, 0, len(records))
	for _, record := range records {
		r, err := s.resources.GetByID(ctx, record.ResourceID)
		if err != nil {
			continue
		}
		active = append(active, &ActiveDispatch{
			DispatchID:       record.ID,
			ResourceID:       r.ID,
			ResourceName:     r.Name,
			ResourceType:     r.Type,
			CurrentLocation:  r.Location(),
			DisasterLocation: common.NewLocation(record.DisasterLat, record.DisasterLon),
			DisasterType:     record.DisasterType,
			SeverityScore:    record.SeverityScore,
			DistanceKM:       record.DistanceKM,
			DispatchTime:     record.DispatchTime,
			EstimatedArrival: record.EstimatedArrival,
			Status:           record.Status,
		})
	}
	return active, nil
}

// UpdateStatus advances a dispatch record. Completing releases the resource
// back to the available pool and stamps the arrival time once; repeating the
// completion is a no-op rather than an error.
func (s *service) UpdateStatus(ctx context.Context, id string, newStatus Status) (*DispatchRecord, error) {
	if !newStatus.Valid() {
		return nil, domainerrors.NewValidation("status must be one of: dispatched, en_route, completed, cancelled")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	record, err := s.repo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, domainerrors.DispatchNotFound(id)
	}

	if newStatus == StatusCompleted && record.Status == StatusCompleted {
		return record, nil
	}

	if err := record.TransitionTo(newStatus); err != nil {
		return nil, err
	}

	if record.Terminal() {
		if record.Status == StatusCompleted && record.ActualArrival == nil {
			now := time.Now()
			record.ActualArrival = &now
		}
		if err := s.releaseResource(ctx, tx, record.ResourceID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, tx, record); err != nil {
		return nil, domainerrors.NewInternal("failed to update dispatch record", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, domainerrors.NewInternal("failed to commit dispatch update", err)
	}

	if record.Status == StatusCompleted {
		metrics.DispatchesTotal.WithLabelValues("completed").Inc()
	}
	s.logger.Info("dispatch status updated", "dispatch_id", record.ID, "status", record.Status)

	s.broadcaster.Publish("resource:"+record.ResourceID, map[string]any{
		"type":        "dispatch_alert",
		"dispatch_id": record.ID,
		"resource_id": record.ResourceID,
		"status":      record.Status,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})

	return record, nil
}

func (s *service) releaseResource(ctx context.Context, tx *sqlx.Tx, resourceID string) error {
	r, err := s.resources.GetByIDWithTx(ctx, tx, resourceID)
	if err != nil {
		return domainerrors.ResourceNotFound(resourceID)
	}
	if r.Status != resource.StatusBusy {
		return nil
	}
	if err := r.MarkAvailable(); err != nil {
		return err
	}
	if err := s.resources.UpdateWithTx(ctx, tx, r); err != nil {
		return domainerrors.NewInternal("failed to release resource", err)
	}
	return nil
}
