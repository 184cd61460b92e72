package resource

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"disaster-response/internal/common"
	domainerrors "disaster-response/internal/errors"
	"disaster-response/internal/redis"
)

// Broadcaster pushes realtime events to websocket subscribers. Declared here
// to avoid importing the ws package from every domain service.
type Broadcaster interface {
	Publish(channel string, payload any)
	PublishLocation(loc common.Location, payload any)
	PublishGlobal(payload any)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Resource, error)
	GetByID(ctx context.Context, id string) (*Resource, error)
	GetByIDWithTx(ctx context.Context, tx sqlx.ExtContext, id string) (*Resource, error)
	UpdateWithTx(ctx context.Context, tx sqlx.ExtContext, r *Resource) error
	ListAll(ctx context.Context, status *Status, resourceType *Type) ([]*Resource, error)
	ListAvailableForUpdate(ctx context.Context, tx sqlx.ExtContext, resourceType *Type) ([]*Resource, error)
	UpdateLocation(ctx context.Context, id string, req LocationUpdateRequest) (*Resource, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Resource, error)
	FindNearby(ctx context.Context, center common.Location, radiusKM float64, status *Status, resourceType *Type) ([]NearbyResource, error)
	GetLocation(ctx context.Context, id string) (*common.Location, error)
	MarkStaleOffline(ctx context.Context, staleAfter time.Duration) (int, error)
}

type service struct {
	repo        Repository
	db          *sqlx.DB
	cache       *redis.ResourceLocationCache
	broadcaster Broadcaster
	logger      *slog.Logger
}

func NewResourceService(repo Repository, db *sqlx.DB, cache *redis.ResourceLocationCache, broadcaster Broadcaster, logger *slog.Logger) Service {
	return &service{
		repo:        repo,
		db:          db,
		cache:       cache,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Resource, error) {
	if !req.Type.Valid() {
		return nil, domainerrors.NewValidation("resource type must be one of: ambulance, drone, rescue")
	}
	if err := common.ValidateLatLng(req.Latitude, req.Longitude); err != nil {
		return nil, domainerrors.NewInvalidLocation(err.Error())
	}

	r := New(req.Name, req.Type, common.NewLocation(req.Latitude, req.Longitude), req.Metadata)
	if err := s.repo.Insert(ctx, s.db, r); err != nil {
		return nil, domainerrors.NewInternal("failed to create resource", err)
	}

	s.logger.Info("resource registered", "resource_id", r.ID, "type", r.Type)
	return r, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Resource, error) {
	r, err := s.repo.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, domainerrors.ResourceNotFound(id)
	}
	return r, nil
}

func (s *service) GetByIDWithTx(ctx context.Context, tx sqlx.ExtContext, id string) (*Resource, error) {
	return s.repo.GetByID(ctx, tx, id)
}

func (s *service) UpdateWithTx(ctx context.Context, tx sqlx.ExtContext, r *Resource) error {
	return s.repo.Update(ctx, tx, r)
}

func (s *service) ListAll(ctx context.Context, status *Status, resourceType *Type) ([]*Resource, error) {
	return s.repo.ListAll(ctx, s.db, status, resourceType)
}

func (s *service) ListAvailableForUpdate(ctx context.Context, tx sqlx.ExtContext, resourceType *Type) ([]*Resource, error) {
	return s.repo.ListAvailableForUpdate(ctx, tx, resourceType)
}

func (s *service) UpdateLocation(ctx context.Context, id string, req LocationUpdateRequest) (*Resource, error) {
	if err := common.ValidateLatLng(req.Latitude, req.Longitude); err != nil {
		return nil, domainerrors.NewInvalidLocation(err.Error())
	}

	r, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.UpdateLocation(req.Latitude, req.Longitude, req.Speed, req.Heading)
	if err := s.repo.Update(ctx, s.db, r); err != nil {
		return nil, domainerrors.NewInternal("failed to update resource location", err)
	}

	loc := r.Location()
	_ = s.cache.Set(ctx, id, loc, req.Speed, req.Heading)

	event := map[string]any{
		"type":        "location_update",
		"resource_id": r.ID,
		"latitude":    r.Latitude,
		"longitude":   r.Longitude,
		"speed":       r.Speed,
		"heading":     r.Heading,
		"timestamp":   r.LastUpdated.UTC().Format(time.RFC3339),
	}
	s.broadcaster.Publish("resource:"+r.ID, event)
	s.broadcaster.PublishLocation(loc, event)

	return r, nil
}

func (s *service) UpdateStatus(ctx context.Context, id string, status Status) (*Resource, error) {
	if !status.Valid() {
		return nil, domainerrors.NewValidation("status must be one of: available, busy, offline")
	}

	r, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.TransitionTo(status); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, s.db, r); err != nil {
		return nil, domainerrors.NewInternal("failed to update resource status", err)
	}

	s.broadcaster.Publish("resource:"+r.ID, map[string]any{
		"type":        "status_change",
		"resource_id": r.ID,
		"status":      r.Status,
		"timestamp":   r.LastUpdated.UTC().Format(time.RFC3339),
	})

	s.logger.Info("resource status changed", "resource_id", r.ID, "status", r.Status)
	return r, nil
}

func (s *service) FindNearby(ctx context.Context, center common.Location, radiusKM float64, status *Status, resourceType *Type) ([]NearbyResource, error) {
	if err := common.ValidateLatLng(center.Lat, center.Lng); err != nil {
		return nil, domainerrors.NewInvalidLocation(err.Error())
	}
	if radiusKM <= 0 {
		return nil, domainerrors.NewValidation("radius_km must be positive")
	}

	resources, err := s.repo.ListAll(ctx, s.db, status, resourceType)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to list resources", err)
	}
	return RankNearby(resources, center, radiusKM), nil
}

func (s *service) GetLocation(ctx context.Context, id string) (*common.Location, error) {
	cached, err := s.cache.Get(ctx, id)
	if err == nil && cached != nil {
		loc := common.NewLocation(cached.Lat, cached.Lng)
		return &loc, nil
	}

	r, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	loc := r.Location()

	_ = s.cache.Set(ctx, id, loc, r.Speed, r.Heading)

	return &loc, nil
}

// MarkStaleOffline flips resources with no recent heartbeat to offline and
// notifies their subscribers. Called by the background sweeper.
func (s *service) MarkStaleOffline(ctx context.Context, staleAfter time.Duration) (int, error) {
	cutoff := time.Now().Add(-staleAfter)
	stale, err := s.repo.ListStale(ctx, s.db, cutoff)
	if err != nil {
		return 0, domainerrors.NewInternal("failed to list stale resources", err)
	}

	marked := 0
	for _, r := range stale {
		if err := r.TransitionTo(StatusOffline); err != nil {
			continue
		}
		if err := s.repo.Update(ctx, s.db, r); err != nil {
			s.logger.Error("failed to mark resource offline", "resource_id", r.ID, "error", err)
			continue
		}
		s.broadcaster.Publish("resource:"+r.ID, map[string]any{
			"type":        "status_change",
			"resource_id": r.ID,
			"status":      StatusOffline,
			"reason":      "stale_heartbeat",
			"timestamp":   r.LastUpdated.UTC().Format(time.RFC3339),
		})
		marked++
	}

	if marked > 0 {
		s.logger.Info("stale resources marked offline", "count", marked)
	}
	return marked, nil
}
