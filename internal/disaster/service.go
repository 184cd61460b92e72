package disaster

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/jmoiron/sqlx"

	"disaster-response/internal/common"
	domainerrors "disaster-response/internal/errors"
	"disaster-response/internal/resource"
)

type Service interface {
	Validate(ctx context.Context, req ValidationRequest) (*ValidationResult, error)
	Create(ctx context.Context, req CreateRequest) (*Disaster, error)
	GetByID(ctx context.Context, id string) (*Disaster, error)
	ListAll(ctx context.Context, status *Status, validatedOnly bool) ([]*Disaster, error)
	UpdateStatus(ctx context.Context, id string, newStatus Status) (*Disaster, error)
	Stats(ctx context.Context) (*Stats, error)
}

type service struct {
	repo        Repository
	db          *sqlx.DB
	broadcaster resource.Broadcaster
	logger      *slog.Logger
}

func NewDisasterService(repo Repository, db *sqlx.DB, broadcaster resource.Broadcaster, logger *slog.Logger) Service {
	return &service{
		repo:        repo,
		db:          db,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

func (s *service) Validate(ctx context.Context, req ValidationRequest) (*ValidationResult, error) {
	if !req.Type.Valid() {
		return nil, domainerrors.NewValidation("unknown disaster type")
	}
	result := Validate(req)
	s.logger.Info("disaster report validated",
		"type", req.Type,
		"score", result.ValidationScore,
		"is_valid", result.IsValid,
	)
	return &result, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Disaster, error) {
	if !req.Type.Valid() {
		return nil, domainerrors.NewValidation("unknown disaster type")
	}
	if err := common.ValidateLatLng(req.Latitude, req.Longitude); err != nil {
		return nil, domainerrors.NewInvalidLocation(err.Error())
	}

	d := New(req)
	if err := s.repo.Insert(ctx, s.db, d); err != nil {
		return nil, domainerrors.NewInternal("failed to create disaster", err)
	}

	s.logger.Info("disaster recorded",
		"disaster_id", d.ID,
		"type", d.Type,
		"severity", d.SeverityScore,
		"validated", d.IsValidated,
	)

	s.broadcaster.PublishLocation(d.Location(), map[string]any{
		"type":           "disaster_reported",
		"disaster_id":    d.ID,
		"disaster_type":  d.Type,
		"severity_score": d.SeverityScore,
		"latitude":       d.Latitude,
		"longitude":      d.Longitude,
		"timestamp":      d.ReportedAt.UTC().Format(time.RFC3339),
	})

	return d, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Disaster, error) {
	d, err := s.repo.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, domainerrors.DisasterNotFound(id)
	}
	return d, nil
}

func (s *service) ListAll(ctx context.Context, status *Status, validatedOnly bool) ([]*Disaster, error) {
	return s.repo.ListAll(ctx, s.db, status, validatedOnly)
}

func (s *service) UpdateStatus(ctx context.Context, id string, newStatus Status) (*Disaster, error) {
	if !newStatus.Valid() {
		return nil, domainerrors.NewValidation("unknown disaster status")
	}

	d, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := d.TransitionTo(newStatus); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, s.db, d); err != nil {
		return nil, domainerrors.NewInternal("failed to update disaster status", err)
	}

	s.logger.Info("disaster status updated", "disaster_id", d.ID, "status", d.Status)
	return d, nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	stats, err := s.repo.Stats(ctx, s.db)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to compute disaster stats", err)
	}
	stats.ValidationRate = math.Round(stats.ValidationRate*100) / 100
	return stats, nil
}
