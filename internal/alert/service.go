package alert

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/jmoiron/sqlx"

	domainerrors "disaster-response/internal/errors"
	"disaster-response/internal/metrics"
	"disaster-response/internal/resource"
)

type Service interface {
	Broadcast(ctx context.Context, p Params) (*Broadcast, error)
	ListBySOS(ctx context.Context, sosReportID string) ([]*Broadcast, error)
}

type service struct {
	repo        Repository
	db          *sqlx.DB
	broadcaster resource.Broadcaster
	logger      *slog.Logger
	randFloat   func() float64
}

func NewAlertService(repo Repository, db *sqlx.DB, broadcaster resource.Broadcaster, logger *slog.Logger) Service {
	return &service{
		repo:        repo,
		db:          db,
		broadcaster: broadcaster,
		logger:      logger,
		randFloat:   rand.Float64,
	}
}

// Broadcast records an alert about an SOS report and pushes it to websocket
// subscribers: everyone watching the area plus everyone following the report.
func (s *service) Broadcast(ctx context.Context, p Params) (*Broadcast, error) {
	if !p.AlertType.Valid() {
		return nil, domainerrors.NewValidation("alert_type must be one of: new_sos, status_update, resource_assigned, resolved")
	}
	if p.Scope == "" {
		p.Scope = ScopeImmediate
	}
	if !p.Scope.Valid() {
		return nil, domainerrors.NewValidation("broadcast_scope must be one of: immediate, district, state, national")
	}
	if p.BroadcasterType == "" {
		p.BroadcasterType = "citizen"
	}

	b := newBroadcast(p, estimateRecipients(p.Scope, s.randFloat))
	if err := s.repo.Insert(ctx, s.db, b); err != nil {
		return nil, domainerrors.NewInternal("failed to record alert broadcast", err)
	}

	metrics.AlertsBroadcastTotal.WithLabelValues(string(b.BroadcastScope)).Inc()
	s.logger.Info("alert broadcast",
		"sos_id", b.SOSReportID,
		"alert_type", b.AlertType,
		"scope", b.BroadcastScope,
		"recipients", b.RecipientsReached,
	)

	event := map[string]any{
		"type":       "sos_alert",
		"alert_type": b.AlertType,
		"sos_id":     b.SOSReportID,
		"message":    b.Message,
		"latitude":   b.Latitude,
		"longitude":  b.Longitude,
		"timestamp":  b.BroadcastTime.UTC().Format(time.RFC3339),
	}
	for k, v := range p.Extra {
		event[k] = v
	}
	// State and national alerts reach every live connection; narrower scopes
	// go to the area circle plus anyone following the report.
	if b.BroadcastScope == ScopeState || b.BroadcastScope == ScopeNational {
		s.broadcaster.PublishGlobal(event)
	} else {
		s.broadcaster.PublishLocation(p.Location, event)
	}
	s.broadcaster.Publish("sos:"+b.SOSReportID, event)

	return b, nil
}

func (s *service) ListBySOS(ctx context.Context, sosReportID string) ([]*Broadcast, error) {
	return s.repo.ListBySOS(ctx, s.db, sosReportID)
}
