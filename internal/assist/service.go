package assist

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"disaster-response/internal/common"
	domainerrors "disaster-response/internal/errors"
	"disaster-response/internal/resource"
	"disaster-response/internal/sos"
)

type Service interface {
	Offer(ctx context.Context, req OfferRequest) (*Offer, error)
	ListForSOS(ctx context.Context, sosReportID string, availableOnly bool) ([]*Offer, error)
	Accept(ctx context.Context, offerID string) (*Offer, error)
}

type service struct {
	repo        Repository
	reports     sos.Service
	db          *sqlx.DB
	broadcaster resource.Broadcaster
	logger      *slog.Logger
}

func NewAssistService(repo Repository, reports sos.Service, db *sqlx.DB, broadcaster resource.Broadcaster, logger *slog.Logger) Service {
	return &service{
		repo:        repo,
		reports:     reports,
		db:          db,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Offer records a volunteer's help for an SOS report. The report must exist
// and have crowd assistance enabled.
func (s *service) Offer(ctx context.Context, req OfferRequest) (*Offer, error) {
	if err := common.ValidateLatLng(req.Latitude, req.Longitude); err != nil {
		return nil, domainerrors.NewInvalidLocation(err.Error())
	}

	report, err := s.reports.GetByID(ctx, req.SOSReportID)
	if err != nil {
		return nil, err
	}
	if !report.CrowdAssistanceEnabled {
		return nil, domainerrors.AssistanceDisabled()
	}

	offer := newOffer(req, report.Location())
	if err := s.repo.Insert(ctx, s.db, offer); err != nil {
		return nil, domainerrors.NewInternal("failed to record assistance offer", err)
	}

	s.logger.Info("assistance offered",
		"offer_id", offer.ID,
		"sos_id", offer.SOSReportID,
		"assistance_type", offer.AssistanceType,
		"distance_km", offer.DistanceKM,
	)

	s.broadcaster.Publish("sos:"+offer.SOSReportID, map[string]any{
		"type":            "crowd_assistance_offer",
		"offer_id":        offer.ID,
		"sos_id":          offer.SOSReportID,
		"helper_name":     offer.HelperName,
		"assistance_type": offer.AssistanceType,
		"distance_km":     offer.DistanceKM,
		"eta_minutes":     offer.EstimatedArrivalMin,
		"timestamp":       offer.OfferedAt.UTC().Format(time.RFC3339),
	})

	return offer, nil
}

func (s *service) ListForSOS(ctx context.Context, sosReportID string, availableOnly bool) ([]*Offer, error) {
	if _, err := s.reports.GetByID(ctx, sosReportID); err != nil {
		return nil, err
	}
	return s.repo.ListBySOS(ctx, s.db, sosReportID, availableOnly)
}

// Accept marks an offer as helping. Accepting again refreshes the acceptance
// timestamp rather than failing.
func (s *service) Accept(ctx context.Context, offerID string) (*Offer, error) {
	offer, err := s.repo.GetByID(ctx, s.db, offerID)
	if err != nil {
		return nil, domainerrors.AssistanceNotFound(offerID)
	}

	now := time.Now()
	offer.AcceptedAt = &now
	offer.AvailabilityStatus = AvailabilityHelping
	offer.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, offer); err != nil {
		return nil, domainerrors.NewInternal("failed to accept assistance offer", err)
	}

	s.logger.Info("assistance accepted", "offer_id", offer.ID, "sos_id", offer.SOSReportID)

	s.broadcaster.Publish("sos:"+offer.SOSReportID, map[string]any{
		"type":        "assistance_accepted",
		"offer_id":    offer.ID,
		"sos_id":      offer.SOSReportID,
		"helper_name": offer.HelperName,
		"eta_minutes": offer.EstimatedArrivalMin,
		"timestamp":   now.UTC().Format(time.RFC3339),
	})

	return offer, nil
}
