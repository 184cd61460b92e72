package assist

import (
	"time"

	"github.com/google/uuid"

	"disaster-response/internal/common"
)

type AvailabilityStatus string

const (
	AvailabilityAvailable   AvailabilityStatus = "available"
	AvailabilityHelping     AvailabilityStatus = "helping"
	AvailabilityUnavailable AvailabilityStatus = "unavailable"
)

// Offer is a volunteer's pledge to help with a specific SOS report, stamped
// with their distance and a rough civilian-speed arrival estimate.
type Offer struct {
	ID                  string             `db:"id" json:"id"`
	SOSReportID         string             `db:"sos_report_id" json:"sos_report_id"`
	HelperName          string             `db:"helper_name" json:"helper_name"`
	HelperPhone         string             `db:"helper_phone" json:"helper_phone"`
	Latitude            float64            `db:"latitude" json:"latitude"`
	Longitude           float64            `db:"longitude" json:"longitude"`
	AssistanceType      string             `db:"assistance_type" json:"assistance_type"`
	Description         string             `db:"description" json:"description"`
	AvailabilityStatus  AvailabilityStatus `db:"availability_status" json:"availability_status"`
	DistanceKM          float64            `db:"distance_km" json:"distance_km"`
	EstimatedArrivalMin int                `db:"estimated_arrival_min" json:"estimated_arrival_min"`
	OfferedAt           time.Time          `db:"offered_at" json:"offered_at"`
	AcceptedAt          *time.Time         `db:"accepted_at" json:"accepted_at,omitempty"`
	UpdatedAt           time.Time          `db:"updated_at" json:"updated_at"`
}

// civilianSpeedKMH is the assumed travel speed for volunteers.
const civilianSpeedKMH = 40.0

// estimateArrivalMin converts a helper's distance into whole minutes at
// civilian speed. A helper already on the spot still gets a 5 minute estimate
// to account for finding the reporter.
func estimateArrivalMin(distanceKM float64) int {
	if distanceKM <= 0 {
		return 5
	}
	return int(distanceKM / civilianSpeedKMH * 60)
}

func newOffer(req OfferRequest, sosLocation common.Location) *Offer {
	now := time.Now()
	distance := common.HaversineDistance(common.NewLocation(req.Latitude, req.Longitude), sosLocation)
	return &Offer{
		ID:                  uuid.New().String(),
		SOSReportID:         req.SOSReportID,
		HelperName:          req.HelperName,
		HelperPhone:         req.HelperPhone,
		Latitude:            req.Latitude,
		Longitude:           req.Longitude,
		AssistanceType:      req.AssistanceType,
		Description:         req.Description,
		AvailabilityStatus:  AvailabilityAvailable,
		DistanceKM:          distance,
		EstimatedArrivalMin: estimateArrivalMin(distance),
		OfferedAt:           now,
		UpdatedAt:           now,
	}
}

type OfferRequest struct {
	SOSReportID    string  `json:"sos_report_id" binding:"required"`
	HelperName     string  `json:"helper_name" binding:"required"`
	HelperPhone    string  `json:"helper_phone" binding:"required"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	AssistanceType string  `json:"assistance_type" binding:"required"`
	Description    string  `json:"description"`
}
