package disaster

import (
	"time"

	"github.com/google/uuid"

	"disaster-response/internal/common"
	domainerrors "disaster-response/internal/errors"
)

type Type string

const (
	TypeEarthquake         Type = "earthquake"
	TypeFlood              Type = "flood"
	TypeHurricane          Type = "hurricane"
	TypeTornado            Type = "tornado"
	TypeWildfire           Type = "wildfire"
	TypeLandslide          Type = "landslide"
	TypeTsunami            Type = "tsunami"
	TypeExplosion          Type = "explosion"
	TypeChemicalLeak       Type = "chemical_leak"
	TypeIndustrialAccident Type = "industrial_accident"
	TypeDiseaseOutbreak    Type = "disease_outbreak"
	TypeOther              Type = "other"
)

func (t Type) Valid() bool {
	switch t {
	case TypeEarthquake, TypeFlood, TypeHurricane, TypeTornado, TypeWildfire,
		TypeLandslide, TypeTsunami, TypeExplosion, TypeChemicalLeak,
		TypeIndustrialAccident, TypeDiseaseOutbreak, TypeOther:
		return true
	}
	return false
}

type Status string

const (
	StatusReported  Status = "reported"
	StatusValidated Status = "validated"
	StatusActive    Status = "active"
	StatusContained Status = "contained"
	StatusResolved  Status = "resolved"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusReported, StatusValidated, StatusActive, StatusContained, StatusResolved, StatusCancelled:
		return true
	}
	return false
}

// The disaster lifecycle moves forward through validation and containment;
// cancellation is allowed from any non-terminal state.
var validTransitions = map[Status][]Status{
	StatusReported:  {StatusValidated, StatusActive, StatusCancelled},
	StatusValidated: {StatusActive, StatusCancelled},
	StatusActive:    {StatusContained, StatusResolved, StatusCancelled},
	StatusContained: {StatusActive, StatusResolved, StatusCancelled},
}

func (s Status) CanTransitionTo(to Status) bool {
	for _, next := range validTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

type Disaster struct {
	ID                          string          `db:"id" json:"id"`
	Type                        Type            `db:"type" json:"type"`
	Status                      Status          `db:"status" json:"status"`
	Latitude                    float64         `db:"latitude" json:"latitude"`
	Longitude                   float64         `db:"longitude" json:"longitude"`
	SeverityScore               float64         `db:"severity_score" json:"severity_score"`
	IsValidated                 bool            `db:"is_validated" json:"is_validated"`
	ValidationScore             *float64        `db:"validation_score" json:"validation_score,omitempty"`
	ValidationDetails           common.Metadata `db:"validation_details" json:"validation_details,omitempty"`
	AffectedAreaRadiusKM        *float64        `db:"affected_area_radius_km" json:"affected_area_radius_km,omitempty"`
	EstimatedAffectedPopulation *int            `db:"estimated_affected_population" json:"estimated_affected_population,omitempty"`
	NumCasualties               int             `db:"num_casualties" json:"num_casualties"`
	Description                 string          `db:"description" json:"description"`
	Source                      string          `db:"source" json:"source"`
	Metadata                    common.Metadata `db:"metadata" json:"metadata,omitempty"`
	ReportedAt                  time.Time       `db:"reported_at" json:"reported_at"`
	ValidatedAt                 *time.Time      `db:"validated_at" json:"validated_at,omitempty"`
	ResolvedAt                  *time.Time      `db:"resolved_at" json:"resolved_at,omitempty"`
	UpdatedAt                   time.Time       `db:"updated_at" json:"updated_at"`
}

func New(req CreateRequest) *Disaster {
	now := time.Now()
	d := &Disaster{
		ID:                          uuid.New().String(),
		Type:                        req.Type,
		Status:                      StatusReported,
		Latitude:                    req.Latitude,
		Longitude:                   req.Longitude,
		SeverityScore:               req.SeverityScore,
		AffectedAreaRadiusKM:        req.AffectedAreaRadiusKM,
		EstimatedAffectedPopulation: req.EstimatedAffectedPopulation,
		NumCasualties:               req.NumCasualties,
		Description:                 req.Description,
		Source:                      req.Source,
		Metadata:                    req.Metadata,
		ReportedAt:                  now,
		UpdatedAt:                   now,
	}
	if req.IsValidated {
		d.IsValidated = true
		d.ValidationScore = req.ValidationScore
		d.Status = StatusValidated
		d.ValidatedAt = &now
	}
	return d
}

func (d *Disaster) Location() common.Location {
	return common.NewLocation(d.Latitude, d.Longitude)
}

func (d *Disaster) TransitionTo(to Status) error {
	if !d.Status.CanTransitionTo(to) {
		return domainerrors.DisasterInvalidTransition(string(d.Status), string(to))
	}
	now := time.Now()
	d.Status = to
	d.UpdatedAt = now
	if to == StatusResolved {
		d.ResolvedAt = &now
	}
	return nil
}

type CreateRequest struct {
	Type                        Type            `json:"type" binding:"required"`
	Latitude                    float64         `json:"latitude"`
	Longitude                   float64         `json:"longitude"`
	SeverityScore               float64         `json:"severity_score"`
	AffectedAreaRadiusKM        *float64        `json:"affected_area_radius_km"`
	EstimatedAffectedPopulation *int            `json:"estimated_affected_population"`
	NumCasualties               int             `json:"num_casualties"`
	Description                 string          `json:"description"`
	Source                      string          `json:"source"`
	Metadata                    common.Metadata `json:"metadata"`
	IsValidated                 bool            `json:"is_validated"`
	ValidationScore             *float64        `json:"validation_score"`
}

type Stats struct {
	TotalDisasters     int            `json:"total_disasters"`
	ValidatedDisasters int            `json:"validated_disasters"`
	ActiveDisasters    int            `json:"active_disasters"`
	ValidationRate     float64        `json:"validation_rate"`
	ByType             map[string]int `json:"by_type"`
}
