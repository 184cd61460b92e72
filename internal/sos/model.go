package sos

import (
	"time"

	"github.com/google/uuid"

	"disaster-response/internal/common"
	domainerrors "disaster-response/internal/errors"
)

type EmergencyType string

const (
	EmergencyMedical  EmergencyType = "medical"
	EmergencyAccident EmergencyType = "accident"
	EmergencyFire     EmergencyType = "fire"
	EmergencyFlooding EmergencyType = "flooding"
	EmergencyTrapped  EmergencyType = "trapped"
	EmergencyMissing  EmergencyType = "missing"
	EmergencyOther    EmergencyType = "other"
)

func (t EmergencyType) Valid() bool {
	switch t {
	case EmergencyMedical, EmergencyAccident, EmergencyFire, EmergencyFlooding,
		EmergencyTrapped, EmergencyMissing, EmergencyOther:
		return true
	}
	return false
}

type Status string

const (
	StatusPending      Status = "pending"
	StatusAcknowledged Status = "acknowledged"
	StatusInProgress   Status = "in_progress"
	StatusResolved     Status = "resolved"
	StatusCancelled    Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAcknowledged, StatusInProgress, StatusResolved, StatusCancelled:
		return true
	}
	return false
}

func (s Status) Active() bool {
	return s == StatusPending || s == StatusAcknowledged || s == StatusInProgress
}

// Reports only move forward; resolved and cancelled are terminal.
var validTransitions = map[Status][]Status{
	StatusPending:      {StatusAcknowledged, StatusInProgress, StatusResolved, StatusCancelled},
	StatusAcknowledged: {StatusInProgress, StatusResolved, StatusCancelled},
	StatusInProgress:   {StatusResolved, StatusCancelled},
}

func (s Status) CanTransitionTo(to Status) bool {
	for _, next := range validTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

type SOSReport struct {
	ID                     string          `db:"id" json:"id"`
	ReporterName           string          `db:"reporter_name" json:"reporter_name"`
	ReporterPhone          string          `db:"reporter_phone" json:"reporter_phone"`
	ReporterEmail          *string         `db:"reporter_email" json:"reporter_email,omitempty"`
	Latitude               float64         `db:"latitude" json:"latitude"`
	Longitude              float64         `db:"longitude" json:"longitude"`
	EmergencyType          EmergencyType   `db:"emergency_type" json:"emergency_type"`
	Description            string          `db:"description" json:"description"`
	SeverityScore          float64         `db:"severity_score" json:"severity_score"`
	Status                 Status          `db:"status" json:"status"`
	NumPeopleAffected      int             `db:"num_people_affected" json:"num_people_affected"`
	HasInjuries            int             `db:"has_injuries" json:"has_injuries"`
	RequiresEvacuation     int             `db:"requires_evacuation" json:"requires_evacuation"`
	IsUrgent               bool            `db:"is_urgent" json:"is_urgent"`
	Metadata               common.Metadata `db:"metadata" json:"metadata,omitempty"`
	NearestResourceID      *string         `db:"nearest_resource_id" json:"nearest_resource_id,omitempty"`
	CrowdAssistanceEnabled bool            `db:"crowd_assistance_enabled" json:"crowd_assistance_enabled"`
	ReportedAt             time.Time       `db:"reported_at" json:"reported_at"`
	AcknowledgedAt         *time.Time      `db:"acknowledged_at" json:"acknowledged_at,omitempty"`
	ResolvedAt             *time.Time      `db:"resolved_at" json:"resolved_at,omitempty"`
	UpdatedAt              time.Time       `db:"updated_at" json:"updated_at"`
}

func New(req CreateRequest) *SOSReport {
	now := time.Now()
	crowdEnabled := true
	if req.CrowdAssistanceEnabled != nil {
		crowdEnabled = *req.CrowdAssistanceEnabled
	}
	numAffected := req.NumPeopleAffected
	if numAffected <= 0 {
		numAffected = 1
	}
	return &SOSReport{
		ID:                     uuid.New().String(),
		ReporterName:           req.ReporterName,
		ReporterPhone:          req.ReporterPhone,
		ReporterEmail:          req.ReporterEmail,
		Latitude:               req.Latitude,
		Longitude:              req.Longitude,
		EmergencyType:          req.EmergencyType,
		Description:            req.Description,
		SeverityScore:          req.SeverityScore,
		Status:                 StatusPending,
		NumPeopleAffected:      numAffected,
		HasInjuries:            req.HasInjuries,
		RequiresEvacuation:     req.RequiresEvacuation,
		IsUrgent:               req.IsUrgent,
		Metadata:               req.Metadata,
		CrowdAssistanceEnabled: crowdEnabled,
		ReportedAt:             now,
		UpdatedAt:              now,
	}
}

func (r *SOSReport) Location() common.Location {
	return common.NewLocation(r.Latitude, r.Longitude)
}

func (r *SOSReport) TransitionTo(to Status) error {
	if !r.Status.CanTransitionTo(to) {
		return domainerrors.SOSInvalidTransition(string(r.Status), string(to))
	}
	now := time.Now()
	r.Status = to
	r.UpdatedAt = now
	switch to {
	case StatusAcknowledged:
		r.AcknowledgedAt = &now
	case StatusResolved:
		r.ResolvedAt = &now
	}
	return nil
}

type CreateRequest struct {
	ReporterName           string          `json:"reporter_name" binding:"required"`
	ReporterPhone          string          `json:"reporter_phone" binding:"required"`
	ReporterEmail          *string         `json:"reporter_email"`
	Latitude               float64         `json:"latitude"`
	Longitude              float64         `json:"longitude"`
	EmergencyType          EmergencyType   `json:"emergency_type" binding:"required"`
	Description            string          `json:"description"`
	SeverityScore          float64         `json:"severity_score"`
	NumPeopleAffected      int             `json:"num_people_affected"`
	HasInjuries            int             `json:"has_injuries"`
	RequiresEvacuation     int             `json:"requires_evacuation"`
	IsUrgent               bool            `json:"is_urgent"`
	Metadata               common.Metadata `json:"metadata"`
	CrowdAssistanceEnabled *bool           `json:"crowd_assistance_enabled"`
}

// NearbyReport pairs a report with its distance from the query point.
type NearbyReport struct {
	Report     *SOSReport `json:"report"`
	DistanceKM float64    `json:"distance_km"`
}

type Analytics struct {
	TotalActiveSOS             int     `json:"total_active_sos"`
	TotalResolvedToday         int     `json:"total_resolved_today"`
	AverageResponseTimeMinutes float64 `json:"average_response_time_minutes"`
	MostCommonEmergencyType    string  `json:"most_common_emergency_type"`
	UrgentCases                int     `json:"urgent_cases"`
	CrowdAssistanceAvailable   int     `json:"crowd_assistance_available"`
	NearbyResourcesCount       int     `json:"nearby_resources_count"`
}
