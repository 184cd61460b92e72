package dispatch

import (
	"time"

	"github.com/google/uuid"

	"disaster-response/internal/common"
	domainerrors "disaster-response/internal/errors"
	"disaster-response/internal/resource"
)

type Status string

const (
	StatusDispatched Status = "dispatched"
	StatusEnRoute    Status = "en_route"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDispatched, StatusEnRoute, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// DispatchRecord tracks one resource assignment from claim to arrival.
type DispatchRecord struct {
	ID               string     `db:"id" json:"id"`
	ResourceID       string     `db:"resource_id" json:"resource_id"`
	DisasterLat      float64    `db:"disaster_lat" json:"disaster_lat"`
	DisasterLon      float64    `db:"disaster_lon" json:"disaster_lon"`
	DisasterType     string     `db:"disaster_type" json:"disaster_type"`
	SeverityScore    float64    `db:"severity_score" json:"severity_score"`
	DistanceKM       float64    `db:"distance_km" json:"distance_km"`
	DispatchTime     time.Time  `db:"dispatch_time" json:"dispatch_time"`
	EstimatedArrival time.Time  `db:"estimated_arrival" json:"estimated_arrival"`
	ActualArrival    *time.Time `db:"actual_arrival" json:"actual_arrival,omitempty"`
	Status           Status     `db:"status" json:"status"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}

func NewRecord(resourceID string, disaster common.Location, disasterType string, severity, distanceKM float64, eta time.Duration) *DispatchRecord {
	now := time.Now()
	return &DispatchRecord{
		ID:               uuid.New().String(),
		ResourceID:       resourceID,
		DisasterLat:      disaster.Lat,
		DisasterLon:      disaster.Lng,
		DisasterType:     disasterType,
		SeverityScore:    severity,
		DistanceKM:       distanceKM,
		DispatchTime:     now,
		EstimatedArrival: now.Add(eta),
		Status:           StatusDispatched,
		CreatedAt:        now,
	}
}

// validTransitions is strictly forward: a record never reopens once it is
// completed or cancelled.
var validTransitions = map[Status][]Status{
	StatusDispatched: {StatusEnRoute, StatusCompleted, StatusCancelled},
	StatusEnRoute:    {StatusCompleted, StatusCancelled},
}

func (s Status) CanTransitionTo(to Status) bool {
	for _, next := range validTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

func (d *DispatchRecord) TransitionTo(to Status) error {
	if !d.Status.CanTransitionTo(to) {
		return domainerrors.DispatchInvalidTransition(string(d.Status), string(to))
	}
	d.Status = to
	return nil
}

func (d *DispatchRecord) Terminal() bool {
	return d.Status == StatusCompleted || d.Status == StatusCancelled
}

type Request struct {
	DisasterLat          float64         `json:"disaster_lat"`
	DisasterLon          float64         `json:"disaster_lon"`
	DisasterType         string          `json:"disaster_type" binding:"required"`
	SeverityScore        float64         `json:"severity_score"`
	ResourceTypePriority []resource.Type `json:"resource_type_priority"`
}

// Recommendation is the dispatch response: which resource was claimed and why.
type Recommendation struct {
	DispatchID              string          `json:"dispatch_id"`
	ResourceID              string          `json:"resource_id"`
	ResourceName            string          `json:"resource_name"`
	ResourceType            resource.Type   `json:"resource_type"`
	DistanceKM              float64         `json:"distance_km"`
	CurrentLocation         common.Location `json:"current_location"`
	EstimatedArrivalMinutes float64         `json:"estimated_arrival_minutes"`
	Reason                  string          `json:"reason"`
}

// ActiveDispatch joins a live dispatch record with its resource's position.
type ActiveDispatch struct {
	DispatchID       string          `json:"dispatch_id"`
	ResourceID       string          `json:"resource_id"`
	ResourceName     string          `json:"resource_name"`
	ResourceType     resource.Type   `json:"resource_type"`
	CurrentLocation  common.Location `json:"current_location"`
	DisasterLocation common.Location `json:"disaster_location"`
	DisasterType     string          `json:"disaster_type"`
	SeverityScore    float64         `json:"severity_score"`
	DistanceKM       float64         `json:"distance_km"`
	DispatchTime     time.Time       `json:"dispatch_time"`
	EstimatedArrival time.Time       `json:"estimated_arrival"`
	Status           Status          `json:"status"`
}
