package resource

import (
	"time"

	"disaster-response/internal/common"
)

type Type string

const (
	TypeAmbulance Type = "ambulance"
	TypeDrone     Type = "drone"
	TypeRescue    Type = "rescue"
)

func (t Type) Valid() bool {
	switch t {
	case TypeAmbulance, TypeDrone, TypeRescue:
		return true
	}
	return false
}

type Status string

const (
	StatusAvailable Status = "available"
	StatusBusy      Status = "busy"
	StatusOffline   Status = "offline"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusBusy, StatusOffline:
		return true
	}
	return false
}

type Resource struct {
	ID          string          `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Type        Type            `db:"type" json:"type"`
	Status      Status          `db:"status" json:"status"`
	Latitude    float64         `db:"latitude" json:"latitude"`
	Longitude   float64         `db:"longitude" json:"longitude"`
	Speed       float64         `db:"speed" json:"speed"`
	Heading     float64         `db:"heading" json:"heading"`
	Metadata    common.Metadata `db:"metadata" json:"metadata,omitempty"`
	LastUpdated time.Time       `db:"last_updated" json:"last_updated"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// NearbyResource is a locator result: a resource annotated with its
// great-circle distance from the query point and an ETA at typical speed.
type NearbyResource struct {
	Resource         *Resource `json:"resource"`
	DistanceKM       float64   `json:"distance_km"`
	EstimatedArrival float64   `json:"estimated_arrival_minutes"`
}

type CreateRequest struct {
	Name      string          `json:"name" binding:"required"`
	Type      Type            `json:"type" binding:"required"`
	Latitude  float64         `json:"latitude"`
	Longitude float64         `json:"longitude"`
	Metadata  common.Metadata `json:"metadata"`
}

type LocationUpdateRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Speed     float64 `json:"speed"`
	Heading   float64 `json:"heading"`
}

type StatusUpdateRequest struct {
	Status Status `json:"status" binding:"required"`
}
