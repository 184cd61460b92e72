package resource

import (
	"time"

	"github.com/google/uuid"

	"disaster-response/internal/common"
	domainerrors "disaster-response/internal/errors"
)

func New(name string, t Type, loc common.Location, metadata common.Metadata) *Resource {
	now := time.Now()
	return &Resource{
		ID:          uuid.New().String(),
		Name:        name,
		Type:        t,
		Status:      StatusAvailable,
		Latitude:    loc.Lat,
		Longitude:   loc.Lng,
		Metadata:    metadata,
		LastUpdated: now,
		CreatedAt:   now,
	}
}

func (r *Resource) Location() common.Location {
	return common.NewLocation(r.Latitude, r.Longitude)
}

// validTransitions encodes the resource status machine: dispatch claims flip
// available to busy, completion releases busy, and only an idle or released
// resource can go offline or come back.
var validTransitions = map[Status][]Status{
	StatusAvailable: {StatusBusy, StatusOffline},
	StatusBusy:      {StatusAvailable, StatusOffline},
	StatusOffline:   {StatusAvailable},
}

func (s Status) CanTransitionTo(to Status) bool {
	for _, next := range validTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

func (r *Resource) TransitionTo(to Status) error {
	if !r.Status.CanTransitionTo(to) {
		return domainerrors.ResourceInvalidTransition(string(r.Status), string(to))
	}
	r.Status = to
	r.LastUpdated = time.Now()
	return nil
}

func (r *Resource) MarkBusy() error {
	return r.TransitionTo(StatusBusy)
}

func (r *Resource) MarkAvailable() error {
	return r.TransitionTo(StatusAvailable)
}

func (r *Resource) MarkOffline() error {
	return r.TransitionTo(StatusOffline)
}

func (r *Resource) UpdateLocation(lat, lng, speed, heading float64) {
	r.Latitude = lat
	r.Longitude = lng
	r.Speed = speed
	r.Heading = heading
	r.LastUpdated = time.Now()
}
