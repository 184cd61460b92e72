package alert

import (
	"time"

	"github.com/google/uuid"

	"disaster-response/internal/common"
)

type Scope string

const (
	ScopeImmediate Scope = "immediate"
	ScopeDistrict  Scope = "district"
	ScopeState     Scope = "state"
	ScopeNational  Scope = "national"
)

func (s Scope) Valid() bool {
	switch s {
	case ScopeImmediate, ScopeDistrict, ScopeState, ScopeNational:
		return true
	}
	return false
}

type Type string

const (
	TypeNewSOS           Type = "new_sos"
	TypeStatusUpdate     Type = "status_update"
	TypeResourceAssigned Type = "resource_assigned"
	TypeResolved         Type = "resolved"
)

func (t Type) Valid() bool {
	switch t {
	case TypeNewSOS, TypeStatusUpdate, TypeResourceAssigned, TypeResolved:
		return true
	}
	return false
}

// Broadcast is the persisted record of one alert push: who sent it, about
// which report, how wide it went and how many people it reached.
type Broadcast struct {
	ID                string    `db:"id" json:"id"`
	SOSReportID       string    `db:"sos_report_id" json:"sos_report_id"`
	AlertType         Type      `db:"alert_type" json:"alert_type"`
	Message           string    `db:"message" json:"message"`
	BroadcastScope    Scope     `db:"broadcast_scope" json:"broadcast_scope"`
	Latitude          float64   `db:"latitude" json:"latitude"`
	Longitude         float64   `db:"longitude" json:"longitude"`
	BroadcasterType   string    `db:"broadcaster_type" json:"broadcaster_type"`
	RecipientsReached int       `db:"recipients_reached" json:"recipients_reached"`
	BroadcastTime     time.Time `db:"broadcast_time" json:"broadcast_time"`
}

type Params struct {
	SOSReportID     string
	AlertType       Type
	Message         string
	Scope           Scope
	BroadcasterType string
	Location        common.Location
	Extra           map[string]any
}

func newBroadcast(p Params, recipients int) *Broadcast {
	return &Broadcast{
		ID:                uuid.New().String(),
		SOSReportID:       p.SOSReportID,
		AlertType:         p.AlertType,
		Message:           p.Message,
		BroadcastScope:    p.Scope,
		Latitude:          p.Location.Lat,
		Longitude:         p.Location.Lng,
		BroadcasterType:   p.BroadcasterType,
		RecipientsReached: recipients,
		BroadcastTime:     time.Now(),
	}
}
