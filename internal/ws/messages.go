package ws

// Client-to-server message. Type selects which fields are read.
type clientMessage struct {
	Type      string   `json:"type"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	RadiusKM  *float64 `json:"radius_km,omitempty"`
	SOSID     string   `json:"sos_id,omitempty"`
	ResourceID string  `json:"resource_id,omitempty"`
	Channel   string   `json:"channel,omitempty"`
}

const (
	msgSubscribeLocation = "subscribe_location"
	msgSubscribeSOS      = "subscribe_sos"
	msgSubscribeResource = "subscribe_resource"
	msgUnsubscribe       = "unsubscribe"
	msgPing              = "ping"
)
