package ws

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type Handler struct {
	hub    *Hub
	logger *slog.Logger
}

func NewHandler(hub *Hub, logger *slog.Logger) *Handler {
	return &Handler{hub: hub, logger: logger}
}

// Serve upgrades the request and runs the subscription protocol until the
// client disconnects.
func (h *Handler) Serve(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", "error", err)
		return
	}

	client := NewClient(conn)
	h.hub.Register(client)
	go client.writePump()
	h.readLoop(client)
}

func (h *Handler) readLoop(client *Client) {
	defer func() {
		h.hub.Unregister(client)
		client.Close()
	}()

	client.conn.SetReadLimit(maxMessageSize)
	client.conn.SetPongHandler(func(string) error { return nil })

	for {
		var msg clientMessage
		if err := client.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("ws read error", "error", err)
			}
			return
		}

		switch msg.Type {
		case msgSubscribeLocation:
			if msg.Latitude == nil || msg.Longitude == nil {
				_ = client.WriteJSON(gin.H{"type": "error", "message": "latitude and longitude are required"})
				continue
			}
			radius := 5.0
			if msg.RadiusKM != nil {
				radius = *msg.RadiusKM
			}
			channel := LocationChannel(*msg.Latitude, *msg.Longitude, radius)
			h.hub.Subscribe(client, channel)
			_ = client.WriteJSON(gin.H{
				"type":      "subscription_confirmed",
				"channel":   channel,
				"latitude":  *msg.Latitude,
				"longitude": *msg.Longitude,
				"radius_km": radius,
			})

		case msgSubscribeSOS:
			if msg.SOSID == "" {
				_ = client.WriteJSON(gin.H{"type": "error", "message": "sos_id is required"})
				continue
			}
			channel := "sos:" + msg.SOSID
			h.hub.Subscribe(client, channel)
			_ = client.WriteJSON(gin.H{
				"type":    "subscription_confirmed",
				"channel": channel,
				"sos_id":  msg.SOSID,
			})

		case msgSubscribeResource:
			if msg.ResourceID == "" {
				_ = client.WriteJSON(gin.H{"type": "error", "message": "resource_id is required"})
				continue
			}
			channel := "resource:" + msg.ResourceID
			h.hub.Subscribe(client, channel)
			_ = client.WriteJSON(gin.H{
				"type":        "subscription_confirmed",
				"channel":     channel,
				"resource_id": msg.ResourceID,
			})

		case msgUnsubscribe:
			h.hub.Unsubscribe(client, msg.Channel)
			_ = client.WriteJSON(gin.H{
				"type":    "unsubscription_confirmed",
				"channel": msg.Channel,
			})

		case msgPing:
			_ = client.WriteJSON(gin.H{"type": "pong"})

		default:
			_ = client.WriteJSON(gin.H{"type": "error", "message": "unknown message type"})
		}
	}
}
