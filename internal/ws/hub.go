package ws

import (
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"disaster-response/internal/common"
	"disaster-response/internal/metrics"
)

// Conn is the minimal connection surface the hub needs. *Client satisfies it;
// tests use in-memory fakes.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

// Hub is the subscription registry for realtime alerts. Channels are plain
// strings: "sos:<id>", "resource:<id>", or "location:<lat>:<lon>:<radius>".
// All operations are safe for concurrent use.
type Hub struct {
	mu            sync.Mutex
	subscriptions map[string]map[Conn]struct{}
	channels      map[Conn]map[string]struct{}
	logger        *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subscriptions: make(map[string]map[Conn]struct{}),
		channels:      make(map[Conn]map[string]struct{}),
		logger:        logger,
	}
}

func (h *Hub) Register(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.channels[conn]; ok {
		return
	}
	h.channels[conn] = make(map[string]struct{})
	metrics.WSActiveConnections.Inc()
}

// Unregister drops the connection and all of its subscriptions. Calling it
// for an unknown connection is a no-op.
func (h *Hub) Unregister(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	channels, ok := h.channels[conn]
	if !ok {
		return
	}
	for channel := range channels {
		h.dropLocked(conn, channel)
	}
	delete(h.channels, conn)
	metrics.WSActiveConnections.Dec()
}

func (h *Hub) Subscribe(conn Conn, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.channels[conn]; !ok {
		return
	}
	subs, ok := h.subscriptions[channel]
	if !ok {
		subs = make(map[Conn]struct{})
		h.subscriptions[channel] = subs
	}
	subs[conn] = struct{}{}
	h.channels[conn][channel] = struct{}{}
}

func (h *Hub) Unsubscribe(conn Conn, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(conn, channel)
	if channels, ok := h.channels[conn]; ok {
		delete(channels, channel)
	}
}

// dropLocked removes conn from a channel and deletes the channel entry once
// empty. Caller holds h.mu.
func (h *Hub) dropLocked(conn Conn, channel string) {
	subs, ok := h.subscriptions[channel]
	if !ok {
		return
	}
	delete(subs, conn)
	if len(subs) == 0 {
		delete(h.subscriptions, channel)
	}
}

// Publish sends payload to every subscriber of the exact channel. Delivery is
// best effort: a failing connection is dropped without affecting the rest.
func (h *Hub) Publish(channel string, payload any) {
	h.mu.Lock()
	conns := make([]Conn, 0, len(h.subscriptions[channel]))
	for conn := range h.subscriptions[channel] {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		h.deliver(conn, channel, payload)
	}
}

// PublishGlobal sends payload to every registered connection regardless of
// its subscriptions.
func (h *Hub) PublishGlobal(payload any) {
	h.mu.Lock()
	conns := make([]Conn, 0, len(h.channels))
	for conn := range h.channels {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		h.deliver(conn, "global", payload)
	}
}

// PublishLocation sends payload to every location subscription whose circle
// contains the given point.
func (h *Hub) PublishLocation(loc common.Location, payload any) {
	h.mu.Lock()
	targets := make(map[Conn]string)
	for channel, subs := range h.subscriptions {
		center, radiusKM, ok := parseLocationChannel(channel)
		if !ok {
			continue
		}
		if common.HaversineDistance(loc, center) > radiusKM {
			continue
		}
		for conn := range subs {
			if _, seen := targets[conn]; !seen {
				targets[conn] = channel
			}
		}
	}
	h.mu.Unlock()

	for conn, channel := range targets {
		h.deliver(conn, channel, payload)
	}
}

func (h *Hub) deliver(conn Conn, channel string, payload any) {
	if err := conn.WriteJSON(payload); err != nil {
		metrics.WSDeliveryFailuresTotal.Inc()
		h.logger.Warn("ws delivery failed, dropping connection", "channel", channel, "error", err)
		h.Unregister(conn)
		_ = conn.Close()
	}
}

// LocationChannel formats the channel name for an area subscription.
func LocationChannel(lat, lng, radiusKM float64) string {
	return "location:" + formatCoord(lat) + ":" + formatCoord(lng) + ":" + formatCoord(radiusKM)
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func parseLocationChannel(channel string) (common.Location, float64, bool) {
	parts := strings.Split(channel, ":")
	if len(parts) != 4 || parts[0] != "location" {
		return common.Location{}, 0, false
	}
	lat, err1 := strconv.ParseFloat(parts[1], 64)
	lng, err2 := strconv.ParseFloat(parts[2], 64)
	radius, err3 := strconv.ParseFloat(parts[3], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return common.Location{}, 0, false
	}
	return common.NewLocation(lat, lng), radius, true
}
