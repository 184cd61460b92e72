package ws

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"disaster-response/internal/common"
)

type fakeConn struct {
	messages []any
	writeErr error
	closed   bool
}

func (f *fakeConn) WriteJSON(v any) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.messages = append(f.messages, v)
	return nil
}

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

func testHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHub_PublishReachesSubscribers(t *testing.T) {
	hub := testHub()
	subscriber := &fakeConn{}
	bystander := &fakeConn{}

	hub.Register(subscriber)
	hub.Register(bystander)
	hub.Subscribe(subscriber, "sos:abc")
	hub.Subscribe(bystander, "sos:other")

	hub.Publish("sos:abc", map[string]string{"event": "status_update"})

	if len(subscriber.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(subscriber.messages))
	}
	if len(bystander.messages) != 0 {
		t.Fatalf("bystander should receive nothing, got %d", len(bystander.messages))
	}
}

func TestHub_SubscribeRequiresRegistration(t *testing.T) {
	hub := testHub()
	conn := &fakeConn{}

	hub.Subscribe(conn, "sos:abc")
	hub.Publish("sos:abc", "payload")

	if len(conn.messages) != 0 {
		t.Fatal("unregistered connection should not be subscribed")
	}
}

func TestHub_UnregisterDropsAllSubscriptions(t *testing.T) {
	hub := testHub()
	conn := &fakeConn{}

	hub.Register(conn)
	hub.Subscribe(conn, "sos:abc")
	hub.Subscribe(conn, "resource:r1")
	hub.Unregister(conn)

	hub.Publish("sos:abc", "payload")
	hub.Publish("resource:r1", "payload")

	if len(conn.messages) != 0 {
		t.Fatalf("expected no deliveries after unregister, got %d", len(conn.messages))
	}

	// Idempotent.
	hub.Unregister(conn)
}

func TestHub_PublishGlobal_ReachesEveryConnection(t *testing.T) {
	hub := testHub()
	subscribed := &fakeConn{}
	idle := &fakeConn{}

	hub.Register(subscribed)
	hub.Register(idle)
	hub.Subscribe(subscribed, "sos:abc")

	hub.PublishGlobal(map[string]string{"event": "sos_alert"})

	if len(subscribed.messages) != 1 || len(idle.messages) != 1 {
		t.Fatalf("expected delivery to all connections, got %d and %d",
			len(subscribed.messages), len(idle.messages))
	}
}

func TestHub_PublishLocation_RadiusContainment(t *testing.T) {
	hub := testHub()
	inside := &fakeConn{}
	outside := &fakeConn{}

	hub.Register(inside)
	hub.Register(outside)
	// Both watch circles centered on Delhi; the event lands ~0.7 km away.
	hub.Subscribe(inside, LocationChannel(28.7041, 77.1025, 5))
	hub.Subscribe(outside, LocationChannel(19.0760, 72.8777, 5))

	hub.PublishLocation(common.NewLocation(28.71, 77.10), map[string]string{"event": "new_sos"})

	if len(inside.messages) != 1 {
		t.Fatalf("expected delivery inside radius, got %d", len(inside.messages))
	}
	if len(outside.messages) != 0 {
		t.Fatalf("expected no delivery outside radius, got %d", len(outside.messages))
	}
}

func TestHub_PublishLocation_DeliversOncePerConn(t *testing.T) {
	hub := testHub()
	conn := &fakeConn{}

	hub.Register(conn)
	// Two overlapping circles both containing the event.
	hub.Subscribe(conn, LocationChannel(28.70, 77.10, 10))
	hub.Subscribe(conn, LocationChannel(28.71, 77.10, 10))

	hub.PublishLocation(common.NewLocation(28.705, 77.10), "payload")

	if len(conn.messages) != 1 {
		t.Fatalf("expected exactly 1 delivery, got %d", len(conn.messages))
	}
}

func TestHub_FailingConnIsDropped(t *testing.T) {
	hub := testHub()
	broken := &fakeConn{writeErr: errors.New("write: broken pipe")}
	healthy := &fakeConn{}

	hub.Register(broken)
	hub.Register(healthy)
	hub.Subscribe(broken, "sos:abc")
	hub.Subscribe(healthy, "sos:abc")

	hub.Publish("sos:abc", "payload")

	if !broken.closed {
		t.Fatal("failing connection should be closed")
	}
	if len(healthy.messages) != 1 {
		t.Fatalf("healthy connection should still receive, got %d", len(healthy.messages))
	}

	// The broken connection is gone; later publishes only reach the healthy one.
	broken.writeErr = nil
	hub.Publish("sos:abc", "payload")
	if len(broken.messages) != 0 {
		t.Fatal("dropped connection should not receive further messages")
	}
}

func TestLocationChannel_RoundTrip(t *testing.T) {
	channel := LocationChannel(28.7041, 77.1025, 5)
	center, radius, ok := parseLocationChannel(channel)
	if !ok {
		t.Fatalf("failed to parse %s", channel)
	}
	if center.Lat != 28.7041 || center.Lng != 77.1025 || radius != 5 {
		t.Fatalf("round trip mismatch: %f, %f, %f", center.Lat, center.Lng, radius)
	}

	if _, _, ok := parseLocationChannel("sos:abc"); ok {
		t.Fatal("non-location channel should not parse")
	}
	if _, _, ok := parseLocationChannel("location:x:y:z"); ok {
		t.Fatal("malformed coordinates should not parse")
	}
}
