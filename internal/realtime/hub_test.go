package realtime

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialHub(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to dial hub: %v", err)
	}
	return conn
}

func TestHubStreamsChangeEvents(t *testing.T) {
	feed := NewFeed()
	hub := NewHub(feed)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dialHub(t, srv, "")
	defer conn.Close()

	// Wait for the subscription to register before publishing.
	deadline := time.Now().Add(2 * time.Second)
	for feed.SubscriberCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("hub never subscribed to the feed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	feed.Publish(ChangeEvent{Resource: "events", Kind: ChangeCreated, ID: "a"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev ChangeEvent
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("Failed to read event: %v", err)
	}
	if ev.Resource != "events" || ev.Kind != ChangeCreated || ev.ID != "a" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestHubFiltersByResource(t *testing.T) {
	feed := NewFeed()
	hub := NewHub(feed)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dialHub(t, srv, "?resource=tickets")
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for feed.SubscriberCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("hub never subscribed to the feed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	feed.Publish(ChangeEvent{Resource: "events", Kind: ChangeCreated, ID: "a"})
	feed.Publish(ChangeEvent{Resource: "tickets", Kind: ChangeUpdated, ID: "b"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev ChangeEvent
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("Failed to read event: %v", err)
	}
	if ev.Resource != "tickets" || ev.ID != "b" {
		t.Fatalf("filtered subscription received %+v", ev)
	}
}
