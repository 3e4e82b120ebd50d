package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"cocsim/internal/api"
	"cocsim/internal/config"
)

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func startHub(t *testing.T, limits config.ResourceLimits) (*api.WebSocketHub, string) {
	t.Helper()
	hub := api.NewWebSocketHub(limits, api.NewOriginChecker(nil))
	if err := hub.SetGreeting("showcase:grid", map[string]int{"totalSize": 24}); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	ts := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	t.Cleanup(func() {
		cancel()
		ts.Close()
	})
	return hub, "ws" + strings.TrimPrefix(ts.URL, "http")
}

func dial(t *testing.T, url, origin string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	return websocket.DefaultDialer.Dial(url, header)
}

func readEnvelope(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read: %v", err)
	}
	return env
}

func TestWebSocketGreetingAndBroadcast(t *testing.T) {
	hub, url := startHub(t, config.DefaultLimits())

	conn, _, err := dial(t, url, "http://localhost:5173")
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	greeting := readEnvelope(t, conn)
	if greeting.Event != "showcase:grid" || string(greeting.Data) != `{"totalSize":24}` {
		t.Errorf("greeting %s %s", greeting.Event, greeting.Data)
	}
	if hub.ClientCount() != 1 {
		t.Errorf("ClientCount = %d", hub.ClientCount())
	}

	hub.Broadcast("showcase:frame", map[string]int{"run": 3})
	frame := readEnvelope(t, conn)
	if frame.Event != "showcase:frame" || string(frame.Data) != `{"run":3}` {
		t.Errorf("frame %s %s", frame.Event, frame.Data)
	}
}

func TestWebSocketRejectsOrigin(t *testing.T) {
	_, url := startHub(t, config.DefaultLimits())

	_, resp, err := dial(t, url, "https://evil.test")
	if err == nil {
		t.Fatal("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("response %v", resp)
	}
}

func TestWebSocketPerIPLimit(t *testing.T) {
	limits := config.DefaultLimits()
	limits.MaxWSPerIP = 1
	_, url := startHub(t, limits)

	first, _, err := dial(t, url, "http://localhost:3000")
	if err != nil {
		t.Fatal(err)
	}
	defer first.Close()
	readEnvelope(t, first)

	_, resp, err := dial(t, url, "http://localhost:3000")
	if err == nil {
		t.Fatal("second connection should be rejected")
	}
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("response %v", resp)
	}
}

func TestBroadcastShowcaseSkipsStaleFrames(t *testing.T) {
	hub, url := startHub(t, config.DefaultLimits())

	conn, _, err := dial(t, url, "http://localhost:3000")
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	readEnvelope(t, conn)

	src := &mockShowcase{frame: &api.ShowcaseFrame{Run: 1}}
	src.frame.Snapshot.Sequence = 1

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.BroadcastShowcase(ctx, src, 50)

	env := readEnvelope(t, conn)
	if env.Event != "showcase:frame" {
		t.Fatalf("event %q", env.Event)
	}
	var got api.ShowcaseFrame
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Run != 1 || got.Snapshot.Sequence != 1 {
		t.Errorf("frame %+v", got)
	}

	// The same sequence is never sent twice.
	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("stale frame was re-sent")
	}
}
