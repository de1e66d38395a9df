package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/ayusman/pronosup/internal/tracking"
)

func TestServer_Health(t *testing.T) {
	s := New(Config{})

	t.Run("returns 200 with JSON response", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		contentType := rec.Header().Get("Content-Type")
		if contentType != "application/json" {
			t.Errorf("expected Content-Type application/json, got %s", contentType)
		}

		var response map[string]interface{}
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if response["status"] != "ok" {
			t.Errorf("expected status 'ok', got %v", response["status"])
		}

		if _, exists := response["uptime"]; !exists {
			t.Error("expected 'uptime' field in response")
		}
	})

	t.Run("only allows GET method", func(t *testing.T) {
		methods := []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch}

		for _, method := range methods {
			req := httptest.NewRequest(method, "/api/health", nil)
			rec := httptest.NewRecorder()

			s.ServeHTTP(rec, req)

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("method %s: expected status %d, got %d", method, http.StatusMethodNotAllowed, rec.Code)
			}
		}
	})
}

func TestServer_NotFound(t *testing.T) {
	s := New(Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/nonexistent", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestServer_SessionsRouteNotRegisteredWithoutStore(t *testing.T) {
	s := New(Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestNew(t *testing.T) {
	t.Run("creates server with config", func(t *testing.T) {
		cfg := Config{StaticDir: "/some/path"}
		s := New(cfg)

		if s == nil {
			t.Fatal("expected non-nil server")
		}

		if s.config.StaticDir != cfg.StaticDir {
			t.Errorf("expected StaticDir %s, got %s", cfg.StaticDir, s.config.StaticDir)
		}
	})

	t.Run("server implements http.Handler", func(t *testing.T) {
		s := New(Config{})
		var _ http.Handler = s
	})
}

func TestTrackHandler_PublishWithoutClients(t *testing.T) {
	h := NewTrackHandler()

	if n := h.ClientCount(); n != 0 {
		t.Errorf("client count = %d, want 0", n)
	}

	// Publishing with no clients connected must not panic or block.
	h.Publish(tracking.TrackingResult{TrackingLost: true})
}

// registerClient upgrades one websocket connection and places it in the
// handler's client set without starting the read loop, so that eviction can
// only come from Publish.
func registerClient(t *testing.T, h *TrackHandler) (server, client *websocket.Conn) {
	t.Helper()

	registered := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		h.mu.Lock()
		h.clients[conn] = true
		h.mu.Unlock()
		registered <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	return <-registered, client
}

func TestTrackHandler_PublishDeliversToClient(t *testing.T) {
	h := NewTrackHandler()
	_, client := registerClient(t, h)

	h.Publish(tracking.TrackingResult{TrackingLost: true})

	var payload struct {
		Result    tracking.TrackingResult `json:"result"`
		Timestamp int64                   `json:"timestamp"`
	}
	if err := client.ReadJSON(&payload); err != nil {
		t.Fatalf("failed to read published message: %v", err)
	}
	if !payload.Result.TrackingLost {
		t.Error("published result should carry the tracking state")
	}
	if payload.Timestamp == 0 {
		t.Error("published message should carry a timestamp")
	}

	// A healthy client stays registered.
	if n := h.ClientCount(); n != 1 {
		t.Errorf("client count = %d, want 1", n)
	}
}

func TestTrackHandler_PublishEvictsDeadClient(t *testing.T) {
	h := NewTrackHandler()
	server, _ := registerClient(t, h)

	if n := h.ClientCount(); n != 1 {
		t.Fatalf("client count = %d, want 1", n)
	}

	// Sever the server side so the next write fails.
	server.UnderlyingConn().Close()

	h.Publish(tracking.TrackingResult{})

	if n := h.ClientCount(); n != 0 {
		t.Errorf("client count after publish = %d, want 0", n)
	}
}
