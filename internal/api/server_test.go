package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apiwebsocket "github.com/ramonehamilton/MTG-Playgroup/internal/api/websocket"
	"github.com/ramonehamilton/MTG-Playgroup/internal/deck"
	"github.com/ramonehamilton/MTG-Playgroup/internal/storage"
)

type stubImporter struct{}

func (stubImporter) ImportFromURL(_ context.Context, rawURL string) (*deck.Deck, error) {
	d := deck.New(deck.SourceArchidekt, rawURL)
	d.Name = "Stub Deck"
	d.Mainboard = []deck.CardEntry{deck.NewCardEntry("Sol Ring", 1, "xyz", nil)}
	d.TotalCards = d.CountCards()
	return d, nil
}

func newTestStore(t *testing.T) *storage.Service {
	t.Helper()
	config := storage.DefaultConfig(filepath.Join(t.TempDir(), "api.db"))
	config.AutoMigrate = true
	db, err := storage.Open(config)
	require.NoError(t, err)
	svc := storage.NewService(db)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestNewServer_NilConfig(t *testing.T) {
	server := NewServer(nil, stubImporter{}, nil)

	assert.Equal(t, 8080, server.Port())
	assert.NotNil(t, server.WebSocketHub())
	assert.Equal(t, 60*time.Second, server.requestTimeout)
}

func TestServer_Shutdown_NotStarted(t *testing.T) {
	server := NewServer(nil, stubImporter{}, nil)
	assert.NoError(t, server.Shutdown(context.Background()))
}

func TestServer_Health(t *testing.T) {
	server := NewServer(nil, stubImporter{}, nil)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestServer_RejectsNonJSONBody(t *testing.T) {
	server := NewServer(nil, stubImporter{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/decks/import", strings.NewReader(`url=x`))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestServer_CORS(t *testing.T) {
	server := NewServer(nil, stubImporter{}, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/decks", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_CheckOrigin(t *testing.T) {
	server := NewServer(&Config{Port: 1, AllowedOrigins: []string{"http://localhost:*"}}, stubImporter{}, nil)

	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://localhost:5173", true},
		{"http://evil.test", false},
		{"https://localhost:5173", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		assert.Equal(t, tt.want, server.checkOrigin(r), tt.origin)
	}
}

func TestServer_ImportSaveBroadcastsOverWebsocket(t *testing.T) {
	server := NewServer(nil, stubImporter{}, newTestStore(t))
	go server.wsHub.Run()
	defer server.wsHub.Stop()

	httpServer := httptest.NewServer(server.Handler())
	defer httpServer.Close()

	wsURL := "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return server.wsHub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Post(httpServer.URL+"/api/v1/decks/import", "application/json",
		strings.NewReader(`{"url":"https://archidekt.com/decks/42","save":true}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)

	var event apiwebsocket.Event
	require.NoError(t, json.Unmarshal(message, &event))
	assert.Equal(t, apiwebsocket.EventDeckImported, event.Type)
	data := event.Data.(map[string]any)
	assert.Equal(t, "Stub Deck", data["name"])

	listResp, err := http.Get(httpServer.URL + "/api/v1/decks")
	require.NoError(t, err)
	defer listResp.Body.Close()

	var list struct {
		Data []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, data["id"], list.Data[0].ID)

	stats := server.Metrics().GetStats()
	assert.Equal(t, uint64(1), stats.Succeeded)
	assert.Equal(t, uint64(1), stats.Saved)
}

func TestServer_SystemMetrics(t *testing.T) {
	server := NewServer(nil, stubImporter{}, nil)

	body := strings.NewReader(`{"url":"https://archidekt.com/decks/42"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/decks/import", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/system/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Succeeded uint64 `json:"succeeded"`
			Saved     uint64 `json:"saved"`
			Latency   struct {
				Count int `json:"count"`
			} `json:"latency"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, uint64(1), resp.Data.Succeeded)
	assert.Zero(t, resp.Data.Saved)
	assert.Equal(t, 1, resp.Data.Latency.Count)
}
