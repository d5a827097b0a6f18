package scryfall

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetCard(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cards/cmd1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("expected a User-Agent header")
		}
		_ = json.NewEncoder(w).Encode(Card{ID: "cmd1", Name: "Atraxa, Praetors' Voice", CMC: 4})
	}), 1)

	card, err := client.GetCard(context.Background(), "cmd1")
	require.NoError(t, err)
	assert.Equal(t, "Atraxa, Praetors' Voice", card.Name)
}

func TestClient_GetCardNamed(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cards/named", r.URL.Path)
		assert.Equal(t, "Atraxa, Praetors' Voice", r.URL.Query().Get("exact"))
		_ = json.NewEncoder(w).Encode(Card{ID: "cmd1", Name: "Atraxa, Praetors' Voice"})
	}), 1)

	card, err := client.GetCardNamed(context.Background(), "Atraxa, Praetors' Voice")
	require.NoError(t, err)
	assert.Equal(t, "cmd1", card.ID)
}

func TestClient_GetCard_NotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}), 1)

	_, err := client.GetCard(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestClient_GetCard_APIError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(APIError{Object: "error", Status: 400, Details: "bad id"})
	}), 1)

	_, err := client.GetCard(context.Background(), "x")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "bad id", apiErr.Details)
}

func TestClient_RetriesOnRateLimit(t *testing.T) {
	var calls int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(Card{ID: "x", Name: "X"})
	}), 1)
	client.backoff = time.Millisecond

	card, err := client.GetCard(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "X", card.Name)
	assert.Equal(t, int32(2), calls)
}

func TestClient_ImageURL(t *testing.T) {
	client := NewClient()
	assert.Equal(t, "https://api.scryfall.com/cards/abc?format=image&version=normal", client.ImageURL("abc"))
}
