package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/MTG-Playgroup/internal/api/response"
	"github.com/ramonehamilton/MTG-Playgroup/internal/api/websocket"
	"github.com/ramonehamilton/MTG-Playgroup/internal/charts"
	"github.com/ramonehamilton/MTG-Playgroup/internal/deck"
	"github.com/ramonehamilton/MTG-Playgroup/internal/deckimport"
	"github.com/ramonehamilton/MTG-Playgroup/internal/storage"
	"github.com/ramonehamilton/MTG-Playgroup/internal/storage/models"
)

// maxDeckBody bounds request bodies for import and validate.
const maxDeckBody = 4 << 20

// Importer turns a deck URL into an enriched deck.
type Importer interface {
	ImportFromURL(ctx context.Context, rawURL string) (*deck.Deck, error)
}

// DeckStore persists imported decks.
type DeckStore interface {
	SaveDeck(ctx context.Context, d *deck.Deck) (*models.SavedDeck, error)
	GetDeck(ctx context.Context, id string) (*models.SavedDeck, error)
	ListDecks(ctx context.Context) ([]*models.DeckSummary, error)
	DeleteDeck(ctx context.Context, id string) error
}

// EventPublisher broadcasts deck events to connected clients.
type EventPublisher interface {
	BroadcastEvent(event websocket.Event) bool
}

// DeckHandler handles deck import and storage API requests.
type DeckHandler struct {
	importer Importer
	store    DeckStore
	events   EventPublisher
}

// NewDeckHandler creates a new DeckHandler. store and events may be nil.
func NewDeckHandler(importer Importer, store DeckStore, events EventPublisher) *DeckHandler {
	return &DeckHandler{importer: importer, store: store, events: events}
}

// ImportDeckRequest represents a request to import a deck by URL.
type ImportDeckRequest struct {
	URL  string `json:"url"`
	Save bool   `json:"save,omitempty"`
}

// ImportDeckResponse is the result of an import.
type ImportDeckResponse struct {
	Deck   *deck.Deck `json:"deck"`
	Valid  bool       `json:"valid"`
	Errors []string   `json:"errors"`
	ID     string     `json:"id,omitempty"`
}

// ImportDeck fetches, normalizes, and enriches a deck, then validates it.
// With save set, a valid deck is persisted and announced over the websocket.
func (h *DeckHandler) ImportDeck(w http.ResponseWriter, r *http.Request) {
	var req ImportDeckRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxDeckBody)).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	if req.URL == "" {
		response.BadRequest(w, errors.New("url is required"))
		return
	}

	if req.Save && h.store == nil {
		response.ServiceUnavailable(w, errors.New("deck storage is not configured"))
		return
	}

	d, err := h.importer.ImportFromURL(r.Context(), req.URL)
	if err != nil {
		writeImportError(w, err)
		return
	}

	problems := deck.Validate(d)
	resp := ImportDeckResponse{Deck: d, Valid: len(problems) == 0, Errors: problems}
	if resp.Errors == nil {
		resp.Errors = []string{}
	}

	if !req.Save {
		response.Success(w, resp)
		return
	}

	if !resp.Valid {
		response.Unprocessable(w, "imported deck failed validation", problems)
		return
	}

	saved, err := h.store.SaveDeck(r.Context(), d)
	if err != nil {
		response.InternalError(w, err)
		return
	}
	resp.ID = saved.ID

	h.publish(websocket.EventDeckImported, map[string]any{
		"id":         saved.ID,
		"name":       saved.Name,
		"source":     saved.Source,
		"totalCards": saved.TotalCards,
	})

	response.Created(w, resp)
}

// ValidateResponse reports the validation result for a raw deck document.
type ValidateResponse struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ValidateDeck validates an arbitrary JSON document as a deck.
func (h *DeckHandler) ValidateDeck(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxDeckBody))
	if err != nil {
		response.BadRequest(w, errors.New("failed to read request body"))
		return
	}

	problems := deck.ValidateJSON(body)
	if problems == nil {
		problems = []string{}
	}

	response.Success(w, ValidateResponse{Valid: len(problems) == 0, Errors: problems})
}

// CheckURLResponse reports whether a URL points at a supported deck.
type CheckURLResponse struct {
	Valid    bool   `json:"valid"`
	Provider string `json:"provider,omitempty"`
}

// CheckURL classifies the url query parameter without fetching anything.
func (h *DeckHandler) CheckURL(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	if raw == "" {
		response.BadRequest(w, errors.New("url query parameter is required"))
		return
	}

	resp := CheckURLResponse{Valid: deckimport.IsValidDeckURL(raw)}
	if source, ok := deckimport.DetectProvider(raw); ok {
		resp.Provider = string(source)
	}

	response.Success(w, resp)
}

// GetDecks returns summaries of all saved decks.
func (h *DeckHandler) GetDecks(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}

	decks, err := h.store.ListDecks(r.Context())
	if err != nil {
		response.InternalError(w, err)
		return
	}

	response.Success(w, decks)
}

// GetDeck returns a single saved deck.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	saved, ok := h.loadDeck(w, r)
	if !ok {
		return
	}
	response.Success(w, saved)
}

// DeleteDeck removes a saved deck.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}

	deckID := chi.URLParam(r, "deckID")
	if deckID == "" {
		response.BadRequest(w, errors.New("deck ID is required"))
		return
	}

	if err := h.store.DeleteDeck(r.Context(), deckID); err != nil {
		writeStoreError(w, err)
		return
	}

	h.publish(websocket.EventDeckDeleted, map[string]any{"id": deckID})
	response.NoContent(w)
}

// GetDeckCurveChart renders the mana curve and color charts of a saved deck as HTML.
func (h *DeckHandler) GetDeckCurveChart(w http.ResponseWriter, r *http.Request) {
	saved, ok := h.loadDeck(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := charts.RenderDeckCharts(w, &saved.Deck, charts.DefaultChartConfig()); err != nil {
		log.Printf("[api] Failed to render charts for deck %s: %v", saved.ID, err)
	}
}

func (h *DeckHandler) loadDeck(w http.ResponseWriter, r *http.Request) (*models.SavedDeck, bool) {
	if !h.requireStore(w) {
		return nil, false
	}

	deckID := chi.URLParam(r, "deckID")
	if deckID == "" {
		response.BadRequest(w, errors.New("deck ID is required"))
		return nil, false
	}

	saved, err := h.store.GetDeck(r.Context(), deckID)
	if err != nil {
		writeStoreError(w, err)
		return nil, false
	}

	return saved, true
}

func (h *DeckHandler) requireStore(w http.ResponseWriter) bool {
	if h.store == nil {
		response.ServiceUnavailable(w, errors.New("deck storage is not configured"))
		return false
	}
	return true
}

func (h *DeckHandler) publish(eventType string, data any) {
	if h.events == nil {
		return
	}
	h.events.BroadcastEvent(websocket.NewEvent(eventType, data))
}

// writeImportError maps import failures to HTTP statuses.
func writeImportError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, deckimport.ErrInvalidURL),
		errors.Is(err, deckimport.ErrUnsupportedProvider),
		errors.Is(err, deckimport.ErrDeckIDNotFound):
		response.BadRequest(w, err)
	case errors.Is(err, context.DeadlineExceeded):
		response.GatewayTimeout(w, fmt.Errorf("deck import timed out: %w", err))
	default:
		response.BadGateway(w, err)
	}
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrDeckNotFound) {
		response.NotFound(w, err)
		return
	}
	response.InternalError(w, err)
}
