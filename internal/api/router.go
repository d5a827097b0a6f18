package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/MTG-Playgroup/internal/api/handlers"
	"github.com/ramonehamilton/MTG-Playgroup/internal/api/response"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.healthCheck)
	s.router.Get("/ws", s.wsHub.ServeWs)

	s.router.Route("/api/v1", func(r chi.Router) {
		deckHandler := handlers.NewDeckHandler(s.importer, s.store, s.wsHub)
		r.Route("/decks", func(r chi.Router) {
			r.Get("/", deckHandler.GetDecks)
			r.Post("/import", deckHandler.ImportDeck)
			r.Post("/validate", deckHandler.ValidateDeck)
			r.Get("/check-url", deckHandler.CheckURL)
			r.Get("/{deckID}", deckHandler.GetDeck)
			r.Delete("/{deckID}", deckHandler.DeleteDeck)
			r.Get("/{deckID}/charts/curve", deckHandler.GetDeckCurveChart)
		})

		systemHandler := handlers.NewSystemHandler(s.wsHub.ClientCount, s.metrics.GetStats)
		r.Route("/system", func(r chi.Router) {
			r.Get("/status", systemHandler.GetStatus)
			r.Get("/version", systemHandler.GetVersion)
			r.Get("/metrics", systemHandler.GetMetrics)
		})
	})
}

// healthCheck handles the health check endpoint.
func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	})
}
