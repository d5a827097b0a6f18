package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ramonehamilton/MTG-Playgroup/internal/deck"
	"github.com/ramonehamilton/MTG-Playgroup/internal/storage/models"
	"github.com/ramonehamilton/MTG-Playgroup/internal/storage/repository"
)

// ErrDeckNotFound is returned when no saved deck has the requested ID.
var ErrDeckNotFound = errors.New("deck not found")

// Service stores and retrieves imported decks.
type Service struct {
	db    *DB
	decks repository.DeckRepository
	now   func() time.Time
}

// NewService creates a new storage service.
func NewService(db *DB) *Service {
	return &Service{
		db:    db,
		decks: repository.NewDeckRepository(db.Conn()),
		now:   time.Now,
	}
}

// SaveDeck persists d under a fresh ID.
func (s *Service) SaveDeck(ctx context.Context, d *deck.Deck) (*models.SavedDeck, error) {
	if d == nil {
		return nil, fmt.Errorf("deck cannot be nil")
	}

	saved := &models.SavedDeck{
		ID:        uuid.NewString(),
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
		Deck:      *d.Clone(),
	}

	err := s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		repo := s.decks.WithTx(tx)
		if err := repo.Create(ctx, saved); err != nil {
			return err
		}
		if err := repo.AddCards(ctx, saved.ID, repository.BoardMainboard, saved.Mainboard); err != nil {
			return err
		}
		return repo.AddCards(ctx, saved.ID, repository.BoardSideboard, saved.Sideboard)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save deck %q: %w", d.Name, err)
	}

	log.Printf("[storage] Saved deck %s (%s, %d cards)", saved.ID, saved.Name, saved.TotalCards)
	return saved, nil
}

// GetDeck loads a saved deck with both boards.
func (s *Service) GetDeck(ctx context.Context, id string) (*models.SavedDeck, error) {
	saved, err := s.decks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, fmt.Errorf("%w: %s", ErrDeckNotFound, id)
	}

	if saved.Mainboard, err = s.decks.GetCards(ctx, id, repository.BoardMainboard); err != nil {
		return nil, err
	}
	if saved.Sideboard, err = s.decks.GetCards(ctx, id, repository.BoardSideboard); err != nil {
		return nil, err
	}

	return saved, nil
}

// ListDecks returns summaries of every saved deck, newest first.
func (s *Service) ListDecks(ctx context.Context) ([]*models.DeckSummary, error) {
	return s.decks.List(ctx)
}

// DeleteDeck removes a saved deck.
func (s *Service) DeleteDeck(ctx context.Context, id string) error {
	deleted, err := s.decks.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: %s", ErrDeckNotFound, id)
	}

	log.Printf("[storage] Deleted deck %s", id)
	return nil
}

// Close closes the underlying database.
func (s *Service) Close() error {
	return s.db.Close()
}
