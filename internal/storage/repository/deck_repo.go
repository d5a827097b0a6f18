package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ramonehamilton/MTG-Playgroup/internal/deck"
	"github.com/ramonehamilton/MTG-Playgroup/internal/storage/models"
)

// Board names stored in deck_cards.board.
const (
	BoardMainboard = "mainboard"
	BoardSideboard = "sideboard"
)

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DeckRepository handles database operations for saved decks.
type DeckRepository interface {
	// Create inserts the deck header row.
	Create(ctx context.Context, d *models.SavedDeck) error

	// AddCards inserts cards for one board, keeping slice order as position.
	AddCards(ctx context.Context, deckID, board string, cards []deck.CardEntry) error

	// GetByID retrieves a deck header. Returns nil, nil if no row matches.
	GetByID(ctx context.Context, id string) (*models.SavedDeck, error)

	// GetCards retrieves one board of a deck in stored order.
	GetCards(ctx context.Context, deckID, board string) ([]deck.CardEntry, error)

	// List retrieves every saved deck, newest first.
	List(ctx context.Context) ([]*models.DeckSummary, error)

	// Delete removes a deck and its cards. Reports whether a row was removed.
	Delete(ctx context.Context, id string) (bool, error)

	// WithTx returns a repository bound to tx.
	WithTx(tx *sql.Tx) DeckRepository
}

type deckRepository struct {
	db Querier
}

// NewDeckRepository creates a new deck repository.
func NewDeckRepository(db *sql.DB) DeckRepository {
	return &deckRepository{db: db}
}

func (r *deckRepository) WithTx(tx *sql.Tx) DeckRepository {
	return &deckRepository{db: tx}
}

// Create inserts the deck header row.
func (r *deckRepository) Create(ctx context.Context, d *models.SavedDeck) error {
	query := `
		INSERT INTO decks (
			id, name, description, format, source, source_url,
			commander_name, commander_json, total_cards, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var commanderName, commanderJSON sql.NullString
	if d.Commander != nil {
		raw, err := json.Marshal(d.Commander)
		if err != nil {
			return fmt.Errorf("failed to encode commander: %w", err)
		}
		commanderName = sql.NullString{String: d.Commander.Name, Valid: true}
		commanderJSON = sql.NullString{String: string(raw), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		d.ID,
		d.Name,
		d.Description,
		d.Format,
		string(d.Source),
		d.SourceURL,
		commanderName,
		commanderJSON,
		d.TotalCards,
		d.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create deck: %w", err)
	}

	return nil
}

// AddCards inserts cards for one board.
func (r *deckRepository) AddCards(ctx context.Context, deckID, board string, cards []deck.CardEntry) error {
	query := `
		INSERT INTO deck_cards (deck_id, board, position, name, quantity, scryfall_id, data)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	for i, card := range cards {
		raw, err := json.Marshal(card)
		if err != nil {
			return fmt.Errorf("failed to encode card %q: %w", card.Name, err)
		}

		quantity := card.Quantity
		if quantity < 1 {
			quantity = 1
		}

		if _, err := r.db.ExecContext(ctx, query, deckID, board, i, card.Name, quantity, card.ScryfallID, string(raw)); err != nil {
			return fmt.Errorf("failed to add card %q to %s: %w", card.Name, board, err)
		}
	}

	return nil
}

// GetByID retrieves a deck header by its ID.
func (r *deckRepository) GetByID(ctx context.Context, id string) (*models.SavedDeck, error) {
	query := `
		SELECT id, name, description, format, source, source_url,
		       commander_json, total_cards, created_at
		FROM decks
		WHERE id = ?
	`

	var (
		d             models.SavedDeck
		source        string
		commanderJSON sql.NullString
		createdAt     time.Time
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID,
		&d.Name,
		&d.Description,
		&d.Format,
		&source,
		&d.SourceURL,
		&commanderJSON,
		&d.TotalCards,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deck by id: %w", err)
	}

	d.Source = deck.Source(source)
	d.CreatedAt = createdAt.UTC()
	if commanderJSON.Valid {
		var c deck.Commander
		if err := json.Unmarshal([]byte(commanderJSON.String), &c); err != nil {
			return nil, fmt.Errorf("failed to decode commander: %w", err)
		}
		d.Commander = &c
	}

	return &d, nil
}

// GetCards retrieves one board of a deck in stored order.
func (r *deckRepository) GetCards(ctx context.Context, deckID, board string) ([]deck.CardEntry, error) {
	query := `
		SELECT data
		FROM deck_cards
		WHERE deck_id = ? AND board = ?
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query, deckID, board)
	if err != nil {
		return nil, fmt.Errorf("failed to get deck cards: %w", err)
	}
	defer rows.Close()

	cards := []deck.CardEntry{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan deck card: %w", err)
		}
		var card deck.CardEntry
		if err := json.Unmarshal([]byte(raw), &card); err != nil {
			return nil, fmt.Errorf("failed to decode deck card: %w", err)
		}
		cards = append(cards, card)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deck cards: %w", err)
	}

	return cards, nil
}

// List retrieves every saved deck, newest first.
func (r *deckRepository) List(ctx context.Context) ([]*models.DeckSummary, error) {
	query := `
		SELECT id, name, format, source, source_url, commander_name, total_cards, created_at
		FROM decks
		ORDER BY created_at DESC, rowid DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	defer rows.Close()

	decks := []*models.DeckSummary{}
	for rows.Next() {
		var (
			s             models.DeckSummary
			source        string
			commanderName sql.NullString
		)
		err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.Format,
			&source,
			&s.SourceURL,
			&commanderName,
			&s.TotalCards,
			&s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deck: %w", err)
		}
		s.Source = deck.Source(source)
		s.CreatedAt = s.CreatedAt.UTC()
		if commanderName.Valid {
			s.CommanderName = &commanderName.String
		}
		decks = append(decks, &s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating decks: %w", err)
	}

	return decks, nil
}

// Delete removes a deck; deck_cards rows cascade.
func (r *deckRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete deck: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to count deleted decks: %w", err)
	}

	return n > 0, nil
}
