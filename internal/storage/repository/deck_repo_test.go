package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ramonehamilton/MTG-Playgroup/internal/deck"
	"github.com/ramonehamilton/MTG-Playgroup/internal/storage/models"
)

// setupDeckTestDB creates an in-memory database with the deck tables.
func setupDeckTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	schema := `
		CREATE TABLE decks (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			format TEXT NOT NULL,
			source TEXT NOT NULL,
			source_url TEXT NOT NULL,
			commander_name TEXT,
			commander_json TEXT,
			total_cards INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		);

		CREATE TABLE deck_cards (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			deck_id TEXT NOT NULL,
			board TEXT NOT NULL,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			scryfall_id TEXT,
			data TEXT NOT NULL,
			FOREIGN KEY (deck_id) REFERENCES decks(id) ON DELETE CASCADE
		);
	`

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Error closing database: %v", err)
		}
	})

	return db
}

func newSavedDeck(id string, at time.Time) *models.SavedDeck {
	d := deck.New(deck.SourceArchidekt, "https://archidekt.com/decks/"+id)
	d.Name = "Deck " + id
	return &models.SavedDeck{ID: id, CreatedAt: at, Deck: *d}
}

func TestDeckRepository_CreateAndGet(t *testing.T) {
	db := setupDeckTestDB(t)
	repo := NewDeckRepository(db)
	ctx := context.Background()

	saved := newSavedDeck("d1", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	saved.Commander = deck.NewCommander("Tymna", "t1")
	saved.TotalCards = 99

	if err := repo.Create(ctx, saved); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.GetByID(ctx, "d1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected deck, got nil")
	}
	if got.Name != "Deck d1" || got.Source != deck.SourceArchidekt || got.TotalCards != 99 {
		t.Errorf("unexpected deck header: %+v", got)
	}
	if got.Commander == nil || got.Commander.Name != "Tymna" || got.Commander.ID() != "t1" {
		t.Errorf("commander not round-tripped: %+v", got.Commander)
	}
	if !got.CreatedAt.Equal(saved.CreatedAt) {
		t.Errorf("expected created_at %v, got %v", saved.CreatedAt, got.CreatedAt)
	}

	missing, err := repo.GetByID(ctx, "nope")
	if err != nil {
		t.Fatalf("GetByID for missing deck failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing deck, got %+v", missing)
	}
}

func TestDeckRepository_CardsKeepOrder(t *testing.T) {
	db := setupDeckTestDB(t)
	repo := NewDeckRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, newSavedDeck("d1", time.Now())); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	cards := []deck.CardEntry{
		deck.NewCardEntry("Zebra", 1, "", nil),
		deck.NewCardEntry("Apple", 3, "a1", nil),
		deck.NewCardEntry("Mango", 0, "", nil),
	}
	cards[2].Quantity = 0
	if err := repo.AddCards(ctx, "d1", BoardMainboard, cards); err != nil {
		t.Fatalf("AddCards failed: %v", err)
	}

	got, err := repo.GetCards(ctx, "d1", BoardMainboard)
	if err != nil {
		t.Fatalf("GetCards failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(got))
	}
	for i, want := range []string{"Zebra", "Apple", "Mango"} {
		if got[i].Name != want {
			t.Errorf("position %d: expected %s, got %s", i, want, got[i].Name)
		}
	}
	if got[1].ID() != "a1" {
		t.Errorf("expected scryfall id a1, got %q", got[1].ID())
	}

	side, err := repo.GetCards(ctx, "d1", BoardSideboard)
	if err != nil {
		t.Fatalf("GetCards sideboard failed: %v", err)
	}
	if side == nil || len(side) != 0 {
		t.Errorf("expected empty non-nil sideboard, got %#v", side)
	}

	var qty int
	if err := db.QueryRow(`SELECT quantity FROM deck_cards WHERE name = 'Mango'`).Scan(&qty); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if qty != 1 {
		t.Errorf("expected stored quantity 1, got %d", qty)
	}
}

func TestDeckRepository_ListAndDelete(t *testing.T) {
	db := setupDeckTestDB(t)
	repo := NewDeckRepository(db)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "new"} {
		if err := repo.Create(ctx, newSavedDeck(id, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("Create %s failed: %v", id, err)
		}
	}
	if err := repo.AddCards(ctx, "old", BoardMainboard, []deck.CardEntry{deck.NewCardEntry("Sol Ring", 1, "", nil)}); err != nil {
		t.Fatalf("AddCards failed: %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 || list[0].ID != "new" || list[1].ID != "old" {
		t.Fatalf("expected [new old], got %+v", list)
	}
	if list[0].CommanderName != nil {
		t.Errorf("expected nil commander name, got %q", *list[0].CommanderName)
	}

	deleted, err := repo.Delete(ctx, "old")
	if err != nil || !deleted {
		t.Fatalf("Delete failed: deleted=%v err=%v", deleted, err)
	}

	deleted, err = repo.Delete(ctx, "old")
	if err != nil || deleted {
		t.Errorf("second Delete: expected deleted=false, got %v err=%v", deleted, err)
	}

	var cards int
	if err := db.QueryRow(`SELECT COUNT(*) FROM deck_cards`).Scan(&cards); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if cards != 0 {
		t.Errorf("expected card rows to cascade, got %d", cards)
	}
}

func TestDeckRepository_WithTxRollback(t *testing.T) {
	db := setupDeckTestDB(t)
	repo := NewDeckRepository(db)
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("BeginTx failed: %v", err)
	}
	if err := repo.WithTx(tx).Create(ctx, newSavedDeck("tx", time.Now())); err != nil {
		t.Fatalf("Create in tx failed: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}

	got, err := repo.GetByID(ctx, "tx")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got != nil {
		t.Error("expected rolled-back deck to be absent")
	}
}
