package main

import (
	"fmt"
	"time"

	"github.com/ramonehamilton/MTG-Playgroup/internal/config"
	"github.com/ramonehamilton/MTG-Playgroup/internal/deckimport"
	"github.com/ramonehamilton/MTG-Playgroup/internal/scryfall"
	"github.com/ramonehamilton/MTG-Playgroup/internal/storage"
)

// newImportService builds the import pipeline from cfg.
func newImportService(cfg *config.Config) (*deckimport.Service, error) {
	rateLimit, err := cfg.GetScryfallRateLimit()
	if err != nil {
		return nil, err
	}
	catalogTimeout, err := cfg.GetScryfallTimeout()
	if err != nil {
		return nil, err
	}
	importTimeout, err := cfg.GetImportTimeout()
	if err != nil {
		return nil, err
	}

	// Zero means "use the client default"; the config uses it to mean "unthrottled".
	if rateLimit == 0 {
		rateLimit = -1
	}

	catalog := scryfall.NewClientWithOptions(scryfall.Options{
		BaseURL:          cfg.Scryfall.BaseURL,
		UserAgent:        cfg.Import.UserAgent,
		RateLimit:        rateLimit,
		Timeout:          catalogTimeout,
		BatchConcurrency: cfg.Scryfall.BatchConcurrency,
	})

	svc := deckimport.NewService(
		deckimport.NewEnricher(catalog, cfg.App.DebugMode),
		deckimport.NewMoxfieldClient(nil, cfg.Import.MoxfieldEndpoints, cfg.Import.UserAgent),
		deckimport.NewArchidektClient(nil, cfg.Import.ArchidektEndpoints, cfg.Import.UserAgent),
	)
	svc.SetTimeout(importTimeout)

	return svc, nil
}

// openStore opens and migrates the deck database.
func openStore(cfg *config.Config) (*storage.Service, string, error) {
	path, err := cfg.DatabasePath()
	if err != nil {
		return nil, "", err
	}

	dbConfig := storage.DefaultConfig(path)
	dbConfig.AutoMigrate = true
	dbConfig.BusyTimeout = 5 * time.Second

	db, err := storage.Open(dbConfig)
	if err != nil {
		return nil, "", fmt.Errorf("open database %s: %w", path, err)
	}

	return storage.NewService(db), path, nil
}
