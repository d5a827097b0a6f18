package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/MTG-Playgroup/internal/deck"
)

func newImportCmd(opts *options) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "import <url>",
		Short: "Import a deck and print it as JSON",
		Long: `Import a Moxfield or Archidekt deck, enrich it with Scryfall data and
print the canonical deck as JSON. Validation problems are printed to stderr.
With --save a valid deck is stored in the local database.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			importer, err := newImportService(opts.cfg)
			if err != nil {
				return err
			}

			d, err := importer.ImportFromURL(ctx, args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(d); err != nil {
				return fmt.Errorf("encode deck: %w", err)
			}

			problems := deck.Validate(d)
			for _, p := range problems {
				fmt.Fprintf(cmd.ErrOrStderr(), "invalid: %s\n", p)
			}

			if !save {
				return nil
			}
			if len(problems) > 0 {
				return fmt.Errorf("deck not saved: %d validation errors", len(problems))
			}

			store, _, err := openStore(opts.cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					log.Printf("Error closing database: %v", err)
				}
			}()

			saved, err := store.SaveDeck(ctx, d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "saved deck %s\n", saved.ID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Store the deck in the local database")

	return cmd
}
