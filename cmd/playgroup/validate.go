package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/MTG-Playgroup/internal/deck"
	"github.com/ramonehamilton/MTG-Playgroup/internal/deckimport"
)

func newValidateCmd(_ *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file.json>",
		Short: "Validate a deck JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read deck file: %w", err)
			}

			problems := deck.ValidateJSON(data)
			if len(problems) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "valid")
				return nil
			}

			for _, p := range problems {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return fmt.Errorf("%d validation errors", len(problems))
		},
	}
}

func newCheckURLCmd(_ *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check-url <url>",
		Short: "Report whether a URL is a supported deck link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, ok := deckimport.DetectProvider(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", deckimport.ErrInvalidURL, args[0])
			}
			if _, ok := deckimport.ExtractDeckID(source, args[0]); !ok {
				return fmt.Errorf("%w: %s", deckimport.ErrDeckIDNotFound, args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), source)
			return nil
		},
	}
}
