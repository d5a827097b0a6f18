// Command playgroup imports Moxfield and Archidekt decks, enriches them with
// Scryfall card data, and serves them over a REST API.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ramonehamilton/MTG-Playgroup/internal/config"
	"github.com/ramonehamilton/MTG-Playgroup/internal/version"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	configPath string
	envFile    string
	debug      bool

	cfg *config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "playgroup",
		Short: "Import and enrich Commander decks from Moxfield and Archidekt",
		Long: `playgroup imports decks from Moxfield and Archidekt links, resolves every
card against Scryfall, and validates the result.

Configuration is read from ~/.mtg-playgroup/config.toml (or --config) and
PLAYGROUP_* environment variables, which may also be set in a .env file.`,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config.toml (default: ~/.mtg-playgroup/config.toml)")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Optional .env file with PLAYGROUP_* overrides")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		newServeCmd(opts),
		newImportCmd(opts),
		newValidateCmd(opts),
		newCheckURLCmd(opts),
	)

	return rootCmd
}

// load reads the .env file, the config file and the environment, in that order.
func (o *options) load() error {
	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", o.envFile, err)
		}
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	if o.debug {
		cfg.App.DebugMode = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	o.cfg = cfg
	return nil
}
