package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/MTG-Playgroup/internal/api"
	"github.com/ramonehamilton/MTG-Playgroup/internal/config"
	"github.com/ramonehamilton/MTG-Playgroup/internal/deckimport"
)

func newServeCmd(opts *options) *cobra.Command {
	var (
		port  int
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			return runServe(cmd.Context(), cmd, opts.configPath, cfg, watch)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "API server port (overrides config)")
	cmd.Flags().BoolVar(&watch, "watch", true, "Reload the import timeout when the config file changes")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, configPath string, cfg *config.Config, watch bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	importer, err := newImportService(cfg)
	if err != nil {
		return err
	}

	store, dbPath, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	requestTimeout, err := cfg.GetRequestTimeout()
	if err != nil {
		return err
	}

	server := api.NewServer(&api.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RequestTimeout: requestTimeout,
	}, importer, store)

	if err := server.Start(); err != nil {
		return fmt.Errorf("start API server: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Database: %s\n", dbPath)
	fmt.Fprintf(out, "API server running at http://localhost:%d\n", cfg.Server.Port)
	fmt.Fprintln(out, "Press Ctrl+C to stop")

	if watch {
		go watchConfig(ctx, configPath, importer)
	}

	<-ctx.Done()
	fmt.Fprintln(out, "Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	return nil
}

// watchConfig applies a changed import timeout to the running service.
func watchConfig(ctx context.Context, configPath string, importer *deckimport.Service) {
	if configPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			log.Printf("[config] Not watching config: %v", err)
			return
		}
		configPath = p
	}

	err := config.Watch(ctx, configPath, func(cfg *config.Config) {
		timeout, err := cfg.GetImportTimeout()
		if err != nil {
			return
		}
		if timeout != importer.Timeout() {
			importer.SetTimeout(timeout)
			log.Printf("[config] Import timeout set to %s", timeout)
		}
	})
	if err != nil {
		log.Printf("[config] Watch stopped: %v", err)
	}
}
