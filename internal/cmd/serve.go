package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmalone/crossprep/internal/config"
	"github.com/dmalone/crossprep/internal/llm"
	"github.com/dmalone/crossprep/internal/logger"
	"github.com/dmalone/crossprep/internal/recovery"
	"github.com/dmalone/crossprep/internal/server"
	"github.com/dmalone/crossprep/internal/storage"
)

var devMode bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the crossprep HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&devMode, "dev", false, "pretty console logs and debug level")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger.Configure(logger.GetLogLevelFromEnv(devMode), devMode)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.Store, err)
	}

	client, err := llm.NewClientFromEnv()
	if err != nil {
		logger.Warnf("model client unavailable, running on offline fallback only: %v", err)
		client = llm.NewDisabledClient(err)
	} else {
		logger.Infof("using model %s", client.Model())
	}

	app, err := server.New(cfg, store, client)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.WatchDir != "" {
		recovery.SafeGo("document-watcher", func() {
			if err := app.Ingest.Watch(ctx, cfg.WatchDir); err != nil && ctx.Err() == nil {
				logger.Errorf("document watcher stopped: %v", err)
			}
		})
	}

	errCh := make(chan error, 1)
	recovery.SafeGo("http-server", func() {
		errCh <- app.Listen()
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Infof("received %s, shutting down", sig)
		cancel()
		return app.Shutdown()
	case err := <-errCh:
		return err
	}
}

// openStore selects the persistence backend configured for the deployment
func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return storage.NewMemoryStore(), nil
	case config.StoreSQLite:
		return storage.NewSQLiteStore(context.Background(), filepath.Join(cfg.DataDir, "crossprep.db"))
	default:
		return storage.NewFileStore(filepath.Join(cfg.DataDir, "state"))
	}
}
