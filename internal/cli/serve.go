package cli

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/cc-courses/internal/crypto"
	"github.com/pfrederiksen/cc-courses/internal/frame"
	"github.com/pfrederiksen/cc-courses/internal/logger"
	"github.com/pfrederiksen/cc-courses/internal/scraper"
	"github.com/pfrederiksen/cc-courses/internal/server"
	"github.com/pfrederiksen/cc-courses/internal/storage"
	"github.com/pfrederiksen/cc-courses/internal/tokenstore"
)

var (
	flagServeAddr         string
	flagServeOrigin       string
	flagServeSkipKeyCheck bool
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the course API, frame webhook and search page",
		Long: `Starts the HTTP server:

  GET     /                     course search page
  GET     /api/course-schedule  courses table HTML as JSON
  POST    /api/webhook          Farcaster frame events
  GET     /healthz              liveness
  GET     /debug/metrics        in-process metrics`,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&flagServeAddr, "addr", "", "Listen address (default from config, :3000)")
	cmd.Flags().StringVar(&flagServeOrigin, "allowed-origin", "", "Access-Control-Allow-Origin for the API")
	cmd.Flags().BoolVar(&flagServeSkipKeyCheck, "skip-key-check", false, "Accept any app key (local testing only)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	if flagServeAddr != "" {
		cfg.ListenAddr = flagServeAddr
	}
	if flagServeOrigin != "" {
		cfg.AllowedOrigin = flagServeOrigin
	}
	if flagServeSkipKeyCheck {
		cfg.SkipKeyCheck = true
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openTokenStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	var keys frame.KeyChecker = frame.NewHubKeyChecker(cfg.HubURL)
	if cfg.SkipKeyCheck {
		logger.Warn("app key check disabled; any signed webhook is accepted", nil)
		keys = frame.AnyKey{}
	}

	srv, err := server.New(server.Options{
		Addr:          cfg.ListenAddr,
		AllowedOrigin: cfg.AllowedOrigin,
		BaseURL:       cfg.BaseURL,
		Fetcher:       scraper.NewCache(cfg.Scraper(), time.Duration(cfg.CacheTTL)),
		Verifier:      frame.NewVerifier(keys),
		Store:         store,
		Notifier:      frame.NewSender(store, cfg.AppURL),
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	logger.Info("starting server", logger.Fields{
		"addr":        cfg.ListenAddr,
		"token_store": cfg.TokenStore,
		"cache_ttl":   time.Duration(cfg.CacheTTL).String(),
	})
	return srv.Run(ctx)
}

// openTokenStore opens the configured notification token store.
func openTokenStore(ctx context.Context) (tokenstore.Store, error) {
	dataDir, err := storage.ExpandHome(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(cfg.TokenStore) {
	case tokenstore.BackendFile, tokenstore.BackendSQLite:
		if _, err := storage.New(dataDir); err != nil {
			return nil, fmt.Errorf("initializing data directory: %w", err)
		}
	}

	store, err := tokenstore.Open(ctx, cfg.TokenStore, tokenstore.Options{
		DataDir:     dataDir,
		GistID:      cfg.GistID,
		GitHubToken: cfg.GitHubToken,
		Encryptor:   crypto.NewEncryptor(cfg.EncryptionKey),
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s token store: %w", cfg.TokenStore, err)
	}
	return store, nil
}
