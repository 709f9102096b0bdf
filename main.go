package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aaronzipp/thavalon/internal/config"
	"github.com/aaronzipp/thavalon/internal/handlers"
	"github.com/aaronzipp/thavalon/internal/session"
	"github.com/aaronzipp/thavalon/internal/sse"
	"github.com/aaronzipp/thavalon/internal/store"
	"github.com/aaronzipp/thavalon/internal/store/blob"
	"github.com/aaronzipp/thavalon/internal/store/sqlite"
	"github.com/aaronzipp/thavalon/internal/syncer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.Exitf("Failed to load config: %v", err)
	}

	applyDebug(cfg)

	docs, closeStore, err := openStore(cfg)
	if err != nil {
		config.Exitf("Failed to open %s store: %v", cfg.Store, err)
	}
	defer closeStore()

	ctx := &handlers.Context{
		Repo:      session.NewRepository(docs),
		Hub:       sse.NewHub(),
		PublicURL: cfg.PublicURL,
		LobbyPoll: cfg.LobbyPoll,
		GamePoll:  cfg.GamePoll,
	}
	// Only a server that owns its documents serves them to blob clients.
	if cfg.Store != config.StoreBlob {
		ctx.Docs = docs
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           ctx.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	shutdown, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-shutdown.Done()
		drain, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(drain); err != nil {
			log.Printf("Server shutdown: %v", err)
		}
	}()

	if cfg.DebugEnabled() {
		log.Printf("Debug logging enabled")
	}
	log.Printf("Server starting on %s (store=%s)", cfg.Addr, cfg.Store)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("Server stopped: %v", err)
		return
	}
	log.Printf("Server stopped")
}

// applyDebug hands the DEBUG setting to every package that logs verbosely.
// Packages read DEBUG at init, before config.Load has applied .env.
func applyDebug(cfg config.Config) {
	on := cfg.DebugEnabled()
	session.SetDebug(on)
	syncer.SetDebug(on)
	sse.SetDebug(on)
	handlers.SetDebug(on)
}

// openStore builds the document store selected by cfg.
func openStore(cfg config.Config) (store.DocumentStore, func(), error) {
	switch cfg.Store {
	case config.StoreSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, nil, err
		}
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return db, func() {
			if err := db.Close(); err != nil {
				log.Printf("Close sqlite store: %v", err)
			}
		}, nil
	case config.StoreBlob:
		client, err := blob.New(cfg.BlobURL, &http.Client{Timeout: 10 * time.Second})
		if err != nil {
			return nil, nil, err
		}
		return client, func() {}, nil
	default:
		return store.NewMemoryStore(), func() {}, nil
	}
}
