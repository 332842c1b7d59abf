package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"oncodash/adapters/api"
	"oncodash/adapters/localstore"
	"oncodash/adapters/postgres"
	"oncodash/adapters/random"
	"oncodash/internal"
	"oncodash/internal/assistant"
	"oncodash/internal/config"
	"oncodash/internal/explain"
	"oncodash/internal/monitor"
	"oncodash/internal/sampler"
	"oncodash/internal/store"
	"oncodash/ports"
	"oncodash/ui"
)

const explainCacheTTL = 5 * time.Minute

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewDefaultLogger()
	logger.Info("[Main] starting dashboard, backend=%s", cfg.Backend.BaseURL)

	client := api.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)

	sessions, err := buildSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize session store: %v", err)
	}

	evalStore := store.New(client, cfg.Deployment.ModelAllowlist, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initial bulk load. A hard failure leaves the store empty and the
	// dashboard serving its persistent banner; it does not kill the process.
	loadCtx, cancel := context.WithTimeout(ctx, cfg.Backend.Timeout)
	if err := evalStore.Load(loadCtx); err != nil {
		logger.Error("[Main] initial load failed: %v", err)
	}
	cancel()

	rng := random.New()
	smp := sampler.New(rng.SeededStream("patient-sampler", time.Now().UnixNano()))

	poller := monitor.NewPoller(client, cfg.Monitor.Interval, cfg.Monitor.LiveLimit, logger)
	go poller.Run(ctx)

	server, err := ui.NewServer(ui.Deps{
		Config:    cfg,
		Store:     evalStore,
		Backend:   client,
		Sessions:  sessions,
		Sampler:   smp,
		Explain:   explain.NewService(client, explainCacheTTL),
		Monitor:   poller,
		Assistant: assistant.New(client),
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	if err := server.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func buildSessionStore(cfg *config.Config) (ports.SessionStore, error) {
	if cfg.Sessions.Backend == "postgres" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		pgStore := postgres.NewSessionStore(db)
		if err := pgStore.EnsureSchema(context.Background()); err != nil {
			return nil, err
		}
		return pgStore, nil
	}
	return localstore.New(cfg.Sessions.Dir)
}
