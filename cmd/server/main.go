// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"turnero/internal/catalog"
	cataloghandler "turnero/internal/catalog/handler"
	"turnero/internal/platform/config"
	"turnero/internal/platform/httpserver"
	"turnero/internal/platform/logger"
	"turnero/internal/platform/metrics"
	platformredis "turnero/internal/platform/redis"
	"turnero/internal/platform/token"
	"turnero/internal/ticket/announce"
	tickethandler "turnero/internal/ticket/handler"
	"turnero/internal/ticket/service"
	"turnero/internal/ticket/store"
	httptransport "turnero/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	healthChecks := map[string]func(ctx context.Context) error{}

	// Storage: Postgres when DATABASE_URL is set, otherwise the in-memory
	// stores used for local development and demos.
	var (
		tickets  store.TicketStore
		counters store.CounterStore
		tx       store.Tx
		cat      catalog.Store
	)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			log.Error("failed to reach database", "error", err)
			os.Exit(1)
		}
		tickets = store.NewPostgres(db)
		counters = store.NewPostgresCounters(db)
		tx = store.NewPostgresTx(db)
		cat = catalog.NewPostgres(db)
		healthChecks["database"] = db.PingContext
		log.Info("using postgres storage")
	} else {
		mem := store.NewMemory()
		memCatalog := catalog.NewInMemory()
		tickets = mem
		counters = mem.Counters()
		tx = mem
		cat = memCatalog

		if cfg.SeedCatalog {
			if err := store.SeedDemoData(context.Background(), memCatalog, counters); err != nil {
				log.Error("failed to seed demo data", "error", err)
				os.Exit(1)
			}
			log.Info("seeded demo catalog and counters")
		}
		log.Info("using in-memory storage")
	}

	// Announcements: Redis pub/sub when configured, otherwise dropped.
	var announcer announce.Announcer = announce.Noop{}
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		announcer = announce.NewRedis(redisClient.Client)
		healthChecks["redis"] = redisClient.Health
		log.Info("announcing ticket events via redis")
	}

	tokenManager := token.NewManager(cfg.JWTSigningKey, 12*time.Hour)

	ticketService := service.New(tickets, counters, cat, tx,
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithAnnouncer(announcer),
	)

	router := httptransport.NewRouter(httptransport.Dependencies{
		Logger:         log,
		Metrics:        m,
		RequestTimeout: cfg.RequestTimeout,
		Catalog:        cataloghandler.New(cat, log),
		Tickets:        tickethandler.New(ticketService, tokenManager, log),
		HealthChecks:   healthChecks,
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting turnero", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
