package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/valentine/cliparse"
	"github.com/danielhkuo/valentine/db"
	"github.com/danielhkuo/valentine/middleware"
	"github.com/danielhkuo/valentine/router"
	"github.com/danielhkuo/valentine/services"
	"github.com/danielhkuo/valentine/sessions"
	"github.com/danielhkuo/valentine/visit"
)

// shutdownTimeout bounds how long in-flight requests get on SIGTERM
const shutdownTimeout = 10 * time.Second

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	if cfg.LogFormat == "json" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	}

	// Connect to the database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	// Session revocation and visit state live in redis when configured
	var revoker sessions.Revoker = sessions.NewMemoryRevoker()
	var visitStore visit.Store = visit.NewMemoryStore()
	if cfg.RedisURL != "" {
		rdb, err := sessions.ConnectRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			slog.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		revoker = sessions.NewRedisRevoker(rdb)
		visitStore = visit.NewRedisStore(rdb)
		slog.Info("Redis ready")
	}

	svc := services.New(dbConn, cfg)
	sm := sessions.NewManager(cfg.SessionSecret, cfg.SessionTTL, revoker)

	// Create router
	mux := router.NewRouter(svc, sm, visit.NewTracker(visitStore))

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	drained := make(chan struct{})
	go func() {
		defer close(drained)

		// Wait for Ctrl-C signal
		<-ctrlc

		// Shutdown waits for active handlers, so no view write can start
		// after it returns
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		// ListenAndServe returns as soon as Shutdown starts
		<-drained
		slog.Info("Server closed", "error", err)
	}

	// Let background view writes finish before the database closes
	svc.Views.Close()
}
