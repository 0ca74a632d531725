package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"auction-draft-server/internal/config"
	"auction-draft-server/internal/engine"
	"auction-draft-server/internal/httpapi"
	"auction-draft-server/internal/hub"
	"auction-draft-server/internal/identity"
	"auction-draft-server/internal/room"
	"auction-draft-server/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := newLogger(cfg.DevLog)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("connect to league database", zap.Error(err))
	}
	defer pool.Close()

	h := hub.NewHub(ctx, hub.Options{
		Store: store.NewPostgres(pool, cfg.RosterSize),
		Clock: clockwork.NewRealClock(),
		Log:   logger,
		Rules: engine.Rules{RosterSize: cfg.RosterSize, MinBid: cfg.MinBid},
		RoomConfig: room.Config{
			CountdownDelay: cfg.CountdownDelay,
			HeartbeatTTL:   cfg.HeartbeatTTL,
		},
	})

	handler := httpapi.SetupRoutes(h, identity.NewJWTProvider(cfg.JWTSecret), logger)
	server := &http.Server{Addr: cfg.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		h.Inbox() <- hub.ShutdownHub{}
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("http server", zap.Error(err))
	}
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
