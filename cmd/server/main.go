package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"slidesync/internal/api"
	"slidesync/internal/auth"
	"slidesync/internal/config"
	"slidesync/internal/events"
	"slidesync/internal/routers"
	"slidesync/internal/session"
	"slidesync/internal/snapshot"
)

// Seams for tests.
var (
	listenAndServe = http.ListenAndServe
	exit           = os.Exit
	exitFunc       = defaultExit
)

func defaultExit(err error) {
	log.Printf("slidesync: %v", err)
	exit(1)
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	verifier := auth.NewJWTVerifier(cfg.JWTSecret)
	store := snapshot.NewRedisStore(rdb, cfg.SnapshotTTL)
	publisher := events.NewRedisPublisher(rdb, cfg.SessionEndedChannel)

	hub := session.NewHub()
	hub.SetOnEmpty(func(name string) {
		ev := events.SessionEnded{
			SessionID: session.SessionID(name),
			EndedAt:   time.Now().UTC().Format(time.RFC3339),
		}
		if err := publisher.PublishSessionEnded(ctx, ev); err != nil {
			logger.Warn("publish session_ended failed", zap.String("session", ev.SessionID), zap.Error(err))
		}
	})

	handlers := api.NewHandlers(logger, hub, verifier, store)
	router := routers.New(handlers, cfg.AllowedOrigins)

	addr := ":" + cfg.Port
	logger.Info("slidesync listening", zap.String("addr", addr))
	return listenAndServe(addr, router)
}

func main() {
	if err := run(context.Background()); err != nil {
		exitFunc(err)
	}
}
