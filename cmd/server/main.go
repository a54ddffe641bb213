// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-s-yu/mafia/internal/auth"
	"github.com/jason-s-yu/mafia/internal/cache"
	"github.com/jason-s-yu/mafia/internal/config"
	"github.com/jason-s-yu/mafia/internal/database"
	"github.com/jason-s-yu/mafia/internal/game"
	"github.com/jason-s-yu/mafia/internal/handlers"
	"github.com/jason-s-yu/mafia/internal/middleware"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	logger := cfg.Logger()

	if cfg.JWTPrivateKeyPath != "" {
		err = auth.InitFromPath(cfg.JWTPrivateKeyPath, cfg.JWTPublicKeyPath, cfg.TokenExpireTime)
	} else {
		err = auth.Init(cfg.TokenExpireTime)
	}
	if err != nil {
		logger.Fatalf("auth: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store game.RoomStateStore
	switch cfg.StoreBackend {
	case "memory":
		store = cache.NewMemoryStore()
	default:
		rdb, err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			logger.Fatalf("redis: %v", err)
		}
		defer rdb.Close()
		store = cache.NewRedisStore(rdb)
	}

	pool, err := database.ConnectDB(ctx, cfg.PostgresURL())
	if err != nil {
		logger.Fatalf("postgres: %v", err)
	}
	defer pool.Close()
	logger.WithField("host", cfg.PGHost).Info("connected to database")

	rs := handlers.NewRoomServer(store, database.NewGateway(pool), game.Config{
		PhaseDuration: cfg.PhaseDuration,
		MinPlayers:    cfg.MinPlayers,
		StoreTimeout:  cfg.StoreTimeout,
		Execution:     game.StrictMajority,
	}, logger)

	mux := http.NewServeMux()
	mux.Handle("/room/create", middleware.LogMiddleware(logger)(handlers.CreateRoomHandler(rs)))
	mux.Handle("/room/ws/", middleware.LogMiddleware(logger)(handlers.RoomWSHandler(logger, rs)))

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: mux}
	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		rs.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Infof("Running on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("server exited: %v", err)
	}
}
