package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"forumhub/internal/app"
	"forumhub/internal/auth"
	"forumhub/internal/db"
	httpx "forumhub/internal/http"
	"forumhub/internal/logger"
	"forumhub/internal/storage"
)

func main() {
	cfg, err := app.LoadConfig(os.Getenv("FORUM_CONFIG_DIR"))
	if err != nil {
		panic(err)
	}
	log, err := logger.Init(cfg.Logging)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	gin.SetMode(cfg.Server.Mode)

	ctx := context.Background()
	d, err := db.Open(ctx, cfg.Database)
	app.Must(err)
	defer d.Close()
	if cfg.Database.Migrate {
		app.Must(db.Migrate(ctx, d, cfg.Database.SchemaPath))
	}

	store := storage.New(d)
	sessions := auth.NewSessionStore(d, store, cfg.Session.Lifetime)
	if cfg.Auth.Secret == "" {
		log.Warn("auth.secret is empty, logins will be refused")
	}
	srv := httpx.NewServer(store, sessions, auth.NewVerifier(cfg.Auth), cfg)

	hs := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("listening", zap.String("addr", cfg.Server.Addr))
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
}
