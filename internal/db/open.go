package db

import (
	"context"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"forumhub/internal/app"
)

// Open connects to PostgreSQL through the pgx driver and sizes the pool.
// The pool is the only connection owner in the process.
func Open(ctx context.Context, cfg app.DatabaseConfig) (*sqlx.DB, error) {
	d, err := sqlx.Open("pgx", cfg.URL)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	d.SetMaxOpenConns(cfg.MaxOpenConns)
	d.SetMaxIdleConns(cfg.MaxIdleConns)
	d.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := d.PingContext(pingCtx); err != nil {
		_ = d.Close()
		return nil, errors.Wrap(err, "ping database")
	}

	zap.L().Info("database connected",
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns))
	return d, nil
}
