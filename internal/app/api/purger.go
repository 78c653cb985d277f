package api

import (
	"context"
	"errors"
	"log/slog"
	"time"

	userpostgres "github.com/Apurer/clothes-shop-api/internal/domains/users/adapters/persistence/postgres"
	platformpostgres "github.com/Apurer/clothes-shop-api/internal/platform/postgres"
)

const purgerServiceName = "clothes-shop-session-purger"

// ExpiredSessionPurger deletes expired sessions. *userpostgres.SessionStore
// satisfies it.
type ExpiredSessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// RunSessionPurger purges expired PostgreSQL sessions once, then on every
// interval tick when once is false. Redis sessions expire on their own.
func RunSessionPurger(ctx context.Context, cfg Config, once bool) error {
	instruments, shutdown, err := initObservability(ctx, cfg, purgerServiceName)
	if err != nil {
		return err
	}
	defer shutdown()
	logger := instruments.Logger

	db, cleanup := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	defer cleanup()
	if db == nil {
		return errors.New("POSTGRES_DSN not set or connection failed; cannot purge sessions")
	}
	interval := cfg.SessionPurgeInterval
	if once {
		interval = 0
	}
	return PurgeSessions(ctx, userpostgres.NewSessionStore(db), interval, logger)
}

// PurgeSessions runs one purge and, with a positive interval, keeps purging
// until ctx is done. A failed tick is logged and retried on the next one.
func PurgeSessions(ctx context.Context, purger ExpiredSessionPurger, interval time.Duration, logger *slog.Logger) error {
	purge := func() error {
		removed, err := purger.PurgeExpired(ctx)
		if err != nil {
			logger.Error("session purge failed", slog.String("error", err.Error()))
			return err
		}
		logger.Info("session purge completed", slog.Int64("removed", removed))
		return nil
	}
	if err := purge(); err != nil && interval <= 0 {
		return err
	}
	if interval <= 0 {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			_ = purge()
		}
	}
}
