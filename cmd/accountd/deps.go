package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	dbutils "github.com/tendant/db-utils/db"
	"github.com/tendant/simple-account/pkg/config"
	"github.com/tendant/simple-account/pkg/mail"
	"github.com/tendant/simple-account/pkg/metrics"
	"github.com/tendant/simple-account/pkg/session"
	"github.com/tendant/simple-account/pkg/user"
)

// deps holds the infrastructure shared by the commands.
type deps struct {
	cfg     config.Config
	pool    *pgxpool.Pool
	redis   *redis.Client
	repo    user.Repository
	revoker session.Revoker
	sender  mail.Sender
	metrics *metrics.Metrics

	closers []func(context.Context) error
}

// Close releases everything in reverse order of acquisition.
func (d *deps) Close(ctx context.Context) error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (d *deps) onClose(fn func(context.Context) error) {
	d.closers = append(d.closers, fn)
}

func openPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	dbConfig := cfg.ToDbConfig()
	pool, err := dbutils.NewDbPool(ctx, dbConfig)
	if err != nil {
		slog.Error("Failed creating dbpool", "db", dbConfig.Database, "host", dbConfig.Host, "port", dbConfig.Port, "user", dbConfig.User)
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}
	return pool, nil
}

func redisConnOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}
}

// newSender picks the transport that actually delivers mail.
func newSender(cfg config.EmailConfig) (mail.Sender, error) {
	if cfg.Mode == config.MailModeLog {
		return mail.LogSender{}, nil
	}
	return mail.NewSMTPSender(cfg.ToSMTPConfig())
}

// buildDeps connects the configured stores and mail transport.
func buildDeps(ctx context.Context, cfg config.Config) (*deps, error) {
	d := &deps{cfg: cfg, metrics: metrics.New()}

	if cfg.Persistence.Type == "postgres" || cfg.Persistence.Type == "postgresql" {
		pool, err := openPool(ctx, cfg.Persistence.Database)
		if err != nil {
			return nil, err
		}
		d.pool = pool
		d.onClose(func(context.Context) error {
			pool.Close()
			return nil
		})
	}

	repo, err := user.NewRepository(cfg.Persistence.Type, user.RepositoryConfig{
		Pool:    d.pool,
		DataDir: cfg.Persistence.DataDir,
	})
	if err != nil {
		_ = d.Close(ctx)
		return nil, err
	}
	d.repo = repo

	if cfg.Redis.Enabled() {
		d.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		client := d.redis
		d.onClose(func(context.Context) error { return client.Close() })
		d.revoker = session.NewRedisRevoker(d.redis)
	} else {
		slog.Warn("REDIS_ADDR not set, session revocation is kept in memory")
		d.revoker = session.NewMemoryRevoker()
	}

	d.sender, err = newSender(cfg.Email)
	if err != nil {
		_ = d.Close(ctx)
		return nil, err
	}

	slog.Info("Dependencies ready",
		"persistence", cfg.Persistence.Type,
		"redis", cfg.Redis.Enabled(),
		"mail_mode", cfg.Email.Mode,
	)
	return d, nil
}

// newDispatcher returns the Dispatcher used by request handlers for the configured mail mode.
func (d *deps) newDispatcher() mail.Dispatcher {
	if d.cfg.Email.Mode == config.MailModeQueue {
		// shares the redis connection, which is closed with d.redis
		client := asynq.NewClientFromRedisClient(d.redis)
		return mail.NewQueueDispatcher(client, d.metrics)
	}

	dispatcher := mail.NewAsyncDispatcher(d.sender, mail.WithMetrics(d.metrics))
	d.onClose(dispatcher.Close)
	return dispatcher
}

// healthCheck pings the backing stores.
func (d *deps) healthCheck(ctx context.Context) error {
	if d.pool != nil {
		if err := d.pool.Ping(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	if d.redis != nil {
		if err := d.redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}
