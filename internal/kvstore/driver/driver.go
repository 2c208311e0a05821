// Package driver opens the kvstore.Store selected by configuration.
package driver

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/meltforce/trailmark/internal/config"
	"github.com/meltforce/trailmark/internal/kvstore"
	"github.com/meltforce/trailmark/internal/kvstore/postgres"
	"github.com/meltforce/trailmark/internal/kvstore/s3"
	"github.com/meltforce/trailmark/internal/kvstore/sqlite"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

var nopCloser = closerFunc(func() error { return nil })

// Open returns the configured store and a Closer releasing its resources.
func Open(ctx context.Context, cfg config.StorageConfig, log *slog.Logger) (kvstore.Store, io.Closer, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		log.Warn("using in-memory storage; workouts are lost on exit")
		return kvstore.NewMemory(), nopCloser, nil

	case config.DriverSQLite:
		s, err := sqlite.Open(ctx, cfg.SQLite.Dir)
		if err != nil {
			return nil, nil, err
		}
		log.Info("sqlite storage opened", "dir", cfg.SQLite.Dir)
		return s, s, nil

	case config.DriverPostgres:
		dsn := cfg.Postgres.DSN()
		if err := postgres.RunMigrations(dsn); err != nil {
			return nil, nil, err
		}
		log.Info("migrations applied")
		s, err := postgres.New(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		log.Info("database connected", "host", cfg.Postgres.Host, "name", cfg.Postgres.Name)
		return s, closerFunc(func() error { s.Close(); return nil }), nil

	case config.DriverS3:
		s, err := s3.New(ctx, s3.Config{
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			Prefix:          cfg.S3.Prefix,
			Endpoint:        cfg.S3.Endpoint,
			PathStyle:       cfg.S3.PathStyle,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info("s3 storage configured", "bucket", cfg.S3.Bucket, "prefix", cfg.S3.Prefix)
		return s, nopCloser, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

// OpenOrUnavailable is Open, except that a failure yields kvstore.Unavailable
// so the session can still run without durable storage.
func OpenOrUnavailable(ctx context.Context, cfg config.StorageConfig, log *slog.Logger) (kvstore.Store, io.Closer) {
	s, c, err := Open(ctx, cfg, log)
	if err != nil {
		log.Error("storage unavailable, workouts will not be persisted", "driver", cfg.Driver, "error", err)
		return kvstore.Unavailable{Cause: err}, nopCloser
	}
	return s, c
}
