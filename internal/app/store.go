package app

import (
	"context"
	"fmt"

	"github.com/overtrack/overtrack/internal/blobstore"
	"github.com/overtrack/overtrack/internal/blobstore/postgres"
	"github.com/overtrack/overtrack/internal/blobstore/s3store"
	"github.com/overtrack/overtrack/internal/blobstore/sqlite"
	"github.com/overtrack/overtrack/internal/config"
	"github.com/overtrack/overtrack/internal/database"
	log "github.com/sirupsen/logrus"
)

// OpenStore opens the blob store selected by storage.backend, migrating its schema first
// where the backend has one.
func OpenStore(ctx context.Context, cfg config.Application) (blobstore.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		log.Warn("Using the memory backend, the tracker is lost on exit")
		return blobstore.NewMemory(), nil

	case config.BackendFile:
		store, err := blobstore.NewFile(cfg.Storage.Dir)
		if err != nil {
			return nil, err
		}
		log.Infof("Using file storage in %s", cfg.Storage.Dir)
		return store, nil

	case config.BackendSQLite:
		store, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Infof("Using sqlite storage at %s", cfg.Storage.SQLitePath)
		return store, nil

	case config.BackendPostgres:
		if err := database.Migrate(cfg.Database); err != nil {
			return nil, err
		}
		pool, err := database.Open(cfg.Database)
		if err != nil {
			return nil, err
		}
		log.Infof("Using postgres storage on %s:%d", cfg.Database.Host, cfg.Database.Port)
		return postgres.New(pool), nil

	case config.BackendS3:
		store, err := s3store.New(ctx, s3store.Options{
			Bucket:    cfg.S3.Bucket,
			Prefix:    cfg.S3.Prefix,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			PathStyle: cfg.S3.PathStyle,
		})
		if err != nil {
			return nil, err
		}
		log.Infof("Using s3 storage in bucket %s", cfg.S3.Bucket)
		return store, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}
