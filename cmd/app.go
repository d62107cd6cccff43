package cmd

import (
	"context"
	"fmt"

	"bling-sync/core/cache"
	"bling-sync/core/config"
	"bling-sync/core/cursor"
	"bling-sync/core/database"
	"bling-sync/core/lock"
	"bling-sync/core/logger"
	"bling-sync/core/metrics"
	"bling-sync/core/redis"
	"bling-sync/core/storage"
	"bling-sync/feature/bling"
	"bling-sync/feature/importer"
	"bling-sync/feature/models"
	syncfeature "bling-sync/feature/sync"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds the wired dependencies shared by the commands.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	db       *gorm.DB
	rdb      *goredis.Client
	archive  storage.Client
	cursors  cursor.Store
	tokens   *bling.TokenStore
	recorder *metrics.Recorder
	importer *importer.Importer
	sync     *syncfeature.Service
}

// loadConfig reads the configuration and builds the logger.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, l, nil
}

// schemaModels lists every table the service owns, in migration order.
func schemaModels() []any {
	return append(models.All(),
		&cursor.ImportCursor{},
		&cache.Entry{},
		&bling.AuthConstant{},
	)
}

// openDatabase connects and, when configured, migrates the schema.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, schemaModels()...); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func newApp(ctx context.Context, cfg *config.Config, l *zap.Logger) (*app, error) {
	db, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: l, db: db}

	var cacheOpts []cache.Option
	var locker lock.Locker = lock.NewLocalLocker()

	if cfg.Redis.Enabled {
		rdb, err := redis.Connect(cfg.Redis)
		if err != nil {
			a.close()
			return nil, err
		}
		a.rdb = rdb
		cacheOpts = append(cacheOpts, cache.WithRedis(rdb, cfg.Redis.TTL()))
		locker = lock.NewRedisLocker(rdb, "")
		l.Info("Redis enabled", zap.String("addr", cfg.Redis.Addr))
	}

	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			a.close()
			return nil, err
		}
		if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			a.close()
			return nil, err
		}
		a.archive = client
		cacheOpts = append(cacheOpts, cache.WithArchive(client, cfg.Storage.Bucket))
		l.Info("Payload archive enabled", zap.String("bucket", cfg.Storage.Bucket))
	}

	a.tokens = bling.NewTokenStore(db)
	client := bling.NewClient(cfg.Bling, bling.NewTokenProvider(cfg.Bling, a.tokens, l), l)

	a.importer, err = importer.New(importer.Deps{
		DB:     db,
		API:    client,
		Cache:  cache.New(db, l, cacheOpts...),
		Logger: l,
		Config: cfg.Sync,
	})
	if err != nil {
		a.close()
		return nil, err
	}

	a.recorder = metrics.NewRecorder()
	opts := cfg.Walker.Options()
	opts.Locker = locker
	opts.Observer = a.recorder
	a.cursors = cursor.NewStore(db)
	a.sync = syncfeature.NewService(a.importer, a.cursors, opts, l)
	return a, nil
}

// close stops background runs and releases connections.
func (a *app) close() {
	if a.sync != nil {
		a.sync.Shutdown()
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Warn("Failed to close redis", zap.Error(err))
		}
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
