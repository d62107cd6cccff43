package cache

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"bling-sync/core/database"
	"bling-sync/core/redis"
	"bling-sync/core/storage"

	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FetchFunc loads a payload from the ERP.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Cache is the response log. The database row is authoritative; Redis and
// object storage are best-effort layers whose failures are only logged.
type Cache struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time

	rdb *goredis.Client
	ttl time.Duration

	archive storage.Client
	bucket  string
}

// Option configures a Cache.
type Option func(*Cache)

// WithRedis enables the read-through layer.
func WithRedis(rdb *goredis.Client, ttl time.Duration) Option {
	return func(c *Cache) {
		c.rdb = rdb
		c.ttl = ttl
	}
}

// WithArchive mirrors every stored payload to bucket.
func WithArchive(client storage.Client, bucket string) Option {
	return func(c *Cache) {
		c.archive = client
		c.bucket = bucket
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates a cache over db.
func New(db *gorm.DB, logger *zap.Logger, opts ...Option) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Cache{db: db, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func redisKey(kind, id string) string {
	return "bling:response:" + kind + ":" + id
}

// ObjectName is where the archived payload of (kind, id) lives.
func ObjectName(kind, id string) string {
	return fmt.Sprintf("responses/%s/%s.json", kind, id)
}

// Get returns the cached payload of (kind, id).
func (c *Cache) Get(ctx context.Context, kind, id string) ([]byte, bool, error) {
	if c.rdb != nil {
		val, err := c.rdb.Get(ctx, redisKey(kind, id)).Bytes()
		switch {
		case err == nil:
			return val, true, nil
		case !redis.IsMiss(err):
			c.logger.Warn("Redis cache read failed", zap.String("kind", kind), zap.String("id", id), zap.Error(err))
		}
	}

	var e Entry
	err := c.db.WithContext(ctx).Where("tipo = ? AND id_original = ?", kind, id).First(&e).Error
	if database.IsNotFound(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read response %s/%s: %w", kind, id, err)
	}

	payload := []byte(e.Payload)
	c.warm(ctx, kind, id, payload)
	return payload, true, nil
}

// Put stores payload as the latest response of (kind, id), replacing any
// previous one.
func (c *Cache) Put(ctx context.Context, kind, id string, payload []byte) error {
	e := Entry{OriginalID: id, Kind: kind, Payload: string(payload), FetchedAt: c.now()}
	err := c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tipo"}, {Name: "id_original"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "fetched_at"}),
	}).Create(&e).Error
	if err != nil {
		return fmt.Errorf("store response %s/%s: %w", kind, id, err)
	}

	c.warm(ctx, kind, id, payload)
	c.mirror(ctx, kind, id, payload)
	return nil
}

// GetOrFetch returns the cached payload or calls fetch and stores its result.
func (c *Cache) GetOrFetch(ctx context.Context, kind, id string, fetch FetchFunc) ([]byte, error) {
	payload, ok, err := c.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if ok {
		return payload, nil
	}

	payload, err = fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.Put(ctx, kind, id, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *Cache) warm(ctx context.Context, kind, id string, payload []byte) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, redisKey(kind, id), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("Redis cache write failed", zap.String("kind", kind), zap.String("id", id), zap.Error(err))
	}
}

func (c *Cache) mirror(ctx context.Context, kind, id string, payload []byte) {
	if c.archive == nil {
		return
	}
	_, err := c.archive.PutObject(ctx, c.bucket, ObjectName(kind, id), bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		c.logger.Warn("Response archive failed", zap.String("kind", kind), zap.String("id", id), zap.Error(err))
	}
}
