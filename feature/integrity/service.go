package integrity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bling-sync/core/cache"
	"bling-sync/core/cursor"
	"bling-sync/core/storage"
	"bling-sync/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrArchiveDisabled is returned by archive checks when no storage is configured.
var ErrArchiveDisabled = errors.New("payload archive is disabled")

// Check defaults.
const (
	// DefaultSample is the number of recent payloads an archive check reads.
	DefaultSample = 50
	// DefaultMaxLagDays is how far a window may trail today before it is lagging.
	DefaultMaxLagDays = 2
)

// Service handles integrity checks.
type Service struct {
	db      *gorm.DB
	models  []any
	client  storage.Client
	bucket  string
	cursors cursor.Store
	kinds   func() []string
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a new integrity service. client may be nil when the
// archive is disabled; models are the tables the schema check covers.
func NewService(db *gorm.DB, models []any, client storage.Client, bucket string, cursors cursor.Store, kinds func() []string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:      db,
		models:  models,
		client:  client,
		bucket:  bucket,
		cursors: cursors,
		kinds:   kinds,
		logger:  logger,
		now:     time.Now,
	}
}

// CheckSchema compares the live tables with the models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db, s.models...)
}

// recentEntries returns the sample most recently stored payloads.
func (s *Service) recentEntries(ctx context.Context, sample int) ([]cache.Entry, error) {
	if sample <= 0 {
		sample = DefaultSample
	}
	var entries []cache.Entry
	err := s.db.WithContext(ctx).Order("fetched_at DESC").Limit(sample).Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("load recent payloads: %w", err)
	}
	return entries, nil
}

// CheckArchive verifies the sample most recent payloads were archived.
func (s *Service) CheckArchive(ctx context.Context, sample int) (*checks.ArchiveReport, error) {
	if s.client == nil {
		return nil, ErrArchiveDisabled
	}
	entries, err := s.recentEntries(ctx, sample)
	if err != nil {
		return nil, err
	}
	return checks.CheckArchive(ctx, s.client, s.bucket, entries)
}

// FixArchive uploads the missing payloads of the sample most recent entries.
func (s *Service) FixArchive(ctx context.Context, sample int, missing []string) (int, error) {
	if s.client == nil {
		return 0, ErrArchiveDisabled
	}
	entries, err := s.recentEntries(ctx, sample)
	if err != nil {
		return 0, err
	}
	return checks.FixArchive(ctx, s.client, s.bucket, s.logger, entries, missing)
}

// CheckCursors reports missing and lagging cursors.
func (s *Service) CheckCursors(ctx context.Context, maxLagDays int) (*checks.CursorReport, error) {
	return checks.CheckCursors(ctx, s.cursors, s.kinds(), s.now(), maxLagDays)
}
