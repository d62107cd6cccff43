package cursor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bling-sync/core/database"

	"gorm.io/gorm"
)

// ErrNotFound is returned when no cursor exists for a kind.
var ErrNotFound = errors.New("cursor not found")

// Store persists cursors.
type Store interface {
	LoadOrCreate(ctx context.Context, kind string, start *time.Time) (*ImportCursor, error)
	Get(ctx context.Context, kind string) (*ImportCursor, error)
	List(ctx context.Context) ([]ImportCursor, error)
	Save(ctx context.Context, c *ImportCursor) error
	Reset(ctx context.Context, kind string, start *time.Time) (*ImportCursor, error)
}

// GormStore keeps cursors in the controle_importacao table.
type GormStore struct {
	db *gorm.DB
}

// NewStore creates a gorm backed cursor store.
func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// LoadOrCreate returns the cursor of kind, creating it at page 1 when absent.
func (s *GormStore) LoadOrCreate(ctx context.Context, kind string, start *time.Time) (*ImportCursor, error) {
	c, err := s.Get(ctx, kind)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	c = New(kind, start)
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		// Another process created it first.
		if database.IsUniqueViolation(err) {
			return s.Get(ctx, kind)
		}
		return nil, fmt.Errorf("create cursor %s: %w", kind, err)
	}
	return c, nil
}

// Get returns the cursor of kind or ErrNotFound.
func (s *GormStore) Get(ctx context.Context, kind string) (*ImportCursor, error) {
	var c ImportCursor
	err := s.db.WithContext(ctx).Where("tabela = ?", kind).First(&c).Error
	if database.IsNotFound(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("load cursor %s: %w", kind, err)
	}
	return &c, nil
}

// List returns all cursors ordered by kind.
func (s *GormStore) List(ctx context.Context) ([]ImportCursor, error) {
	var out []ImportCursor
	if err := s.db.WithContext(ctx).Order("tabela").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list cursors: %w", err)
	}
	return out, nil
}

// Save writes every column of c.
func (s *GormStore) Save(ctx context.Context, c *ImportCursor) error {
	if err := s.db.WithContext(ctx).Save(c).Error; err != nil {
		return fmt.Errorf("save cursor %s: %w", c.EntityKind, err)
	}
	return nil
}

// Reset moves the cursor of kind back to page 1 of start, creating it if needed.
func (s *GormStore) Reset(ctx context.Context, kind string, start *time.Time) (*ImportCursor, error) {
	c, err := s.LoadOrCreate(ctx, kind, start)
	if err != nil {
		return nil, err
	}
	fresh := New(kind, start)
	c.Page = fresh.Page
	c.LastProcessedIndex = fresh.LastProcessedIndex
	c.WindowDate = fresh.WindowDate
	if err := s.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
