package sync

import (
	"context"
	"errors"
	"fmt"
	"sort"
	stdsync "sync"
	"time"

	"bling-sync/core/cursor"
	"bling-sync/core/reconcile"
	"bling-sync/core/utils"
	"bling-sync/core/walker"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidDate is returned for reset dates that are not YYYY-MM-DD.
var ErrInvalidDate = errors.New("invalid date")

// Catalog is the set of sources the service can run. *importer.Importer
// implements it.
type Catalog interface {
	Kinds() []string
	Enabled() ([]string, error)
	Source(kind string) (walker.Source, error)
	Stats() map[string]reconcile.Stats
}

// Service runs walkers and keeps their last reports.
type Service struct {
	catalog Catalog
	store   cursor.Store
	opts    walker.Options
	logger  *zap.Logger

	// base is the parent context of background runs.
	base   context.Context
	cancel context.CancelFunc
	wg     stdsync.WaitGroup

	mu      stdsync.Mutex
	running map[string]string
	last    map[string]walker.Report
}

// NewService creates a sync service. opts is shared by every walker it builds.
func NewService(catalog Catalog, store cursor.Store, opts walker.Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts.Logger = logger
	base, cancel := context.WithCancel(context.Background())
	return &Service{
		catalog: catalog,
		store:   store,
		opts:    opts,
		logger:  logger,
		base:    base,
		cancel:  cancel,
		running: make(map[string]string),
		last:    make(map[string]walker.Report),
	}
}

// Kinds lists the registered kinds.
func (s *Service) Kinds() []string {
	return s.catalog.Kinds()
}

// Enabled lists the kinds the scheduler runs.
func (s *Service) Enabled() ([]string, error) {
	return s.catalog.Enabled()
}

func (s *Service) walker(kind string) (*walker.Walker, error) {
	src, err := s.catalog.Source(kind)
	if err != nil {
		return nil, err
	}
	return walker.New(src, s.store, s.opts), nil
}

// claim marks kind as running in this process and returns a fresh run id.
func (s *Service) claim(kind string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.running[kind]; busy {
		return "", fmt.Errorf("%w: %s", walker.ErrAlreadyRunning, kind)
	}
	id := uuid.NewString()
	s.running[kind] = id
	return id, nil
}

func (s *Service) execute(ctx context.Context, w *walker.Walker, runID string) (walker.Report, error) {
	report, err := w.RunWithID(ctx, runID)

	s.mu.Lock()
	delete(s.running, w.Kind())
	// A run refused by another process's lock did nothing worth keeping.
	if !errors.Is(err, walker.ErrAlreadyRunning) {
		s.last[w.Kind()] = report
	}
	s.mu.Unlock()
	return report, err
}

// Run walks kind in the foreground.
func (s *Service) Run(ctx context.Context, kind string) (walker.Report, error) {
	w, err := s.walker(kind)
	if err != nil {
		return walker.Report{}, err
	}
	id, err := s.claim(kind)
	if err != nil {
		return walker.Report{Kind: kind}, err
	}
	return s.execute(ctx, w, id)
}

// Start walks kind in the background and returns the run id at once.
func (s *Service) Start(kind string) (string, error) {
	w, err := s.walker(kind)
	if err != nil {
		return "", err
	}
	id, err := s.claim(kind)
	if err != nil {
		return "", err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		report, err := s.execute(s.base, w, id)
		if err != nil {
			s.logger.Error("Background sync failed",
				zap.String("kind", kind),
				zap.String("run_id", id),
				zap.String("state", string(report.State)),
				zap.Error(err),
			)
		}
	}()
	return id, nil
}

// Running returns the run id of every kind currently walking.
func (s *Service) Running() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.running))
	for k, v := range s.running {
		out[k] = v
	}
	return out
}

// Runs returns the last report of every kind, ordered by kind.
func (s *Service) Runs() []walker.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]walker.Report, 0, len(s.last))
	for _, r := range s.last {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// Stats returns the reconcile counters of every entity.
func (s *Service) Stats() map[string]reconcile.Stats {
	return s.catalog.Stats()
}

// Cursors lists every persisted cursor.
func (s *Service) Cursors(ctx context.Context) ([]cursor.ImportCursor, error) {
	return s.store.List(ctx)
}

// Cursor returns the cursor of a registered kind.
func (s *Service) Cursor(ctx context.Context, kind string) (*cursor.ImportCursor, error) {
	if _, err := s.catalog.Source(kind); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, kind)
}

// ResetCursor moves kind back to page 1. Windowed kinds restart at date
// (YYYY-MM-DD in the source's timezone), or at their configured start date
// when date is empty.
func (s *Service) ResetCursor(ctx context.Context, kind, date string) (*cursor.ImportCursor, error) {
	src, err := s.catalog.Source(kind)
	if err != nil {
		return nil, err
	}

	var start *time.Time
	if src.Windowed() {
		d := src.StartDate()
		parsed, err := utils.ParseDate(date, d.Location())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
		}
		if parsed != nil {
			d = *parsed
		}
		start = &d
	}

	if _, err := s.claim(kind); err != nil {
		return nil, err
	}
	defer func() {
		s.mu.Lock()
		delete(s.running, kind)
		s.mu.Unlock()
	}()

	c, err := s.store.Reset(ctx, kind, start)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Cursor reset", zap.String("kind", kind), zap.Timep("window", c.WindowDate))
	return c, nil
}

// Shutdown cancels background runs and waits for them to return. Cursors
// are saved after every item, so interrupted runs resume where they stopped.
func (s *Service) Shutdown() {
	s.cancel()
	s.wg.Wait()
}

// Wait blocks until every background run has returned.
func (s *Service) Wait() {
	s.wg.Wait()
}
