package walker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bling-sync/core/cursor"
	"bling-sync/core/lock"
	"bling-sync/core/logger"
	"bling-sync/core/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options tunes a walker. Zero values disable the corresponding delay.
type Options struct {
	RateLimitBackoff time.Duration
	ItemDelay        time.Duration
	PageDelay        time.Duration
	LockTTL          time.Duration

	// Locker, when set, keeps a single run per kind.
	Locker   lock.Locker
	Observer Observer
	Logger   *zap.Logger

	// Now and Sleep are replaced in tests.
	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
}

// Walker drives the pagination state machine of one source.
type Walker struct {
	source Source
	store  cursor.Store
	opts   Options
}

// New creates a walker for source persisting progress in store.
func New(source Source, store cursor.Store, opts Options) *Walker {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Sleep == nil {
		opts.Sleep = sleep
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = time.Minute
	}
	return &Walker{source: source, store: store, opts: opts}
}

// Kind returns the source kind.
func (w *Walker) Kind() string {
	return w.source.Kind()
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// LockKey is the lock name guarding runs of kind.
func LockKey(kind string) string {
	return "lock:sync:" + kind
}

// run carries the state of one invocation.
type run struct {
	*Walker
	report Report
	cur    *cursor.ImportCursor
	lease  lock.Lease
	log    *zap.Logger
}

// Run walks the source from its persisted cursor until the listing is
// exhausted, the window catches up with today, or an error occurs. The
// cursor is saved after every item, so a failed run resumes at the first
// unprocessed row.
func (w *Walker) Run(ctx context.Context) (Report, error) {
	return w.RunWithID(ctx, uuid.NewString())
}

// RunWithID is Run with a caller supplied run id.
func (w *Walker) RunWithID(ctx context.Context, runID string) (Report, error) {
	kind := w.source.Kind()
	r := &run{
		Walker: w,
		report: Report{Kind: kind, RunID: runID, State: StateAwaitingCursor, StartedAt: w.opts.Now()},
		log:    logger.WithRun(w.opts.Logger, kind, runID),
	}

	if w.opts.Locker != nil {
		lease, err := w.opts.Locker.Obtain(ctx, LockKey(kind), w.opts.LockTTL)
		if errors.Is(err, lock.ErrNotObtained) {
			return r.finish(fmt.Errorf("%w: %s", ErrAlreadyRunning, kind))
		}
		if err != nil {
			return r.finish(fmt.Errorf("obtain lock: %w", err))
		}
		r.lease = lease
		defer func() {
			// The run context may already be cancelled.
			if err := lease.Release(context.Background()); err != nil {
				r.log.Warn("Failed to release lock", zap.Error(err))
			}
		}()
	}

	w.opts.Observer.RunStarted(kind)
	defer w.opts.Observer.RunFinished(kind)

	r.log.Info("Sync run started")
	err := r.walk(ctx)
	return r.finish(err)
}

// today is the clock read in the source's timezone, the zone its windows
// are calendar days of.
func (r *run) today() time.Time {
	return r.opts.Now().In(r.source.StartDate().Location())
}

func (r *run) finish(err error) (Report, error) {
	r.report.Duration = r.opts.Now().Sub(r.report.StartedAt).String()
	if r.cur != nil {
		r.report.Page = r.cur.Page
		r.report.Index = r.cur.LastProcessedIndex
		r.report.Window = r.cur.WindowDate
	}
	if err != nil {
		r.report.State = StateFailed
		r.report.Error = err.Error()
		if !errors.Is(err, ErrAlreadyRunning) {
			r.log.Error("Sync run failed", zap.Error(err), zap.Int("page", r.report.Page), zap.Int16("index", r.report.Index))
		}
		return r.report, err
	}
	r.log.Info("Sync run finished",
		zap.Int("pages", r.report.Pages),
		zap.Int("processed", r.report.Processed),
		zap.Int("skipped", r.report.Skipped),
		zap.Int("rollovers", r.report.Rollovers),
	)
	return r.report, nil
}

func (r *run) walk(ctx context.Context) error {
	var start *time.Time
	if r.source.Windowed() {
		s := r.source.StartDate()
		start = &s
	}

	cur, err := r.store.LoadOrCreate(ctx, r.source.Kind(), start)
	if err != nil {
		return err
	}
	r.cur = cur

	for {
		r.report.State = StateFetchingPage
		if err := r.pause(ctx, r.opts.PageDelay); err != nil {
			return err
		}

		result, err := r.fetchPage(ctx)
		if err != nil {
			return err
		}
		r.report.Pages++
		r.opts.Observer.PageFetched(r.source.Kind())

		if result.kind == kindEndOfData {
			r.report.State = StateComplete
			return nil
		}

		rows := result.Items()
		if len(rows) > 0 {
			r.report.State = StateProcessingItem
			if err := r.processPage(ctx, rows); err != nil {
				return err
			}
		}

		r.report.State = StatePageExhausted
		if len(rows) >= PageSize {
			r.report.State = StateNextPage
			r.cur.NextPage()
			if err := r.store.Save(ctx, r.cur); err != nil {
				return err
			}
			continue
		}

		if !r.source.Windowed() || r.cur.CaughtUp(r.today()) {
			r.report.State = StateComplete
			return nil
		}

		r.report.State = StateRollover
		r.cur.Rollover()
		if err := r.store.Save(ctx, r.cur); err != nil {
			return err
		}
		r.report.Rollovers++
		r.log.Info("Window rolled over", zap.String("window", utils.FormatDate(*r.cur.WindowDate)))
	}
}

func (r *run) fetchPage(ctx context.Context) (PageResult, error) {
	for {
		result, err := r.source.FetchPage(ctx, r.cur.Page, r.cur.WindowDate)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, ErrRateLimited) {
			return PageResult{}, fmt.Errorf("fetch page %d: %w", r.cur.Page, err)
		}
		if err := r.backoff(ctx, zap.Int("page", r.cur.Page)); err != nil {
			return PageResult{}, err
		}
	}
}

func (r *run) processPage(ctx context.Context, rows []Row) error {
	kind := r.source.Kind()
	for i := r.cur.StartIndex(); i < len(rows); i++ {
		row := rows[i]

		result := ResultSkipped
		started := r.opts.Now()
		if !row.Skip {
			if err := r.pause(ctx, r.opts.ItemDelay); err != nil {
				return err
			}
			if err := r.processRow(ctx, row, i); err != nil {
				r.opts.Observer.ItemDone(kind, ResultFailed, r.opts.Now().Sub(started))
				return err
			}
			result = ResultProcessed
		}

		// The item is done; record it even if the run is being cancelled.
		r.cur.Advance()
		if err := r.store.Save(context.WithoutCancel(ctx), r.cur); err != nil {
			return err
		}
		if row.Skip {
			r.report.Skipped++
		} else {
			r.report.Processed++
		}
		r.opts.Observer.ItemDone(kind, result, r.opts.Now().Sub(started))

		if err := r.refreshLease(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) processRow(ctx context.Context, row Row, index int) error {
	for {
		err := r.source.Process(ctx, row, r.cur.WindowDate)
		if err == nil {
			r.log.Debug("Item processed", zap.Int64("id", row.ID), zap.Int("page", r.cur.Page), zap.Int("index", index))
			return nil
		}
		if !errors.Is(err, ErrRateLimited) {
			return fmt.Errorf("item %d (page %d, index %d): %w", row.ID, r.cur.Page, index, err)
		}
		if err := r.backoff(ctx, zap.Int64("id", row.ID)); err != nil {
			return err
		}
	}
}

func (r *run) backoff(ctx context.Context, field zap.Field) error {
	r.report.RateLimited++
	r.opts.Observer.RateLimited(r.source.Kind())
	r.log.Warn("Rate limited, backing off", field, zap.Duration("backoff", r.opts.RateLimitBackoff))
	return r.pause(ctx, r.opts.RateLimitBackoff)
}

func (r *run) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	return r.opts.Sleep(ctx, d)
}

func (r *run) refreshLease(ctx context.Context) error {
	if r.lease == nil {
		return nil
	}
	if err := r.lease.Refresh(ctx, r.opts.LockTTL); err != nil {
		return fmt.Errorf("refresh lock: %w", err)
	}
	return nil
}
