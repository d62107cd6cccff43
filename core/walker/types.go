package walker

import (
	"context"
	"errors"
	"time"
)

// PageSize is the number of rows requested per page.
const PageSize = 100

var (
	// ErrRateLimited is returned by sources when the ERP asks to slow down.
	// The walker waits and retries the same call.
	ErrRateLimited = errors.New("rate limited")
	// ErrAlreadyRunning is returned when another run holds the kind's lock.
	ErrAlreadyRunning = errors.New("walker already running")
)

// State names the steps of a run.
type State string

const (
	StateAwaitingCursor State = "awaiting_cursor"
	StateFetchingPage   State = "fetching_page"
	StateProcessingItem State = "processing_item"
	StatePageExhausted  State = "page_exhausted"
	StateNextPage       State = "next_page"
	StateRollover       State = "rollover_window"
	StateComplete       State = "complete"
	StateFailed         State = "failed"
)

// Item results reported to the Observer.
const (
	ResultProcessed = "processed"
	ResultSkipped   = "skipped"
	ResultFailed    = "failed"
)

// Row is one entry of a listing page.
type Row struct {
	// ID is the ERP id of the row.
	ID int64
	// Skip marks rows that advance the cursor without being processed.
	Skip bool
	// Summary carries listing fields the source needs again in Process.
	Summary any
}

type resultKind int

const (
	kindRows resultKind = iota
	kindEndOfWindow
	kindEndOfData
)

// PageResult is what a page fetch produced: rows, or one of the two
// end-of-listing signals.
type PageResult struct {
	kind resultKind
	rows []Row
}

// Rows wraps a non-empty page.
func Rows(rows []Row) PageResult {
	return PageResult{kind: kindRows, rows: rows}
}

// EndOfWindow signals that the current date window has no more rows.
func EndOfWindow() PageResult {
	return PageResult{kind: kindEndOfWindow}
}

// EndOfData signals that the listing is exhausted.
func EndOfData() PageResult {
	return PageResult{kind: kindEndOfData}
}

// Page returns Rows(rows), or the end signal matching windowed when rows is empty.
func Page(rows []Row, windowed bool) PageResult {
	switch {
	case len(rows) > 0:
		return Rows(rows)
	case windowed:
		return EndOfWindow()
	default:
		return EndOfData()
	}
}

// IsEnd reports whether the result carries no rows.
func (p PageResult) IsEnd() bool {
	return p.kind != kindRows
}

// Items returns the rows of the page.
func (p PageResult) Items() []Row {
	return p.rows
}

// Source adapts one ERP listing to the walker.
type Source interface {
	// Kind is the cursor key (e.g., "venda").
	Kind() string
	// Windowed reports whether the listing is swept one calendar day at a time.
	Windowed() bool
	// StartDate is the first window of a fresh cursor. Its location decides
	// which calendar day is today when the walker checks for a rollover.
	StartDate() time.Time
	// FetchPage lists page (1-based) of window, which is nil for unwindowed kinds.
	FetchPage(ctx context.Context, page int, window *time.Time) (PageResult, error)
	// Process fetches and reconciles the detail of row.
	Process(ctx context.Context, row Row, window *time.Time) error
}

// Observer receives run events, typically to update metrics.
type Observer interface {
	RunStarted(kind string)
	RunFinished(kind string)
	PageFetched(kind string)
	RateLimited(kind string)
	ItemDone(kind, result string, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) RunStarted(string)                      {}
func (nopObserver) RunFinished(string)                     {}
func (nopObserver) PageFetched(string)                     {}
func (nopObserver) RateLimited(string)                     {}
func (nopObserver) ItemDone(string, string, time.Duration) {}

// Report summarizes one run.
type Report struct {
	Kind        string     `json:"kind"`
	RunID       string     `json:"runId"`
	State       State      `json:"state"`
	Pages       int        `json:"pages"`
	Processed   int        `json:"processed"`
	Skipped     int        `json:"skipped"`
	RateLimited int        `json:"rateLimited"`
	Rollovers   int        `json:"rollovers"`
	Page        int        `json:"page"`
	Index       int16      `json:"index"`
	Window      *time.Time `json:"window,omitempty"`
	StartedAt   time.Time  `json:"startedAt"`
	Duration    string     `json:"duration"`
	Error       string     `json:"error,omitempty"`
}
