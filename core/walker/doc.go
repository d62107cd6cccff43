// Package walker implements the resumable pagination state machine that
// drives one ERP listing.
//
// A run moves through these states:
//
//	awaiting_cursor -> fetching_page -> processing_item* -> page_exhausted
//	    -> next_page | rollover_window | complete
//
// Pages hold up to PageSize rows. A full page moves the cursor to the next
// page; a short or empty page ends the listing, or for date-windowed sources
// rolls the window one day forward until it reaches today. Rows are processed
// strictly in order, one at a time, and the cursor is saved after each.
//
// ErrRateLimited from a source pauses the run for the configured backoff and
// repeats the same call, without touching the cursor. Any other error stops
// the run and leaves the cursor at its last saved position.
package walker
