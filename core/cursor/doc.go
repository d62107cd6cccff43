// Package cursor persists per-kind import progress.
//
// An ImportCursor holds the page being walked, the index of the last row
// processed on it (-1 when none) and, for date-windowed kinds, the calendar
// day being swept. The index is reset whenever the page or the window moves,
// and the row is saved after every processed item so a restart resumes at the
// next unprocessed row.
package cursor
