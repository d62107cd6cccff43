package checks

import (
	"context"
	"errors"
	"math"
	"time"

	"bling-sync/core/cursor"
	"bling-sync/core/utils"
)

// Cursor statuses.
const (
	CursorOK      = "ok"
	CursorMissing = "missing"
	CursorLagging = "lagging"
)

// CursorStatus describes how far behind one kind is.
type CursorStatus struct {
	Kind    string `json:"kind"`
	Window  string `json:"window,omitempty"`
	LagDays int    `json:"lag_days"`
	Status  string `json:"status"`
}

// CursorReport is the result of a cursor check.
type CursorReport struct {
	Cursors []CursorStatus `json:"cursors"`
	Missing []string       `json:"missing"`
	Lagging []string       `json:"lagging"`
}

// CheckCursors reports the kinds that never ran and the windowed kinds whose
// window is more than maxLagDays behind the calendar day of now.
func CheckCursors(ctx context.Context, store cursor.Store, kinds []string, now time.Time, maxLagDays int) (*CursorReport, error) {
	report := &CursorReport{}
	for _, kind := range kinds {
		c, err := store.Get(ctx, kind)
		if errors.Is(err, cursor.ErrNotFound) {
			report.Missing = append(report.Missing, kind)
			report.Cursors = append(report.Cursors, CursorStatus{Kind: kind, Status: CursorMissing})
			continue
		}
		if err != nil {
			return nil, err
		}

		st := CursorStatus{Kind: kind, Status: CursorOK}
		if c.WindowDate != nil {
			w := utils.DateOnly(*c.WindowDate)
			today := utils.DateOnly(now.In(w.Location()))
			st.Window = utils.FormatDate(w)
			st.LagDays = int(math.Round(today.Sub(w).Hours() / 24))
			if st.LagDays > maxLagDays {
				st.Status = CursorLagging
				report.Lagging = append(report.Lagging, kind)
			}
		}
		report.Cursors = append(report.Cursors, st)
	}
	return report, nil
}
