package utils

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the ERP's calendar date format.
	DateLayout = "2006-01-02"
	// DateTimeLayout is the ERP's timestamp format.
	DateTimeLayout = "2006-01-02 15:04:05"
	zeroDate       = "0000-00-00"
)

// ParseDate parses an ERP date or timestamp in loc. Empty and zero dates
// yield nil so optional columns stay NULL.
func ParseDate(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, zeroDate) {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}

	layout := DateLayout
	if len(s) == len(DateTimeLayout) {
		layout = DateTimeLayout
	}
	t, err := time.ParseInLocation(layout, s, loc)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", s, err)
	}
	return &t, nil
}

// FormatDate renders t the way the ERP expects dates in query strings.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateOnly drops the clock part of t, keeping its location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
