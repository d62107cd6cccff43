package utils

import (
	"strconv"
	"strings"
)

// OriginalID renders an ERP id as the string stored in id_original columns.
func OriginalID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// SplitList splits a comma separated list, trimming blanks and dropping
// empty entries and duplicates while keeping the first-seen order.
func SplitList(s string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if _, ok := seen[part]; ok {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	return out
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// FirstNonEmpty returns the first argument that is not blank.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Digits keeps only the ASCII digits of s.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
