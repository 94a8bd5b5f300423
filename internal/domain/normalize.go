package domain

import (
	"strings"

	"github.com/samber/lo"
)

// NormalizeHumanName trims leading/trailing whitespace and collapses internal whitespace runs.
// It is used for profile display names.
func NormalizeHumanName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeEmail lowercases and trims an email address so it can be used as an ownership key.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeInterests turns a list of free-form interests into a set:
// entries are trimmed, empty entries dropped, and case-insensitive duplicates removed
// (first spelling wins, order preserved).
func NormalizeInterests(in []string) []string {
	trimmed := lo.FilterMap(in, func(s string, _ int) (string, bool) {
		s = NormalizeHumanName(s)
		return s, s != ""
	})
	out := lo.UniqBy(trimmed, strings.ToLower)
	if len(out) == 0 {
		return nil
	}
	return out
}
