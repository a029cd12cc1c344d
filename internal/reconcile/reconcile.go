// Package reconcile turns a fetched list into what a list view shows:
// search, exact-match filters, pagination and status counts. Everything
// here is pure and synchronous.
package reconcile

import (
	"strings"

	"golang.org/x/text/cases"
)

// Spec describes how to search, filter and count one entity type.
type Spec[T any] struct {
	// Search returns the fields matched by the search term.
	Search func(T) []string
	// Filter returns the value of the named filterable field.
	Filter func(T, string) string
	// Status returns the value counted in Result.Counts.
	Status func(T) string
}

// Query is the view state applied to a list.
type Query struct {
	Search   string
	Filters  map[string]string
	Page     int
	PageSize int
}

// Result is the visible window of a list.
type Result[T any] struct {
	Items      []T
	Total      int
	TotalPages int
	Page       int
	// Counts aggregates the unfiltered list by status.
	Counts map[string]int
}

// Apply reconciles items against q. Search is a case-insensitive substring
// match over the spec's search fields; filters with an empty value are
// ignored; all conditions are ANDed. A PageSize of zero or less disables
// pagination.
func Apply[T any](spec Spec[T], items []T, q Query) Result[T] {
	// A Caser is stateful, so each call gets its own.
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(q.Search))

	matched := make([]T, 0, len(items))
	for _, it := range items {
		if needle != "" && !matchesSearch(spec, fold, it, needle) {
			continue
		}
		if !matchesFilters(spec, it, q.Filters) {
			continue
		}
		matched = append(matched, it)
	}

	res := Result[T]{
		Total:  len(matched),
		Counts: Counts(spec, items),
	}

	if q.PageSize <= 0 {
		res.Items = matched
		res.Page = 1
		res.TotalPages = 1
		return res
	}

	res.TotalPages = max(1, (len(matched)+q.PageSize-1)/q.PageSize)
	res.Page = min(max(q.Page, 1), res.TotalPages)

	start := (res.Page - 1) * q.PageSize
	end := min(start+q.PageSize, len(matched))
	res.Items = matched[start:end]
	return res
}

// Counts tallies items by status.
func Counts[T any](spec Spec[T], items []T) map[string]int {
	counts := make(map[string]int)
	if spec.Status == nil {
		return counts
	}
	for _, it := range items {
		counts[spec.Status(it)]++
	}
	return counts
}

func matchesSearch[T any](spec Spec[T], fold cases.Caser, it T, needle string) bool {
	if spec.Search == nil {
		return true
	}
	for _, field := range spec.Search(it) {
		if strings.Contains(fold.String(field), needle) {
			return true
		}
	}
	return false
}

func matchesFilters[T any](spec Spec[T], it T, filters map[string]string) bool {
	for key, want := range filters {
		if want == "" {
			continue
		}
		if spec.Filter == nil || spec.Filter(it, key) != want {
			return false
		}
	}
	return true
}
