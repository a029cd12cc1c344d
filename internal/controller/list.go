package controller

import "github.com/nhle/inspection/internal/reconcile"

// List is the state of a list page: the fetched snapshot plus its search,
// filter and page state.
type List[T any] struct {
	*Resource[[]T]
	pager *reconcile.Pager
	spec  reconcile.Spec[T]
}

// NewList returns an idle list. A pageSize of zero or less disables
// pagination.
func NewList[T any](spec reconcile.Spec[T], pageSize int) *List[T] {
	return &List[T]{
		Resource: NewResource[[]T](),
		pager:    reconcile.NewPager(pageSize),
		spec:     spec,
	}
}

// Pager returns the list's search, filter and page state.
func (l *List[T]) Pager() *reconcile.Pager { return l.pager }

// Result reconciles the snapshot with the current pager state.
func (l *List[T]) Result() reconcile.Result[T] {
	return reconcile.Apply(l.spec, l.Data(), l.pager.Query())
}

// Remove drops every item matching pred from the snapshot and returns how
// many were removed.
func (l *List[T]) Remove(pred func(T) bool) int {
	items := l.Data()
	kept := items[:0:0]
	for _, it := range items {
		if !pred(it) {
			kept = append(kept, it)
		}
	}
	l.Set(kept)
	return len(items) - len(kept)
}
