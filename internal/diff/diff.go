// Package diff computes partial updates from an edited draft.
//
// The engine knows nothing about entity schemas: a record lists its
// mutable fields, and a field is copied into the update only when its value
// differs from the original's. Immutable fields never appear in a record,
// so they cannot leak into an update.
package diff

import "github.com/google/go-cmp/cmp"

// Field is one mutable field of a record. Apply writes the field's value
// into the partial update P.
type Field[P any] struct {
	Name  string
	Value any
	Apply func(*P)
}

// Record is an editable projection of an entity that produces updates of
// type P.
type Record[P any] interface {
	Fields() []Field[P]
}

// Compute returns the partial update that turns original into draft and
// the names of the fields it sets. Fields are matched by position, so
// both records must come from the same type.
func Compute[R Record[P], P any](original, draft R) (P, []string) {
	var update P
	var changed []string

	before := original.Fields()
	for i, f := range draft.Fields() {
		if i < len(before) && cmp.Equal(before[i].Value, f.Value) {
			continue
		}
		f.Apply(&update)
		changed = append(changed, f.Name)
	}
	return update, changed
}
