package model

// Opt is a field of a partial update. A zero Opt is omitted from the
// payload; a set Opt is sent even when its value is the zero value.
type Opt[T any] struct {
	Set   bool
	Value T
}

// Some returns a set Opt holding v.
func Some[T any](v T) Opt[T] {
	return Opt[T]{Set: true, Value: v}
}

// payload accumulates the set fields of a partial update.
type payload map[string]any

func putOpt[T any](p payload, key string, o Opt[T]) {
	if o.Set {
		p[key] = o.Value
	}
}

// putNullableString sends an empty string as JSON null.
func putNullableString(p payload, key string, o Opt[string]) {
	if !o.Set {
		return
	}
	if o.Value == "" {
		p[key] = nil
		return
	}
	p[key] = o.Value
}

// putTime sends a nil timestamp as JSON null.
func putTime(p payload, key string, o Opt[*Time]) {
	if !o.Set {
		return
	}
	if o.Value == nil {
		p[key] = nil
		return
	}
	p[key] = *o.Value
}
