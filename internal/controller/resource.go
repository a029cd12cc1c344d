package controller

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/nhle/inspection/internal/api"
)

// LoadedMsg carries the outcome of one Resource fetch.
type LoadedMsg[T any] struct {
	resource string
	seq      uint64
	Key      string
	Data     T
	Err      error
}

// Resource is the fetch state of one page. Every Load is tagged with a
// sequence number and only the response to the latest Load is applied;
// earlier responses that arrive late are dropped.
type Resource[T any] struct {
	id    string
	seq   uint64
	key   string
	phase Phase
	data  T
	err   error
}

// NewResource returns an idle resource.
func NewResource[T any]() *Resource[T] {
	return &Resource[T]{id: uuid.NewString()}
}

// Load starts a fetch for key and returns the command that performs it.
func (r *Resource[T]) Load(key string, fetch func(context.Context) (T, error)) tea.Cmd {
	r.seq++
	r.key = key
	r.phase = PhaseLoading
	r.err = nil

	id, seq := r.id, r.seq
	return func() tea.Msg {
		data, err := fetch(context.Background())
		return LoadedMsg[T]{resource: id, seq: seq, Key: key, Data: data, Err: err}
	}
}

// Apply records msg if it answers the latest Load of this resource and
// reports whether it did.
func (r *Resource[T]) Apply(msg LoadedMsg[T]) bool {
	if msg.resource != r.id || msg.seq != r.seq {
		return false
	}
	if msg.Err != nil {
		r.phase = PhaseFailed
		r.err = msg.Err
		return true
	}
	r.phase = PhaseReady
	r.data = msg.Data
	return true
}

// Phase returns the fetch state.
func (r *Resource[T]) Phase() Phase { return r.phase }

// Key returns the identifier of the latest Load.
func (r *Resource[T]) Key() string { return r.key }

// Data returns the last successfully loaded value.
func (r *Resource[T]) Data() T { return r.data }

// Set replaces the loaded value in place.
func (r *Resource[T]) Set(data T) { r.data = data }

// Err returns the error of a failed load.
func (r *Resource[T]) Err() error { return r.err }

// ErrorMessage returns the user-facing text of a failed load.
func (r *Resource[T]) ErrorMessage() string {
	if r.err == nil {
		return ""
	}
	return api.UserMessage(r.err)
}

// Loading reports whether a fetch is outstanding.
func (r *Resource[T]) Loading() bool { return r.phase == PhaseLoading }

// Ready reports whether data is available.
func (r *Resource[T]) Ready() bool { return r.phase == PhaseReady }
