package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/inspection/internal/credential"
	"github.com/nhle/inspection/internal/store"
)

// ErrNoToken is returned by Persister.Load when nothing has been saved.
var ErrNoToken = errors.New("no persisted token")

// Persister is durable storage for a single token value.
type Persister interface {
	Load() (string, error)
	Save(token string) error
	Remove() error
}

// KeyringPersister stores the token in the system keyring.
type KeyringPersister struct {
	ring *credential.Ring
	key  string
}

// NewKeyringPersister stores the token under key in ring.
func NewKeyringPersister(ring *credential.Ring, key string) *KeyringPersister {
	return &KeyringPersister{ring: ring, key: key}
}

func (p *KeyringPersister) Load() (string, error) {
	token, err := p.ring.Get(p.key)
	if errors.Is(err, credential.ErrNotFound) {
		return "", ErrNoToken
	}
	return token, err
}

func (p *KeyringPersister) Save(token string) error { return p.ring.Set(p.key, token) }

func (p *KeyringPersister) Remove() error { return p.ring.Delete(p.key) }

// StatePersister stores the token in the local client-state database.
type StatePersister struct {
	state store.StateStore
	key   string
}

// NewStatePersister stores the token under key in state.
func NewStatePersister(state store.StateStore, key string) *StatePersister {
	return &StatePersister{state: state, key: key}
}

func (p *StatePersister) Load() (string, error) {
	token, err := p.state.GetItem(context.Background(), p.key)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("loading token: %w", err)
	}
	return token, nil
}

func (p *StatePersister) Save(token string) error {
	return p.state.SetItem(context.Background(), p.key, token)
}

func (p *StatePersister) Remove() error {
	return p.state.RemoveItem(context.Background(), p.key)
}

// Close releases the underlying database.
func (p *StatePersister) Close() error {
	return p.state.Close()
}
