// Package session holds the bearer token for the running process.
//
// A Store is created once at startup and passed to every component that
// needs the token. It is the only process-wide mutable state. Writes are
// persisted synchronously so a restart restores the session; when the
// persistence backend fails the store keeps working from memory.
package session

import (
	"errors"
	"io"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/nhle/inspection/internal/credential"
	"github.com/nhle/inspection/internal/model"
	"github.com/nhle/inspection/internal/store"
)

// Store holds the current bearer token.
type Store struct {
	mu        sync.RWMutex
	token     string
	persister Persister
	logger    *zap.Logger
}

// New creates a Store backed by p and restores any persisted token.
// A nil p yields a memory-only store.
func New(p Persister, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{persister: p, logger: logger}
	if p == nil {
		return s
	}

	token, err := p.Load()
	switch {
	case err == nil:
		s.token = token
	case errors.Is(err, ErrNoToken):
	default:
		s.degrade("load", err)
	}
	return s
}

// Open builds a Store for the configured backend. Failure to open the
// backend is logged and results in a memory-only store.
func Open(cfg model.SessionConfig, configDir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Backend {
	case model.SessionBackendMemory:
		return New(nil, logger)

	case model.SessionBackendSQLite:
		state, err := store.NewSQLiteStore(cfg.StateDB)
		if err != nil {
			logger.Warn("session storage unavailable, keeping session in memory",
				zap.String("backend", cfg.Backend), zap.Error(err))
			return New(nil, logger)
		}
		return New(NewStatePersister(state, cfg.StorageKey), logger)

	default:
		ring, err := credential.Open(configDir)
		if err != nil {
			logger.Warn("session storage unavailable, keeping session in memory",
				zap.String("backend", cfg.Backend), zap.Error(err))
			return New(nil, logger)
		}
		return New(NewKeyringPersister(ring, cfg.StorageKey), logger)
	}
}

// Token returns the current token and whether one is set.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// IsAuthenticated reports whether a token is held.
func (s *Store) IsAuthenticated() bool {
	_, ok := s.Token()
	return ok
}

// SetToken replaces the token and persists it. An empty token clears the
// session and deletes the persisted value.
func (s *Store) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	if s.persister == nil {
		return
	}

	var err error
	if token == "" {
		err = s.persister.Remove()
	} else {
		err = s.persister.Save(token)
	}
	if err != nil {
		s.degrade("save", err)
	}
}

// Clear logs out.
func (s *Store) Clear() {
	s.SetToken("")
}

// Persistent reports whether the session survives a restart.
func (s *Store) Persistent() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persister != nil
}

// Subject returns the "sub" claim of the token for display. The token is
// not verified; an undecodable token yields "".
func (s *Store) Subject() string {
	token, ok := s.Token()
	if !ok {
		return ""
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}

// Close releases the persistence backend, if it holds resources.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.persister.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// degrade drops the persister. Callers hold s.mu or own s exclusively.
func (s *Store) degrade(op string, err error) {
	s.logger.Warn("session storage failed, keeping session in memory",
		zap.String("op", op), zap.Error(err))
	if c, ok := s.persister.(io.Closer); ok {
		_ = c.Close()
	}
	s.persister = nil
}
