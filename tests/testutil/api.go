package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/nhle/inspection/internal/api"
	"github.com/nhle/inspection/internal/keys"
	"github.com/nhle/inspection/internal/session"
	"github.com/nhle/inspection/internal/ui"
	"github.com/nhle/inspection/internal/validate"
)

// Request is one request received by an APIServer.
type Request struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// Decode unmarshals the request body into v.
func (r Request) Decode(t *testing.T, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Body, v); err != nil {
		t.Fatalf("decoding request body %q: %v", r.Body, err)
	}
}

// APIServer is a fake inspection API that records every request.
type APIServer struct {
	*httptest.Server
	mux *http.ServeMux

	mu       sync.Mutex
	requests []Request
}

// NewAPIServer starts a recording server. Unregistered routes answer 404.
// The server is closed when the test completes.
func NewAPIServer(t *testing.T) *APIServer {
	t.Helper()

	s := &APIServer{mux: http.NewServeMux()}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   body,
		})
		s.mu.Unlock()
		s.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

// JSON registers pattern (e.g. "GET /installations/{id}") to answer with
// status and body encoded as JSON.
func (s *APIServer) JSON(pattern string, status int, body any) {
	s.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if body != nil {
			_ = json.NewEncoder(w).Encode(body)
		}
	})
}

// Requests returns a copy of the requests received so far.
func (s *APIServer) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Last returns the most recent request matching method and path.
func (s *APIServer) Last(method, path string) (Request, bool) {
	reqs := s.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Method == method && reqs[i].Path == path {
			return reqs[i], true
		}
	}
	return Request{}, false
}

// FixedNow is the clock used by NewEnv.
var FixedNow = time.Date(2024, time.May, 10, 14, 30, 0, 0, time.UTC)

// NewEnv returns page dependencies wired to srv with an authenticated,
// memory-only session.
func NewEnv(t *testing.T, srv *APIServer) *ui.Env {
	t.Helper()

	logger := zaptest.NewLogger(t)
	sess := session.New(nil, logger)
	sess.SetToken("test-token")

	return &ui.Env{
		Client:    api.NewClient(srv.URL, sess, api.WithHTTPClient(srv.Client()), api.WithLogger(logger)),
		Session:   sess,
		Validator: validate.New("en"),
		Keys:      keys.DefaultKeyMap(),
		Logger:    logger,
		PageSize:  10,
		Now:       func() time.Time { return FixedNow },
	}
}
