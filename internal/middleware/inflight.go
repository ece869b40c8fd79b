package middleware

import (
	"net/http"
	"sync"
)

// InFlight rejects a second concurrent POST from the same session to the
// same path until the first one completes. Anonymous requests are never held
// back since they share no session to key on.
type InFlight struct {
	mu      sync.Mutex
	pending map[string]struct{}
	busy    http.Handler
}

// NewInFlight answers rejected requests with busy, which should respond 409.
// A nil busy writes a plain text 409.
func NewInFlight(busy http.Handler) *InFlight {
	if busy == nil {
		busy = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "This form is already being submitted", http.StatusConflict)
		})
	}
	return &InFlight{pending: make(map[string]struct{}), busy: busy}
}

func (f *InFlight) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := SessionFromRequest(r)
		if r.Method != http.MethodPost || s.Anonymous() {
			next.ServeHTTP(w, r)
			return
		}
		key := s.Token + " " + r.URL.Path
		if !f.acquire(key) {
			w.Header().Set("Retry-After", "1")
			f.busy.ServeHTTP(w, r)
			return
		}
		defer f.release(key)
		next.ServeHTTP(w, r)
	})
}

func (f *InFlight) acquire(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.pending[key]; busy {
		return false
	}
	f.pending[key] = struct{}{}
	return true
}

func (f *InFlight) release(key string) {
	f.mu.Lock()
	delete(f.pending, key)
	f.mu.Unlock()
}

// LimitBody caps request bodies at n bytes.
func LimitBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}
