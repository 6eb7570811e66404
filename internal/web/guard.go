package web

import (
	"sync"
	"time"
)

// submissionGuard remembers form submission ids for a while so a double
// click or a resent form is applied once.
type submissionGuard struct {
	mu   sync.Mutex
	ttl  time.Duration
	seen map[string]time.Time
	now  func() time.Time
}

func newSubmissionGuard(ttl time.Duration) *submissionGuard {
	return &submissionGuard{ttl: ttl, seen: make(map[string]time.Time), now: time.Now}
}

// First reports whether id has not been seen within the ttl and records it.
// An empty id is never tracked.
func (g *submissionGuard) First(id string) bool {
	if id == "" {
		return true
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for k, at := range g.seen {
		if now.Sub(at) > g.ttl {
			delete(g.seen, k)
		}
	}
	if _, ok := g.seen[id]; ok {
		return false
	}
	g.seen[id] = now
	return true
}

// Forget drops id so the form can be sent again after a failed attempt.
func (g *submissionGuard) Forget(id string) {
	g.mu.Lock()
	delete(g.seen, id)
	g.mu.Unlock()
}
