package backup

import (
	"alcyxob/fitness-tracker/internal/domain"
	"sort"
	"sync"
)

// ActiveUsers remembers the most recent session of every user that has made
// an authenticated request since the process started. Each request refreshes
// the stored session; a user is only dropped through Forget, which the auth
// middleware calls once the account behind a token can no longer be loaded.
type ActiveUsers struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

func NewActiveUsers() *ActiveUsers {
	return &ActiveUsers{sessions: make(map[string]domain.Session)}
}

func (a *ActiveUsers) Touch(sess domain.Session) {
	if !sess.IsAuthenticated() {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sessions[sess.Username] = sess
}

// Forget removes username from the registry. Unknown names are ignored.
func (a *ActiveUsers) Forget(username string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.sessions, username)
}

// Sessions returns the registered sessions ordered by username.
func (a *ActiveUsers) Sessions() []domain.Session {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]domain.Session, 0, len(a.sessions))
	for _, s := range a.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}
