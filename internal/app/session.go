package app

import (
	"sync"
	"time"

	"github.com/pkordes/helpline-directory/internal/domain"
	"github.com/pkordes/helpline-directory/internal/render"
)

// Subject is the helpline whose review modal is open.
type Subject struct {
	ID   int
	Name string
}

// State is the application state of one client. It replaces the page-level
// globals of a browser script: the directory cache, the current filter, the
// single review-subject slot, widget state, and status messages.
type State struct {
	// Helplines is the unfiltered directory cache. Filtering never mutates it.
	Helplines  []domain.Helpline
	LoadFailed bool
	// Loaded is set once the directory has been requested for this session.
	// A session recreated after an idle sweep starts without it.
	Loaded bool

	Filter domain.Filter

	// Badges caches rating badges by helpline id.
	Badges map[int]render.Badge

	// Subject is nil when no review modal is open.
	Subject *Subject
	Reviews render.ReviewsView

	SelectedRating int
	HoverRating    int

	DarkMode bool

	FormStatus   render.Status
	ReviewStatus render.Status
}

// displayRating is the rating the star widget shows: the hovered star while
// hovering, otherwise the selected one.
func (s *State) displayRating() int {
	if s.HoverRating > 0 {
		return s.HoverRating
	}
	return s.SelectedRating
}

// lookup finds id in the directory cache.
func (s *State) lookup(id int) (domain.Helpline, bool) {
	for _, h := range s.Helplines {
		if h.ID == id {
			return h, true
		}
	}
	return domain.Helpline{}, false
}

// Session owns the State of one client. Intents for a session run one at a
// time under mu, so handlers and delayed follow-ups never interleave.
type Session struct {
	ID string

	mu    sync.Mutex
	state State

	// dirty collects regions re-rendered by follow-ups until the client
	// collects them with Synchronizer.Updates.
	dirty map[string]string

	pending   map[int]func() bool
	nextTimer int
	closed    bool

	lastSeen time.Time // guarded by the owning Sessions registry
}

// NewSession constructs an empty session for client id.
func NewSession(id string) *Session {
	return &Session{
		ID:      id,
		state:   State{Badges: make(map[int]render.Badge)},
		dirty:   make(map[string]string),
		pending: make(map[int]func() bool),
	}
}

// Snapshot returns a copy of the session state for inspection.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Helplines = append([]domain.Helpline(nil), s.state.Helplines...)
	st.Badges = make(map[int]render.Badge, len(s.state.Badges))
	for k, v := range s.state.Badges {
		st.Badges[k] = v
	}
	return st
}

// Close stops pending follow-ups; later follow-ups are dropped.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.stopPendingLocked()
}

// stopPendingLocked cancels every scheduled follow-up. Callers hold s.mu.
func (s *Session) stopPendingLocked() {
	for id, stop := range s.pending {
		stop()
		delete(s.pending, id)
	}
}

// Sessions is the registry of live sessions keyed by client id.
type Sessions struct {
	mu  sync.Mutex
	m   map[string]*Session
	now func() time.Time
}

// NewSessions constructs an empty registry.
func NewSessions() *Sessions {
	return &Sessions{m: make(map[string]*Session), now: time.Now}
}

// Get returns the session for client id, creating it on first use, and
// records the access for idle sweeping.
func (r *Sessions) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.m[id]
	if !ok {
		sess = NewSession(id)
		r.m[id] = sess
	}
	sess.lastSeen = r.now()
	return sess
}

// Len returns the number of live sessions.
func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.m)
}

// Sweep closes and forgets sessions not accessed within idle, returning
// how many were removed. Persisted state (favorites, preferences) is kept.
func (r *Sessions) Sweep(idle time.Duration) int {
	r.mu.Lock()
	cutoff := r.now().Add(-idle)
	var expired []*Session
	for id, sess := range r.m {
		if sess.lastSeen.Before(cutoff) {
			expired = append(expired, sess)
			delete(r.m, id)
		}
	}
	r.mu.Unlock()

	for _, sess := range expired {
		sess.Close()
	}
	return len(expired)
}
