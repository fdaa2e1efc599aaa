// Package session keeps per-chat selection state and menu token tables.
package session

import (
	"strconv"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/imwes/linkfinder/internal/domain"
	"github.com/imwes/linkfinder/internal/domain/selection"
)

// TargetKind says what a callback token points to.
type TargetKind int

const (
	// TargetMonth toggles a month.
	TargetMonth TargetKind = iota + 1
	// TargetCategory opens the option menu of a category.
	TargetCategory
	// TargetOption toggles a tag option.
	TargetOption
)

// Target is what a callback token resolves to.
type Target struct {
	Kind     TargetKind
	Category string
	Label    string
}

// Session is the state of one chat. Callers hold Lock for the duration of an event.
type Session struct {
	mu sync.Mutex

	ID        int64
	Selection *selection.State
	Catalog   domain.Catalog
	Tags      domain.TagSchema

	tokens map[string]Target
}

func newSession(id int64) *Session {
	return &Session{
		ID:        id,
		Selection: selection.New(),
		tokens:    make(map[string]Target),
	}
}

// Lock serializes events of the session.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session.
func (s *Session) Unlock() { s.mu.Unlock() }

// Reset clears the selection, cached menus and every issued token.
func (s *Session) Reset() {
	s.Selection.Reset()
	s.Catalog = nil
	s.Tags = nil
	clear(s.tokens)
}

// Bind registers a callback token. Rebinding a token replaces its target.
func (s *Session) Bind(token string, t Target) {
	s.tokens[token] = t
}

// Lookup resolves a callback token issued by this session.
func (s *Session) Lookup(token string) (Target, bool) {
	t, ok := s.tokens[token]
	return t, ok
}

// Store holds sessions in memory and drops them after an idle period.
type Store struct {
	mu    sync.Mutex
	cache *gocache.Cache
	ttl   time.Duration
}

// NewStore creates a session store. Sessions idle longer than ttl are evicted.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		cache: gocache.New(ttl, ttl/2+time.Second),
		ttl:   ttl,
	}
}

// Get returns the session for id, creating it on first use.
// Every access extends the idle deadline.
func (st *Store) Get(id int64) *Session {
	key := strconv.FormatInt(id, 10)

	st.mu.Lock()
	defer st.mu.Unlock()

	var s *Session
	if v, ok := st.cache.Get(key); ok {
		s = v.(*Session)
	} else {
		s = newSession(id)
	}
	st.cache.Set(key, s, st.ttl)
	return s
}

// Drop removes the session for id.
func (st *Store) Drop(id int64) {
	st.cache.Delete(strconv.FormatInt(id, 10))
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	return st.cache.ItemCount()
}
