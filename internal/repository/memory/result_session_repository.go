package memory

import (
	"sync"
	"time"

	"leadgen-suite-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

type SearchState string

const (
	StateIdle      SearchState = "idle"
	StateSearching SearchState = "searching"
	StateCompleted SearchState = "completed"
	StateFailed    SearchState = "failed"
)

// ResultSession is the per-user working set: the query currently in
// flight (or last finished), the token that identifies it, and the
// records the next filter/export/email call operates on.
type ResultSession struct {
	Token   uint64
	State   SearchState
	Query   entity.SearchQuery
	Source  string
	Results *entity.ResultSet
}

type ResultSessionRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
	token uint64
}

func NewResultSessionRepository(ttl time.Duration) *ResultSessionRepository {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	c := cache.New(ttl, 10*time.Minute)
	return &ResultSessionRepository{cache: c}
}

// Begin registers a new in-flight search for the user and returns its
// token. Tokens are process-wide monotonic, so a later Begin always
// outranks an earlier one: whichever search finishes carrying a stale
// token gets discarded in Complete/Fail.
func (r *ResultSessionRepository) Begin(userID string, q entity.SearchQuery, source string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.token++
	session := &ResultSession{
		Token:  r.token,
		State:  StateSearching,
		Query:  q,
		Source: source,
	}
	r.cache.Set(userID, session, cache.DefaultExpiration)
	return r.token
}

// Complete installs the result set for the given token. Returns false
// when the token no longer matches the user's current session, meaning
// a newer search superseded this one and its results must be dropped.
//
// Sessions are never mutated once handed out: a state change installs a
// fresh value, so a Get caller always holds a consistent snapshot even
// while a search finishes concurrently.
func (r *ResultSessionRepository) Complete(userID string, token uint64, set *entity.ResultSet) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.current(userID)
	if !ok || session.Token != token {
		return false
	}
	r.cache.Set(userID, &ResultSession{
		Token:   session.Token,
		State:   StateCompleted,
		Query:   session.Query,
		Source:  session.Source,
		Results: set,
	}, cache.DefaultExpiration)
	return true
}

// Fail marks the session failed and clears any previous results. Same
// staleness rule and copy-on-write behavior as Complete.
func (r *ResultSessionRepository) Fail(userID string, token uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.current(userID)
	if !ok || session.Token != token {
		return false
	}
	r.cache.Set(userID, &ResultSession{
		Token:  session.Token,
		State:  StateFailed,
		Query:  session.Query,
		Source: session.Source,
	}, cache.DefaultExpiration)
	return true
}

func (r *ResultSessionRepository) Get(userID string) (*ResultSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current(userID)
}

func (r *ResultSessionRepository) Clear(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Delete(userID)
}

func (r *ResultSessionRepository) current(userID string) (*ResultSession, bool) {
	if x, found := r.cache.Get(userID); found {
		return x.(*ResultSession), true
	}
	return nil, false
}
