// Package source isolates the request/response contract of each upstream
// lead-discovery backend. Adapters are the only code that knows a backend's
// wire shape; everything downstream sees normalized ResultRecords.
package source

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"leadgen-suite-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// Adapter translates one backend family.
type Adapter interface {
	// Name is the user-visible source tag (e.g. "LinkedIn").
	Name() string

	// Kind is the record shape every result of this adapter has.
	Kind() entity.RecordKind

	// Search issues the upstream request and maps the payload. It fails
	// with ErrSourceUnavailable or ErrMalformedResponse as a whole;
	// missing optional fields never fail a batch.
	Search(ctx context.Context, q entity.SearchQuery) ([]entity.ResultRecord, error)
}

// Registry resolves the adapter for a scraper id and wraps each adapter
// with a short-lived response cache so repeat searches don't hammer the
// upstream services.
type Registry struct {
	adapters  map[string]Adapter
	defaultID string
}

func NewRegistry(defaultID string) *Registry {
	return &Registry{
		adapters:  make(map[string]Adapter),
		defaultID: defaultID,
	}
}

func (r *Registry) Register(id string, a Adapter) {
	r.adapters[id] = a
}

// Get returns the adapter for the given scraper id, falling back to the
// registry default when id is empty. Unknown ids are an error: silently
// searching the wrong backend would be worse.
func (r *Registry) Get(id string) (Adapter, error) {
	if id == "" {
		id = r.defaultID
	}
	a, ok := r.adapters[id]
	if !ok {
		return nil, fmt.Errorf("unknown source %q", id)
	}
	return a, nil
}

// Sources lists the registered scraper ids.
func (r *Registry) Sources() []string {
	ids := make([]string, 0, len(r.adapters))
	for id := range r.adapters {
		ids = append(ids, id)
	}
	return ids
}

// cachedAdapter memoizes successful searches for a short TTL. Failures are
// never cached.
type cachedAdapter struct {
	inner Adapter
	cache *cache.Cache
}

// WithCache wraps an adapter with a response cache.
func WithCache(a Adapter, ttl time.Duration) Adapter {
	return &cachedAdapter{
		inner: a,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (c *cachedAdapter) Name() string            { return c.inner.Name() }
func (c *cachedAdapter) Kind() entity.RecordKind { return c.inner.Kind() }

func (c *cachedAdapter) Search(ctx context.Context, q entity.SearchQuery) ([]entity.ResultRecord, error) {
	key := fmt.Sprintf("%s|%s|%s|%s", c.inner.Name(), q.Query, q.Location, q.Timeframe)
	if x, found := c.cache.Get(key); found {
		return x.([]entity.ResultRecord), nil
	}

	records, err := c.inner.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, records, cache.DefaultExpiration)
	return records, nil
}

// defaultHTTPClient is shared by the adapters; timeouts beyond this are the
// transport's concern, failures surface as ErrSourceUnavailable either way.
var defaultHTTPClient = &http.Client{Timeout: 30 * time.Second}
