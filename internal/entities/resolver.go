package entities

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

type catalogEntry struct {
	id      uuid.UUID
	name    string
	nameKey string
	aliases []string
}

// Resolver matches known entity names and aliases against free text.
// The catalog is loaded lazily from the backing store and held until
// Invalidate is called; entity mutations must invalidate the cache so
// subsequent resolutions see the change.
type Resolver struct {
	mu      sync.Mutex
	loaded  bool
	catalog []catalogEntry
	load    func(ctx context.Context) ([]Entity, error)
}

// NewResolver creates a Resolver backed by the given catalog loader.
func NewResolver(load func(ctx context.Context) ([]Entity, error)) *Resolver {
	return &Resolver{load: load}
}

// Resolve returns the entities whose canonical name or any alias appears
// as a case-insensitive substring of text. Each entity appears at most
// once, keyed by its canonical name, in catalog order.
func (r *Resolver) Resolve(ctx context.Context, text string) ([]Match, error) {
	catalog, err := r.ensure(ctx)
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(text)
	var matches []Match

	for _, entry := range catalog {
		if strings.Contains(lower, entry.nameKey) {
			matches = append(matches, Match{ID: entry.id, Name: entry.name})
			continue
		}

		for _, alias := range entry.aliases {
			if strings.Contains(lower, alias) {
				matches = append(matches, Match{ID: entry.id, Name: entry.name})
				break
			}
		}
	}

	return matches, nil
}

// Invalidate discards the cached catalog. The next Resolve call reloads
// from the backing store.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded = false
	r.catalog = nil
}

func (r *Resolver) ensure(ctx context.Context) ([]catalogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded {
		return r.catalog, nil
	}

	items, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	catalog := make([]catalogEntry, 0, len(items))
	for _, e := range items {
		entry := catalogEntry{
			id:      e.ID,
			name:    e.Name,
			nameKey: strings.ToLower(e.Name),
		}
		for _, alias := range e.Aliases {
			if alias = strings.ToLower(strings.TrimSpace(alias)); alias != "" {
				entry.aliases = append(entry.aliases, alias)
			}
		}
		catalog = append(catalog, entry)
	}

	r.catalog = catalog
	r.loaded = true
	return catalog, nil
}
