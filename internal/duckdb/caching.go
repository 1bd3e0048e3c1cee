package duckdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/varannot/internal/annotate"
	"github.com/inodb/varannot/internal/ensembl"
)

// CachingClient serves lookups from the store and forwards only the keys
// it has never seen to the wrapped client. Fetched payloads are stored.
// Keys the service has no data for are not cached.
type CachingClient struct {
	store    *Store
	next     ensembl.Lookup
	assembly string
	runID    string
	logger   *zap.Logger
}

// NewCachingClient wraps next with the store. Entries are scoped by assembly
// and tagged with runID.
func NewCachingClient(store *Store, next ensembl.Lookup, assembly, runID string) *CachingClient {
	return &CachingClient{
		store:    store,
		next:     next,
		assembly: assembly,
		runID:    runID,
		logger:   zap.NewNop(),
	}
}

// SetLogger sets the logger for cache hit statistics.
func (c *CachingClient) SetLogger(l *zap.Logger) {
	c.logger = l
}

// LookupEffects implements ensembl.Lookup.
func (c *CachingClient) LookupEffects(ctx context.Context, keys []string) (map[string]*ensembl.EffectPayload, error) {
	return cachedLookup(ctx, c, string(annotate.PassEffects), keys, c.next.LookupEffects)
}

// LookupVariations implements ensembl.Lookup.
func (c *CachingClient) LookupVariations(ctx context.Context, ids []string) (map[string]*ensembl.VariationPayload, error) {
	return cachedLookup(ctx, c, string(annotate.PassVariations), ids, c.next.LookupVariations)
}

func cachedLookup[P any](ctx context.Context, c *CachingClient, pass string, keys []string,
	fetch func(context.Context, []string) (map[string]*P, error)) (map[string]*P, error) {

	cached, err := c.store.LookupPayloads(ctx, c.assembly, pass, keys)
	if err != nil {
		return nil, fmt.Errorf("read cache: %w", err)
	}

	out := make(map[string]*P, len(keys))
	var missing []string
	for _, k := range keys {
		raw, ok := cached[k]
		if !ok {
			missing = append(missing, k)
			continue
		}
		var p P
		if err := json.Unmarshal(raw, &p); err != nil {
			// Unreadable entries are refetched and overwritten.
			missing = append(missing, k)
			continue
		}
		out[k] = &p
	}

	c.logger.Debug("payload cache",
		zap.String("pass", pass),
		zap.Int("hits", len(out)),
		zap.Int("misses", len(missing)))

	if len(missing) == 0 {
		return out, nil
	}

	fetched, err := fetch(ctx, missing)
	if err != nil {
		return nil, err
	}

	toStore := make([]CachedPayload, 0, len(fetched))
	for _, k := range missing {
		p := fetched[k]
		if p == nil {
			continue
		}
		raw, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("encode payload %s: %w", k, err)
		}
		toStore = append(toStore, CachedPayload{Key: k, Payload: raw})
		out[k] = p
	}

	if err := c.store.WritePayloads(ctx, c.assembly, pass, c.runID, toStore); err != nil {
		return nil, fmt.Errorf("write cache: %w", err)
	}
	return out, nil
}
