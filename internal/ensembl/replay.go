package ensembl

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// ErrNoSource is returned when a lookup has neither a replay file nor a
// live client behind it.
var ErrNoSource = errors.New("no annotation source configured")

// ReplayClient serves lookups from pre-fetched JSON files so that runs can be
// reproduced without network access. A pass without a loaded file is
// forwarded to the wrapped client.
type ReplayClient struct {
	next       Lookup
	effects    map[string]*EffectPayload
	variations map[string]*VariationPayload
}

// NewReplayClient creates a replay client in front of next, which may be nil.
func NewReplayClient(next Lookup) *ReplayClient {
	return &ReplayClient{next: next}
}

// LoadEffects loads a saved VEP HGVS response (a JSON list keyed by "input").
func (r *ReplayClient) LoadEffects(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read hgvs file: %w", err)
	}
	effects, err := DecodeEffects(data)
	if err != nil {
		return fmt.Errorf("load hgvs file %s: %w", path, err)
	}
	r.effects = effects
	return nil
}

// LoadVariations loads a saved variation response (a JSON object keyed by ID).
func (r *ReplayClient) LoadVariations(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read ids file: %w", err)
	}
	variations, err := DecodeVariations(data)
	if err != nil {
		return fmt.Errorf("load ids file %s: %w", path, err)
	}
	r.variations = variations
	return nil
}

// LookupEffects implements Lookup.
func (r *ReplayClient) LookupEffects(ctx context.Context, keys []string) (map[string]*EffectPayload, error) {
	if r.effects == nil {
		if r.next == nil {
			return nil, fmt.Errorf("effects lookup: %w", ErrNoSource)
		}
		return r.next.LookupEffects(ctx, keys)
	}

	out := make(map[string]*EffectPayload, len(keys))
	for _, k := range keys {
		if p, ok := r.effects[k]; ok {
			out[k] = p
		}
	}
	return out, nil
}

// LookupVariations implements Lookup.
func (r *ReplayClient) LookupVariations(ctx context.Context, ids []string) (map[string]*VariationPayload, error) {
	if r.variations == nil {
		if r.next == nil {
			return nil, fmt.Errorf("variations lookup: %w", ErrNoSource)
		}
		return r.next.LookupVariations(ctx, ids)
	}

	out := make(map[string]*VariationPayload, len(ids))
	for _, id := range ids {
		if p, ok := r.variations[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}
