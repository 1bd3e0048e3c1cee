package ensembl

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
)

// Recorder keeps every payload returned by the wrapped client so the run can
// be saved and replayed later with ReplayClient.
type Recorder struct {
	next Lookup

	mu         sync.Mutex
	effects    map[string]*EffectPayload
	variations map[string]*VariationPayload
}

// NewRecorder wraps next.
func NewRecorder(next Lookup) *Recorder {
	return &Recorder{
		next:       next,
		effects:    make(map[string]*EffectPayload),
		variations: make(map[string]*VariationPayload),
	}
}

// LookupEffects implements Lookup.
func (r *Recorder) LookupEffects(ctx context.Context, keys []string) (map[string]*EffectPayload, error) {
	out, err := r.next.LookupEffects(ctx, keys)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	for k, p := range out {
		r.effects[k] = p
	}
	r.mu.Unlock()
	return out, nil
}

// LookupVariations implements Lookup.
func (r *Recorder) LookupVariations(ctx context.Context, ids []string) (map[string]*VariationPayload, error) {
	out, err := r.next.LookupVariations(ctx, ids)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	for k, p := range out {
		r.variations[k] = p
	}
	r.mu.Unlock()
	return out, nil
}

// WriteEffects saves recorded HGVS payloads as a JSON list sorted by input.
func (r *Recorder) WriteEffects(path string) error {
	r.mu.Lock()
	keys := make([]string, 0, len(r.effects))
	for k := range r.effects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	list := make([]*EffectPayload, len(keys))
	for i, k := range keys {
		list[i] = r.effects[k]
	}
	r.mu.Unlock()

	return writeJSON(path, list)
}

// WriteVariations saves recorded variation payloads as a JSON object keyed by ID.
func (r *Recorder) WriteVariations(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return writeJSON(path, r.variations)
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
