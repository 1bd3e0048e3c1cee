package annotate

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/inodb/varannot/internal/ensembl"
	"github.com/inodb/varannot/internal/vcf"
)

// Pass names one of the two lookups.
type Pass string

const (
	PassEffects    Pass = "effects"
	PassVariations Pass = "variations"
)

// Engine batches records into bulk lookups and joins the returned payloads
// back onto the records by key.
type Engine struct {
	client          ensembl.Lookup
	effectsBatch    int
	variationsBatch int
	concurrency     int
	logger          *zap.Logger
}

// NewEngine creates an engine using the Ensembl service limits as batch sizes.
func NewEngine(client ensembl.Lookup) *Engine {
	return &Engine{
		client:          client,
		effectsBatch:    ensembl.MaxEffectsBatch,
		variationsBatch: ensembl.MaxVariationsBatch,
		concurrency:     1,
		logger:          zap.NewNop(),
	}
}

// SetBatchSizes sets the maximum number of keys per request for each pass.
// Values below 1 keep the current setting.
func (e *Engine) SetBatchSizes(effects, variations int) {
	if effects > 0 {
		e.effectsBatch = effects
	}
	if variations > 0 {
		e.variationsBatch = variations
	}
}

// SetConcurrency sets how many batches of one pass may be in flight at once.
func (e *Engine) SetConcurrency(n int) {
	e.concurrency = max(n, 1)
}

// SetLogger sets the logger for progress messages.
func (e *Engine) SetLogger(l *zap.Logger) {
	e.logger = l
}

// AnnotateEffects looks up every record by its HGVS key. The result is
// aligned with records; entries are nil where the service had no data.
func (e *Engine) AnnotateEffects(ctx context.Context, records []*vcf.Variant) ([]*ensembl.EffectPayload, error) {
	idx := BuildKeyIndex(len(records), func(i int) string {
		return EffectKey(records[i])
	})

	payloads, err := runBatches(ctx, e, PassEffects, idx.Keys, e.effectsBatch, e.client.LookupEffects)
	if err != nil {
		return nil, err
	}

	out := make([]*ensembl.EffectPayload, len(records))
	fanOut(idx, payloads, out)
	return out, nil
}

// AnnotateVariations looks up every record that has an identifier (see
// Identifier). effects must be the aligned result of AnnotateEffects. The
// result is aligned with records; entries are nil for records without an
// identifier or without data.
func (e *Engine) AnnotateVariations(ctx context.Context, records []*vcf.Variant, effects []*ensembl.EffectPayload) ([]*ensembl.VariationPayload, error) {
	if len(effects) != len(records) {
		return nil, fmt.Errorf("variations pass: %d effect payloads for %d records", len(effects), len(records))
	}

	idx := BuildKeyIndex(len(records), func(i int) string {
		return Identifier(records[i], effects[i])
	})

	payloads, err := runBatches(ctx, e, PassVariations, idx.Keys, e.variationsBatch, e.client.LookupVariations)
	if err != nil {
		return nil, err
	}

	out := make([]*ensembl.VariationPayload, len(records))
	fanOut(idx, payloads, out)
	return out, nil
}

// fanOut copies each key's payload to every record sharing that key.
func fanOut[P any](idx *KeyIndex, payloads map[string]*P, out []*P) {
	for key, recs := range idx.Records {
		p := payloads[key]
		for _, i := range recs {
			out[i] = p
		}
	}
}

// runBatches issues one request per batch of distinct keys and merges the
// responses. Batches hold disjoint keys, so each result slot is written by
// exactly one request. The first failure cancels the remaining batches.
func runBatches[P any](ctx context.Context, e *Engine, pass Pass, keys []string, size int, fetch func(context.Context, []string) (map[string]*P, error)) (map[string]*P, error) {
	batches := Batches(keys, size)
	e.logger.Info("starting lookup",
		zap.String("pass", string(pass)),
		zap.Int("keys", len(keys)),
		zap.Int("batches", len(batches)))

	results := make([]map[string]*P, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, batch := range batches {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			e.logger.Debug("requesting batch",
				zap.String("pass", string(pass)),
				zap.Int("batch", i+1),
				zap.Int("size", len(batch)))

			resp, err := fetch(gctx, batch)
			if err != nil {
				return &BatchError{Pass: pass, Index: i, Total: len(batches), Keys: batch, Err: err}
			}

			got := make(map[string]*P, len(batch))
			for _, k := range batch {
				if p := resp[k]; p != nil {
					got[k] = p
				}
			}
			results[i] = got
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[string]*P, len(keys))
	for _, r := range results {
		for k, p := range r {
			merged[k] = p
		}
	}

	e.logger.Info("lookup complete",
		zap.String("pass", string(pass)),
		zap.Int("found", len(merged)),
		zap.Int("missing", len(keys)-len(merged)))
	return merged, nil
}

// BatchError reports a failed bulk request. It aborts the run.
type BatchError struct {
	Pass  Pass
	Index int      // zero-based batch number
	Total int      // batches in the pass
	Keys  []string // keys sent in the failed batch
	Err   error
}

func (e *BatchError) Error() string {
	span := ""
	if n := len(e.Keys); n > 0 {
		span = fmt.Sprintf(", keys %s..%s", e.Keys[0], e.Keys[n-1])
	}
	return fmt.Sprintf("%s lookup batch %d/%d (%d keys%s): %v",
		e.Pass, e.Index+1, e.Total, len(e.Keys), span, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}
