package ensembl

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff"
	"go.uber.org/zap"
)

// RetryClient retries failed lookups with exponential backoff. Service
// answers that will not change on retry (4xx other than 429) fail at once.
type RetryClient struct {
	next       Lookup
	maxRetries uint64
	newBackOff func() backoff.BackOff
	logger     *zap.Logger
}

// NewRetryClient wraps next, retrying each batch up to maxRetries times.
func NewRetryClient(next Lookup, maxRetries int) *RetryClient {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &RetryClient{
		next:       next,
		maxRetries: uint64(maxRetries),
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = time.Second
			b.MaxElapsedTime = 2 * time.Minute
			return b
		},
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for retry warnings.
func (r *RetryClient) SetLogger(l *zap.Logger) {
	r.logger = l
}

// LookupEffects implements Lookup.
func (r *RetryClient) LookupEffects(ctx context.Context, keys []string) (map[string]*EffectPayload, error) {
	var out map[string]*EffectPayload
	err := r.retry(ctx, "effects", func() error {
		var err error
		out, err = r.next.LookupEffects(ctx, keys)
		return err
	})
	return out, err
}

// LookupVariations implements Lookup.
func (r *RetryClient) LookupVariations(ctx context.Context, ids []string) (map[string]*VariationPayload, error) {
	var out map[string]*VariationPayload
	err := r.retry(ctx, "variations", func() error {
		var err error
		out, err = r.next.LookupVariations(ctx, ids)
		return err
	})
	return out, err
}

func (r *RetryClient) retry(ctx context.Context, pass string, op func() error) error {
	b := backoff.WithContext(backoff.WithMaxRetries(r.newBackOff(), r.maxRetries), ctx)

	return backoff.RetryNotify(func() error {
		err := op()
		var pe *PostError
		if errors.As(err, &pe) && !pe.Temporary() {
			return backoff.Permanent(err)
		}
		return err
	}, b, func(err error, wait time.Duration) {
		r.logger.Warn("ensembl lookup failed, retrying",
			zap.String("pass", pass),
			zap.Duration("wait", wait),
			zap.Error(err))
	})
}
