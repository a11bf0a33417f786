// fetch/coordinator.go

package fetch

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/phishnheat/backend/cache"
	apperrors "github.com/phishnheat/backend/errors"
	logger "github.com/phishnheat/backend/logging"
	"github.com/phishnheat/backend/model"
)

// Source is the upstream data source collaborator. A call either returns the
// raw incident list or fails with one of the upstream sentinel errors.
type Source interface {
	Call(ctx context.Context) ([]model.PhishingIncident, error)
}

// Validator is the payload validation collaborator. A validation failure is
// treated like a transient upstream failure for retry purposes.
type Validator interface {
	ValidateIncidents(raw []model.PhishingIncident) ([]model.PhishingIncident, error)
}

// Options is the fixed coordinator configuration, read once at startup.
type Options struct {
	TTL            time.Duration // freshness window for cached payloads
	RetryCount     int           // total upstream attempts per refresh
	RetryBackoff   time.Duration // initial backoff between attempts
	AttemptTimeout time.Duration // per upstream call
	FetchTimeout   time.Duration // outer bound across all attempts and backoff
}

// Coordinator decides whether to serve a cached payload or call the
// upstream. It guarantees at most one in-flight upstream call per key: all
// callers that hit a stale key while a refresh is in flight wait for that
// refresh and share its result. On failure it falls back to the last cached
// payload, however stale, and only reports ErrNoDataAvailable when nothing
// was ever cached.
type Coordinator struct {
	source    Source
	validator Validator
	cache     *cache.FreshnessCache
	budget    *Budget
	opts      Options

	sf  singleflight.Group
	now func() time.Time
}

func NewCoordinator(source Source, validator Validator, c *cache.FreshnessCache, b *Budget, opts Options) *Coordinator {
	if opts.RetryCount < 1 {
		opts.RetryCount = 1
	}
	if opts.AttemptTimeout <= 0 {
		opts.AttemptTimeout = 10 * time.Second
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 30 * time.Second
	}
	return &Coordinator{
		source:    source,
		validator: validator,
		cache:     c,
		budget:    b,
		opts:      opts,
		now:       time.Now,
	}
}

// Fetch returns a fresh-enough payload for key. The fresh-cache path is
// non-blocking; only callers of a stale key wait, and then only on the one
// refresh in flight for that key. With forceRefresh the freshness check is
// skipped, but callers joining an in-flight refresh still share its result.
func (co *Coordinator) Fetch(ctx context.Context, key string, forceRefresh bool) ([]model.PhishingIncident, error) {
	if !forceRefresh && co.cache.IsFresh(key, co.opts.TTL) {
		if ent, ok := co.cache.Get(key); ok {
			logger.Debug("Serving fresh cached payload",
				zap.String("key", key),
				zap.Int("items", len(ent.Payload)))
			return ent.Payload, nil
		}
	}

	v, err, shared := co.sf.Do(key, func() (interface{}, error) {
		return co.refresh(ctx, key, forceRefresh)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.Debug("Joined in-flight refresh", zap.String("key", key))
	}
	return v.([]model.PhishingIncident), nil
}

// refresh holds the per-key update right. Every exit path returns through
// singleflight, which releases the right, so no key can be locked out by a
// failed refresh.
func (co *Coordinator) refresh(ctx context.Context, key string, force bool) ([]model.PhishingIncident, error) {
	// A refresh that finished while we waited for the update right already
	// wrote a fresh entry; re-read instead of calling upstream again.
	if !force && co.cache.IsFresh(key, co.opts.TTL) {
		if ent, ok := co.cache.Get(key); ok {
			return ent.Payload, nil
		}
	}

	// The refresh outlives the first caller's request context: waiters for
	// the same key still want the result even if that caller goes away.
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), co.opts.FetchTimeout)
	defer cancel()

	payload, err := co.callWithRetry(rctx, key)
	if err == nil {
		co.cache.Put(key, payload, co.now())
		logger.Info("Refreshed payload from upstream",
			zap.String("key", key),
			zap.Int("items", len(payload)))
		return payload, nil
	}

	// Fallback: last known-good payload, however stale.
	if ent, ok := co.cache.Get(key); ok {
		logger.Warn("Upstream refresh failed, serving stale payload",
			zap.String("key", key),
			zap.Duration("age", co.now().Sub(ent.FetchedAt)),
			zap.Error(err))
		return ent.Payload, nil
	}

	logger.Error("Upstream refresh failed with no cached payload to fall back to",
		zap.String("key", key),
		zap.Error(err))
	return nil, apperrors.ErrNoDataAvailable
}

// callWithRetry performs the bounded retry loop around the upstream call.
// Quota exhaustion is permanent within the window; network, timeout and
// validation failures are retried with exponential backoff.
func (co *Coordinator) callWithRetry(ctx context.Context, key string) ([]model.PhishingIncident, error) {
	var payload []model.PhishingIncident
	attempt := 0

	operation := func() error {
		attempt++

		if !co.budget.TryAcquire() {
			logger.Warn("Upstream call budget exhausted, skipping call",
				zap.String("key", key),
				zap.Int("attempt", attempt))
			return backoff.Permanent(apperrors.ErrUpstreamQuotaExceeded)
		}

		actx, cancel := context.WithTimeout(ctx, co.opts.AttemptTimeout)
		defer cancel()

		raw, err := co.source.Call(actx)
		if err != nil {
			if errors.Is(err, apperrors.ErrUpstreamQuotaExceeded) {
				return backoff.Permanent(err)
			}
			logger.Warn("Upstream call failed",
				zap.String("key", key),
				zap.Int("attempt", attempt),
				zap.Int("maxAttempts", co.opts.RetryCount),
				zap.Error(err))
			return err
		}

		validated, err := co.validator.ValidateIncidents(raw)
		if err != nil {
			logger.Warn("Upstream payload failed validation",
				zap.String("key", key),
				zap.Int("attempt", attempt),
				zap.Error(err))
			return err
		}

		payload = validated
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	if co.opts.RetryBackoff > 0 {
		bo.InitialInterval = co.opts.RetryBackoff
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(co.opts.RetryCount-1)), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return payload, nil
}

// SetNowFunc overrides the clock. Test hook.
func (co *Coordinator) SetNowFunc(now func() time.Time) {
	co.now = now
}
