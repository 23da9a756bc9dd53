// Package fanout dispatches one query to multiple search providers
// concurrently and collects whatever comes back in time.
package fanout

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/crosscheck-ai/crosscheck/internal/model"
	"github.com/crosscheck-ai/crosscheck/internal/resilience"
)

// Provider runs one query against a single search backend.
type Provider interface {
	Name() string
	Search(ctx context.Context, query, domain string) (*model.ProviderResult, error)
}

// Dispatcher fans a query out to its providers. Providers are tried in
// the order given; callers pass them sorted by descending trust so the
// cheaper tiers hit the most credible backends first.
type Dispatcher struct {
	providers []Provider
	breakers  map[string]*resilience.Breaker
	retry     resilience.RetryPolicy
	timeout   time.Duration
}

// New creates a Dispatcher. The timeout applies per provider call, not
// to the fanout as a whole. Each provider gets its own breaker so one
// flapping backend stops burning its slot's timeout budget.
func New(timeout time.Duration, providers ...Provider) *Dispatcher {
	breakers := make(map[string]*resilience.Breaker, len(providers))
	for _, p := range providers {
		breakers[p.Name()] = resilience.NewBreaker(resilience.BreakerConfig{
			Trippable: resilience.Retryable,
		})
	}

	return &Dispatcher{
		providers: providers,
		breakers:  breakers,
		retry:     resilience.SearchRetryPolicy(),
		timeout:   timeout,
	}
}

// countForTier maps a verification tier to the number of providers to
// query. Strict queries hit every configured provider.
func (d *Dispatcher) countForTier(tier model.Tier) int {
	n := len(d.providers)
	switch tier {
	case model.TierNoVerify:
		if n > 1 {
			n = 1
		}
	case model.TierStandard:
		if n > 2 {
			n = 2
		}
	}
	return n
}

// Dispatch queries the tier's slice of providers concurrently. A slow
// or failing provider costs nothing but its own slot: its entry comes
// back empty and the rest proceed. Results keep provider order so the
// output is deterministic.
func (d *Dispatcher) Dispatch(ctx context.Context, query, domain string, tier model.Tier) []model.ProviderResult {
	selected := d.providers[:d.countForTier(tier)]
	if len(selected) == 0 {
		return nil
	}

	results := make([]model.ProviderResult, len(selected))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	for i, p := range selected {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(gCtx, d.timeout)
			defer cancel()

			retry := d.retry
			retry.OnRetry = resilience.RetryNotice(p.Name(), "search")
			breaker := d.breakers[p.Name()]

			start := time.Now()
			res, err := resilience.Retry(callCtx, retry, func(ctx context.Context) (*model.ProviderResult, error) {
				return resilience.Guard(ctx, breaker, func(ctx context.Context) (*model.ProviderResult, error) {
					return p.Search(ctx, query, domain)
				})
			})
			elapsed := time.Since(start)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				zap.L().Warn("fanout: provider failed",
					zap.String("provider", p.Name()),
					zap.String("query", query),
					zap.Duration("elapsed", elapsed),
					zap.Error(err),
				)
				// Keep the slot so the audit trail shows who was asked.
				results[i] = model.ProviderResult{Provider: p.Name(), Latency: elapsed}
				return nil
			}
			res.Provider = p.Name()
			res.Latency = elapsed
			results[i] = *res
			return nil
		})
	}
	_ = g.Wait()

	answered := 0
	for i := range results {
		if results[i].HasContent() {
			answered++
		}
	}
	zap.L().Debug("fanout: dispatch complete",
		zap.String("query", query),
		zap.String("tier", string(tier)),
		zap.Int("asked", len(selected)),
		zap.Int("answered", answered),
	)

	return results
}
