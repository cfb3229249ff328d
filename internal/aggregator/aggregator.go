package aggregator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"llmpanel/internal/models"
	"llmpanel/internal/providers"
	"llmpanel/pkg/logger"
)

// NoResponseMessage is substituted when a vendor call succeeds but yields no
// extractable answer text.
const NoResponseMessage = "No response received."

// Aggregator fans a prompt out to the requested providers concurrently and
// joins all outcomes into one result mapping. It is the error-recovery
// boundary: no single provider failure ever escapes to the caller.
type Aggregator struct {
	registry *providers.Registry
	timeout  time.Duration // per-provider bound; zero means unbounded
}

// New creates an Aggregator over the given registry. timeout bounds each
// outbound vendor call; pass zero to preserve unbounded calls.
func New(registry *providers.Registry, timeout time.Duration) *Aggregator {
	return &Aggregator{registry: registry, timeout: timeout}
}

// Known returns the registered provider identifiers.
func (a *Aggregator) Known() []string { return a.registry.Known() }

// Aggregate invokes one adapter per requested provider identifier
// concurrently and waits for all of them regardless of individual outcomes.
// The returned mapping holds exactly one entry per distinct requested id.
func (a *Aggregator) Aggregate(ctx context.Context, prompt string, ids []string, cfg map[string]models.ProviderOverrides) map[string]models.NormalizedResult {
	var g errgroup.Group
	var mu sync.Mutex
	results := make(map[string]models.NormalizedResult, len(ids))

	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue // duplicates fan out once
		}
		seen[id] = struct{}{}

		id := id
		g.Go(func() error {
			res := a.invoke(ctx, id, prompt, cfg[id])
			mu.Lock()
			results[id] = res
			mu.Unlock()
			return nil // never fail the group; failures are demoted to statuses
		})
	}

	// Wait ignores errors because every task demotes its own failures.
	_ = g.Wait()
	return results
}

// invoke runs one adapter and converts every possible outcome, including a
// panic, into a NormalizedResult.
func (a *Aggregator) invoke(ctx context.Context, id, prompt string, opts models.ProviderOverrides) (res models.NormalizedResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Provider adapter panicked", "provider", id, "panic", r)
			res = models.NormalizedResult{
				Provider: id,
				Status:   models.StatusError,
				Message:  fmt.Sprintf("provider %s panicked: %v", id, r),
			}
		}
	}()

	p, ok := a.registry.Lookup(id)
	if !ok {
		return models.NormalizedResult{
			Provider: id,
			Status:   models.StatusUnsupported,
			Message:  fmt.Sprintf("unknown provider: %s", id),
		}
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	answer, raw, err := p.Complete(ctx, prompt, opts)
	switch {
	case errors.Is(err, providers.ErrMissingCredentials):
		return models.NormalizedResult{
			Provider: id,
			Status:   models.StatusMissingCredentials,
			Message:  err.Error(),
		}
	case err != nil:
		logger.Warn("Provider call failed", "provider", id, "error", err)
		return models.NormalizedResult{
			Provider: id,
			Status:   models.StatusError,
			Message:  err.Error(),
		}
	}

	if answer == "" {
		answer = NoResponseMessage
	}
	return models.NormalizedResult{
		Provider: id,
		Status:   models.StatusSuccess,
		Message:  answer,
		Raw:      raw,
	}
}
