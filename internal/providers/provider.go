package providers

import (
	"context"
	"encoding/json"
	"errors"

	"llmpanel/internal/models"
)

// ErrMissingCredentials is returned by an adapter when neither the per-request
// override nor the injected startup configuration carries an API key. The
// aggregator maps it to StatusMissingCredentials; no network call is made.
var ErrMissingCredentials = errors.New("no API key configured")

// Provider abstracts a single LLM vendor adapter.
type Provider interface {
	// Name returns the provider's identifier (e.g. "openai", "google")
	Name() string

	// Complete sends the prompt to the vendor and returns the extracted
	// answer text alongside the raw vendor response body. Adapters fail
	// plainly; the aggregator owns the error-to-status demotion.
	Complete(ctx context.Context, prompt string, opts models.ProviderOverrides) (string, json.RawMessage, error)
}

// Registry holds the fixed set of known providers. It is built once at
// startup and never mutated afterwards, so lookups need no locking.
type Registry struct {
	order []string
	byID  map[string]Provider
}

func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]Provider)}
}

// Register adds a provider under its own name. Later registrations with the
// same name replace earlier ones without changing the known order.
func (r *Registry) Register(p Provider) {
	if _, exists := r.byID[p.Name()]; !exists {
		r.order = append(r.order, p.Name())
	}
	r.byID[p.Name()] = p
}

// Lookup resolves a provider identifier.
func (r *Registry) Lookup(id string) (Provider, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// Known returns the registered provider identifiers in registration order.
func (r *Registry) Known() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
