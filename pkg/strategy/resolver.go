package strategy

import (
	"strings"

	"llmpanel/internal/config"
)

// Features is the prompt-derived environment a resolver rules over.
type Features struct {
	PromptLen int
	WordCount int
}

// FeaturesOf computes the rule environment for a prompt.
func FeaturesOf(prompt string) Features {
	return Features{
		PromptLen: len(prompt),
		WordCount: len(strings.Fields(prompt)),
	}
}

// Resolver defines the unified interface for default-provider selection
// strategies, applied when a request omits an explicit providers list.
type Resolver interface {
	// Name returns the unique identifier for the strategy
	Name() string
	// Resolve takes prompt features and returns the provider identifiers to
	// fan out to. Returns an empty slice if it cannot resolve, yielding to
	// the caller's fallback (every known provider).
	Resolve(f Features) []string
}

// NewResolver initializes a resolver based on the configuration.
// Returns nil when no strategy is configured.
func NewResolver(cfg config.DefaultsConfig) Resolver {
	switch cfg.Type {
	case "expression":
		return NewExpressionResolver(cfg)
	case "static":
		return NewStaticResolver(cfg)
	default:
		return nil
	}
}
