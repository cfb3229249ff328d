package strategy

import "llmpanel/internal/config"

// StaticResolver always selects the configured provider list, regardless of
// prompt features.
type StaticResolver struct {
	providers []string
}

func NewStaticResolver(cfg config.DefaultsConfig) *StaticResolver {
	return &StaticResolver{providers: cfg.Providers}
}

func (s *StaticResolver) Name() string {
	return "static"
}

func (s *StaticResolver) Resolve(_ Features) []string {
	return s.providers
}
