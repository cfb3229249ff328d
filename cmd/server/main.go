package main

import (
	"time"

	"llmpanel/internal/aggregator"
	"llmpanel/internal/assets"
	"llmpanel/internal/config"
	"llmpanel/internal/providers"
	"llmpanel/internal/providers/anthropic"
	"llmpanel/internal/providers/google"
	"llmpanel/internal/providers/openai"
	"llmpanel/internal/server"
	"llmpanel/pkg/logger"
	"llmpanel/pkg/strategy"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Fatal parsing config: %v", err)
	}

	// Initialize the provider registry and the ModelSetter registry together.
	registry := providers.NewRegistry()
	modelSetters := make(map[string]config.ModelSetter)

	// Helper: registers a provider in both maps if it implements ModelSetter.
	register := func(p providers.Provider) {
		registry.Register(p)
		if ms, ok := p.(config.ModelSetter); ok {
			modelSetters[p.Name()] = ms
		}
	}

	pc := cfg.Providers["openai"]
	register(openai.NewProvider(pc.APIKey, pc.BaseURL, pc.Model))

	pc = cfg.Providers["google"]
	register(google.NewProvider(pc.APIKey, pc.BaseURL, pc.Model))

	pc = cfg.Providers["anthropic"]
	register(anthropic.NewProvider(pc.APIKey, pc.BaseURL, pc.Model))

	// Watch the config file so model overrides apply without a restart.
	// Credentials stay fixed for the process lifetime.
	if path, err := config.Path(); err == nil {
		manager := config.NewManager(path, cfg, modelSetters)
		if err := manager.Start(); err != nil {
			logger.Warn("Config watch disabled", "error", err)
		} else {
			defer manager.Stop()
		}
	}

	agg := aggregator.New(registry, time.Duration(cfg.Server.UpstreamTimeout))
	static := assets.NewResolver(cfg.Web.Root)
	defaults := strategy.NewResolver(cfg.Defaults)

	srv := server.NewServer(agg, static, defaults)
	if err := srv.Start(cfg.Addr()); err != nil {
		logger.Fatalf("Server stopped: %v", err)
	}
}
