package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"llmpanel/internal/assets"
	"llmpanel/internal/models"
	"llmpanel/pkg/httputil"
	"llmpanel/pkg/logger"
	"llmpanel/pkg/strategy"
)

// Aggregator is the interface the Server needs from the fan-out layer.
// Using an interface keeps the server package decoupled from the aggregator
// internals and simplifies unit testing.
type Aggregator interface {
	Aggregate(ctx context.Context, prompt string, ids []string, cfg map[string]models.ProviderOverrides) map[string]models.NormalizedResult
	Known() []string
}

// descriptors is the fixed provider list the UI renders toggles and result
// cards from. Never mutated at runtime.
var descriptors = []models.ProviderDescriptor{
	{
		ID:             "openai",
		Label:          "OpenAI",
		Tagline:        "GPT chat completions",
		Accent:         "#10a37f",
		KeyPlaceholder: "sk-...",
	},
	{
		ID:             "google",
		Label:          "Gemini",
		Tagline:        "Google generative language",
		Accent:         "#4285f4",
		KeyPlaceholder: "AIza...",
	},
	{
		ID:             "anthropic",
		Label:          "Claude",
		Tagline:        "Anthropic messages",
		Accent:         "#d97757",
		KeyPlaceholder: "sk-ant-...",
	},
}

// Server encapsulates the HTTP handler and routing logic
type Server struct {
	agg      Aggregator
	static   *assets.Resolver
	defaults strategy.Resolver // nil when no default-selection strategy is configured
}

// NewServer initialises the HTTP relay.
func NewServer(agg Aggregator, static *assets.Resolver, defaults strategy.Resolver) *Server {
	return &Server{
		agg:      agg,
		static:   static,
		defaults: defaults,
	}
}

// Handler builds the full request handler: routes wrapped in request-ID
// tagging and panic recovery.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/query", s.handleQuery)
	mux.HandleFunc("/api/providers", s.handleProviders)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/", s.handleStatic)
	return withRequestID(withRecovery(mux))
}

// Start starts the standard library net/http server
func (s *Server) Start(addr string) error {
	server := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	logger.Printf("[Server] Starting relay on %s", addr)
	return server.ListenAndServe()
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req models.QueryRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request JSON")
		return
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		httputil.WriteError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	ids := req.Providers
	if len(ids) == 0 {
		ids = s.defaultProviders(prompt)
	}

	logger.Debug("Fanning out query", "providers", ids, "prompt_len", len(prompt))
	responses := s.agg.Aggregate(r.Context(), prompt, ids, req.Config)

	httputil.WriteJSON(w, http.StatusOK, models.QueryResponse{
		Prompt:    req.Prompt,
		Responses: responses,
	})
}

// defaultProviders resolves the provider set for a request that omitted one:
// the configured strategy first, every known provider as the fallback.
func (s *Server) defaultProviders(prompt string) []string {
	if s.defaults != nil {
		if ids := s.defaults.Resolve(strategy.FeaturesOf(prompt)); len(ids) > 0 {
			return ids
		}
	}
	return s.agg.Known()
}

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, descriptors)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	data, contentType, err := s.static.Resolve(r.URL.Path)
	if err != nil {
		if errors.Is(err, assets.ErrNotFound) {
			http.Error(w, "404 page not found", http.StatusNotFound)
			return
		}
		logger.Error("Static asset read failed", "path", r.URL.Path, "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", contentType)
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.Write(data)
}
