package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/tidwall/gjson"

	"llmpanel/internal/models"
	"llmpanel/internal/providers"
	"llmpanel/pkg/logger"
)

// DefaultModel is the compile-time default model name used when neither the
// request nor the runtime configuration specifies one.
const DefaultModel = "gpt-4o-mini"

const defaultBaseURL = "https://api.openai.com/v1"

// Provider implements the OpenAI chat completions adapter.
type Provider struct {
	apiKey       string
	baseURL      string
	client       *http.Client
	mu           sync.RWMutex
	defaultModel string // runtime-configurable; falls back to DefaultModel const
}

// NewProvider creates a new OpenAI provider instance. apiKey is the startup
// credential injected from config; pass an empty baseURL or defaultModel to
// use the compile-time constants.
func NewProvider(apiKey, baseURL, defaultModel string) *Provider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Provider{
		apiKey:       apiKey,
		baseURL:      strings.TrimRight(baseURL, "/"),
		defaultModel: defaultModel,
		client:       &http.Client{},
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return "openai" }

// SetDefaultModel updates the runtime default model name in a thread-safe manner.
// It implements config.ModelSetter so the config Manager can push live overrides.
func (p *Provider) SetDefaultModel(model string) {
	p.mu.Lock()
	p.defaultModel = model
	p.mu.Unlock()
}

// resolveModel returns reqModel if non-empty, otherwise the runtime default or
// the compile-time DefaultModel constant.
func (p *Provider) resolveModel(reqModel string) string {
	if reqModel != "" {
		return reqModel
	}
	p.mu.RLock()
	m := p.defaultModel
	p.mu.RUnlock()
	if m != "" {
		return m
	}
	return DefaultModel
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

// Complete sends a single chat completion request carrying the prompt as one
// user message and extracts the first choice's text.
func (p *Provider) Complete(ctx context.Context, prompt string, opts models.ProviderOverrides) (string, json.RawMessage, error) {
	key := opts.APIKey
	if key == "" {
		key = p.apiKey
	}
	if key == "" {
		return "", nil, fmt.Errorf("openai: %w", providers.ErrMissingCredentials)
	}

	body := chatRequest{
		Model:     p.resolveModel(opts.Model),
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens: opts.MaxTokens,
	}
	data, err := json.Marshal(body)
	if err != nil {
		return "", nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/chat/completions", bytes.NewBuffer(data))
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+key)

	resp, err := p.client.Do(req)
	if err != nil {
		logger.Error("OpenAI API network request failed", "error", err)
		return "", nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", nil, fmt.Errorf("openai api error %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	answer := gjson.GetBytes(raw, "choices.0.message.content").String()
	return answer, raw, nil
}
