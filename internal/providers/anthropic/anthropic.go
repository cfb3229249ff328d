package anthropic

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

// DefaultModel is the compile-time default Claude model name.
const DefaultModel = "claude-3-5-haiku-latest"

const defaultBaseURL = "https://api.anthropic.com/v1"

// defaultMaxTokens is used when no max_tokens value is configured anywhere;
// the Anthropic messages API rejects requests without one.
const defaultMaxTokens = 4096

const apiVersion = "2023-06-01"

// Provider implements the Anthropic messages adapter. Anthropic authenticates
// via the x-api-key header plus a pinned anthropic-version header.
type Provider struct {
	apiKey       string
	baseURL      string
	client       *http.Client
	mu           sync.RWMutex
	defaultModel string
}

// NewProvider creates a new Anthropic provider instance.
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

func (p *Provider) Name() string { return "anthropic" }

// SetDefaultModel implements config.ModelSetter.
func (p *Provider) SetDefaultModel(model string) {
	p.mu.Lock()
	p.defaultModel = model
	p.mu.Unlock()
}

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

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	Messages  []anthropicMessage `json:"messages"`
	MaxTokens int                `json:"max_tokens"`
}

// Complete sends a messages request with the prompt as one user message and
// joins every text block of the response content.
func (p *Provider) Complete(ctx context.Context, prompt string, opts models.ProviderOverrides) (string, json.RawMessage, error) {
	key := opts.APIKey
	if key == "" {
		key = p.apiKey
	}
	if key == "" {
		return "", nil, fmt.Errorf("anthropic: %w", providers.ErrMissingCredentials)
	}

	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens // Claude requires max_tokens
	}
	body := anthropicRequest{
		Model:     p.resolveModel(opts.Model),
		Messages:  []anthropicMessage{{Role: "user", Content: prompt}},
		MaxTokens: maxTokens,
	}
	data, err := json.Marshal(body)
	if err != nil {
		return "", nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/messages", bytes.NewBuffer(data))
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", key)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := p.client.Do(req)
	if err != nil {
		logger.Error("Anthropic API network request failed", "error", err)
		return "", nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", nil, fmt.Errorf("anthropic api error %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var sb strings.Builder
	for _, block := range gjson.GetBytes(raw, "content").Array() {
		if block.Get("type").String() == "text" {
			sb.WriteString(block.Get("text").String())
		}
	}
	return sb.String(), raw, nil
}
