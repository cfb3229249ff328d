package google

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

// DefaultModel is the compile-time default Gemini model name.
const DefaultModel = "gemini-2.0-flash"

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Provider implements the Google Gemini generateContent adapter.
// Gemini authenticates via a URL query key rather than a header.
type Provider struct {
	apiKey       string
	baseURL      string
	client       *http.Client
	mu           sync.RWMutex
	defaultModel string
}

// NewProvider creates a new Gemini provider instance.
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

func (p *Provider) Name() string { return "google" }

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

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type generationConfig struct {
	MaxOutputTokens int `json:"maxOutputTokens,omitempty"`
}

type geminiRequest struct {
	Contents         []geminiContent   `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

// Complete sends a generateContent request with the prompt as one user turn
// and joins every text part of the first candidate.
func (p *Provider) Complete(ctx context.Context, prompt string, opts models.ProviderOverrides) (string, json.RawMessage, error) {
	key := opts.APIKey
	if key == "" {
		key = p.apiKey
	}
	if key == "" {
		return "", nil, fmt.Errorf("google: %w", providers.ErrMissingCredentials)
	}

	body := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: prompt}},
		}},
	}
	if opts.MaxTokens > 0 {
		body.GenerationConfig = &generationConfig{MaxOutputTokens: opts.MaxTokens}
	}
	data, err := json.Marshal(body)
	if err != nil {
		return "", nil, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", p.baseURL, p.resolveModel(opts.Model), key)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(data))
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		logger.Error("Google API network request failed", "error", err)
		return "", nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", nil, fmt.Errorf("google api error %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var sb strings.Builder
	for _, part := range gjson.GetBytes(raw, "candidates.0.content.parts").Array() {
		sb.WriteString(part.Get("text").String())
	}
	return sb.String(), raw, nil
}
