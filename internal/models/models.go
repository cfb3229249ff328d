package models

import "encoding/json"

// Status classifies the outcome of a single provider invocation.
type Status string

const (
	StatusSuccess            Status = "success"
	StatusMissingCredentials Status = "missing_credentials"
	StatusUnsupported        Status = "unsupported"
	StatusError              Status = "error"
)

// ProviderOverrides carries the per-request configuration for one provider.
// All fields are optional; empty values fall back to the startup configuration.
type ProviderOverrides struct {
	APIKey    string `json:"apiKey,omitempty"`
	Model     string `json:"model,omitempty"`
	MaxTokens int    `json:"maxTokens,omitempty"`
}

// QueryRequest is the body of POST /api/query.
// Providers defaults to every known provider when omitted.
type QueryRequest struct {
	Prompt    string                       `json:"prompt"`
	Providers []string                     `json:"providers,omitempty"`
	Config    map[string]ProviderOverrides `json:"config,omitempty"`
}

// NormalizedResult is the uniform record every adapter invocation produces,
// regardless of vendor wire format. Raw holds the opaque vendor response body
// and is present only on StatusSuccess.
type NormalizedResult struct {
	Provider string          `json:"provider"`
	Status   Status          `json:"status"`
	Message  string          `json:"message"`
	Raw      json.RawMessage `json:"raw,omitempty"`
}

// QueryResponse is the body of a successful POST /api/query.
type QueryResponse struct {
	Prompt    string                      `json:"prompt"`
	Responses map[string]NormalizedResult `json:"responses"`
}

// ProviderDescriptor is the static UI-facing description of one provider.
type ProviderDescriptor struct {
	ID             string `json:"id"`
	Label          string `json:"label"`
	Tagline        string `json:"tagline"`
	Accent         string `json:"accent"`
	KeyPlaceholder string `json:"keyPlaceholder"`
}
