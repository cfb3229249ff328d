package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"llmpanel/pkg/logger"
)

// Config represents the root configuration structure
type Config struct {
	Server    ServerConfig              `yaml:"server"`
	Web       WebConfig                 `yaml:"web"`
	Defaults  DefaultsConfig            `yaml:"defaults"`
	Providers map[string]ProviderConfig `yaml:"providers"`
}

// ServerConfig configures the HTTP server
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
	// UpstreamTimeout bounds each outbound vendor call during the fan-out.
	// Zero means no timeout; a hung vendor call then hangs the request.
	UpstreamTimeout Duration `yaml:"upstream_timeout"`
}

// Duration wraps time.Duration so YAML values like "30s" parse. yaml.v3 has
// no native duration support.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like \"30s\": %w", err)
	}
	if s == "" {
		*d = 0
		return nil
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// WebConfig configures static asset serving
type WebConfig struct {
	Root string `yaml:"root"`
}

// DefaultsConfig selects which providers a request without an explicit
// providers list fans out to. With no rules every known provider is used.
type DefaultsConfig struct {
	Type  string        `yaml:"type"` // "expression" or "static"
	Rules []DefaultRule `yaml:"rules"`
	// Providers is the static selection (type "static") and the fallback
	// when no expression rule matches.
	Providers []string `yaml:"providers"`
}

// DefaultRule pairs an expr condition over prompt features with a provider set.
type DefaultRule struct {
	Condition string   `yaml:"condition"`
	Providers []string `yaml:"providers"`
}

// ProviderConfig configures a specific upstream provider
type ProviderConfig struct {
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}

const DefaultConfigTemplate = `server:
  port: 8080
  host: "127.0.0.1"
  # upstream_timeout: 30s
web:
  root: "./web"
defaults:
  # type: "expression"
  # rules:
  #   - condition: "prompt_len > 2000"
  #     providers: ["google"]
  providers: []
providers:
  openai:
    api_key: ""
    model: "gpt-4o-mini"
  google:
    api_key: ""
    model: "gemini-2.0-flash"
  anthropic:
    api_key: ""
    model: "claude-3-5-haiku-latest"
`

// Load reads configuration from LLMPANEL_CONFIG_PATH or
// ~/.config/llmpanel/config.yaml, creating a template on first run, then
// overlays credentials and the port from the process environment exactly once.
// The returned Config is the injected, never-mutated credential source for
// the provider constructors.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Printf("Config file missing at %s, creating default template...", path)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(DefaultConfigTemplate), 0644); err != nil {
			return nil, fmt.Errorf("failed to write default config template: %w", err)
		}
	}

	conf, err := Read(path)
	if err != nil {
		return nil, err
	}

	conf.applyEnv()
	conf.applyDefaults()
	return conf, nil
}

// Path resolves the config file location.
func Path() (string, error) {
	if p := os.Getenv("LLMPANEL_CONFIG_PATH"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".config", "llmpanel", "config.yaml"), nil
}

// Read parses the YAML file at path without any environment overlay.
// The watcher uses it for reloads so credentials stay fixed after startup.
func Read(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	var conf Config
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return nil, fmt.Errorf("failed to parse yaml config: %w", err)
	}
	return &conf, nil
}

// envCredentials maps provider ids to their credential environment variables.
// Consulted once at load time; adapters never read the environment themselves.
var envCredentials = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"google":    "GEMINI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
}

func (c *Config) applyEnv() {
	if c.Providers == nil {
		c.Providers = make(map[string]ProviderConfig)
	}
	for id, envVar := range envCredentials {
		pc := c.Providers[id]
		if pc.APIKey == "" {
			pc.APIKey = os.Getenv(envVar)
		}
		c.Providers[id] = pc
	}
	if port := os.Getenv("PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			c.Server.Port = n
		} else {
			logger.Warn("Ignoring invalid PORT value", "port", port)
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Web.Root == "" {
		c.Web.Root = "./web"
	}
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
