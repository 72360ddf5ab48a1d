package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the process-wide configuration. It is constructed exactly once
// at startup and passed by reference into each component; there are no
// ambient singletons.
type Config struct {
	MCP      MCPConfig      `yaml:"mcp"`
	OAuth    OAuthConfig    `yaml:"oauth"`
	Composio ComposioConfig `yaml:"composio"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
}

// MCPConfig holds the MCP server endpoint settings.
type MCPConfig struct {
	URL     string            `yaml:"url"`
	Headers map[string]string `yaml:"headers"`

	Timeout time.Duration `yaml:"-"`
	// Raw string value for YAML unmarshaling
	TimeoutRaw string `yaml:"timeout"`
}

// OAuthConfig holds the external OAuth 2.0 endpoints and client identity.
type OAuthConfig struct {
	AuthorizationEndpoint string `yaml:"authorization_endpoint"`
	TokenEndpoint         string `yaml:"token_endpoint"`
	ClientID              string `yaml:"client_id"`
	ClientSecret          string `yaml:"client_secret"`
	RedirectURI           string `yaml:"redirect_uri"`
	Email                 string `yaml:"email"`
}

// ComposioConfig holds the automation API settings.
type ComposioConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// OpenAIConfig holds the structured-query settings.
type OpenAIConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	return &Config{
		MCP: MCPConfig{
			URL:     "https://rube.app/mcp",
			Timeout: 30 * time.Second,
		},
		OAuth: OAuthConfig{
			AuthorizationEndpoint: "https://login.composio.dev/oauth2/authorize",
			TokenEndpoint:         "https://login.composio.dev/oauth2/token",
			RedirectURI:           "https://rube.app/api/auth/callback",
		},
		Composio: ComposioConfig{
			BaseURL: "https://backend.composio.dev",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-5",
		},
	}
}

var envVarPattern = regexp.MustCompile(`\$\{(\w+)\}`)

// expandEnvVars replaces ${VAR_NAME} references in the raw YAML content.
// Unset variables expand to the empty string.
func expandEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		name := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(name)
	})
}

// Load reads configuration starting from defaults, overlaid by a YAML file
// when one is found. Search order: the explicit path argument, the
// RUBE_CONFIG environment variable, then ./rube.yaml. A missing file at the
// default locations is fine; a missing explicit path is an error.
// Environment variables in ${VAR_NAME} form are expanded, and api keys fall
// back to COMPOSIO_API_KEY / OPENAI_API_KEY when the file leaves them empty.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = os.Getenv("RUBE_CONFIG")
	}
	if path == "" {
		path = "rube.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			applyEnvFallbacks(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := expandEnvVars(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if cfg.MCP.TimeoutRaw != "" {
		d, err := time.ParseDuration(cfg.MCP.TimeoutRaw)
		if err != nil {
			return nil, fmt.Errorf("invalid mcp.timeout %q: %w", cfg.MCP.TimeoutRaw, err)
		}
		cfg.MCP.Timeout = d
	}

	applyEnvFallbacks(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvFallbacks(cfg *Config) {
	if cfg.Composio.APIKey == "" {
		cfg.Composio.APIKey = os.Getenv("COMPOSIO_API_KEY")
	}
	if cfg.OpenAI.APIKey == "" {
		cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
}

func (c *Config) validate() error {
	if c.MCP.URL == "" {
		return fmt.Errorf("mcp.url must not be empty")
	}
	if c.MCP.Timeout < 0 {
		return fmt.Errorf("mcp.timeout must not be negative")
	}
	return nil
}
