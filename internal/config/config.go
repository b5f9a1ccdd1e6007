package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all process-wide settings. Loaded once at startup and treated
// as immutable afterwards.
type Config struct {
	LLM       LLMConfig       `yaml:"llm"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
	Local     LocalConfig     `yaml:"local"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
}

// LLMConfig selects the backend used for generation.
type LLMConfig struct {
	Provider string `yaml:"provider"`
}

type OpenAIConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

type AnthropicConfig struct {
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

type LocalConfig struct {
	Endpoint    string  `yaml:"endpoint"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// RetrievalConfig is read by the retriever collaborator; the core only uses
// TopK and MaxContextLength.
type RetrievalConfig struct {
	TopK             int     `yaml:"top_k"`
	Alpha            float64 `yaml:"alpha"`
	RerankWeight     float64 `yaml:"rerank_weight"`
	MaxContextLength int     `yaml:"max_context_length"`
}

const (
	DefaultProvider         = "openai"
	DefaultOpenAIModel      = "gpt-3.5-turbo"
	DefaultAnthropicModel   = "claude-2"
	DefaultLocalEndpoint    = "http://localhost:8000/v1/completions"
	DefaultMaxTokens        = 500
	DefaultLocalMaxTokens   = 512
	DefaultTemperature      = 0.7
	DefaultTopK             = 5
	DefaultAlpha            = 0.5
	DefaultRerankWeight     = 0.5
	DefaultMaxContextLength = 3000
)

// Load reads the YAML document at path, applies environment overrides and
// defaults, and validates the result. A parse error or a missing credential
// for the selected primary provider is fatal: the caller must not start.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.LLM.Provider = getenv("LLM_PROVIDER", c.LLM.Provider)
	c.OpenAI.APIKey = getenv("OPENAI_API_KEY", c.OpenAI.APIKey)
	c.OpenAI.BaseURL = getenv("OPENAI_BASE_URL", c.OpenAI.BaseURL)
	c.Anthropic.APIKey = getenv("ANTHROPIC_API_KEY", c.Anthropic.APIKey)
	c.Local.Endpoint = getenv("LOCAL_LLM_ENDPOINT", c.Local.Endpoint)
}

func (c *Config) applyDefaults() {
	if c.LLM.Provider == "" {
		c.LLM.Provider = DefaultProvider
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = DefaultOpenAIModel
	}
	if c.OpenAI.MaxTokens <= 0 {
		c.OpenAI.MaxTokens = DefaultMaxTokens
	}
	if c.OpenAI.Temperature <= 0 {
		c.OpenAI.Temperature = DefaultTemperature
	}
	if c.Anthropic.Model == "" {
		c.Anthropic.Model = DefaultAnthropicModel
	}
	if c.Anthropic.MaxTokens <= 0 {
		c.Anthropic.MaxTokens = DefaultMaxTokens
	}
	if c.Anthropic.Temperature <= 0 {
		c.Anthropic.Temperature = DefaultTemperature
	}
	if c.Local.Endpoint == "" {
		c.Local.Endpoint = DefaultLocalEndpoint
	}
	if c.Local.MaxTokens <= 0 {
		c.Local.MaxTokens = DefaultLocalMaxTokens
	}
	if c.Local.Temperature <= 0 {
		c.Local.Temperature = DefaultTemperature
	}
	if c.Retrieval.TopK <= 0 {
		c.Retrieval.TopK = DefaultTopK
	}
	if c.Retrieval.Alpha <= 0 {
		c.Retrieval.Alpha = DefaultAlpha
	}
	if c.Retrieval.RerankWeight <= 0 {
		c.Retrieval.RerankWeight = DefaultRerankWeight
	}
	if c.Retrieval.MaxContextLength <= 0 {
		c.Retrieval.MaxContextLength = DefaultMaxContextLength
	}
}

// validate enforces the fail-fast contract for the primary provider. Other
// providers' sections may be absent; the matching adapter reports that at
// call time.
func (c *Config) validate() error {
	if strings.EqualFold(strings.TrimSpace(c.LLM.Provider), DefaultProvider) && c.OpenAI.APIKey == "" {
		return fmt.Errorf("config: openai.api_key is required when llm.provider is %q (set OPENAI_API_KEY or the openai section)", DefaultProvider)
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
