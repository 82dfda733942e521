package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Prompt keys shared by the prompt store and the flows that consume them.
const (
	PromptVerification  = "conferencia_minutas"
	PromptQualification = "geracao_qualificacao"
)

type ServerConfig struct {
	Addr string `toml:"addr" validate:"required"`
}

type LLMConfig struct {
	Provider          string  `toml:"provider" validate:"required,oneof=openai gemini claude ollama"`
	Model             string  `toml:"model" validate:"required"`
	APIKey            string  `toml:"api_key"`
	BaseURL           string  `toml:"base_url"`
	Temperature       float32 `toml:"temperature" validate:"gte=0,lte=2"`
	MaxTokens         int     `toml:"max_tokens" validate:"gte=0,lte=32768"`
	TimeoutSeconds    int     `toml:"timeout_seconds" validate:"gte=0,lte=600"`
	RequestsPerSecond float64 `toml:"requests_per_second" validate:"gte=0"`
	Burst             int     `toml:"burst" validate:"gte=0"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

// PromptsConfig holds the default instruction text for each AI flow. Runtime
// overrides live in the prompt store and take precedence over these.
type PromptsConfig struct {
	Verification  string `toml:"verification"`
	Qualification string `toml:"qualification"`
}

type StorageConfig struct {
	SQLitePath string `toml:"sqlite_path" validate:"required"`
}

// UsageConfig prices tokens for the cost estimate attached to every AI call.
type UsageConfig struct {
	PromptPricePer1K     float64 `toml:"prompt_price_per_1k" validate:"gte=0"`
	CompletionPricePer1K float64 `toml:"completion_price_per_1k" validate:"gte=0"`
}

type ConcurrencyConfig struct {
	ProfileLookups int `toml:"profile_lookups" validate:"gte=1,lte=64"`
}

type ReconcileConfig struct {
	Engine string `toml:"engine" validate:"required,oneof=llm rules"`
}

type LogConfig struct {
	Level string `toml:"level" validate:"omitempty,oneof=debug info warn error"`
}

type Config struct {
	Server      ServerConfig      `toml:"server"`
	LLM         LLMConfig         `toml:"llm"`
	Memgraph    MemgraphConfig    `toml:"memgraph"`
	Prompts     PromptsConfig     `toml:"prompts"`
	Storage     StorageConfig     `toml:"storage"`
	Usage       UsageConfig       `toml:"usage"`
	Concurrency ConcurrencyConfig `toml:"concurrency"`
	Reconcile   ReconcileConfig   `toml:"reconcile"`
	Log         LogConfig         `toml:"log"`
}

// Default returns a configuration that runs locally against Ollama with the
// rule-based reconciliation engine.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		LLM: LLMConfig{
			Provider:          "ollama",
			Model:             "gpt-oss:latest",
			BaseURL:           "http://localhost:11434",
			MaxTokens:         4096,
			TimeoutSeconds:    300,
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Storage:     StorageConfig{SQLitePath: "data/actnexus.db"},
		Concurrency: ConcurrencyConfig{ProfileLookups: 4},
		Reconcile:   ReconcileConfig{Engine: "llm"},
		Log:         LogConfig{Level: "info"},
	}
}

// Load reads a TOML file on top of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides file values with environment variables when present.
func (c *Config) ApplyEnv() {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString("LLM_PROVIDER", &c.LLM.Provider)
	setString("LLM_MODEL", &c.LLM.Model)
	setString("LLM_API_KEY", &c.LLM.APIKey)
	setString("LLM_BASE_URL", &c.LLM.BaseURL)
	setString("MEMGRAPH_URI", &c.Memgraph.URI)
	setString("MEMGRAPH_USER", &c.Memgraph.User)
	setString("MEMGRAPH_PASSWORD", &c.Memgraph.Password)
	setString("SQLITE_PATH", &c.Storage.SQLitePath)
	setString("RECONCILE_ENGINE", &c.Reconcile.Engine)
	setString("LOG_LEVEL", &c.Log.Level)

	if port := os.Getenv("PORT"); port != "" {
		c.Server.Addr = ":" + port
	}
	if v := os.Getenv("LLM_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.LLM.TimeoutSeconds = n
		}
	}
}

// Validate checks the struct tags and returns a single error listing every
// offending field.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	msg := "invalid configuration:"
	for _, fe := range verrs {
		msg += fmt.Sprintf(" %s (%s=%s)", fe.Namespace(), fe.Tag(), fe.Param())
	}
	return errors.New(msg)
}
