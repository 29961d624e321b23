package config

// Config holds titlescan configuration.
// Stored at: {home}/config.yaml
type Config struct {
	Providers  map[string]ProviderCfg `mapstructure:"providers" yaml:"providers"`
	Defaults   DefaultsCfg            `mapstructure:"defaults" yaml:"defaults"`
	Extraction ExtractionCfg          `mapstructure:"extraction" yaml:"extraction"`
	Server     ServerCfg              `mapstructure:"server" yaml:"server"`
}

// ProviderCfg configures an LLM provider.
type ProviderCfg struct {
	Type           string `mapstructure:"type" yaml:"type"`                       // "gemini", "openrouter", "openai"
	Model          string `mapstructure:"model" yaml:"model"`                     // Model name
	APIKey         string `mapstructure:"api_key" yaml:"api_key"`                 // API key (supports ${ENV_VAR} syntax)
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"` // HTTP timeout
	Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg specifies default extraction parameters.
type DefaultsCfg struct {
	Provider    string  `mapstructure:"provider" yaml:"provider"`       // Default LLM provider name
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"` // Generation temperature
	MaxTokens   int     `mapstructure:"max_tokens" yaml:"max_tokens"`   // Response token cap (0 = provider default)
}

// ExtractionCfg holds extraction service settings.
type ExtractionCfg struct {
	// FewShotExamplesPath points at a JSON file of example PDF/expected-output
	// pairs. Optional; a missing file disables few-shot steering.
	FewShotExamplesPath string `mapstructure:"few_shot_examples_path" yaml:"few_shot_examples_path"`

	// CallHistory bounds the in-memory extraction call log.
	CallHistory int `mapstructure:"call_history" yaml:"call_history"`
}

// ServerCfg holds HTTP server settings.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Providers: map[string]ProviderCfg{
			"gemini": {
				Type:           "gemini",
				Model:          "gemini-2.0-flash",
				APIKey:         "${GEMINI_API_KEY}",
				TimeoutSeconds: 120,
				Enabled:        true,
			},
			"openrouter": {
				Type:           "openrouter",
				Model:          "google/gemini-2.0-flash-001",
				APIKey:         "${OPENROUTER_API_KEY}",
				TimeoutSeconds: 120,
				Enabled:        false,
			},
			"openai": {
				Type:           "openai",
				Model:          "gpt-4o",
				APIKey:         "${OPENAI_API_KEY}",
				TimeoutSeconds: 120,
				Enabled:        false,
			},
		},
		Defaults: DefaultsCfg{
			Provider:    "gemini",
			Temperature: 0.1,
		},
		Extraction: ExtractionCfg{
			CallHistory: 200,
		},
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: "8080",
		},
	}
}
