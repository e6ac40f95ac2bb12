package model

import "time"

// Config is the complete forensia configuration.
// It is loaded once at startup and passed to constructors; nothing reads
// the environment after that.
type Config struct {
	LLM    LLMConfig    `yaml:"llm" mapstructure:"llm"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Cache  CacheConfig  `yaml:"cache" mapstructure:"cache"`
	Batch  BatchConfig  `yaml:"batch" mapstructure:"batch"`
}

// LLMConfig configures the generation backend
type LLMConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"` // gemini, openai, anthropic, ollama
	Model       string  `yaml:"model" mapstructure:"model"`
	APIKey      string  `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL     string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Temperature float32 `yaml:"temperature" mapstructure:"temperature"`
	TopK        int     `yaml:"top_k" mapstructure:"top_k"`
	Timeout     int     `yaml:"timeout" mapstructure:"timeout"` // seconds, 0 = no client-side timeout
	HTTPProxy   string  `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy  string  `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
}

// ServerConfig configures the web UI
type ServerConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	SessionTTL      time.Duration `yaml:"session_ttl" mapstructure:"session_ttl"`
	GenerateRate    float64       `yaml:"generate_rate" mapstructure:"generate_rate"` // generate requests per second per client, 0 = unlimited
	GenerateBurst   int           `yaml:"generate_burst" mapstructure:"generate_burst"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// CacheConfig configures the justification cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// BatchConfig configures the batch command
type BatchConfig struct {
	Workers int           `yaml:"workers" mapstructure:"workers"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "gemini",
			Model:       "gemini-3-flash-preview",
			Temperature: 0.1,
			TopK:        1,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			SessionTTL:      2 * time.Hour,
			GenerateRate:    1,
			GenerateBurst:   3,
			ShutdownTimeout: 10 * time.Second,
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     24 * time.Hour,
		},
		Batch: BatchConfig{
			Workers: 4,
			Timeout: 10 * time.Minute,
		},
	}
}
