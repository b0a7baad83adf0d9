package common

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	LLM      LLMConfig
	Pipeline PipelineConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// LLMConfig holds language-model client configuration
type LLMConfig struct {
	BaseURL     string        `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	APIKey      string        `env:"OPENAI_API_KEY"`
	Model       string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	Temperature float32       `env:"OPENAI_TEMPERATURE" envDefault:"0.2"`
	Timeout     time.Duration `env:"OPENAI_TIMEOUT" envDefault:"45s"`
}

// PipelineConfig holds orchestration tuning knobs
type PipelineConfig struct {
	MaxParallelSpecialists int           `env:"MAX_PARALLEL_SPECIALISTS" envDefault:"5"`
	SpecialistTimeout      time.Duration `env:"SPECIALIST_TIMEOUT" envDefault:"90s"`
	StageTimeout           time.Duration `env:"STAGE_TIMEOUT" envDefault:"120s"`
	JobTimeout             time.Duration `env:"JOB_TIMEOUT" envDefault:"10m"`
	QueueWorkers           int           `env:"QUEUE_WORKERS" envDefault:"4"`
	QueueSize              int           `env:"QUEUE_SIZE" envDefault:"256"`
	DraftContinuation      bool          `env:"DRAFT_CONTINUATION" envDefault:"false"`
}

// LoadConfig loads configuration from the environment, honoring a local .env
// file when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, WrapError(err, "parse environment")
	}
	return cfg, nil
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", ErrInvalidInput)
	}
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Pipeline.MaxParallelSpecialists <= 0 {
		return NewAppError("CONFIG_ERROR", "MAX_PARALLEL_SPECIALISTS must be positive", ErrInvalidInput)
	}
	return nil
}
