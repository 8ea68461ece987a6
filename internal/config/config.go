package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env       string          `envconfig:"APP_ENV" default:"development" desc:"deployment environment (development, staging, testing, production)"`
	Server    ServerConfig
	Upstream  UpstreamConfig  `envconfig:"GROK"`
	Context   ContextConfig
	Storage   StorageConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig `split_words:"true"`
	Log       LogConfig
}

type ServerConfig struct {
	Port           int      `envconfig:"PORT" default:"3001" desc:"HTTP listen port (PORT is accepted as well)"`
	AllowedOrigins []string `split_words:"true" desc:"comma separated CORS whitelist; empty allows every origin"`
	AdminToken     string   `split_words:"true" desc:"bearer token for the feedback listing route; empty disables the route"`
	MaxConns       int      `split_words:"true" default:"256" desc:"maximum concurrent connections"`
	StaticDir      string   `split_words:"true" desc:"directory of built site assets served at /; empty serves the API only"`
	TrustProxy     bool     `split_words:"true" desc:"take the client IP from X-Forwarded-For/X-Real-IP; enable only behind a reverse proxy"`
}

type UpstreamConfig struct {
	APIKey      string        `split_words:"true" desc:"credential for the chat completion provider"`
	BaseURL     string        `split_words:"true" default:"https://api.x.ai/v1" desc:"OpenAI compatible API base URL"`
	Model       string        `default:"grok-2-1212"`
	Temperature float32       `default:"0.2"`
	MaxTokens   int           `split_words:"true" default:"500"`
	Timeout     time.Duration `default:"60s" desc:"upper bound for one upstream call"`
}

type ContextConfig struct {
	MaxTokens   int    `split_words:"true" default:"8000" desc:"portfolio context budget; <= 0 disables truncation"`
	Tokenizer   string `default:"heuristic" desc:"token counter: heuristic or cl100k_base"`
	ContentFile string `split_words:"true" desc:"YAML file replacing the embedded portfolio content"`
}

type StorageConfig struct {
	DataDir string `split_words:"true" desc:"directory holding robo.db"`
}

type RedisConfig struct {
	URL         string        `desc:"redis:// URL for the shared rate limiter; empty keeps counters in memory"`
	DialTimeout time.Duration `split_words:"true" default:"2s"`
}

type RateLimitConfig struct {
	PerMinute int `split_words:"true" default:"30" desc:"requests per client IP per minute; 0 disables"`
}

type LogConfig struct {
	Level string `desc:"debug, info, warn or error"`
}

// Load reads an optional .env file from the working directory and then
// processes the environment.
//
// Variables already present in the environment win over .env entries.
func Load() (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}
	return fromEnv()
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("loading %s: %w", path, err)
}

func fromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("processing environment: %w", err)
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = defaultDataDir()
	}
	return cfg, nil
}

// Environment returns the parsed APP_ENV value.
func (c Config) Environment() Environment {
	return ParseEnvironment(c.Env)
}

// Warnings lists non-fatal problems worth reporting at startup. A missing
// upstream credential only disables the model-backed chat path.
func (c Config) Warnings() []string {
	var w []string
	if c.Upstream.APIKey == "" {
		w = append(w, "GROK_API_KEY is not set; /api/chat will answer with a configuration error")
	}
	if c.Context.Tokenizer != TokenizerHeuristic && c.Context.Tokenizer != TokenizerCL100K {
		w = append(w, fmt.Sprintf("unknown CONTEXT_TOKENIZER %q; falling back to %s", c.Context.Tokenizer, TokenizerHeuristic))
	}
	return w
}

const (
	TokenizerHeuristic = "heuristic"
	TokenizerCL100K    = "cl100k_base"
)
