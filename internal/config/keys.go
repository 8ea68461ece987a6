package config

import "fmt"

type keySpec struct {
	key     string
	env     string
	secret  bool
	extract func(cfg Config) any
}

var specs = []keySpec{
	{key: "app.env", env: "APP_ENV", extract: func(cfg Config) any { return cfg.Env }},
	{key: "server.port", env: "SERVER_PORT", extract: func(cfg Config) any { return cfg.Server.Port }},
	{key: "server.allowed_origins", env: "SERVER_ALLOWED_ORIGINS", extract: func(cfg Config) any { return cfg.Server.AllowedOrigins }},
	{
		key: "server.admin_token", env: "SERVER_ADMIN_TOKEN",
		secret:  true,
		extract: func(cfg Config) any { return cfg.Server.AdminToken },
	},
	{key: "server.max_conns", env: "SERVER_MAX_CONNS", extract: func(cfg Config) any { return cfg.Server.MaxConns }},
	{key: "server.static_dir", env: "SERVER_STATIC_DIR", extract: func(cfg Config) any { return cfg.Server.StaticDir }},
	{key: "server.trust_proxy", env: "SERVER_TRUST_PROXY", extract: func(cfg Config) any { return cfg.Server.TrustProxy }},
	{
		key: "upstream.api_key", env: "GROK_API_KEY",
		secret:  true,
		extract: func(cfg Config) any { return cfg.Upstream.APIKey },
	},
	{key: "upstream.base_url", env: "GROK_BASE_URL", extract: func(cfg Config) any { return cfg.Upstream.BaseURL }},
	{key: "upstream.model", env: "GROK_MODEL", extract: func(cfg Config) any { return cfg.Upstream.Model }},
	{key: "upstream.temperature", env: "GROK_TEMPERATURE", extract: func(cfg Config) any { return cfg.Upstream.Temperature }},
	{key: "upstream.max_tokens", env: "GROK_MAX_TOKENS", extract: func(cfg Config) any { return cfg.Upstream.MaxTokens }},
	{key: "upstream.timeout", env: "GROK_TIMEOUT", extract: func(cfg Config) any { return cfg.Upstream.Timeout }},
	{key: "context.max_tokens", env: "CONTEXT_MAX_TOKENS", extract: func(cfg Config) any { return cfg.Context.MaxTokens }},
	{key: "context.tokenizer", env: "CONTEXT_TOKENIZER", extract: func(cfg Config) any { return cfg.Context.Tokenizer }},
	{key: "context.content_file", env: "CONTEXT_CONTENT_FILE", extract: func(cfg Config) any { return cfg.Context.ContentFile }},
	{key: "storage.data_dir", env: "STORAGE_DATA_DIR", extract: func(cfg Config) any { return cfg.Storage.DataDir }},
	{
		key: "redis.url", env: "REDIS_URL",
		secret:  true,
		extract: func(cfg Config) any { return cfg.Redis.URL },
	},
	{key: "redis.dial_timeout", env: "REDIS_DIAL_TIMEOUT", extract: func(cfg Config) any { return cfg.Redis.DialTimeout }},
	{key: "rate_limit.per_minute", env: "RATE_LIMIT_PER_MINUTE", extract: func(cfg Config) any { return cfg.RateLimit.PerMinute }},
	{key: "log.level", env: "LOG_LEVEL", extract: func(cfg Config) any { return cfg.Log.Level }},
}

// mask hides all but the last four characters of a secret.
func mask(v string) string {
	switch {
	case v == "":
		return "(not set)"
	case len(v) <= 8:
		return "********"
	default:
		return "****" + v[len(v)-4:]
	}
}

func display(s keySpec, cfg Config) string {
	v := s.extract(cfg)
	if s.secret {
		return mask(fmt.Sprintf("%v", v))
	}
	if list, ok := v.([]string); ok && len(list) == 0 {
		return "(any)"
	}
	return fmt.Sprintf("%v", v)
}
