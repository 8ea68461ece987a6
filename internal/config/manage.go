package config

import (
	"io"

	"github.com/kelseyhightower/envconfig"
)

// KeyInfo describes a config key for display purposes.
type KeyInfo struct {
	Key    string
	EnvVar string
	Value  string
}

// ShowAll returns every config key with its effective value. Secrets are
// masked.
func ShowAll(cfg Config) []KeyInfo {
	result := make([]KeyInfo, 0, len(specs))
	for _, s := range specs {
		result = append(result, KeyInfo{
			Key:    s.key,
			EnvVar: s.env,
			Value:  display(s, cfg),
		})
	}
	return result
}

// ValidKeys returns the list of config key names.
func ValidKeys() []string {
	keys := make([]string, 0, len(specs))
	for _, s := range specs {
		keys = append(keys, s.key)
	}
	return keys
}

// Usage writes the table of recognised environment variables, their types,
// defaults and descriptions.
func Usage(w io.Writer) error {
	var cfg Config
	return envconfig.Usagef("", &cfg, w, envconfig.DefaultTableFormat)
}
