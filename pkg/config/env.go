package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable the server reads
const EnvPrefix = "CROPCLIMATE_"

// LookupFunc matches os.LookupEnv
type LookupFunc func(key string) (string, bool)

// EnvLookup returns a lookup over the process environment that falls back to
// the values in the given .env files. Missing files are skipped.
func EnvLookup(files ...string) (LookupFunc, error) {
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	dotenv := map[string]string{}
	if len(existing) > 0 {
		var err error
		dotenv, err = godotenv.Read(existing...)
		if err != nil {
			return nil, fmt.Errorf("error reading env files: %w", err)
		}
	}

	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}, nil
}

// ApplyEnv overrides c with every CROPCLIMATE_* variable that is set
func ApplyEnv(c *ConfigData, lookup LookupFunc) error {
	strs := []struct {
		key string
		dst *string
	}{
		{"DB_HOST", &c.Database.Host},
		{"DB_USER", &c.Database.User},
		{"DB_PASSWORD", &c.Database.Password},
		{"DB_NAME", &c.Database.DBName},
		{"DB_SSLMODE", &c.Database.SSLMode},
		{"LISTEN_ADDR", &c.Server.ListenAddr},
		{"TLS_CERT", &c.Server.Cert},
		{"TLS_KEY", &c.Server.Key},
		{"QUERY_SOURCE", &c.Analytics.QuerySource},
		{"EXTREME_PRESET", &c.Analytics.ExtremePreset},
	}
	for _, s := range strs {
		if v, ok := lookup(EnvPrefix + s.key); ok {
			*s.dst = v
		}
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"DB_PORT", &c.Database.Port},
		{"DB_CONNECT_TIMEOUT", &c.Database.ConnectTimeoutSeconds},
		{"HTTP_PORT", &c.Server.HTTPPort},
	}
	for _, i := range ints {
		v, ok := lookup(EnvPrefix + i.key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %q is not an integer", EnvPrefix, i.key, v)
		}
		*i.dst = n
	}

	return nil
}

// EnvProvider implements ConfigProvider from environment variables alone
type EnvProvider struct {
	lookup LookupFunc
}

// NewEnvProvider creates a provider reading through lookup
func NewEnvProvider(lookup LookupFunc) *EnvProvider {
	return &EnvProvider{lookup: lookup}
}

// LoadConfig builds the configuration from defaults and the environment
func (e *EnvProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}
	if err := ApplyEnv(config, e.lookup); err != nil {
		return nil, err
	}
	config.ApplyDefaults()
	return config, nil
}

func (e *EnvProvider) IsReadOnly() bool {
	return true
}

func (e *EnvProvider) Close() error {
	return nil
}
