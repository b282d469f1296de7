package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalizeEnvKey(t *testing.T) {
	existing := map[string]any{
		"secretKey": map[string]any{
			"access":  "",
			"refresh": "",
		},
		"rateLimit": map[string]any{
			"rate": 10,
		},
		"postgres": map[string]any{
			"sslMode": "require",
			"dbName":  "stringbox",
		},
	}

	tests := []struct {
		name   string
		rawKey string
		want   string
	}{
		{"camel case section", "SECRETKEY_ACCESS", "secretKey.access"},
		{"camel case leaf", "POSTGRES_SSLMODE", "postgres.sslMode"},
		{"camel case leaf with db prefix", "POSTGRES_DBNAME", "postgres.dbName"},
		{"known section unknown leaf", "RATELIMIT_BURST", "rateLimit.burst"},
		{"unknown key passes through lowered", "HTTP_PORT", "http.port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, canonicalizeEnvKey(tt.rawKey, existing))
		})
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("production requires secrets", func(t *testing.T) {
		cfg := &Config{}
		cfg.Env.Env = EnvProduction
		cfg.Storage.Backend = StorageMemory

		err := cfg.validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "signing secrets")
	})

	t.Run("secrets must differ", func(t *testing.T) {
		cfg := &Config{}
		cfg.Env.Env = EnvDevelopment
		cfg.SecretKey.Access = "same"
		cfg.SecretKey.Refresh = "same"

		err := cfg.validate()
		assert.Error(t, err)
	})

	t.Run("development without secrets is allowed", func(t *testing.T) {
		cfg := &Config{}
		cfg.Env.Env = EnvDevelopment
		cfg.Storage.Backend = StorageMemory

		assert.NoError(t, cfg.validate())
	})

	t.Run("postgres backend needs connection config", func(t *testing.T) {
		cfg := &Config{}
		cfg.Env.Env = EnvDevelopment
		cfg.Storage.Backend = StoragePostgres

		err := cfg.validate()
		assert.Error(t, err)
	})

	t.Run("unknown backend rejected", func(t *testing.T) {
		cfg := &Config{}
		cfg.Env.Env = EnvDevelopment
		cfg.Storage.Backend = "cassandra"

		err := cfg.validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "storage backend")
	})
}

func TestConfigBcryptCost(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, defaultBcryptCost, cfg.BcryptCost())

	cfg.Auth = &AuthConfig{BcryptCost: 12}
	assert.Equal(t, 12, cfg.BcryptCost())
}
