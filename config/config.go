// Package config loads the application configuration from a per-environment
// YAML file with environment-variable overrides.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "1MB"
	defaultBcryptCost         = 10

	// EnvDevelopment selects in-memory storage and relaxed secret handling.
	EnvDevelopment = "development"
	// EnvTesting mirrors development but is meant for automated test runs.
	EnvTesting = "testing"
	// EnvProduction requires persistent storage and configured secrets.
	EnvProduction = "production"

	// StorageMemory keeps all state in process memory.
	StorageMemory = "memory"
	// StoragePostgres persists state in PostgreSQL via GORM.
	StoragePostgres = "postgres"
)

// envVarName selects which <env>.yaml file is loaded.
const envVarName = "APP_ENV"

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Host string `json:"host" yaml:"host"`
		Port int    `json:"port" yaml:"port"`
		// MaxRequestBodySize is parsed by echo's BodyLimit middleware, e.g. "1MB".
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	// RateLimit configures the per-client-IP request limiter.
	RateLimit struct {
		Enabled bool    `json:"enabled" yaml:"enabled"`
		Rate    float64 `json:"rate" yaml:"rate"`   // sustained requests per second
		Burst   int     `json:"burst" yaml:"burst"` // burst size
	} `json:"rateLimit" yaml:"rateLimit"`

	// Storage selects the persistence backend: "memory" or "postgres".
	Storage struct {
		Backend string `json:"backend" yaml:"backend"`
	} `json:"storage" yaml:"storage"`

	Postgres *PostgresConfig `json:"postgres" yaml:"postgres"`

	SecretKey struct {
		Access  string `json:"access" yaml:"access"`
		Refresh string `json:"refresh" yaml:"refresh"`
	} `json:"secretKey" yaml:"secretKey"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`
}

// PostgresConfig holds the database connection target and pool settings.
type PostgresConfig struct {
	Host            string        `json:"host" yaml:"host"`
	Port            int           `json:"port" yaml:"port"`
	UserName        string        `json:"username" yaml:"username"`
	Password        string        `json:"password" yaml:"password"`
	DBName          string        `json:"dbName" yaml:"dbName"`
	SSLMode         string        `json:"sslMode" yaml:"sslMode"`
	MaxOpenConns    int           `json:"maxOpenConns" yaml:"maxOpenConns"`
	MaxIdleConns    int           `json:"maxIdleConns" yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `json:"connMaxLifetime" yaml:"connMaxLifetime"`
}

// AuthConfig defines authentication-related configuration
type AuthConfig struct {
	BcryptCost int `json:"bcryptCost" yaml:"bcryptCost"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// BcryptCost returns the configured bcrypt work factor, or the default.
func (cfg *Config) BcryptCost() int {
	if cfg.Auth == nil || cfg.Auth.BcryptCost == 0 {
		return defaultBcryptCost
	}

	return cfg.Auth.BcryptCost
}

// IsDevelopment reports whether the service runs in development or testing mode.
func (cfg *Config) IsDevelopment() bool {
	return cfg.Env.Env == EnvDevelopment || cfg.Env.Env == EnvTesting
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: SECRETKEY_ACCESS -> secretKey.access (not secretkey.access)
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

// New loads the configuration for the environment named by APP_ENV
// (development when unset) and validates it.
func New() (*Config, error) {
	currEnv := os.Getenv(envVarName)
	if currEnv == "" {
		currEnv = EnvDevelopment
	}

	cfg, err := LoadWithEnv[Config](currEnv, "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	if cfg.Env.Env == "" {
		cfg.Env.Env = currEnv
	}
	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}
	if cfg.Storage.Backend == "" {
		if cfg.IsDevelopment() {
			cfg.Storage.Backend = StorageMemory
		} else {
			cfg.Storage.Backend = StoragePostgres
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate refuses to start with unusable security or storage settings.
// An unset signing secret would make every token forgeable, so outside of
// development mode it is a hard startup error rather than a silent default.
func (cfg *Config) validate() error {
	if !cfg.IsDevelopment() {
		if cfg.SecretKey.Access == "" || cfg.SecretKey.Refresh == "" {
			return errors.Errorf("jwt signing secrets must be configured in %s mode", cfg.Env.Env)
		}
	}
	if cfg.SecretKey.Access != "" && cfg.SecretKey.Access == cfg.SecretKey.Refresh {
		return errors.New("access and refresh secrets must differ")
	}
	if cfg.Storage.Backend == StoragePostgres && cfg.Postgres == nil {
		return errors.New("postgres storage selected but postgres connection is not configured")
	}
	if cfg.Storage.Backend != StorageMemory && cfg.Storage.Backend != StoragePostgres {
		return errors.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	return nil
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
