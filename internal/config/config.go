package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/robfig/cron/v3"
)

// EnvPrefix is stripped from environment variables before they are mapped
// onto config keys: RADAR_DB_HOST -> db_host.
const EnvPrefix = "RADAR_"

// bareEnv are the unprefixed variables also honoured, for parity with the
// usual deployment conventions. Their RADAR_ forms win when both are set.
var bareEnv = map[string]string{
	"APP_ENV":   "app_env",
	"LOG_LEVEL": "log_level",
}

type Config struct {
	AppEnv   string `koanf:"app_env"`
	Port     string `koanf:"port"`
	LogLevel string `koanf:"log_level"`

	DBDriver   string `koanf:"db_driver"`
	DBPath     string `koanf:"db_path"`
	DBHost     string `koanf:"db_host"`
	DBPort     string `koanf:"db_port"`
	DBUser     string `koanf:"db_user"`
	DBPassword string `koanf:"db_password"`
	DBName     string `koanf:"db_name"`
	DBSSLMode  string `koanf:"db_sslmode"`
	DBTimezone string `koanf:"db_timezone"`

	// InferenceURL switches the prediction source from the mock generator
	// to a remote model endpoint.
	InferenceURL     string        `koanf:"inference_url"`
	InferenceToken   string        `koanf:"inference_token"`
	InferenceTimeout time.Duration `koanf:"inference_timeout"`
	ModelVersion     string        `koanf:"model_version"`

	SimulatedDelay time.Duration `koanf:"simulated_delay"`
	ZoneDataDelay  time.Duration `koanf:"zone_data_delay"`
	GeneratorSeed  int64         `koanf:"generator_seed"`

	CacheTTL     time.Duration `koanf:"cache_ttl"`
	SessionTTL   time.Duration `koanf:"session_ttl"`
	PrefetchCron string        `koanf:"prefetch_cron"`
}

// Load reads .env files, an optional CONFIG_FILE (yaml or json), the bare
// APP_ENV and LOG_LEVEL variables and RADAR_* environment variables, later
// sources overriding earlier ones.
func Load() (*Config, error) {
	// carrega .env em dev
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	k := koanf.New(".")
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		var parser koanf.Parser
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", path)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	if err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		return bareEnv[key], value
	}), nil); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, err
	}

	// Keys absent from every source keep their default value.
	cfg := Defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Defaults returns the configuration used when nothing is set. It runs the
// mock generator against a local sqlite file.
func Defaults() Config {
	return Config{
		AppEnv:           "production",
		Port:             "8080",
		LogLevel:         "info",
		DBDriver:         "sqlite",
		DBPath:           "neuralcrime.db",
		DBSSLMode:        "disable",
		DBTimezone:       "America/Los_Angeles",
		InferenceTimeout: 30 * time.Second,
		ModelVersion:     "mock-v1",
		SimulatedDelay:   1500 * time.Millisecond,
		ZoneDataDelay:    800 * time.Millisecond,
		CacheTTL:         10 * time.Minute,
		SessionTTL:       30 * time.Minute,
		PrefetchCron:     "0 * * * *",
	}
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite":
	case "postgres", "mysql":
		if c.DBHost == "" || c.DBPort == "" || c.DBUser == "" || c.DBName == "" {
			return fmt.Errorf("database variables not configured for driver %s", c.DBDriver)
		}
	default:
		return fmt.Errorf("unsupported db driver: %s", c.DBDriver)
	}
	if c.SimulatedDelay < 0 || c.ZoneDataDelay < 0 {
		return fmt.Errorf("simulated delays must not be negative")
	}
	if c.CacheTTL < 0 || c.SessionTTL <= 0 {
		return fmt.Errorf("cache_ttl must not be negative and session_ttl must be positive")
	}
	if _, err := cron.ParseStandard(c.PrefetchCron); err != nil {
		return fmt.Errorf("invalid prefetch_cron %q: %w", c.PrefetchCron, err)
	}
	return nil
}

// DataSource names the prediction source selected by this config.
func (c *Config) DataSource() string {
	if c.InferenceURL != "" {
		return "remote"
	}
	return "mock"
}

// IsDev reports whether APP_ENV selects the development profile.
func (c *Config) IsDev() bool {
	return strings.EqualFold(c.AppEnv, "dev")
}
