package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Queue     QueueConfig     `mapstructure:"queue"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Backend         string `mapstructure:"backend"`
	ProjectID       string `mapstructure:"project_id"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

// ArchiveConfig configures the optional Cloud Storage insight archive.
// An empty bucket disables archiving.
type ArchiveConfig struct {
	Bucket string `mapstructure:"bucket"`
}

// AnalyticsConfig tunes the insight engine.
type AnalyticsConfig struct {
	PredictionMonths  int  `mapstructure:"prediction_months"`
	ParallelDetectors bool `mapstructure:"parallel_detectors"`
}

// QueueConfig sizes the background refresh queue.
type QueueConfig struct {
	Workers    int `mapstructure:"workers"`
	Buffer     int `mapstructure:"buffer"`
	MaxRetries int `mapstructure:"max_retries"`
}

// AuthConfig selects how callers are authenticated.
type AuthConfig struct {
	Mode               string `mapstructure:"mode"`
	DebugImpersonation bool   `mapstructure:"debug_impersonation"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

const (
	BackendMemory    = "memory"
	BackendFirestore = "firestore"

	AuthModeFirebase = "firebase"
	AuthModeLocal    = "local"
)

// Load reads configuration from file and env. Env var overrides use prefix INSIGHTS_,
// e.g. INSIGHTS_STORE_BACKEND=firestore.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("server.port", "8111")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:1234", "http://127.0.0.1:1234"})
	v.SetDefault("store.backend", BackendMemory)
	v.SetDefault("store.project_id", "")
	v.SetDefault("store.credentials_file", "")
	v.SetDefault("archive.bucket", "")
	v.SetDefault("analytics.prediction_months", 6)
	v.SetDefault("analytics.parallel_detectors", true)
	v.SetDefault("queue.workers", 5)
	v.SetDefault("queue.buffer", 100)
	v.SetDefault("queue.max_retries", 3)
	v.SetDefault("auth.mode", AuthModeLocal)
	v.SetDefault("auth.debug_impersonation", false)
	v.SetDefault("log.level", "info")

	v.SetConfigType("yaml")

	cfgPath := os.Getenv("INSIGHTS_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("insights")
	}

	v.SetEnvPrefix("INSIGHTS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// An explicitly named file must exist; the search path is optional.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory:
	case BackendFirestore:
		if c.Store.ProjectID == "" {
			return fmt.Errorf("store.project_id is required for the firestore backend")
		}
	default:
		return fmt.Errorf("unknown store.backend %q", c.Store.Backend)
	}
	switch c.Auth.Mode {
	case AuthModeFirebase, AuthModeLocal:
	default:
		return fmt.Errorf("unknown auth.mode %q", c.Auth.Mode)
	}
	if c.Queue.Workers < 1 {
		return fmt.Errorf("queue.workers must be at least 1")
	}
	return nil
}
