package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/signature-cli/internal/kv"
)

// Config holds the full application configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Predict PredictConfig `yaml:"predict" mapstructure:"predict"`
	Ingest  IngestConfig  `yaml:"ingest" mapstructure:"ingest"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the record store and its key-value backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Namespace   string `yaml:"namespace" mapstructure:"namespace"`
	Fanout      int    `yaml:"fanout" mapstructure:"fanout"`
}

// KV returns the backend settings.
func (s StoreConfig) KV() kv.Config {
	return kv.Config{Driver: s.Driver, DatabaseURL: s.DatabaseURL}
}

// PredictConfig holds inference service settings.
type PredictConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	MaxAttempts int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	Fallback    bool    `yaml:"fallback" mapstructure:"fallback"`
}

// IngestConfig configures how uploaded images become signature records.
type IngestConfig struct {
	EmbedImages       bool    `yaml:"embed_images" mapstructure:"embed_images"`
	StylizedThreshold float64 `yaml:"stylized_threshold" mapstructure:"stylized_threshold"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SIGSTORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", kv.DriverSQLite)
	v.SetDefault("store.database_url", "signatures.db")
	v.SetDefault("store.namespace", "sigverify:")
	v.SetDefault("store.fanout", 16)
	v.SetDefault("predict.base_url", "http://localhost:8000")
	v.SetDefault("predict.timeout_secs", 30)
	v.SetDefault("predict.rate_per_sec", 5)
	v.SetDefault("predict.max_attempts", 3)
	v.SetDefault("predict.fallback", true)
	v.SetDefault("ingest.embed_images", true)
	v.SetDefault("ingest.stylized_threshold", 70)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command needs. mode is "store" for
// commands that only touch the record store, "predict" for commands that
// also call the inference service and "serve" for the API server.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "store", "predict", "serve":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	switch c.Store.Driver {
	case kv.DriverMemory, kv.DriverSQLite, kv.DriverRedis:
	case kv.DriverPostgres:
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required for postgres")
		}
	default:
		errs = append(errs, "store.driver must be one of memory, sqlite, postgres, redis")
	}
	if c.Store.Fanout < 1 || c.Store.Fanout > 256 {
		errs = append(errs, "store.fanout must be between 1 and 256")
	}

	if mode == "predict" || mode == "serve" {
		if c.Predict.BaseURL == "" {
			errs = append(errs, "predict.base_url is required")
		}
		if c.Predict.MaxAttempts < 1 {
			errs = append(errs, "predict.max_attempts must be >= 1")
		}
		if c.Predict.RatePerSec < 0 {
			errs = append(errs, "predict.rate_per_sec must be >= 0")
		}
		if c.Ingest.StylizedThreshold < 0 || c.Ingest.StylizedThreshold > 100 {
			errs = append(errs, "ingest.stylized_threshold must be between 0 and 100")
		}
	}

	if mode == "serve" && c.Server.Port <= 0 {
		errs = append(errs, "server.port must be > 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
