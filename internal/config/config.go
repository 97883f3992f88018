package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	STN    STNConfig    `yaml:"stn" mapstructure:"stn"`
	NFHL   NFHLConfig   `yaml:"nfhl" mapstructure:"nfhl"`
	Fetch  FetchConfig  `yaml:"fetch" mapstructure:"fetch"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// STNConfig configures the USGS Short-Term Network client.
type STNConfig struct {
	BaseURL       string `yaml:"base_url" mapstructure:"base_url"`
	DictionaryURL string `yaml:"dictionary_url" mapstructure:"dictionary_url"`
}

// NFHLConfig configures the FEMA flood hazard layer client.
type NFHLConfig struct {
	PageSize int `yaml:"page_size" mapstructure:"page_size"`
}

// FetchConfig configures the shared HTTP retriever.
type FetchConfig struct {
	UserAgent     string `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs   int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries    int    `yaml:"max_retries" mapstructure:"max_retries"`
	MaxConcurrent int    `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// StoreConfig configures record persistence and the dictionary cache.
type StoreConfig struct {
	DatabaseURL   string `yaml:"database_url" mapstructure:"database_url"`
	CachePath     string `yaml:"cache_path" mapstructure:"cache_path"`
	CacheTTLHours int    `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Validate checks the fields a run mode depends on before any work starts.
func (c *Config) Validate(mode string) error {
	var problems []string

	if c.Fetch.MaxConcurrent < 1 || c.Fetch.MaxConcurrent > 32 {
		problems = append(problems, "fetch.max_concurrent must be between 1 and 32")
	}
	if c.Fetch.MaxRetries < 0 {
		problems = append(problems, "fetch.max_retries must be >= 0")
	}

	switch mode {
	case "fetch":
	case "sync":
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required for sync")
		}
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("FLOODWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("stn.base_url", "https://stn.wim.usgs.gov/STNServices/")
	v.SetDefault("stn.dictionary_url", "https://stn.wim.usgs.gov/STNWeb/datadictionary/")
	v.SetDefault("nfhl.page_size", 1000)
	v.SetDefault("fetch.user_agent", "floodwatch/1.0")
	v.SetDefault("fetch.timeout_secs", 60)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.max_concurrent", 4)
	v.SetDefault("store.cache_path", "floodwatch-cache.db")
	v.SetDefault("store.cache_ttl_hours", 24)
	v.SetDefault("server.port", 8080)
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
