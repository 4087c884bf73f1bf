// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tubepulse/tubepulse-cli/internal/classify"
)

// Config holds the full application configuration.
type Config struct {
	Catalog   CatalogConfig   `yaml:"catalog" mapstructure:"catalog"`
	Blob      BlobConfig      `yaml:"blob" mapstructure:"blob"`
	Warehouse WarehouseConfig `yaml:"warehouse" mapstructure:"warehouse"`
	Classify  ClassifyConfig  `yaml:"classify" mapstructure:"classify"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// CatalogConfig configures the upstream video catalog client and the search
// grid the collector fans out over.
type CatalogConfig struct {
	APIKey           string   `yaml:"api_key" mapstructure:"api_key"`
	BaseURL          string   `yaml:"base_url" mapstructure:"base_url"`
	Regions          []string `yaml:"regions" mapstructure:"regions"`
	Keywords         []string `yaml:"keywords" mapstructure:"keywords"`
	VideosPerKeyword int      `yaml:"videos_per_keyword" mapstructure:"videos_per_keyword"`
	RequestsPerSec   float64  `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
}

// BlobConfig configures the object store holding externalized batches.
type BlobConfig struct {
	RootDir string `yaml:"root_dir" mapstructure:"root_dir"`
}

// WarehouseConfig configures the analytical warehouse connection.
type WarehouseConfig struct {
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// ClassifyConfig points at an optional rule-set override file.
type ClassifyConfig struct {
	RulesPath string `yaml:"rules_path" mapstructure:"rules_path"`
}

// ServerConfig configures the HTTP trigger/status server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
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
	v.SetEnvPrefix("TUBEPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Secrets default empty so AutomaticEnv can fill them in
	// (viper only unmarshals keys it knows about).
	v.SetDefault("catalog.api_key", "")
	v.SetDefault("warehouse.database_url", "")
	v.SetDefault("classify.rules_path", "")
	v.SetDefault("catalog.base_url", "https://www.googleapis.com/youtube/v3")
	v.SetDefault("catalog.regions", []string{"US", "GB", "CA", "AU"})
	v.SetDefault("catalog.keywords", []string{"technology", "AI", "machine learning", "data science"})
	v.SetDefault("catalog.videos_per_keyword", 5)
	v.SetDefault("catalog.requests_per_sec", 4.0)
	v.SetDefault("blob.root_dir", "./data")
	v.SetDefault("warehouse.max_conns", 4)
	v.SetDefault("warehouse.min_conns", 1)
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

// ValidateCollect checks the parameters the collection side requires.
func (c *Config) ValidateCollect() error {
	var missing []string
	if c.Catalog.APIKey == "" {
		missing = append(missing, "catalog.api_key")
	}
	if c.Blob.RootDir == "" {
		missing = append(missing, "blob.root_dir")
	}
	if len(missing) > 0 {
		return eris.Errorf("config: missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ValidateLoad checks the parameters the warehouse load requires. A failure
// here aborts the run before any phase starts.
func (c *Config) ValidateLoad() error {
	var missing []string
	if c.Warehouse.DatabaseURL == "" {
		missing = append(missing, "warehouse.database_url")
	}
	if c.Blob.RootDir == "" {
		missing = append(missing, "blob.root_dir")
	}
	if len(missing) > 0 {
		return eris.Errorf("config: missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Rules resolves the classification rule set: the override file when
// configured, the built-in defaults otherwise.
func (c *Config) Rules() (classify.Rules, error) {
	if c.Classify.RulesPath == "" {
		return classify.DefaultRules(), nil
	}
	return classify.LoadRules(c.Classify.RulesPath)
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
