// Package config loads application configuration from config.yaml and the
// environment, and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/metroplan/tdm-cli/internal/downtown"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig     `yaml:"store" mapstructure:"store"`
	Downtown downtown.Config `yaml:"downtown" mapstructure:"downtown"`
	LISA     LISAConfig      `yaml:"lisa" mapstructure:"lisa"`
	Input    InputConfig     `yaml:"input" mapstructure:"input"`
	Server   ServerConfig    `yaml:"server" mapstructure:"server"`
	Log      LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the result store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// LISAConfig configures the local Moran classifier.
type LISAConfig struct {
	Permutations int   `yaml:"permutations" mapstructure:"permutations"`
	Seed         int64 `yaml:"seed" mapstructure:"seed"`
}

// InputConfig names the default shapefile fields and employment columns.
type InputConfig struct {
	IDField          string `yaml:"id_field" mapstructure:"id_field"`
	PlaceField       string `yaml:"place_field" mapstructure:"place_field"`
	IDColumn         string `yaml:"id_column" mapstructure:"id_column"`
	EmploymentColumn string `yaml:"employment_column" mapstructure:"employment_column"`
}

// ServerConfig configures the results server.
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
	v.SetEnvPrefix("TDM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "tdm.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("lisa.permutations", 999)
	v.SetDefault("lisa.seed", 1)
	v.SetDefault("input.id_field", "MAZ")
	v.SetDefault("input.place_field", "PLACE")
	v.SetDefault("input.id_column", "zone_id")
	v.SetDefault("input.employment_column", "employment")
	v.SetDefault("downtown.min_place_employment", 100)
	v.SetDefault("downtown.significance_level", 0.05)
	v.SetDefault("downtown.area_percentile", 0.90)
	v.SetDefault("downtown.min_cluster_zones", 5)
	v.SetDefault("downtown.min_cluster_employment", 100)
	v.SetDefault("downtown.buffer_distance", 402.25)
	v.SetDefault("downtown.max_hull_iterations", 10)

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
