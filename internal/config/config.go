// Package config loads recorder configuration through viper.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// StorageConfig selects and configures the recording library backend.
type StorageConfig struct {
	Type           string `json:"type" mapstructure:"type"`
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
	SqlitePath     string `json:"sqlitePath" mapstructure:"sqlitePath"`
	InMemory       bool   `json:"inMemory" mapstructure:"inMemory"`
}

// Load reads configuration from recorder.cfg.json in configDir and sets
// default values for every key.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")

	// host loop cadence; playback ticks run at this rate
	viper.SetDefault("tick.rateHz", 60)

	// default capture settings for new recordings
	viper.SetDefault("capture.sampleRateHz", 30)
	viper.SetDefault("capture.frameShape", "euler")

	viper.SetDefault("target.modelId", 411)
	viper.SetDefault("target.entityType", "vehicle")

	viper.SetDefault("storage.type", "file")
	viper.SetDefault("storage.outputDir", "./recordings")
	viper.SetDefault("storage.compressOutput", false)
	viper.SetDefault("storage.sqlitePath", "./recordings.db")
	viper.SetDefault("storage.inMemory", false)

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "recorder")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "recorder-metrics")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetConfigName("recorder.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// Storage returns the storage backend configuration.
func Storage() StorageConfig {
	var cfg StorageConfig
	if err := viper.UnmarshalKey("storage", &cfg); err != nil {
		return StorageConfig{Type: "file", OutputDir: "./recordings"}
	}
	return cfg
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
