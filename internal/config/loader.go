// Package config provides configuration management for the landscape monitor.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load reads configuration from the specified YAML file and environment variables.
// Environment variables take precedence over file values.
// Environment variable format: LHM_<SECTION>_<KEY> (e.g., LHM_DATASOURCES_EXPORTS_ENDPOINT)
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults first
	setDefaults(v)

	// Configure environment variable binding
	v.SetEnvPrefix("LHM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Check if config file exists
	if configPath == "" {
		return nil, fmt.Errorf("config file path is required")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	// Set config file
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default values for all configuration options.
func setDefaults(v *viper.Viper) {
	// Datasources defaults
	v.SetDefault("datasources.exports.dir", "./exports")
	v.SetDefault("datasources.exports.timeout", 30*time.Second)
	v.SetDefault("datasources.exports.datasets", []string{
		"ndvi_evi", "fire_burn", "water_ndwi", "climate", "landcover",
	})

	// Analysis defaults
	v.SetDefault("analysis.zones_file", "configs/zones.yaml")
	v.SetDefault("analysis.indicators_file", "configs/indicators.yaml")
	v.SetDefault("analysis.concurrency", 4)

	// Report defaults
	v.SetDefault("report.output_dir", "./reports")
	v.SetDefault("report.formats", []string{"json", "excel", "html"})
	v.SetDefault("report.filename_template", "landscape_report_{{.Period}}")
	v.SetDefault("report.timezone", "Africa/Dar_es_Salaam")
	v.SetDefault("report.prepared_by", "Six Rivers Africa Monitoring Unit")
	v.SetDefault("report.mode", "full")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// HTTP retry defaults
	v.SetDefault("http.retry.max_retries", 3)
	v.SetDefault("http.retry.base_delay", 1*time.Second)
}
