// Package config provides configuration management for the landscape monitor.
package config

import "time"

// Config is the root configuration structure for the landscape monitor.
type Config struct {
	Datasources DatasourcesConfig `mapstructure:"datasources" validate:"required"`
	Analysis    AnalysisConfig    `mapstructure:"analysis"`
	Report      ReportConfig      `mapstructure:"report"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	HTTP        HTTPConfig        `mapstructure:"http"`
}

// DatasourcesConfig contains configurations for data sources.
type DatasourcesConfig struct {
	Exports ExportsConfig `mapstructure:"exports" validate:"required"`
}

// ExportsConfig configures where monthly GEE CSV exports are read from.
// When Endpoint is set the exports are fetched over HTTP; otherwise they
// are read from the local directory.
type ExportsConfig struct {
	Endpoint string        `mapstructure:"endpoint" validate:"omitempty,url"` // Optional HTTP export bucket
	Dir      string        `mapstructure:"dir"`                               // Local export directory
	Timeout  time.Duration `mapstructure:"timeout"`
	Datasets []string      `mapstructure:"datasets" validate:"min=1"` // Dataset names, one CSV each per period
}

// AnalysisConfig contains configurations for the analysis pipeline.
type AnalysisConfig struct {
	ZonesFile      string `mapstructure:"zones_file" validate:"required"`      // Zone registry (sensitivity, obligations)
	IndicatorsFile string `mapstructure:"indicators_file" validate:"required"` // Indicator definitions + threshold rules
	Concurrency    int    `mapstructure:"concurrency" validate:"gte=1,lte=16"` // Parallel dataset loads
}

// ReportConfig contains configurations for report generation.
type ReportConfig struct {
	OutputDir        string   `mapstructure:"output_dir"`
	Formats          []string `mapstructure:"formats" validate:"dive,oneof=json excel html"`
	FilenameTemplate string   `mapstructure:"filename_template"`
	HTMLTemplate     string   `mapstructure:"html_template"` // Optional user template override
	Timezone         string   `mapstructure:"timezone"`
	PreparedBy       string   `mapstructure:"prepared_by"`
	Mode             string   `mapstructure:"mode" validate:"omitempty,oneof=full donor alert"`
}

// LoggingConfig contains configurations for logging.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// HTTPConfig contains HTTP client configurations including retry settings.
type HTTPConfig struct {
	Retry RetryConfig `mapstructure:"retry"`
}

// RetryConfig defines retry behavior for HTTP requests.
type RetryConfig struct {
	MaxRetries int           `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	BaseDelay  time.Duration `mapstructure:"base_delay"`
}
