// Package cmd implements CLI commands for the landscape health monitor.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"landscape-monitor/internal/config"
	"landscape-monitor/internal/ingest"
	"landscape-monitor/internal/ingest/gee"
	"landscape-monitor/internal/model"
	"landscape-monitor/internal/report"
	"landscape-monitor/internal/service"
)

// Command flags
var (
	periodFlag     string   // Reporting period (YYYY-MM)
	outputDir      string   // Output directory for reports
	formats        []string // Output formats (json, excel, html)
	zonesPath      string   // Path to zone registry file
	indicatorsPath string   // Path to indicator definitions file
	inputDir       string   // Local export directory override
	modeFlag       string   // Report mode (full, donor, alert)
)

// runCmd represents the run command.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the monthly landscape analysis",
	Long: `Run the complete monthly analysis workflow:
1. Load the period's CSV exports (one per dataset)
2. Review data quality (null rates, missing zones, zero baselines)
3. Compute deviations of current values against seasonal baselines
4. Classify each zone/indicator pair and apply zone escalation
5. Assemble the assessment report and write JSON/Excel/HTML outputs

The exit code reflects the worst finding: 2 when any HIGH alert was
raised, 1 for MODERATE only, 0 for a clean period.

Examples:
  # Analyze the previous calendar month with default config
  lhm run -c config.yaml

  # Analyze a specific period
  lhm run -c config.yaml --period 2024-07

  # Donor brief only, as HTML
  lhm run -c config.yaml --mode donor -f html

  # Read exports from a local directory instead of the configured source
  lhm run -c config.yaml --input ./exports -o ./reports`,
	Run: runAnalysis,
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Define command-specific flags
	runCmd.Flags().StringVar(&periodFlag, "period", "", "reporting period YYYY-MM (default: previous month)")
	runCmd.Flags().StringSliceVarP(&formats, "format", "f", nil, "output formats (json,excel,html), comma-separated")
	runCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory")
	runCmd.Flags().StringVar(&zonesPath, "zones", "", "zone registry file path (default from config)")
	runCmd.Flags().StringVar(&indicatorsPath, "indicators", "", "indicator definitions file path (default from config)")
	runCmd.Flags().StringVar(&inputDir, "input", "", "local export directory (overrides configured source)")
	runCmd.Flags().StringVar(&modeFlag, "mode", "", "report mode (full, donor, alert)")
}

// runAnalysis executes the complete analysis workflow.
func runAnalysis(cmd *cobra.Command, args []string) {
	// Print banner first
	printBanner()

	// Step 1: Load configuration
	configPath := GetConfigFile()
	fmt.Printf("📋 Loading config: %s\n", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		// Use temporary console logger for config loading errors
		tmpLogger := setupLogger("error", "console", cfg)
		tmpLogger.Error().Err(err).Str("path", configPath).Msg("failed to load config")
		fmt.Fprintf(os.Stderr, "❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Step 2: Initialize logger with configuration
	// Command line --log-level overrides config file setting
	logLevel := cfg.Logging.Level
	if GetLogLevel() != "info" { // If explicitly set via command line
		logLevel = GetLogLevel()
	}
	logger := setupLogger(logLevel, cfg.Logging.Format, cfg)
	runCorrelationID := uuid.NewString()
	logger = logger.With().Str("run", runCorrelationID).Logger()
	logger.Debug().
		Str("config_path", configPath).
		Str("log_level", logLevel).
		Str("log_format", cfg.Logging.Format).
		Msg("configuration loaded successfully")

	// Step 3: Load zone registry and indicator definitions
	zonesFile := cfg.Analysis.ZonesFile
	if zonesPath != "" {
		zonesFile = zonesPath
	}
	fmt.Printf("🗺️  Loading zone registry: %s", zonesFile)
	zones, err := config.LoadZones(zonesFile)
	if err != nil {
		logger.Error().Err(err).Str("path", zonesFile).Msg("failed to load zones")
		fmt.Fprintf(os.Stderr, "\n❌ Failed to load zone registry: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf(" (%d zones, %.0f km²)\n", len(zones.Keys()), zones.TotalAreaKm2())

	indicatorsFile := cfg.Analysis.IndicatorsFile
	if indicatorsPath != "" {
		indicatorsFile = indicatorsPath
	}
	fmt.Printf("📊 Loading indicator definitions: %s", indicatorsFile)
	indicators, err := config.LoadIndicators(indicatorsFile)
	if err != nil {
		logger.Error().Err(err).Str("path", indicatorsFile).Msg("failed to load indicators")
		fmt.Fprintf(os.Stderr, "\n❌ Failed to load indicator definitions: %v\n", err)
		os.Exit(1)
	}
	activeCount := config.CountActiveIndicators(indicators)
	fmt.Printf(" (%d active indicators)\n", activeCount)
	logger.Debug().Int("active_indicators", activeCount).Int("total_indicators", len(indicators)).Msg("indicators loaded")

	// Step 4: Determine output settings
	outputFormats := resolveFormats(cfg)
	outputPath := resolveOutputDir(cfg)
	reportMode := resolveMode(cfg)

	// Ensure output directory exists
	if err := os.MkdirAll(outputPath, 0755); err != nil {
		logger.Error().Err(err).Str("path", outputPath).Msg("failed to create output directory")
		fmt.Fprintf(os.Stderr, "❌ Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	// Step 5: Display data source info
	fmt.Println("🔗 Export source:")
	var geeClient *gee.Client
	exportDir := cfg.Datasources.Exports.Dir
	if inputDir != "" {
		exportDir = inputDir
		fmt.Printf("   - Local directory: %s\n", exportDir)
	} else if cfg.Datasources.Exports.Endpoint != "" {
		geeClient = gee.NewClient(&cfg.Datasources.Exports, &cfg.HTTP.Retry, logger)
		fmt.Printf("   - Export bucket: %s\n", cfg.Datasources.Exports.Endpoint)
	} else {
		fmt.Printf("   - Local directory: %s\n", exportDir)
	}
	fmt.Println()

	// Step 6: Assemble the pipeline
	loader := ingest.NewLoader(exportDir, geeClient, cfg.Datasources.Exports.Datasets, cfg.Analysis.Concurrency, logger)
	quality := service.NewQualityChecker(zones, logger)
	calculator := service.NewCalculator(logger)
	classifier, err := service.NewClassifier(zones, indicators, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create classifier")
		fmt.Fprintf(os.Stderr, "❌ Failed to compile threshold rules: %v\n", err)
		os.Exit(1)
	}
	assembler := service.NewAssembler(zones, indicators, logger,
		service.WithVersion(Version),
		service.WithPreparedBy(cfg.Report.PreparedBy))
	analyzer, err := service.NewAnalyzer(cfg.Report.Timezone, loader, quality, calculator, classifier, assembler, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create analyzer")
		fmt.Fprintf(os.Stderr, "❌ Failed to initialize analyzer: %v\n", err)
		os.Exit(1)
	}
	logger.Debug().Msg("pipeline initialized")

	// Step 7: Resolve the reporting period
	var period model.Period
	if periodFlag != "" {
		period, err = model.ParsePeriod(periodFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ Invalid period %q: %v\n", periodFlag, err)
			os.Exit(1)
		}
	} else {
		period = analyzer.DefaultPeriod()
	}

	// Step 8: Execute analysis
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	startTime := time.Now()

	fmt.Printf("⏳ Analyzing period %s...\n", period.String())
	result, err := analyzer.Run(ctx, period)
	if err != nil {
		logger.Error().Err(err).Msg("analysis failed")
		fmt.Fprintf(os.Stderr, "❌ Analysis failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\n📊 Analysis complete!\n")
	printSummary(result)

	fmt.Printf("\n⏱️  Total time %.1fs\n", time.Since(startTime).Seconds())

	// Step 9: Generate reports
	fmt.Println("\n📄 Writing reports:")
	logger.Info().
		Strs("formats", outputFormats).
		Str("output_dir", outputPath).
		Str("mode", reportMode).
		Msg("starting report generation")

	registry := report.NewRegistry(analyzer.GetTimezone(), cfg.Report.HTMLTemplate, report.Mode(reportMode))
	filenameBase := generateFilename(cfg.Report.FilenameTemplate, period)

	for _, format := range outputFormats {
		writer, err := registry.Get(format)
		if err != nil {
			logger.Error().Str("format", format).Msg("unsupported format")
			fmt.Fprintf(os.Stderr, "   ❌ Unsupported format: %s\n", format)
			continue
		}

		reportPath := filepath.Join(outputPath, filenameBase+"."+report.Extension(format))
		if err := writer.Write(result, reportPath); err != nil {
			logger.Error().Err(err).Str("format", format).Str("path", reportPath).Msg("failed to generate report")
			fmt.Fprintf(os.Stderr, "   ❌ %s report failed: %v\n", format, err)
			continue
		}

		logger.Info().Str("format", format).Str("path", reportPath).Msg("report generated successfully")
		fmt.Printf("   ✅ %s\n", reportPath)
	}

	// Exit with appropriate code based on the worst finding
	exitCode := 0
	if result.HasHigh() {
		exitCode = 2
	} else if result.HasModerate() {
		exitCode = 1
	}
	if exitCode > 0 {
		os.Exit(exitCode)
	}
}

// setupLogger creates a zerolog logger with the specified level and format.
// Log timestamps use the report timezone so field logs and report
// artifacts line up.
func setupLogger(level string, format string, cfg *config.Config) zerolog.Logger {
	// Set log level
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	// Load the report timezone for log timestamps
	tzName := "Africa/Dar_es_Salaam"
	if cfg != nil && cfg.Report.Timezone != "" {
		tzName = cfg.Report.Timezone
	}
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		tz = time.Local
	}

	// Set timezone for all timestamps
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().In(tz)
	}

	// Select output format based on configuration
	var output io.Writer
	if format == "json" {
		// JSON format - structured logging for log aggregation systems
		output = os.Stderr
	} else {
		// Console format - human-readable output for development
		output = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05",
			NoColor:    false,
		}
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// printBanner prints the application banner.
func printBanner() {
	fmt.Printf("🛰️  Landscape Health Monitor %s\n", Version)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
}

// printSummary prints the analysis result summary.
func printSummary(result *model.AssessmentReport) {
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	if result.Summary != nil {
		fmt.Printf("   Zones monitored: %d\n", result.Summary.TotalZones)
		fmt.Printf("   Indicators tracked: %d\n", result.Summary.TotalIndicators)
		fmt.Printf("   Vegetation: %s\n", result.Summary.VegetationStatus)
		fmt.Printf("   Skipped records: %d\n", result.Summary.SkippedRecords)
	}
	fmt.Println()
	if result.AlertSummary != nil {
		fmt.Printf("   Total alerts: %d\n", result.AlertSummary.TotalAlerts)
		fmt.Printf("   HIGH: %d\n", result.AlertSummary.HighCount)
		fmt.Printf("   MODERATE: %d\n", result.AlertSummary.ModerateCount)
		if result.AlertSummary.EscalatedCount > 0 {
			fmt.Printf("   Escalated: %d\n", result.AlertSummary.EscalatedCount)
		}
	}
}

// resolveFormats determines the output formats to use.
// Command line flags take precedence over config file.
func resolveFormats(cfg *config.Config) []string {
	if len(formats) > 0 {
		return formats
	}
	if len(cfg.Report.Formats) > 0 {
		return cfg.Report.Formats
	}
	return []string{"json", "excel", "html"} // default
}

// resolveOutputDir determines the output directory to use.
// Command line flags take precedence over config file.
func resolveOutputDir(cfg *config.Config) string {
	if outputDir != "" {
		return outputDir
	}
	if cfg.Report.OutputDir != "" {
		return cfg.Report.OutputDir
	}
	return "./reports" // default
}

// resolveMode determines the report mode to use.
// Command line flags take precedence over config file.
func resolveMode(cfg *config.Config) string {
	if modeFlag != "" {
		return modeFlag
	}
	if cfg.Report.Mode != "" {
		return cfg.Report.Mode
	}
	return string(report.ModeFull)
}

// generateFilename creates a filename from the template.
// Supports the {{.Period}} placeholder for the reporting period.
func generateFilename(template string, period model.Period) string {
	if template == "" {
		template = "landscape_report_{{.Period}}"
	}

	periodStr := period.String()
	filename := strings.ReplaceAll(template, "{{.Period}}", periodStr)
	filename = strings.ReplaceAll(filename, "{{ .Period }}", periodStr)

	return filename
}
