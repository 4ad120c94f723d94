// Package excel provides Excel report generation for the landscape
// monitor. It implements the report.ReportWriter interface to generate
// .xlsx workbooks with the monthly assessment: overview, per-zone
// indicator tables, and the combined alert list with recommendations.
package excel

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"landscape-monitor/internal/model"
)

// Mode mirrors report.Mode without importing the parent package.
type Mode string

const (
	ModeFull  Mode = "full"
	ModeDonor Mode = "donor"
	ModeAlert Mode = "alert"
)

const (
	// Sheet names
	sheetOverview = "Overview"
	sheetZones    = "Zone Assessments"
	sheetAlerts   = "Alerts"

	// Default sheet to remove
	defaultSheet = "Sheet1"

	// Colors for conditional formatting (RGB without #)
	colorModerateBg = "FFEB9C" // Yellow background for MODERATE
	colorModerateFg = "9C6500" // Dark yellow text for MODERATE
	colorHighBg     = "FFC7CE" // Red background for HIGH
	colorHighFg     = "9C0006" // Dark red text for HIGH
	colorHeaderBg   = "4472C4" // Blue background for header
	colorHeaderFg   = "FFFFFF" // White text for header
	colorNormalBg   = "C6EFCE" // Green background for NORMAL
	colorNormalFg   = "006100" // Dark green text for NORMAL

	// Column widths
	defaultColWidth = 15.0
	wideColWidth    = 45.0
	narrowColWidth  = 10.0
)

// Writer implements report.ReportWriter for Excel format.
type Writer struct {
	timezone *time.Location
	mode     Mode
}

// NewWriter creates a new Excel report writer.
// If timezone is nil, it defaults to Africa/Dar_es_Salaam.
func NewWriter(timezone *time.Location, mode Mode) *Writer {
	if timezone == nil {
		timezone, _ = time.LoadLocation("Africa/Dar_es_Salaam")
	}
	if mode == "" {
		mode = ModeFull
	}
	return &Writer{
		timezone: timezone,
		mode:     mode,
	}
}

// Format returns the format identifier for this writer.
func (w *Writer) Format() string {
	return "excel"
}

// Write generates an Excel workbook from the assessment report.
func (w *Writer) Write(report *model.AssessmentReport, outputPath string) error {
	if report == nil {
		return fmt.Errorf("assessment report is nil")
	}

	// Ensure output path has .xlsx extension
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath = outputPath + ".xlsx"
	}

	// Create new Excel file
	f := excelize.NewFile()
	defer f.Close()

	firstSheet := sheetAlerts

	if w.mode != ModeAlert {
		if err := w.createOverviewSheet(f, report); err != nil {
			return fmt.Errorf("failed to create overview sheet: %w", err)
		}
		firstSheet = sheetOverview
	}

	if w.mode == ModeFull {
		if err := w.createZonesSheet(f, report); err != nil {
			return fmt.Errorf("failed to create zone assessments sheet: %w", err)
		}
	}

	if err := w.createAlertsSheet(f, report); err != nil {
		return fmt.Errorf("failed to create alerts sheet: %w", err)
	}

	// Remove default Sheet1
	f.DeleteSheet(defaultSheet)

	// Set active sheet to the first rendered sheet
	idx, _ := f.GetSheetIndex(firstSheet)
	f.SetActiveSheet(idx)

	// Save the file
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}

	return nil
}

// createOverviewSheet creates the landscape overview worksheet.
func (w *Writer) createOverviewSheet(f *excelize.File, report *model.AssessmentReport) error {
	// Create sheet
	idx, err := f.NewSheet(sheetOverview)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)

	// Create title style
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 18,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return err
	}

	// Create label style
	labelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Size:  12,
			Color: colorHeaderFg,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{colorHeaderBg},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "left",
			Vertical:   "center",
		},
	})
	if err != nil {
		return err
	}

	// Create value style
	valueStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size: 12,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "left",
			Vertical:   "center",
		},
	})
	if err != nil {
		return err
	}

	// Set column widths
	f.SetColWidth(sheetOverview, "A", "A", 26)
	f.SetColWidth(sheetOverview, "B", "B", 60)

	// Title
	f.MergeCell(sheetOverview, "A1", "B1")
	f.SetCellValue(sheetOverview, "A1", "Landscape Health Assessment — "+report.Period.DisplayName())
	f.SetCellStyle(sheetOverview, "A1", "B1", titleStyle)
	f.SetRowHeight(sheetOverview, 1, 30)

	// Overview data
	overviewData := []struct {
		label string
		value interface{}
	}{
		{"Reporting Period", report.Period.String()},
		{"Generated At", report.GeneratedAt.In(w.timezone).Format("2006-01-02 15:04:05")},
		{"Run ID", report.RunID},
		{"Prepared By", report.PreparedBy},
		{"Landscape Status", report.Summary.VegetationStatus},
		{"Zones Monitored", report.Summary.TotalZones},
		{"Indicators Tracked", report.Summary.TotalIndicators},
		{"Monitored Area (km²)", report.Summary.TotalAreaKm2},
		{"HIGH Alerts", report.Summary.HighCount},
		{"MODERATE Alerts", report.Summary.ModerateCount},
		{"Skipped Records", report.Summary.SkippedRecords},
		{"Boundary Status", string(report.BoundaryStatus)},
		{"Analysis CRS", report.CRS},
	}

	if report.Version != "" {
		overviewData = append(overviewData, struct {
			label string
			value interface{}
		}{"Tool Version", report.Version})
	}

	// Write overview data
	for i, item := range overviewData {
		row := i + 3 // Start from row 3
		f.SetCellValue(sheetOverview, fmt.Sprintf("A%d", row), item.label)
		f.SetCellValue(sheetOverview, fmt.Sprintf("B%d", row), item.value)
		f.SetCellStyle(sheetOverview, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
		f.SetCellStyle(sheetOverview, fmt.Sprintf("B%d", row), fmt.Sprintf("B%d", row), valueStyle)
		f.SetRowHeight(sheetOverview, row, 22)
	}

	// Executive summary below the table
	summaryRow := len(overviewData) + 4
	f.MergeCell(sheetOverview, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("B%d", summaryRow))
	f.SetCellValue(sheetOverview, fmt.Sprintf("A%d", summaryRow), report.ExecutiveSummary)
	f.SetRowHeight(sheetOverview, summaryRow, 40)

	// Data-quality findings in full mode only
	if w.mode == ModeFull && len(report.Quality) > 0 {
		qRow := summaryRow + 2
		f.SetCellValue(sheetOverview, fmt.Sprintf("A%d", qRow), "Data Quality")
		f.SetCellStyle(sheetOverview, fmt.Sprintf("A%d", qRow), fmt.Sprintf("A%d", qRow), labelStyle)
		for i, finding := range report.Quality {
			row := qRow + 1 + i
			note := string(finding.Status)
			if finding.Note != "" {
				note += " — " + finding.Note
			}
			f.SetCellValue(sheetOverview, fmt.Sprintf("A%d", row), finding.Dataset)
			f.SetCellValue(sheetOverview, fmt.Sprintf("B%d", row), note)
		}
	}

	return nil
}

// createZonesSheet creates the per-zone indicator table worksheet.
func (w *Writer) createZonesSheet(f *excelize.File, report *model.AssessmentReport) error {
	// Create sheet
	_, err := f.NewSheet(sheetZones)
	if err != nil {
		return err
	}

	// Create styles
	headerStyle, err := w.createHeaderStyle(f)
	if err != nil {
		return err
	}
	severityStyles, err := w.createSeverityStyles(f)
	if err != nil {
		return err
	}

	// Define headers
	headers := []string{
		"Zone", "Indicator", "Current", "Baseline", "Deviation", "Severity", "Detail",
	}

	// Write headers
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetZones, cell, header)
		f.SetCellStyle(sheetZones, cell, cell, headerStyle)
	}

	// Set column widths
	f.SetColWidth(sheetZones, "A", "B", 22)
	f.SetColWidth(sheetZones, "C", "F", defaultColWidth)
	f.SetColWidth(sheetZones, "G", "G", wideColWidth)

	// Freeze header row
	f.SetPanes(sheetZones, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	})

	// Write one row per zone × indicator
	row := 2
	for _, zone := range report.Zones {
		for _, r := range zone.Rows {
			f.SetCellValue(sheetZones, fmt.Sprintf("A%d", row), zone.ZoneName)
			f.SetCellValue(sheetZones, fmt.Sprintf("B%d", row), r.DisplayName)
			f.SetCellValue(sheetZones, fmt.Sprintf("C%d", row), formatOptional(r.Current))
			f.SetCellValue(sheetZones, fmt.Sprintf("D%d", row), formatOptional(r.Baseline))
			f.SetCellValue(sheetZones, fmt.Sprintf("E%d", row), r.Deviation.Display())
			f.SetCellValue(sheetZones, fmt.Sprintf("F%d", row), string(r.Severity))
			f.SetCellValue(sheetZones, fmt.Sprintf("G%d", row), r.Detail)

			// Color the severity cell
			if style, ok := severityStyles[r.Severity]; ok {
				f.SetCellStyle(sheetZones, fmt.Sprintf("F%d", row), fmt.Sprintf("F%d", row), style)
			}
			row++
		}
	}

	return nil
}

// createAlertsSheet creates the combined alert list worksheet, sorted HIGH
// before MODERATE with recommendations below.
func (w *Writer) createAlertsSheet(f *excelize.File, report *model.AssessmentReport) error {
	// Create sheet
	_, err := f.NewSheet(sheetAlerts)
	if err != nil {
		return err
	}

	// Create styles
	headerStyle, err := w.createHeaderStyle(f)
	if err != nil {
		return err
	}
	severityStyles, err := w.createSeverityStyles(f)
	if err != nil {
		return err
	}

	// Define headers
	headers := []string{
		"Zone", "Indicator", "Severity", "Deviation", "Detail", "Obligation",
	}

	// Write headers
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetAlerts, cell, header)
		f.SetCellStyle(sheetAlerts, cell, cell, headerStyle)
	}

	// Set column widths
	f.SetColWidth(sheetAlerts, "A", "B", 22)
	f.SetColWidth(sheetAlerts, "C", "D", narrowColWidth)
	f.SetColWidth(sheetAlerts, "E", "F", wideColWidth)

	// Freeze header row
	f.SetPanes(sheetAlerts, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	})

	row := 2
	if len(report.Alerts) == 0 {
		// Explicit marker, never an empty sheet
		f.MergeCell(sheetAlerts, "A2", "F2")
		f.SetCellValue(sheetAlerts, "A2", "No active alerts this reporting cycle.")
		row = 3
	}

	for _, alert := range report.Alerts {
		deviation := ""
		if alert.Deviation != nil {
			dev := model.KnownDeviation(*alert.Deviation)
			deviation = dev.Display()
		}

		f.SetCellValue(sheetAlerts, fmt.Sprintf("A%d", row), alert.ZoneName)
		f.SetCellValue(sheetAlerts, fmt.Sprintf("B%d", row), alert.IndicatorDisplay)
		f.SetCellValue(sheetAlerts, fmt.Sprintf("C%d", row), string(alert.Severity))
		f.SetCellValue(sheetAlerts, fmt.Sprintf("D%d", row), deviation)
		f.SetCellValue(sheetAlerts, fmt.Sprintf("E%d", row), alert.Detail)
		f.SetCellValue(sheetAlerts, fmt.Sprintf("F%d", row), alert.ObligationNote)

		if style, ok := severityStyles[alert.Severity]; ok {
			f.SetCellStyle(sheetAlerts, fmt.Sprintf("C%d", row), fmt.Sprintf("C%d", row), style)
		}
		row++
	}

	// Recommendations block
	if len(report.Recommendations) > 0 {
		row++
		f.SetCellValue(sheetAlerts, fmt.Sprintf("A%d", row), "Recommendations")
		f.SetCellStyle(sheetAlerts, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), headerStyle)
		row++
		for _, rec := range report.Recommendations {
			f.SetCellValue(sheetAlerts, fmt.Sprintf("A%d", row), rec.ZoneName)
			f.SetCellValue(sheetAlerts, fmt.Sprintf("B%d", row), rec.Indicator)
			f.SetCellValue(sheetAlerts, fmt.Sprintf("C%d", row), string(rec.Audience))
			f.MergeCell(sheetAlerts, fmt.Sprintf("D%d", row), fmt.Sprintf("F%d", row))
			f.SetCellValue(sheetAlerts, fmt.Sprintf("D%d", row), rec.Action)
			row++
		}
	}

	return nil
}

// createHeaderStyle creates the shared table header style.
func (w *Writer) createHeaderStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Size:  12,
			Color: colorHeaderFg,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{colorHeaderBg},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
}

// createSeverityStyles creates the severity-colored cell styles.
func (w *Writer) createSeverityStyles(f *excelize.File) (map[model.Severity]int, error) {
	styles := make(map[model.Severity]int, 3)

	specs := []struct {
		severity model.Severity
		bg       string
		fg       string
	}{
		{model.SeverityHigh, colorHighBg, colorHighFg},
		{model.SeverityModerate, colorModerateBg, colorModerateFg},
		{model.SeverityNormal, colorNormalBg, colorNormalFg},
	}

	for _, spec := range specs {
		style, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{
				Bold:  true,
				Color: spec.fg,
			},
			Fill: excelize.Fill{
				Type:    "pattern",
				Color:   []string{spec.bg},
				Pattern: 1,
			},
			Alignment: &excelize.Alignment{
				Horizontal: "center",
				Vertical:   "center",
			},
		})
		if err != nil {
			return nil, err
		}
		styles[spec.severity] = style
	}

	return styles, nil
}

// formatOptional renders an optional measurement value for a cell.
func formatOptional(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.4g", *v)
}
