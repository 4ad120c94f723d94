// Package ingest loads monthly GEE CSV exports into measurement records.
// Each dataset ships as one CSV per reporting period with the columns
// zone, indicator, year, month, current, baseline. Empty current/baseline
// cells become nil values, never zero.
package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"landscape-monitor/internal/ingest/gee"
	"landscape-monitor/internal/model"
)

// requiredColumns are the CSV columns every export must carry.
var requiredColumns = []string{"zone", "indicator", "year", "month", "current", "baseline"}

// LoadResult contains everything ingested for one reporting period.
type LoadResult struct {
	Records  []*model.MeasurementRecord            // All records across datasets, dataset order then file order
	Datasets map[string][]*model.MeasurementRecord // Records grouped by dataset
	Missing  []string                              // Datasets with no export for the period
}

// Loader reads the period's exports either from a local directory or from
// an HTTP export bucket. Datasets load in parallel; record classification
// downstream is order-independent, so only grouping is preserved.
type Loader struct {
	dir         string      // Local export directory (used when client is nil)
	client      *gee.Client // Optional HTTP export bucket client
	datasets    []string    // Dataset names to load
	concurrency int         // Parallel dataset loads
	logger      zerolog.Logger
}

// NewLoader creates a Loader for the given datasets. If client is non-nil
// exports are fetched over HTTP, otherwise read from dir.
func NewLoader(dir string, client *gee.Client, datasets []string, concurrency int, logger zerolog.Logger) *Loader {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Loader{
		dir:         dir,
		client:      client,
		datasets:    datasets,
		concurrency: concurrency,
		logger:      logger.With().Str("component", "loader").Logger(),
	}
}

// LoadPeriod loads every configured dataset for one reporting period.
// A missing export is recorded in Missing and the load continues; a
// malformed export fails the whole load.
func (l *Loader) LoadPeriod(ctx context.Context, period model.Period) (*LoadResult, error) {
	l.logger.Info().
		Str("period", period.String()).
		Int("datasets", len(l.datasets)).
		Msg("loading exports for period")

	result := &LoadResult{
		Datasets: make(map[string][]*model.MeasurementRecord, len(l.datasets)),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)

	for _, dataset := range l.datasets {
		dataset := dataset // shadow per iteration; required under go <1.22 loop semantics
		g.Go(func() error {
			records, err := l.loadDataset(gctx, dataset, period)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) || errors.Is(err, gee.ErrExportNotFound) {
					l.logger.Warn().
						Str("dataset", dataset).
						Str("period", period.String()).
						Msg("export missing for period")
					mu.Lock()
					result.Missing = append(result.Missing, dataset)
					mu.Unlock()
					return nil
				}
				return fmt.Errorf("dataset %s: %w", dataset, err)
			}

			mu.Lock()
			result.Datasets[dataset] = records
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Flatten in configured dataset order so downstream output is stable
	// regardless of goroutine completion order.
	for _, dataset := range l.datasets {
		result.Records = append(result.Records, result.Datasets[dataset]...)
	}
	sort.Strings(result.Missing)

	l.logger.Info().
		Int("records", len(result.Records)).
		Int("missing_datasets", len(result.Missing)).
		Msg("period load completed")

	return result, nil
}

// loadDataset reads and parses one dataset export for the period.
func (l *Loader) loadDataset(ctx context.Context, dataset string, period model.Period) ([]*model.MeasurementRecord, error) {
	filename := fmt.Sprintf("%s_%s.csv", dataset, period.FileSuffix())

	var raw []byte
	var err error
	if l.client != nil {
		raw, err = l.client.Fetch(ctx, filename)
	} else {
		raw, err = os.ReadFile(filepath.Join(l.dir, filename))
	}
	if err != nil {
		return nil, err
	}

	records, err := ParseCSV(bytes.NewReader(raw), dataset)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	// Exports occasionally carry trailing months; keep only the requested period.
	filtered := records[:0]
	for _, r := range records {
		if r.Period == period {
			filtered = append(filtered, r)
		}
	}

	l.logger.Debug().
		Str("dataset", dataset).
		Str("filename", filename).
		Int("records", len(filtered)).
		Msg("dataset loaded")

	return filtered, nil
}

// ParseCSV parses one GEE export into measurement records. The header must
// contain the required columns; extra columns are ignored. Empty current
// and baseline cells parse to nil, never to zero.
func ParseCSV(r io.Reader, dataset string) ([]*model.MeasurementRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("export is empty")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Map column names to indices
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	var records []*model.MeasurementRecord
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++

		year, err := strconv.Atoi(strings.TrimSpace(row[index["year"]]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid year %q", line, row[index["year"]])
		}
		month, err := strconv.Atoi(strings.TrimSpace(row[index["month"]]))
		if err != nil || month < 1 || month > 12 {
			return nil, fmt.Errorf("line %d: invalid month %q", line, row[index["month"]])
		}

		current, err := parseOptionalFloat(row[index["current"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid current value %q", line, row[index["current"]])
		}
		baseline, err := parseOptionalFloat(row[index["baseline"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid baseline value %q", line, row[index["baseline"]])
		}

		records = append(records, &model.MeasurementRecord{
			Zone:      strings.TrimSpace(row[index["zone"]]),
			Indicator: strings.TrimSpace(row[index["indicator"]]),
			Period:    model.Period{Year: year, Month: month},
			Current:   current,
			Baseline:  baseline,
			Dataset:   dataset,
		})
	}

	return records, nil
}

// parseOptionalFloat parses a CSV cell into an optional float. Empty cells
// and the literal "null"/"NA" markers some exports emit become nil.
func parseOptionalFloat(cell string) (*float64, error) {
	s := strings.TrimSpace(cell)
	switch strings.ToLower(s) {
	case "", "null", "na", "nan":
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
