// Package csvfile writes the pipeline's two flat-file artifacts: the long
// (one row per aggregate) and wide (one row per sample event) CSV exports.
package csvfile

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/couchcryptid/water-quality-etl/internal/domain"
)

const dateLayout = "2006-01-02"

var longHeader = []string{
	"OrganizationIdentifier",
	"OrganizationFormalName",
	"ActivityConductingOrganizationText",
	"MonitoringLocationIdentifier",
	"ActivityDate",
	"Depth",
	"Month",
	"Year",
	"Variable",
	"Value",
}

var wideKeyHeader = []string{
	"OrganizationIdentifier",
	"OrganizationFormalName",
	"ActivityConductingOrganizationText",
	"MonitoringLocationIdentifier",
	"ActivityDate",
	"Depth",
	"Month",
	"Year",
	"MonitoringLocationName",
	"MonitoringLocationDescriptionText",
	"HUCEightDigitCode",
	"LatitudeMeasure",
	"LongitudeMeasure",
}

// Writer exports pipeline output as CSV files.
type Writer struct {
	logger *slog.Logger
}

// NewWriter creates a CSV exporter.
func NewWriter(logger *slog.Logger) *Writer {
	return &Writer{logger: logger}
}

// WriteLong writes one row per aggregated observation. Missing values are
// empty cells.
func (w *Writer) WriteLong(path string, aggs []domain.AggregatedObservation) error {
	rows := make([][]string, 0, len(aggs))
	for _, a := range aggs {
		rows = append(rows, []string{
			a.Key.OrganizationID,
			a.Key.OrganizationName,
			a.Key.ConductingOrg,
			a.Key.LocationID,
			a.Key.Date.Format(dateLayout),
			formatFloat(a.Key.Depth),
			strconv.Itoa(a.Month),
			strconv.Itoa(a.Year),
			a.Variable,
			formatFloat(a.Value),
		})
	}

	if err := w.writeFile(path, longHeader, rows); err != nil {
		return err
	}
	w.logger.Info("long export written", "path", path, "rows", len(rows))
	return nil
}

// WriteWide writes one row per enriched record with one column per variable,
// in the given variable order. Variables absent for a record and metadata of
// unmatched records are empty cells.
func (w *Writer) WriteWide(path string, records []domain.EnrichedRecord, variables []string) error {
	header := make([]string, 0, len(wideKeyHeader)+len(variables))
	header = append(header, wideKeyHeader...)
	header = append(header, variables...)

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		row := []string{
			r.Key.OrganizationID,
			r.Key.OrganizationName,
			r.Key.ConductingOrg,
			r.Key.LocationID,
			r.Key.Date.Format(dateLayout),
			formatFloat(r.Key.Depth),
			strconv.Itoa(r.Month),
			strconv.Itoa(r.Year),
			r.Site.LocationName,
			r.Site.LocationDescription,
			r.Site.HUC,
			formatFloat(r.Site.Latitude),
			formatFloat(r.Site.Longitude),
		}
		for _, v := range variables {
			row = append(row, formatFloat(r.Values[v]))
		}
		rows = append(rows, row)
	}

	if err := w.writeFile(path, header, rows); err != nil {
		return err
	}
	w.logger.Info("wide export written", "path", path, "rows", len(rows), "variables", len(variables))
	return nil
}

func (w *Writer) writeFile(path string, header []string, rows [][]string) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

// formatFloat renders a Float for CSV: empty when missing, shortest exact
// representation otherwise.
func formatFloat(f domain.Float) string {
	if !f.Valid {
		return ""
	}
	return strconv.FormatFloat(f.Value, 'f', -1, 64)
}
