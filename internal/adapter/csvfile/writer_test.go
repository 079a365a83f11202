package csvfile

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/water-quality-etl/internal/domain"
)

func testWriter() *Writer {
	return NewWriter(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func readCSVFile(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func sampleKey() domain.SampleKey {
	return domain.SampleKey{
		OrganizationID:   "USGS-WI",
		OrganizationName: "USGS Wisconsin Water Science Center",
		ConductingOrg:    "U.S. Geological Survey",
		LocationID:       "USGS-05427948",
		Depth:            domain.NewFloat(0.5),
		Date:             time.Date(2023, 6, 14, 0, 0, 0, 0, time.UTC),
	}
}

func TestWriter_WriteLong(t *testing.T) {
	path := filepath.Join(t.TempDir(), "long.csv")
	aggs := []domain.AggregatedObservation{
		{Key: sampleKey(), Variable: domain.VarPH, Value: domain.NewFloat(7.3), Month: 6, Year: 2023},
		{Key: sampleKey(), Variable: domain.VarNH3, Value: domain.Float{}, Month: 6, Year: 2023},
	}

	require.NoError(t, testWriter().WriteLong(path, aggs))

	rows := readCSVFile(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, longHeader, rows[0])
	assert.Equal(t, []string{
		"USGS-WI", "USGS Wisconsin Water Science Center", "U.S. Geological Survey",
		"USGS-05427948", "2023-06-14", "0.5", "6", "2023", "pH", "7.3",
	}, rows[1])

	// Missing aggregate renders as an empty cell, never zero.
	assert.Equal(t, "NH3_mgL", rows[2][8])
	assert.Equal(t, "", rows[2][9])
}

func TestWriter_WriteWide(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wide.csv")
	records := []domain.EnrichedRecord{
		{
			WideRecord: domain.WideRecord{
				Key:   sampleKey(),
				Month: 6,
				Year:  2023,
				Values: map[string]domain.Float{
					domain.VarPH:  domain.NewFloat(7.3),
					domain.VarTSS: domain.NewFloat(15),
				},
			},
			Site: domain.SiteMetadata{
				OrganizationID: "USGS-WI",
				LocationID:     "USGS-05427948",
				LocationName:   "PHEASANT BRANCH AT MIDDLETON, WI",
				HUC:            "07090002",
				Latitude:       domain.NewFloat(43.1029),
				Longitude:      domain.NewFloat(-89.5088),
			},
			Matched: true,
		},
	}
	variables := []string{domain.VarTSS, domain.VarDO, domain.VarPH}

	require.NoError(t, testWriter().WriteWide(path, records, variables))

	rows := readCSVFile(t, path)
	require.Len(t, rows, 2)

	wantHeader := append(append([]string{}, wideKeyHeader...), "TSS_mgL", "DO_mgL", "pH")
	assert.Equal(t, wantHeader, rows[0])

	row := rows[1]
	assert.Equal(t, "PHEASANT BRANCH AT MIDDLETON, WI", row[8])
	assert.Equal(t, "43.1029", row[11])
	assert.Equal(t, "15", row[len(row)-3])  // TSS_mgL
	assert.Equal(t, "", row[len(row)-2])    // DO_mgL not observed
	assert.Equal(t, "7.3", row[len(row)-1]) // pH
}

func TestWriter_WriteWide_UnmatchedMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wide.csv")
	records := []domain.EnrichedRecord{
		{
			WideRecord: domain.WideRecord{
				Key:    sampleKey(),
				Month:  6,
				Year:   2023,
				Values: map[string]domain.Float{domain.VarPH: domain.NewFloat(7.3)},
			},
		},
	}

	require.NoError(t, testWriter().WriteWide(path, records, []string{domain.VarPH}))

	rows := readCSVFile(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, "", rows[1][8])  // location name
	assert.Equal(t, "", rows[1][11]) // latitude
}

func TestWriter_CreatesOutputDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "long.csv")
	require.NoError(t, testWriter().WriteLong(path, nil))

	rows := readCSVFile(t, path)
	require.Len(t, rows, 1)
	assert.Equal(t, longHeader, rows[0])
}

func TestWriter_WriteLong_BadPath(t *testing.T) {
	dir := t.TempDir()
	// A directory at the target path makes os.Create fail.
	require.Error(t, testWriter().WriteLong(dir, nil))
}
