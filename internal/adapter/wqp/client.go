// Package wqp fetches result and station records from the Water Quality
// Portal (https://www.waterqualitydata.us) as CSV and maps them onto the
// domain model. One call per run per endpoint; failures are terminal.
package wqp

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/water-quality-etl/internal/domain"
)

// Portal CSV column names. The header map below makes parsing independent of
// column order, which the portal does not guarantee across dataProfile
// versions.
const (
	colOrgID          = "OrganizationIdentifier"
	colOrgName        = "OrganizationFormalName"
	colConductingOrg  = "ActivityConductingOrganizationText"
	colLocationID     = "MonitoringLocationIdentifier"
	colActivityDate   = "ActivityStartDate"
	colDepth          = "ActivityDepthHeightMeasure/MeasureValue"
	colCharacteristic = "CharacteristicName"
	colFraction       = "ResultSampleFractionText"
	colResultValue    = "ResultMeasureValue"
	colQualifier      = "MeasureQualifierCode"
	colDetectionLimit = "DetectionQuantitationLimitMeasure/MeasureValue"

	colLocationName = "MonitoringLocationName"
	colLocationDesc = "MonitoringLocationDescriptionText"
	colHUC          = "HUCEightDigitCode"
	colLatitude     = "LatitudeMeasure"
	colLongitude    = "LongitudeMeasure"
)

const activityDateLayout = "2006-01-02"

// Client fetches observation and station data from the portal.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a portal client. baseURL is the portal root without a
// trailing slash, e.g. "https://www.waterqualitydata.us".
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchObservations retrieves all result rows for the given sites, all time.
func (c *Client) FetchObservations(ctx context.Context, siteIDs []string) ([]domain.Observation, error) {
	body, err := c.get(ctx, "/data/Result/search", siteIDs)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	obs, err := parseObservations(body)
	if err != nil {
		return nil, fmt.Errorf("parse result CSV: %w", err)
	}
	c.logger.Debug("results fetched", "rows", len(obs), "sites", len(siteIDs))
	return obs, nil
}

// FetchSiteMetadata retrieves station metadata for the given sites.
func (c *Client) FetchSiteMetadata(ctx context.Context, siteIDs []string) ([]domain.SiteMetadata, error) {
	body, err := c.get(ctx, "/data/Station/search", siteIDs)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	sites, err := parseStations(body)
	if err != nil {
		return nil, fmt.Errorf("parse station CSV: %w", err)
	}
	c.logger.Debug("stations fetched", "rows", len(sites), "sites", len(siteIDs))
	return sites, nil
}

func (c *Client) get(ctx context.Context, path string, siteIDs []string) (io.ReadCloser, error) {
	params := url.Values{"mimeType": {"csv"}}
	for _, id := range siteIDs {
		params.Add("siteid", id)
	}

	fullURL := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("portal request %s: %w", path, err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		resp.Body.Close()
		return nil, fmt.Errorf("portal API error: %s: status %d: %s", path, resp.StatusCode, body)
	}

	return resp.Body, nil
}

func parseObservations(r io.Reader) ([]domain.Observation, error) {
	rows, idx, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	obs := make([]domain.Observation, 0, len(rows))
	for i, rec := range rows {
		date, err := time.Parse(activityDateLayout, field(rec, idx, colActivityDate))
		if err != nil {
			return nil, fmt.Errorf("row %d: bad activity date: %w", i+2, err)
		}
		obs = append(obs, domain.Observation{
			OrganizationID:   field(rec, idx, colOrgID),
			OrganizationName: field(rec, idx, colOrgName),
			ConductingOrg:    field(rec, idx, colConductingOrg),
			LocationID:       field(rec, idx, colLocationID),
			ActivityDate:     date,
			Depth:            domain.ParseResultValue(field(rec, idx, colDepth)),
			Characteristic:   field(rec, idx, colCharacteristic),
			SampleFraction:   field(rec, idx, colFraction),
			ResultText:       field(rec, idx, colResultValue),
			QualifierCode:    field(rec, idx, colQualifier),
			DetectionLimit:   domain.ParseResultValue(field(rec, idx, colDetectionLimit)),
		})
	}
	return obs, nil
}

func parseStations(r io.Reader) ([]domain.SiteMetadata, error) {
	rows, idx, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	sites := make([]domain.SiteMetadata, 0, len(rows))
	for _, rec := range rows {
		sites = append(sites, domain.SiteMetadata{
			OrganizationID:      field(rec, idx, colOrgID),
			LocationID:          field(rec, idx, colLocationID),
			LocationName:        field(rec, idx, colLocationName),
			LocationDescription: field(rec, idx, colLocationDesc),
			HUC:                 field(rec, idx, colHUC),
			Latitude:            domain.ParseResultValue(field(rec, idx, colLatitude)),
			Longitude:           domain.ParseResultValue(field(rec, idx, colLongitude)),
		})
	}
	return sites, nil
}

// readCSV reads all rows and returns them with a header-name index.
func readCSV(r io.Reader) ([][]string, map[string]int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, errors.New("empty response")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read rows: %w", err)
	}
	return rows, idx, nil
}

// field returns the trimmed value of a named column, or "" when the column
// is absent or the row is short.
func field(rec []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
