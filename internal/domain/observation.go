package domain

import "time"

// Float is a float64 that may be missing. The zero value is missing.
// It is comparable, so it can sit inside map keys like SampleKey.
type Float struct {
	Value float64
	Valid bool
}

// NewFloat returns a present Float holding v.
func NewFloat(v float64) Float {
	return Float{Value: v, Valid: true}
}

// Observation is one raw long-format result row as reported by the portal.
// ResultText is kept as text because the portal mixes numbers with sentinel
// tokens; coercion happens in ParseResultValue.
type Observation struct {
	OrganizationID   string
	OrganizationName string
	ConductingOrg    string
	LocationID       string
	ActivityDate     time.Time
	Depth            Float
	Characteristic   string
	SampleFraction   string // "Total", "Dissolved", or empty
	ResultText       string
	QualifierCode    string // e.g. below/above detection limit flags
	DetectionLimit   Float
}

// SampleKey identifies one sample event. It is the grouping key for
// aggregation (together with the variable) and the row key for the wide
// table. ActivityDate values must be bare UTC dates for key equality to
// behave; the wqp adapter guarantees this.
type SampleKey struct {
	OrganizationID   string
	OrganizationName string
	ConductingOrg    string
	LocationID       string
	Depth            Float
	Date             time.Time
}

// NormalizedObservation is an Observation narrowed to a recognized
// characteristic, with the normalized variable name and coerced value.
// Characteristic is retained so merged variables (TSS/SSC etc.) stay
// traceable to their source method.
type NormalizedObservation struct {
	Key            SampleKey
	Characteristic string
	SampleFraction string
	QualifierCode  string
	DetectionLimit Float
	Variable       string
	Value          Float
}

// AggregatedObservation is the per-(sample key, variable) mean of all
// normalized observations sharing that key, with calendar fields derived
// from the sample date.
type AggregatedObservation struct {
	Key      SampleKey
	Variable string
	Value    Float
	Month    int // 1-12
	Year     int
}

// WideRecord is one row of the pivoted table: one sample key, one map entry
// per variable observed for that key.
type WideRecord struct {
	Key    SampleKey
	Month  int
	Year   int
	Values map[string]Float
}

// SiteMetadata is one station row from the portal's station service.
type SiteMetadata struct {
	OrganizationID      string
	LocationID          string
	LocationName        string
	LocationDescription string
	HUC                 string
	Latitude            Float
	Longitude           Float
}

// EnrichedRecord is a WideRecord left-joined with its station metadata.
// Matched is false when no station row was found; the record itself is
// always preserved.
type EnrichedRecord struct {
	WideRecord
	Site    SiteMetadata
	Matched bool
}
