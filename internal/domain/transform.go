package domain

import (
	"strconv"
	"strings"
)

// belowDetectionQualifiers are the portal qualifier codes that flag a result
// as below the detection or quantitation limit.
var belowDetectionQualifiers = map[string]struct{}{
	"ND": {},
	"U":  {},
	"K":  {},
	"<":  {},
}

// ParseResultValue coerces the portal's free-text measurement field to a
// numeric value. Anything that is not a valid number (sentinels like "ND",
// asterisked qualifiers, blanks) becomes missing. Never an error: the
// coercion is lossy by policy, and no remediation is applied here.
func ParseResultValue(s string) Float {
	s = strings.TrimSpace(s)
	if s == "" {
		return Float{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Float{}
	}
	return NewFloat(v)
}

// NormalizeObservation narrows a raw observation to a NormalizedObservation.
// ok is false when the characteristic is not on the allow-list or the
// (characteristic, fraction) pair has no variable mapping; such rows are
// excluded from all downstream aggregation.
func NormalizeObservation(obs Observation) (NormalizedObservation, bool) {
	if !RecognizedCharacteristic(obs.Characteristic) {
		return NormalizedObservation{}, false
	}
	variable, ok := MapVariable(obs.Characteristic, obs.SampleFraction)
	if !ok {
		return NormalizedObservation{}, false
	}

	return NormalizedObservation{
		Key: SampleKey{
			OrganizationID:   obs.OrganizationID,
			OrganizationName: obs.OrganizationName,
			ConductingOrg:    obs.ConductingOrg,
			LocationID:       obs.LocationID,
			Depth:            obs.Depth,
			Date:             obs.ActivityDate,
		},
		Characteristic: obs.Characteristic,
		SampleFraction: obs.SampleFraction,
		QualifierCode:  obs.QualifierCode,
		DetectionLimit: obs.DetectionLimit,
		Variable:       variable,
		Value:          ParseResultValue(obs.ResultText),
	}, true
}

// SubstituteBelowDetection replaces a missing value with half the detection
// limit when the qualifier marks the result as below detection and a limit
// was reported. Opt-in via config; the default pipeline leaves missing
// values missing. Rows with a present value or no usable limit pass through
// unchanged.
func SubstituteBelowDetection(n NormalizedObservation) NormalizedObservation {
	if n.Value.Valid || !n.DetectionLimit.Valid {
		return n
	}
	if _, ok := belowDetectionQualifiers[strings.TrimSpace(n.QualifierCode)]; !ok {
		return n
	}
	n.Value = NewFloat(n.DetectionLimit.Value / 2)
	return n
}
