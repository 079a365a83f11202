// Package domain models water-quality monitoring records from the Water
// Quality Portal (WQP) and the transforms that turn them into an analysis
// table.
//
// # Data Source
//
// Observations come from the WQP result service
// (https://www.waterqualitydata.us/data/Result/search) in long format: one
// row per reported measurement, with the identifying columns repeated across
// rows belonging to the same sample event. Site metadata comes from the
// station service (/data/Station/search). Both are fetched once per run by
// the wqp adapter.
//
// # Portal Data Conventions
//
// Result values:
//
//	ResultMeasureValue is free text. Besides plain numbers it carries
//	sentinel tokens such as "ND" (not detected), asterisked qualifiers
//	("*Non-detect"), and blanks. [ParseResultValue] coerces anything that
//	is not a valid number to a missing value. It never invents a value and
//	never fails: data-quality remediation (for example substituting half
//	the detection limit for a below-detection result) is an explicit opt-in
//	step, not a default.
//
// Characteristics and sample fractions:
//
//	CharacteristicName identifies what was measured. The portal reports
//	hundreds of characteristics; only the fixed allow-list in
//	[RecognizedCharacteristic] is relevant here, the rest are dropped
//	silently. ResultSampleFractionText distinguishes "Total" from
//	"Dissolved" forms of a constituent and disambiguates characteristics
//	like Phosphate-phosphorus (Dissolved -> TDP, Total -> TP).
//
// Variable merging:
//
//	[MapVariable] intentionally merges characteristics measured by
//	physically distinct methods under one variable name: TSS and SSC both
//	become TSS_mgL, the two dissolved-oxygen characteristics become DO_mgL,
//	the two Kjeldahl characteristics become TKN_mgL, and both
//	nitrate+nitrite characteristics become NO23_mgL. This is a known
//	simplification carried over from the analysis this pipeline reproduces.
//	NormalizedObservation keeps the original characteristic name so the
//	merge stays traceable.
//
// Depth:
//
//	ActivityDepthHeightMeasure is the sample depth in the portal's reported
//	unit. Samples deeper than the configured threshold (default 1) are
//	excluded from aggregation; this analysis is surface-water focused.
//	A row with no reported depth is retained.
//
// # Aggregation and Reshaping
//
// Same-day replicates for one site and variable are collapsed to their
// arithmetic mean by [Aggregate], ignoring missing values; a group with only
// missing values keeps a missing mean. [Pivot] then reshapes the deduplicated
// long rows into one row per sample key with a column per variable, and
// [JoinSiteMetadata] left-joins station metadata without ever dropping or
// fanning out rows.
package domain
