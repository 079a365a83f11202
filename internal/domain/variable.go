package domain

// Normalized variable names. Units are baked into the names the same way the
// exported analysis table spells them.
const (
	VarPH              = "pH"
	VarTSS             = "TSS_mgL"
	VarDO              = "DO_mgL"
	VarTKN             = "TKN_mgL"
	VarNH3             = "NH3_mgL"
	VarNO23            = "NO23_mgL"
	VarOrthophosphate  = "Orthophosphate_mgL"
	VarTDP             = "TDP_mgL"
	VarTP              = "TP_mgL"
	VarChlProbe        = "Chl_probe_RFU"
	VarChlaUncorrected = "Chla_uncorrected_ugL"
)

// recognizedCharacteristics is the fixed allow-list of portal characteristic
// names this analysis cares about. Everything else the portal reports is
// dropped before normalization. Turbidity and phytoplankton chlorophyll are
// recognized but carry no variable mapping, so they are excluded downstream.
var recognizedCharacteristics = map[string]struct{}{
	"pH":                                      {},
	"Total suspended solids":                  {},
	"Suspended Sediment Concentration (SSC)":  {},
	"Turbidity":                               {},
	"Dissolved oxygen (DO)":                   {},
	"Dissolved oxygen saturation":             {},
	"Kjeldahl nitrogen":                       {},
	"Total Kjeldahl nitrogen (Organic N & NH3)":   {},
	"Ammonia":                                     {},
	"Nitrate + Nitrite":                           {},
	"Inorganic nitrogen (nitrate and nitrite)":    {},
	"Orthophosphate":                              {},
	"Phosphate-phosphorus":                        {},
	"Chlorophyll a (probe relative fluorescence)": {},
	"Chlorophyll a, uncorrected for pheophytin":   {},
	"Chlorophyll a - Phytoplankton (suspended)":   {},
}

// RecognizedCharacteristic reports whether the characteristic is on the
// allow-list. The filter is idempotent: re-filtering filtered data is a
// no-op.
func RecognizedCharacteristic(name string) bool {
	_, ok := recognizedCharacteristics[name]
	return ok
}

// MapVariable maps a (characteristic, sample fraction) pair to its normalized
// variable name. ok is false when the pair is intentionally excluded, e.g.
// Ammonia/Total, non-Dissolved/non-Total Phosphate-phosphorus, and the
// recognized-but-unmapped characteristics.
//
// Characteristics measured by distinct methods deliberately share a target
// variable (TSS and SSC, the two DO characteristics, the two TKN
// characteristics, the two NO23 characteristics). See the package doc.
func MapVariable(characteristic, fraction string) (string, bool) {
	switch characteristic {
	case "pH":
		return VarPH, true
	case "Total suspended solids", "Suspended Sediment Concentration (SSC)":
		return VarTSS, true
	case "Dissolved oxygen (DO)", "Dissolved oxygen saturation":
		return VarDO, true
	case "Kjeldahl nitrogen", "Total Kjeldahl nitrogen (Organic N & NH3)":
		return VarTKN, true
	case "Ammonia":
		if fraction == "Dissolved" {
			return VarNH3, true
		}
		return "", false
	case "Nitrate + Nitrite", "Inorganic nitrogen (nitrate and nitrite)":
		return VarNO23, true
	case "Orthophosphate":
		return VarOrthophosphate, true
	case "Phosphate-phosphorus":
		switch fraction {
		case "Dissolved":
			return VarTDP, true
		case "Total":
			return VarTP, true
		}
		return "", false
	case "Chlorophyll a (probe relative fluorescence)":
		return VarChlProbe, true
	case "Chlorophyll a, uncorrected for pheophytin":
		return VarChlaUncorrected, true
	}
	return "", false
}
