package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDate = time.Date(2023, 6, 14, 0, 0, 0, 0, time.UTC)

func testObservation(characteristic, fraction, value string) Observation {
	return Observation{
		OrganizationID:   "USGS-WI",
		OrganizationName: "USGS Wisconsin Water Science Center",
		LocationID:       "USGS-05427948",
		ActivityDate:     testDate,
		Characteristic:   characteristic,
		SampleFraction:   fraction,
		ResultText:       value,
	}
}

func TestParseResultValue(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Float
	}{
		{"plain number", "7.2", NewFloat(7.2)},
		{"integer", "12", NewFloat(12)},
		{"leading whitespace", "  0.05 ", NewFloat(0.05)},
		{"negative", "-0.3", NewFloat(-0.3)},
		{"scientific notation", "1.2e-3", NewFloat(0.0012)},
		{"not detected sentinel", "ND", Float{}},
		{"asterisked qualifier", "*Non-detect", Float{}},
		{"blank", "", Float{}},
		{"whitespace only", "   ", Float{}},
		{"free text", "Present below quantification limit", Float{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseResultValue(tt.text))
		})
	}
}

func TestNormalizeObservation(t *testing.T) {
	t.Run("recognized and mapped", func(t *testing.T) {
		obs := testObservation("pH", "", "7.2")
		n, ok := NormalizeObservation(obs)

		require.True(t, ok)
		assert.Equal(t, VarPH, n.Variable)
		assert.Equal(t, NewFloat(7.2), n.Value)
		assert.Equal(t, "pH", n.Characteristic)
		assert.Equal(t, obs.OrganizationID, n.Key.OrganizationID)
		assert.Equal(t, obs.LocationID, n.Key.LocationID)
		assert.Equal(t, testDate, n.Key.Date)
	})

	t.Run("non-numeric value becomes missing, not an error", func(t *testing.T) {
		n, ok := NormalizeObservation(testObservation("pH", "", "ND"))

		require.True(t, ok)
		assert.False(t, n.Value.Valid)
	})

	t.Run("unrecognized characteristic excluded", func(t *testing.T) {
		_, ok := NormalizeObservation(testObservation("Temperature, water", "", "21.5"))
		assert.False(t, ok)
	})

	t.Run("recognized but unmapped pair excluded", func(t *testing.T) {
		_, ok := NormalizeObservation(testObservation("Ammonia", "Total", "0.4"))
		assert.False(t, ok)
	})

	t.Run("depth carried into the sample key", func(t *testing.T) {
		obs := testObservation("pH", "", "7.0")
		obs.Depth = NewFloat(0.5)
		n, ok := NormalizeObservation(obs)

		require.True(t, ok)
		assert.Equal(t, NewFloat(0.5), n.Key.Depth)
	})
}

func TestSubstituteBelowDetection(t *testing.T) {
	base := NormalizedObservation{
		Variable:       VarNH3,
		QualifierCode:  "ND",
		DetectionLimit: NewFloat(0.02),
	}

	t.Run("missing value with limit and qualifier", func(t *testing.T) {
		got := SubstituteBelowDetection(base)
		assert.Equal(t, NewFloat(0.01), got.Value)
	})

	t.Run("present value untouched", func(t *testing.T) {
		n := base
		n.Value = NewFloat(0.5)
		assert.Equal(t, NewFloat(0.5), SubstituteBelowDetection(n).Value)
	})

	t.Run("no detection limit", func(t *testing.T) {
		n := base
		n.DetectionLimit = Float{}
		assert.False(t, SubstituteBelowDetection(n).Value.Valid)
	})

	t.Run("qualifier not a below-detection flag", func(t *testing.T) {
		n := base
		n.QualifierCode = "E" // estimated
		assert.False(t, SubstituteBelowDetection(n).Value.Valid)
	})

	t.Run("qualifier trimmed before matching", func(t *testing.T) {
		n := base
		n.QualifierCode = " ND "
		assert.Equal(t, NewFloat(0.01), SubstituteBelowDetection(n).Value)
	})
}
