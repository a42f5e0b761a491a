package quote

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func nullFloat(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: true}
}

func TestNormalize_PreservesLengthAndOrder(t *testing.T) {
	rows := []RateRow{
		{CarrierID: "a", Origin: "Rotterdam", Destination: "Shanghai", Mode: "ocean"},
		{CarrierID: "b", Origin: "Frankfurt", Destination: "Chicago", Mode: "air"},
		{CarrierID: "c", Origin: "Madrid", Destination: "Paris", Mode: "ltl"},
	}

	quotes := Normalize(rows)
	require.Len(t, quotes, 3)
	assert.Equal(t, "a", quotes[0].CarrierID)
	assert.Equal(t, "b", quotes[1].CarrierID)
	assert.Equal(t, "c", quotes[2].CarrierID)
}

func TestNormalize_ModeCanonicalization(t *testing.T) {
	cases := map[string]Mode{
		"ltl":    ModeLTL,
		"LTL":    ModeLTL,
		"ftl":    ModeFTL,
		"parcel": ModeParcel,
		"Air":    ModeAir,
		"ocean":  ModeOcean,
	}

	for raw, want := range cases {
		quotes := Normalize([]RateRow{{CarrierID: "x", Mode: raw}})
		assert.Equal(t, want, quotes[0].Mode, "raw %q", raw)
	}
}

func TestNormalize_UnknownModeFallsBackToOcean(t *testing.T) {
	for _, raw := range []string{"", "rail", "intermodal", "teleport"} {
		quotes := Normalize([]RateRow{{CarrierID: "x", Mode: raw}})
		assert.Equal(t, ModeFallback, quotes[0].Mode, "raw %q", raw)
	}
}

func TestNormalize_Defaults(t *testing.T) {
	quotes := Normalize([]RateRow{{CarrierID: "x", Mode: "ltl"}})
	q := quotes[0]

	assert.Equal(t, BasisPerShipment, q.ChargeBasis)
	assert.Equal(t, CurrencyDefault, q.Currency)
	assert.Equal(t, 0.0, q.Components.BaseRate)
	assert.Equal(t, 0.0, q.FuelPct)
	assert.Nil(t, q.MinWeightLbs)
	assert.Nil(t, q.MaxWeightLbs)
	assert.Nil(t, q.TransitDays)
	assert.Empty(t, q.CarrierName)
}

func TestNormalize_PassThroughFields(t *testing.T) {
	row := RateRow{
		CarrierID:     "dhl-1",
		CarrierName:   nullStr("DHL"),
		Origin:        "Hamburg",
		Destination:   "Singapore",
		Mode:          "ocean",
		MinWeight:     nullFloat(200),
		MaxWeight:     nullFloat(20000),
		BaseRate:      nullFloat(1450),
		ChargeBasis:   nullStr("per_cbm"),
		FuelSurcharge: nullFloat(8.5),
		Currency:      nullStr("USD"),
		TransitDays:   nullStr("26"),
	}

	q := Normalize([]RateRow{row})[0]
	assert.Equal(t, "DHL", q.CarrierName)
	require.NotNil(t, q.MinWeightLbs)
	assert.Equal(t, 200.0, *q.MinWeightLbs)
	require.NotNil(t, q.MaxWeightLbs)
	assert.Equal(t, 20000.0, *q.MaxWeightLbs)
	assert.Equal(t, 1450.0, q.Components.BaseRate)
	assert.Equal(t, BasisPerCbm, q.ChargeBasis)
	assert.Equal(t, 8.5, q.FuelPct)
	assert.Equal(t, "USD", q.Currency)
	require.NotNil(t, q.TransitDays)
	assert.Equal(t, 26, *q.TransitDays)
}

func TestNormalize_MalformedTransitDegradesToNil(t *testing.T) {
	for _, raw := range []string{"soon", "", "-3", "0", "2.5"} {
		q := Normalize([]RateRow{{CarrierID: "x", Mode: "air", TransitDays: nullStr(raw)}})[0]
		assert.Nil(t, q.TransitDays, "raw %q", raw)
	}
}
