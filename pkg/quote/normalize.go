package quote

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// RateRow is the raw shape of a record-store rate row, before
// canonicalization. Column sets vary between stores, so every field that
// can be absent is nullable and coerced with a documented fallback.
type RateRow struct {
	Origin        string
	Destination   string
	Mode          string
	CarrierID     string
	CarrierName   sql.NullString
	MinWeight     sql.NullFloat64
	MaxWeight     sql.NullFloat64
	BaseRate      sql.NullFloat64
	ChargeBasis   sql.NullString
	FuelSurcharge sql.NullFloat64
	Currency      sql.NullString
	TransitDays   sql.NullString
}

// Normalize maps raw rate rows into canonical quotes. The output preserves
// input length and order. Normalization is pure and never rejects a row:
// a malformed numeric field degrades to zero (required fields) or nil
// (optional fields) rather than aborting the batch.
func Normalize(rows []RateRow) []Quote {
	return lo.Map(rows, func(r RateRow, _ int) Quote {
		return Quote{
			CarrierID:    r.CarrierID,
			CarrierName:  r.CarrierName.String,
			Mode:         NormalizeMode(r.Mode),
			Origin:       r.Origin,
			Destination:  r.Destination,
			MinWeightLbs: optionalFloat(r.MinWeight),
			MaxWeightLbs: optionalFloat(r.MaxWeight),
			Components: RateComponents{
				BaseRate: r.BaseRate.Float64,
				// The store schema carries no per-lb component; zero keeps
				// flat/base pricing until one exists.
				RatePerLb: 0,
			},
			TransitDays: coerceTransitDays(r.TransitDays),
			ChargeBasis: normalizeBasis(r.ChargeBasis),
			FuelPct:     r.FuelSurcharge.Float64,
			Currency:    normalizeCurrency(r.Currency),
		}
	})
}

func optionalFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return lo.ToPtr(v.Float64)
}

// coerceTransitDays parses the transit column, which some stores hold as
// text. Un-coercible or non-positive values degrade to nil.
func coerceTransitDays(v sql.NullString) *int {
	if !v.Valid {
		return nil
	}
	d, err := strconv.Atoi(strings.TrimSpace(v.String))
	if err != nil || d <= 0 {
		return nil
	}
	return lo.ToPtr(d)
}

func normalizeBasis(v sql.NullString) ChargeBasis {
	if !v.Valid || strings.TrimSpace(v.String) == "" {
		return BasisPerShipment
	}
	return ChargeBasis(strings.TrimSpace(v.String))
}

func normalizeCurrency(v sql.NullString) string {
	if !v.Valid || strings.TrimSpace(v.String) == "" {
		return CurrencyDefault
	}
	return strings.TrimSpace(v.String)
}
