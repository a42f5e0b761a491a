package quote

import (
	"errors"
	"strings"
)

// Mode is a canonical transport mode.
type Mode string

const (
	ModeParcel Mode = "parcel"
	ModeLTL    Mode = "LTL"
	ModeFTL    Mode = "FTL"
	ModeAir    Mode = "air"
	ModeOcean  Mode = "ocean"

	// ModeFallback is substituted for unrecognized raw mode values.
	// Unknown modes are never rejected; they degrade to ocean.
	ModeFallback = ModeOcean
)

// ChargeBasis is the unit a carrier's base rate is denominated in.
type ChargeBasis string

const (
	BasisPerShipment ChargeBasis = "per_shipment"
	BasisPerKg       ChargeBasis = "per_kg"
	BasisPerLb       ChargeBasis = "per_lb"
	BasisPerCbm      ChargeBasis = "per_cbm"
)

// CurrencyDefault is used when a rate row carries no currency label.
const CurrencyDefault = "EUR"

// ParseMode canonicalizes a raw mode value. The second return is false
// when the value is not a recognized mode.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "parcel":
		return ModeParcel, true
	case "ltl":
		return ModeLTL, true
	case "ftl":
		return ModeFTL, true
	case "air":
		return ModeAir, true
	case "ocean":
		return ModeOcean, true
	}
	return "", false
}

// NormalizeMode canonicalizes a raw mode value, substituting ModeFallback
// for anything unrecognized.
func NormalizeMode(s string) Mode {
	if m, ok := ParseMode(s); ok {
		return m
	}
	return ModeFallback
}

// ShipmentSpec describes a single quoting request. Constructed per request,
// never stored.
type ShipmentSpec struct {
	Origin      string  `json:"origin" yaml:"origin"`
	Destination string  `json:"destination" yaml:"destination"`
	WeightLbs   float64 `json:"weight_lbs" yaml:"weightLbs"`
	// Mode is optional; empty means any mode.
	Mode Mode `json:"mode,omitempty" yaml:"mode,omitempty"`
}

// Validate checks the minimal caller input contract.
func (s ShipmentSpec) Validate() error {
	if len(strings.TrimSpace(s.Origin)) < 2 {
		return errors.New("origin must be at least 2 characters")
	}
	if len(strings.TrimSpace(s.Destination)) < 2 {
		return errors.New("destination must be at least 2 characters")
	}
	if s.WeightLbs <= 0 {
		return errors.New("weight must be positive")
	}
	return nil
}

// RateComponents holds the priced parts of a rate row.
type RateComponents struct {
	BaseRate  float64 `json:"base_rate" yaml:"baseRate"`
	RatePerLb float64 `json:"rate_per_lb" yaml:"ratePerLb"`
}

// Quote is a priced carrier offer for a lane. Quotes are constructed fresh
// by each normalization pass and never mutated afterwards.
type Quote struct {
	CarrierID    string         `json:"carrier_id" yaml:"carrierId"`
	CarrierName  string         `json:"carrier_name,omitempty" yaml:"carrierName,omitempty"`
	Mode         Mode           `json:"mode" yaml:"mode"`
	Origin       string         `json:"origin" yaml:"origin"`
	Destination  string         `json:"destination" yaml:"destination"`
	MinWeightLbs *float64       `json:"min_weight_lbs,omitempty" yaml:"minWeightLbs,omitempty"`
	MaxWeightLbs *float64       `json:"max_weight_lbs,omitempty" yaml:"maxWeightLbs,omitempty"`
	Components   RateComponents `json:"components" yaml:"components"`
	TransitDays  *int           `json:"transit_days,omitempty" yaml:"transitDays,omitempty"`
	ChargeBasis  ChargeBasis    `json:"charge_basis" yaml:"chargeBasis"`
	FuelPct      float64        `json:"fuel_pct,omitempty" yaml:"fuelPct,omitempty"`
	Currency     string         `json:"currency" yaml:"currency"`
}

// ScoreBreakdown exposes the sub-computations behind a quote's score.
// The composite-only fields are nil for the weight-fit ranker.
type ScoreBreakdown struct {
	TotalCostUsd     float64  `json:"total_cost_usd" yaml:"totalCostUsd"`
	CostPerLbUsd     float64  `json:"cost_per_lb_usd" yaml:"costPerLbUsd"`
	WeightFitPenalty float64  `json:"weight_fit_penalty" yaml:"weightFitPenalty"`
	Currency         string   `json:"currency,omitempty" yaml:"currency,omitempty"`
	BaseAmount       float64  `json:"base_amount,omitempty" yaml:"baseAmount,omitempty"`
	FuelPctApplied   float64  `json:"fuel_pct_applied,omitempty" yaml:"fuelPctApplied,omitempty"`
	CostScore        *float64 `json:"cost_score,omitempty" yaml:"costScore,omitempty"`
	TimeScore        *float64 `json:"time_score,omitempty" yaml:"timeScore,omitempty"`
	ReliabilityScore *float64 `json:"reliability_score,omitempty" yaml:"reliabilityScore,omitempty"`
	RiskScore        *float64 `json:"risk_score,omitempty" yaml:"riskScore,omitempty"`
	CompositeScore   *float64 `json:"composite_score,omitempty" yaml:"compositeScore,omitempty"`
	Weights          *Weights `json:"weights,omitempty" yaml:"weights,omitempty"`
}

// ScoredQuote is a Quote plus its ranking score. Score is lower-is-better
// for both rankers: the weight-fit ranker scores in currency units, the
// composite ranker scores 1-composite.
type ScoredQuote struct {
	Quote     `yaml:",inline"`
	Score     float64        `json:"score" yaml:"score"`
	Breakdown ScoreBreakdown `json:"breakdown" yaml:"breakdown"`
}

// Weights define the relative importance of the composite scoring factors.
type Weights struct {
	Cost        float64 `json:"cost" yaml:"cost"`
	Time        float64 `json:"time" yaml:"time"`
	Reliability float64 `json:"reliability" yaml:"reliability"`
	Risk        float64 `json:"risk" yaml:"risk"`
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Cost + w.Time + w.Reliability + w.Risk
}

// DefaultWeights returns the built-in composite weight distribution.
func DefaultWeights() Weights {
	return Weights{
		Cost:        0.35,
		Time:        0.25,
		Reliability: 0.30,
		Risk:        0.10,
	}
}

// WeightOverrides lets a caller override any subset of the default
// composite weights. Nil fields keep the default for that factor.
type WeightOverrides struct {
	Cost        *float64 `json:"cost,omitempty" yaml:"cost,omitempty"`
	Time        *float64 `json:"time,omitempty" yaml:"time,omitempty"`
	Reliability *float64 `json:"reliability,omitempty" yaml:"reliability,omitempty"`
	Risk        *float64 `json:"risk,omitempty" yaml:"risk,omitempty"`
}

// ScoringPolicy is an optional caller override for the composite ranker.
// MaxTransitDays and PreferredCarriers are accepted but reserved for future
// constraint enforcement; the engine does not filter on them yet.
type ScoringPolicy struct {
	Weights           *WeightOverrides `json:"weights,omitempty" yaml:"weights,omitempty"`
	MaxTransitDays    *int             `json:"max_transit_days,omitempty" yaml:"maxTransitDays,omitempty"`
	PreferredCarriers []string         `json:"preferred_carriers,omitempty" yaml:"preferredCarriers,omitempty"`
}
