package quote

import (
	"sort"

	"github.com/samber/lo"
)

const (
	// NeutralScore is the sub-score used when a factor has no usable
	// signal: all costs equal, or no transit data in the batch.
	NeutralScore = 0.5

	reliabilityBase       = 0.5
	reputableCarrierBonus = 0.25
	bracketFitBonus       = 0.15

	// defaultModeRisk is the baseline risk for modes missing from the
	// risk table.
	defaultModeRisk = 0.2
)

// reputableCarriers get a fixed reliability bonus.
var reputableCarriers = map[string]bool{
	"FedEx":       true,
	"UPS":         true,
	"DHL":         true,
	"TForce":      true,
	"XPO":         true,
	"CH Robinson": true,
}

// modeRisk is the baseline risk per transport mode.
var modeRisk = map[Mode]float64{
	ModeAir:    0.1,
	ModeParcel: 0.1,
	ModeLTL:    0.2,
	ModeFTL:    0.15,
	ModeOcean:  0.3,
}

// RankComposite blends cost, time, reliability, and risk into a composite
// score per quote and returns the batch sorted best-first (descending by
// composite). Empty input yields an empty, non-nil slice. Score keeps the
// lower-is-better 1-composite value for backward compatibility; the
// higher-is-better composite lives in the breakdown.
func (e *Engine) RankComposite(quotes []Quote, weightLbs float64, policy *ScoringPolicy) []ScoredQuote {
	if len(quotes) == 0 {
		return []ScoredQuote{}
	}

	totals := lo.Map(quotes, func(q Quote, _ int) float64 {
		return e.ComputeTotal(q, weightLbs)
	})
	minCost := lo.Min(totals)
	maxCost := lo.Max(totals)

	// Quotes without transit data do not affect the range.
	transits := lo.FilterMap(quotes, func(q Quote, _ int) (int, bool) {
		return lo.FromPtr(q.TransitDays), q.TransitDays != nil && *q.TransitDays > 0
	})
	hasTransit := len(transits) > 0
	var minTransit, maxTransit int
	if hasTransit {
		minTransit = lo.Min(transits)
		maxTransit = lo.Max(transits)
	}

	var overrides *WeightOverrides
	if policy != nil {
		overrides = policy.Weights
	}
	weights := e.resolveWeights(overrides)

	scored := lo.Map(quotes, func(q Quote, idx int) ScoredQuote {
		totalCost := totals[idx]
		costPerLb := totalCost
		if weightLbs > 0 {
			costPerLb = totalCost / weightLbs
		}

		costScore := NeutralScore
		if maxCost > minCost {
			costScore = 1 - (totalCost-minCost)/(maxCost-minCost)
		}

		// A quote lacking transit data in a batch that has some is
		// treated as the slowest in the batch.
		timeScore := NeutralScore
		if hasTransit && maxTransit > minTransit {
			t := maxTransit
			if q.TransitDays != nil && *q.TransitDays > 0 {
				t = *q.TransitDays
			}
			timeScore = 1 - float64(t-minTransit)/float64(maxTransit-minTransit)
		}

		reliabilityScore := reliabilityBase
		if reputableCarriers[q.CarrierName] {
			reliabilityScore += reputableCarrierBonus
		}
		inBracket := withinBracket(q, weightLbs)
		if inBracket {
			reliabilityScore += bracketFitBonus
		}
		reliabilityScore = clamp01(reliabilityScore)

		risk, ok := modeRisk[q.Mode]
		if !ok {
			risk = defaultModeRisk
		}
		riskScore := clamp01(1 - risk)

		composite := costScore*weights.Cost +
			timeScore*weights.Time +
			reliabilityScore*weights.Reliability +
			riskScore*weights.Risk

		e.logger.Debug("composite sub-scores",
			"carrier", q.CarrierID,
			"cost", costScore,
			"time", timeScore,
			"reliability", reliabilityScore,
			"risk", riskScore,
			"composite", composite,
		)

		// The bracket mismatch penalty is informational only here; it is
		// reported in the breakdown but not subtracted from the composite.
		penalty := 0.0
		if !inBracket {
			penalty = weightMismatchPenalty
		}

		return ScoredQuote{
			Quote: q,
			Score: 1 - composite,
			Breakdown: ScoreBreakdown{
				TotalCostUsd:     totalCost,
				CostPerLbUsd:     costPerLb,
				WeightFitPenalty: penalty,
				Currency:         q.Currency,
				BaseAmount:       e.ComputeBase(q, weightLbs),
				FuelPctApplied:   q.FuelPct,
				CostScore:        lo.ToPtr(costScore),
				TimeScore:        lo.ToPtr(timeScore),
				ReliabilityScore: lo.ToPtr(reliabilityScore),
				RiskScore:        lo.ToPtr(riskScore),
				CompositeScore:   lo.ToPtr(composite),
				Weights:          lo.ToPtr(weights),
			},
		}
	})

	sort.SliceStable(scored, func(i, j int) bool {
		return *scored[i].Breakdown.CompositeScore > *scored[j].Breakdown.CompositeScore
	})

	return scored
}

// resolveWeights merges caller overrides over the engine defaults and
// normalizes the result to sum to 1. A merged set summing to zero or less
// falls back to the defaults entirely.
func (e *Engine) resolveWeights(o *WeightOverrides) Weights {
	defaults := e.opts.DefaultWeights

	merged := defaults
	if o != nil {
		if o.Cost != nil {
			merged.Cost = *o.Cost
		}
		if o.Time != nil {
			merged.Time = *o.Time
		}
		if o.Reliability != nil {
			merged.Reliability = *o.Reliability
		}
		if o.Risk != nil {
			merged.Risk = *o.Risk
		}
	}

	sum := merged.Sum()
	if sum <= 0 {
		return defaults
	}

	return Weights{
		Cost:        merged.Cost / sum,
		Time:        merged.Time / sum,
		Reliability: merged.Reliability / sum,
		Risk:        merged.Risk / sum,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
