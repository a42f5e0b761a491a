package quote

import (
	"sort"

	"github.com/samber/lo"
)

// weightMismatchPenalty is the fractional surcharge applied to a quote's
// effective cost when the shipment weight falls outside its bracket.
const weightMismatchPenalty = 0.15

// RankByWeightFit is the legacy single-factor ranking: quotes sorted by
// effective cost ascending, where effective cost is the computed total
// with a flat penalty for weight-bracket mismatch. Ties keep input order.
func (e *Engine) RankByWeightFit(quotes []Quote, weightLbs float64) []ScoredQuote {
	scored := lo.Map(quotes, func(q Quote, _ int) ScoredQuote {
		totalCost := e.ComputeTotal(q, weightLbs)

		costPerLb := totalCost
		if weightLbs > 0 {
			costPerLb = totalCost / weightLbs
		}

		penalty := 0.0
		if !withinBracket(q, weightLbs) {
			penalty = weightMismatchPenalty
		}

		return ScoredQuote{
			Quote: q,
			Score: totalCost * (1 + penalty),
			Breakdown: ScoreBreakdown{
				TotalCostUsd:     totalCost,
				CostPerLbUsd:     costPerLb,
				WeightFitPenalty: penalty,
				Currency:         q.Currency,
				BaseAmount:       e.ComputeBase(q, weightLbs),
				FuelPctApplied:   q.FuelPct,
			},
		}
	})

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score < scored[j].Score
	})

	return scored
}

// withinBracket reports whether the shipment weight lies inside the
// quote's inclusive weight bracket. An absent bound is unbounded on that
// side.
func withinBracket(q Quote, weightLbs float64) bool {
	if q.MinWeightLbs != nil && weightLbs < *q.MinWeightLbs {
		return false
	}
	if q.MaxWeightLbs != nil && weightLbs > *q.MaxWeightLbs {
		return false
	}
	return true
}
