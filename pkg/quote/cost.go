package quote

const (
	// kgPerLb converts a shipment weight in pounds to kilograms for
	// per_kg rated quotes.
	kgPerLb = 0.45359237

	// genericSurchargePct is the flat loading applied to every quote when
	// surcharges are enabled.
	genericSurchargePct = 0.02

	// oceanAirAccessorial is the flat fee, in the quote's currency, added
	// to ocean and air quotes when surcharges are enabled.
	oceanAirAccessorial = 75.0
)

// ComputeBase converts the quote's base rate into a monetary amount for
// the given shipment weight, per the quote's charge basis. Volume is not
// modeled yet, so per_cbm behaves as a flat rate. An unknown basis also
// falls back to the flat rate.
func (e *Engine) ComputeBase(q Quote, weightLbs float64) float64 {
	switch q.ChargeBasis {
	case BasisPerLb:
		return q.Components.BaseRate * weightLbs
	case BasisPerKg:
		return q.Components.BaseRate * (weightLbs * kgPerLb)
	case BasisPerShipment, BasisPerCbm:
		return q.Components.BaseRate
	default:
		return q.Components.BaseRate
	}
}

// ComputeTotal is the single source of truth for a quote's total monetary
// cost at the given weight. Both rankers call it rather than re-deriving
// cost. Composition order is load-bearing: fuel first, then the generic
// percentage, then the flat accessorial.
func (e *Engine) ComputeTotal(q Quote, weightLbs float64) float64 {
	total := e.ComputeBase(q, weightLbs)

	fuelFactor := q.FuelPct / 100
	if fuelFactor < 0 {
		fuelFactor = 0
	}
	total *= 1 + fuelFactor

	if e.opts.SurchargesEnabled {
		total *= 1 + genericSurchargePct
		if q.Mode == ModeOcean || q.Mode == ModeAir {
			total += oceanAirAccessorial
		}
	}

	return total
}
