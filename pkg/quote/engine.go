package quote

import (
	"context"
	"log/slog"
)

// RateQuery is the record-store lookup contract. Origin and Destination
// are matched as case-insensitive substrings; an empty Mode matches any.
type RateQuery struct {
	Origin      string
	Destination string
	Mode        Mode
}

// RateSource answers lane/mode/validity-window lookups against the record
// store. Implementations return at most 50 rows.
type RateSource interface {
	QueryRates(ctx context.Context, q RateQuery) ([]RateRow, error)
}

// Options hold the engine configuration resolved once at construction.
// The engine never reads ambient process state at call time.
type Options struct {
	// SurchargesEnabled toggles the generic 2% loading and the ocean/air
	// flat accessorial in the cost model.
	SurchargesEnabled bool
	// DefaultWeights are the composite factor weights used when the caller
	// supplies no policy override.
	DefaultWeights Weights
}

// DefaultOptions returns the engine defaults: surcharges on, built-in
// composite weights.
func DefaultOptions() Options {
	return Options{
		SurchargesEnabled: true,
		DefaultWeights:    DefaultWeights(),
	}
}

// Engine normalizes raw rate rows into priced quotes and ranks them.
// It is stateless and safe for concurrent use.
type Engine struct {
	store  RateSource
	opts   Options
	logger *slog.Logger
}

// New creates an engine over the given rate source. A nil store is valid
// and yields empty results from FetchAndNormalize.
func New(store RateSource, opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.DefaultWeights.Sum() <= 0 {
		opts.DefaultWeights = DefaultWeights()
	}
	return &Engine{
		store:  store,
		opts:   opts,
		logger: logger,
	}
}

// FetchAndNormalize retrieves candidate rate rows for the shipment's lane
// and returns them as canonical quotes. All store failures are absorbed
// here: no connection or a failed lookup yields an empty result, logged,
// never propagated. The caller owns user-facing messaging for the empty
// case.
func (e *Engine) FetchAndNormalize(ctx context.Context, spec ShipmentSpec) []Quote {
	if e.store == nil {
		e.logger.Warn("no record store configured, returning empty rates")
		return []Quote{}
	}

	q := RateQuery{
		Origin:      spec.Origin,
		Destination: spec.Destination,
		Mode:        spec.Mode,
	}

	e.logger.Info("fetching rates",
		"origin", q.Origin,
		"destination", q.Destination,
		"mode", string(q.Mode),
		"weight_lbs", spec.WeightLbs,
	)

	rows, err := e.store.QueryRates(ctx, q)
	if err != nil {
		e.logger.Error("rate lookup failed", "error", err)
		return []Quote{}
	}

	quotes := Normalize(rows)
	e.logger.Info("rates fetched", "count", len(quotes))
	return quotes
}
