package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/lo"
	"github.com/urfave/cli/v3"

	"github.com/ratekit/qctl/pkg/quote"
)

var (
	originFlag = &cli.StringFlag{
		Name:     "origin",
		Usage:    "Shipment origin (substring match, e.g. Rotterdam)",
		Required: true,
	}

	destinationFlag = &cli.StringFlag{
		Name:     "destination",
		Aliases:  []string{"dest"},
		Usage:    "Shipment destination (substring match, e.g. Shanghai)",
		Required: true,
	}

	weightFlag = &cli.FloatFlag{
		Name:     "weight",
		Usage:    "Shipment weight in pounds",
		Required: true,
	}

	modeFlag = &cli.StringFlag{
		Name:  "mode",
		Usage: "Transport mode filter [parcel, LTL, FTL, air, ocean] (optional)",
	}

	topFlag = &cli.IntFlag{
		Name:  "top",
		Usage: "Number of ranked quotes to return",
		Value: 3,
	}

	weightCostFlag = &cli.FloatFlag{
		Name:  "weight-cost",
		Usage: "Composite weight override for cost (optional)",
	}

	weightTimeFlag = &cli.FloatFlag{
		Name:  "weight-time",
		Usage: "Composite weight override for time (optional)",
	}

	weightReliabilityFlag = &cli.FloatFlag{
		Name:  "weight-reliability",
		Usage: "Composite weight override for reliability (optional)",
	}

	weightRiskFlag = &cli.FloatFlag{
		Name:  "weight-risk",
		Usage: "Composite weight override for risk (optional)",
	}

	quoteCmd = &cli.Command{
		Name:            "quote",
		Usage:           "Query, rank, and score freight quotes for a shipment",
		HideHelpCommand: true,
		Commands: []*cli.Command{
			quoteRatesCmd,
			quoteTopCmd,
			quoteScoreCmd,
		},
	}

	quoteRatesCmd = &cli.Command{
		Name:  "rates",
		Usage: "List normalized quotes with base and total cost for a lane",
		UsageText: `qctl quote rates --origin Rotterdam --destination Shanghai --weight 2200
   qctl quote rates --origin Chicago --dest Dallas --weight 800 --mode LTL`,
		HideHelpCommand: true,
		Action:          cmdQuoteRates,
		Flags: []cli.Flag{
			originFlag,
			destinationFlag,
			weightFlag,
			modeFlag,
		},
	}

	quoteTopCmd = &cli.Command{
		Name:  "top",
		Usage: "Rank quotes by cost with weight-bracket fit, cheapest first",
		UsageText: `qctl quote top --origin Rotterdam --destination Shanghai --weight 2200
   qctl quote top --origin Memphis --dest Seattle --weight 40 --mode parcel --top 5`,
		HideHelpCommand: true,
		Action:          cmdQuoteTop,
		Flags: []cli.Flag{
			originFlag,
			destinationFlag,
			weightFlag,
			modeFlag,
			topFlag,
		},
	}

	quoteScoreCmd = &cli.Command{
		Name:  "score",
		Usage: "Score quotes on cost, time, reliability, and risk, best first",
		UsageText: `qctl quote score --origin Rotterdam --destination Shanghai --weight 2200
   qctl quote score --origin Frankfurt --dest Chicago --weight 500 --weight-cost 0.6 --weight-time 0.4`,
		HideHelpCommand: true,
		Action:          cmdQuoteScore,
		Flags: []cli.Flag{
			originFlag,
			destinationFlag,
			weightFlag,
			modeFlag,
			weightCostFlag,
			weightTimeFlag,
			weightReliabilityFlag,
			weightRiskFlag,
		},
	}
)

// ratedQuote is a quote annotated with the costs computed for the
// requested shipment weight.
type ratedQuote struct {
	quote.Quote `yaml:",inline"`
	BaseCost    float64 `json:"base_cost" yaml:"baseCost"`
	TotalCost   float64 `json:"total_cost" yaml:"totalCost"`
}

func shipmentFromFlags(cmd *cli.Command) (quote.ShipmentSpec, error) {
	spec := quote.ShipmentSpec{
		Origin:      cmd.String(originFlag.Name),
		Destination: cmd.String(destinationFlag.Name),
		WeightLbs:   cmd.Float(weightFlag.Name),
	}
	if m := cmd.String(modeFlag.Name); m != "" {
		spec.Mode = quote.NormalizeMode(m)
	}
	if err := spec.Validate(); err != nil {
		return spec, fmt.Errorf("invalid shipment: %w", err)
	}
	return spec, nil
}

func newEngine(cmd *cli.Command) *quote.Engine {
	cfg := getConfig(cmd)
	return quote.New(cfg.Store, cfg.Config.EngineOptions(), slog.Default())
}

func cmdQuoteRates(ctx context.Context, cmd *cli.Command) error {
	spec, err := shipmentFromFlags(cmd)
	if err != nil {
		return err
	}

	e := newEngine(cmd)
	quotes := e.FetchAndNormalize(ctx, spec)

	out := lo.Map(quotes, func(q quote.Quote, _ int) ratedQuote {
		return ratedQuote{
			Quote:     q,
			BaseCost:  e.ComputeBase(q, spec.WeightLbs),
			TotalCost: e.ComputeTotal(q, spec.WeightLbs),
		}
	})

	if err := encode(out); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}

func cmdQuoteTop(ctx context.Context, cmd *cli.Command) error {
	spec, err := shipmentFromFlags(cmd)
	if err != nil {
		return err
	}

	e := newEngine(cmd)
	ranked := e.RankByWeightFit(e.FetchAndNormalize(ctx, spec), spec.WeightLbs)

	if n := int(cmd.Int(topFlag.Name)); n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}

	if err := encode(ranked); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}

func cmdQuoteScore(ctx context.Context, cmd *cli.Command) error {
	spec, err := shipmentFromFlags(cmd)
	if err != nil {
		return err
	}

	e := newEngine(cmd)
	ranked := e.RankComposite(e.FetchAndNormalize(ctx, spec), spec.WeightLbs, policyFromFlags(cmd))

	if err := encode(ranked); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}

func policyFromFlags(cmd *cli.Command) *quote.ScoringPolicy {
	var o quote.WeightOverrides
	if cmd.IsSet(weightCostFlag.Name) {
		o.Cost = lo.ToPtr(cmd.Float(weightCostFlag.Name))
	}
	if cmd.IsSet(weightTimeFlag.Name) {
		o.Time = lo.ToPtr(cmd.Float(weightTimeFlag.Name))
	}
	if cmd.IsSet(weightReliabilityFlag.Name) {
		o.Reliability = lo.ToPtr(cmd.Float(weightReliabilityFlag.Name))
	}
	if cmd.IsSet(weightRiskFlag.Name) {
		o.Risk = lo.ToPtr(cmd.Float(weightRiskFlag.Name))
	}

	if o == (quote.WeightOverrides{}) {
		return nil
	}
	return &quote.ScoringPolicy{Weights: &o}
}
