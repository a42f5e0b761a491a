package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"
)

var seedCmd = &cli.Command{
	Name:            "seed",
	Usage:           "Load the sample carriers, rates, and surcharge catalog",
	UsageText:       `qctl seed`,
	HideHelpCommand: true,
	Action:          cmdSeed,
}

func cmdSeed(ctx context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)

	res, err := cfg.Store.Seed(ctx)
	if err != nil {
		return fmt.Errorf("seeding store: %w", err)
	}

	slog.Info("seed complete",
		"carriers", res.Carriers,
		"rates", res.Rates,
		"surcharges", res.Surcharges,
		"errors", res.Errors)

	if err := encode(res); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}
