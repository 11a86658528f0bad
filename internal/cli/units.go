package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/panpapadopoulos/cooking/internal/core/units"

	"github.com/urfave/cli/v3"
)

func convertCmd(env *environment) *cli.Command {
	return &cli.Command{
		Name:  "convert",
		Usage: "Convert a quantity to a unit system",
		Flags: []cli.Flag{
			&cli.FloatFlag{
				Name:     "quantity",
				Aliases:  []string{"q"},
				Usage:    "Amount to convert",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "unit",
				Aliases:  []string{"u"},
				Usage:    "Unit or alias, such as cups, γρ or tbsp",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "system",
				Aliases: []string{"s"},
				Value:   string(units.Metric),
				Usage:   "Target system (metric, us, cooking, all)",
			},
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			q := cmd.Float("quantity")
			unit := cmd.String("unit")

			name := strings.ToLower(strings.TrimSpace(cmd.String("system")))
			if name == "all" {
				return writeOutput(env.out, cmd.String("format"), units.AllConversions(&q, unit))
			}
			system, ok := units.ParseSystem(name)
			if !ok {
				return fmt.Errorf("invalid system %q: must be metric, us, cooking or all", name)
			}
			return writeOutput(env.out, cmd.String("format"), units.ConvertIngredient(&q, unit, system))
		},
	}
}

func scaleCmd(env *environment) *cli.Command {
	return &cli.Command{
		Name:  "scale",
		Usage: "Scale a quantity from one serving count to another",
		Flags: []cli.Flag{
			&cli.FloatFlag{
				Name:     "quantity",
				Aliases:  []string{"q"},
				Usage:    "Amount for the base servings",
				Required: true,
			},
			&cli.IntFlag{
				Name:     "from",
				Usage:    "Base servings",
				Required: true,
			},
			&cli.IntFlag{
				Name:     "to",
				Usage:    "Desired servings",
				Required: true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			base, desired := cmd.Int("from"), cmd.Int("to")
			if base <= 0 || desired <= 0 {
				return fmt.Errorf("servings must be positive")
			}
			amount := units.ScaleQuantity(cmd.Float("quantity"), base, desired)
			_, err := fmt.Fprintln(env.out, amount.String())
			return err
		},
	}
}
