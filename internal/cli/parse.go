package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/panpapadopoulos/cooking/internal/app"
	"github.com/panpapadopoulos/cooking/internal/core/ai"
	"github.com/panpapadopoulos/cooking/internal/core/language"
	"github.com/panpapadopoulos/cooking/internal/core/parser"

	"github.com/urfave/cli/v3"
)

func parseCmd(env *environment) *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Structure recipe text from a file or stdin",
		ArgsUsage: "[FILE]",
		Description: `Reads free-form recipe text and prints the structured recipe.

The Gemini model is used when GEMINI_API_KEY is set; otherwise, or when the
model fails, the heuristic parser answers and a warning says why.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "language",
				Aliases: []string{"l"},
				Value:   string(language.Auto),
				Usage:   "Language of the text (auto, el, en)",
			},
			&cli.BoolFlag{
				Name:  "heuristic",
				Usage: "Skip the model and use the heuristic parser only",
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Save the parsed recipe to the collection",
			},
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			hint, ok := language.ParseHint(cmd.String("language"))
			if !ok {
				return fmt.Errorf("invalid language %q: must be auto, el or en", cmd.String("language"))
			}

			data, err := readInput(cmd.Args().First(), env.in)
			if err != nil {
				return err
			}
			text := string(data)
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("no recipe text given")
			}

			if cmd.Bool("heuristic") && !cmd.Bool("save") {
				r := parser.Default().ParseText(text, hint)
				return writeOutput(env.out, cmd.String("format"), &ai.Result{Recipe: r, Parser: parser.Name, Warnings: []ai.Advisory{}})
			}

			return env.withApp(ctx, cmd, func(a *app.App) error {
				var res *ai.Result
				if cmd.Bool("heuristic") {
					r := parser.New(a.Registry).ParseText(text, hint)
					res = &ai.Result{Recipe: r, Parser: parser.Name, Warnings: []ai.Advisory{}}
				} else {
					var err error
					res, err = a.AI.SmartParse(ctx, text, hint)
					if err != nil {
						return err
					}
				}

				if cmd.Bool("save") {
					saved, err := a.Recipes.Save(ctx, res.Recipe)
					if err != nil {
						return fmt.Errorf("failed to save recipe: %w", err)
					}
					res.Recipe = saved
				}
				return writeOutput(env.out, cmd.String("format"), res)
			})
		},
	}
}
