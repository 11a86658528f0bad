package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/panpapadopoulos/cooking/internal/app"
	"github.com/panpapadopoulos/cooking/internal/core/recipe"
	"github.com/panpapadopoulos/cooking/internal/core/units"
	"github.com/panpapadopoulos/cooking/internal/pkg/common"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func listCmd(env *environment) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List saved recipes, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"t"},
				Value:   "table",
				Usage:   "Output format (table, json, yaml)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return env.withApp(ctx, cmd, func(a *app.App) error {
				recipes, err := a.Recipes.List(ctx)
				if err != nil {
					return err
				}
				if cmd.String("format") != "table" {
					return writeOutput(env.out, cmd.String("format"), recipes)
				}

				tw := tabwriter.NewWriter(env.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tTITLE\tSERVINGS\tLANG\tINGREDIENTS\tCREATED")
				for _, r := range recipes {
					fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\t%s\n",
						r.ID, r.Title, r.Servings, r.OriginalLanguage, len(r.Ingredients),
						r.CreatedAt.Local().Format(time.DateTime))
				}
				return tw.Flush()
			})
		},
	}
}

func viewCmd(env *environment) *cli.Command {
	return &cli.Command{
		Name:      "view",
		Usage:     "Show a recipe scaled and converted for the kitchen",
		ArgsUsage: "ID",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "servings",
				Usage: "Servings to scale to (default: the recipe's own)",
			},
			&cli.StringFlag{
				Name:    "system",
				Aliases: []string{"s"},
				Usage:   "Unit system (metric, us, cooking); default from UNIT_SYSTEM",
			},
			&cli.BoolFlag{
				Name:  "translated",
				Usage: "Show translated text where the recipe has it",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id := cmd.Args().First()
			if id == "" {
				return fmt.Errorf("recipe id is required")
			}
			if cmd.Int("servings") < 0 {
				return fmt.Errorf("servings must be positive")
			}

			return env.withApp(ctx, cmd, func(a *app.App) error {
				system := a.Config.DefaultSystem()
				if name := cmd.String("system"); name != "" {
					s, ok := units.ParseSystem(name)
					if !ok {
						return fmt.Errorf("invalid system %q: must be metric, us or cooking", name)
					}
					system = s
				}

				r, err := a.Recipes.Get(ctx, id)
				if err != nil {
					return fmt.Errorf("failed to load recipe %s: %w", id, err)
				}
				view := a.Recipes.View(r, cmd.Int("servings"), system)
				return printView(env, view, cmd.Bool("translated"))
			})
		},
	}
}

func printView(env *environment, view recipe.RecipeView, translated bool) error {
	r := view.Recipe
	title := r.Title
	if translated {
		title = r.TranslatedTitle.Or(title)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n", title, strings.Repeat("=", len([]rune(title))))
	fmt.Fprintf(&b, "Servings: %d (%s units)\n\nIngredients:\n", view.Servings, view.System)
	for _, ing := range view.Ingredients {
		item := ing.Item
		if translated {
			item = ing.TranslatedItem.Or(item)
		}
		line := strings.TrimSpace(ing.Display + " " + item)
		if notes, ok := ing.Notes.Get(); ok {
			line += " (" + notes + ")"
		}
		fmt.Fprintf(&b, "  - %s\n", line)
	}

	if len(r.Instructions) > 0 {
		b.WriteString("\nInstructions:\n")
		for i, step := range r.Instructions {
			if translated && i < len(r.TranslatedInstructions) {
				step = r.TranslatedInstructions[i].Or(step)
			}
			fmt.Fprintf(&b, "  %d. %s\n", i+1, step)
		}
	}

	_, err := fmt.Fprint(env.out, b.String())
	return err
}

func exportCmd(env *environment) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write every recipe to a bundle file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Bundle path (default: stdout)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return env.withApp(ctx, cmd, func(a *app.App) error {
				bundle, err := a.Recipes.Export(ctx)
				if err != nil {
					return err
				}

				w, closeOutput, err := openOutput(cmd.String("output"), env.out)
				if err != nil {
					return err
				}
				if err := writeOutput(w, formatJSON, bundle); err != nil {
					closeOutput()
					return err
				}
				if err := closeOutput(); err != nil {
					return err
				}
				common.LogInfo("recipes exported",
					zap.Int("count", len(bundle.Recipes)),
					zap.String("output", cmd.String("output")),
				)
				return nil
			})
		},
	}
}

func importCmd(env *environment) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Load a bundle file into the collection",
		ArgsUsage: "[FILE]",
		Description: `Without --merge the collection is replaced by the bundle and the bundle ids
are kept. With --merge the recipes are added under fresh ids.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "merge",
				Usage: "Keep existing recipes",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			data, err := readInput(cmd.Args().First(), env.in)
			if err != nil {
				return err
			}

			return env.withApp(ctx, cmd, func(a *app.App) error {
				imported, err := a.Recipes.Import(ctx, data, cmd.Bool("merge"))
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(env.out, "imported %d recipes\n", len(imported))
				return err
			})
		},
	}
}

func syncCmd(env *environment) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Reconcile the local collection with the remote store",
		Description: `Requires REMOTE_ENABLED=true and REDIS_ADDR. The newer updatedAt wins in
both directions; deletions are not propagated.`,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return env.withApp(ctx, cmd, func(a *app.App) error {
				if a.Syncer == nil {
					return fmt.Errorf("remote store is not configured")
				}
				report, err := a.Syncer.Sync(ctx)
				if err != nil {
					return fmt.Errorf("sync failed: %w", err)
				}
				_, err = fmt.Fprintf(env.out, "pushed %d, pulled %d, unchanged %d\n",
					report.Pushed, report.Pulled, report.Unchanged)
				return err
			})
		},
	}
}
