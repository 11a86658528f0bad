// Package cli implements cookctl, the offline command line companion of the
// recipe service.
//
//	cookctl parse recipe.txt --save
//	cookctl convert --quantity 2 --unit cups --system metric
//	cookctl scale --quantity 1.5 --from 4 --to 6
//	cookctl list
//	cookctl view <id> --servings 8 --system us
//	cookctl export -o backup.json
//	cookctl import backup.json --merge
//	cookctl sync
//
// Commands that touch the collection open the store named by the service
// configuration (DATABASE_PATH, STORAGE_DRIVER, REDIS_ADDR, ...), so the
// CLI and the HTTP service share one database.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/panpapadopoulos/cooking/internal/app"
	"github.com/panpapadopoulos/cooking/internal/infrastructure/config"
	"github.com/panpapadopoulos/cooking/internal/pkg/common"

	"github.com/urfave/cli/v3"
)

const name = "cookctl"

// Options configures the command tree. Zero fields fall back to the
// process streams and config.Load.
type Options struct {
	Version    string
	In         io.Reader
	Out        io.Writer
	LoadConfig func() (*config.Config, error)
}

type environment struct {
	in         io.Reader
	out        io.Writer
	loadConfig func() (*config.Config, error)
}

// formatFlag is built per command; flags keep parse state.
func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   formatJSON,
		Usage:   "Output format (json, yaml)",
	}
}

// New returns the root command.
func New(opts Options) *cli.Command {
	env := &environment{
		in:         opts.In,
		out:        opts.Out,
		loadConfig: opts.LoadConfig,
	}
	if env.in == nil {
		env.in = os.Stdin
	}
	if env.out == nil {
		env.out = os.Stdout
	}
	if env.loadConfig == nil {
		env.loadConfig = config.Load
	}

	version := opts.Version
	if version == "" {
		version = "dev"
	}

	return &cli.Command{
		Name:                  name,
		Usage:                 "Parse, scale, convert and manage recipes from the terminal",
		Version:               version,
		EnableShellCompletion: true,
		Writer:                env.out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("COOKCTL_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "SQLite database path, overriding DATABASE_PATH",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			common.InitConsoleLogger(cmd.String("log-level"))
			return ctx, nil
		},
		After: func(ctx context.Context, cmd *cli.Command) error {
			common.Sync()
			return nil
		},
		Commands: []*cli.Command{
			parseCmd(env),
			convertCmd(env),
			scaleCmd(env),
			listCmd(env),
			viewCmd(env),
			exportCmd(env),
			importCmd(env),
			syncCmd(env),
		},
	}
}

// config loads the service configuration and applies the --db override.
func (e *environment) config(cmd *cli.Command) (*config.Config, error) {
	cfg, err := e.loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if path := cmd.String("db"); path != "" {
		cfg.Storage.Driver = config.DriverSQLite
		cfg.Storage.Path = path
	}
	return cfg, nil
}

// open wires the services. The caller closes the returned App.
func (e *environment) open(ctx context.Context, cmd *cli.Command) (*app.App, error) {
	cfg, err := e.config(cmd)
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg)
}

// withApp runs fn against freshly wired services and closes them after.
func (e *environment) withApp(ctx context.Context, cmd *cli.Command, fn func(*app.App) error) error {
	a, err := e.open(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
