package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophblog/internal/client/cli"
	"github.com/dmitrijs2005/gophblog/internal/client/config"
	ucli "github.com/urfave/cli/v2"
)

func main() {
	app := &ucli.App{
		Name:  "gophblog",
		Usage: "Interactive client for the gophblog API",
		Flags: []ucli.Flag{
			&ucli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a JSON config file",
				EnvVars: []string{"GOPHBLOG_CLIENT_CONFIG"},
			},
			&ucli.StringFlag{
				Name:    "server",
				Aliases: []string{"a"},
				Usage:   "base URL of the API, e.g. http://127.0.0.1:5000",
				EnvVars: []string{"GOPHBLOG_SERVER"},
			},
			&ucli.DurationFlag{
				Name:    "timeout",
				Aliases: []string{"t"},
				Usage:   "per-request timeout",
			},
			&ucli.IntFlag{
				Name:  "page-size",
				Usage: "default page size for list",
			},
		},
		Action: run,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(c *ucli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("server") {
		cfg.ServerURL = c.String("server")
	}
	if c.IsSet("timeout") {
		cfg.RequestTimeout = c.Duration("timeout")
	}
	if c.IsSet("page-size") {
		cfg.PageSize = c.Int("page-size")
	}

	app, err := cli.NewApp(cfg)
	if err != nil {
		return err
	}

	app.Run(c.Context)
	return nil
}
