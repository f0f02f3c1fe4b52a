// Command hostcorsd runs a demo HTTP server protected by a host-based CORS
// middleware.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jub0bs/hostcors/internal/logging"
	"github.com/jub0bs/hostcors/internal/server"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand(serve).Run(ctx, os.Args); err != nil {
		slog.Error("Failed to run hostcorsd", logging.Err(err))
		stop()
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg server.Config) error {
	logger, err := logging.NewFromString(os.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}
	srv, err := server.New(cfg, logger)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

// newCommand returns the root command of hostcorsd. Its action resolves the
// server configuration and hands it to run.
func newCommand(run func(context.Context, server.Config) error) *cli.Command {
	defaults := server.DefaultConfig()
	return &cli.Command{
		Name:  "hostcorsd",
		Usage: "Demo HTTP server protected by a host-based CORS middleware",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			return run(ctx, cfg)
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to a YAML configuration file; flags override its content",
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "TCP address to listen on",
				Value: defaults.Addr,
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (TRACE, DEBUG, INFO, WARN, ERROR)",
				Value: defaults.LogLevel,
			},
			&cli.StringSliceFlag{
				Name:  "allow-host",
				Usage: "Specifies a host allowed in CORS (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "allow-any",
				Usage: "Allows any origin in CORS",
			},
			&cli.StringSliceFlag{
				Name:  "method",
				Usage: "Specifies a method allowed in CORS (repeatable); * allows any method",
			},
			&cli.IntFlag{
				Name:  "max-age",
				Usage: "Max age of preflight responses, in seconds; -1 disables caching",
			},
			&cli.IntFlag{
				Name:  "preflight-status",
				Usage: "Status of successful preflight responses (2xx)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Explains rejections in response bodies",
			},
		},
	}
}

func resolveConfig(cmd *cli.Command) (server.Config, error) {
	cfg := server.DefaultConfig()
	if cmd.IsSet("config") {
		var err error
		cfg, err = server.LoadFile(cmd.String("config"))
		if err != nil {
			return server.Config{}, err
		}
	}
	if cmd.IsSet("addr") {
		cfg.Addr = cmd.String("addr")
	}
	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}
	if cmd.IsSet("debug") {
		cfg.Debug = cmd.Bool("debug")
	}
	if cmd.IsSet("allow-host") {
		cfg.CORS.Hosts = cmd.StringSlice("allow-host")
		cfg.CORS.AllowAnyOrigin = false
	}
	if cmd.IsSet("allow-any") {
		cfg.CORS.AllowAnyOrigin = cmd.Bool("allow-any")
		if cfg.CORS.AllowAnyOrigin && !cmd.IsSet("allow-host") {
			cfg.CORS.Hosts = nil
		}
	}
	if cmd.IsSet("method") {
		cfg.CORS.Methods = cmd.StringSlice("method")
	}
	if cmd.IsSet("max-age") {
		cfg.CORS.MaxAgeInSeconds = int(cmd.Int("max-age"))
	}
	if cmd.IsSet("preflight-status") {
		cfg.CORS.ExtraConfig.PreflightSuccessStatus = int(cmd.Int("preflight-status"))
	}
	return cfg, nil
}
