package cli

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"

	"kopilka/config"
	"kopilka/rates"
	"kopilka/telemetry"
	"kopilka/web"
)

type WebCmd struct {
	Port int `help:"Port to listen on (overrides KOPILKA_WEB_PORT)." default:"0"`
}

func (cmd *WebCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx := context.Background()

	if globals.Telemetry {
		collector := telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		defer func() {
			_, _ = fmt.Fprintln(ctx.Stderr)
			collector.Report(ctx.Stderr)
		}()
	}

	cfg := config.Load()
	if cmd.Port > 0 {
		cfg.WebPort = cmd.Port
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	log := newLogger(ctx.Stderr)
	provider := newProvider(cfg, rates.WithLogger(log))
	cache := rates.NewCache(provider.Fallback())
	refresher := rates.NewRefresher(provider, cache, cfg.RefreshInterval, log)

	server := web.New(cfg, s, cache, refresher, log)
	server.Version = Version
	server.CommitSHA = CommitSHA

	printInfof(ctx.Stdout, "Starting server on %s:%d", server.Host, server.Port)
	printInfof(ctx.Stdout, "Serving database: %s", pathStyle.Render(s.Path()))
	printInfof(ctx.Stdout, "Refreshing rates every %s", formatDuration(cfg.RefreshInterval))

	return server.Start(runCtx)
}
