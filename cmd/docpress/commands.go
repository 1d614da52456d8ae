package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docpress/internal/config"
	"git.home.luguber.info/inful/docpress/internal/daemon"
	"git.home.luguber.info/inful/docpress/internal/logfields"
	"git.home.luguber.info/inful/docpress/internal/metrics"
	"git.home.luguber.info/inful/docpress/internal/pipeline"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct{}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	runner, err := root.runner()
	if err != nil {
		return err
	}
	rep, err := runner.Run(g.Ctx)
	if err != nil {
		return err
	}
	printReport(rep)
	return nil
}

// DiscoverCmd implements the 'discover' command.
type DiscoverCmd struct{}

func (d *DiscoverCmd) Run(g *Global, root *CLI) error {
	runner, err := root.runner()
	if err != nil {
		return err
	}
	rep, err := runner.Discover(g.Ctx)
	if err != nil {
		return err
	}
	printReport(rep)
	return nil
}

// FetchCmd implements the 'fetch' command.
type FetchCmd struct {
	FromState bool `name:"from-state" help:"Use the repositories persisted by 'discover' instead of listing again"`
}

func (f *FetchCmd) Run(g *Global, root *CLI) error {
	runner, err := root.runner()
	if err != nil {
		return err
	}
	var rep *pipeline.Report
	if f.FromState {
		rep, err = runner.FetchFromState(g.Ctx)
	} else {
		rep, err = runner.Run(g.Ctx)
	}
	if err != nil {
		return err
	}
	printReport(rep)
	return nil
}

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	fmt.Printf("Writing configuration to %s\n", root.Config)
	if err := config.Init(root.Config, i.Force); err != nil {
		return err
	}
	fmt.Println("initialized successfully")
	return nil
}

// DaemonCmd implements the 'daemon' command.
type DaemonCmd struct{}

func (d *DaemonCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(root.Config)
	if err != nil {
		return err
	}
	opts := metricsOptions(cfg)
	run := func(ctx context.Context, cfg *config.Config) error {
		runner, err := pipeline.FromConfig(cfg, opts...)
		if err != nil {
			return err
		}
		_, err = runner.Run(ctx)
		return err
	}
	return daemon.New(root.Config, cfg, run, daemon.WithLoader(root.loadConfig)).Run(g.Ctx)
}

// loadConfig reads path and applies the command line overrides.
func (c *CLI) loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyOverrides(c.overrides()); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *CLI) overrides() config.Overrides {
	return config.Overrides{
		Username: strings.TrimSpace(c.User),
		Token:    c.Token,
		Filter:   c.Filter,
		Branch:   c.Branch,
		Output:   c.Output,
	}
}

func (c *CLI) runner() (*pipeline.Runner, error) {
	cfg, err := c.loadConfig(c.Config)
	if err != nil {
		return nil, err
	}
	opts := metricsOptions(cfg)
	return pipeline.FromConfig(cfg, opts...)
}

// metricsOptions wires a Prometheus recorder when a textfile is configured.
// The registry lives as long as the process so daemon runs accumulate.
func metricsOptions(cfg *config.Config) []pipeline.Option {
	if cfg.Metrics.Textfile == "" {
		return nil
	}
	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)
	slog.Debug("Prometheus metrics enabled", logfields.Path(cfg.Metrics.Textfile))
	return []pipeline.Option{pipeline.WithRecorder(rec), pipeline.WithGatherer(reg)}
}

func printReport(rep *pipeline.Report) {
	fmt.Printf("run %s: %d repositories listed", rep.RunID, rep.Listed)
	if rep.SiteFile != "" {
		fmt.Printf(", %d fetched, %d failed, site config %s",
			len(rep.Fetch.Succeeded), len(rep.Fetch.Failed), rep.SiteFile)
	}
	if len(rep.StateFiles) > 0 {
		fmt.Printf(", state in %s", strings.Join(rep.StateFiles, ", "))
	}
	fmt.Println()
}
