package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docpress/internal/foundation/errors"
	"git.home.luguber.info/inful/docpress/internal/observability"
	"git.home.luguber.info/inful/docpress/internal/version"
)

// Global carries state shared by every command.
type Global struct {
	Ctx context.Context
}

// CLI definition and global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docpress.yaml" env:"DOCPRESS_CONFIG"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	User   string   `name:"user" help:"GitHub account whose repositories are collected"`
	Token  string   `name:"token" help:"GitHub token" env:"GITHUB_TOKEN"`
	Filter []string `name:"filter" help:"Filter tokens; 'name' allows, '!name' denies" sep:","`
	Branch string   `name:"branch" help:"Branch used for every repository instead of its default branch"`
	Output string   `short:"o" name:"output" help:"Output directory"`

	Build    BuildCmd    `cmd:"" default:"1" help:"Discover repositories, fetch their docs and emit the site"`
	Discover DiscoverCmd `cmd:"" help:"Discover and persist repositories without fetching"`
	Fetch    FetchCmd    `cmd:"" help:"Fetch documentation for persisted repositories"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration file"`
	Daemon   DaemonCmd   `cmd:"" help:"Run the pipeline periodically and on configuration changes"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(observability.NewHandler(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))))
	return nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("docpress"),
		kong.Description("Collect documentation from a GitHub account into a site content tree."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		parser.FatalIfErrorf(err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = kctx.Run(&Global{Ctx: ctx}, &cli)
	adapter := errors.NewCLIErrorAdapter(cli.Verbose, slog.Default())
	if err != nil {
		adapter.LogError(err)
		fmt.Fprintln(os.Stderr, adapter.FormatError(err))
	}
	return adapter.ExitCodeFor(err)
}
