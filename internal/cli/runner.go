// Package cli wires configuration, the HTTP client and the views behind the
// stringlist command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/idilsaglam/stringlist/internal/api"
	"github.com/idilsaglam/stringlist/internal/config"
	"github.com/idilsaglam/stringlist/internal/listclient"
	"github.com/idilsaglam/stringlist/internal/ui"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// usageError marks failures caused by bad input rather than the service.
type usageError string

func (e usageError) Error() string { return string(e) }

// Options carry process-level settings into Run.
type Options struct {
	Version string
	Stdout  io.Writer
	Stderr  io.Writer
}

// Globals are flags shared by every subcommand.
type Globals struct {
	Config  string           `help:"Config file (replaces ./.stringlist.yaml)." placeholder:"PATH"`
	APIURL  string           `name:"api-url" help:"Base URL of the strings service." placeholder:"URL"`
	Theme   string           `help:"Output theme: classic, neon or mono."`
	NoColor bool             `help:"Disable colored output."`
	LogFile string           `help:"Write diagnostics to this file." placeholder:"PATH"`
	Verbose bool             `short:"v" help:"Print diagnostics to stderr in non-interactive commands."`
	Version kong.VersionFlag `short:"V" help:"Show version."`
}

// CLI is the top-level command structure.
type CLI struct {
	Globals

	UI  UICmd  `cmd:"" default:"1" help:"Open the interactive list (default)."`
	Ls  LsCmd  `cmd:"" help:"Print the list."`
	Add AddCmd `cmd:"" help:"Add an entry (text can be multiple words)."`
	Rm  RmCmd  `cmd:"" help:"Remove the entry with the given id."`
}

// App is what subcommands run against.
type App struct {
	ctx    context.Context
	cfg    *config.Config
	svc    *api.Client
	logger *log.Logger
	stdout io.Writer
}

func (a *App) client() *listclient.Client {
	return listclient.New(a.svc, listclient.WithLogger(a.logger))
}

type exitPanic int

// Run parses args, runs the selected subcommand and returns an exit code
// (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) (code int) {
	if opt.Stdout == nil {
		opt.Stdout = os.Stdout
	}
	if opt.Stderr == nil {
		opt.Stderr = os.Stderr
	}

	// kong exits after --help and --version; turn that into a return value.
	defer func() {
		if r := recover(); r != nil {
			c, ok := r.(exitPanic)
			if !ok {
				panic(r)
			}
			code = int(c)
		}
	}()

	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("stringlist"),
		kong.Description("Type a line, keep a list. Entries live on a remote strings service."),
		kong.Writers(opt.Stdout, opt.Stderr),
		kong.Vars{"version": opt.Version},
		kong.Exit(func(c int) { panic(exitPanic(c)) }),
	)
	if err != nil {
		ui.Fail(opt.Stderr, err.Error())
		return exitError
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		ui.Fail(opt.Stderr, err.Error())
		fmt.Fprintln(opt.Stderr, ui.Dim("Hint: run `stringlist --help`"))
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app, err := newApp(ctx, &cli.Globals, opt)
	if err != nil {
		ui.Fail(opt.Stderr, err.Error())
		return exitUsage
	}

	if err := kctx.Run(app); err != nil {
		ui.Fail(opt.Stderr, err.Error())
		var ue usageError
		if errors.As(err, &ue) {
			return exitUsage
		}
		return exitError
	}
	return exitOK
}

// loadConfig loads layered config from user and project paths, then env
// overrides, then flags.
func loadConfig(g *Globals) (*config.Config, error) {
	project := ".stringlist.yaml"
	if g.Config != "" {
		project = g.Config
	}
	cfg, err := config.LoadLayered(
		os.ExpandEnv("$HOME/.config/stringlist/config.yaml"),
		project,
	)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if g.APIURL != "" {
		cfg.API.BaseURL = g.APIURL
	}
	if g.Theme != "" {
		cfg.UI.Theme = g.Theme
	}
	if g.NoColor {
		cfg.UI.NoColor = true
	}
	if g.LogFile != "" {
		cfg.Log.File = g.LogFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newApp(ctx context.Context, g *Globals, opt Options) (*App, error) {
	cfg, err := loadConfig(g)
	if err != nil {
		return nil, err
	}

	ui.SetColorForcing(false, cfg.UI.NoColor)
	ui.SetTheme(cfg.UI.Theme)

	logger := log.New(io.Discard, "", 0)
	if g.Verbose {
		logger = log.New(opt.Stderr, "stringlist: ", log.LstdFlags)
	}

	return &App{
		ctx: ctx,
		cfg: cfg,
		svc: api.New(cfg.API.BaseURL,
			api.WithTimeout(cfg.API.Timeout),
			api.WithToken(cfg.API.Token),
		),
		logger: logger,
		stdout: opt.Stdout,
	}, nil
}
