// Package main runs the CAD drawing server. It serves the drawing tools over MCP stdio,
// a JSON/HTTP API, or an interactive terminal REPL.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/piexl/CAD-MCP/internal/automation"
	"github.com/piexl/CAD-MCP/internal/backend"
	"github.com/piexl/CAD-MCP/internal/backend/live"
	"github.com/piexl/CAD-MCP/internal/backend/offline"
	"github.com/piexl/CAD-MCP/internal/command"
	"github.com/piexl/CAD-MCP/internal/config"
	"github.com/piexl/CAD-MCP/internal/dispatch"
	"github.com/piexl/CAD-MCP/internal/drawing"
	"github.com/piexl/CAD-MCP/internal/executor"
	"github.com/piexl/CAD-MCP/internal/fsutil"
	"github.com/piexl/CAD-MCP/internal/logging"
	"github.com/piexl/CAD-MCP/internal/session"
	"github.com/piexl/CAD-MCP/internal/tool"
	"github.com/piexl/CAD-MCP/internal/transport/httpapi"
	"github.com/piexl/CAD-MCP/internal/transport/mcpserver"
	"github.com/piexl/CAD-MCP/internal/ui"
	uiservices "github.com/piexl/CAD-MCP/internal/ui/services"
)

// Run modes.
const (
	ModeMCP  = "mcp"
	ModeHTTP = "http"
	ModeREPL = "repl"
)

const replLogFile = "cadmcp.log"

type options struct {
	Mode       string
	ConfigPath string
	Addr       string
	Backend    string
}

// Dependencies holds the components shared by every transport.
type Dependencies struct {
	Config   *config.Config
	Logger   *slog.Logger
	Session  *session.Session
	Service  *dispatch.Service
	Registry *tool.Registry
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("cadmcp", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.Mode, "mode", ModeMCP, "transport: mcp, http or repl")
	fs.StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/cadmcp/config.json)")
	fs.StringVar(&opts.Addr, "addr", "127.0.0.1:8080", "listen address for -mode http")
	fs.StringVar(&opts.Backend, "backend", "", "override cad.backend: live or offline")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	switch opts.Mode {
	case ModeMCP, ModeHTTP, ModeREPL:
	default:
		return options{}, fmt.Errorf("unknown mode %q", opts.Mode)
	}
	return opts, nil
}

func loadConfig(opts options) (*config.Config, error) {
	loader := config.NewLoader()
	if opts.ConfigPath != "" {
		loader = loader.WithPath(opts.ConfigPath)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}
	if opts.Backend != "" {
		cfg.CAD.Backend = strings.ToLower(opts.Backend)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func milliseconds(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// createBackend selects the one backend for the process.
func createBackend(cfg *config.Config, fs *fsutil.OSFileSystem, logger *slog.Logger) backend.Backend {
	if cfg.CAD.Backend == config.BackendLive {
		client := automation.NewClient(cfg.CAD.BridgeURL)
		launcher := automation.NewLauncher(executor.NewOSCommandExecutor(), cfg.CAD.LaunchCommand, logger)
		return live.New(client, launcher, live.Options{
			CADType:      cfg.CAD.Type,
			StartupWait:  milliseconds(cfg.CAD.StartupWaitTimeMs),
			PollInterval: milliseconds(cfg.CAD.PollIntervalMs),
			CommandDelay: milliseconds(cfg.CAD.CommandDelayMs),
		}, logger)
	}
	return offline.New(fs, logger)
}

func createDependencies(cfg *config.Config, b backend.Backend, fs *fsutil.OSFileSystem, logger *slog.Logger) (*Dependencies, error) {
	defaultPath, err := fs.Abs(filepath.Join(cfg.Output.Directory, cfg.Output.DefaultFilename))
	if err != nil {
		return nil, fmt.Errorf("resolve default path: %w", err)
	}

	colors := drawing.DefaultColorTable().With(cfg.Drawing.Colors)
	lexicon := command.DefaultLexicon()
	for name := range cfg.Drawing.Colors {
		lexicon.AddColor(name)
	}

	sess := session.New(b, session.Options{
		DefaultLayer: cfg.Drawing.DefaultLayer,
		DefaultPath:  defaultPath,
		Colors:       colors,
	}, logger)

	svc := dispatch.NewService(
		command.NewInterpreter(lexicon),
		drawing.NewValidator(colors),
		sess,
		dispatch.NewDispatcher(sess, cfg.Output.Directory, fs, logger),
		drawing.Defaults{
			Color:               cfg.Drawing.DefaultColor,
			Layer:               cfg.Drawing.DefaultLayer,
			TextHeight:          cfg.Drawing.TextHeight,
			DimensionTextHeight: cfg.Drawing.DimensionTextHeight,
			HatchPattern:        cfg.Drawing.HatchPattern,
			HatchScale:          cfg.Drawing.HatchScale,
			Filename:            cfg.Output.DefaultFilename,
		},
		logger,
	)

	return &Dependencies{
		Config:   cfg,
		Logger:   logger,
		Session:  sess,
		Service:  svc,
		Registry: tool.NewRegistry(tool.NewCADTools(svc)...),
	}, nil
}

// createLogger writes to stderr, except in REPL mode where the terminal belongs to the UI.
func createLogger(cfg *config.Config, mode string, fs *fsutil.OSFileSystem, stderr io.Writer) (*slog.Logger, io.Closer, error) {
	if mode != ModeREPL {
		logger, err := logging.New(stderr, cfg.Log.Level, cfg.Log.Format)
		return logger, io.NopCloser(nil), err
	}
	if err := fs.EnsureDirs(cfg.Output.Directory); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(filepath.Join(cfg.Output.Directory, replLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(f, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return logger, f, nil
}

func serve(ctx context.Context, opts options, deps *Dependencies, stdin io.Reader, stdout io.Writer) error {
	switch opts.Mode {
	case ModeHTTP:
		return httpapi.Serve(ctx, opts.Addr, httpapi.NewRouter(deps.Service, deps.Registry, deps.Logger), deps.Logger)
	case ModeREPL:
		spinnerFactory := func() spinner.Model {
			return spinner.New(spinner.WithSpinner(spinner.Dot))
		}
		return ui.NewUI(ctx, deps.Service, uiservices.NewGlamourRenderer(""), spinnerFactory).Start()
	default:
		srv := mcpserver.New(deps.Config.Server.Name, deps.Config.Server.Version, deps.Registry, deps.Logger)
		return srv.ServeStdio(ctx, stdin, stdout)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	fs := fsutil.NewOSFileSystem()
	logger, closer, err := createLogger(cfg, opts.Mode, fs, stderr)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer closer.Close()

	deps, err := createDependencies(cfg, createBackend(cfg, fs, logger), fs, logger)
	if err != nil {
		return err
	}
	logger.Info("starting", "mode", opts.Mode, "backend", cfg.CAD.Backend, "cad_type", cfg.CAD.Type)

	if cfg.CAD.AutoConnect {
		msg, err := deps.Service.Connect(ctx)
		if err != nil {
			// The session stays in ERROR; a later connect retries.
			logger.Warn("auto-connect failed", "error", err)
		} else {
			logger.Info("auto-connect", "result", msg)
		}
	}

	serveErr := serve(ctx, opts, deps, stdin, stdout)

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := deps.Service.Close(closeCtx); err != nil {
		logger.Warn("close session", "error", err)
	}

	if errors.Is(serveErr, context.Canceled) {
		return nil
	}
	return serveErr
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
