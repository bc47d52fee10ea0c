// Package main is the entry point for the keycalc terminal calculator.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dshills/keycalc/internal/app"
	"github.com/dshills/keycalc/internal/config"
	"github.com/dshills/keycalc/internal/logging"
	"github.com/dshills/keycalc/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// flags holds the parsed command line.
type flags struct {
	configPath  string
	logLevel    string
	logFile     string
	keys        string
	script      string
	showHistory bool
}

func main() {
	os.Exit(run())
}

func run() int {
	f := parseFlags()

	configPath := f.configPath
	if configPath == "" {
		configPath = config.DefaultPath()
	}

	var configOpts []config.Option
	if f.logFile != "" {
		configOpts = append(configOpts, config.WithOverrides(map[string]any{"logging.file": f.logFile}))
	}

	cfg, err := config.Load(configPath, configOpts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	opts := app.Options{
		ConfigPath:    configPath,
		Config:        cfg,
		ConfigOptions: configOpts,
		LogLevel:      f.logLevel,
	}

	if f.keys != "" || f.script != "" {
		return runHeadless(f, opts)
	}
	return runTerminal(opts)
}

// runHeadless evaluates -keys or -script and prints the result.
func runHeadless(f flags, opts app.Options) int {
	if opts.Config.Logging.File == "" {
		level := logging.LevelWarn
		if f.logLevel != "" {
			level = logging.ParseLevel(f.logLevel)
		}
		cfg := logging.DefaultConfig()
		cfg.Level = level
		opts.Logger = logging.New(cfg)
	}
	opts.ScriptOutput = os.Stdout

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	var res app.Result
	if f.script != "" {
		res, err = application.RunScript(f.script)
	} else {
		res, err = application.RunKeys(f.keys)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Println(res.Display)
	if f.showHistory {
		for _, entry := range res.History {
			fmt.Println(entry)
		}
	}
	return 0
}

// runTerminal runs the interactive calculator.
func runTerminal(opts app.Options) int {
	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	opts.Backend = term
	opts.Watch = true

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signals
		application.Shutdown()
	}()

	if err := application.Run(); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

func parseFlags() flags {
	var f flags
	var showVersion bool
	var showHelp bool

	flag.StringVar(&f.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&f.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&f.logFile, "log-file", "", "Write logs to this file")
	flag.StringVar(&f.keys, "keys", "", "Evaluate keys without the terminal UI and print the display")
	flag.StringVar(&f.keys, "k", "", "Evaluate keys (shorthand)")
	flag.StringVar(&f.script, "script", "", "Run a Lua script without the terminal UI and print the display")
	flag.BoolVar(&f.showHistory, "history", false, "Also print the history after -keys or -script")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "keycalc - terminal calculator\n\n")
		fmt.Fprintf(os.Stderr, "Usage: keycalc [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  keycalc                         Start the calculator\n")
		fmt.Fprintf(os.Stderr, "  keycalc -keys '5+3*2='          Print 16\n")
		fmt.Fprintf(os.Stderr, "  keycalc -script totals.lua      Run a script\n")
		fmt.Fprintf(os.Stderr, "  keycalc -c ./keycalc.yaml       Use another config file\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("keycalc %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if f.logLevel != "" {
		switch strings.ToLower(f.logLevel) {
		case "debug", "info", "warn", "error":
		default:
			fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", f.logLevel)
			os.Exit(1)
		}
	}

	if f.keys != "" && f.script != "" {
		fmt.Fprintf(os.Stderr, "Error: -keys and -script cannot be combined\n")
		os.Exit(1)
	}

	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected arguments: %s\n", strings.Join(flag.Args(), " "))
		os.Exit(1)
	}

	return f
}
