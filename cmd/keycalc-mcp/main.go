// Package main serves a keycalc engine over the Model Context Protocol.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/keycalc/internal/calc"
	"github.com/dshills/keycalc/internal/config"
	"github.com/dshills/keycalc/internal/logging"
	"github.com/dshills/keycalc/internal/mcpserver"
	"github.com/dshills/keycalc/internal/plugin/lua"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configFlag  = flag.String("config", "", "Path to configuration file")
		debugFlag   = flag.Bool("debug", false, "Enable debug logging")
		versionFlag = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *versionFlag {
		fmt.Printf("%s v%s\n", mcpserver.Name, mcpserver.Version)
		fmt.Println("Model Context Protocol server for the keycalc calculator")
		return 0
	}

	configPath := *configFlag
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Stdout carries the protocol, so logs go to stderr or the log file
	var logger *logging.Logger
	level := logging.ParseLevel(cfg.Logging.Level)
	if *debugFlag {
		level = logging.LevelDebug
	}
	if cfg.Logging.File != "" {
		l, closer, err := logging.OpenFile(cfg.Logging.File, level)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer closer.Close()
		logger = l
	} else {
		lc := logging.DefaultConfig()
		lc.Level = level
		lc.Prefix = mcpserver.Name
		logger = logging.New(lc)
	}

	engine := calc.New(calc.WithHistoryLimit(cfg.History.Limit))

	if len(cfg.Plugins.Scripts) > 0 {
		// Script output would corrupt the protocol stream
		host := lua.NewHost(engine,
			lua.WithTimeout(cfg.Plugins.Timeout),
			lua.WithLogger(logger),
			lua.WithOutput(os.Stderr),
		)
		defer host.Close()
		if err := host.LoadScripts(cfg.Plugins.Scripts); err != nil {
			logger.Warn("some scripts failed to load: %v", err)
		}
	}

	srv := mcpserver.New(engine, mcpserver.WithLogger(logger))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Serve(ctx, os.Stdin, os.Stdout); err != nil {
		logger.Error("server failed: %v", err)
		return 1
	}
	return 0
}
