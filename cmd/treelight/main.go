package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/pflag"
	"libdb.so/treelight"
)

var (
	configPath = "treelight.toml"
	pattern    = -1
	wait       = 20
	clear      = false
	fps        = false
	verbose    = false
	preview    = false
)

func init() {
	pflag.StringVarP(&configPath, "config", "C", configPath, "configuration file")
	pflag.IntVarP(&pattern, "pattern", "a", pattern, "pin every scene to this pattern index (0-6)")
	pflag.IntVarP(&wait, "wait", "w", wait, "seconds per scene")
	pflag.BoolVarP(&clear, "clear", "c", clear, "clear the strip on exit")
	pflag.BoolVarP(&fps, "fps", "f", fps, "report FPS once per second")
	pflag.BoolVarP(&verbose, "verbose", "v", verbose, "verbose output")
	pflag.BoolVar(&preview, "preview", preview, "render on the terminal instead of hardware")
}

func main() {
	pflag.Parse()

	cfg, err := readConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	applyFlags(cfg)

	logLevel := slog.LevelWarn
	if cfg.ReportFPS {
		logLevel = slog.LevelInfo
	}
	if cfg.Verbose {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg *treelight.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	d, err := treelight.NewDaemon(cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create daemon: %w", err)
	}

	if err := d.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("daemon failed: %w", err)
	}

	return nil
}

func readConfig() (*treelight.Config, error) {
	f, err := os.Open(configPath)
	if err != nil {
		// Running without a config file is fine; the defaults drive a
		// standard strip, and --preview needs no hardware at all.
		if os.IsNotExist(err) && !pflag.CommandLine.Changed("config") {
			return treelight.DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	return treelight.ParseConfig(f)
}

func applyFlags(cfg *treelight.Config) {
	if pflag.CommandLine.Changed("pattern") && pattern >= 0 {
		cfg.Pattern = &pattern
	}
	if pflag.CommandLine.Changed("wait") {
		cfg.WaitSeconds = wait
	}
	if clear {
		cfg.ClearOnExit = true
	}
	if fps {
		cfg.ReportFPS = true
	}
	if verbose {
		cfg.Verbose = true
	}
	if preview {
		cfg.Preview = true
	}
}
