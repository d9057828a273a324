// Package main implements the entry point for the tescord service. It loads
// the configuration, wires the orchestrator with its metric registry, and
// runs the event loop until a shutdown signal arrives.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/tescord/tescord"
	"github.com/tescord/tescord/config"
	"github.com/tescord/tescord/metric"
)

// Build information constants
const (
	Version = "0.1.0"
	appName = "tescord"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to the JSON configuration file")
	validate := flag.Bool("validate", false, "validate the configuration and exit")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", appName, Version)
		return nil
	}

	logger, err := setupLogger(*logLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *validate {
		slog.Info("Configuration is valid", "brand", cfg.Brand, "clients", len(cfg.Clients))
		return nil
	}

	metrics := metric.NewRegistry()
	app, err := tescord.New(cfg,
		tescord.WithLogger(logger),
		tescord.WithMetrics(metrics),
	)
	if err != nil {
		return err
	}

	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				slog.Error("Metrics server failed", "addr", cfg.MetricsAddr, "error", err)
			}
		}()
		slog.Info("Metrics server listening", "addr", cfg.MetricsAddr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Start(ctx); err != nil {
		return err
	}
	slog.Info("Service started", "brand", cfg.Brand, "version", Version)

	<-ctx.Done()
	slog.Info("Shutdown signal received")
	return app.Stop()
}

func setupLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler), nil
}
