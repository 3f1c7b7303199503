package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/NicolasHaas/linechat/pkg/eventlog"
	"github.com/NicolasHaas/linechat/pkg/logging"
	"github.com/NicolasHaas/linechat/pkg/server"
	"github.com/NicolasHaas/linechat/pkg/store"
)

func main() {
	cfg := server.DefaultConfig()

	configFile := flag.String("config", "", "YAML config file (flags override its values)")
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "TCP bind address")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database file path")
	flag.StringVar(&cfg.EventLogPath, "event-log", cfg.EventLogPath, "Append-only event log path (empty to disable)")
	flag.StringVar(&cfg.AdminName, "admin", cfg.AdminName, "Reserved administrator display name")
	flag.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "HTTP bind address for Prometheus /metrics (empty to disable)")

	logLevel := flag.String("log-level", "info", "Log level: "+logging.LevelNames())
	logFormat := flag.String("log-format", "text", "Log format: text or json")
	flag.Parse()

	// Configure structured logging
	if err := logging.Setup(logging.Options{
		Level:  *logLevel,
		Format: *logFormat,
		Output: os.Stdout,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "invalid logging config: %v\n", err)
		os.Exit(1)
	}

	if *configFile != "" {
		loaded, err := server.LoadConfigFile(*configFile, cfg)
		if err != nil {
			slog.Error("load config", "err", err)
			os.Exit(1)
		}
		cfg = loaded
		// Re-apply explicit flags on top of the file.
		flag.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "addr":
				cfg.Addr = f.Value.String()
			case "db":
				cfg.DBPath = f.Value.String()
			case "event-log":
				cfg.EventLogPath = f.Value.String()
			case "admin":
				cfg.AdminName = f.Value.String()
			case "metrics":
				cfg.MetricsAddr = f.Value.String()
			}
		})
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		slog.Error("open database", "err", err)
		os.Exit(1)
	}

	var events *eventlog.Log
	if cfg.EventLogPath != "" {
		events, err = eventlog.Open(cfg.EventLogPath)
		if err != nil {
			slog.Error("open event log", "err", err)
			os.Exit(1)
		}
	}

	srv := server.New(cfg, server.Dependencies{Store: st, Events: events})
	if err := srv.Run(); err != nil {
		slog.Error("server error", "err", err)
		os.Exit(1)
	}
}
