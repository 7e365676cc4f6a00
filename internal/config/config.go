package config

import (
	"flag"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port       int        // wrapper HTTP port (also the dev API port)
	DataDir    string     // settings database location
	InstallDir string     // seed value for the TAK install dir on first run
	Dev        bool       // serve frontend from filesystem
	Mock       bool       // use the in-memory Docker mock instead of the SDK
	LogLevel   slog.Level // Parsed log level (debug, info, warn, error)
}

func Parse() *Config {
	cfg := &Config{}

	var logLevel string
	flag.IntVar(&cfg.Port, "port", 8000, "HTTP server port")
	flag.StringVar(&cfg.DataDir, "data-dir", "./data", "Path to data directory (settings DB)")
	flag.StringVar(&cfg.InstallDir, "install-dir", "", "Initial TAK Manager install directory (first run only)")
	flag.BoolVar(&cfg.Dev, "dev", false, "Development mode (serve frontend from filesystem)")
	flag.BoolVar(&cfg.Mock, "mock", false, "Use in-memory Docker mock (no daemon required)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	// Env vars override flags (if set)
	if v := os.Getenv("TAK_WRAPPER_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("TAK_WRAPPER_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("TAK_WRAPPER_INSTALL_DIR"); v != "" {
		cfg.InstallDir = v
	}
	if v := os.Getenv("TAK_WRAPPER_DEV"); v == "1" || v == "true" {
		cfg.Dev = true
	}
	if v := os.Getenv("TAK_WRAPPER_MOCK"); v == "1" || v == "true" {
		cfg.Mock = true
	}
	if v := os.Getenv("TAK_WRAPPER_LOG_LEVEL"); v != "" {
		logLevel = v
	}

	cfg.LogLevel = parseLogLevel(logLevel)

	return cfg
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
