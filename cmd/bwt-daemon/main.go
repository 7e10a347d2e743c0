// Package main is the entry point for the bwt daemon.
package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/bwt-dev/libbwt-go/cmd/bwt-daemon/app"
	"github.com/bwt-dev/libbwt-go/internal/logging"
)

// getVerbosity parses the BWT_LOG_LEVEL environment variable into a verbosity
// level. Falls back to LOG_LEVEL and defaults to info.
func getVerbosity() int {
	v := viper.New()
	v.SetEnvPrefix(app.EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	levelStr := v.GetString("LOG_LEVEL")
	if levelStr == "" {
		levelStr = os.Getenv("LOG_LEVEL")
	}

	switch strings.ToLower(levelStr) {
	case "info", "":
		return 0
	case "debug":
		return 1
	case "trace":
		return 2
	default:
		slog.Warn("Invalid LOG_LEVEL, using INFO", "value", levelStr)
		return 0
	}
}

func main() {
	// Use stderr to keep stdout clean for commands that output data (e.g., version --format json)
	slog.SetDefault(slog.New(logging.NewHandler(os.Stderr, getVerbosity())))

	if err := app.NewRootCmd().Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
