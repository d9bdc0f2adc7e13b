// Package main is the entry point for the reviewlens CLI.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container
)

func main() {
	var configFile string
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "reviewlens",
		Short: "Aggregate and prioritize pull request review feedback",
		Long: `reviewlens aggregates code-review feedback on a GitHub pull request from
inline review comments, PR-level discussion comments, and AI-reviewer
suggestion markup embedded in review bodies. It resolves review-thread
state, scores each item by priority, and pages through the result with an
opaque cursor.

Requires a GitHub token via REVIEWLENS_GITHUB_TOKEN or the config file.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			setupLogger(logLevel)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file path (YAML)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "warn", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newCommentsCmd(&configFile))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogger configures the process-wide slog default. Logs go to stderr
// so stdout stays clean JSON for piping.
func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelWarn
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))
}
