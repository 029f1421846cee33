// Package main provides the layerlint binary entry point.
// Layerlint validates a modular backend codebase against the layering
// rules of the modular backend architecture and scaffolds new modules.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	// Register language parsers via init()
	_ "github.com/c360studio/layerlint/parser/golang"
	_ "github.com/c360studio/layerlint/parser/java"
	_ "github.com/c360studio/layerlint/parser/python"
	_ "github.com/c360studio/layerlint/parser/ts"

	"github.com/spf13/cobra"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "layerlint"
)

// Exit codes per command contract: 0 clean, 1 violations found,
// 2 any operational failure.
const (
	exitOK         = 0
	exitViolations = 1
	exitFailure    = 2
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(exitFailure)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errViolationsFound) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(exitCodeFor(err))
	}
}

// errViolationsFound distinguishes "the run worked and found problems" from
// operational failures when mapping to exit codes.
var errViolationsFound = errors.New("violations found")

// exitCodeFor maps an error to the documented exit code. Exit 1 is reserved
// for the violations sentinel; every operational failure (scan, scaffold,
// bad config or flags) exits 2 so CI never mistakes it for a lint result.
func exitCodeFor(err error) int {
	if errors.Is(err, errViolationsFound) {
		return exitViolations
	}
	return exitFailure
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Structure validator and scaffolder for modular backends",
		Long: `Layerlint enforces the modular backend architecture: per-domain modules
containing controller, service, repository, entity, dto, mapper and util
layers.

It provides:
- validate: scan a tree, build the module dependency graph and report
  layering violations
- scaffold: create the canonical layer directories for a new module
- watch: re-validate continuously as files change`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(logLevel)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(validateCmd(&configPath))
	cmd.AddCommand(scaffoldCmd())
	cmd.AddCommand(watchCmd(&configPath))

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func configureLogging(logLevel string) {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}
