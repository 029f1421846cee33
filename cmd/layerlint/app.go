package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/c360studio/layerlint/checker"
	"github.com/c360studio/layerlint/config"
	"github.com/c360studio/layerlint/graph"
	"github.com/c360studio/layerlint/parser"
	"github.com/c360studio/layerlint/report"
	"github.com/c360studio/layerlint/scanner"
)

// configFileName is looked up in the scan root when --config is not given.
const configFileName = "layerlint.yaml"

// loadConfig resolves the effective configuration: defaults, overlaid with
// an explicit --config file, or with a layerlint.yaml found in the root.
func loadConfig(configPath, root string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	path := configPath
	if path == "" {
		candidate := filepath.Join(root, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}

	if path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg.Merge(loaded)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// scanExtensions maps the configured language names to file extensions,
// defaulting to every registered language.
func scanExtensions(cfg *config.Config) ([]string, error) {
	if len(cfg.Scan.Languages) == 0 {
		return parser.DefaultRegistry.ListExtensions(), nil
	}

	var exts []string
	for _, lang := range cfg.Scan.Languages {
		if !parser.DefaultRegistry.HasParser(lang) {
			return nil, fmt.Errorf("unknown language %q (registered: %v)",
				lang, parser.DefaultRegistry.ListParsers())
		}
		exts = append(exts, parser.DefaultRegistry.ExtensionsFor(lang)...)
	}
	return exts, nil
}

// runValidation performs one full scan/build/check pass.
func runValidation(ctx context.Context, root string, cfg *config.Config) (*report.Report, error) {
	exts, err := scanExtensions(cfg)
	if err != nil {
		return nil, err
	}

	s := scanner.New(root, scanner.Options{
		Extensions:    exts,
		IgnoreGlobs:   cfg.Scan.Ignore,
		LayerAliases:  cfg.LayerAliases(),
		ExtraReserved: cfg.Scan.ReservedModules,
		Parallelism:   cfg.Scan.Parallelism,
	})

	scan, err := s.Scan(ctx)
	if err != nil {
		return nil, err
	}

	builder := graph.NewBuilder(scan.Root, parser.DefaultRegistry)
	g, err := builder.Build(ctx, scan)
	if err != nil {
		return nil, err
	}

	violations := checker.Check(g)
	return report.New(scan, g, violations), nil
}
