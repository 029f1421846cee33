package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/c360studio/layerlint/report"
)

func validateCmd(configPath *string) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "validate <root>",
		Short: "Validate a project tree against the layering rules",
		Long: `Validate scans the tree rooted at <root>, classifies source files into
module and layer buckets, builds the module dependency graph from import
references and reports every edge that breaks the layering rules.

Exit codes: 0 when no violations were found, 1 when violations were found,
2 on any other failure.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(*configPath, args[0])
			if err != nil {
				return err
			}

			rep, err := runValidation(cmd.Context(), args[0], cfg)
			if err != nil {
				return err
			}

			for _, u := range rep.Unclassified {
				slog.Warn("unclassified unit", "path", u.Path, "module", u.Module)
			}
			for _, w := range rep.Warnings {
				slog.Warn("scan warning", "detail", w)
			}

			if err := rep.Write(os.Stdout, f); err != nil {
				return err
			}

			slog.Info("validation complete",
				"modules", len(rep.Modules),
				"units", rep.UnitCount,
				"edges", len(rep.Edges),
				"violations", len(rep.Violations))

			if len(rep.Violations) > 0 {
				return fmt.Errorf("%d %w", len(rep.Violations), errViolationsFound)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(report.FormatText), "Output format (text, json)")

	return cmd
}
