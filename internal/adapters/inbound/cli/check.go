package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/phdsystems/stratify/internal/adapters/outbound/config"
	"github.com/phdsystems/stratify/internal/adapters/outbound/gitinfo"
	"github.com/phdsystems/stratify/internal/adapters/outbound/scanner"
	"github.com/phdsystems/stratify/internal/adapters/outbound/tui"
	"github.com/phdsystems/stratify/internal/application"
	"github.com/phdsystems/stratify/internal/domain"
	"github.com/phdsystems/stratify/internal/logging"
)

func newCheckCmd() *cobra.Command {
	var (
		jsonOutput bool
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Scan a project for layering violations",
		Long:  "Index the project's modules and report every api/core/spi/facade layering violation found. Exits non-zero when error-severity violations exist.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			report, err := runCheck(absPath, verbose)
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderCheckReport(report))
			}

			if report.HasErrors() {
				return fmt.Errorf("%d error-severity violation(s) found", report.Counts[domain.SeverityError])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	return cmd
}

func runCheck(absPath string, verbose bool) (*domain.CheckReport, error) {
	log := logging.New(verbose)
	svc := application.NewCheckService(
		scanner.New(),
		config.New(),
		gitinfo.New(),
		defaultDetectors,
		log,
	)
	report, err := svc.Check(absPath)
	if err != nil {
		return nil, fmt.Errorf("check failed: %w", err)
	}
	return report, nil
}
