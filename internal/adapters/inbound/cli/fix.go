package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/phdsystems/stratify/internal/adapters/outbound/backup"
	"github.com/phdsystems/stratify/internal/adapters/outbound/config"
	"github.com/phdsystems/stratify/internal/adapters/outbound/fixers"
	"github.com/phdsystems/stratify/internal/adapters/outbound/gitinfo"
	"github.com/phdsystems/stratify/internal/adapters/outbound/tui"
	"github.com/phdsystems/stratify/internal/application"
	"github.com/phdsystems/stratify/internal/domain"
	"github.com/phdsystems/stratify/internal/logging"
)

func newFixCmd() *cobra.Command {
	var (
		dryRun      bool
		rules       []string
		maxFailures int
		allowDirty  bool
		backupName  string
		jsonOutput  bool
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "fix [path]",
		Short: "Detect layering violations and apply fixes",
		Long:  "Run detection and apply the registered fixers to every violation found. Every mutating fix is bracketed by a backup and rolled back on failure; --dry-run previews the changes without touching any file.",
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

			log := logging.New(verbose)

			cfg, err := config.New().Load(absPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			report, err := runCheck(absPath, verbose)
			if err != nil {
				return err
			}

			strategyName := backupName
			if strategyName == "" {
				strategyName = cfg.BackupStrategy
			}
			strategy, err := backup.New(strategyName)
			if err != nil {
				return err
			}

			if maxFailures == 0 {
				maxFailures = cfg.MaxFailures
			}

			fixSvc := application.NewFixService(fixers.Default(), strategy, gitinfo.New(), log)
			fixReport, err := fixSvc.Apply(absPath, cfg, report.Violations, application.FixOptions{
				DryRun:      dryRun,
				Rules:       rules,
				MaxFailures: maxFailures,
				AllowDirty:  allowDirty,
			})
			if err != nil {
				return fmt.Errorf("fix failed: %w", err)
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(fixReport); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderFixReport(fixReport))
			}

			if fixReport.HasFailures() {
				return fmt.Errorf("%d fix(es) failed", fixReport.Counts[domain.StatusFailed])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview fixes without writing")
	cmd.Flags().StringSliceVar(&rules, "rule", nil, "Fix only the listed rule ids")
	cmd.Flags().IntVar(&maxFailures, "max-failures", 0, "Abandon remaining fixes after this many failures")
	cmd.Flags().BoolVar(&allowDirty, "allow-dirty", false, "Fix even with uncommitted git changes")
	cmd.Flags().StringVar(&backupName, "backup", "", "Backup strategy (copy, memory)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	return cmd
}
