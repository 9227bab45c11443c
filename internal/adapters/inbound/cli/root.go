package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phdsystems/stratify/internal/adapters/outbound/detector"
	"github.com/phdsystems/stratify/internal/adapters/outbound/parser"
	"github.com/phdsystems/stratify/internal/domain"
)

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "stratify",
		Short:         "Enforce api/core/spi/facade layering across multi-module trees",
		Long:          "Stratify scans a multi-module Maven project for layering violations and can automatically repair them, with dry-run previews and per-fix rollback.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newFixCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newMCPCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}

// defaultDetectors builds the rule detectors for one run.
func defaultDetectors(rootPath string, mappings []domain.TypeMapping) []domain.RuleDetector {
	par := parser.New()
	return []domain.RuleDetector{
		detector.NewMissingAPI(),
		detector.NewMissingCore(),
		detector.NewFacadeReturn(par, mappings),
		detector.NewNullReturn(par),
		detector.NewWrapper(rootPath),
	}
}
