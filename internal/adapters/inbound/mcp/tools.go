package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/phdsystems/stratify/internal/adapters/outbound/backup"
	"github.com/phdsystems/stratify/internal/adapters/outbound/config"
	"github.com/phdsystems/stratify/internal/adapters/outbound/detector"
	"github.com/phdsystems/stratify/internal/adapters/outbound/fixers"
	"github.com/phdsystems/stratify/internal/adapters/outbound/gitinfo"
	"github.com/phdsystems/stratify/internal/adapters/outbound/parser"
	"github.com/phdsystems/stratify/internal/adapters/outbound/scanner"
	"github.com/phdsystems/stratify/internal/application"
	"github.com/phdsystems/stratify/internal/domain"
	"github.com/phdsystems/stratify/internal/logging"
)

// registerTools registers all Stratify MCP tools on the given server.
func registerTools(s *server.MCPServer, projectPath string) {
	// 1. stratify_check
	s.AddTool(
		mcplib.NewTool("stratify_check",
			mcplib.WithDescription("Scan the project for layering violations and return the full report as JSON"),
		),
		handleCheck(projectPath),
	)

	// 2. stratify_fix
	s.AddTool(
		mcplib.NewTool("stratify_fix",
			mcplib.WithDescription("Detect layering violations and apply the registered fixers. Every fix is bracketed by a backup and rolled back on failure."),
			mcplib.WithBoolean("dry_run", mcplib.Description("Preview fixes without writing any file")),
			mcplib.WithString("rules", mcplib.Description("Comma-separated rule ids to fix (default: all)")),
		),
		handleFix(projectPath),
	)

	// 3. stratify_modules
	s.AddTool(
		mcplib.NewTool("stratify_modules",
			mcplib.WithDescription("Return the module index for the project: every Maven module with its layer submodule flags"),
		),
		handleModules(projectPath),
	)
}

// newCheckService creates the standard detection pipeline wiring.
func newCheckService() *application.CheckService {
	return application.NewCheckService(
		scanner.New(),
		config.New(),
		gitinfo.New(),
		newDetectors,
		logging.Nop(),
	)
}

func newDetectors(rootPath string, mappings []domain.TypeMapping) []domain.RuleDetector {
	par := parser.New()
	return []domain.RuleDetector{
		detector.NewMissingAPI(),
		detector.NewMissingCore(),
		detector.NewFacadeReturn(par, mappings),
		detector.NewNullReturn(par),
		detector.NewWrapper(rootPath),
	}
}

func handleCheck(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		report, err := newCheckService().Check(projectPath)
		if err != nil {
			return errorResult(fmt.Sprintf("check failed: %v", err)), nil
		}
		return jsonResult(report)
	}
}

func handleFix(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		report, err := newCheckService().Check(projectPath)
		if err != nil {
			return errorResult(fmt.Sprintf("check failed: %v", err)), nil
		}

		cfg, err := config.New().Load(projectPath)
		if err != nil {
			return errorResult(fmt.Sprintf("loading config: %v", err)), nil
		}

		strategy, err := backup.New(cfg.BackupStrategy)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		args := request.GetArguments()
		dryRun, _ := args["dry_run"].(bool)
		var rules []string
		if rulesStr, ok := args["rules"].(string); ok && rulesStr != "" {
			rules = splitAndTrim(rulesStr)
		}

		fixSvc := application.NewFixService(fixers.Default(), strategy, gitinfo.New(), logging.Nop())
		fixReport, err := fixSvc.Apply(projectPath, cfg, report.Violations, application.FixOptions{
			DryRun:      dryRun,
			Rules:       rules,
			MaxFailures: cfg.MaxFailures,
		})
		if err != nil {
			return errorResult(fmt.Sprintf("fix failed: %v", err)), nil
		}
		return jsonResult(fixReport)
	}
}

func handleModules(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		cfg, err := config.New().Load(projectPath)
		if err != nil {
			return errorResult(fmt.Sprintf("loading config: %v", err)), nil
		}
		scan, err := scanner.New().Scan(projectPath, cfg.ExcludePaths...)
		if err != nil {
			return errorResult(fmt.Sprintf("scan failed: %v", err)), nil
		}
		return jsonResult(scan.Modules)
	}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
