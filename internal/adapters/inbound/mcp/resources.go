package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/phdsystems/stratify/internal/adapters/outbound/config"
	"github.com/phdsystems/stratify/internal/adapters/outbound/scanner"
)

// registerResources registers all Stratify MCP resources on the given server.
func registerResources(s *server.MCPServer, projectPath string) {
	// 1. stratify://report - current violation report
	s.AddResource(
		mcplib.NewResource(
			"stratify://report",
			"Violation Report",
			mcplib.WithResourceDescription("Current layering violation report for the project"),
			mcplib.WithMIMEType("application/json"),
		),
		handleReportResource(projectPath),
	)

	// 2. stratify://modules/{name} - per-module layer flags (resource template)
	s.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			"stratify://modules/{name}",
			"Module Layers",
			mcplib.WithTemplateDescription("Layer submodule flags for a specific module"),
			mcplib.WithTemplateMIMEType("application/json"),
		),
		handleModuleResource(projectPath),
	)
}

func handleReportResource(projectPath string) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		report, err := newCheckService().Check(projectPath)
		if err != nil {
			return nil, fmt.Errorf("check failed: %w", err)
		}

		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling report: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      "stratify://report",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}

func handleModuleResource(projectPath string) server.ResourceTemplateHandlerFunc {
	return func(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		moduleName, ok := request.Params.Arguments["name"].(string)
		if !ok || moduleName == "" {
			return nil, fmt.Errorf("module name is required")
		}

		cfg, err := config.New().Load(projectPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		scan, err := scanner.New().Scan(projectPath, cfg.ExcludePaths...)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}

		for _, module := range scan.Modules {
			if module.BaseName == moduleName {
				data, err := json.MarshalIndent(module, "", "  ")
				if err != nil {
					return nil, fmt.Errorf("marshaling module: %w", err)
				}
				return []mcplib.ResourceContents{
					mcplib.TextResourceContents{
						URI:      request.Params.URI,
						MIMEType: "application/json",
						Text:     string(data),
					},
				}, nil
			}
		}

		return nil, fmt.Errorf("module %q not found", moduleName)
	}
}
