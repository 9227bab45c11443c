package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/phdsystems/stratify/internal/domain"
)

// ── warm terminal palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent)
	headingStyle  = lipgloss.NewStyle().Bold(true).Foreground(fg)
	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	okStyle       = lipgloss.NewStyle().Foreground(success)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	infoTagStyle  = lipgloss.NewStyle().Foreground(dim)
	fileStyle     = lipgloss.NewStyle().Foreground(dim)
	removedStyle  = lipgloss.NewStyle().Foreground(danger)
	addedStyle    = lipgloss.NewStyle().Foreground(success)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

func severityTag(severity string) string {
	switch severity {
	case domain.SeverityError:
		return errorTagStyle.Render("ERROR")
	case domain.SeverityWarning:
		return warnTagStyle.Render("WARN ")
	default:
		return infoTagStyle.Render("INFO ")
	}
}

// RenderCheckReport renders a detection run for the terminal.
func RenderCheckReport(report *domain.CheckReport) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("stratify check"))
	b.WriteString(dimStyle.Render("  " + report.ProjectPath))
	if report.CommitHash != "" {
		b.WriteString(faintStyle.Render("  @" + shortHash(report.CommitHash)))
	}
	b.WriteString("\n")
	b.WriteString(separatorLine + "\n")

	fmt.Fprintf(&b, "%s %d module(s) indexed\n", headingStyle.Render("Modules:"), len(report.Modules))
	for _, m := range report.Modules {
		b.WriteString("  " + fileStyle.Render(filepath.Base(m.Path)))
		b.WriteString(dimStyle.Render("  " + layerSummary(m)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(report.Violations) == 0 {
		b.WriteString(okStyle.Render("✓ no layering violations") + "\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%s %d\n", headingStyle.Render("Violations:"), len(report.Violations))
	for _, v := range report.Violations {
		fmt.Fprintf(&b, "  %s %s %s\n", severityTag(v.Severity), dimStyle.Render(v.RuleID), v.Message)
		loc := v.Location
		if v.Line > 0 {
			loc = fmt.Sprintf("%s:%d", loc, v.Line)
		}
		b.WriteString("        " + fileStyle.Render(loc) + "\n")
		if v.SuggestedFix != "" {
			b.WriteString("        " + faintStyle.Render("fix: "+v.SuggestedFix) + "\n")
		}
	}

	b.WriteString(separatorLine + "\n")
	fmt.Fprintf(&b, "%s %d  %s %d  %s %d\n",
		errorTagStyle.Render("errors"), report.Counts[domain.SeverityError],
		warnTagStyle.Render("warnings"), report.Counts[domain.SeverityWarning],
		infoTagStyle.Render("info"), report.Counts[domain.SeverityInfo])
	return b.String()
}

// RenderFixReport renders a remediation run for the terminal.
func RenderFixReport(report *domain.FixReport) string {
	var b strings.Builder

	header := "stratify fix"
	if report.DryRun {
		header += " (dry run)"
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString(dimStyle.Render("  " + report.ProjectPath))
	b.WriteString("\n" + separatorLine + "\n")

	for _, res := range report.Results {
		fmt.Fprintf(&b, "  %s %s %s\n",
			statusTag(res.Status), dimStyle.Render(res.Violation.RuleID), res.Description)
		for _, d := range res.Diffs {
			if d.Removed != "" {
				b.WriteString("      " + removedStyle.Render("- "+strings.TrimSpace(d.Removed)) + "\n")
			}
			if d.Added != "" {
				b.WriteString("      " + addedStyle.Render("+ "+strings.TrimSpace(d.Added)) + "\n")
			}
		}
	}

	b.WriteString(separatorLine + "\n")
	fmt.Fprintf(&b, "%s %d  %s %d  %s %d  %s %d",
		okStyle.Render("fixed"), report.Counts[domain.StatusFixed],
		infoTagStyle.Render("dry-run"), report.Counts[domain.StatusDryRun],
		dimStyle.Render("skipped"), report.Counts[domain.StatusSkipped],
		errorTagStyle.Render("failed"), report.Counts[domain.StatusFailed])
	if report.Abandoned > 0 {
		fmt.Fprintf(&b, "  %s %d", warnTagStyle.Render("abandoned"), report.Abandoned)
	}
	b.WriteString("\n")
	return b.String()
}

func layerSummary(m domain.ModuleInfo) string {
	var layers []string
	for _, role := range []string{domain.RoleAPI, domain.RoleCore, domain.RoleSPI, domain.RoleFacade} {
		if m.HasRole(role) {
			layers = append(layers, role)
		}
	}
	if len(layers) == 0 {
		if m.HasSubmodules {
			return "submodules, no layer roles"
		}
		return "leaf"
	}
	return strings.Join(layers, "+")
}

func statusTag(status domain.FixStatus) string {
	switch status {
	case domain.StatusFixed:
		return okStyle.Render("FIXED  ")
	case domain.StatusDryRun:
		return infoTagStyle.Render("DRY_RUN")
	case domain.StatusFailed:
		return errorTagStyle.Render("FAILED ")
	default:
		return dimStyle.Render("SKIPPED")
	}
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
