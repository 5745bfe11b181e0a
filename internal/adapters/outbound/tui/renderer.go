// Package tui renders pipeline reports for terminal display.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/camelcase"

	"github.com/kintsugidata/kintsugi/internal/domain"
)

var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3")
	dim     = lipgloss.Color("#6B7280")
	faint   = lipgloss.Color("#3F3F46")
	success = lipgloss.Color("#22C55E")
	danger  = lipgloss.Color("#EF4444")
	warning = lipgloss.Color("#F59E0B")
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(64)

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	separatorLine = faintStyle.Render(strings.Repeat("─", 60))
)

var statusStyles = map[domain.RunStatus]lipgloss.Style{
	domain.StatusSuccess:            passStyle,
	domain.StatusHealedSuccess:      passStyle,
	domain.StatusHealingApplied:     warnStyle,
	domain.StatusNoChanges:          warnStyle,
	domain.StatusFailed:             failStyle,
	domain.StatusFailedAfterHealing: failStyle,
}

// RenderQualityReport formats the validation outcome with per-column null
// fractions and the ordered violation list.
func RenderQualityReport(report domain.QualityReport) string {
	var b strings.Builder

	b.WriteString("  " + titleStyle.Render("Data Quality") + "\n\n")
	b.WriteString(fmt.Sprintf("  %s %d\n", dimStyle.Render("rows"), report.RowCount))

	for _, rule := range sortedFractionColumns(report) {
		b.WriteString(fmt.Sprintf("  %s %.2f null\n",
			dimStyle.Render(ColumnLabel(rule)), report.NullFractions[rule]))
	}
	b.WriteString("\n")

	if report.Passing() {
		b.WriteString("  " + passStyle.Render("All quality checks passed.") + "\n")
		return b.String()
	}

	b.WriteString("  " + failStyle.Render(fmt.Sprintf("%d violation(s)", len(report.Violations))) + "\n")
	for _, v := range report.Violations {
		b.WriteString(fmt.Sprintf("    %s %s\n", failStyle.Render("✗"), v.Describe()))
	}
	return b.String()
}

// RenderDriftReport formats the drift outcome.
func RenderDriftReport(report domain.DriftReport) string {
	var b strings.Builder

	b.WriteString("  " + titleStyle.Render("Drift") + "\n\n")
	if report.Mode == domain.DriftBaselineCreated {
		b.WriteString("  " + dimStyle.Render("No reference profile found; baseline created.") + "\n")
		return b.String()
	}

	if !report.Drifted() {
		b.WriteString("  " + passStyle.Render("No significant drift in numeric columns.") + "\n")
		return b.String()
	}

	for _, d := range report.DriftedColumns {
		b.WriteString(fmt.Sprintf("    %s %s mean %.2f → %.2f (%.0f%% change)\n",
			warnStyle.Render("▲"), ColumnLabel(d.Column), d.BaselineMean, d.CurrentMean, d.RelativeChange*100))
	}
	return b.String()
}

// RenderHealingResult formats the applied configuration changes.
func RenderHealingResult(result domain.HealingResult) string {
	var b strings.Builder

	b.WriteString("  " + titleStyle.Render("Self-Healing") + "\n\n")
	if !result.Applied() {
		b.WriteString("  " + dimStyle.Render("No configuration changes to apply.") + "\n")
		return b.String()
	}

	for _, change := range result.Changes {
		b.WriteString(fmt.Sprintf("    %s %s\n", warnStyle.Render("⚙"), change))
	}
	return b.String()
}

// RenderRunResult formats the full run: banner, reports, incident trail.
func RenderRunResult(result *domain.RunResult) string {
	var b strings.Builder

	title := headerStyle.Render("kintsugi")
	subtitle := dimStyle.Render("Self-Healing Data Pipeline")
	outcome := statusStyle(result.Outcome).Bold(true).Render(string(result.Outcome))
	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + outcome))
	b.WriteString("\n\n")

	if result.Report != nil {
		b.WriteString(RenderQualityReport(*result.Report))
		b.WriteString("\n")
	}
	if result.Healing != nil {
		b.WriteString(RenderHealingResult(*result.Healing))
		b.WriteString("\n")
	}
	if result.Drift != nil {
		b.WriteString(RenderDriftReport(*result.Drift))
		b.WriteString("\n")
	}

	b.WriteString("  " + separatorLine + "\n")
	for _, inc := range result.Incidents {
		b.WriteString(renderIncidentLine(inc))
	}
	return b.String()
}

// RenderIncidents formats the audit trail for the incidents command.
func RenderIncidents(incidents []domain.Incident) string {
	if len(incidents) == 0 {
		return "  " + dimStyle.Render("No incidents recorded.") + "\n"
	}

	var b strings.Builder
	b.WriteString("  " + titleStyle.Render("Incidents") + "\n\n")
	for _, inc := range incidents {
		b.WriteString(renderIncidentLine(inc))
	}
	return b.String()
}

func renderIncidentLine(inc domain.Incident) string {
	line := fmt.Sprintf("  %s  %-10s %s",
		dimStyle.Render(inc.RunID),
		inc.Stage,
		statusStyle(inc.Status).Render(string(inc.Status)))
	if inc.ErrorType != "" {
		line += "  " + faintStyle.Render(inc.ErrorType)
	}
	return line + "\n"
}

func statusStyle(status domain.RunStatus) lipgloss.Style {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return dimStyle
}

// ColumnLabel humanizes a column identifier for display: underscores
// become spaces and camelCase words are split.
func ColumnLabel(name string) string {
	var words []string
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		words = append(words, camelcase.Split(part)...)
	}
	if len(words) == 0 {
		return name
	}
	return strings.ToLower(strings.Join(words, " "))
}

func sortedFractionColumns(report domain.QualityReport) []string {
	names := make([]string, 0, len(report.NullFractions))
	for name := range report.NullFractions {
		names = append(names, name)
	}
	// Small maps; insertion order is lost anyway, so sort for stable output.
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
	return names
}
