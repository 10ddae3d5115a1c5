package varinspect

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ReportConfig controls terminal output
type ReportConfig struct {
	UseColors     bool // force colors; otherwise auto-detected
	PrintLayerID  bool // show the layer id next to its name
	MaxIssues     int  // 0 = unlimited
	MaxSameIssues int  // 0 = unlimited
}

// Reporter prints unbound properties as lint issues
type Reporter struct {
	w         io.Writer
	useColors bool
	config    ReportConfig
}

// NewReporter creates a reporter writing to w
func NewReporter(w io.Writer, config ReportConfig) *Reporter {
	return &Reporter{
		w:         w,
		useColors: shouldUseColors(config),
		config:    config,
	}
}

// shouldUseColors determines if colors should be enabled
func shouldUseColors(config ReportConfig) bool {
	if config.UseColors {
		return true
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		return true
	}
	if fileInfo, err := os.Stdout.Stat(); err == nil && (fileInfo.Mode()&os.ModeCharDevice) != 0 {
		return true
	}
	return false
}

// PrintIssues prints one line per issue after applying limits and
// returns how many issues were truncated
func (r *Reporter) PrintIssues(issues []Issue) int {
	kept, truncated := LimitIssues(issues, r.config.MaxIssues, r.config.MaxSameIssues)
	for _, issue := range kept {
		r.printIssue(issue)
	}
	return truncated
}

// printIssue formats a single issue as "Layer: message (unbound)"
func (r *Reporter) printIssue(issue Issue) {
	location := issue.Layer
	if r.config.PrintLayerID {
		location = fmt.Sprintf("%s [%s]", issue.Layer, issue.LayerID)
	}

	fmt.Fprintf(r.w, "%s %s%s\n",
		RenderStyle(StyleCyan, location+":", r.useColors),
		issue.Text,
		RenderStyle(StyleGray, " (unbound)", r.useColors))

	if len(issue.Suggestions) > 0 {
		fmt.Fprintf(r.w, "\t%s\n", RenderStyle(StyleGreen, "→ "+strings.Join(issue.Suggestions, ", "), r.useColors))
	}
}

// PrintSummary prints the issue count line
func (r *Reporter) PrintSummary(report *Report, truncated int) {
	total := len(report.Unbound)

	fmt.Fprintln(r.w, "")
	if report.IsEmpty {
		fmt.Fprintln(r.w, "No properties found in the selection.")
		return
	}

	if truncated > 0 {
		fmt.Fprintf(r.w, "%s (%s truncated), %s:\n",
			pluralizeCount(total, "unbound property", "unbound properties"),
			pluralizeCount(truncated, "issue", "issues"),
			pluralizeCount(report.Stats.BoundCount, "bound property", "bound properties"))
	} else {
		fmt.Fprintf(r.w, "%s, %s:\n",
			pluralizeCount(total, "unbound property", "unbound properties"),
			pluralizeCount(report.Stats.BoundCount, "bound property", "bound properties"))
	}
	fmt.Fprintf(r.w, "* layers: %d\n", len(report.Layers))
	fmt.Fprintf(r.w, "* local variables: %d\n", report.Stats.LocalBound)
	fmt.Fprintf(r.w, "* external variables: %d\n", report.Stats.ExternalBound)

	if total > 0 {
		fmt.Fprintln(r.w, "")
		fmt.Fprintln(r.w, RenderStyle(StyleGray, "Hint: Run with --output-format full to see every layer and suggestions", r.useColors))
	}
}

// pluralizeCount returns a formatted string with count and singular/plural form
func pluralizeCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

// UseColors returns whether colors are enabled
func (r *Reporter) UseColors() bool {
	return r.useColors
}
