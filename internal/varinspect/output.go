package varinspect

import (
	"fmt"
	"io"
	"strings"
)

// ParseOutputFormat maps a flag value to an OutputFormat
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(s) {
	case "", "issues":
		return OutputIssues, nil
	case "summary":
		return OutputSummary, nil
	case "full":
		return OutputFull, nil
	case "json":
		return OutputJSON, nil
	case "markdown", "md":
		return OutputMarkdown, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want issues, summary, full, json or markdown)", s)
	}
}

// DetermineOutputFormat selects the output format from flags
func DetermineOutputFormat(formatFlag string, quiet bool) OutputFormat {
	// quiet prints nothing; the caller only uses the exit code
	if quiet {
		return OutputIssues
	}
	format, err := ParseOutputFormat(formatFlag)
	if err != nil {
		return OutputIssues
	}
	return format
}

// WriteOutput writes the report in the specified format
func WriteOutput(w io.Writer, report *Report, format OutputFormat, config ReportConfig) error {
	switch format {
	case OutputIssues:
		reporter := NewReporter(w, config)
		truncated := reporter.PrintIssues(BuildIssues(report))
		reporter.PrintSummary(report, truncated)

	case OutputSummary:
		verbose := NewVerboseReporter(w, shouldUseColors(config))
		verbose.PrintStatistics(report)
		verbose.PrintBindingProgress(report)
		verbose.PrintQuickWins(report)
		verbose.PrintDiagnostics(report)

	case OutputFull:
		reporter := NewReporter(w, config)
		verbose := NewVerboseReporter(w, reporter.UseColors())
		verbose.PrintLayers(report)
		verbose.PrintStatistics(report)
		verbose.PrintBindingProgress(report)
		verbose.PrintQuickWins(report)
		verbose.PrintDiagnostics(report)

	case OutputJSON:
		if err := WriteJSON(w, report); err != nil {
			return fmt.Errorf("write json: %w", err)
		}

	case OutputMarkdown:
		if err := WriteMarkdown(w, report); err != nil {
			return fmt.Errorf("write markdown: %w", err)
		}

	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	return nil
}
