package varinspect

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// VerboseReporter prints the per-layer listing, statistics and suggestions
type VerboseReporter struct {
	w         io.Writer
	useColors bool
}

// NewVerboseReporter creates a verbose reporter
func NewVerboseReporter(w io.Writer, useColors bool) *VerboseReporter {
	return &VerboseReporter{
		w:         w,
		useColors: useColors,
	}
}

// PrintLayers lists every layer group with its bound and unbound items
func (r *VerboseReporter) PrintLayers(report *Report) {
	if report.IsEmpty {
		fmt.Fprintln(r.w, "No properties found in the selection.")
		return
	}

	for i, layer := range report.Layers {
		if i > 0 {
			fmt.Fprintln(r.w, "")
		}
		fmt.Fprintf(r.w, "%s %s\n",
			RenderStyle(StyleCyan, layer.LayerName, r.useColors),
			RenderStyle(StyleGray, strings.ToLower(layer.Type), r.useColors))

		for _, item := range layer.Bound {
			r.printItem(item)
		}
		for _, item := range layer.Unbound {
			r.printItem(item)
		}
	}
}

func (r *VerboseReporter) printItem(item Item) {
	if item.Group != nil {
		fmt.Fprintf(r.w, "  %s\n", item.Group.Label)
		for _, sub := range item.Group.Items {
			fmt.Fprintf(r.w, "    %-12s %s\n", sub.Label, r.describe(sub.Observation))
		}
		return
	}
	if item.Observation != nil {
		fmt.Fprintf(r.w, "  %-14s %s\n", item.Observation.Label, r.describe(*item.Observation))
	}
}

func (r *VerboseReporter) describe(o AggregatedObservation) string {
	if o.Bound() {
		return renderPill(o, r.useColors)
	}
	return RenderStyle(StyleYellow, o.Value, r.useColors)
}

// PrintStatistics outputs pass statistics
func (r *VerboseReporter) PrintStatistics(report *Report) {
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "Variable Binding Statistics", r.useColors))
	fmt.Fprintln(r.w, "---------------------------")

	s := report.Stats
	fmt.Fprintf(r.w, "Layers Inspected:    %d\n", s.LayersInspected)
	fmt.Fprintf(r.w, "Bound Properties:    %d (%.1f%%)\n", s.BoundCount, s.BindingRatio)
	fmt.Fprintf(r.w, "Local Variables:     %d\n", s.LocalBound)
	fmt.Fprintf(r.w, "External Variables:  %d\n", s.ExternalBound)
	fmt.Fprintf(r.w, "Unbound Properties:  %d\n", s.UnboundCount)
	if report.Duration > 0 {
		fmt.Fprintf(r.w, "Duration:            %s\n", report.Duration.Round(time.Millisecond))
	}
}

// PrintBindingProgress shows the binding ratio as a progress bar
func (r *VerboseReporter) PrintBindingProgress(report *Report) {
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "Binding Progress", r.useColors))
	fmt.Fprintln(r.w, "----------------")
	printProgressBar(r.w, report.Stats.BindingRatio)
}

// PrintQuickWins lists literals that already have a matching variable or token
func (r *VerboseReporter) PrintQuickWins(report *Report) {
	if len(report.Suggestions) == 0 {
		return
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleGreen, "Quick Wins", r.useColors))
	fmt.Fprintln(r.w, "-------------")

	for i, s := range report.Suggestions {
		if i >= 10 {
			break
		}
		fmt.Fprintf(r.w, "%d. %s %s - %s → Use %s\n",
			i+1, s.Label, s.Value,
			pluralizeCount(s.Occurrences, "occurrence", "occurrences"),
			strings.Join(s.Candidates, ", "))
	}
}

// PrintDiagnostics shows notes about reduced fidelity
func (r *VerboseReporter) PrintDiagnostics(report *Report) {
	if len(report.Diagnostics) == 0 {
		return
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleYellow, "Diagnostics", r.useColors))
	fmt.Fprintln(r.w, "-----------")

	for _, d := range report.Diagnostics {
		fmt.Fprintf(r.w, "• %s\n", d.Message)
	}
}

// printProgressBar draws a 20 cell bar for pct in [0, 100]
func printProgressBar(w io.Writer, pct float64) {
	const width = 20
	filled := int(pct / 100 * width)
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	fmt.Fprintf(w, "[%s%s] %.1f%%\n",
		strings.Repeat("█", filled),
		strings.Repeat("░", width-filled),
		pct)
}
