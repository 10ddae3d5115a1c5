package varinspect

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WriteMarkdown writes the report as a Markdown document with one table per layer
func WriteMarkdown(w io.Writer, report *Report) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "# Variable Inspection Report")
	fmt.Fprintln(bw)

	if report.IsEmpty {
		fmt.Fprintln(bw, "_No properties found in the selection._")
		return bw.Flush()
	}

	s := report.Stats
	fmt.Fprintf(bw, "- Layers inspected: %d\n", s.LayersInspected)
	fmt.Fprintf(bw, "- Bound properties: %d (%.1f%%)\n", s.BoundCount, s.BindingRatio)
	fmt.Fprintf(bw, "- Local variables: %d\n", s.LocalBound)
	fmt.Fprintf(bw, "- External variables: %d\n", s.ExternalBound)
	fmt.Fprintf(bw, "- Unbound properties: %d\n", s.UnboundCount)

	for _, layer := range report.Layers {
		fmt.Fprintln(bw)
		fmt.Fprintf(bw, "## %s\n\n", mdEscape(layer.LayerName))
		fmt.Fprintf(bw, "_%s_ `%s`\n\n", layer.Type, layer.LayerID)
		fmt.Fprintln(bw, "| Property | Variable | Value |")
		fmt.Fprintln(bw, "|---|---|---|")
		for _, item := range layer.Bound {
			writeMarkdownItem(bw, item)
		}
		for _, item := range layer.Unbound {
			writeMarkdownItem(bw, item)
		}
	}

	if len(report.Suggestions) > 0 {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "## Quick Wins")
		fmt.Fprintln(bw)
		for _, sug := range report.Suggestions {
			fmt.Fprintf(bw, "- %s `%s` (%s): use %s\n",
				sug.Label, sug.Value,
				pluralizeCount(sug.Occurrences, "occurrence", "occurrences"),
				"`"+strings.Join(sug.Candidates, "`, `")+"`")
		}
	}

	if len(report.Diagnostics) > 0 {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "## Diagnostics")
		fmt.Fprintln(bw)
		for _, d := range report.Diagnostics {
			fmt.Fprintf(bw, "- %s\n", mdEscape(d.Message))
		}
	}

	return bw.Flush()
}

func writeMarkdownItem(w io.Writer, item Item) {
	if item.Group != nil {
		for _, sub := range item.Group.Items {
			writeMarkdownRow(w, item.Group.Label+" / "+sub.Label, sub.Observation)
		}
		return
	}
	if item.Observation != nil {
		writeMarkdownRow(w, item.Observation.Label, *item.Observation)
	}
}

func writeMarkdownRow(w io.Writer, label string, o AggregatedObservation) {
	variable, value := "", o.Value
	if o.Bound() {
		variable = string(o.VariableID)
		if o.Variable != nil {
			variable = o.Variable.Name
			if o.Variable.Origin == OriginExternal {
				variable += " (external)"
			}
			if o.Variable.ColorValue != nil {
				value = FormatColor(*o.Variable.ColorValue)
			} else if o.Variable.NumberValue != nil {
				value = FormatNumber(*o.Variable.NumberValue)
			}
		}
	}
	fmt.Fprintf(w, "| %s | %s | %s |\n", mdEscape(label), mdEscape(variable), mdEscape(value))
}

var mdReplacer = strings.NewReplacer("|", `\|`, "\n", " ")

func mdEscape(s string) string {
	return mdReplacer.Replace(s)
}
