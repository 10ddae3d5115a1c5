package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/yacobolo/varinspect/internal/snapshot"
	"github.com/yacobolo/varinspect/internal/varinspect"
)

var focusCmd = &cobra.Command{
	Use:   "focus <snapshot> <layer-id>",
	Short: "Select a layer, scroll it into view and inspect it",
	Long: `Focus a single layer the way clicking a layer name in the report does:
the layer becomes the selection, the viewport moves to it and the new
selection is inspected.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runFocus,
}

func init() {
	addInspectFlags(focusCmd)
}

func runFocus(cmd *cobra.Command, args []string) error {
	cfg := buildInspectConfig(args[:1])
	quiet := getBoolWithFallback("quiet", "quiet", false)
	cfg.Options.Logger = newLogger(os.Stderr, getBoolWithFallback("verbose", "verbose", false), quiet)

	if err := loadTokens(&cfg); err != nil {
		return err
	}

	doc, err := snapshot.Load(args[0])
	if err != nil {
		return err
	}
	host := snapshot.NewHost(doc)

	node, err := varinspect.FocusLayer(host, varinspect.NodeID(args[1]))
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if quiet {
		out = io.Discard
	}
	format := varinspect.DetermineOutputFormat(cfg.OutputFormat, quiet)
	if format != varinspect.OutputJSON {
		fmt.Fprintf(out, "Focused %s %q (viewport: %v)\n\n", node.Kind(), node.Name(), host.Viewport())
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := varinspect.Inspect(ctx, host, cfg.Options)
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", node.ID(), err)
	}
	return varinspect.WriteOutput(out, report, format, cfg.Report)
}
