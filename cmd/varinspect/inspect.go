package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/yacobolo/varinspect/internal/snapshot"
	"github.com/yacobolo/varinspect/internal/varinspect"
)

// defaultFetchTimeout bounds each variable fetch unless configured
const defaultFetchTimeout = 5 * time.Second

// errGateFailed is returned when strict mode rejects the result
var errGateFailed = errors.New("strict mode: inspection gate failed")

var inspectCmd = &cobra.Command{
	Use:   "inspect [snapshot|glob...]",
	Short: "Report bound and unbound properties of the selection",
	Long: `Load one or more design snapshots and report, for the selected layers,
which properties are bound to variables and which use raw values.
Without arguments the inspect.snapshots patterns from the config are used.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runInspect,
}

func init() {
	addInspectFlags(inspectCmd)
	addGateFlags(inspectCmd)
}

// addInspectFlags registers the flags shared by inspect, watch and focus
func addInspectFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("output-format", "", "Output format: issues|summary|full|json|markdown")
	f.StringSlice("ignore-layers", nil, "Layer name globs to leave out of the report")
	f.StringSlice("tokens", nil, "CSS files with custom property tokens used for suggestions")
	f.Int("concurrency", varinspect.DefaultConcurrency, "Maximum simultaneous variable fetches")
	f.Duration("timeout", defaultFetchTimeout, "Per-fetch timeout (0 = none)")
	f.Bool("print-layer-id", false, "Show layer ids next to layer names")
	f.Int("max-issues", 0, "Max issues to show (0=unlimited)")
	f.Int("max-same-issues", 0, "Max repeated issues to show (0=unlimited)")
}

// addGateFlags registers the one-shot selection and strict mode flags
func addGateFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringSlice("selection", nil, "Layer ids to select instead of the snapshot's selection")
	f.Bool("strict", false, "Exit 1 when any property is unbound (CI mode)")
	f.Float64("threshold", 0.0, "Minimum binding percentage for strict mode")
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg := buildInspectConfig(args)
	quiet := getBoolWithFallback("quiet", "quiet", false)
	logger := newLogger(os.Stderr, getBoolWithFallback("verbose", "verbose", false), quiet)
	cfg.Options.Logger = logger

	files, stats, err := snapshot.FindSnapshots(cfg.Snapshots)
	if err != nil {
		return fmt.Errorf("finding snapshots: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no snapshots match %v", cfg.Snapshots)
	}
	logger.Debug("snapshots found", "files", len(files), "skipped", stats.FilesSkipped)

	if err := loadTokens(&cfg); err != nil {
		return err
	}

	format := varinspect.DetermineOutputFormat(cfg.OutputFormat, quiet)
	var out io.Writer = os.Stdout
	if quiet {
		out = io.Discard
	}

	var failed bool
	for _, path := range files {
		report, err := inspectFile(cmd.Context(), path, cfg)
		if err != nil {
			return err
		}

		if len(files) > 1 && format != varinspect.OutputJSON {
			fmt.Fprintf(out, "==> %s <==\n", path)
		}
		if err := varinspect.WriteOutput(out, report, format, cfg.Report); err != nil {
			return err
		}

		if gateFailed(report, cfg, quiet, path) {
			failed = true
		}
	}

	if failed {
		return errGateFailed
	}
	return nil
}

// inspectFile runs one pass over a snapshot
func inspectFile(ctx context.Context, path string, cfg InspectConfig) (*varinspect.Report, error) {
	doc, err := snapshot.Load(path)
	if err != nil {
		return nil, err
	}
	host := snapshot.NewHost(doc)

	if len(cfg.Selection) > 0 {
		ids := make([]varinspect.NodeID, 0, len(cfg.Selection))
		for _, id := range cfg.Selection {
			ids = append(ids, varinspect.NodeID(id))
		}
		if err := host.SetSelection(ids); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	if ctx == nil {
		ctx = context.Background()
	}
	report, err := varinspect.Inspect(ctx, host, cfg.Options)
	if err != nil {
		return nil, fmt.Errorf("inspecting %s: %w", path, err)
	}
	return report, nil
}

func loadTokens(cfg *InspectConfig) error {
	if len(cfg.TokenFiles) == 0 {
		return nil
	}
	tokens, err := varinspect.LoadTokens(cfg.TokenFiles)
	if err != nil {
		return fmt.Errorf("loading tokens: %w", err)
	}
	cfg.Options.Tokens = tokens
	return nil
}

// gateFailed applies the "soft gate": only strict mode can fail a run
func gateFailed(report *varinspect.Report, cfg InspectConfig, quiet bool, path string) bool {
	if !cfg.Strict {
		return false
	}
	if len(report.Unbound) > 0 {
		if !quiet {
			fmt.Fprintf(os.Stderr, "\nStrict mode: %s has %d unbound properties\n", path, len(report.Unbound))
		}
		return true
	}
	if cfg.Threshold > 0 && !report.IsEmpty && report.Stats.BindingRatio < cfg.Threshold {
		if !quiet {
			fmt.Fprintf(os.Stderr, "\nStrict mode: binding ratio %.1f%% is below threshold %.1f%%\n",
				report.Stats.BindingRatio, cfg.Threshold)
		}
		return true
	}
	return false
}
