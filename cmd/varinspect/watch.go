package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/yacobolo/varinspect/internal/snapshot"
	"github.com/yacobolo/varinspect/internal/varinspect"
)

var watchCmd = &cobra.Command{
	Use:   "watch <snapshot>",
	Short: "Re-inspect a snapshot whenever it changes",
	Long: `Watch a snapshot file and print a fresh report every time the file or
its selection changes. Bursts of changes are debounced and a pass that is
overtaken by a newer change is discarded.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runWatch,
}

func init() {
	addInspectFlags(watchCmd)
	watchCmd.Flags().Duration("debounce", varinspect.DefaultDebounce, "Quiet period before re-inspecting")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := buildInspectConfig(args)
	quiet := getBoolWithFallback("quiet", "quiet", false)
	logger := newLogger(os.Stderr, getBoolWithFallback("verbose", "verbose", false), quiet)
	cfg.Options.Logger = logger
	wait := getDurationWithFallback("debounce", "watch.debounce", varinspect.DefaultDebounce)

	if err := loadTokens(&cfg); err != nil {
		return err
	}

	path := args[0]
	doc, err := snapshot.Load(path)
	if err != nil {
		return err
	}
	host := snapshot.NewHost(doc)

	watcher, err := snapshot.NewWatcher(path, host, logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var out io.Writer = os.Stdout
	if quiet {
		out = io.Discard
	}
	format := varinspect.DetermineOutputFormat(cfg.OutputFormat, quiet)
	sink := newReportSink(out, format, cfg.Report, logger.Error)

	session := varinspect.NewSession(host, cfg.Options, wait, sink.write, func(err error) {
		logger.Error("inspection failed", "error", err)
	})
	session.Start(ctx)
	defer session.Close()

	logger.Info("watching snapshot", "path", path, "debounce", wait)
	return watcher.Run(ctx)
}

// reportSink serialises report output from session callbacks
type reportSink struct {
	mu     sync.Mutex
	w      io.Writer
	format varinspect.OutputFormat
	config varinspect.ReportConfig
	logErr func(msg string, args ...any)
}

func newReportSink(w io.Writer, format varinspect.OutputFormat, config varinspect.ReportConfig, logErr func(string, ...any)) *reportSink {
	return &reportSink{w: w, format: format, config: config, logErr: logErr}
}

func (s *reportSink) write(report *varinspect.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format != varinspect.OutputJSON {
		fmt.Fprintf(s.w, "==> pass %d (%s) <==\n", report.Generation, report.Duration.Round(time.Millisecond))
	}
	if err := varinspect.WriteOutput(s.w, report, s.format, s.config); err != nil {
		s.logErr("writing report", "error", err)
	}
}
