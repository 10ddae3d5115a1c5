package varinspect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrNodeNotFound is returned when a layer id does not exist in the host
var ErrNodeNotFound = errors.New("node not found")

// Host is the design application seen by the inspector
type Host interface {
	VariableSource
	// Selection returns the currently selected root layers
	Selection(ctx context.Context) ([]Node, error)
	NodeByID(id NodeID) (Node, bool)
	SetSelection(ids []NodeID) error
	ScrollIntoView(ids []NodeID) error
	// OnSelectionChange registers fn and returns a function that removes it
	OnSelectionChange(fn func()) (unsubscribe func())
}

// Options configures an inspection pass
type Options struct {
	Concurrency  int
	FetchTimeout time.Duration
	IgnoreLayers []string
	Tokens       []Token
	Logger       *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// Inspect runs one complete pass over the host's current selection
func Inspect(ctx context.Context, host Host, opts Options) (*Report, error) {
	start := time.Now()
	logger := opts.logger()

	if err := ValidateLayerPatterns(opts.IgnoreLayers); err != nil {
		return nil, err
	}

	roots, err := host.Selection(ctx)
	if err != nil {
		return nil, fmt.Errorf("read selection: %w", err)
	}

	extractor := &Extractor{IgnoreLayers: opts.IgnoreLayers, Logger: logger}
	ext := extractor.Extract(roots, NewDedupTracker())

	resolver := &Resolver{
		Source:       host,
		Concurrency:  opts.Concurrency,
		FetchTimeout: opts.FetchTimeout,
		Logger:       logger,
	}
	res, err := resolver.Resolve(ctx, referencedIDs(ext))
	if err != nil {
		return nil, fmt.Errorf("resolve variables: %w", err)
	}

	report := Aggregate(ext, res)
	report.Suggestions = Suggest(report.Unbound, res.Records, opts.Tokens)
	report.Duration = time.Since(start)

	logger.Debug("inspection complete",
		"layers", len(report.Layers),
		"bound", report.Stats.BoundCount,
		"unbound", report.Stats.UnboundCount,
		"duration", report.Duration)

	return report, nil
}

// referencedIDs lists the distinct variable ids of bound observations in encounter order
func referencedIDs(ext *Extraction) []VariableID {
	seen := make(map[VariableID]bool)
	var ids []VariableID
	for _, o := range ext.Bound {
		if !seen[o.VariableID] {
			seen[o.VariableID] = true
			ids = append(ids, o.VariableID)
		}
	}
	return ids
}

// FocusLayer selects a layer and scrolls it into view
func FocusLayer(host Host, id NodeID) (Node, error) {
	node, ok := host.NodeByID(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	ids := []NodeID{id}
	if err := host.SetSelection(ids); err != nil {
		return nil, fmt.Errorf("select %s: %w", id, err)
	}
	if err := host.ScrollIntoView(ids); err != nil {
		return nil, fmt.Errorf("scroll to %s: %w", id, err)
	}
	return node, nil
}
