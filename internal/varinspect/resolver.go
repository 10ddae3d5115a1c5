package varinspect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"golang.org/x/sync/errgroup"
)

// ErrImportUnavailable is returned by hosts that cannot import variables by key
var ErrImportUnavailable = errors.New("variable import unavailable")

// Mode is a variable collection mode
type Mode struct {
	ID   string
	Name string
}

// Collection is a local variable collection
type Collection struct {
	ID          string
	Name        string
	Modes       []Mode
	VariableIDs []VariableID
}

// ModeValue is a variable's value in one mode
type ModeValue struct {
	ModeID string
	Value  any
}

// Variable is a host variable definition
type Variable struct {
	ID     VariableID
	Key    string
	Name   string
	Type   DataType
	Remote bool
	// Values are ordered; the first entry is the "first mode"
	Values []ModeValue
}

// VariableSource is the host's variable API. Lookups return (nil, nil)
// when a variable does not exist.
type VariableSource interface {
	LocalCollections(ctx context.Context) ([]Collection, error)
	VariableByID(ctx context.Context, id VariableID) (*Variable, error)
	ImportVariable(ctx context.Context, key string) (*Variable, error)
}

// DefaultConcurrency bounds simultaneous host fetches
const DefaultConcurrency = 8

// Resolver turns variable ids into VariableRecords
type Resolver struct {
	Source       VariableSource
	Concurrency  int
	FetchTimeout time.Duration // 0 = host-defined
	Logger       *slog.Logger
}

// Resolution is the resolver output for one pass
type Resolution struct {
	Records     map[VariableID]VariableRecord
	Diagnostics []Diagnostic
}

type resolveState struct {
	mu      sync.Mutex
	records map[VariableID]VariableRecord
	diags   []Diagnostic
}

func (s *resolveState) set(id VariableID, rec VariableRecord) {
	s.mu.Lock()
	s.records[id] = rec
	s.mu.Unlock()
}

func (s *resolveState) note(d Diagnostic) {
	s.mu.Lock()
	s.diags = append(s.diags, d)
	s.mu.Unlock()
}

// Resolve loads every local variable, then resolves the referenced ids
// that are not local. Individual fetch failures degrade to fallback
// records; only cancellation of ctx aborts resolution.
func (r *Resolver) Resolve(ctx context.Context, referenced []VariableID) (*Resolution, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	state := &resolveState{records: make(map[VariableID]VariableRecord)}

	if err := r.loadLocal(ctx, state, logger); err != nil {
		return nil, err
	}

	missing := make([]VariableID, 0, len(referenced))
	for _, id := range referenced {
		if _, ok := state.records[id]; !ok && !slices.Contains(missing, id) {
			missing = append(missing, id)
		}
	}

	if err := r.loadExternal(ctx, state, missing, logger); err != nil {
		return nil, err
	}

	sort.Slice(state.diags, func(i, j int) bool {
		return state.diags[i].Message < state.diags[j].Message
	})

	logger.Debug("variables resolved",
		"records", len(state.records),
		"external", len(missing))

	return &Resolution{Records: state.records, Diagnostics: state.diags}, nil
}

func (r *Resolver) group(ctx context.Context) (*errgroup.Group, context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	limit := r.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	g.SetLimit(limit)
	return g, gctx
}

func (r *Resolver) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.FetchTimeout > 0 {
		return context.WithTimeout(ctx, r.FetchTimeout)
	}
	return context.WithCancel(ctx)
}

func (r *Resolver) loadLocal(ctx context.Context, state *resolveState, logger *slog.Logger) error {
	collections, err := r.Source.LocalCollections(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warn("local variable collections unavailable", "error", err)
		return nil
	}

	g, gctx := r.group(ctx)
	for _, col := range collections {
		for _, id := range col.VariableIDs {
			g.Go(func() error {
				fctx, cancel := r.fetchContext(gctx)
				defer cancel()

				v, err := r.Source.VariableByID(fctx, id)
				if err != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					logger.Warn("local variable fetch failed", "id", string(id), "error", err)
					return nil
				}
				if v == nil {
					return nil
				}
				state.set(id, recordFor(v, OriginLocal))
				return nil
			})
		}
	}
	return g.Wait()
}

func (r *Resolver) loadExternal(ctx context.Context, state *resolveState, ids []VariableID, logger *slog.Logger) error {
	g, gctx := r.group(ctx)
	for _, id := range ids {
		g.Go(func() error {
			rec, err := r.resolveExternal(gctx, id, logger)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logger.Debug("external variable fallback", "id", string(id), "error", err)
				state.note(Diagnostic{
					Kind:    DiagResolutionFallback,
					Message: fmt.Sprintf("variable %s could not be resolved: %v", id, err),
				})
			}
			state.set(id, rec)
			return nil
		})
	}
	return g.Wait()
}

// resolveExternal fetches a variable by id and then tries to import its
// published definition. The returned record is always usable; err reports
// why it is only a fallback.
func (r *Resolver) resolveExternal(ctx context.Context, id VariableID, logger *slog.Logger) (VariableRecord, error) {
	fallback := VariableRecord{Name: string(id), Type: TypeString, Origin: OriginExternal}

	fctx, cancel := r.fetchContext(ctx)
	v, err := r.Source.VariableByID(fctx, id)
	cancel()
	if err != nil {
		return fallback, fmt.Errorf("fetch: %w", err)
	}
	if v == nil {
		return fallback, errors.New("not found")
	}

	rec := recordFor(v, OriginExternal)
	if v.Key == "" {
		return rec, nil
	}

	ictx, icancel := r.fetchContext(ctx)
	imported, err := r.Source.ImportVariable(ictx, v.Key)
	icancel()
	switch {
	case errors.Is(err, ErrImportUnavailable):
		return rec, nil
	case err != nil:
		if ctx.Err() != nil {
			return rec, ctx.Err()
		}
		logger.Debug("variable import failed, keeping subscribed definition", "id", string(id), "key", v.Key, "error", err)
		return rec, nil
	case imported != nil:
		return recordFor(imported, OriginExternal), nil
	}
	return rec, nil
}

// recordFor builds a record from the variable's first mode
func recordFor(v *Variable, origin Origin) VariableRecord {
	rec := VariableRecord{Name: v.Name, Type: v.Type, Origin: origin}
	if len(v.Values) == 0 {
		return rec
	}
	first := v.Values[0].Value
	switch v.Type {
	case TypeColor:
		rec.ColorValue = decodeColor(first)
	case TypeFloat:
		rec.NumberValue = decodeNumber(first)
	}
	return rec
}

// decodeColor accepts a Color, *Color or a loosely typed {r,g,b[,a]} map
func decodeColor(value any) *Color {
	switch c := value.(type) {
	case Color:
		return &c
	case *Color:
		return c
	case map[string]any:
		_, hasR := c["r"]
		_, hasG := c["g"]
		_, hasB := c["b"]
		if !hasR && !hasG && !hasB {
			// Aliases and other objects
			return nil
		}
		out := Color{A: 1}
		if err := mapstructure.Decode(c, &out); err != nil {
			return nil
		}
		return &out
	}
	return nil
}

func decodeNumber(value any) *float64 {
	var f float64
	switch n := value.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return nil
	}
	return &f
}
