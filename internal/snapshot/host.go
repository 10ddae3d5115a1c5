package snapshot

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/yacobolo/varinspect/internal/varinspect"
)

// Host serves a loaded Document through the varinspect.Host interface.
// It is safe for concurrent use; Replace swaps the document in place.
type Host struct {
	mu        sync.RWMutex
	doc       *Document
	roots     []varinspect.Node
	index     map[varinspect.NodeID]varinspect.Node
	selection []varinspect.NodeID
	variables map[varinspect.VariableID]Variable
	library   map[string]Variable
	viewport  []varinspect.NodeID

	listenerMu sync.Mutex
	listeners  map[int]func()
	nextID     int
}

var _ varinspect.Host = (*Host)(nil)

// NewHost builds a host for doc
func NewHost(doc *Document) *Host {
	h := &Host{listeners: make(map[int]func())}
	h.load(doc)
	return h
}

func (h *Host) load(doc *Document) {
	index := make(map[varinspect.NodeID]varinspect.Node)
	roots := make([]varinspect.Node, 0, len(doc.Nodes))
	for _, raw := range doc.Nodes {
		roots = append(roots, buildNode(raw, index))
	}

	variables := make(map[varinspect.VariableID]Variable, len(doc.Variables))
	for _, v := range doc.Variables {
		variables[varinspect.VariableID(v.ID)] = v
	}
	library := make(map[string]Variable, len(doc.Library))
	for _, v := range doc.Library {
		library[v.Key] = v
	}

	selection := make([]varinspect.NodeID, 0, len(doc.Selection))
	for _, id := range doc.Selection {
		selection = append(selection, varinspect.NodeID(id))
	}

	h.mu.Lock()
	h.doc = doc
	h.roots = roots
	h.index = index
	h.selection = selection
	h.variables = variables
	h.library = library
	h.mu.Unlock()
}

// Replace swaps in a new document and notifies selection listeners
func (h *Host) Replace(doc *Document) {
	h.load(doc)
	h.notify()
}

// Name returns the document name
func (h *Host) Name() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.doc.Name
}

// Roots returns the top-level page nodes
func (h *Host) Roots() []varinspect.Node {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Clone(h.roots)
}

// Selection returns the selected nodes in selection order; unknown ids are skipped
func (h *Host) Selection(ctx context.Context) ([]varinspect.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	nodes := make([]varinspect.Node, 0, len(h.selection))
	for _, id := range h.selection {
		if n, ok := h.index[id]; ok {
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

// NodeByID looks up any node of the document
func (h *Host) NodeByID(id varinspect.NodeID) (varinspect.Node, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n, ok := h.index[id]
	return n, ok
}

// SetSelection replaces the selection and notifies listeners when it changed
func (h *Host) SetSelection(ids []varinspect.NodeID) error {
	h.mu.Lock()
	for _, id := range ids {
		if _, ok := h.index[id]; !ok {
			h.mu.Unlock()
			return fmt.Errorf("%w: %s", varinspect.ErrNodeNotFound, id)
		}
	}
	changed := !slices.Equal(h.selection, ids)
	h.selection = slices.Clone(ids)
	h.mu.Unlock()

	if changed {
		h.notify()
	}
	return nil
}

// ScrollIntoView records the viewport target
func (h *Host) ScrollIntoView(ids []varinspect.NodeID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.viewport = slices.Clone(ids)
	return nil
}

// Viewport returns the ids last scrolled into view
func (h *Host) Viewport() []varinspect.NodeID {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Clone(h.viewport)
}

// OnSelectionChange registers fn; the returned function removes it
func (h *Host) OnSelectionChange(fn func()) func() {
	h.listenerMu.Lock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	h.listenerMu.Unlock()

	return func() {
		h.listenerMu.Lock()
		delete(h.listeners, id)
		h.listenerMu.Unlock()
	}
}

func (h *Host) notify() {
	h.listenerMu.Lock()
	fns := make([]func(), 0, len(h.listeners))
	for _, fn := range h.listeners {
		fns = append(fns, fn)
	}
	h.listenerMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// LocalCollections returns the document's variable collections
func (h *Host) LocalCollections(ctx context.Context) ([]varinspect.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]varinspect.Collection, 0, len(h.doc.Collections))
	for _, c := range h.doc.Collections {
		col := varinspect.Collection{ID: c.ID, Name: c.Name}
		for _, m := range c.Modes {
			col.Modes = append(col.Modes, varinspect.Mode{ID: m.ModeID, Name: m.Name})
		}
		for _, id := range c.VariableIDs {
			col.VariableIDs = append(col.VariableIDs, varinspect.VariableID(id))
		}
		out = append(out, col)
	}
	return out, nil
}

// VariableByID returns (nil, nil) for unknown ids
func (h *Host) VariableByID(ctx context.Context, id varinspect.VariableID) (*varinspect.Variable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	v, ok := h.variables[id]
	if !ok {
		return nil, nil
	}
	return toVariable(v), nil
}

// ImportVariable returns the published library variable with key
func (h *Host) ImportVariable(ctx context.Context, key string) (*varinspect.Variable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.doc.ImportUnavailable {
		return nil, varinspect.ErrImportUnavailable
	}
	v, ok := h.library[key]
	if !ok {
		return nil, nil
	}
	return toVariable(v), nil
}
