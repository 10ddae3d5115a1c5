package varinspect

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

func num(v float64) *float64 { return &v }

func red() *Color   { return &Color{R: 1, A: 1} }
func green() *Color { return &Color{G: 1, A: 1} }

func solid(c *Color) Paint { return Paint{Type: "SOLID", Color: c} }

func boundPaint(id VariableID) Paint {
	return Paint{Type: "SOLID", Color: red(), BoundColor: id}
}

func header(id, name string) NodeHeader {
	return NodeHeader{ID: NodeID(id), Name: name}
}

func rect(id, name string, geom Geometry, corners Corners) *ShapeNode {
	h := header(id, name)
	h.Kind = KindRectangle
	return NewShapeNode(h, Blend{}, geom, corners)
}

func frame(id, name string, layout Layout, children ...Node) *FrameNode {
	h := header(id, name)
	h.Kind = KindFrame
	h.Children = children
	return NewFrameNode(h, Blend{}, Geometry{}, Corners{}, layout)
}

func labels(obs []Observation) []string {
	out := make([]string, 0, len(obs))
	for _, o := range obs {
		out = append(out, o.Label)
	}
	return out
}

func findObs(obs []Observation, label string) []Observation {
	var out []Observation
	for _, o := range obs {
		if o.Label == label {
			out = append(out, o)
		}
	}
	return out
}

// fakeHost is an in-memory Host with fault injection
type fakeHost struct {
	mu          sync.Mutex
	roots       []Node
	index       map[NodeID]Node
	collections []Collection
	vars        map[VariableID]*Variable
	library     map[string]*Variable
	importErr   error
	fetchErr    map[VariableID]error
	localErr    error
	fetchDelay  time.Duration
	viewport    []NodeID
	listeners   map[int]func()
	nextID      int

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	fetches     atomic.Int32
}

func newFakeHost(roots ...Node) *fakeHost {
	h := &fakeHost{
		index:     make(map[NodeID]Node),
		vars:      make(map[VariableID]*Variable),
		library:   make(map[string]*Variable),
		fetchErr:  make(map[VariableID]error),
		listeners: make(map[int]func()),
	}
	h.setRoots(roots...)
	return h
}

func (h *fakeHost) setRoots(roots ...Node) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.roots = roots
	var walk func(n Node)
	walk = func(n Node) {
		h.index[n.ID()] = n
		for _, c := range n.Children() {
			walk(c)
		}
	}
	for _, r := range roots {
		walk(r)
	}
}

func (h *fakeHost) addLocal(v *Variable) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.vars[v.ID] = v
	if len(h.collections) == 0 {
		h.collections = append(h.collections, Collection{ID: "c1", Name: "Tokens", Modes: []Mode{{ID: "m1", Name: "Light"}}})
	}
	h.collections[0].VariableIDs = append(h.collections[0].VariableIDs, v.ID)
}

func (h *fakeHost) addRemote(v *Variable) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.vars[v.ID] = v
}

func (h *fakeHost) Selection(ctx context.Context) ([]Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Node(nil), h.roots...), nil
}

func (h *fakeHost) NodeByID(id NodeID) (Node, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	n, ok := h.index[id]
	return n, ok
}

func (h *fakeHost) SetSelection(ids []NodeID) error {
	h.mu.Lock()
	roots := make([]Node, 0, len(ids))
	for _, id := range ids {
		n, ok := h.index[id]
		if !ok {
			h.mu.Unlock()
			return ErrNodeNotFound
		}
		roots = append(roots, n)
	}
	h.roots = roots
	h.mu.Unlock()
	h.fire()
	return nil
}

func (h *fakeHost) ScrollIntoView(ids []NodeID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.viewport = append([]NodeID(nil), ids...)
	return nil
}

func (h *fakeHost) OnSelectionChange(fn func()) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	h.mu.Unlock()
	return func() {
		h.mu.Lock()
		delete(h.listeners, id)
		h.mu.Unlock()
	}
}

func (h *fakeHost) fire() {
	h.mu.Lock()
	var fns []func()
	for _, fn := range h.listeners {
		fns = append(fns, fn)
	}
	h.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (h *fakeHost) LocalCollections(ctx context.Context) ([]Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.localErr != nil {
		return nil, h.localErr
	}
	return append([]Collection(nil), h.collections...), nil
}

func (h *fakeHost) VariableByID(ctx context.Context, id VariableID) (*Variable, error) {
	h.fetches.Add(1)
	n := h.inFlight.Add(1)
	defer h.inFlight.Add(-1)
	for {
		m := h.maxInFlight.Load()
		if n <= m || h.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}

	if h.fetchDelay > 0 {
		select {
		case <-time.After(h.fetchDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.fetchErr[id]; err != nil {
		return nil, err
	}
	v, ok := h.vars[id]
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (h *fakeHost) ImportVariable(ctx context.Context, key string) (*Variable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.importErr != nil {
		return nil, h.importErr
	}
	v, ok := h.library[key]
	if !ok {
		return nil, nil
	}
	return v, nil
}

var errBoom = errors.New("boom")
