package varinspect

import (
	"maps"
	"slices"
	"strings"
)

// Binding is one node of a bound-variable tree. A leaf carries the
// variable id; composite fields (text ranges, arrays, line-height objects)
// carry children keyed by field name or array index.
type Binding struct {
	ID     VariableID
	Fields map[string]*Binding
}

// Alias returns a leaf binding for id
func Alias(id VariableID) *Binding {
	return &Binding{ID: id}
}

// Bindings is a node's bound-variable map keyed by field name
type Bindings map[string]*Binding

// BoundPath is a variable found while walking a binding tree
type BoundPath struct {
	Path string // dot-joined field path, e.g. "lineHeight" or "textRangeFills.0"
	ID   VariableID
}

// ID returns the variable directly bound to field, or "" if none
func (b Bindings) ID(field string) VariableID {
	if b == nil {
		return ""
	}
	if binding, ok := b[field]; ok && binding != nil {
		return binding.ID
	}
	return ""
}

// Has reports whether field is directly bound to a variable
func (b Bindings) Has(field string) bool {
	return b.ID(field) != ""
}

// Keys returns the bound field names in sorted order
func (b Bindings) Keys() []string {
	return slices.Sorted(maps.Keys(b))
}

// Walk visits the binding tree depth-first in key order and returns every
// (path, variable) pair whose path is not rejected by skip. Subtrees whose
// path is rejected are not descended into.
func (b Bindings) Walk(skip func(path string) bool) []BoundPath {
	var found []BoundPath
	for _, key := range b.Keys() {
		found = walkBinding(b[key], []string{key}, skip, found)
	}
	return found
}

func walkBinding(node *Binding, path []string, skip func(string) bool, found []BoundPath) []BoundPath {
	if node == nil {
		return found
	}
	joined := strings.Join(path, ".")
	if skip != nil && skip(joined) {
		return found
	}
	if node.ID != "" {
		found = append(found, BoundPath{Path: joined, ID: node.ID})
	}
	for _, key := range slices.Sorted(maps.Keys(node.Fields)) {
		found = walkBinding(node.Fields[key], append(slices.Clone(path), key), skip, found)
	}
	return found
}

// isFillPath reports whether a binding path belongs to the fills facet
func isFillPath(path string) bool {
	return path == "fills" || strings.HasPrefix(path, "fills.")
}
