package varinspect

// propertyKey identifies a reported property within one pass
type propertyKey struct {
	node     NodeID
	label    string
	variable VariableID
}

// DedupTracker remembers what one pass has already reported. A new
// tracker is created for every pass; trackers are never shared.
type DedupTracker struct {
	seen          map[propertyKey]bool
	boundFontSize map[NodeID]bool
}

// NewDedupTracker creates an empty tracker
func NewDedupTracker() *DedupTracker {
	return &DedupTracker{
		seen:          make(map[propertyKey]bool),
		boundFontSize: make(map[NodeID]bool),
	}
}

// Seen records (node, label, variable) and reports whether it was already
// recorded. Spacing labels are recorded but never reported as seen.
func (d *DedupTracker) Seen(node NodeID, label string, variable VariableID) bool {
	key := propertyKey{node: node, label: label, variable: variable}
	if IsSpacingLabel(label) {
		d.seen[key] = true
		return false
	}
	if d.seen[key] {
		return true
	}
	d.seen[key] = true
	return false
}

// MarkFontSizeBound records that node's font size is bound to a variable
func (d *DedupTracker) MarkFontSizeBound(node NodeID) {
	d.boundFontSize[node] = true
}

// FontSizeBound reports whether node's font size was found bound in this pass
func (d *DedupTracker) FontSizeBound(node NodeID) bool {
	return d.boundFontSize[node]
}
