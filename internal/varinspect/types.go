// Package varinspect reports, for every visual property of a design
// selection, whether it is bound to a design variable or carries a raw
// literal value.
//
// # Pipeline
//
// One inspection pass runs three stages:
//
//  1. Extract walks the selected layers (pre-order) and produces flat
//     bound and unbound Observation lists.
//  2. Resolve builds a VariableRecord for every local variable and for
//     every external variable the bound observations reference.
//  3. Aggregate joins, deduplicates, groups and orders the observations
//     into a Report.
//
// Inspect runs one pass; Session reruns passes on selection changes and
// cancels superseded ones.
package varinspect

import "time"

// DataType is a variable's resolved type
type DataType string

// Variable data types
const (
	TypeColor   DataType = "COLOR"
	TypeFloat   DataType = "FLOAT"
	TypeString  DataType = "STRING"
	TypeBoolean DataType = "BOOLEAN"
)

// Origin tells whether a variable is defined in the current document
type Origin string

// Variable origins
const (
	OriginLocal    Origin = "local"
	OriginExternal Origin = "external"
)

// Observation is one extracted property of one layer. Exactly one of
// VariableID (bound) and Value (unbound) is set.
type Observation struct {
	LayerID    NodeID     `json:"layerId"`
	LayerName  string     `json:"layer"`
	Label      string     `json:"property"`
	VariableID VariableID `json:"id,omitempty"`
	Value      string     `json:"value,omitempty"`
	// Visit is the traversal counter of the layer (pre-order, 0-based)
	Visit int `json:"-"`
}

// Bound reports whether the observation references a variable
func (o Observation) Bound() bool {
	return o.VariableID != ""
}

// VariableRecord is resolved metadata for a variable id
type VariableRecord struct {
	Name       string   `json:"name"`
	Type       DataType `json:"type"`
	Origin     Origin   `json:"origin"`
	ColorValue *Color   `json:"colorValue,omitempty"`
	// NumberValue is the first-mode value of FLOAT variables
	NumberValue *float64 `json:"numberValue,omitempty"`
}

// LayerInfo orders and describes a layer in the report
type LayerInfo struct {
	ID     NodeID `json:"id"`
	Name   string `json:"name"`
	Order  int    `json:"order"`
	Parent NodeID `json:"parent,omitempty"`
	Type   string `json:"type"`
}

// AggregatedObservation is an observation joined with its variable record
type AggregatedObservation struct {
	LayerID    NodeID          `json:"layerId"`
	LayerName  string          `json:"layer"`
	Label      string          `json:"property"`
	VariableID VariableID      `json:"id,omitempty"`
	Variable   *VariableRecord `json:"variable,omitempty"`
	Value      string          `json:"value,omitempty"`
}

// Bound reports whether the observation references a variable
func (a AggregatedObservation) Bound() bool {
	return a.VariableID != ""
}

// SubItem is one member of a PropertyGroup, e.g. "Top Left" of "Radius"
type SubItem struct {
	Label       string                `json:"label"`
	Observation AggregatedObservation `json:"observation"`
}

// PropertyGroup merges sibling properties of one family
type PropertyGroup struct {
	Label string    `json:"label"`
	Items []SubItem `json:"items"`
}

// Item is either a single observation or a property group
type Item struct {
	Observation *AggregatedObservation `json:"observation,omitempty"`
	Group       *PropertyGroup         `json:"group,omitempty"`
}

// Label returns the display label of the item
func (i Item) Label() string {
	if i.Group != nil {
		return i.Group.Label
	}
	if i.Observation != nil {
		return i.Observation.Label
	}
	return ""
}

// LayerGroup is everything reported for one layer name
type LayerGroup struct {
	LayerName string `json:"layer"`
	LayerID   NodeID `json:"layerId"`
	Type      string `json:"type"`
	Order     int    `json:"order"`
	Bound     []Item `json:"bound"`
	Unbound   []Item `json:"unbound"`
}

// DiagnosticKind classifies side-channel notes
type DiagnosticKind string

// Diagnostic kinds
const (
	DiagMultipleFillVariables DiagnosticKind = "multiple-fill-variables"
	DiagMultipleStrokes       DiagnosticKind = "multiple-strokes"
	DiagResolutionFallback    DiagnosticKind = "resolution-fallback"
	DiagJoinMiss              DiagnosticKind = "join-miss"
)

// Diagnostic is a non-fatal note about reduced fidelity
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	LayerID NodeID         `json:"layerId,omitempty"`
	Message string         `json:"message"`
}

// Suggestion lists variables or tokens whose value matches an unbound literal
type Suggestion struct {
	Label       string   `json:"property"`
	Value       string   `json:"value"`
	Occurrences int      `json:"occurrences"`
	Candidates  []string `json:"candidates"`
}

// Stats summarises one pass
type Stats struct {
	LayersInspected int     `json:"layersInspected"`
	BoundCount      int     `json:"bound"`
	UnboundCount    int     `json:"unbound"`
	LocalBound      int     `json:"localBound"`
	ExternalBound   int     `json:"externalBound"`
	BindingRatio    float64 `json:"bindingRatio"` // percentage of bound observations
}

// Report is the result of one inspection pass
type Report struct {
	Layers      []LayerGroup                       `json:"layers"`
	ByLayer     map[string][]AggregatedObservation `json:"byLayer"`
	Unbound     []AggregatedObservation            `json:"unbound"`
	LayerInfo   map[NodeID]LayerInfo               `json:"layerInfoMap"`
	IsEmpty     bool                               `json:"isEmpty"`
	Stats       Stats                              `json:"stats"`
	Suggestions []Suggestion                       `json:"suggestions,omitempty"`
	Diagnostics []Diagnostic                       `json:"diagnostics,omitempty"`
	Generation  uint64                             `json:"generation,omitempty"`
	Duration    time.Duration                      `json:"-"`
}

// OutputFormat represents the report output format
type OutputFormat string

const (
	// OutputIssues shows one line per unbound property (CI-friendly)
	OutputIssues OutputFormat = "issues"
	// OutputSummary shows statistics and suggestions only
	OutputSummary OutputFormat = "summary"
	// OutputFull shows the per-layer listing, statistics and suggestions
	OutputFull OutputFormat = "full"
	// OutputJSON exports the report payload as JSON
	OutputJSON OutputFormat = "json"
	// OutputMarkdown generates a Markdown report
	OutputMarkdown OutputFormat = "markdown"
)
