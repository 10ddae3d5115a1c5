package varinspect

import (
	"encoding/json"
	"io"
	"time"
)

// JSONVersion is the schema version of JSONOutput
const JSONVersion = "1.0"

// JSONOutput is the structured export of one report
type JSONOutput struct {
	Version     string                             `json:"version"`
	Timestamp   string                             `json:"timestamp"`
	ByLayer     map[string][]AggregatedObservation `json:"byLayer"`
	Unbound     []AggregatedObservation            `json:"unbound"`
	LayerInfo   map[NodeID]LayerInfo               `json:"layerInfoMap"`
	IsEmpty     bool                               `json:"isEmpty"`
	Layers      []LayerGroup                       `json:"layers"`
	Stats       Stats                              `json:"stats"`
	Suggestions []Suggestion                       `json:"suggestions"`
	Diagnostics []Diagnostic                       `json:"diagnostics"`
	DurationMS  int64                              `json:"durationMs"`
}

// WriteJSON writes the report as indented JSON
func WriteJSON(w io.Writer, report *Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildJSONOutput(report, time.Now()))
}

func buildJSONOutput(report *Report, now time.Time) JSONOutput {
	out := JSONOutput{
		Version:     JSONVersion,
		Timestamp:   now.Format(time.RFC3339),
		ByLayer:     report.ByLayer,
		Unbound:     report.Unbound,
		LayerInfo:   report.LayerInfo,
		IsEmpty:     report.IsEmpty,
		Layers:      report.Layers,
		Stats:       report.Stats,
		Suggestions: report.Suggestions,
		Diagnostics: report.Diagnostics,
		DurationMS:  report.Duration.Milliseconds(),
	}
	// keep arrays as [] rather than null for consumers
	if out.ByLayer == nil {
		out.ByLayer = map[string][]AggregatedObservation{}
	}
	if out.Unbound == nil {
		out.Unbound = []AggregatedObservation{}
	}
	if out.LayerInfo == nil {
		out.LayerInfo = map[NodeID]LayerInfo{}
	}
	if out.Layers == nil {
		out.Layers = []LayerGroup{}
	}
	if out.Suggestions == nil {
		out.Suggestions = []Suggestion{}
	}
	if out.Diagnostics == nil {
		out.Diagnostics = []Diagnostic{}
	}
	return out
}
