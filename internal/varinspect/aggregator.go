package varinspect

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"
)

// propertyFamily collapses sibling properties such as the four corner radii
type propertyFamily struct {
	label   string
	pattern *regexp.Regexp
	sub     string // regexp template for the sub-item label
}

var propertyFamilies = []propertyFamily{
	{label: "Radius", pattern: regexp.MustCompile(`^(Top|Bottom) (Left|Right) Radius$`), sub: "$1 $2"},
	{label: "Stroke Weight", pattern: regexp.MustCompile(`^Stroke (Top|Bottom|Left|Right) Weight$`), sub: "$1"},
	{label: "Padding", pattern: regexp.MustCompile(`^Padding (Top|Bottom|Left|Right)$`), sub: "$1"},
}

// Aggregate joins extraction and resolution output into a Report
func Aggregate(ext *Extraction, res *Resolution) *Report {
	records := map[VariableID]VariableRecord{}
	if res != nil && res.Records != nil {
		records = res.Records
	}

	bound := slices.Clone(ext.Bound)
	unbound := slices.Clone(ext.Unbound)
	sortByVisit(bound)
	sortByVisit(unbound)

	report := &Report{
		ByLayer:   make(map[string][]AggregatedObservation),
		Unbound:   make([]AggregatedObservation, 0, len(unbound)),
		LayerInfo: make(map[NodeID]LayerInfo),
	}
	report.Diagnostics = append(report.Diagnostics, ext.Diagnostics...)
	if res != nil {
		report.Diagnostics = append(report.Diagnostics, res.Diagnostics...)
	}

	// 1. Join
	joined := make([]AggregatedObservation, 0, len(bound))
	for _, o := range bound {
		rec, ok := records[o.VariableID]
		if !ok {
			rec = VariableRecord{Name: string(o.VariableID), Type: TypeString, Origin: OriginExternal}
			report.Diagnostics = append(report.Diagnostics, Diagnostic{
				Kind:    DiagJoinMiss,
				LayerID: o.LayerID,
				Message: fmt.Sprintf("variable %s referenced by %s is unknown", o.VariableID, o.LayerName),
			})
		}
		joined = append(joined, AggregatedObservation{
			LayerID:    o.LayerID,
			LayerName:  o.LayerName,
			Label:      canonicalFillLabel(o.Label),
			VariableID: o.VariableID,
			Variable:   &rec,
		})
	}
	for _, o := range unbound {
		report.Unbound = append(report.Unbound, AggregatedObservation{
			LayerID:   o.LayerID,
			LayerName: o.LayerName,
			Label:     o.Label,
			Value:     o.Value,
		})
	}

	// 2. Layer metadata; unbound-only layers sort after bound ones
	for i, o := range joined {
		addLayerInfo(report.LayerInfo, ext, o.LayerID, o.LayerName, i)
	}
	for i, o := range report.Unbound {
		addLayerInfo(report.LayerInfo, ext, o.LayerID, o.LayerName, len(joined)+i)
	}

	// 3-5. Group by layer name, dedup, collapse families
	groups := make(map[string]*LayerGroup)
	var names []string
	group := func(name string) *LayerGroup {
		g, ok := groups[name]
		if !ok {
			g = &LayerGroup{LayerName: name}
			groups[name] = g
			names = append(names, name)
		}
		return g
	}

	boundByName := make(map[string][]AggregatedObservation)
	for _, o := range joined {
		group(o.LayerName)
		boundByName[o.LayerName] = append(boundByName[o.LayerName], o)
	}
	unboundByName := make(map[string][]AggregatedObservation)
	for _, o := range report.Unbound {
		group(o.LayerName)
		unboundByName[o.LayerName] = append(unboundByName[o.LayerName], o)
	}

	for _, name := range names {
		g := groups[name]
		if info, ok := firstLayerNamed(report.LayerInfo, name); ok {
			g.LayerID = info.ID
			g.Order = info.Order
			g.Type = info.Type
		}

		items := dedupBound(boundByName[name])
		if len(items) > 0 {
			report.ByLayer[name] = items
		}
		g.Bound = collapseFamilies(items)
		g.Unbound = collapseFamilies(unboundByName[name])
	}

	// 7. Order groups by layer order; ties keep encounter order
	for _, name := range names {
		report.Layers = append(report.Layers, *groups[name])
	}
	sort.SliceStable(report.Layers, func(i, j int) bool {
		return report.Layers[i].Order < report.Layers[j].Order
	})

	report.Stats = computeStats(ext, joined, report.Unbound)

	// 8. Empty only when nothing at all was observed
	report.IsEmpty = len(joined) == 0 && len(report.Unbound) == 0

	return report
}

func sortByVisit(obs []Observation) {
	sort.SliceStable(obs, func(i, j int) bool {
		return obs[i].Visit < obs[j].Visit
	})
}

// canonicalFillLabel folds raw fill paths ("fills.0") into "Fill"
func canonicalFillLabel(label string) string {
	if label == "fills.0" || strings.HasPrefix(label, "fills.") {
		return LabelFill
	}
	return label
}

func addLayerInfo(infos map[NodeID]LayerInfo, ext *Extraction, id NodeID, name string, order int) {
	if _, ok := infos[id]; ok {
		return
	}
	visit, ok := ext.Visit(id)
	if !ok {
		return
	}
	infos[id] = LayerInfo{
		ID:     id,
		Name:   name,
		Order:  order,
		Parent: visit.Parent,
		Type:   LayerType(visit.Node),
	}
}

// LayerType reports a node's display type. Components and instances win
// over auto-layout; auto-layout frames report their direction.
func LayerType(n Node) string {
	switch n.Kind() {
	case KindComponent, KindInstance:
		return string(n.Kind())
	}
	if l, ok := n.(AutoLayout); ok {
		lf := l.LayoutFacet()
		switch {
		case lf.LayoutWrap == "WRAP":
			return "AUTO_WRAP"
		case lf.LayoutMode == "HORIZONTAL":
			return "AUTO_HORIZONTAL"
		case lf.LayoutMode == "VERTICAL":
			return "AUTO_VERTICAL"
		}
	}
	return string(n.Kind())
}

// firstLayerNamed picks the lowest-order layer carrying name
func firstLayerNamed(infos map[NodeID]LayerInfo, name string) (LayerInfo, bool) {
	var candidates []LayerInfo
	for _, info := range infos {
		if info.Name == name {
			candidates = append(candidates, info)
		}
	}
	if len(candidates) == 0 {
		return LayerInfo{}, false
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Order != candidates[j].Order {
			return candidates[i].Order < candidates[j].Order
		}
		return candidates[i].ID < candidates[j].ID
	})
	return candidates[0], true
}

// dedupBound sorts bound items by label and drops repeated (label, variable)
// pairs. Spacing labels are always kept.
func dedupBound(obs []AggregatedObservation) []AggregatedObservation {
	sorted := slices.Clone(obs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Label) < strings.ToLower(sorted[j].Label)
	})

	type key struct {
		label string
		id    VariableID
	}
	seen := make(map[key]bool)
	out := make([]AggregatedObservation, 0, len(sorted))
	for _, o := range sorted {
		k := key{label: o.Label, id: o.VariableID}
		if seen[k] && !IsSpacingLabel(o.Label) {
			continue
		}
		seen[k] = true
		out = append(out, o)
	}
	return out
}

// collapseFamilies merges family members into a PropertyGroup placed at the
// first member's position, when more than one member is present
func collapseFamilies(obs []AggregatedObservation) []Item {
	counts := make([]int, len(propertyFamilies))
	for _, o := range obs {
		if f := familyOf(o.Label); f >= 0 {
			counts[f]++
		}
	}

	items := make([]Item, 0, len(obs))
	placed := make(map[int]int) // family -> index in items
	for i := range obs {
		o := obs[i]
		f := familyOf(o.Label)
		if f < 0 || counts[f] < 2 {
			items = append(items, Item{Observation: &o})
			continue
		}
		fam := propertyFamilies[f]
		sub := SubItem{
			Label:       fam.pattern.ReplaceAllString(o.Label, fam.sub),
			Observation: o,
		}
		if idx, ok := placed[f]; ok {
			items[idx].Group.Items = append(items[idx].Group.Items, sub)
			continue
		}
		placed[f] = len(items)
		items = append(items, Item{Group: &PropertyGroup{Label: fam.label, Items: []SubItem{sub}}})
	}
	return items
}

func familyOf(label string) int {
	for i, f := range propertyFamilies {
		if f.pattern.MatchString(label) {
			return i
		}
	}
	return -1
}

func computeStats(ext *Extraction, bound, unbound []AggregatedObservation) Stats {
	stats := Stats{
		LayersInspected: len(ext.Visits),
		BoundCount:      len(bound),
		UnboundCount:    len(unbound),
	}
	for _, o := range bound {
		if o.Variable != nil && o.Variable.Origin == OriginLocal {
			stats.LocalBound++
		} else {
			stats.ExternalBound++
		}
	}
	if total := stats.BoundCount + stats.UnboundCount; total > 0 {
		stats.BindingRatio = float64(stats.BoundCount) / float64(total) * 100
	}
	return stats
}
