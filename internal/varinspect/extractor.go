package varinspect

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Visit records where a node was met during traversal
type Visit struct {
	Node   Node
	Parent NodeID
	Order  int
}

// Extraction is the flat output of one extractor walk
type Extraction struct {
	Bound       []Observation
	Unbound     []Observation
	Visits      []Visit
	Diagnostics []Diagnostic

	index map[NodeID]int
}

// Visit returns the traversal record of a node
func (e *Extraction) Visit(id NodeID) (Visit, bool) {
	i, ok := e.index[id]
	if !ok {
		return Visit{}, false
	}
	return e.Visits[i], true
}

// Extractor walks node trees and classifies their style properties
type Extractor struct {
	// IgnoreLayers are doublestar patterns over layer names; matching layers
	// are still traversed but contribute no observations
	IgnoreLayers []string
	Logger       *slog.Logger
}

// ValidateLayerPatterns checks ignore-layer patterns before a pass starts
func ValidateLayerPatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid layer pattern %q", p)
		}
	}
	return nil
}

// Extract walks roots in pre-order and returns every observation found.
// tracker must be fresh for the pass.
func (x *Extractor) Extract(roots []Node, tracker *DedupTracker) *Extraction {
	logger := x.Logger
	if logger == nil {
		logger = slog.Default()
	}

	out := &Extraction{index: make(map[NodeID]int)}

	type frame struct {
		node   Node
		parent NodeID
	}

	// Iterative walk; children are pushed in reverse so they pop in document order
	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		if roots[i] != nil {
			stack = append(stack, frame{node: roots[i]})
		}
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		id := top.node.ID()
		if _, dup := out.index[id]; dup {
			continue
		}
		order := len(out.Visits)
		out.index[id] = order
		out.Visits = append(out.Visits, Visit{Node: top.node, Parent: top.parent, Order: order})

		if !x.ignored(top.node.Name()) {
			s := &nodeScope{
				node:     top.node,
				visit:    order,
				bindings: top.node.Bindings(),
				tracker:  tracker,
				out:      out,
				logger:   logger,
			}
			s.extractBound()
			s.extractUnbound()
		}

		children := top.node.Children()
		for i := len(children) - 1; i >= 0; i-- {
			if children[i] != nil {
				stack = append(stack, frame{node: children[i], parent: id})
			}
		}
	}

	logger.Debug("extraction complete",
		"nodes", len(out.Visits),
		"bound", len(out.Bound),
		"unbound", len(out.Unbound))

	return out
}

func (x *Extractor) ignored(name string) bool {
	for _, p := range x.IgnoreLayers {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// nodeScope extracts the observations of a single node
type nodeScope struct {
	node     Node
	visit    int
	bindings Bindings
	tracker  *DedupTracker
	out      *Extraction
	logger   *slog.Logger
}

func (s *nodeScope) bound(label string, id VariableID) {
	if id == "" {
		return
	}
	if label == LabelFontSize {
		s.tracker.MarkFontSizeBound(s.node.ID())
	}
	if s.tracker.Seen(s.node.ID(), label, id) {
		return
	}
	s.out.Bound = append(s.out.Bound, Observation{
		LayerID:    s.node.ID(),
		LayerName:  s.node.Name(),
		Label:      label,
		VariableID: id,
		Visit:      s.visit,
	})
}

func (s *nodeScope) unbound(label, value string, dedup bool) {
	if dedup && s.tracker.Seen(s.node.ID(), label, "") {
		return
	}
	s.out.Unbound = append(s.out.Unbound, Observation{
		LayerID:   s.node.ID(),
		LayerName: s.node.Name(),
		Label:     label,
		Value:     value,
		Visit:     s.visit,
	})
}

func (s *nodeScope) note(kind DiagnosticKind, msg string) {
	s.logger.Debug(msg, "layer", s.node.Name(), "kind", string(kind))
	s.out.Diagnostics = append(s.out.Diagnostics, Diagnostic{Kind: kind, LayerID: s.node.ID(), Message: msg})
}

func (s *nodeScope) extractBound() {
	s.boundFills()
	s.boundStrokes()
	s.boundEffects()
	if _, ok := s.node.(Typographic); ok {
		s.boundText()
	}
	s.boundGeneric()
}

func (s *nodeScope) extractUnbound() {
	s.unboundPaints()
	s.unboundNumbers()
	s.unboundEffects()
}

// boundFills reports a single "Fill" for the first variable bound to any
// fill or background; further variables are only noted.
func (s *nodeScope) boundFills() {
	var paints []Paint
	if p, ok := s.node.(Painter); ok {
		paints = append(paints, p.GeometryFacet().Fills...)
	}
	if l, ok := s.node.(AutoLayout); ok {
		paints = append(paints, l.LayoutFacet().Backgrounds...)
	}

	var ids []VariableID
	seen := make(map[VariableID]bool)
	for _, paint := range paints {
		if paint.BoundColor != "" && !seen[paint.BoundColor] {
			seen[paint.BoundColor] = true
			ids = append(ids, paint.BoundColor)
		}
	}
	if len(ids) == 0 {
		return
	}

	s.bound(LabelFill, ids[0])
	if len(ids) > 1 {
		s.note(DiagMultipleFillVariables,
			fmt.Sprintf("%s has %d fill variables, only the first is reported", s.node.Name(), len(ids)))
	}
}

func (s *nodeScope) boundStrokes() {
	p, ok := s.node.(Painter)
	if !ok {
		return
	}
	for _, stroke := range p.GeometryFacet().Strokes {
		s.bound(LabelStrokeColor, stroke.BoundColor)
	}
}

func (s *nodeScope) boundEffects() {
	b, ok := s.node.(Blender)
	if !ok {
		return
	}
	for _, e := range b.BlendFacet().Effects {
		s.bound(effectFieldLabel(e, "radius"), e.Bound.Radius)
		s.bound(effectFieldLabel(e, "spread"), e.Bound.Spread)
		s.bound(effectFieldLabel(e, "offsetX"), e.Bound.OffsetX)
		s.bound(effectFieldLabel(e, "offsetY"), e.Bound.OffsetY)
		s.bound(effectFieldLabel(e, "color"), e.Bound.Color)
	}
}

// boundText checks font bindings by known key, then walks the whole
// binding tree for ids nested under other paths.
func (s *nodeScope) boundText() {
	if len(s.bindings) == 0 {
		return
	}
	for _, f := range fontFields {
		s.bound(f.label, s.bindings.ID(f.key))
	}

	for _, found := range s.bindings.Walk(isFillPath) {
		s.bound(textPathLabel(found.Path), found.ID)
	}
}

// textPathLabel infers a label for a deep binding path
func textPathLabel(path string) string {
	for _, f := range fontFields {
		if strings.Contains(path, f.key) {
			return f.label
		}
	}
	return CanonicalLabel(path)
}

func (s *nodeScope) boundGeneric() {
	for _, key := range s.bindings.Keys() {
		if key == "color" || isFillPath(key) {
			continue
		}
		s.bound(CanonicalLabel(key), s.bindings.ID(key))
	}

	// Asymmetric fields are re-checked against the facets in case the
	// host omitted them from the generic map walk
	if c, ok := s.node.(Cornered); ok {
		cf := c.CornerFacet()
		for i, v := range []*float64{cf.TopLeftRadius, cf.TopRightRadius, cf.BottomLeftRadius, cf.BottomRightRadius} {
			if v != nil {
				s.bound(CanonicalLabel(cornerFields[i]), s.bindings.ID(cornerFields[i]))
			}
		}
	}
	if p, ok := s.node.(Painter); ok {
		g := p.GeometryFacet()
		for i, v := range []*float64{g.StrokeTopWeight, g.StrokeBottomWeight, g.StrokeLeftWeight, g.StrokeRightWeight} {
			if v != nil {
				s.bound(CanonicalLabel(strokeSideFields[i]), s.bindings.ID(strokeSideFields[i]))
			}
		}
	}
}

// unboundPaints reports every literal fill but only the first literal stroke
func (s *nodeScope) unboundPaints() {
	p, ok := s.node.(Painter)
	if !ok {
		return
	}
	g := p.GeometryFacet()

	for _, fill := range g.Fills {
		if fill.BoundColor == "" && fill.Color != nil {
			s.unbound(LabelFill, FormatColor(*fill.Color), false)
		}
	}

	for _, stroke := range g.Strokes {
		if stroke.BoundColor != "" || stroke.Color == nil {
			continue
		}
		s.unbound(LabelStroke, FormatColor(*stroke.Color), true)
		if len(g.Strokes) > 1 {
			s.note(DiagMultipleStrokes,
				fmt.Sprintf("%s has %d strokes, only the first unbound one is reported", s.node.Name(), len(g.Strokes)))
		}
		break
	}
}

// unboundNumber reports a literal numeric field. Zero is skipped unless keepZero.
func (s *nodeScope) unboundNumber(field string, v *float64, keepZero bool) {
	if v == nil || s.bindings.Has(field) {
		return
	}
	if *v == 0 && !keepZero {
		return
	}
	s.unbound(CanonicalLabel(field), FormatNumber(*v), true)
}

func (s *nodeScope) unboundNumbers() {
	if b, ok := s.node.(Blender); ok {
		if op := b.BlendFacet().Opacity; op != nil && *op < 1 {
			s.unboundNumber("opacity", op, true)
		}
	}

	if p, ok := s.node.(Painter); ok {
		g := p.GeometryFacet()
		if len(g.Strokes) > 0 {
			if !g.HasSideWeights() {
				s.unboundNumber("strokeWeight", g.StrokeWeight, false)
			}
			for i, v := range []*float64{g.StrokeTopWeight, g.StrokeBottomWeight, g.StrokeLeftWeight, g.StrokeRightWeight} {
				s.unboundNumber(strokeSideFields[i], v, false)
			}
		}
	}

	if c, ok := s.node.(Cornered); ok {
		cf := c.CornerFacet()
		if !cf.HasPerCorner() {
			s.unboundNumber("cornerRadius", cf.CornerRadius, false)
		}
		for i, v := range []*float64{cf.TopLeftRadius, cf.TopRightRadius, cf.BottomLeftRadius, cf.BottomRightRadius} {
			s.unboundNumber(cornerFields[i], v, false)
		}
	}

	if t, ok := s.node.(Typographic); ok {
		tf := t.TypeFacet()
		if !s.tracker.FontSizeBound(s.node.ID()) {
			s.unboundNumber("fontSize", tf.FontSize, false)
		}
		s.unboundNumber("letterSpacing", tf.LetterSpacing, false)
		s.unboundNumber("lineHeight", tf.LineHeight, false)
		s.unboundNumber("paragraphSpacing", tf.ParagraphSpacing, false)
	}

	if l, ok := s.node.(AutoLayout); ok {
		lf := l.LayoutFacet()
		s.unboundNumber("paddingLeft", lf.PaddingLeft, true)
		s.unboundNumber("paddingRight", lf.PaddingRight, true)
		s.unboundNumber("paddingTop", lf.PaddingTop, true)
		s.unboundNumber("paddingBottom", lf.PaddingBottom, true)
		s.unboundNumber("itemSpacing", lf.ItemSpacing, true)
	}
}

func (s *nodeScope) unboundEffects() {
	b, ok := s.node.(Blender)
	if !ok {
		return
	}
	for _, e := range b.BlendFacet().Effects {
		if e.Radius != nil && e.Bound.Radius == "" {
			s.unbound(effectFieldLabel(e, "radius"), FormatNumber(*e.Radius), false)
		}
		if e.IsShadow() && e.Offset != nil {
			if e.Bound.OffsetX == "" {
				s.unbound(effectFieldLabel(e, "offsetX"), FormatNumber(e.Offset.X), false)
			}
			if e.Bound.OffsetY == "" {
				s.unbound(effectFieldLabel(e, "offsetY"), FormatNumber(e.Offset.Y), false)
			}
		}
		if e.Spread != nil && e.Bound.Spread == "" {
			s.unbound(effectFieldLabel(e, "spread"), FormatNumber(*e.Spread), false)
		}
		if e.Color != nil && e.Bound.Color == "" {
			s.unbound(effectFieldLabel(e, "color"), FormatColor(*e.Color), false)
		}
	}
}
