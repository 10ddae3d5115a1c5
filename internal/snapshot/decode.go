package snapshot

import (
	"sort"
	"strconv"

	"github.com/yacobolo/varinspect/internal/varinspect"
)

// buildNode converts a raw record and its subtree into the node model,
// registering every node in index
func buildNode(raw RawNode, index map[varinspect.NodeID]varinspect.Node) varinspect.Node {
	children := make([]varinspect.Node, 0, len(raw.Children))
	for _, child := range raw.Children {
		children = append(children, buildNode(child, index))
	}

	bindings := decodeBindings(raw.BoundVariables)
	header := varinspect.NodeHeader{
		ID:       varinspect.NodeID(raw.ID),
		Name:     raw.Name,
		Kind:     varinspect.Kind(raw.Type),
		Children: children,
		Bindings: bindings,
	}
	blend := varinspect.Blend{
		Opacity: raw.Opacity,
		Effects: decodeEffects(raw.Effects),
	}

	var node varinspect.Node
	switch kind := varinspect.Kind(raw.Type); {
	case kind == varinspect.KindText:
		node = varinspect.NewTextNode(header, blend, decodeGeometry(raw, bindings), decodeTypography(raw))
	case kind == varinspect.KindGroup:
		node = varinspect.NewGroupNode(header, blend)
	case varinspect.IsFrameKind(kind):
		node = varinspect.NewFrameNode(header, blend, decodeGeometry(raw, bindings), decodeCorners(raw), decodeLayout(raw, bindings))
	default:
		node = varinspect.NewShapeNode(header, blend, decodeGeometry(raw, bindings), decodeCorners(raw))
	}

	if _, dup := index[header.ID]; !dup {
		index[header.ID] = node
	}
	return node
}

func decodeGeometry(raw RawNode, bindings varinspect.Bindings) varinspect.Geometry {
	return varinspect.Geometry{
		Fills:              decodePaints(raw.Fills, bindings, "fills"),
		Strokes:            decodePaints(raw.Strokes, bindings, "strokes"),
		StrokeWeight:       raw.StrokeWeight.Ptr(),
		StrokeTopWeight:    raw.StrokeTopWeight,
		StrokeBottomWeight: raw.StrokeBottomWeight,
		StrokeLeftWeight:   raw.StrokeLeftWeight,
		StrokeRightWeight:  raw.StrokeRightWeight,
	}
}

func decodeCorners(raw RawNode) varinspect.Corners {
	return varinspect.Corners{
		CornerRadius:      raw.CornerRadius.Ptr(),
		TopLeftRadius:     raw.TopLeftRadius,
		TopRightRadius:    raw.TopRightRadius,
		BottomLeftRadius:  raw.BottomLeftRadius,
		BottomRightRadius: raw.BottomRightRadius,
	}
}

func decodeLayout(raw RawNode, bindings varinspect.Bindings) varinspect.Layout {
	return varinspect.Layout{
		LayoutMode:    raw.LayoutMode,
		LayoutWrap:    raw.LayoutWrap,
		PaddingLeft:   raw.PaddingLeft,
		PaddingRight:  raw.PaddingRight,
		PaddingTop:    raw.PaddingTop,
		PaddingBottom: raw.PaddingBottom,
		ItemSpacing:   raw.ItemSpacing,
		Backgrounds:   decodePaints(raw.Backgrounds, bindings, "backgrounds"),
	}
}

func decodeTypography(raw RawNode) varinspect.Typography {
	t := varinspect.Typography{
		FontSize:         raw.FontSize.Ptr(),
		FontWeight:       raw.FontWeight.Ptr(),
		LetterSpacing:    raw.LetterSpacing.Ptr(),
		LineHeight:       raw.LineHeight.Ptr(),
		ParagraphSpacing: raw.ParagraphSpacing.Ptr(),
	}
	if raw.FontName != nil {
		t.FontFamily = raw.FontName.Family
	}
	return t
}

// decodePaints reads each paint's color binding from the paint itself,
// falling back to the node-level array binding at the same index
func decodePaints(raw []RawPaint, nodeBindings varinspect.Bindings, field string) []varinspect.Paint {
	if len(raw) == 0 {
		return nil
	}
	var arrayBinding *varinspect.Binding
	if nodeBindings != nil {
		arrayBinding = nodeBindings[field]
	}

	paints := make([]varinspect.Paint, 0, len(raw))
	for i, p := range raw {
		paint := varinspect.Paint{
			Type:  p.Type,
			Color: decodeColor(p.Color, p.Opacity),
		}
		paint.BoundColor = decodeBindings(p.BoundVariables).ID("color")
		if paint.BoundColor == "" && arrayBinding != nil {
			if b := arrayBinding.Fields[strconv.Itoa(i)]; b != nil {
				paint.BoundColor = b.ID
			}
		}
		paints = append(paints, paint)
	}
	return paints
}

func decodeEffects(raw []RawEffect) []varinspect.Effect {
	if len(raw) == 0 {
		return nil
	}
	effects := make([]varinspect.Effect, 0, len(raw))
	for _, e := range raw {
		bound := decodeBindings(e.BoundVariables)
		effect := varinspect.Effect{
			Type:   e.Type,
			Radius: e.Radius,
			Spread: e.Spread,
			Color:  decodeColor(e.Color, nil),
			Bound: varinspect.EffectBindings{
				Radius:  bound.ID("radius"),
				Spread:  bound.ID("spread"),
				OffsetX: bound.ID("offsetX"),
				OffsetY: bound.ID("offsetY"),
				Color:   bound.ID("color"),
			},
		}
		if e.Offset != nil {
			effect.Offset = &varinspect.Vector{X: e.Offset.X, Y: e.Offset.Y}
		}
		effects = append(effects, effect)
	}
	return effects
}

func decodeColor(c *RawColor, opacity *float64) *varinspect.Color {
	if c == nil {
		return nil
	}
	out := &varinspect.Color{R: c.R, G: c.G, B: c.B, A: 1}
	if c.A != nil {
		out.A = *c.A
	}
	if opacity != nil {
		out.A = *opacity
	}
	return out
}

// decodeBindings converts a boundVariables object into a binding tree.
// Aliases ({type: VARIABLE_ALIAS, id}) become leaves, arrays become
// index-keyed fields and other objects become named fields.
func decodeBindings(raw map[string]any) varinspect.Bindings {
	if len(raw) == 0 {
		return nil
	}
	out := make(varinspect.Bindings, len(raw))
	for key, value := range raw {
		if b := decodeBinding(value); b != nil {
			out[key] = b
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func decodeBinding(value any) *varinspect.Binding {
	switch v := value.(type) {
	case map[string]any:
		b := &varinspect.Binding{}
		if id, ok := v["id"].(string); ok {
			b.ID = varinspect.VariableID(id)
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			if k != "id" && k != "type" {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			if child := decodeBinding(v[k]); child != nil {
				if b.Fields == nil {
					b.Fields = make(map[string]*varinspect.Binding)
				}
				b.Fields[k] = child
			}
		}
		if b.ID == "" && b.Fields == nil {
			return nil
		}
		return b
	case []any:
		b := &varinspect.Binding{}
		for i, item := range v {
			if child := decodeBinding(item); child != nil {
				if b.Fields == nil {
					b.Fields = make(map[string]*varinspect.Binding)
				}
				b.Fields[strconv.Itoa(i)] = child
			}
		}
		if b.Fields == nil {
			return nil
		}
		return b
	case string:
		// shorthand: field: "VariableID:1"
		if v == "" {
			return nil
		}
		return varinspect.Alias(varinspect.VariableID(v))
	}
	return nil
}

// toVariable converts a document variable into the resolver's model
func toVariable(v Variable) *varinspect.Variable {
	values := make([]varinspect.ModeValue, 0, len(v.ValuesByMode))
	for _, mv := range v.ValuesByMode {
		values = append(values, varinspect.ModeValue{ModeID: mv.ModeID, Value: normaliseValue(mv.Value)})
	}
	return &varinspect.Variable{
		ID:     varinspect.VariableID(v.ID),
		Key:    v.Key,
		Name:   v.Name,
		Type:   varinspect.DataType(v.ResolvedType),
		Remote: v.Remote,
		Values: values,
	}
}

// normaliseValue converts decoder-specific numeric types so that the
// resolver sees float64 numbers and map[string]any objects
func normaliseValue(value any) any {
	switch v := value.(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, inner := range v {
			out[k] = normaliseValue(inner)
		}
		return out
	}
	return value
}
