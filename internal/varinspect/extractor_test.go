package varinspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extract(t *testing.T, roots ...Node) *Extraction {
	t.Helper()
	x := &Extractor{}
	return x.Extract(roots, NewDedupTracker())
}

func TestExtract_Fills(t *testing.T) {
	t.Run("first fill variable only", func(t *testing.T) {
		n := rect("1", "Card", Geometry{Fills: []Paint{boundPaint("v1"), boundPaint("v2"), boundPaint("v1")}}, Corners{})
		ext := extract(t, n)

		fills := findObs(ext.Bound, LabelFill)
		require.Len(t, fills, 1)
		assert.Equal(t, VariableID("v1"), fills[0].VariableID)
		require.Len(t, ext.Diagnostics, 1)
		assert.Equal(t, DiagMultipleFillVariables, ext.Diagnostics[0].Kind)
		assert.Equal(t, NodeID("1"), ext.Diagnostics[0].LayerID)
	})

	t.Run("backgrounds count as fills", func(t *testing.T) {
		n := frame("1", "Panel", Layout{Backgrounds: []Paint{boundPaint("v-bg")}})
		ext := extract(t, n)

		fills := findObs(ext.Bound, LabelFill)
		require.Len(t, fills, 1)
		assert.Equal(t, VariableID("v-bg"), fills[0].VariableID)
		assert.Empty(t, ext.Diagnostics)
	})

	t.Run("every literal fill is reported", func(t *testing.T) {
		n := rect("1", "Card", Geometry{Fills: []Paint{solid(red()), boundPaint("v1"), solid(green()), {Type: "IMAGE"}}}, Corners{})
		ext := extract(t, n)

		fills := findObs(ext.Unbound, LabelFill)
		require.Len(t, fills, 2)
		assert.Equal(t, "rgb(255, 0, 0)", fills[0].Value)
		assert.Equal(t, "rgb(0, 255, 0)", fills[1].Value)
	})
}

func TestExtract_Strokes(t *testing.T) {
	t.Run("every bound stroke is reported", func(t *testing.T) {
		n := rect("1", "Box", Geometry{Strokes: []Paint{boundPaint("v1"), boundPaint("v2")}}, Corners{})
		ext := extract(t, n)

		strokes := findObs(ext.Bound, LabelStrokeColor)
		require.Len(t, strokes, 2)
		assert.Equal(t, VariableID("v1"), strokes[0].VariableID)
		assert.Equal(t, VariableID("v2"), strokes[1].VariableID)
	})

	t.Run("only the first literal stroke", func(t *testing.T) {
		n := rect("1", "Box", Geometry{Strokes: []Paint{boundPaint("v1"), solid(red()), solid(green())}}, Corners{})
		ext := extract(t, n)

		strokes := findObs(ext.Unbound, LabelStroke)
		require.Len(t, strokes, 1)
		assert.Equal(t, "rgb(255, 0, 0)", strokes[0].Value)
		require.Len(t, ext.Diagnostics, 1)
		assert.Equal(t, DiagMultipleStrokes, ext.Diagnostics[0].Kind)
	})
}

func TestExtract_Opacity(t *testing.T) {
	tests := []struct {
		name    string
		opacity *float64
		bound   bool
		want    []string
	}{
		{"default opacity is not reported", num(1), false, nil},
		{"rounds up to one", num(0.999), false, []string{"1"}},
		{"two decimals", num(0.5005), false, []string{"0.5"}},
		{"zero is reported", num(0), false, []string{"0"}},
		{"bound opacity is not unbound", num(0.4), true, nil},
		{"absent", nil, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := header("1", "Layer")
			if tt.bound {
				h.Bindings = Bindings{"opacity": Alias("v-op")}
			}
			n := NewGroupNode(h, Blend{Opacity: tt.opacity})
			ext := extract(t, n)

			var got []string
			for _, o := range findObs(ext.Unbound, LabelOpacity) {
				got = append(got, o.Value)
			}
			assert.Equal(t, tt.want, got)
			if tt.bound {
				assert.Len(t, findObs(ext.Bound, LabelOpacity), 1)
			}
		})
	}
}

func TestExtract_ZeroSuppression(t *testing.T) {
	t.Run("zero radius and stroke weight are absent", func(t *testing.T) {
		n := rect("1", "Box", Geometry{Strokes: []Paint{solid(red())}, StrokeWeight: num(0)}, Corners{CornerRadius: num(0)})
		ext := extract(t, n)

		assert.Empty(t, findObs(ext.Unbound, LabelCornerRadius))
		assert.Empty(t, findObs(ext.Unbound, LabelStrokeWeight))
	})

	t.Run("zero padding and gap are reported", func(t *testing.T) {
		n := frame("1", "Stack", Layout{
			LayoutMode:    "VERTICAL",
			PaddingLeft:   num(0),
			PaddingRight:  num(0),
			PaddingTop:    num(8),
			PaddingBottom: num(8),
			ItemSpacing:   num(0),
		})
		ext := extract(t, n)

		assert.Equal(t,
			[]string{LabelPaddingLeft, LabelPaddingRight, LabelPaddingTop, LabelPaddingBottom, LabelGap},
			labels(ext.Unbound))
		assert.Equal(t, "0", findObs(ext.Unbound, LabelGap)[0].Value)
	})

	t.Run("stroke weight needs a stroke", func(t *testing.T) {
		without := rect("1", "A", Geometry{StrokeWeight: num(2)}, Corners{})
		with := rect("2", "B", Geometry{Strokes: []Paint{boundPaint("v1")}, StrokeWeight: num(2)}, Corners{})
		ext := extract(t, without, with)

		weights := findObs(ext.Unbound, LabelStrokeWeight)
		require.Len(t, weights, 1)
		assert.Equal(t, NodeID("2"), weights[0].LayerID)
		assert.Equal(t, "2", weights[0].Value)
	})
}

func TestExtract_AsymmetricPrecedence(t *testing.T) {
	// bottom weight and bottom-left radius are present but zero
	n := rect("1", "Tab", Geometry{
		Strokes:            []Paint{solid(red())},
		StrokeWeight:       num(1),
		StrokeTopWeight:    num(2),
		StrokeBottomWeight: num(0),
	}, Corners{
		CornerRadius:     num(8),
		TopLeftRadius:    num(8),
		TopRightRadius:   num(8),
		BottomLeftRadius: num(0),
	})
	ext := extract(t, n)

	got := labels(ext.Unbound)
	assert.NotContains(t, got, LabelStrokeWeight)
	assert.NotContains(t, got, LabelCornerRadius)
	assert.Contains(t, got, "Stroke Top Weight")
	assert.NotContains(t, got, "Stroke Bottom Weight")
	assert.Contains(t, got, "Top Left Radius")
	assert.Contains(t, got, "Top Right Radius")
	assert.NotContains(t, got, "Bottom Left Radius")
}

func TestExtract_AsymmetricBindingsReportedOnce(t *testing.T) {
	h := header("1", "Tab")
	h.Kind = KindRectangle
	h.Bindings = Bindings{"topLeftRadius": Alias("v-r"), "strokeTopWeight": Alias("v-w")}
	n := NewShapeNode(h, Blend{}, Geometry{Strokes: []Paint{solid(red())}, StrokeTopWeight: num(1)}, Corners{TopLeftRadius: num(4)})
	ext := extract(t, n)

	assert.Len(t, findObs(ext.Bound, "Top Left Radius"), 1)
	assert.Len(t, findObs(ext.Bound, "Stroke Top Weight"), 1)
	assert.Empty(t, findObs(ext.Unbound, "Top Left Radius"))
	assert.Empty(t, findObs(ext.Unbound, "Stroke Top Weight"))
}

func TestExtract_GenericBindings(t *testing.T) {
	h := header("1", "Card")
	h.Kind = KindFrame
	h.Bindings = Bindings{
		"color":        Alias("v-color"),
		"fills":        {Fields: map[string]*Binding{"0": Alias("v-fill")}},
		"cornerRadius": Alias("v-radius"),
		"minWidth":     Alias("v-width"),
		"itemSpacing":  Alias("v-gap"),
	}
	n := NewFrameNode(h, Blend{}, Geometry{}, Corners{CornerRadius: num(12)}, Layout{ItemSpacing: num(16)})
	ext := extract(t, n)

	assert.Equal(t, []string{LabelCornerRadius, LabelGap, "minWidth"}, labels(ext.Bound))
	assert.Empty(t, findObs(ext.Unbound, LabelCornerRadius))
	assert.Empty(t, findObs(ext.Unbound, LabelGap))
}

func TestExtract_Text(t *testing.T) {
	text := func(b Bindings, typo Typography) *TextNode {
		h := header("t", "Heading")
		h.Bindings = b
		return NewTextNode(h, Blend{}, Geometry{}, typo)
	}

	t.Run("direct font bindings", func(t *testing.T) {
		n := text(Bindings{
			"fontSize":   Alias("v-size"),
			"fontFamily": Alias("v-family"),
		}, Typography{FontSize: num(24)})
		ext := extract(t, n)

		assert.Equal(t, []string{LabelFontSize, LabelFontFamily}, labels(ext.Bound))
		assert.Empty(t, findObs(ext.Unbound, LabelFontSize))
	})

	t.Run("nested font size suppresses the literal", func(t *testing.T) {
		n := text(Bindings{
			"typography": {Fields: map[string]*Binding{"fontSize": Alias("v-size")}},
		}, Typography{FontSize: num(24), LineHeight: num(32)})
		ext := extract(t, n)

		bound := findObs(ext.Bound, LabelFontSize)
		require.Len(t, bound, 1)
		assert.Equal(t, VariableID("v-size"), bound[0].VariableID)
		assert.Empty(t, findObs(ext.Unbound, LabelFontSize))
		assert.Equal(t, []string{LabelLineHeight}, labels(ext.Unbound))
	})

	t.Run("deep walk skips fills and infers labels", func(t *testing.T) {
		n := text(Bindings{
			"fills":          {Fields: map[string]*Binding{"0": Alias("v-fill")}},
			"textRangeFills": {Fields: map[string]*Binding{"0": Alias("v-range")}},
			"lineHeight":     {Fields: map[string]*Binding{"value": Alias("v-lh")}},
		}, Typography{})
		ext := extract(t, n)

		assert.Equal(t, []string{LabelLineHeight, "textRangeFills.0"}, labels(ext.Bound))
	})

	t.Run("zero text spacing suppressed", func(t *testing.T) {
		n := text(nil, Typography{FontSize: num(16), LetterSpacing: num(0), ParagraphSpacing: num(0), LineHeight: num(24)})
		ext := extract(t, n)

		assert.Equal(t, []string{LabelFontSize, LabelLineHeight}, labels(ext.Unbound))
	})
}

func TestExtract_Effects(t *testing.T) {
	shadow := Effect{
		Type:   "DROP_SHADOW",
		Radius: num(4),
		Spread: num(0),
		Offset: &Vector{X: 0, Y: 2},
		Color:  &Color{A: 0.25},
		Bound:  EffectBindings{Radius: "v-blur"},
	}
	blur := Effect{
		Type:   "LAYER_BLUR",
		Radius: num(10),
		Offset: &Vector{X: 5, Y: 5},
	}
	n := NewGroupNode(header("1", "Elevated"), Blend{Effects: []Effect{shadow, blur}})
	ext := extract(t, n)

	assert.Equal(t, []string{"Drop Shadow Blur"}, labels(ext.Bound))
	assert.Equal(t, []string{
		"Drop Shadow Offset X",
		"Drop Shadow Offset Y",
		"Drop Shadow Spread",
		"Drop Shadow Color",
		"Layer Blur Blur",
	}, labels(ext.Unbound))
	assert.Equal(t, "rgb(0, 0, 0)", findObs(ext.Unbound, "Drop Shadow Color")[0].Value)
}

func TestExtract_Traversal(t *testing.T) {
	d := rect("d", "D", Geometry{Fills: []Paint{solid(red())}}, Corners{})
	c := frame("c", "C", Layout{}, d)
	b := rect("b", "B", Geometry{Fills: []Paint{solid(red())}}, Corners{})
	a := frame("a", "A", Layout{}, b, c)
	e := rect("e", "E", Geometry{}, Corners{})

	ext := extract(t, a, e, b)

	var order []NodeID
	for _, v := range ext.Visits {
		order = append(order, v.Node.ID())
	}
	assert.Equal(t, []NodeID{"a", "b", "c", "d", "e"}, order, "pre-order, each node once")

	v, ok := ext.Visit("d")
	require.True(t, ok)
	assert.Equal(t, 3, v.Order)
	assert.Equal(t, NodeID("c"), v.Parent)

	for _, o := range ext.Unbound {
		visit, _ := ext.Visit(o.LayerID)
		assert.Equal(t, visit.Order, o.Visit)
	}
}

func TestExtract_IgnoreLayers(t *testing.T) {
	child := rect("2", "Swatch", Geometry{Fills: []Paint{solid(red())}}, Corners{})
	debug := frame("1", "Debug/Overlay", Layout{PaddingTop: num(4)}, child)

	x := &Extractor{IgnoreLayers: []string{"Debug/**"}}
	ext := x.Extract([]Node{debug}, NewDedupTracker())

	require.Len(t, ext.Unbound, 1)
	assert.Equal(t, "Swatch", ext.Unbound[0].LayerName)
	assert.Len(t, ext.Visits, 2)

	assert.NoError(t, ValidateLayerPatterns([]string{"Debug/**", "*Icon"}))
	assert.Error(t, ValidateLayerPatterns([]string{"[unclosed"}))
}

func TestExtract_Idempotent(t *testing.T) {
	h := header("t", "Label")
	h.Bindings = Bindings{"fontSize": Alias("v-size")}
	n := frame("1", "Root", Layout{PaddingLeft: num(0)},
		NewTextNode(h, Blend{}, Geometry{Fills: []Paint{solid(red())}}, Typography{FontSize: num(12)}),
		rect("2", "Box", Geometry{Strokes: []Paint{solid(red()), solid(green())}, StrokeWeight: num(1)}, Corners{CornerRadius: num(4)}),
	)

	first := extract(t, n)
	second := extract(t, n)

	assert.Equal(t, first.Bound, second.Bound)
	assert.Equal(t, first.Unbound, second.Unbound)
	assert.Equal(t, first.Diagnostics, second.Diagnostics)
}

func TestObservationInvariant(t *testing.T) {
	n := frame("1", "Root", Layout{PaddingLeft: num(0), Backgrounds: []Paint{boundPaint("v1")}},
		rect("2", "Box", Geometry{Fills: []Paint{solid(red())}}, Corners{CornerRadius: num(4)}))
	ext := extract(t, n)

	for _, o := range ext.Bound {
		assert.NotEmpty(t, o.VariableID)
		assert.Empty(t, o.Value)
	}
	for _, o := range ext.Unbound {
		assert.Empty(t, o.VariableID)
		assert.NotEmpty(t, o.Value)
	}
}
