package varinspect

import "strings"

// NodeID identifies a layer in the host document
type NodeID string

// VariableID identifies a design variable in the host document
type VariableID string

// Kind is the host's node type ("TEXT", "FRAME", "INSTANCE", ...)
type Kind string

// Node kinds the extractor treats specially
const (
	KindText         Kind = "TEXT"
	KindFrame        Kind = "FRAME"
	KindGroup        Kind = "GROUP"
	KindComponent    Kind = "COMPONENT"
	KindComponentSet Kind = "COMPONENT_SET"
	KindInstance     Kind = "INSTANCE"
	KindSection      Kind = "SECTION"
	KindRectangle    Kind = "RECTANGLE"
	KindEllipse      Kind = "ELLIPSE"
	KindVector       Kind = "VECTOR"
)

// Node is a read-only view of a host layer.
//
// Concrete variants are *FrameNode, *TextNode, *ShapeNode and *GroupNode.
// Style facets are exposed through the optional interfaces below
// (Blender, Painter, Cornered, AutoLayout, Typographic); a variant that
// does not carry a facet simply does not implement its interface.
type Node interface {
	ID() NodeID
	Name() string
	Kind() Kind
	Children() []Node
	// Bindings is the node-level bound-variable map keyed by field name
	Bindings() Bindings
}

// Blender is implemented by nodes with opacity and effects
type Blender interface {
	BlendFacet() *Blend
}

// Painter is implemented by nodes with fills and strokes
type Painter interface {
	GeometryFacet() *Geometry
}

// Cornered is implemented by nodes with corner radii
type Cornered interface {
	CornerFacet() *Corners
}

// AutoLayout is implemented by frame-like nodes
type AutoLayout interface {
	LayoutFacet() *Layout
}

// Typographic is implemented by text nodes
type Typographic interface {
	TypeFacet() *Typography
}

// Color is an RGBA color with channels in [0,1]
type Color struct {
	R float64 `json:"r" yaml:"r" mapstructure:"r"`
	G float64 `json:"g" yaml:"g" mapstructure:"g"`
	B float64 `json:"b" yaml:"b" mapstructure:"b"`
	A float64 `json:"a" yaml:"a" mapstructure:"a"`
}

// Paint is a single fill, stroke or background entry
type Paint struct {
	Type  string
	Color *Color // nil for gradients and images
	// BoundColor is the variable bound to the color channel, if any
	BoundColor VariableID
}

// Vector is a 2D offset
type Vector struct {
	X float64
	Y float64
}

// Effect is a shadow or blur
type Effect struct {
	Type   string // "DROP_SHADOW", "INNER_SHADOW", "LAYER_BLUR", "BACKGROUND_BLUR"
	Radius *float64
	Spread *float64
	Offset *Vector
	Color  *Color
	Bound  EffectBindings
}

// EffectBindings holds the variables bound to an effect's subfields
type EffectBindings struct {
	Radius  VariableID
	Spread  VariableID
	OffsetX VariableID
	OffsetY VariableID
	Color   VariableID
}

// IsShadow reports whether the effect is a drop or inner shadow
func (e Effect) IsShadow() bool {
	return strings.Contains(e.Type, "SHADOW")
}

// Blend holds the compositing facet
type Blend struct {
	Opacity *float64
	Effects []Effect
}

// BlendFacet returns the blend facet
func (b *Blend) BlendFacet() *Blend { return b }

// Geometry holds the fill/stroke facet
type Geometry struct {
	Fills        []Paint
	Strokes      []Paint
	StrokeWeight *float64
	// Per-side weights; nil when the node has uniform strokes
	StrokeTopWeight    *float64
	StrokeBottomWeight *float64
	StrokeLeftWeight   *float64
	StrokeRightWeight  *float64
}

// GeometryFacet returns the geometry facet
func (g *Geometry) GeometryFacet() *Geometry { return g }

// HasSideWeights reports whether any per-side stroke weight field is present
func (g *Geometry) HasSideWeights() bool {
	return g.StrokeTopWeight != nil || g.StrokeBottomWeight != nil ||
		g.StrokeLeftWeight != nil || g.StrokeRightWeight != nil
}

// Corners holds the corner radius facet
type Corners struct {
	CornerRadius      *float64
	TopLeftRadius     *float64
	TopRightRadius    *float64
	BottomLeftRadius  *float64
	BottomRightRadius *float64
}

// CornerFacet returns the corner facet
func (c *Corners) CornerFacet() *Corners { return c }

// HasPerCorner reports whether any per-corner radius field is present
func (c *Corners) HasPerCorner() bool {
	return c.TopLeftRadius != nil || c.TopRightRadius != nil ||
		c.BottomLeftRadius != nil || c.BottomRightRadius != nil
}

// Layout holds the auto-layout facet of frame-like nodes
type Layout struct {
	LayoutMode    string // "NONE", "HORIZONTAL", "VERTICAL"
	LayoutWrap    string // "NO_WRAP", "WRAP"
	PaddingLeft   *float64
	PaddingRight  *float64
	PaddingTop    *float64
	PaddingBottom *float64
	ItemSpacing   *float64
	Backgrounds   []Paint
}

// LayoutFacet returns the layout facet
func (l *Layout) LayoutFacet() *Layout { return l }

// Typography holds the text facet. Numeric fields are nil when the text
// has mixed values.
type Typography struct {
	FontSize         *float64
	FontFamily       string
	FontWeight       *float64
	LetterSpacing    *float64
	LineHeight       *float64
	ParagraphSpacing *float64
}

// TypeFacet returns the typography facet
func (t *Typography) TypeFacet() *Typography { return t }

// base carries the fields every variant has
type base struct {
	id       NodeID
	name     string
	kind     Kind
	children []Node
	bindings Bindings
}

func (b *base) ID() NodeID         { return b.id }
func (b *base) Name() string       { return b.name }
func (b *base) Kind() Kind         { return b.kind }
func (b *base) Children() []Node   { return b.children }
func (b *base) Bindings() Bindings { return b.bindings }

// NodeHeader is the common data used to build any node variant
type NodeHeader struct {
	ID       NodeID
	Name     string
	Kind     Kind
	Children []Node
	Bindings Bindings
}

func (h NodeHeader) base() base {
	return base{id: h.ID, name: h.Name, kind: h.Kind, children: h.Children, bindings: h.Bindings}
}

// FrameNode is a frame, component, component set, instance or section
type FrameNode struct {
	base
	Blend
	Geometry
	Corners
	Layout
}

// NewFrameNode builds a frame-like node
func NewFrameNode(h NodeHeader, blend Blend, geom Geometry, corners Corners, layout Layout) *FrameNode {
	return &FrameNode{base: h.base(), Blend: blend, Geometry: geom, Corners: corners, Layout: layout}
}

// TextNode is a text layer
type TextNode struct {
	base
	Blend
	Geometry
	Typography
}

// NewTextNode builds a text node
func NewTextNode(h NodeHeader, blend Blend, geom Geometry, typo Typography) *TextNode {
	if h.Kind == "" {
		h.Kind = KindText
	}
	return &TextNode{base: h.base(), Blend: blend, Geometry: geom, Typography: typo}
}

// ShapeNode is a rectangle, ellipse, vector, line, star, polygon or boolean operation
type ShapeNode struct {
	base
	Blend
	Geometry
	Corners
}

// NewShapeNode builds a shape node
func NewShapeNode(h NodeHeader, blend Blend, geom Geometry, corners Corners) *ShapeNode {
	return &ShapeNode{base: h.base(), Blend: blend, Geometry: geom, Corners: corners}
}

// GroupNode is a plain group; it only composites its children
type GroupNode struct {
	base
	Blend
}

// NewGroupNode builds a group node
func NewGroupNode(h NodeHeader, blend Blend) *GroupNode {
	if h.Kind == "" {
		h.Kind = KindGroup
	}
	return &GroupNode{base: h.base(), Blend: blend}
}

// IsFrameKind reports whether kind is built as a FrameNode
func IsFrameKind(kind Kind) bool {
	switch kind {
	case KindFrame, KindComponent, KindComponentSet, KindInstance, KindSection:
		return true
	}
	return false
}
