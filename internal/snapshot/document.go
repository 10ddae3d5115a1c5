// Package snapshot loads design documents exported to JSON or YAML and
// serves them to the inspector as a varinspect.Host.
package snapshot

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Document is the on-disk snapshot format
type Document struct {
	Name              string       `json:"name" yaml:"name"`
	Selection         []string     `json:"selection" yaml:"selection"`
	Nodes             []RawNode    `json:"nodes" yaml:"nodes"`
	Collections       []Collection `json:"collections,omitempty" yaml:"collections,omitempty"`
	Variables         []Variable   `json:"variables,omitempty" yaml:"variables,omitempty"`
	Library           []Variable   `json:"library,omitempty" yaml:"library,omitempty"`
	ImportUnavailable bool         `json:"importUnavailable,omitempty" yaml:"importUnavailable,omitempty"`
}

// Collection is a local variable collection
type Collection struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Modes       []Mode   `json:"modes" yaml:"modes"`
	VariableIDs []string `json:"variableIds" yaml:"variableIds"`
}

// Mode is a collection mode
type Mode struct {
	ModeID string `json:"modeId" yaml:"modeId"`
	Name   string `json:"name" yaml:"name"`
}

// Variable is a variable definition. Library entries are addressed by Key.
type Variable struct {
	ID           string      `json:"id,omitempty" yaml:"id,omitempty"`
	Key          string      `json:"key,omitempty" yaml:"key,omitempty"`
	Name         string      `json:"name" yaml:"name"`
	ResolvedType string      `json:"resolvedType" yaml:"resolvedType"`
	Remote       bool        `json:"remote,omitempty" yaml:"remote,omitempty"`
	ValuesByMode []ModeValue `json:"valuesByMode,omitempty" yaml:"valuesByMode,omitempty"`
}

// ModeValue is one entry of a variable's ordered per-mode values
type ModeValue struct {
	ModeID string `json:"modeId" yaml:"modeId"`
	Value  any    `json:"value" yaml:"value"`
}

// RawNode is a loosely typed layer record. Fields a kind does not carry
// are dropped when it is converted to a varinspect node.
type RawNode struct {
	ID             string         `json:"id" yaml:"id"`
	Type           string         `json:"type" yaml:"type"`
	Name           string         `json:"name" yaml:"name"`
	Children       []RawNode      `json:"children,omitempty" yaml:"children,omitempty"`
	BoundVariables map[string]any `json:"boundVariables,omitempty" yaml:"boundVariables,omitempty"`

	Opacity *float64    `json:"opacity,omitempty" yaml:"opacity,omitempty"`
	Effects []RawEffect `json:"effects,omitempty" yaml:"effects,omitempty"`

	Fills              []RawPaint `json:"fills,omitempty" yaml:"fills,omitempty"`
	Strokes            []RawPaint `json:"strokes,omitempty" yaml:"strokes,omitempty"`
	StrokeWeight       Dimension  `json:"strokeWeight,omitempty" yaml:"strokeWeight,omitempty"`
	StrokeTopWeight    *float64   `json:"strokeTopWeight,omitempty" yaml:"strokeTopWeight,omitempty"`
	StrokeBottomWeight *float64   `json:"strokeBottomWeight,omitempty" yaml:"strokeBottomWeight,omitempty"`
	StrokeLeftWeight   *float64   `json:"strokeLeftWeight,omitempty" yaml:"strokeLeftWeight,omitempty"`
	StrokeRightWeight  *float64   `json:"strokeRightWeight,omitempty" yaml:"strokeRightWeight,omitempty"`

	CornerRadius      Dimension `json:"cornerRadius,omitempty" yaml:"cornerRadius,omitempty"`
	TopLeftRadius     *float64  `json:"topLeftRadius,omitempty" yaml:"topLeftRadius,omitempty"`
	TopRightRadius    *float64  `json:"topRightRadius,omitempty" yaml:"topRightRadius,omitempty"`
	BottomLeftRadius  *float64  `json:"bottomLeftRadius,omitempty" yaml:"bottomLeftRadius,omitempty"`
	BottomRightRadius *float64  `json:"bottomRightRadius,omitempty" yaml:"bottomRightRadius,omitempty"`

	LayoutMode    string     `json:"layoutMode,omitempty" yaml:"layoutMode,omitempty"`
	LayoutWrap    string     `json:"layoutWrap,omitempty" yaml:"layoutWrap,omitempty"`
	PaddingLeft   *float64   `json:"paddingLeft,omitempty" yaml:"paddingLeft,omitempty"`
	PaddingRight  *float64   `json:"paddingRight,omitempty" yaml:"paddingRight,omitempty"`
	PaddingTop    *float64   `json:"paddingTop,omitempty" yaml:"paddingTop,omitempty"`
	PaddingBottom *float64   `json:"paddingBottom,omitempty" yaml:"paddingBottom,omitempty"`
	ItemSpacing   *float64   `json:"itemSpacing,omitempty" yaml:"itemSpacing,omitempty"`
	Backgrounds   []RawPaint `json:"backgrounds,omitempty" yaml:"backgrounds,omitempty"`

	FontSize         Dimension `json:"fontSize,omitempty" yaml:"fontSize,omitempty"`
	FontName         *FontName `json:"fontName,omitempty" yaml:"fontName,omitempty"`
	FontWeight       Dimension `json:"fontWeight,omitempty" yaml:"fontWeight,omitempty"`
	LetterSpacing    Dimension `json:"letterSpacing,omitempty" yaml:"letterSpacing,omitempty"`
	LineHeight       Dimension `json:"lineHeight,omitempty" yaml:"lineHeight,omitempty"`
	ParagraphSpacing Dimension `json:"paragraphSpacing,omitempty" yaml:"paragraphSpacing,omitempty"`
}

// FontName is a text layer's font
type FontName struct {
	Family string `json:"family" yaml:"family"`
	Style  string `json:"style" yaml:"style"`
}

// RawPaint is a fill, stroke or background
type RawPaint struct {
	Type           string         `json:"type" yaml:"type"`
	Color          *RawColor      `json:"color,omitempty" yaml:"color,omitempty"`
	Opacity        *float64       `json:"opacity,omitempty" yaml:"opacity,omitempty"`
	BoundVariables map[string]any `json:"boundVariables,omitempty" yaml:"boundVariables,omitempty"`
}

// RawEffect is a shadow or blur
type RawEffect struct {
	Type           string         `json:"type" yaml:"type"`
	Radius         *float64       `json:"radius,omitempty" yaml:"radius,omitempty"`
	Spread         *float64       `json:"spread,omitempty" yaml:"spread,omitempty"`
	Offset         *RawVector     `json:"offset,omitempty" yaml:"offset,omitempty"`
	Color          *RawColor      `json:"color,omitempty" yaml:"color,omitempty"`
	BoundVariables map[string]any `json:"boundVariables,omitempty" yaml:"boundVariables,omitempty"`
}

// RawColor is an RGB(A) color; A defaults to 1
type RawColor struct {
	R float64  `json:"r" yaml:"r"`
	G float64  `json:"g" yaml:"g"`
	B float64  `json:"b" yaml:"b"`
	A *float64 `json:"a,omitempty" yaml:"a,omitempty"`
}

// RawVector is an effect offset
type RawVector struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Dimension is a numeric field that may also be written as
// {value, unit} or as the string "MIXED". Mixed values and units other
// than PIXELS (AUTO, PERCENT) decode to nil.
type Dimension struct {
	Value *float64
}

// Ptr returns the value or nil
func (d Dimension) Ptr() *float64 {
	return d.Value
}

// IsZero lets omitempty drop unset dimensions when encoding YAML
func (d Dimension) IsZero() bool {
	return d.Value == nil
}

// MarshalJSON writes the plain number or null
func (d Dimension) MarshalJSON() ([]byte, error) {
	if d.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*d.Value)
}

// UnmarshalJSON accepts a number, a {value, unit} object or a string
func (d *Dimension) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return d.set(raw)
}

// MarshalYAML writes the plain number
func (d Dimension) MarshalYAML() (any, error) {
	if d.Value == nil {
		return nil, nil
	}
	return *d.Value, nil
}

// UnmarshalYAML accepts a number, a {value, unit} mapping or a string
func (d *Dimension) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	return d.set(raw)
}

func (d *Dimension) set(raw any) error {
	d.Value = nil
	switch v := raw.(type) {
	case nil:
		return nil
	case float64:
		d.Value = &v
	case int:
		f := float64(v)
		d.Value = &f
	case string:
		// "MIXED" and symbolic values carry no single number
		return nil
	case map[string]any:
		// only pixel values are comparable with plain numbers
		if unit, _ := v["unit"].(string); unit != "" && !strings.EqualFold(unit, "PIXELS") {
			return nil
		}
		inner, ok := v["value"]
		if !ok {
			return nil
		}
		return d.set(inner)
	default:
		return fmt.Errorf("dimension: unsupported value %T", raw)
	}
	return nil
}
