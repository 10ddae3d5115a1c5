package varinspect

import (
	"strings"
	"unicode"
)

// Canonical property labels
const (
	LabelFill             = "Fill"
	LabelStroke           = "Stroke"
	LabelStrokeColor      = "Stroke Color"
	LabelOpacity          = "Opacity"
	LabelStrokeWeight     = "Stroke Weight"
	LabelCornerRadius     = "Corner Radius"
	LabelFontSize         = "Font Size"
	LabelFontWeight       = "Font Weight"
	LabelFontFamily       = "Font Family"
	LabelLetterSpacing    = "Letter Spacing"
	LabelLineHeight       = "Line Height"
	LabelParagraphSpacing = "Paragraph Spacing"
	LabelPaddingLeft      = "Padding Left"
	LabelPaddingRight     = "Padding Right"
	LabelPaddingTop       = "Padding Top"
	LabelPaddingBottom    = "Padding Bottom"
	LabelGap              = "Gap"
)

// propertyLabels maps host field names to display labels
var propertyLabels = map[string]string{
	"itemSpacing":         LabelGap,
	"paddingTop":          LabelPaddingTop,
	"paddingRight":        LabelPaddingRight,
	"paddingBottom":       LabelPaddingBottom,
	"paddingLeft":         LabelPaddingLeft,
	"cornerRadius":        LabelCornerRadius,
	"strokeWeight":        LabelStrokeWeight,
	"opacity":             LabelOpacity,
	"fontSize":            LabelFontSize,
	"fontWeight":          LabelFontWeight,
	"fontName":            LabelFontFamily,
	"fontFamily":          LabelFontFamily,
	"letterSpacing":       LabelLetterSpacing,
	"lineHeight":          LabelLineHeight,
	"paragraphSpacing":    LabelParagraphSpacing,
	"paragraphIndent":     "Paragraph Indent",
	"textCase":            "Text Case",
	"textDecoration":      "Text Decoration",
	"textAlignHorizontal": "Text Align Horizontal",
	"textAlignVertical":   "Text Align Vertical",
	"topLeftRadius":       "Top Left Radius",
	"topRightRadius":      "Top Right Radius",
	"bottomLeftRadius":    "Bottom Left Radius",
	"bottomRightRadius":   "Bottom Right Radius",
	"strokeTopWeight":     "Stroke Top Weight",
	"strokeBottomWeight":  "Stroke Bottom Weight",
	"strokeLeftWeight":    "Stroke Left Weight",
	"strokeRightWeight":   "Stroke Right Weight",
	"width":               "Width",
	"height":              "Height",
}

// fontFields lists the text fields checked for bindings, in check order.
// Substring matching against deep-walk paths relies on this order.
var fontFields = []struct {
	key   string
	label string
}{
	{"fontSize", LabelFontSize},
	{"fontWeight", LabelFontWeight},
	{"fontFamily", LabelFontFamily},
	{"letterSpacing", LabelLetterSpacing},
	{"lineHeight", LabelLineHeight},
	{"paragraphSpacing", LabelParagraphSpacing},
}

// spacingFields are exempt from deduplication: zero and repeated values are meaningful
var spacingFields = []string{"paddingLeft", "paddingRight", "paddingTop", "paddingBottom", "itemSpacing", "gap"}

// spacingLabels are the display forms of spacingFields
var spacingLabels = []string{LabelPaddingLeft, LabelPaddingRight, LabelPaddingTop, LabelPaddingBottom, LabelGap}

// Asymmetric corner and stroke-side fields
var (
	cornerFields     = []string{"topLeftRadius", "topRightRadius", "bottomLeftRadius", "bottomRightRadius"}
	strokeSideFields = []string{"strokeTopWeight", "strokeBottomWeight", "strokeLeftWeight", "strokeRightWeight"}
)

// CanonicalLabel returns the display label for a host field name,
// or the field name itself when no mapping exists
func CanonicalLabel(field string) string {
	if label, ok := propertyLabels[field]; ok {
		return label
	}
	return field
}

// IsSpacingLabel reports whether a label belongs to the padding/gap family
func IsSpacingLabel(label string) bool {
	for _, field := range spacingFields {
		if strings.Contains(label, field) {
			return true
		}
	}
	for _, l := range spacingLabels {
		if label == l {
			return true
		}
	}
	return false
}

// effectTypeLabel converts "DROP_SHADOW" to "Drop Shadow"
func effectTypeLabel(effectType string) string {
	words := strings.Fields(strings.ReplaceAll(strings.ToLower(effectType), "_", " "))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// effectFieldLabel returns the label of an effect subfield, e.g. "Drop Shadow Blur"
func effectFieldLabel(e Effect, field string) string {
	var sub string
	switch field {
	case "radius":
		if strings.Contains(e.Type, "BLUR") || strings.Contains(e.Type, "SHADOW") {
			sub = "Blur"
		} else {
			sub = "Radius"
		}
	case "spread":
		sub = "Spread"
	case "offsetX":
		sub = "Offset X"
	case "offsetY":
		sub = "Offset Y"
	case "color":
		sub = "Color"
	default:
		sub = field
	}
	typ := effectTypeLabel(e.Type)
	if typ == "" {
		return sub
	}
	return typ + " " + sub
}
