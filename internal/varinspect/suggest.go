package varinspect

import (
	"fmt"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Token is a design token declared as a CSS custom property
type Token struct {
	Name   string // "--color-brand"
	Value  string // normalised: "rgb(255, 0, 0)" or "16"
	Source string
}

// LoadTokens parses design tokens from CSS stylesheets
func LoadTokens(paths []string) ([]Token, error) {
	var tokens []Token
	for _, path := range paths {
		// #nosec G304 - path comes from trusted configuration
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read tokens %s: %w", path, err)
		}
		tokens = append(tokens, ParseTokens(string(content), path)...)
	}
	return tokens, nil
}

// ParseTokens extracts custom properties whose values are colors or
// pixel/unitless numbers. Other values are ignored.
func ParseTokens(content, filename string) []Token {
	lexer := css.NewLexer(parse.NewInputString(content))

	var tokens []Token
	var name string
	var value []string
	flush := func() {
		if name != "" {
			if v, ok := normaliseTokenValue(strings.TrimSpace(strings.Join(value, ""))); ok {
				tokens = append(tokens, Token{Name: name, Value: v, Source: filename})
			}
		}
		name = ""
		value = nil
	}

	for {
		tt, text := lexer.Next()
		if tt == css.ErrorToken {
			flush()
			break
		}

		switch {
		case (tt == css.IdentToken || tt == css.CustomPropertyNameToken) && name == "" && strings.HasPrefix(string(text), "--"):
			name = string(text)
		case tt == css.ColonToken && name != "" && len(value) == 0:
			continue
		case tt == css.SemicolonToken || tt == css.RightBraceToken || tt == css.LeftBraceToken:
			flush()
		case name != "":
			value = append(value, string(text))
		}
	}

	return tokens
}

// normaliseTokenValue renders a CSS value the way observations are formatted
func normaliseTokenValue(v string) (string, bool) {
	if c, ok := parseCSSColor(v); ok {
		return FormatColor(c), true
	}
	num := strings.TrimSuffix(v, "px")
	if f, err := strconv.ParseFloat(num, 64); err == nil {
		return FormatNumber(f), true
	}
	return "", false
}

// parseCSSColor understands #rgb, #rgba, #rrggbb, #rrggbbaa, rgb() and rgba()
func parseCSSColor(v string) (Color, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if strings.HasPrefix(v, "#") {
		return parseHexColor(v[1:])
	}
	for _, fn := range []string{"rgba(", "rgb("} {
		if strings.HasPrefix(v, fn) && strings.HasSuffix(v, ")") {
			return parseRGBFunc(v[len(fn) : len(v)-1])
		}
	}
	return Color{}, false
}

func parseHexColor(hex string) (Color, bool) {
	if len(hex) == 3 || len(hex) == 4 {
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String()
	}
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, false
	}
	channels := make([]float64, 0, 4)
	for i := 0; i < len(hex); i += 2 {
		n, err := strconv.ParseUint(hex[i:i+2], 16, 8)
		if err != nil {
			return Color{}, false
		}
		channels = append(channels, float64(n)/255)
	}
	c := Color{R: channels[0], G: channels[1], B: channels[2], A: 1}
	if len(channels) == 4 {
		c.A = channels[3]
	}
	return c, true
}

func parseRGBFunc(args string) (Color, bool) {
	fields := strings.FieldsFunc(args, func(r rune) bool {
		return r == ',' || r == ' ' || r == '/'
	})
	if len(fields) < 3 {
		return Color{}, false
	}
	channels := make([]float64, 3)
	for i := 0; i < 3; i++ {
		n, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return Color{}, false
		}
		channels[i] = n / 255
	}
	c := Color{R: channels[0], G: channels[1], B: channels[2], A: 1}
	if len(fields) > 3 {
		if a, err := strconv.ParseFloat(fields[3], 64); err == nil {
			c.A = a
		}
	}
	return c, true
}

// Suggest finds variables and tokens whose value equals an unbound literal.
// The most frequent literals come first.
func Suggest(unbound []AggregatedObservation, records map[VariableID]VariableRecord, tokens []Token) []Suggestion {
	candidates := make(map[string][]string)
	add := func(value, name string) {
		if !slices.Contains(candidates[value], name) {
			candidates[value] = append(candidates[value], name)
		}
	}
	for _, rec := range records {
		switch {
		case rec.ColorValue != nil:
			add(FormatColor(*rec.ColorValue), rec.Name)
		case rec.NumberValue != nil:
			add(FormatNumber(*rec.NumberValue), rec.Name)
		}
	}
	for _, t := range tokens {
		add(t.Value, t.Name)
	}
	if len(candidates) == 0 {
		return nil
	}

	type key struct{ label, value string }
	index := make(map[key]int)
	var out []Suggestion
	for _, o := range unbound {
		names, ok := candidates[o.Value]
		if !ok {
			continue
		}
		k := key{label: o.Label, value: o.Value}
		if i, seen := index[k]; seen {
			out[i].Occurrences++
			continue
		}
		sorted := slices.Clone(names)
		sort.Strings(sorted)
		index[k] = len(out)
		out = append(out, Suggestion{Label: o.Label, Value: o.Value, Occurrences: 1, Candidates: sorted})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Occurrences != out[j].Occurrences {
			return out[i].Occurrences > out[j].Occurrences
		}
		if out[i].Label != out[j].Label {
			return out[i].Label < out[j].Label
		}
		return out[i].Value < out[j].Value
	})
	return out
}
