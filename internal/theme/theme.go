// Package theme holds presentation metadata for product types. The engine package
// knows nothing about labels or colours; renderers look them up here.
package theme

import "github.com/awaistahir/skincycle/internal/engine"

// Style describes how a product type is shown
type Style struct {
	Label      string `json:"label"`
	ColorDark  string `json:"colorDark"`
	ColorLight string `json:"colorLight"`
}

var styles = map[engine.ProductType]Style{
	engine.TypeCleanser: {Label: "Cleanser", ColorDark: "#5E5CE6", ColorLight: "#5E5CE6"},
	engine.TypeRecovery: {Label: "Recovery", ColorDark: "#00D2BE", ColorLight: "#30D158"},
	engine.TypeRetinol:  {Label: "Retinol", ColorDark: "#AF52DE", ColorLight: "#AF52DE"},
	engine.TypeAcid:     {Label: "Acids", ColorDark: "#FF9F0A", ColorLight: "#FF9F0A"},
	engine.TypePeeling:  {Label: "Peeling", ColorDark: "#FF453A", ColorLight: "#FF453A"},
	engine.TypeOther:    {Label: "Other", ColorDark: "#8E8E93", ColorLight: "#8E8E93"},
}

// For returns the style of t. Unknown types are shown like Other.
func For(t engine.ProductType) Style {
	if s, ok := styles[t]; ok {
		return s
	}
	return styles[engine.TypeOther]
}

// Label returns the display label of t
func Label(t engine.ProductType) string {
	return For(t).Label
}

// Accent picks the colour for the active theme
func Accent(t engine.ProductType, dark bool) string {
	s := For(t)
	if dark {
		return s.ColorDark
	}
	return s.ColorLight
}

// TypeInfo pairs a type with its style, for listings
type TypeInfo struct {
	Type engine.ProductType `json:"type"`
	Style
}

// All lists every product type with its style, in display order
func All() []TypeInfo {
	out := make([]TypeInfo, 0, len(engine.ProductTypes))
	for _, t := range engine.ProductTypes {
		out = append(out, TypeInfo{Type: t, Style: For(t)})
	}
	return out
}
