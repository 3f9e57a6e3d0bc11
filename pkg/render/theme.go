package render

import (
	"github.com/matzehuels/flowdoc/pkg/errors"
)

// Theme names a color palette.
type Theme string

// Available themes.
const (
	ThemeDefault Theme = "default"
	ThemeDark    Theme = "dark"
	ThemeForest  Theme = "forest"
	ThemeNeutral Theme = "neutral"
)

// Themes lists every theme in display order.
var Themes = []Theme{ThemeDefault, ThemeDark, ThemeForest, ThemeNeutral}

// Format is an output image encoding.
type Format string

// Available formats.
const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// Formats lists every format.
var Formats = []Format{FormatSVG, FormatPNG}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

// Valid reports whether f is a known format.
func (f Format) Valid() bool { return f == FormatSVG || f == FormatPNG }

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	_, ok := palettes[t]
	return ok
}

// ParseTheme validates a theme name. The empty string selects the default.
func ParseTheme(s string) (Theme, error) {
	if s == "" {
		return ThemeDefault, nil
	}
	if err := errors.ValidateOneOf(errors.ErrCodeInvalidTheme, "theme", s, names(Themes)...); err != nil {
		return "", err
	}
	return Theme(s), nil
}

// ParseFormat validates a format name. The empty string selects SVG.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatSVG, nil
	}
	if err := errors.ValidateOneOf(errors.ErrCodeInvalidFormat, "format", s, names(Formats)...); err != nil {
		return "", err
	}
	return Format(s), nil
}

func names[T ~string](vs []T) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = string(v)
	}
	return out
}

// palette holds the colors a theme applies to the graph.
type palette struct {
	Background string
	NodeFill   string
	NodeStroke string
	Font       string
	Edge       string
	EdgeFont   string
}

var palettes = map[Theme]palette{
	ThemeDefault: {
		Background: "white",
		NodeFill:   "#ECECFF",
		NodeStroke: "#9370DB",
		Font:       "#333333",
		Edge:       "#333333",
		EdgeFont:   "#333333",
	},
	ThemeDark: {
		Background: "#1f2020",
		NodeFill:   "#1f2020",
		NodeStroke: "#cccccc",
		Font:       "#cccccc",
		Edge:       "#d3d3d3",
		EdgeFont:   "#e0e0e0",
	},
	ThemeForest: {
		Background: "white",
		NodeFill:   "#cde498",
		NodeStroke: "#13540c",
		Font:       "#000000",
		Edge:       "#008000",
		EdgeFont:   "#000000",
	},
	ThemeNeutral: {
		Background: "white",
		NodeFill:   "#eeeeee",
		NodeStroke: "#999999",
		Font:       "#333333",
		Edge:       "#666666",
		EdgeFont:   "#333333",
	},
}

func paletteFor(t Theme) palette {
	if p, ok := palettes[t]; ok {
		return p
	}
	return palettes[ThemeDefault]
}
