package track

import "regexp"

// NeutralColor is the untinted track color used for ring backgrounds and as
// the fallback when a course has no valid color of its own.
const NeutralColor = "#D3D3D3"

// Palette holds the colors cycled through when courses are created without
// an explicit color.
var Palette = []string{
	"#E53935", // red
	"#FB8C00", // orange
	"#43A047", // green
	"#1E88E5", // blue
	"#8E24AA", // purple
	"#00897B", // teal
	"#FDD835", // yellow
	"#795548", // brown
	"#607D8B", // gray-blue
}

var hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ColorMap is an explicit course -> color assignment passed to the layout
// engine, keeping rendering free of shared mutable state.
type ColorMap map[string]string

// NewColorMap builds the assignment from stored course colors. An invalid
// hex string falls back to NeutralColor.
func NewColorMap(courses []Course) ColorMap {
	m := make(ColorMap, len(courses))
	for _, c := range courses {
		if hexColorRegex.MatchString(c.Color) {
			m[c.Name] = c.Color
		} else {
			m[c.Name] = NeutralColor
		}
	}
	return m
}

// Get returns the color assigned to courseID, or NeutralColor when unknown.
func (m ColorMap) Get(courseID string) string {
	if color, ok := m[courseID]; ok {
		return color
	}
	return NeutralColor
}

// PickColor returns the palette color for the i-th created course.
func PickColor(i int) string {
	return Palette[i%len(Palette)]
}
