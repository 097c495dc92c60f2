// Package rings computes the geometry of the concentric progress indicators
// on the weekly dashboard. It emits plain geometry (radii, stroke widths,
// arc sweeps, colors) so any renderer, or a test, can draw a frame; drawing
// the same values twice produces the same output.
package rings

import (
	"math"

	"github.com/trezcool/kazi/core/track"
)

// Shape constants. The available radius reserves an outer margin for labels
// by dividing the smaller viewport dimension by shapeFactor.
const (
	shapeFactor     = 4.0
	ringSpacing     = 15.0
	singleRingWidth = 100.0
	startAngle      = -90.0 // 12 o'clock, sweeping clockwise
)

// Ring is one circular progress indicator. Radius is the stroke centerline,
// so the drawn band covers [Radius-Width/2, Radius+Width/2].
type Ring struct {
	CourseID   string  `json:"course_id"`
	Radius     float64 `json:"radius"`
	Width      float64 `json:"width"`
	Ratio      float64 `json:"ratio"`
	StartAngle float64 `json:"start_angle"`
	Sweep      float64 `json:"sweep"` // degrees, clockwise
	Color      string  `json:"color"`
	TrackColor string  `json:"track_color"`
}

// OuterEdge returns the outermost drawn radius of the ring.
func (r Ring) OuterEdge() float64 { return r.Radius + r.Width/2 }

// Available returns the radius budget for the whole ring group.
func Available(width, height float64) float64 {
	return math.Min(width, height) / shapeFactor
}

// Layout fits one ring per course inside the viewport. The first entry is
// the innermost ring. A single ring gets a fixed generous width; multiple
// rings split the available radius minus inter-ring spacing evenly. The
// outermost ring's outer edge never exceeds the available radius.
//
// When selectedCourse is set, only that course's arc keeps its assigned
// color; all other arcs render in the neutral track color. Selection
// affects color only, never which rings are laid out.
func Layout(progress []track.CourseProgress, width, height float64, colors track.ColorMap, selectedCourse string) []Ring {
	n := len(progress)
	if n == 0 {
		return nil
	}

	available := Available(width, height)
	spacing := ringSpacing
	var ringWidth float64
	if n == 1 {
		ringWidth = math.Min(singleRingWidth, available)
	} else {
		ringWidth = (available - float64(n-1)*spacing) / float64(n)
		if ringWidth <= 0 { // viewport too small for spacing; pack the rings
			spacing = 0
			ringWidth = available / float64(n)
		}
	}

	outer := available - ringWidth/2
	out := make([]Ring, 0, n)
	for i, cp := range progress {
		ratio := clamp(cp.Ratio)
		color := colors.Get(cp.CourseID)
		if selectedCourse != "" && cp.CourseID != selectedCourse {
			color = track.NeutralColor
		}
		out = append(out, Ring{
			CourseID:   cp.CourseID,
			Radius:     outer - float64(n-1-i)*(ringWidth+spacing),
			Width:      ringWidth,
			Ratio:      ratio,
			StartAngle: startAngle,
			Sweep:      360 * ratio,
			Color:      color,
			TrackColor: track.NeutralColor,
		})
	}
	return out
}

func clamp(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}
