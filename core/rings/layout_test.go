package rings

import (
	"math"
	"testing"

	"github.com/trezcool/kazi/core/track"
)

func progressOf(ratios ...float64) []track.CourseProgress {
	out := make([]track.CourseProgress, 0, len(ratios))
	for i, r := range ratios {
		out = append(out, track.CourseProgress{CourseID: string(rune('A' + i)), Ratio: r})
	}
	return out
}

func TestAvailable(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
		want          float64
	}{
		{name: "portrait", width: 1080, height: 1920, want: 270},
		{name: "landscape", width: 1920, height: 1080, want: 270},
		{name: "square", width: 400, height: 400, want: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Available(tt.width, tt.height); got != tt.want {
				t.Errorf("Available(%v, %v) = %v, want %v", tt.width, tt.height, got, tt.want)
			}
		})
	}
}

func TestLayout_empty(t *testing.T) {
	if got := Layout(nil, 1080, 1920, track.ColorMap{}, ""); got != nil {
		t.Errorf("Layout() = %v, want nil", got)
	}
}

func TestLayout_singleRing(t *testing.T) {
	rings := Layout(progressOf(0.5), 1080, 1920, track.ColorMap{}, "")
	if len(rings) != 1 {
		t.Fatalf("got %d rings, want 1", len(rings))
	}
	r := rings[0]
	if r.Width != singleRingWidth {
		t.Errorf("Width = %v, want %v", r.Width, singleRingWidth)
	}
	available := Available(1080, 1920)
	if want := available - singleRingWidth/2; r.Radius != want {
		t.Errorf("Radius = %v, want %v", r.Radius, want)
	}
	if r.Sweep != 180 {
		t.Errorf("Sweep = %v, want 180", r.Sweep)
	}
	if r.StartAngle != -90 {
		t.Errorf("StartAngle = %v, want -90", r.StartAngle)
	}
}

func TestLayout_singleRing_smallViewport(t *testing.T) {
	// the fixed single-ring width shrinks when the viewport cannot hold it
	rings := Layout(progressOf(1), 240, 240, track.ColorMap{}, "")
	available := Available(240, 240) // 60
	if rings[0].Width != available {
		t.Errorf("Width = %v, want %v", rings[0].Width, available)
	}
	if edge := rings[0].OuterEdge(); edge > available {
		t.Errorf("OuterEdge() = %v exceeds available %v", edge, available)
	}
}

func TestLayout_neverOverflows(t *testing.T) {
	viewports := []struct{ w, h float64 }{
		{1080, 1920}, {1920, 1080}, {400, 400}, {240, 320}, {50, 80},
	}
	for n := 1; n <= 9; n++ {
		ratios := make([]float64, n)
		for _, vp := range viewports {
			rings := Layout(progressOf(ratios...), vp.w, vp.h, track.ColorMap{}, "")
			available := Available(vp.w, vp.h)
			for _, r := range rings {
				if edge := r.OuterEdge(); edge > available+1e-9 {
					t.Errorf("n=%d viewport=%vx%v: OuterEdge() = %v exceeds available %v", n, vp.w, vp.h, edge, available)
				}
				if r.Radius-r.Width/2 < -1e-9 {
					t.Errorf("n=%d viewport=%vx%v: inner edge %v below center", n, vp.w, vp.h, r.Radius-r.Width/2)
				}
			}
		}
	}
}

func TestLayout_multiRingGeometry(t *testing.T) {
	rings := Layout(progressOf(0.25, 0.5, 1), 1080, 1920, track.ColorMap{}, "")
	if len(rings) != 3 {
		t.Fatalf("got %d rings, want 3", len(rings))
	}

	available := Available(1080, 1920)
	wantWidth := (available - 2*ringSpacing) / 3
	for _, r := range rings {
		if math.Abs(r.Width-wantWidth) > 1e-9 {
			t.Errorf("Width = %v, want %v", r.Width, wantWidth)
		}
	}

	// first entry innermost, radii strictly increasing by width+spacing
	for i := 1; i < len(rings); i++ {
		step := rings[i].Radius - rings[i-1].Radius
		if math.Abs(step-(wantWidth+ringSpacing)) > 1e-9 {
			t.Errorf("radius step = %v, want %v", step, wantWidth+ringSpacing)
		}
	}

	// outermost sits flush against the budget
	outer := rings[len(rings)-1]
	if math.Abs(outer.OuterEdge()-available) > 1e-9 {
		t.Errorf("outermost OuterEdge() = %v, want %v", outer.OuterEdge(), available)
	}

	// no overlap between adjacent bands
	for i := 1; i < len(rings); i++ {
		prevOuter := rings[i-1].OuterEdge()
		innerEdge := rings[i].Radius - rings[i].Width/2
		if innerEdge < prevOuter-1e-9 {
			t.Errorf("ring %d inner edge %v overlaps ring %d outer edge %v", i, innerEdge, i-1, prevOuter)
		}
	}
}

func TestLayout_ratioClampAndSweep(t *testing.T) {
	rings := Layout([]track.CourseProgress{
		{CourseID: "A", Ratio: -0.5},
		{CourseID: "B", Ratio: 1.5},
	}, 1080, 1920, track.ColorMap{}, "")

	if rings[0].Ratio != 0 || rings[0].Sweep != 0 {
		t.Errorf("ring A = (%v, %v), want clamped to (0, 0)", rings[0].Ratio, rings[0].Sweep)
	}
	if rings[1].Ratio != 1 || rings[1].Sweep != 360 {
		t.Errorf("ring B = (%v, %v), want clamped to (1, 360)", rings[1].Ratio, rings[1].Sweep)
	}
}

func TestLayout_selection(t *testing.T) {
	colors := track.ColorMap{"A": "#E53935", "B": "#1E88E5"}
	all := Layout(progressOf(0.5, 0.5), 1080, 1920, colors, "")
	sel := Layout(progressOf(0.5, 0.5), 1080, 1920, colors, "B")

	if sel[0].Color != track.NeutralColor {
		t.Errorf("non-selected color = %q, want %q", sel[0].Color, track.NeutralColor)
	}
	if sel[1].Color != "#1E88E5" {
		t.Errorf("selected color = %q, want %q", sel[1].Color, "#1E88E5")
	}

	// selection changes color only
	for i := range all {
		if all[i].Radius != sel[i].Radius || all[i].Width != sel[i].Width || all[i].Sweep != sel[i].Sweep {
			t.Errorf("ring %d geometry changed with selection", i)
		}
	}
}

func TestLayout_unknownCourseColor(t *testing.T) {
	rings := Layout(progressOf(0.5), 1080, 1920, track.ColorMap{}, "")
	if rings[0].Color != track.NeutralColor {
		t.Errorf("Color = %q, want neutral fallback %q", rings[0].Color, track.NeutralColor)
	}
}
