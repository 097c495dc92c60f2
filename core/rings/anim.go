package rings

import (
	"time"

	"github.com/trezcool/kazi/core/track"
)

// DefaultDuration matches the dashboard's ring transition.
const DefaultDuration = 800 * time.Millisecond

// Timeline interpolates per-course ratios across a fixed-duration
// transition. It is stepped with explicit elapsed times, so any scheduling
// mechanism (timer, frame callback, or a test driving synthetic time) can
// render frames; At is pure in its argument.
type Timeline struct {
	duration time.Duration
	start    []track.CourseProgress
	target   []track.CourseProgress
	frozen   []track.CourseProgress // set once canceled
}

// NewTimeline creates an idle timeline. A non-positive duration falls back
// to DefaultDuration.
func NewTimeline(duration time.Duration) *Timeline {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Timeline{duration: duration}
}

func (tl *Timeline) Duration() time.Duration { return tl.duration }

// Retarget starts a new transition towards next. The displayed values at
// elapsed (which may be mid-flight in the previous transition) become the
// new start, so an interrupted transition continues from where it visibly
// is rather than snapping back to the last completed value. The caller
// restarts its elapsed clock at zero.
func (tl *Timeline) Retarget(elapsed time.Duration, next []track.CourseProgress) {
	tl.start = tl.At(elapsed)
	tl.target = append([]track.CourseProgress(nil), next...)
}

// At returns the displayed ratios after elapsed time into the current
// transition: start + (target-start) * ease(t), per ring independently.
// Rings with no prior value start from 0. Past the duration, or before any
// target is set, the target values are returned as-is.
func (tl *Timeline) At(elapsed time.Duration) []track.CourseProgress {
	if tl.frozen != nil {
		return append([]track.CourseProgress(nil), tl.frozen...)
	}

	f := 1.0
	if elapsed < tl.duration {
		if elapsed < 0 {
			elapsed = 0
		}
		f = ease(float64(elapsed) / float64(tl.duration))
	}

	out := make([]track.CourseProgress, 0, len(tl.target))
	for i, cp := range tl.target {
		var start float64
		if i < len(tl.start) {
			start = tl.start[i].Ratio
		}
		out = append(out, track.CourseProgress{
			CourseID: cp.CourseID,
			Ratio:    clamp(start + (clamp(cp.Ratio)-start)*f),
		})
	}
	return out
}

// Cancel freezes the timeline at the values displayed at elapsed. Later At
// calls return those values unchanged; the hosting renderer can discard its
// timers without the timeline mutating anything further.
func (tl *Timeline) Cancel(elapsed time.Duration) {
	tl.frozen = tl.At(elapsed)
}

func (tl *Timeline) Canceled() bool { return tl.frozen != nil }

// ease is a decelerating curve: fast start, slow settle. Monotonically
// non-decreasing with ease(0)=0 and ease(1)=1.
func ease(t float64) float64 {
	return 1 - (1-t)*(1-t)
}
