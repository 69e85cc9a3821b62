package scratchcard

import "time"

// fade is the state of one opacity animation: nothing else is shared with
// the frame callback that drives it.
type fade struct {
	start    time.Time
	duration time.Duration
	from     float64
}

// at returns the opacity at now and whether the fade has finished. Progress
// is measured in elapsed time, so the curve is independent of frame rate.
func (f fade) at(now time.Time) (opacity float64, done bool) {
	if f.duration <= 0 {
		return 0, true
	}
	t := clamp01(float64(now.Sub(f.start)) / float64(f.duration))
	if t >= 1 {
		return 0, true
	}
	return f.from * (1 - easeOutCubic(t)), false
}

// easeOutCubic maps t in [0, 1] to 1 − (1 − t)³.
func easeOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}
