package object

import "github.com/tomz197/swarm/internal/config"

// Animator steps through a fixed number of frame columns while playing.
type Animator struct {
	frames    int
	frameTime float64
	acc       float64
	frame     int
	playing   bool
}

// NewAnimator creates a stopped animator. Non-positive arguments fall back
// to one frame and the default frame time.
func NewAnimator(frames int, frameTime float64) Animator {
	a := Animator{frames: max(frames, 1)}
	a.SetFrameTime(frameTime)
	return a
}

// SetFrameTime sets seconds per frame.
func (a *Animator) SetFrameTime(t float64) {
	if t <= 0 {
		t = config.AnimFallbackTime
	}
	a.frameTime = t
}

// Start resumes playback from the current frame.
func (a *Animator) Start() {
	a.playing = true
}

// Stop halts playback and rewinds to the first frame.
func (a *Animator) Stop() {
	a.playing = false
	a.frame = 0
	a.acc = 0
}

// Update advances time by dt seconds.
func (a *Animator) Update(dt float64) {
	if !a.playing || a.frames <= 1 {
		return
	}
	a.acc += dt
	for a.acc >= a.frameTime {
		a.acc -= a.frameTime
		a.frame = (a.frame + 1) % a.frames
	}
}

// Frame returns the current frame column.
func (a *Animator) Frame() int {
	return a.frame
}

// Playing reports whether the animator is running.
func (a *Animator) Playing() bool {
	return a.playing
}
