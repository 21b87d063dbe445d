package loop

import "time"

// fpsSmoothing weights the newest sample in the moving average.
const fpsSmoothing = 0.1

// FrameClock samples frame timestamps.
type FrameClock struct {
	last time.Time
	fps  float64
}

// Sample records a frame at now and returns the time since the previous one.
func (c *FrameClock) Sample(now time.Time) time.Duration {
	if c.last.IsZero() {
		c.last = now
		return 0
	}
	delta := now.Sub(c.last)
	c.last = now
	if delta <= 0 {
		return delta
	}
	inst := float64(time.Second) / float64(delta)
	if c.fps == 0 {
		c.fps = inst
	} else {
		c.fps += (inst - c.fps) * fpsSmoothing
	}
	return delta
}

// FPS returns the smoothed frame rate.
func (c *FrameClock) FPS() float64 { return c.fps }

// Last returns the timestamp of the latest sample.
func (c *FrameClock) Last() time.Time { return c.last }
