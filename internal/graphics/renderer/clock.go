package renderer

import "time"

// FrameClock is a monotonic elapsed-time counter advanced once per tick
type FrameClock struct {
	elapsed time.Duration
	frames  uint64
}

// Advance adds dt to the elapsed time. Negative deltas count the frame but
// leave the elapsed time unchanged.
func (c *FrameClock) Advance(dt time.Duration) {
	c.frames++
	if dt > 0 {
		c.elapsed += dt
	}
}

// Elapsed returns the elapsed time in seconds
func (c *FrameClock) Elapsed() float64 {
	return c.elapsed.Seconds()
}

// Frame returns the number of ticks seen
func (c *FrameClock) Frame() uint64 {
	return c.frames
}
