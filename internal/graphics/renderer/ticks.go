package renderer

import "time"

// TickSource paces the loop. Next blocks until the next frame is due and
// returns the time since the previous one; ok is false once the host is gone.
type TickSource interface {
	Next() (dt time.Duration, ok bool)
}

// ManualTicks replays a fixed list of deltas, then reports the host gone
type ManualTicks struct {
	dts []time.Duration
}

// NewManualTicks returns a source that yields dts in order
func NewManualTicks(dts ...time.Duration) *ManualTicks {
	return &ManualTicks{dts: dts}
}

// Push queues more deltas
func (m *ManualTicks) Push(dts ...time.Duration) {
	m.dts = append(m.dts, dts...)
}

func (m *ManualTicks) Next() (time.Duration, bool) {
	if len(m.dts) == 0 {
		return 0, false
	}
	dt := m.dts[0]
	m.dts = m.dts[1:]
	return dt, true
}

// FixedRate ticks at a fixed frame rate with high-precision pacing
type FixedRate struct {
	fps  int
	next time.Time
	last time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

// NewFixedRate returns a source ticking fps times a second. fps <= 0 ticks
// as fast as Next is called.
func NewFixedRate(fps int) *FixedRate {
	return &FixedRate{fps: fps, now: time.Now, sleep: time.Sleep}
}

// Next waits for the next frame deadline using a hybrid sleep/spin approach
func (f *FixedRate) Next() (time.Duration, bool) {
	if f.fps > 0 {
		f.wait(time.Second / time.Duration(f.fps))
	}
	now := f.now()
	var dt time.Duration
	if !f.last.IsZero() {
		dt = now.Sub(f.last)
	}
	f.last = now
	return dt, true
}

func (f *FixedRate) wait(target time.Duration) {
	if f.next.IsZero() {
		f.next = f.now().Add(target)
	} else {
		f.next = f.next.Add(target)
	}

	for {
		remaining := f.next.Sub(f.now())
		if remaining <= 0 {
			break
		}
		if remaining > 200*time.Microsecond {
			f.sleep(remaining - 200*time.Microsecond)
		}
		// busy-wait for the final few microseconds
		if f.next.Sub(f.now()) <= 0 {
			break
		}
	}

	// If we're significantly late (e.g., hitch), resync to avoid drift
	if late := f.now().Sub(f.next); late > target {
		f.next = f.now()
	}
}
