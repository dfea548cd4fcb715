package renderer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrameClock(t *testing.T) {
	var c FrameClock
	c.Advance(250 * time.Millisecond)
	c.Advance(-time.Second)
	c.Advance(750 * time.Millisecond)

	assert.InDelta(t, 1.0, c.Elapsed(), 1e-9)
	assert.Equal(t, uint64(3), c.Frame())
}

func TestManualTicks(t *testing.T) {
	m := NewManualTicks(time.Millisecond)
	m.Push(2 * time.Millisecond)

	dt, ok := m.Next()
	assert.True(t, ok)
	assert.Equal(t, time.Millisecond, dt)
	dt, ok = m.Next()
	assert.True(t, ok)
	assert.Equal(t, 2*time.Millisecond, dt)
	_, ok = m.Next()
	assert.False(t, ok)
}

type fakeTime struct {
	now time.Time
}

func (f *fakeTime) Now() time.Time {
	f.now = f.now.Add(10 * time.Microsecond)
	return f.now
}

func (f *fakeTime) Sleep(d time.Duration) {
	f.now = f.now.Add(d)
}

func TestFixedRatePacesFrames(t *testing.T) {
	ft := &fakeTime{now: time.Unix(0, 0)}
	f := NewFixedRate(100)
	f.now, f.sleep = ft.Now, ft.Sleep

	dt, ok := f.Next()
	assert.True(t, ok)
	assert.Zero(t, dt, "first tick has no predecessor")

	for i := 0; i < 5; i++ {
		dt, _ = f.Next()
		assert.InDelta(t, float64(10*time.Millisecond), float64(dt), float64(100*time.Microsecond))
	}
}

func TestFixedRateResyncsAfterHitch(t *testing.T) {
	ft := &fakeTime{now: time.Unix(0, 0)}
	f := NewFixedRate(100)
	f.now, f.sleep = ft.Now, ft.Sleep

	f.Next()
	ft.now = ft.now.Add(time.Second)
	f.Next()
	dt, _ := f.Next()
	assert.InDelta(t, float64(10*time.Millisecond), float64(dt), float64(100*time.Microsecond))
}

func TestFixedRateUnlimited(t *testing.T) {
	ft := &fakeTime{now: time.Unix(0, 0)}
	f := NewFixedRate(0)
	f.now, f.sleep = ft.Now, ft.Sleep

	f.Next()
	dt, _ := f.Next()
	assert.Equal(t, 10*time.Microsecond, dt)
}
