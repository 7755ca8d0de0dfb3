package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anthropics/audioengine/pkg/key"
	"github.com/anthropics/audioengine/pkg/rtinfo"
)

func emptyInfo() *rtinfo.Info {
	return &rtinfo.Info{
		Clocks:          map[key.Key]rtinfo.ClockSnapshot{},
		ModulatorValues: map[key.Key][]float64{},
	}
}

func TestClockTicksAtSpeed(t *testing.T) {
	c := New(2.0) // 2 ticks/sec
	c.Start()

	info := emptyInfo()
	const sampleRate = 1000
	const dt = 1.0 / sampleRate
	for i := 0; i < sampleRate*3; i++ { // 3 seconds
		c.Advance(dt, info)
	}
	c.Publish()

	got := float64(c.Ticks()) + c.FractionalPosition()
	assert.InDelta(t, 6.0, got, 1e-6, "2 ticks/sec for 3s should accumulate ~6 ticks")
}

func TestClockPauseStop(t *testing.T) {
	c := New(1.0)
	c.Start()
	info := emptyInfo()
	for i := 0; i < 500; i++ {
		c.Advance(0.001, info)
	}
	c.Pause()
	before := c.Snapshot()
	for i := 0; i < 500; i++ {
		c.Advance(0.001, info)
	}
	after := c.Snapshot()
	assert.Equal(t, before, after, "paused clock must not advance")

	c.Stop()
	c.Publish()
	assert.Equal(t, uint64(0), c.Ticks())
	assert.Equal(t, 0.0, c.FractionalPosition())
}

func TestClockRemoved(t *testing.T) {
	c := New(1.0)
	assert.False(t, c.Removed())
	c.MarkRemoved()
	assert.True(t, c.Removed())
}
