package engine

import "github.com/Zyko0/go-sdl3/sdl"

// TicksClock measures time with SDL's nanosecond tick counter, so reaction
// times keep sub-millisecond resolution.
type TicksClock struct {
	start uint64
}

func NewTicksClock() *TicksClock {
	return &TicksClock{start: sdl.TicksNS()}
}

func (c *TicksClock) Reset() {
	c.start = sdl.TicksNS()
}

func (c *TicksClock) Seconds() float64 {
	return elapsedSeconds(c.start, sdl.TicksNS())
}

func elapsedSeconds(start, now uint64) float64 {
	return float64(now-start) / 1e9
}
