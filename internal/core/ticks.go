package core

import (
	"sync/atomic"
	"time"
)

// TickSource supplies the monotonically increasing tick counter and the
// wall clock. Ticks are the time base for decay and evolution; the wall
// clock is used only to stamp deaths.
type TickSource interface {
	CurrentTick() uint64
	Now() time.Time
}

// WallClockTicks derives ticks from the wall clock at a fixed interval.
type WallClockTicks struct {
	Epoch    time.Time
	Interval time.Duration
}

// NewWallClockTicks returns the default tick source: one tick per five
// seconds since the Unix epoch.
func NewWallClockTicks() WallClockTicks {
	return WallClockTicks{Epoch: time.Unix(0, 0), Interval: 5 * time.Second}
}

// CurrentTick returns the number of whole intervals elapsed since the epoch.
func (w WallClockTicks) CurrentTick() uint64 {
	interval := w.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	elapsed := time.Since(w.Epoch)
	if elapsed < 0 {
		return 0
	}
	return uint64(elapsed / interval)
}

// Now returns the current wall-clock time in UTC.
func (w WallClockTicks) Now() time.Time { return time.Now().UTC() }

// ManualTicks is a hand-driven tick source for tests.
type ManualTicks struct {
	tick atomic.Uint64
	now  atomic.Int64
}

// NewManualTicks returns a manual source positioned at the given tick.
func NewManualTicks(tick uint64, now time.Time) *ManualTicks {
	m := &ManualTicks{}
	m.tick.Store(tick)
	m.now.Store(now.Unix())
	return m
}

// CurrentTick returns the stored tick.
func (m *ManualTicks) CurrentTick() uint64 { return m.tick.Load() }

// Now returns the stored wall-clock time.
func (m *ManualTicks) Now() time.Time { return time.Unix(m.now.Load(), 0).UTC() }

// Advance moves the tick counter forward by delta.
func (m *ManualTicks) Advance(delta uint64) { m.tick.Add(delta) }

// SetNow repositions the wall clock.
func (m *ManualTicks) SetNow(now time.Time) { m.now.Store(now.Unix()) }
