// Package animations drives the (frame, direction) cursor used by every
// sprite preview surface.
package animations

import (
	"sync/atomic"
	"time"

	"github.com/diabro/enemy-editor/config"
)

// Cursor selects one cell of a sprite sheet: Frame is the grid column,
// Direction the grid row.
type Cursor struct {
	Frame     int
	Direction int
}

// Advance steps the cursor one animation tick. The frame wraps every
// four ticks, and each frame wrap rotates the facing direction, so a
// full direction rotation takes FrameCount*DirectionCount ticks.
func (c Cursor) Advance() Cursor {
	c.Frame = (c.Frame + 1) % config.FrameCount
	if c.Frame == 0 {
		c.Direction = (c.Direction + 1) % config.DirectionCount
	}
	return c
}

// activeClocks counts running clocks for leak diagnostics; every Start
// must be paired with a Stop on the surface teardown path.
var activeClocks atomic.Int64

// ActiveCount reports how many clocks are currently running.
func ActiveCount() int {
	return int(activeClocks.Load())
}

// Clock advances one Cursor on a fixed period. Each preview surface owns
// exactly one Clock; clocks are never shared and never synchronized with
// each other.
type Clock struct {
	Cursor Cursor

	period  time.Duration
	elapsed time.Duration
	running bool
}

func NewClock(period time.Duration) *Clock {
	return &Clock{period: period}
}

func (c *Clock) Period() time.Duration { return c.period }

func (c *Clock) Running() bool { return c.running }

// Start arms the clock. Starting a running clock is a no-op.
func (c *Clock) Start() {
	if c.running {
		return
	}
	c.running = true
	c.elapsed = 0
	activeClocks.Add(1)
}

// Stop disarms the clock. A stopped clock never advances its cursor.
// Stopping a stopped clock is a no-op.
func (c *Clock) Stop() {
	if !c.running {
		return
	}
	c.running = false
	activeClocks.Add(-1)
}

// Update accumulates dt and advances the cursor once per elapsed period.
// It returns how many ticks fired. Ticks are re-armed, never concurrent:
// a slow frame fires the missed ticks in order before returning.
func (c *Clock) Update(dt time.Duration) int {
	if !c.running || c.period <= 0 {
		return 0
	}
	c.elapsed += dt
	ticks := 0
	for c.elapsed >= c.period {
		c.elapsed -= c.period
		c.Cursor = c.Cursor.Advance()
		ticks++
	}
	return ticks
}

// SetDirection overrides the facing direction, wrapping into range. The
// frame counter is untouched; the override shows on the next draw.
func (c *Clock) SetDirection(d int) {
	d %= config.DirectionCount
	if d < 0 {
		d += config.DirectionCount
	}
	c.Cursor.Direction = d
}

// NextDirection rotates the facing one row forward.
func (c *Clock) NextDirection() {
	c.SetDirection(c.Cursor.Direction + 1)
}

// PrevDirection rotates the facing one row back.
func (c *Clock) PrevDirection() {
	c.SetDirection(c.Cursor.Direction - 1)
}
