package animations

import (
	"testing"
	"time"
)

func TestCursorAdvanceWraps(t *testing.T) {
	c := Cursor{}
	for i := 0; i < 4*8*3; i++ {
		c = c.Advance()
		if c.Frame < 0 || c.Frame > 3 {
			t.Fatalf("tick %d: frame %d out of range", i, c.Frame)
		}
		if c.Direction < 0 || c.Direction > 7 {
			t.Fatalf("tick %d: direction %d out of range", i, c.Direction)
		}
	}
	// 4*8*3 ticks is three full rotations back to the origin.
	if c != (Cursor{}) {
		t.Errorf("cursor after full rotations = %+v, want {0 0}", c)
	}
}

// Four ticks from any starting cursor advance the direction exactly once.
func TestCursorFourTickDirectionLaw(t *testing.T) {
	for f := 0; f < 4; f++ {
		for d := 0; d < 8; d++ {
			c := Cursor{Frame: f, Direction: d}
			for i := 0; i < 4; i++ {
				c = c.Advance()
			}
			want := Cursor{Frame: f, Direction: (d + 1) % 8}
			if c != want {
				t.Errorf("4 ticks from {%d %d} = %+v, want %+v", f, d, c, want)
			}
		}
	}
}

func TestClockUpdateFiresPerPeriod(t *testing.T) {
	c := NewClock(150 * time.Millisecond)
	c.Start()
	defer c.Stop()

	if ticks := c.Update(100 * time.Millisecond); ticks != 0 {
		t.Errorf("before period: %d ticks, want 0", ticks)
	}
	if ticks := c.Update(100 * time.Millisecond); ticks != 1 {
		t.Errorf("past period: %d ticks, want 1", ticks)
	}
	if c.Cursor.Frame != 1 {
		t.Errorf("frame = %d, want 1", c.Cursor.Frame)
	}
	// A stall fires the missed ticks in order.
	if ticks := c.Update(450 * time.Millisecond); ticks != 3 {
		t.Errorf("after stall: %d ticks, want 3", ticks)
	}
	if c.Cursor != (Cursor{Frame: 0, Direction: 1}) {
		t.Errorf("cursor = %+v, want {0 1}", c.Cursor)
	}
}

func TestClockStoppedNeverAdvances(t *testing.T) {
	c := NewClock(150 * time.Millisecond)
	if ticks := c.Update(time.Second); ticks != 0 {
		t.Errorf("never-started clock fired %d ticks", ticks)
	}
	c.Start()
	c.Update(200 * time.Millisecond)
	c.Stop()
	before := c.Cursor
	if ticks := c.Update(time.Second); ticks != 0 {
		t.Errorf("stopped clock fired %d ticks", ticks)
	}
	if c.Cursor != before {
		t.Errorf("stopped clock moved cursor %+v -> %+v", before, c.Cursor)
	}
}

func TestClockStartStopAccounting(t *testing.T) {
	base := ActiveCount()
	clocks := []*Clock{
		NewClock(150 * time.Millisecond),
		NewClock(200 * time.Millisecond),
		NewClock(200 * time.Millisecond),
	}
	for _, c := range clocks {
		c.Start()
		c.Start() // double start must not double count
	}
	if got := ActiveCount(); got != base+3 {
		t.Errorf("active = %d, want %d", got, base+3)
	}
	for _, c := range clocks {
		c.Stop()
		c.Stop() // double stop must not go negative
	}
	if got := ActiveCount(); got != base {
		t.Errorf("active after teardown = %d, want %d", got, base)
	}
}

func TestManualDirectionOverride(t *testing.T) {
	c := NewClock(200 * time.Millisecond)
	c.SetDirection(6)
	if c.Cursor.Direction != 6 {
		t.Errorf("direction = %d, want 6", c.Cursor.Direction)
	}
	c.NextDirection()
	c.NextDirection()
	if c.Cursor.Direction != 0 {
		t.Errorf("direction after wrap = %d, want 0", c.Cursor.Direction)
	}
	c.PrevDirection()
	if c.Cursor.Direction != 7 {
		t.Errorf("direction after back-wrap = %d, want 7", c.Cursor.Direction)
	}
	// Override is independent of the tick rule.
	c.Start()
	defer c.Stop()
	c.Update(200 * time.Millisecond)
	if c.Cursor.Direction != 7 || c.Cursor.Frame != 1 {
		t.Errorf("cursor = %+v, want {1 7}", c.Cursor)
	}
}
