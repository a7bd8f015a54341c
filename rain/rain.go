package rain

import (
	"sync/atomic"
	"time"

	"github.com/gr-butler/lorawx/env"
	"github.com/gr-butler/lorawx/qc"
)

// Gauge counts tipping bucket pulses. Pulse runs on the edge goroutine,
// Drain on the observation loop; both only touch atomics.
type Gauge struct {
	Name     string
	TipSize  float64
	Debounce time.Duration

	count       atomic.Uint32
	lastPulse   atomic.Int64 // unix nano
	windowStart atomic.Int64 // unix nano
}

type Reading struct {
	Tips    uint32
	Amount  float64 // mm
	Elapsed time.Duration
}

func NewGauge(name string, now time.Time) *Gauge {
	g := &Gauge{
		Name:     name,
		TipSize:  env.MmPerTip,
		Debounce: env.RainDebounce,
	}
	g.windowStart.Store(now.UnixNano())
	return g
}

// Pulse records a bucket tip unless it arrives inside the debounce interval
// of the last accepted tip. Returns true when the tip was counted.
func (g *Gauge) Pulse(now time.Time) bool {
	t := now.UnixNano()
	for {
		last := g.lastPulse.Load()
		if last != 0 && time.Duration(t-last) <= g.Debounce {
			return false
		}
		// a failed swap means another edge or a Drain got in first, look again
		if g.lastPulse.CompareAndSwap(last, t) {
			g.count.Add(1)
			return true
		}
	}
}

// Pending is the current count, without resetting it.
func (g *Gauge) Pending() uint32 {
	return g.count.Load()
}

// Drain takes the tip count and resets the window. A second drain with no
// pulses in between reads zero.
func (g *Gauge) Drain(now time.Time) Reading {
	n := g.count.Swap(0)
	start := g.windowStart.Swap(now.UnixNano())
	g.lastPulse.Store(0)
	elapsed := time.Duration(now.UnixNano() - start)
	if elapsed < 0 {
		elapsed = 0
	}
	return Reading{
		Tips:    n,
		Amount:  float64(n) * g.TipSize,
		Elapsed: elapsed,
	}
}

// QC applies the rain rate ceiling, scaled from the 60 second reference to
// the elapsed window. Readings over the ceiling become the rain sentinel.
func QC(r Reading) float64 {
	ceiling := (r.Elapsed.Seconds() / 60) * env.RainMaxPer60s
	if r.Amount > ceiling {
		return qc.Sentinel(qc.Rain)
	}
	return r.Amount
}
