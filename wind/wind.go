package wind

import (
	"math"
	"sync"

	"github.com/gr-butler/lorawx/env"
)

type Sample struct {
	Direction int     // degrees
	Speed     float64 // m/s
}

// Aggregator keeps the last minute of 1 Hz wind samples in a ring.
// One sampling goroutine writes, the observation loop reads.
type Aggregator struct {
	lock     sync.Mutex
	slots    [env.WindSlots]Sample
	position int
	filled   int
	count    int

	gust          float64
	gustDirection int
}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

func (a *Aggregator) RecordSample(direction int, speed float64) {
	a.lock.Lock()
	defer a.lock.Unlock()
	a.slots[a.position] = Sample{Direction: direction, Speed: speed}
	a.position++
	if a.position == len(a.slots) {
		a.position = 0
	}
	if a.filled < len(a.slots) {
		a.filled++
	}
	a.count++
}

// SampleCount is the number of samples recorded since the last ClearSampleCount.
func (a *Aggregator) SampleCount() int {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.count
}

// ClearSampleCount is called once the wind has been reported. The ring keeps rolling.
func (a *Aggregator) ClearSampleCount() {
	a.lock.Lock()
	defer a.lock.Unlock()
	a.count = 0
}

func (a *Aggregator) AverageSpeed() float64 {
	a.lock.Lock()
	defer a.lock.Unlock()
	if a.filled == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range a.populated() {
		sum += s.Speed
	}
	return sum / float64(a.filled)
}

// AverageDirection is the speed weighted vector average, 0 when the
// resultant has no magnitude.
func (a *Aggregator) AverageDirection() int {
	a.lock.Lock()
	defer a.lock.Unlock()
	return vectorDirection(a.populated())
}

// Gust finds the highest 3 sample average in the ring and caches it along
// with the direction of that window.
func (a *Aggregator) Gust() float64 {
	a.lock.Lock()
	defer a.lock.Unlock()

	a.gust = 0
	a.gustDirection = 0
	n := a.filled
	if n == 0 {
		return 0
	}
	width := env.GustWindow
	if n < width {
		width = n
	}
	// the ring only wraps once it is full, before that windows stop at the last sample
	windows := n - width + 1
	if n == len(a.slots) {
		windows = n
	}

	best := -1.0
	bestStart := 0
	for i := 0; i < windows; i++ {
		sum := 0.0
		for j := 0; j < width; j++ {
			sum += a.slots[getWrappedIndex(i+j, n)].Speed
		}
		if avg := sum / float64(width); avg > best {
			best = avg
			bestStart = i
		}
	}

	window := make([]Sample, width)
	for j := 0; j < width; j++ {
		window[j] = a.slots[getWrappedIndex(bestStart+j, n)]
	}
	a.gust = best
	a.gustDirection = vectorDirection(window)
	return a.gust
}

// GustDirection returns the direction found by the last call to Gust.
func (a *Aggregator) GustDirection() int {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.gustDirection
}

func (a *Aggregator) populated() []Sample {
	return a.slots[:a.filled]
}

func getWrappedIndex(x int, size int) int {
	if x >= size {
		return x - size
	}
	return x
}

func vectorDirection(samples []Sample) int {
	var east, north float64
	for _, s := range samples {
		rad := float64(s.Direction) * math.Pi / 180
		east += s.Speed * math.Sin(rad)
		north += s.Speed * math.Cos(rad)
	}
	if math.Hypot(east, north) < 1e-9 {
		return 0
	}
	deg := int(math.Round(math.Atan2(east, north) * 180 / math.Pi))
	if deg < 0 {
		deg += 360
	}
	if deg == 360 {
		deg = 0
	}
	return deg
}
