package buffer

import (
	"math"
	"sort"
	"sync"
)

type Average float64
type Minimum float64
type Maximum float64
type Median float64
type Size int

// SampleBuffer is a fixed size ring of readings. Only slots written since
// the last Reset take part in the statistics.
type SampleBuffer struct {
	position int
	size     int
	filled   int
	data     []float64
	lock     sync.Mutex
}

func NewBuffer(size int) *SampleBuffer {
	b := SampleBuffer{}
	b.size = size
	b.data = make([]float64, size)
	return &b
}

func (b *SampleBuffer) AddItem(val float64) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.data[b.position] = val
	b.position += 1
	if b.position == b.size {
		b.position = 0
	}
	if b.filled < b.size {
		b.filled += 1
	}
}

func (b *SampleBuffer) Reset() {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.position = 0
	b.filled = 0
}

func (b *SampleBuffer) Count() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.filled
}

func (b *SampleBuffer) GetSize() Size {
	return Size(b.size)
}

func (b *SampleBuffer) GetAverageMinMax() (Average, Minimum, Maximum) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.filled == 0 {
		return 0, 0, 0
	}
	min := math.MaxFloat64
	max := -math.MaxFloat64
	sum := 0.0
	for _, x := range b.data[:b.filled] {
		if x > max {
			max = x
		}
		if x < min {
			min = x
		}
		sum += x
	}
	return Average(sum / float64(b.filled)), Minimum(min), Maximum(max)
}

// GetMedian sorts a copy of the samples and returns the element at (n+1)/2-1,
// the lower middle for an even count.
func (b *SampleBuffer) GetMedian() Median {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.filled == 0 {
		return 0
	}
	sorted := make([]float64, b.filled)
	copy(sorted, b.data[:b.filled])
	sort.Float64s(sorted)
	return Median(sorted[(b.filled+1)/2-1])
}
