package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddItem(t *testing.T) {
	buf := NewBuffer(10)

	a, mn, mx := buf.GetAverageMinMax()
	assert.Equal(t, Average(0), a)
	assert.Equal(t, Minimum(0), mn)
	assert.Equal(t, Maximum(0), mx)

	buf.AddItem(1)
	buf.AddItem(1)
	buf.AddItem(4)
	buf.AddItem(2)

	a, mn, mx = buf.GetAverageMinMax()
	assert.Equal(t, Average(2), a)
	assert.Equal(t, Minimum(1), mn)
	assert.Equal(t, Maximum(4), mx)
	assert.Equal(t, 4, buf.Count())

	for i := 0; i < 10; i++ {
		buf.AddItem(3)
	}
	a, mn, mx = buf.GetAverageMinMax()
	assert.Equal(t, Average(3), a)
	assert.Equal(t, Minimum(3), mn)
	assert.Equal(t, Maximum(3), mx)
	assert.Equal(t, 10, buf.Count())
}

func TestMedian(t *testing.T) {
	buf := NewBuffer(60)
	assert.Equal(t, Median(0), buf.GetMedian())

	for _, v := range []float64{9, 1, 5, 3, 7} {
		buf.AddItem(v)
	}
	assert.Equal(t, Median(5), buf.GetMedian())

	// even count takes the lower middle
	buf.AddItem(11)
	assert.Equal(t, Median(5), buf.GetMedian())

	// the ring itself is not reordered
	a, mn, mx := buf.GetAverageMinMax()
	assert.Equal(t, Average(6), a)
	assert.Equal(t, Minimum(1), mn)
	assert.Equal(t, Maximum(11), mx)
}

func TestReset(t *testing.T) {
	buf := NewBuffer(5)
	buf.AddItem(100)
	buf.AddItem(200)
	buf.Reset()
	assert.Equal(t, 0, buf.Count())
	buf.AddItem(7)
	assert.Equal(t, Median(7), buf.GetMedian())
	assert.Equal(t, Size(5), buf.GetSize())
}
