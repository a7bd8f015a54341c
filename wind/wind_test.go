package wind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Aggregator_Steady(t *testing.T) {
	a := NewAggregator()
	for i := 0; i < 60; i++ {
		a.RecordSample(90, 5)
	}
	assert.InDelta(t, 5.0, a.AverageSpeed(), 1e-9)
	assert.Equal(t, 90, a.AverageDirection())
	assert.InDelta(t, 5.0, a.Gust(), 1e-9)
	assert.Equal(t, 90, a.GustDirection())
	assert.Equal(t, 60, a.SampleCount())
}

func Test_Aggregator_Empty(t *testing.T) {
	a := NewAggregator()
	assert.Equal(t, float64(0), a.AverageSpeed())
	assert.Equal(t, 0, a.AverageDirection())
	assert.Equal(t, float64(0), a.Gust())
	assert.Equal(t, 0, a.GustDirection())
}

func Test_Aggregator_ZeroResultant(t *testing.T) {
	a := NewAggregator()
	a.RecordSample(0, 4)
	a.RecordSample(180, 4)
	assert.Equal(t, 0, a.AverageDirection())
	assert.InDelta(t, 4.0, a.AverageSpeed(), 1e-9)
}

func Test_Aggregator_DirectionWrapsNorth(t *testing.T) {
	a := NewAggregator()
	a.RecordSample(350, 3)
	a.RecordSample(10, 3)
	assert.Equal(t, 0, a.AverageDirection())

	b := NewAggregator()
	b.RecordSample(340, 3)
	b.RecordSample(350, 3)
	assert.Equal(t, 345, b.AverageDirection())
}

func Test_Aggregator_OnlyPopulatedSlots(t *testing.T) {
	a := NewAggregator()
	a.RecordSample(45, 2)
	a.RecordSample(45, 4)
	assert.InDelta(t, 3.0, a.AverageSpeed(), 1e-9)
	assert.Equal(t, 45, a.AverageDirection())
	// fewer samples than the gust window
	assert.InDelta(t, 3.0, a.Gust(), 1e-9)
}

func Test_Aggregator_Gust(t *testing.T) {
	a := NewAggregator()
	for i := 0; i < 60; i++ {
		a.RecordSample(180, 2)
	}
	// three second burst from the west
	a.RecordSample(270, 12)
	a.RecordSample(270, 15)
	a.RecordSample(270, 9)

	assert.InDelta(t, 12.0, a.Gust(), 1e-9)
	assert.Equal(t, 270, a.GustDirection())
	// mostly south, pulled west by the burst
	d := a.AverageDirection()
	assert.True(t, d > 180 && d < 270, "direction %d", d)
}

func Test_Aggregator_GustAcrossWrap(t *testing.T) {
	a := NewAggregator()
	for i := 0; i < 59; i++ {
		a.RecordSample(0, 1)
	}
	a.RecordSample(90, 10) // slot 59
	a.RecordSample(90, 10) // slot 0
	a.RecordSample(90, 10) // slot 1
	require.Equal(t, 62, a.SampleCount())
	assert.InDelta(t, 10.0, a.Gust(), 1e-9)
	assert.Equal(t, 90, a.GustDirection())
}

func Test_Aggregator_ClearSampleCount(t *testing.T) {
	a := NewAggregator()
	for i := 0; i < 10; i++ {
		a.RecordSample(90, 5)
	}
	a.ClearSampleCount()
	assert.Equal(t, 0, a.SampleCount())
	// ring is untouched
	assert.InDelta(t, 5.0, a.AverageSpeed(), 1e-9)
}
