package distance

import (
	"context"
	"errors"
	"testing"

	logger "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeADC struct {
	values []int
	next   int
	err    error
}

func (f *fakeADC) ReadRaw() (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	v := f.values[f.next%len(f.values)]
	f.next++
	return v, nil
}

func Test_Gauge_Measure(t *testing.T) {
	tests := []struct {
		name     string
		meters   int
		baseline int
		values   []int
		raw      int
		adjusted int
	}{
		{"5m median", 5, 0, []int{100, 102, 300, 101, 99}, 505, 505},
		{"10m median", 10, 0, []int{100, 102, 300, 101, 99}, 1010, 1010},
		{"baseline", 5, 2000, []int{300}, 1500, 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGauge(&fakeADC{values: tt.values}, tt.meters, tt.baseline)
			g.interval = 0
			r, err := g.Measure(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.raw, r.Raw)
			assert.Equal(t, tt.adjusted, r.Adjusted)
		})
	}
}

func Test_Gauge_AllSamplesFail(t *testing.T) {
	g := NewGauge(&fakeADC{err: errors.New("bus")}, 5, 0)
	g.interval = 0
	_, err := g.Measure(context.Background())
	assert.ErrorIs(t, err, ErrNoSamples)
}

func Test_Gauge_Cancelled(t *testing.T) {
	g := NewGauge(&fakeADC{values: []int{1}}, 5, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.Measure(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func Test_Gauge_LogsSpread(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()
	level := logger.GetLevel()
	logger.SetLevel(logger.DebugLevel)
	defer logger.SetLevel(level)

	g := NewGauge(&fakeADC{values: []int{100, 102, 300, 101, 99}}, 5, 0)
	g.interval = 0
	_, err := g.Measure(context.Background())
	require.NoError(t, err)

	var spread *logger.Entry
	for _, e := range hook.AllEntries() {
		if e.Level == logger.DebugLevel {
			spread = e
		}
	}
	require.NotNil(t, spread)
	assert.Contains(t, spread.Message, "min [99] max [300]")
}
