package sensors

import (
	"context"
	"testing"
	"time"

	"github.com/gr-butler/lorawx/rain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func Test_Rainmeter_Tip(t *testing.T) {
	start := time.Date(2025, 9, 25, 12, 0, 0, 0, time.UTC)
	g := rain.NewGauge("rg1", start)
	r := &Rainmeter{gauge: g}

	r.tip(start.Add(time.Second))
	r.tip(start.Add(time.Second + 10*time.Millisecond)) // bounce
	r.tip(start.Add(3 * time.Second))
	assert.Equal(t, uint32(2), g.Pending())
}

func Test_Rainmeter_Run(t *testing.T) {
	pin := &gpiotest.Pin{N: "RAIN", L: gpio.Low, EdgesChan: make(chan gpio.Level, 1)}
	g := rain.NewGauge("rg1", time.Now())
	r, err := NewRainmeter(pin, g, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	pin.EdgesChan <- gpio.Low
	assert.Eventually(t, func() bool { return g.Pending() == 1 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	<-done
}
