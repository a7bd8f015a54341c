package distance

import (
	"context"
	"errors"
	"time"

	"github.com/gr-butler/lorawx/buffer"
	"github.com/gr-butler/lorawx/env"
	logger "github.com/sirupsen/logrus"
)

var ErrNoSamples = errors.New("no distance samples")

// Reader returns one raw analog sample from the ultrasonic sensor.
type Reader interface {
	ReadRaw() (int, error)
}

// Gauge is a polled ultrasonic distance sensor (snow or stream depth).
type Gauge struct {
	adc      Reader
	scale    int // mm per raw count, 5 for the 5m sensor, 10 for the 10m sensor
	baseline int
	samples  *buffer.SampleBuffer
	interval time.Duration
}

type Reading struct {
	Raw      int // median, mm
	Adjusted int // baseline - raw when a baseline is set, otherwise raw
}

// NewGauge builds a gauge for a 5 or 10 meter sensor.
func NewGauge(adc Reader, meters int, baseline int) *Gauge {
	scale := 5
	if meters == 10 {
		scale = 10
	}
	return &Gauge{
		adc:      adc,
		scale:    scale,
		baseline: baseline,
		samples:  buffer.NewBuffer(env.DistanceSamples),
		interval: env.DistanceInterval,
	}
}

// Measure takes a full set of timed samples and reports the scaled median.
func (g *Gauge) Measure(ctx context.Context) (Reading, error) {
	g.samples.Reset()
	for i := 0; i < int(g.samples.GetSize()); i++ {
		raw, err := g.adc.ReadRaw()
		if err != nil {
			logger.Debugf("Distance sample failed [%v]", err)
		} else {
			g.samples.AddItem(float64(raw))
		}
		if g.interval > 0 {
			select {
			case <-ctx.Done():
				return Reading{}, ctx.Err()
			case <-time.After(g.interval):
			}
		}
	}
	if g.samples.Count() == 0 {
		return Reading{}, ErrNoSamples
	}
	avg, lo, hi := g.samples.GetAverageMinMax()
	logger.Debugf("Distance samples [%v] avg [%.1f] min [%v] max [%v] counts",
		g.samples.Count(), float64(avg), float64(lo), float64(hi))
	median := int(g.samples.GetMedian()) * g.scale
	r := Reading{Raw: median, Adjusted: median}
	if g.baseline > 0 {
		r.Adjusted = g.baseline - median
	}
	return r, nil
}
