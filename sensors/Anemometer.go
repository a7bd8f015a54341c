package sensors

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gr-butler/lorawx/env"
	"github.com/gr-butler/lorawx/wind"
	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

type vane interface {
	Read() (analog.Sample, error)
}

// Anemometer counts cup pulses on a GPIO edge and reads the vane from the ADC.
// Each second the speed and direction go into the wind aggregator.
type Anemometer struct {
	speedPin gpio.PinIn
	dirADC   vane
	pulses   atomic.Uint32
	lastDir  int
	agg      *wind.Aggregator
	verbose  bool
}

func NewAnemometer(speedPin gpio.PinIn, dir vane, agg *wind.Aggregator, verbose bool) (*Anemometer, error) {
	a := &Anemometer{speedPin: speedPin, dirADC: dir, agg: agg, verbose: verbose}
	logger.Infof("Starting wind sensor on [%v]", speedPin)
	if err := speedPin.In(gpio.PullUp, gpio.FallingEdge); err != nil {
		return nil, err
	}
	return a, nil
}

// Run counts edges and samples once a second until ctx is done.
func (a *Anemometer) Run(ctx context.Context) {
	go func() {
		for ctx.Err() == nil {
			if a.speedPin.WaitForEdge(time.Second) {
				a.pulses.Add(1)
			}
		}
	}()

	ticker := time.NewTicker(env.WindSampleRate)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.Sample()
		}
	}
}

// Sample turns the pulses counted since the last call into one aggregator sample.
func (a *Anemometer) Sample() {
	count := a.pulses.Swap(0)
	speed := float64(count) / env.WindSampleRate.Seconds() * env.MpsPerHz
	dir := a.lastDir
	// with no wind the vane reading is garbage
	if count > 0 {
		dir = a.readDirection()
	}
	a.lastDir = dir
	a.agg.RecordSample(dir, speed)
	if a.verbose {
		logger.Infof("Wind count [%v] speed [%.1f] dir [%v]", count, speed, dir)
	}
}

func (a *Anemometer) readDirection() int {
	sample, err := a.dirADC.Read()
	if err != nil {
		logger.Debugf("Error reading wind direction value [%v]", err)
		return a.lastDir
	}
	deg, str := voltToDegrees(float64(sample.V) / float64(physic.Volt))
	if a.verbose {
		logger.Infof("Volts [%v], Deg [%v] : %s", float64(sample.V)/float64(physic.Volt), deg, str)
	}
	return deg
}

func voltToDegrees(v float64) (int, string) {
	// this is based on actual measurements of output voltage for each cardinal point
	// threhold voltage is midway between the two recorded values.
	switch {
	case v < 1.19:
		return 135, "SE"
	case v < 1.46:
		return 180, "S"
	case v < 2.09:
		return 90, "E"
	case v < 2.8:
		return 45, "NE"
	case v < 3.56:
		return 225, "SW"
	case v < 4.2:
		return 0, "N"
	case v < 4.59:
		return 315, "NW"
	default:
		return 270, "W"
	}
}
