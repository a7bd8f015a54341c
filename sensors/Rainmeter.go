package sensors

import (
	"context"
	"time"

	"github.com/gr-butler/lorawx/led"
	"github.com/gr-butler/lorawx/rain"
	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
)

// Rainmeter feeds tipping bucket edges into a rain gauge counter.
type Rainmeter struct {
	gpioPin gpio.PinIn // Rain bucket tip pin
	gauge   *rain.Gauge
	ledOut  *led.LED
}

func NewRainmeter(pin gpio.PinIn, gauge *rain.Gauge, tipLED *led.LED) (*Rainmeter, error) {
	logger.Infof("Starting tip bucket monitor [%v] on [%v]", gauge.Name, pin)
	if err := pin.In(gpio.PullUp, gpio.FallingEdge); err != nil {
		return nil, err
	}
	return &Rainmeter{gpioPin: pin, gauge: gauge, ledOut: tipLED}, nil
}

// Run waits for tips until ctx is done. Debounce is the gauge's job.
func (r *Rainmeter) Run(ctx context.Context) {
	defer func() { _ = r.gpioPin.Halt() }()
	for ctx.Err() == nil {
		if !r.gpioPin.WaitForEdge(time.Second) {
			continue
		}
		if r.gpioPin.Read() == gpio.Low {
			r.tip(time.Now())
		}
	}
}

func (r *Rainmeter) tip(now time.Time) {
	if r.gauge.Pulse(now) {
		logger.Debugf("Bucket tip [%v] pending [%v] @ %v", r.gauge.Name, r.gauge.Pending(), now.Format(time.ANSIC))
		if r.ledOut != nil {
			go r.ledOut.Flash()
		}
	}
}
