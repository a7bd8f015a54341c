package led

import (
	"sync"
	"time"

	"github.com/gr-butler/lorawx/env"
	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

type LED struct {
	Name    string
	lock    sync.Mutex
	on      bool
	gpioPin gpio.PinOut
}

// NewLED looks the pin up by name. A missing pin gives an LED that does nothing.
func NewLED(name string, GPIOPin string) *LED {
	logger.Infof("Creating new LED on pin [%v] called [%v]", GPIOPin, name)
	var p gpio.PinOut
	if pin := gpioreg.ByName(GPIOPin); pin != nil {
		p = pin
	} else {
		logger.Errorf("Failed to find %v pin", GPIOPin)
	}
	return newLED(name, p)
}

func newLED(name string, p gpio.PinOut) *LED {
	l := &LED{Name: name, gpioPin: p}
	if l.gpioPin != nil {
		_ = l.gpioPin.Out(gpio.Low)
	}
	return l
}

// On holds the LED lit, a fault indicator. Flash then blinks it off.
func (l *LED) On() {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.on = true
	if l.gpioPin != nil {
		_ = l.gpioPin.Out(gpio.High)
	}
}

// Flash toggles the LED briefly. A flash already in progress swallows the request.
func (l *LED) Flash() {
	if l.gpioPin == nil {
		return
	}
	if !l.lock.TryLock() {
		return
	}
	defer l.lock.Unlock()
	if !l.on {
		_ = l.gpioPin.Out(gpio.High)
		time.Sleep(env.LEDFlashDuration)
		_ = l.gpioPin.Out(gpio.Low)
	} else {
		// 'off' flash
		_ = l.gpioPin.Out(gpio.Low)
		time.Sleep(env.LEDFlashDuration)
		_ = l.gpioPin.Out(gpio.High)
	}
}

// Flicker pulses the LED, used at boot to show the station is up.
func (l *LED) Flicker(pulses int) {
	if l.gpioPin == nil {
		return
	}
	l.lock.Lock()
	defer l.lock.Unlock()
	if pulses < 1 || pulses > 100 {
		// reject daft or excessive requests
		return
	}
	for i := 0; i < pulses; i++ {
		_ = l.gpioPin.Out(gpio.High)
		time.Sleep(env.LEDFlashDuration)
		_ = l.gpioPin.Out(gpio.Low)
		time.Sleep(env.LEDFlashDuration)
	}
}
