package sensors

import (
	"math"

	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
	"periph.io/x/host/v3"
)

/*
 * Sensors is responsible for reading the hardware and converting sensor output to real values.
 */

const (
	BatteryChannel  = ads1x15.Channel0
	DistanceChannel = ads1x15.Channel1
	VaneChannel     = ads1x15.Channel3

	adcVref = 3.3
)

// Init loads the host drivers and opens the I²C bus.
func Init(busName string) (i2c.BusCloser, error) {
	if _, err := host.Init(); err != nil {
		logger.Errorf("Failed to init host drivers [%v]", err)
		return nil, err
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		logger.Errorf("Failed to open I²C [%v]", err)
		return nil, err
	}
	return bus, nil
}

// ADC is the ADS1115 carrying the battery divider, distance sensor and wind vane.
type ADC struct {
	dev *ads1x15.Dev
}

func NewADC(bus i2c.Bus) (*ADC, error) {
	logger.Infof("Starting ADS1115 [%x]", ads1x15.DefaultOpts.I2cAddress)
	d, err := ads1x15.NewADS1115(bus, &ads1x15.DefaultOpts)
	if err != nil {
		return nil, err
	}
	return &ADC{dev: d}, nil
}

// Pin opens a single ended channel.
func (a *ADC) Pin(c ads1x15.Channel) (ads1x15.PinADC, error) {
	return a.dev.PinForChannel(c, 5*physic.Volt, 8*physic.Hertz, ads1x15.BestQuality)
}

func volts(v physic.ElectricPotential) float64 {
	return float64(v) / float64(physic.Volt)
}

// Battery reads the cell through a divide by two network.
type Battery struct {
	pin ads1x15.PinADC
}

func NewBattery(a *ADC) (*Battery, error) {
	p, err := a.Pin(BatteryChannel)
	if err != nil {
		return nil, err
	}
	return &Battery{pin: p}, nil
}

func (b *Battery) Voltage() (float64, error) {
	s, err := b.pin.Read()
	if err != nil {
		return 0, err
	}
	return math.Round(volts(s.V)*2*100) / 100, nil
}

// DistanceADC converts the ultrasonic sensor's analog output to the
// sensor's 10 bit count (Vcc/1024 per step).
type DistanceADC struct {
	pin ads1x15.PinADC
}

func NewDistanceADC(a *ADC) (*DistanceADC, error) {
	p, err := a.Pin(DistanceChannel)
	if err != nil {
		return nil, err
	}
	return &DistanceADC{pin: p}, nil
}

func (d *DistanceADC) ReadRaw() (int, error) {
	s, err := d.pin.Read()
	if err != nil {
		return 0, err
	}
	return voltsToCount(volts(s.V)), nil
}

func voltsToCount(v float64) int {
	c := int(math.Round(v / (adcVref / 1024)))
	if c < 0 {
		return 0
	}
	if c > 1023 {
		return 1023
	}
	return c
}
