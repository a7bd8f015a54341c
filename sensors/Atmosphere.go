package sensors

import (
	"math"

	"github.com/gr-butler/lorawx/obs"
	"github.com/gr-butler/lorawx/qc"
	"github.com/gr-butler/lorawx/status"
	logger "github.com/sirupsen/logrus"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
	"periph.io/x/devices/v3/mcp9808"
)

const (
	MCP9808_I2C = 0x18
	BMP280_I2C  = 0x77
)

type envSensor interface {
	Sense(e *physic.Env) error
}

type atmosphere struct {
	PH   envSensor // BMP/BME280 pressure, temperature & humidity
	Temp envSensor // MCP9808 temperature sensor
}

// NewAtmosphere opens the pressure and temperature sensors. Either may be
// missing; its status bit is raised.
func NewAtmosphere(bus i2c.Bus, bits *status.Bits) *atmosphere {
	a := &atmosphere{}

	logger.Infof("Starting MCP9808 Temperature Sensor [%x]", MCP9808_I2C)
	tempSensor, err := mcp9808.New(bus, &mcp9808.Opts{Addr: MCP9808_I2C, Res: mcp9808.High})
	if err != nil {
		logger.Errorf("Failed to open MCP9808 sensor: %v", err)
		bits.Set(status.MCP1)
	} else {
		a.Temp = tempSensor
	}

	logger.Infof("Starting BMP280 reader [%x]", BMP280_I2C)
	bme, err := bmxx80.NewI2C(bus, BMP280_I2C, &bmxx80.DefaultOpts)
	if err != nil {
		logger.Errorf("failed to initialize bme280: %v", err)
		bits.Set(status.BMX1)
	} else {
		a.PH = bme
	}
	return a
}

// Descriptors returns the table entries for the sensors that answered.
func (a *atmosphere) Descriptors() []obs.Descriptor {
	var d []obs.Descriptor
	if a.PH != nil {
		d = append(d, obs.Descriptor{
			Tag: "BMX1",
			Bit: status.BMX1,
			Fields: []obs.Field{
				{ID: "bp1", Quantity: qc.Pressure, Kind: obs.Float},
				{ID: "bt1", Quantity: qc.Temperature, Kind: obs.Float},
				{ID: "bh1", Quantity: qc.Humidity, Kind: obs.Float},
			},
			Read: a.readPH,
		})
	}
	if a.Temp != nil {
		d = append(d, obs.Descriptor{
			Tag: "MCP1",
			Bit: status.MCP1,
			Fields: []obs.Field{
				{ID: "mt1", Quantity: qc.Temperature, Kind: obs.Float},
			},
			Read: a.readTemp,
		})
	}
	return d
}

func (a *atmosphere) readPH() ([]float64, error) {
	em := physic.Env{}
	if err := a.PH.Sense(&em); err != nil {
		logger.Errorf("BME280 read failed [%v]", err)
		return nil, err
	}
	pressure := math.Round((float64(em.Pressure)/float64(100*physic.Pascal))*10) / 10
	temp := math.Round(em.Temperature.Celsius()*10) / 10
	humidity := math.Round(float64(em.Humidity)/float64(physic.PercentRH)*10) / 10
	return []float64{pressure, temp, humidity}, nil
}

func (a *atmosphere) readTemp() ([]float64, error) {
	hiT := physic.Env{}
	if err := a.Temp.Sense(&hiT); err != nil {
		logger.Errorf("MCP9808 read failed [%v]", err)
		return nil, err
	}
	return []float64{hiT.Temperature.Celsius()}, nil
}
