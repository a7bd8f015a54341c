package env

import "flag"

type Args struct {
	Test        *bool
	Verbose     *bool
	WindOn      *bool
	Rain1On     *bool
	Rain2On     *bool
	DistType    *int
	DistBase    *int
	ObsPeriod   *int
	UnitID      *int
	GatewayID   *int
	TxPower     *int
	Frequency   *int
	I2CBus      *string
	Broker      *string
	Metrics     *string
	EEPROMFile  *string
	ObsLogDir   *string
	MarkerDir   *string
	Serial      *string
	Atmospheric *bool
}

// ParseArgs registers the station flags on the default flag set and parses them.
func ParseArgs() Args {
	a := Args{
		Test:        flag.Bool("test", false, "test mode, frames are logged not transmitted"),
		Verbose:     flag.Bool("verbose", false, "debug logging"),
		WindOn:      flag.Bool("wind", true, "wind speed and direction sensors fitted"),
		Rain1On:     flag.Bool("rain1", true, "rain gauge 1 fitted"),
		Rain2On:     flag.Bool("rain2", false, "rain gauge 2 fitted"),
		DistType:    flag.Int("dist", 0, "distance gauge type, 0 none, 5 for 5m, 10 for 10m"),
		DistBase:    flag.Int("distbase", 0, "distance gauge baseline mm, 0 reports raw distance"),
		ObsPeriod:   flag.Int("obs", DefaultObsPeriod, "observation period minutes (5,6,10,15,20,30)"),
		UnitID:      flag.Int("unit", 1, "station (unit) id 0-254"),
		GatewayID:   flag.Int("gw", 0, "gateway id 0-254"),
		TxPower:     flag.Int("txpower", 23, "radio transmit power dBm 5-23"),
		Frequency:   flag.Int("freq", 915, "radio frequency MHz (433, 866, 915)"),
		I2CBus:      flag.String("bus", "", "I²C bus (/dev/i2c-1)"),
		Broker:      flag.String("broker", "tcp://localhost:1883", "gateway MQTT broker"),
		Metrics:     flag.String("metrics", "", "prometheus listen address, empty disables"),
		EEPROMFile:  flag.String("eeprom", "", "file backed EEPROM image, empty uses the I²C EEPROM"),
		ObsLogDir:   flag.String("obslog", "OBS", "observation log directory"),
		MarkerDir:   flag.String("markers", ".", "directory checked for the rain totals clear marker"),
		Serial:      flag.String("serial", "", "board serial (uuid), generated when empty"),
		Atmospheric: flag.Bool("atm", true, "BMP/BME and MCP9808 sensors fitted"),
	}
	flag.Parse()
	return a
}
