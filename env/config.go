package env

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

var (
	ErrKeyLength = errors.New("aes key must be 16 characters")
	ErrIVNotSet  = errors.New("aes iv seed not set")
	ErrTxPower   = errors.New("tx power out of range (valid range: 5-23)")
	ErrFrequency = errors.New("invalid frequency (valid: 433, 866, 915)")
	ErrUnitID    = errors.New("unit id out of range (valid range: 0-254)")
	ErrGatewayID = errors.New("gateway id out of range (valid range: 0-254)")
	ErrDistType  = errors.New("distance gauge type must be 0, 5 or 10")
)

// Config is the immutable station configuration assembled at boot.
type Config struct {
	AESKey    []byte
	IVSeed    uint64
	UnitID    int
	GatewayID int
	TxPower   int
	Frequency int
	ObsPeriod int

	WindEnabled  bool
	Rain1Enabled bool
	Rain2Enabled bool
	DistType     int
	DistBaseline int
	Atmospheric  bool

	I2CBus      string
	Broker      string
	MetricsAddr string
	EEPROMFile  string
	ObsLogDir   string
	MarkerDir   string
	PostgresDSN string
	Serial      string
	Test        bool
	Verbose     bool
}

// Load builds the config from the parsed flags. Secrets come from the
// environment: LORA_AES_KEY, LORA_AES_IV and OBS_POSTGRES_DSN.
func Load(a Args) (Config, error) {
	c := Config{
		UnitID:       *a.UnitID,
		GatewayID:    *a.GatewayID,
		TxPower:      *a.TxPower,
		Frequency:    *a.Frequency,
		ObsPeriod:    *a.ObsPeriod,
		WindEnabled:  *a.WindOn,
		Rain1Enabled: *a.Rain1On,
		Rain2Enabled: *a.Rain2On,
		DistType:     *a.DistType,
		DistBaseline: *a.DistBase,
		Atmospheric:  *a.Atmospheric,
		I2CBus:       *a.I2CBus,
		Broker:       *a.Broker,
		MetricsAddr:  *a.Metrics,
		EEPROMFile:   *a.EEPROMFile,
		ObsLogDir:    *a.ObsLogDir,
		MarkerDir:    *a.MarkerDir,
		Serial:       *a.Serial,
		Test:         *a.Test,
		Verbose:      *a.Verbose,
	}

	if key, ok := os.LookupEnv("LORA_AES_KEY"); ok {
		c.AESKey = []byte(key)
	}
	if iv, ok := os.LookupEnv("LORA_AES_IV"); ok {
		seed, err := strconv.ParseUint(iv, 10, 64)
		if err != nil {
			return c, fmt.Errorf("LORA_AES_IV: %w", err)
		}
		c.IVSeed = seed
	}
	if dsn, ok := os.LookupEnv("OBS_POSTGRES_DSN"); ok {
		c.PostgresDSN = dsn
	}
	return c, nil
}

// ValidateRadio checks the radio settings. A failure leaves the radio
// uninitialised, the station keeps running.
func (c Config) ValidateRadio() error {
	switch {
	case len(c.AESKey) != 16:
		return ErrKeyLength
	case c.IVSeed == 0:
		return ErrIVNotSet
	case c.TxPower < 5 || c.TxPower > 23:
		return ErrTxPower
	case c.Frequency != 915 && c.Frequency != 866 && c.Frequency != 433:
		return ErrFrequency
	case c.UnitID < 0 || c.UnitID > 254:
		return ErrUnitID
	case c.GatewayID < 0 || c.GatewayID > 254:
		return ErrGatewayID
	}
	return nil
}

// ValidateDistance checks the distance gauge settings.
func (c Config) ValidateDistance() error {
	switch c.DistType {
	case 0, 5, 10:
		return nil
	}
	return ErrDistType
}
