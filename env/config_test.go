package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func goodConfig() Config {
	return Config{
		AESKey:    []byte("0123456789ABCDEF"),
		IVSeed:    1234567,
		UnitID:    1,
		GatewayID: 0,
		TxPower:   23,
		Frequency: 915,
	}
}

func Test_Config_ValidateRadio(t *testing.T) {
	require.NoError(t, goodConfig().ValidateRadio())

	tests := []struct {
		name   string
		modify func(c *Config)
		err    error
	}{
		{"short key", func(c *Config) { c.AESKey = []byte("short") }, ErrKeyLength},
		{"no iv", func(c *Config) { c.IVSeed = 0 }, ErrIVNotSet},
		{"low power", func(c *Config) { c.TxPower = 4 }, ErrTxPower},
		{"high power", func(c *Config) { c.TxPower = 24 }, ErrTxPower},
		{"freq", func(c *Config) { c.Frequency = 868 }, ErrFrequency},
		{"unit", func(c *Config) { c.UnitID = 255 }, ErrUnitID},
		{"gateway", func(c *Config) { c.GatewayID = -1 }, ErrGatewayID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := goodConfig()
			tt.modify(&c)
			assert.ErrorIs(t, c.ValidateRadio(), tt.err)
		})
	}
}

func Test_Config_ValidateDistance(t *testing.T) {
	for _, d := range []int{0, 5, 10} {
		assert.NoError(t, Config{DistType: d}.ValidateDistance())
	}
	assert.ErrorIs(t, Config{DistType: 7}.ValidateDistance(), ErrDistType)
}

func Test_Load(t *testing.T) {
	t.Setenv("LORA_AES_KEY", "0123456789ABCDEF")
	t.Setenv("LORA_AES_IV", "1234567")
	yes, no := true, false
	one, zero, p, f := 1, 0, 15, 915
	s := ""
	a := Args{
		Test: &no, Verbose: &no, WindOn: &yes, Rain1On: &yes, Rain2On: &no,
		DistType: &zero, DistBase: &zero, ObsPeriod: &p, UnitID: &one, GatewayID: &zero,
		TxPower: &p, Frequency: &f, I2CBus: &s, Broker: &s, Metrics: &s, EEPROMFile: &s,
		ObsLogDir: &s, MarkerDir: &s, Serial: &s, Atmospheric: &yes,
	}
	c, err := Load(a)
	require.NoError(t, err)
	assert.Equal(t, uint64(1234567), c.IVSeed)
	assert.Equal(t, []byte("0123456789ABCDEF"), c.AESKey)
	assert.NoError(t, c.ValidateRadio())

	t.Setenv("LORA_AES_IV", "abc")
	_, err = Load(a)
	assert.Error(t, err)
}
