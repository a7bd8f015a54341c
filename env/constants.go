package env

import "time"

const (
	GPIO06 = "GPIO06" // wind speed reed switch
	GPIO08 = "GPIO08" // CE0 radio chip select
	GPIO12 = "GPIO12" // rain gauge 1
	GPIO13 = "GPIO13" // rain gauge 2
	GPIO19 = "GPIO19" // rain tip LED
	GPIO20 = "GPIO20" // transmit LED

	RainGauge1In = GPIO12
	RainGauge2In = GPIO13
	WindSpeedIn  = GPIO06
	RadioCS      = GPIO08

	TransmitLed = GPIO20
	RainTipLed  = GPIO19

	LEDFlashDuration = time.Millisecond * 50

	Version = "LoRaWX-251018"

	// message budget
	LoRaPayload      = 222
	ObsHeaderReserve = 110
	ObsFieldSpace    = LoRaPayload - ObsHeaderReserve
	MaxObservations  = 64
	MaxRecordID      = 11

	// tipping bucket
	MmPerTip     = 0.2
	RainDebounce = time.Millisecond * 500

	// rain QC ceiling, mm in any 60 second window
	RainMaxPer60s = 25.4

	// Davis style cup anemometer, 1 Hz sampling
	MpsPerHz       = 1.006
	WindSlots      = 60
	GustWindow     = 3
	WindSampleRate = time.Second

	DistanceSamples  = 60
	DistanceInterval = time.Millisecond * 250

	DefaultObsPeriod = 15 // minutes
	EarlyStartSecs   = 60

	EEPROMAddr  = 0x50
	ClearMarker = "CRT.TXT"
)
