package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gr-butler/lorawx/device"
	"github.com/gr-butler/lorawx/distance"
	"github.com/gr-butler/lorawx/env"
	"github.com/gr-butler/lorawx/led"
	"github.com/gr-butler/lorawx/lora"
	"github.com/gr-butler/lorawx/message"
	"github.com/gr-butler/lorawx/obs"
	"github.com/gr-butler/lorawx/obslog"
	"github.com/gr-butler/lorawx/rain"
	"github.com/gr-butler/lorawx/schedule"
	"github.com/gr-butler/lorawx/sensors"
	"github.com/gr-butler/lorawx/status"
	"github.com/gr-butler/lorawx/totals"
	"github.com/gr-butler/lorawx/wind"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
)

func main() {
	logger.Infof("Starting LoRa weather station [%v]", env.Version)

	args := env.ParseArgs()
	if *args.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}
	cfg, err := env.Load(args)
	if err != nil {
		logger.Fatalf("Bad configuration [%v]", err)
	}
	if cfg.Test {
		logger.Info("TEST MODE")
	}
	if err := cfg.ValidateDistance(); err != nil {
		logger.Errorf("Distance gauge disabled [%v]", err)
		cfg.DistType = 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		go func() {
			logger.Infof("Starting metrics on [%v]", cfg.MetricsAddr)
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			logger.Error(http.ListenAndServe(cfg.MetricsAddr, mux))
		}()
	}

	w, closer := build(ctx, cfg)
	defer closer()

	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Errorf("Station stopped [%v]", err)
		os.Exit(1)
	}
	logger.Info("Exiting...")
}

// build wires the hardware to the station. Missing hardware is logged and
// flagged in the status bits, never fatal.
func build(ctx context.Context, cfg env.Config) (*weatherstation, func()) {
	bits := status.New()
	var closers []func()
	closer := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	serial, err := device.Serial(cfg.Serial)
	if err != nil {
		logger.Fatalf("Bad board serial [%v]", err)
	}
	deviceID := device.ID(serial)
	logger.Infof("Device ID [%v]", deviceID)

	var bus i2c.BusCloser
	if b, err := sensors.Init(cfg.I2CBus); err != nil {
		logger.Errorf("No I²C bus, running without I²C sensors [%v]", err)
	} else {
		bus = b
		closers = append(closers, func() { _ = bus.Close() })
	}

	var adc *sensors.ADC
	if bus != nil {
		if adc, err = sensors.NewADC(bus); err != nil {
			logger.Errorf("ADC not found [%v]", err)
			adc = nil
		}
	}

	assembler := &obs.Assembler{Status: bits, Clock: obs.SystemClock{}}
	if adc != nil {
		if b, err := sensors.NewBattery(adc); err != nil {
			logger.Errorf("Battery monitor failed [%v]", err)
		} else {
			assembler.Battery = b.Voltage
		}
	}

	// rain totals
	store := openTotals(cfg, bus, bits)
	assembler.Totals = store

	tipLED := led.NewLED("Rain Tip", env.RainTipLed)
	rainEnabled := [2]bool{cfg.Rain1Enabled, cfg.Rain2Enabled}
	rainPins := [2]string{env.RainGauge1In, env.RainGauge2In}
	for i := range rainEnabled {
		if !rainEnabled[i] {
			continue
		}
		g := rain.NewGauge(fmt.Sprintf("rg%d", i+1), time.Now())
		assembler.Gauges[i] = g
		pin := gpioreg.ByName(rainPins[i])
		if pin == nil {
			logger.Errorf("Failed to find %v - rain pin", rainPins[i])
			continue
		}
		rm, err := sensors.NewRainmeter(pin, g, tipLED)
		if err != nil {
			logger.Errorf("Rain gauge [%v] failed [%v]", g.Name, err)
			continue
		}
		go rm.Run(ctx)
	}

	windOK := false
	if cfg.WindEnabled {
		agg := wind.NewAggregator()
		assembler.Wind = agg
		windOK = startWind(ctx, cfg, adc, agg, bits)
	}

	if cfg.DistType != 0 && adc != nil {
		if d, err := sensors.NewDistanceADC(adc); err != nil {
			logger.Errorf("Distance gauge failed [%v]", err)
			cfg.DistType = 0
		} else {
			assembler.Distance = distance.NewGauge(d, cfg.DistType, cfg.DistBaseline)
		}
	} else {
		cfg.DistType = 0
	}

	var aux []obs.Descriptor
	if cfg.Atmospheric && bus != nil {
		aux = sensors.NewAtmosphere(bus, bits).Descriptors()
	}

	caps := obs.NewCapabilities(obs.CapabilityOpts{
		Rain1:        cfg.Rain1Enabled,
		Rain2:        cfg.Rain2Enabled,
		DistType:     cfg.DistType,
		DistBaseline: cfg.DistBaseline,
		Wind:         windOK,
		Sensors:      aux,
	})
	assembler.Caps = caps

	transport := openTransport(ctx, cfg, bits, deviceID)

	var sinks obslog.Multi
	if fl, err := obslog.NewFileLog(cfg.ObsLogDir); err != nil {
		logger.Errorf("Observation log unavailable [%v]", err)
		bits.Set(status.SD)
	} else {
		sinks = append(sinks, fl)
	}
	if cfg.PostgresDSN != "" {
		pg, err := obslog.OpenPostgres(ctx, cfg.PostgresDSN, obslog.DefaultTable, cfg.UnitID, deviceID)
		if err != nil {
			logger.Errorf("Postgres observation log unavailable [%v]", err)
		} else {
			sinks = append(sinks, pg)
			closers = append(closers, func() { _ = pg.Close() })
		}
	}

	// boot flicker, then a steady light while the radio is down
	txLED := led.NewLED("Transmit", env.TransmitLed)
	txLED.Flicker(3)
	tipLED.Flicker(3)
	if bits.Has(status.LoRa) {
		txLED.On()
	}

	period := schedule.CoercePeriod(cfg.ObsPeriod)
	early := schedule.EarlyStart(caps.Wind(), caps.Distance(), caps.PM())

	w := &weatherstation{
		station:   cfg.UnitID,
		deviceID:  deviceID,
		period:    period,
		early:     early,
		markerDir: cfg.MarkerDir,
		caps:      caps,
		status:    bits,
		assembler: assembler,
		totals:    store,
		encoder:   message.NewEncoder(message.DefaultBudget),
		framer:    message.NewFramer(cfg.UnitID),
		transport: transport,
		sink:      sinks,
		txLED:     txLED,
		now:       time.Now,
		sleep:     sleepCtx,
	}
	return w, closer
}

func openTotals(cfg env.Config, bus i2c.Bus, bits *status.Bits) *totals.Store {
	if !cfg.Rain1Enabled && !cfg.Rain2Enabled {
		return nil
	}
	var dev totals.EEPROM
	switch {
	case cfg.EEPROMFile != "":
		f, err := totals.OpenFile(cfg.EEPROMFile)
		if err != nil {
			logger.Errorf("EEPROM image [%v] failed [%v]", cfg.EEPROMFile, err)
			bits.Set(status.EEPROM)
			return nil
		}
		dev = f
	case bus != nil:
		dev = totals.NewI2CEEPROM(bus, env.EEPROMAddr)
	default:
		bits.Set(status.EEPROM)
		return nil
	}
	store := totals.NewStore(dev)
	if err := store.Load(time.Now()); err != nil {
		logger.Errorf("EEPROM not found [%v]", err)
		bits.Set(status.EEPROM)
		return store
	}
	if store.Fault() {
		bits.Set(status.EEPROM)
	}
	return store
}

func startWind(ctx context.Context, cfg env.Config, adc *sensors.ADC, agg *wind.Aggregator, bits *status.Bits) bool {
	if adc == nil {
		logger.Error("No ADC for the wind vane")
		bits.Set(status.AS5600)
		return false
	}
	vane, err := adc.Pin(sensors.VaneChannel)
	if err != nil {
		logger.Errorf("Wind vane failed [%v]", err)
		bits.Set(status.AS5600)
		return false
	}
	pin := gpioreg.ByName(env.WindSpeedIn)
	if pin == nil {
		logger.Errorf("Failed to find %v - wind pin", env.WindSpeedIn)
		return false
	}
	a, err := sensors.NewAnemometer(pin, vane, agg, cfg.Verbose)
	if err != nil {
		logger.Errorf("Anemometer failed [%v]", err)
		return false
	}
	go a.Run(ctx)
	return true
}

func openTransport(ctx context.Context, cfg env.Config, bits *status.Bits, deviceID string) *lora.Transport {
	var cs gpio.PinOut
	if p := gpioreg.ByName(env.RadioCS); p != nil {
		cs = p
	}

	var radio lora.Radio
	if err := cfg.ValidateRadio(); err != nil {
		logger.Errorf("Radio config invalid, radio disabled [%v]", err)
	} else if cfg.Test {
		radio = &lora.NullRadio{}
	} else {
		cctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		client, err := lora.ConnectMQTT(cctx, cfg.Broker, "lorawx-"+deviceID)
		if err != nil {
			logger.Errorf("Radio uplink failed [%v]", err)
		} else {
			radio = lora.NewMQTTRadio(client, lora.UplinkTopic(cfg.GatewayID, cfg.UnitID))
		}
	}

	t, err := lora.NewTransport(radio, cs, cfg.AESKey, cfg.IVSeed)
	if err != nil {
		logger.Errorf("Radio cipher failed [%v]", err)
	}
	if !t.Ready() {
		bits.Set(status.LoRa)
	}
	return t
}
