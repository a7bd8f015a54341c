package main

import (
	"context"
	"errors"
	"time"

	"github.com/gr-butler/lorawx/env"
	"github.com/gr-butler/lorawx/lora"
	"github.com/gr-butler/lorawx/message"
	"github.com/gr-butler/lorawx/obs"
	"github.com/gr-butler/lorawx/obslog"
	"github.com/gr-butler/lorawx/schedule"
	"github.com/gr-butler/lorawx/status"
	"github.com/gr-butler/lorawx/totals"
	logger "github.com/sirupsen/logrus"
)

type sender interface {
	Send(ctx context.Context, frame []byte) error
}

type flasher interface {
	Flash()
}

type weatherstation struct {
	station   int
	deviceID  string
	period    int // minutes
	early     int // seconds
	markerDir string

	caps      obs.Capabilities
	status    *status.Bits
	assembler *obs.Assembler
	totals    *totals.Store
	encoder   *message.Encoder
	framer    *message.Framer
	transport sender
	sink      obslog.Sink
	txLED     flasher

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run sends the info message and then one observation per period until ctx
// is cancelled.
func (w *weatherstation) Run(ctx context.Context) error {
	w.sendInfo(ctx)
	for {
		wait := schedule.SecondsToNext(w.period, w.now().Unix(), w.early)
		logger.Infof("Next observation in [%v]s", wait)
		if err := w.sleep(ctx, time.Duration(wait)*time.Second); err != nil {
			return err
		}
		// pre-roll, the wind ring and distance samples fill before the boundary
		if w.early > 0 {
			if left := schedule.SecondsToNext(w.period, w.now().Unix(), 0); left <= w.early {
				if err := w.sleep(ctx, time.Duration(left)*time.Second); err != nil {
					return err
				}
			}
		}
		w.cycle(ctx)
	}
}

// cycle takes, logs and transmits one observation.
func (w *weatherstation) cycle(ctx context.Context) {
	if w.totals != nil && w.totals.Loaded() {
		if _, err := w.totals.ClearIfMarked(w.markerDir, env.ClearMarker, w.now()); err != nil {
			logger.Errorf("Rain totals clear failed [%v]", err)
		}
	}

	set, err := w.assembler.Take(ctx)
	if err != nil {
		logger.Errorf("Observation skipped [%v]", err)
		Prom_cyclesSkipped.Inc()
		return
	}
	defer set.Clear()

	h := message.Header{Time: set.Time, Station: w.station, DeviceID: w.deviceID}

	line := w.encoder.Full(h, set)
	logger.Infof("OBS [%v]", line)
	if err := w.sink.Write(ctx, set.Time, line); err != nil {
		logger.Errorf("Failed to log observation [%v]", err)
		w.status.Set(status.SD)
	} else {
		w.status.Clear(status.SD)
	}

	chunks, err := w.encoder.Chunks(h, set)
	if err != nil {
		logger.Errorf("Failed to encode observation [%v]", err)
		return
	}
	for _, c := range chunks {
		if c.Oversized {
			logger.Warnf("Field [%v] is over the chunk budget, sending alone", c.IDs)
		}
		w.send(ctx, message.TypeObservation, c.Body)
	}
	recordMetrics(set)
	w.status.ClearPowerOn()
}

func (w *weatherstation) send(ctx context.Context, kind, body string) bool {
	frame, err := w.framer.Frame(kind, body)
	if err != nil {
		logger.Errorf("Failed to frame [%v] [%v]", kind, err)
		Prom_sendErrors.Inc()
		return false
	}
	if err := w.transport.Send(ctx, frame); err != nil {
		logger.Errorf("Failed to send [%v] frame [%v]", kind, err)
		Prom_sendErrors.Inc()
		if errors.Is(err, lora.ErrRadioNotReady) {
			w.status.Set(status.LoRa)
		}
		return false
	}
	Prom_framesSent.WithLabelValues(kind).Inc()
	if w.txLED != nil {
		w.txLED.Flash()
	}
	return true
}

// sendInfo reports the station setup once at boot.
func (w *weatherstation) sendInfo(ctx context.Context) {
	now := w.now()
	bv := 0.0
	if w.assembler.Battery != nil {
		if v, err := w.assembler.Battery(); err == nil {
			bv = v
		}
	}
	info := obs.Info{
		Time:          now,
		Version:       env.Version,
		Battery:       bv,
		Status:        w.status.Value(),
		Period:        w.period,
		SecondsToNext: schedule.SecondsToNext(w.period, now.Unix(), 0),
		Sensors:       w.caps.Tags(),
	}
	h := message.Header{Time: now, Station: w.station, DeviceID: w.deviceID}
	body := message.InfoBody(h, info)
	logger.Infof("INFO [%v]", body)
	w.send(ctx, message.TypeInfo, body)
}
