package obs

import (
	"context"
	"errors"
	"time"

	"github.com/gr-butler/lorawx/distance"
	"github.com/gr-butler/lorawx/qc"
	"github.com/gr-butler/lorawx/rain"
	"github.com/gr-butler/lorawx/status"
	"github.com/gr-butler/lorawx/totals"
	"github.com/gr-butler/lorawx/wind"
	logger "github.com/sirupsen/logrus"
)

var ErrClockInvalid = errors.New("clock not set")

// Clock is the station real time clock.
type Clock interface {
	Now() (time.Time, error)
}

// SystemClock trusts the host clock once it is past the build year.
type SystemClock struct{}

func (SystemClock) Now() (time.Time, error) {
	now := time.Now().UTC()
	if now.Year() < 2025 || now.Year() > 2099 {
		return now, ErrClockInvalid
	}
	return now, nil
}

type DistanceSensor interface {
	Measure(ctx context.Context) (distance.Reading, error)
}

// Assembler gathers one cycle's observations.
type Assembler struct {
	Caps     Capabilities
	Status   *status.Bits
	Clock    Clock
	Battery  func() (float64, error)
	Gauges   [2]*rain.Gauge
	Totals   *totals.Store
	Distance DistanceSensor
	Wind     *wind.Aggregator
}

// Take builds the observation set for this cycle. Rain counters are drained
// and the totals store updated. An invalid clock skips the cycle.
func (a *Assembler) Take(ctx context.Context) (*Set, error) {
	now, err := a.Clock.Now()
	if err != nil {
		a.Status.Set(status.RTC)
		return nil, err
	}
	a.Status.Clear(status.RTC)

	set := NewSet(now)
	add := func(r Record) {
		if err := set.Add(r); err != nil {
			logger.Errorf("Dropping observation [%v] [%v]", r.ID, err)
		}
	}

	bv := qc.Sentinel(qc.Voltage)
	if a.Battery != nil {
		if v, err := a.Battery(); err != nil {
			logger.Debugf("Battery read failed [%v]", err)
		} else {
			bv = qc.Check(qc.Voltage, v)
		}
	}
	add(FloatRecord("bv", bv))

	// hth goes in now, but status may still change during the cycle
	hthIndex := len(set.Records)
	add(UintRecord("hth", 0))

	if a.Caps.AnyRain() {
		a.takeRain(now, add)
	}

	if a.Caps.Distance() && a.Distance != nil {
		r, err := a.Distance.Measure(ctx)
		if err != nil {
			logger.Errorf("Distance read failed [%v]", err)
			add(FloatRecord("ds", -999))
			add(FloatRecord("dsr", -999))
		} else {
			add(FloatRecord("ds", float64(r.Adjusted)))
			add(FloatRecord("dsr", float64(r.Raw)))
		}
	}

	if a.Caps.Wind() && a.Wind != nil {
		add(FloatRecord("ws", qc.Check(qc.WindSpeed, a.Wind.AverageSpeed())))
		add(IntRecord("wd", int64(qc.Check(qc.WindDirection, float64(a.Wind.AverageDirection())))))
		add(FloatRecord("wg", qc.Check(qc.WindSpeed, a.Wind.Gust())))
		add(IntRecord("wgd", int64(qc.Check(qc.WindDirection, float64(a.Wind.GustDirection())))))
		a.Wind.ClearSampleCount()
	}

	for _, d := range a.Caps.Sensors() {
		values, err := d.Read()
		failed := err != nil || len(values) != len(d.Fields)
		a.Status.SetTo(d.Bit, failed)
		if failed {
			logger.Debugf("Sensor [%v] read failed [%v]", d.Tag, err)
			for _, f := range d.Fields {
				add(fieldRecord(f, qc.Sentinel(f.Quantity)))
			}
			continue
		}
		for i, f := range d.Fields {
			add(fieldRecord(f, qc.Check(f.Quantity, values[i])))
		}
	}

	if len(set.Records) > hthIndex {
		set.Records[hthIndex].U = uint64(a.Status.Value())
	}
	return set, nil
}

func (a *Assembler) takeRain(now time.Time, add func(Record)) {
	var inc [2]float64
	for i, g := range a.Gauges {
		if !a.Caps.Rain(i) || g == nil {
			continue
		}
		inc[i] = rain.QC(g.Drain(now))
		if qc.IsSentinel(qc.Rain, inc[i]) {
			logger.Warnf("Rain gauge [%v] over the rate ceiling, reporting [%v]", g.Name, inc[i])
		}
	}

	useTotals := a.Totals != nil && a.Totals.Loaded()
	if useTotals {
		if err := a.Totals.Update(now, inc); err != nil {
			logger.Errorf("Failed to update rain totals [%v]", err)
			a.Status.Set(status.EEPROM)
		}
		if a.Totals.Fault() {
			a.Status.Set(status.EEPROM)
		}
	}

	ids := [2][3]string{{"rg1", "rgt1", "rgp1"}, {"rg2", "rgt2", "rgp2"}}
	for i := range a.Gauges {
		if !a.Caps.Rain(i) {
			continue
		}
		add(FloatRecord(ids[i][0], inc[i]))
		if useTotals {
			today, prior := a.Totals.Totals(i)
			add(FloatRecord(ids[i][1], today))
			add(FloatRecord(ids[i][2], prior))
		}
	}
}

func fieldRecord(f Field, v float64) Record {
	switch f.Kind {
	case Int:
		return IntRecord(f.ID, int64(v))
	case Uint:
		if v < 0 {
			// sentinel on an unsigned field
			return IntRecord(f.ID, int64(v))
		}
		return UintRecord(f.ID, uint64(v))
	}
	return FloatRecord(f.ID, v)
}
