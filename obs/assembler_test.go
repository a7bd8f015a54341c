package obs

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gr-butler/lorawx/distance"
	"github.com/gr-butler/lorawx/env"
	"github.com/gr-butler/lorawx/qc"
	"github.com/gr-butler/lorawx/rain"
	"github.com/gr-butler/lorawx/status"
	"github.com/gr-butler/lorawx/totals"
	"github.com/gr-butler/lorawx/wind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	t   time.Time
	err error
}

func (c fixedClock) Now() (time.Time, error) { return c.t, c.err }

type fakeDistance struct {
	r   distance.Reading
	err error
}

func (f fakeDistance) Measure(context.Context) (distance.Reading, error) { return f.r, f.err }

type memEEPROM struct{ b [64]byte }

func (m *memEEPROM) ReadAt(p []byte, off int64) (int, error)  { return copy(p, m.b[off:]), nil }
func (m *memEEPROM) WriteAt(p []byte, off int64) (int, error) { return copy(m.b[off:], p), nil }

var noon = time.Date(2025, 9, 25, 12, 0, 0, 0, time.UTC)

func Test_Assembler_Order(t *testing.T) {
	agg := wind.NewAggregator()
	for i := 0; i < 60; i++ {
		agg.RecordSample(90, 5)
	}
	caps := NewCapabilities(CapabilityOpts{
		Rain1:    true,
		Rain2:    true,
		DistType: 5,
		Wind:     true,
		Sensors: []Descriptor{{
			Tag:    "MCP1",
			Bit:    status.MCP1,
			Fields: []Field{{ID: "mt1", Quantity: qc.Temperature, Kind: Float}},
			Read:   func() ([]float64, error) { return []float64{21.25}, nil },
		}},
	})
	a := &Assembler{
		Caps:     caps,
		Status:   status.New(),
		Clock:    fixedClock{t: noon},
		Battery:  func() (float64, error) { return 4.12, nil },
		Gauges:   [2]*rain.Gauge{rain.NewGauge("rg1", noon.Add(-15*time.Minute)), rain.NewGauge("rg2", noon.Add(-15*time.Minute))},
		Distance: fakeDistance{r: distance.Reading{Raw: 1200, Adjusted: 800}},
		Wind:     agg,
	}

	set, err := a.Take(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"bv", "hth", "rg1", "rg2", "ds", "dsr", "ws", "wd", "wg", "wgd", "mt1"}, set.IDs())
	assert.Equal(t, noon, set.Time)
	assert.True(t, set.Active)

	ws, _ := set.Get("ws")
	assert.Equal(t, 5.0, ws.F)
	wd, _ := set.Get("wd")
	assert.Equal(t, int64(90), wd.I)
	wg, _ := set.Get("wg")
	assert.Equal(t, 5.0, wg.F)
	ds, _ := set.Get("ds")
	assert.Equal(t, Float, ds.Kind)
	assert.Equal(t, `,"ds":800.0`, ds.Encode())
	dsr, _ := set.Get("dsr")
	assert.Equal(t, `,"dsr":1200.0`, dsr.Encode())
	hth, _ := set.Get("hth")
	assert.Equal(t, Uint, hth.Kind)
	assert.Equal(t, uint64(status.PowerOn), hth.U)
	assert.Equal(t, 0, agg.SampleCount())
}

func Test_Assembler_ClockInvalid(t *testing.T) {
	bits := status.New()
	a := &Assembler{Status: bits, Clock: fixedClock{t: noon, err: ErrClockInvalid}}
	set, err := a.Take(context.Background())
	assert.ErrorIs(t, err, ErrClockInvalid)
	assert.Nil(t, set)
	assert.True(t, bits.Has(status.RTC))
}

func Test_Assembler_Sentinels(t *testing.T) {
	bits := status.New()
	caps := NewCapabilities(CapabilityOpts{
		DistType: 10,
		Sensors: []Descriptor{{
			Tag: "BMX1",
			Bit: status.BMX1,
			Fields: []Field{
				{ID: "bp1", Quantity: qc.Pressure, Kind: Float},
				{ID: "bt1", Quantity: qc.Temperature, Kind: Float},
			},
			Read: func() ([]float64, error) { return nil, errors.New("no ack") },
		}, {
			Tag:    "MCP1",
			Bit:    status.MCP1,
			Fields: []Field{{ID: "mt1", Quantity: qc.Temperature, Kind: Float}},
			Read:   func() ([]float64, error) { return []float64{99}, nil },
		}},
	})
	a := &Assembler{
		Caps:     caps,
		Status:   bits,
		Clock:    fixedClock{t: noon},
		Battery:  func() (float64, error) { return 0, errors.New("adc") },
		Distance: fakeDistance{err: distance.ErrNoSamples},
	}

	set, err := a.Take(context.Background())
	require.NoError(t, err)

	bv, _ := set.Get("bv")
	assert.Equal(t, -999.9, bv.F)
	ds, _ := set.Get("ds")
	assert.Equal(t, `,"ds":-999.0`, ds.Encode())
	bp, _ := set.Get("bp1")
	assert.Equal(t, -999.9, bp.F)
	// out of range reads are replaced, but the sensor answered
	mt, _ := set.Get("mt1")
	assert.Equal(t, -999.9, mt.F)

	assert.True(t, bits.Has(status.BMX1))
	assert.False(t, bits.Has(status.MCP1))
	hth, _ := set.Get("hth")
	assert.Equal(t, uint64(status.PowerOn|status.BMX1), hth.U)
}

func Test_Assembler_RainTotals(t *testing.T) {
	store := totals.NewStore(&memEEPROM{})
	require.NoError(t, store.Load(noon))
	require.True(t, store.Fault())

	bits := status.New()
	g := rain.NewGauge("rg1", noon)
	a := &Assembler{
		Caps:   NewCapabilities(CapabilityOpts{Rain1: true}),
		Status: bits,
		Gauges: [2]*rain.Gauge{g},
		Totals: store,
	}

	take := func(at time.Time, tips int) *Set {
		for i := 0; i < tips; i++ {
			g.Pulse(at.Add(-time.Duration(tips-i) * time.Minute))
		}
		a.Clock = fixedClock{t: at}
		set, err := a.Take(context.Background())
		require.NoError(t, err)
		return set
	}

	set := take(noon.Add(15*time.Minute), 5)
	assert.Equal(t, []string{"bv", "hth", "rg1", "rgt1", "rgp1"}, set.IDs())
	rg, _ := set.Get("rg1")
	assert.InDelta(t, 1.0, rg.F, 1e-9)
	rgt, _ := set.Get("rgt1")
	assert.InDelta(t, 1.0, rgt.F, 1e-6)
	assert.True(t, bits.Has(status.EEPROM))

	set = take(noon.Add(30*time.Minute), 2)
	rgt, _ = set.Get("rgt1")
	assert.InDelta(t, 1.4, rgt.F, 1e-6)

	// next day
	set = take(noon.Add(24*time.Hour), 1)
	rgt, _ = set.Get("rgt1")
	assert.InDelta(t, 0.2, rgt.F, 1e-6)
	rgp, _ := set.Get("rgp1")
	assert.InDelta(t, 1.4, rgp.F, 1e-6)
}

func Test_Assembler_RainWithoutTotals(t *testing.T) {
	g := rain.NewGauge("rg2", noon)
	a := &Assembler{
		Caps:   NewCapabilities(CapabilityOpts{Rain2: true}),
		Status: status.New(),
		Clock:  fixedClock{t: noon.Add(time.Minute)},
		Gauges: [2]*rain.Gauge{nil, g},
	}
	set, err := a.Take(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"bv", "hth", "rg2"}, set.IDs())
}

func Test_Assembler_RainOverCeiling(t *testing.T) {
	g := rain.NewGauge("rg1", noon)
	g.Debounce = 0
	for i := 1; i <= 200; i++ {
		g.Pulse(noon.Add(time.Duration(i) * 100 * time.Millisecond))
	}
	a := &Assembler{
		Caps:   NewCapabilities(CapabilityOpts{Rain1: true}),
		Status: status.New(),
		Clock:  fixedClock{t: noon.Add(time.Minute)},
		Gauges: [2]*rain.Gauge{g},
	}
	set, err := a.Take(context.Background())
	require.NoError(t, err)
	rg, _ := set.Get("rg1")
	assert.True(t, qc.IsSentinel(qc.Rain, rg.F))
}

func Test_Assembler_SensorRecovers(t *testing.T) {
	fail := true
	bits := status.New()
	a := &Assembler{
		Caps: NewCapabilities(CapabilityOpts{Sensors: []Descriptor{{
			Tag:    "MCP1",
			Bit:    status.MCP1,
			Fields: []Field{{ID: "mt1", Quantity: qc.Temperature, Kind: Float}},
			Read: func() ([]float64, error) {
				if fail {
					return nil, errors.New("nak")
				}
				return []float64{18.5}, nil
			},
		}}}),
		Status: bits,
		Clock:  fixedClock{t: noon},
	}

	_, err := a.Take(context.Background())
	require.NoError(t, err)
	assert.True(t, bits.Has(status.MCP1))

	fail = false
	set, err := a.Take(context.Background())
	require.NoError(t, err)
	assert.False(t, bits.Has(status.MCP1))
	mt, _ := set.Get("mt1")
	assert.Equal(t, 18.5, mt.F)
}

func Test_Set_Limits(t *testing.T) {
	set := NewSet(noon)
	assert.ErrorIs(t, set.Add(FloatRecord(strings.Repeat("x", env.MaxRecordID+1), 1)), ErrIDTooLong)
	for i := 0; i < env.MaxObservations; i++ {
		require.NoError(t, set.Add(IntRecord("n", int64(i))))
	}
	assert.ErrorIs(t, set.Add(IntRecord("n", 0)), ErrSetFull)

	set.Clear()
	assert.False(t, set.Active)
	assert.Empty(t, set.Records)
}

func Test_Record_Encode(t *testing.T) {
	assert.Equal(t, `,"bt1":21.3`, FloatRecord("bt1", 21.26).Encode())
	assert.Equal(t, `,"wd":270`, IntRecord("wd", 270).Encode())
	assert.Equal(t, `,"hth":32769`, UintRecord("hth", 0x8001).Encode())
	assert.Equal(t, `,"ds":-999.0`, FloatRecord("ds", -999).Encode())
}

func Test_Capabilities_Tags(t *testing.T) {
	caps := NewCapabilities(CapabilityOpts{
		Rain1:    true,
		DistType: 10,
		Wind:     true,
		Sensors:  []Descriptor{{Tag: "BMX1"}},
	})
	assert.Equal(t, []string{"RG1", "DS10M", "WS", "WD", "BMX1"}, caps.Tags())
	assert.True(t, caps.AnyRain())
	assert.False(t, caps.Rain(1))
	assert.False(t, caps.PM())
}
