package qc

import "math"

// Quantity is the physical quantity a reading measures.
type Quantity int

const (
	Temperature Quantity = iota
	Humidity
	Pressure
	WindSpeed
	WindDirection
	Rain
	Lux
	UV
	IR
	Visible
	Voltage
)

// Range is the accepted span for a quantity and the sentinel reported outside it.
type Range struct {
	Min float64
	Max float64
	Err float64
}

var ranges = map[Quantity]Range{
	Temperature:   {Min: -40, Max: 60, Err: -999.9},
	Humidity:      {Min: 0, Max: 100, Err: -999.9},
	Pressure:      {Min: 300, Max: 1100, Err: -999.9},
	WindSpeed:     {Min: 0, Max: 100, Err: -999.9},
	WindDirection: {Min: 0, Max: 360, Err: -999},
	Rain:          {Min: 0, Max: 25.4, Err: -999.9},
	Lux:           {Min: 0, Max: 120000, Err: -999.9},
	UV:            {Min: 0, Max: 1000, Err: -999.9},
	IR:            {Min: 0, Max: 16000, Err: -999.9},
	Visible:       {Min: 0, Max: 2000, Err: -999.9},
	Voltage:       {Min: 0, Max: 6.6, Err: -999.9},
}

func (q Quantity) String() string {
	switch q {
	case Temperature:
		return "temperature"
	case Humidity:
		return "humidity"
	case Pressure:
		return "pressure"
	case WindSpeed:
		return "wind speed"
	case WindDirection:
		return "wind direction"
	case Rain:
		return "rain"
	case Lux:
		return "lux"
	case UV:
		return "uv"
	case IR:
		return "ir"
	case Visible:
		return "visible"
	case Voltage:
		return "voltage"
	}
	return "unknown"
}

// RangeOf returns the range for q.
func RangeOf(q Quantity) Range {
	return ranges[q]
}

// Gate returns v when it is finite and inside r, otherwise r.Err.
func Gate(v float64, r Range) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return r.Err
	}
	if v < r.Min || v > r.Max {
		return r.Err
	}
	return v
}

// Check gates v against the range for q.
func Check(q Quantity, v float64) float64 {
	return Gate(v, RangeOf(q))
}

// Sentinel is the error value for q.
func Sentinel(q Quantity) float64 {
	return ranges[q].Err
}

// IsSentinel reports whether v is the error value for q.
func IsSentinel(q Quantity, v float64) bool {
	return v == ranges[q].Err
}
