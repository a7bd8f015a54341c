package obs

import "github.com/gr-butler/lorawx/qc"

// Field is one output of a sensor read.
type Field struct {
	ID       string
	Quantity qc.Quantity
	Kind     Kind
}

// Descriptor describes an auxiliary sensor. Read returns one value per
// field, in field order.
type Descriptor struct {
	Tag    string
	Bit    uint32 // status bit raised while reads fail
	Fields []Field
	Read   func() ([]float64, error)
}

// Capabilities is what the station found at boot. It does not change
// after NewCapabilities.
type Capabilities struct {
	rain         [2]bool
	distType     int
	distBaseline int
	wind         bool
	pm           bool
	sensors      []Descriptor
}

type CapabilityOpts struct {
	Rain1        bool
	Rain2        bool
	DistType     int
	DistBaseline int
	Wind         bool
	PM           bool
	Sensors      []Descriptor
}

func NewCapabilities(o CapabilityOpts) Capabilities {
	sensors := make([]Descriptor, len(o.Sensors))
	copy(sensors, o.Sensors)
	return Capabilities{
		rain:         [2]bool{o.Rain1, o.Rain2},
		distType:     o.DistType,
		distBaseline: o.DistBaseline,
		wind:         o.Wind,
		pm:           o.PM,
		sensors:      sensors,
	}
}

// Rain reports whether gauge 0 or 1 is fitted.
func (c Capabilities) Rain(gauge int) bool   { return c.rain[gauge] }
func (c Capabilities) AnyRain() bool         { return c.rain[0] || c.rain[1] }
func (c Capabilities) Distance() bool        { return c.distType != 0 }
func (c Capabilities) DistanceType() int     { return c.distType }
func (c Capabilities) DistanceBaseline() int { return c.distBaseline }
func (c Capabilities) Wind() bool            { return c.wind }
func (c Capabilities) PM() bool              { return c.pm }

// Sensors returns the auxiliary sensor table in report order.
func (c Capabilities) Sensors() []Descriptor {
	out := make([]Descriptor, len(c.sensors))
	copy(out, c.sensors)
	return out
}

// Tags lists fitted sensors for the info message.
func (c Capabilities) Tags() []string {
	var tags []string
	if c.rain[0] {
		tags = append(tags, "RG1")
	}
	if c.rain[1] {
		tags = append(tags, "RG2")
	}
	if c.distType == 5 {
		tags = append(tags, "DS5M")
	} else if c.distType == 10 {
		tags = append(tags, "DS10M")
	}
	if c.wind {
		tags = append(tags, "WS", "WD")
	}
	for _, d := range c.sensors {
		tags = append(tags, d.Tag)
	}
	return tags
}
