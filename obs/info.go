package obs

import "time"

// Info is the boot report sent once before the first observation.
type Info struct {
	Time          time.Time
	Version       string
	Battery       float64
	Status        uint32
	Period        int // minutes
	SecondsToNext int
	Sensors       []string
}
