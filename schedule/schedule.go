package schedule

import (
	"github.com/gr-butler/lorawx/env"
	logger "github.com/sirupsen/logrus"
)

var allowedPeriods = []int{5, 6, 10, 15, 20, 30}

// CoercePeriod returns p if it divides the hour evenly, otherwise the default 15.
func CoercePeriod(p int) int {
	for _, a := range allowedPeriods {
		if p == a {
			return p
		}
	}
	logger.Warnf("Observation period [%v] not allowed, using [%v]", p, env.DefaultObsPeriod)
	return env.DefaultObsPeriod
}

// SecondsToNext is the time until the next period boundary, started early
// by early seconds when there is room. A period that does not divide the hour
// is coerced first.
func SecondsToNext(periodMinutes int, nowUnix int64, early int) int {
	periodMinutes = CoercePeriod(periodMinutes)
	period := int64(periodMinutes) * 60
	remaining := period - (nowUnix % period)
	if remaining > int64(early) {
		remaining -= int64(early)
	}
	return int(remaining)
}

// EarlyStart is the pre-roll needed by the fitted sensors, wind, distance and
// particulate sampling all need the minute before the boundary.
func EarlyStart(wind, distance, pm bool) int {
	if wind || distance || pm {
		return env.EarlyStartSecs
	}
	return 0
}
