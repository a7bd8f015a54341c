package main

import (
	"time"

	"github.com/gr-butler/lorawx/obs"
	"github.com/prometheus/client_golang/prometheus"
	logger "github.com/sirupsen/logrus"
)

var Prom_battery = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "battery_volts",
		Help: "Battery voltage",
	},
)

var Prom_statusBits = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "station_status_bits",
		Help: "Station status word (hth)",
	},
)

var Prom_rain = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "rain_mm",
		Help: "Rain in the last observation period mm",
	},
	[]string{"gauge"},
)

var Prom_rainToday = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "rain_today_mm",
		Help: "Rain total today (UTC) mm",
	},
	[]string{"gauge"},
)

var Prom_windspeed = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "windspeed",
		Help: "Average Wind Speed m/s",
	},
)

var Prom_windgust = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "windgust",
		Help: "Highest 3 second wind speed m/s",
	},
)

var Prom_windDirection = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "winddirection",
		Help: "Wind Direction Deg",
	},
)

var Prom_distance = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "distance_mm",
		Help: "Distance gauge reading mm, baseline adjusted",
	},
)

var Prom_framesSent = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "lora_frames_sent_total",
		Help: "Frames handed to the radio",
	},
	[]string{"type"},
)

var Prom_sendErrors = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "lora_send_errors_total",
		Help: "Frames that failed to send",
	},
)

var Prom_cyclesSkipped = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "observation_cycles_skipped_total",
		Help: "Observation cycles skipped (clock not set)",
	},
)

// called by prometheus
func init() {
	logger.Infof("%v: Initialize prometheus...", time.Now().Format(time.RFC822))
	prometheus.MustRegister(
		Prom_battery,
		Prom_statusBits,
		Prom_rain,
		Prom_rainToday,
		Prom_windspeed,
		Prom_windgust,
		Prom_windDirection,
		Prom_distance,
		Prom_framesSent,
		Prom_sendErrors,
		Prom_cyclesSkipped)
}

// recordMetrics copies the observation values to the gauges.
func recordMetrics(set *obs.Set) {
	value := func(id string) (float64, bool) {
		r, ok := set.Get(id)
		if !ok {
			return 0, false
		}
		switch r.Kind {
		case obs.Int:
			return float64(r.I), true
		case obs.Uint:
			return float64(r.U), true
		}
		return r.F, true
	}

	if v, ok := value("bv"); ok {
		Prom_battery.Set(v)
	}
	if v, ok := value("hth"); ok {
		Prom_statusBits.Set(v)
	}
	for _, g := range []string{"1", "2"} {
		if v, ok := value("rg" + g); ok {
			Prom_rain.WithLabelValues(g).Set(v)
		}
		if v, ok := value("rgt" + g); ok {
			Prom_rainToday.WithLabelValues(g).Set(v)
		}
	}
	if v, ok := value("ws"); ok {
		Prom_windspeed.Set(v)
	}
	if v, ok := value("wg"); ok {
		Prom_windgust.Set(v)
	}
	if v, ok := value("wd"); ok {
		Prom_windDirection.Set(v)
	}
	if v, ok := value("ds"); ok {
		Prom_distance.Set(v)
	}
}
