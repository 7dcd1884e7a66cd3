package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "weather_panel_"

// Fetch outcomes.
const (
	FetchOK      = "ok"
	FetchFailed  = "error"
	FetchSkipped = "skipped"
)

// Redraw reasons.
const (
	RedrawScheduled = "scheduled"
	RedrawButton    = "button"
	RedrawBoot      = "boot"
)

var (
	registerOnce sync.Once
	registered   atomic.Bool

	fetchTotal    *prometheus.CounterVec
	fetchLatency  prometheus.Histogram
	buttonPresses *prometheus.CounterVec
	redraws       *prometheus.CounterVec
	currentPage   prometheus.Gauge
)

// Init registers the panel metrics with the default registry. Observations
// made before Init are dropped.
func Init() {
	registerOnce.Do(func() {
		fetchTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "fetch_total",
				Help: "Weather fetch attempts by result",
			},
			[]string{"result"},
		)
		fetchLatency = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "fetch_latency_seconds",
				Help:    "Weather request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
		)
		buttonPresses = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "button_presses_total",
				Help: "Accepted button presses by button",
			},
			[]string{"button"},
		)
		redraws = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "redraws_total",
				Help: "Full display redraws by reason",
			},
			[]string{"reason"},
		)
		currentPage = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "current_page",
				Help: "Zero-based index of the page on screen",
			},
		)

		prometheus.MustRegister(fetchTotal, fetchLatency, buttonPresses, redraws, currentPage)
		registered.Store(true)
	})
}

// ObserveFetch records a fetch outcome. elapsed is ignored for skipped fetches.
func ObserveFetch(result string, elapsed time.Duration) {
	if !registered.Load() {
		return
	}
	fetchTotal.WithLabelValues(result).Inc()
	if result != FetchSkipped {
		fetchLatency.Observe(elapsed.Seconds())
	}
}

// ObservePress records an accepted press.
func ObservePress(button string) {
	if !registered.Load() {
		return
	}
	buttonPresses.WithLabelValues(button).Inc()
}

// ObserveRedraw records a redraw of page.
func ObserveRedraw(reason string, page int) {
	if !registered.Load() {
		return
	}
	redraws.WithLabelValues(reason).Inc()
	currentPage.Set(float64(page))
}
