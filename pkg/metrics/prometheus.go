package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	tickDuration  prometheus.Histogram
	instruments   prometheus.Gauge
	lastPrice     *prometheus.GaugeVec
	breakouts     *prometheus.CounterVec
	newsPublished prometheus.Counter
	saveDuration  prometheus.Histogram
	errorsTotal   *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		tickDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tickforge_tick_duration_seconds",
				Help:    "Duration of one full simulation tick in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		instruments: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "tickforge_instruments",
				Help: "Number of instruments in the simulation",
			},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tickforge_last_price",
				Help: "Last simulated price for a ticker",
			},
			[]string{"ticker"},
		),
		breakouts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tickforge_breakouts_total",
				Help: "Total number of breakout events per ticker",
			},
			[]string{"ticker"},
		),
		newsPublished: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "tickforge_news_published_total",
				Help: "Total number of news events published",
			},
		),
		saveDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tickforge_save_duration_seconds",
				Help:    "Duration of game-state saves in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tickforge_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
}

// RecordTick records the duration of one simulation tick.
func (r *Recorder) RecordTick(seconds float64, instruments int) {
	r.tickDuration.Observe(seconds)
	r.instruments.Set(float64(instruments))
}

// RecordLastPrice records the last price for a ticker.
func (r *Recorder) RecordLastPrice(ticker string, price float64) {
	r.lastPrice.WithLabelValues(ticker).Set(price)
}

// RecordBreakout records a breakout event.
func (r *Recorder) RecordBreakout(ticker string) {
	r.breakouts.WithLabelValues(ticker).Inc()
}

// RecordNewsPublished records published news events.
func (r *Recorder) RecordNewsPublished(n int) {
	r.newsPublished.Add(float64(n))
}

// RecordSave records the duration of a game-state save.
func (r *Recorder) RecordSave(seconds float64) {
	r.saveDuration.Observe(seconds)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
