package scheduler

import "github.com/prometheus/client_golang/prometheus"

var (
	fetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fairline_provider_fetches_total",
		Help: "fetch attempts by provider and result",
	}, []string{"provider", "result"})

	backoffSkips = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fairline_provider_backoff_skips_total",
		Help: "endpoint attempts skipped because the provider is backed off",
	}, []string{"provider"})

	ticksSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fairline_scheduler_ticks_skipped_total",
		Help: "scheduled ticks skipped because the previous tick was still running",
	})

	tickDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "fairline_scheduler_tick_duration_seconds",
		Help:    "duration of one full scheduler tick",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(fetches, backoffSkips, ticksSkipped, tickDuration)
}
