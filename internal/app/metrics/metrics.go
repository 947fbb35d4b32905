package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	assetMints = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marketplace",
			Subsystem: "assets",
			Name:      "mints_total",
			Help:      "Total number of assets minted.",
		},
		[]string{"collection_id"},
	)

	listingEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marketplace",
			Subsystem: "listings",
			Name:      "events_total",
			Help:      "Total number of listing state changes.",
		},
		[]string{"action"},
	)

	sales = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "marketplace",
			Subsystem: "sales",
			Name:      "completed_total",
			Help:      "Total number of completed purchases.",
		},
	)

	saleVolume = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "marketplace",
			Subsystem: "sales",
			Name:      "volume_total",
			Help:      "Cumulative sale volume in base currency units.",
		},
	)

	royaltyVolume = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "marketplace",
			Subsystem: "sales",
			Name:      "royalty_volume_total",
			Help:      "Cumulative royalty volume paid to creators.",
		},
	)

	settlementDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "marketplace",
			Subsystem: "sales",
			Name:      "settlement_duration_seconds",
			Help:      "Duration of purchase settlement.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
	)
)

func init() {
	Registry.MustRegister(
		assetMints,
		listingEvents,
		sales,
		saleVolume,
		royaltyVolume,
		settlementDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordMint records a completed mint.
func RecordMint(collectionID string) {
	if collectionID == "" {
		collectionID = "unknown"
	}
	assetMints.WithLabelValues(collectionID).Inc()
}

// RecordListing records a listing state change ("listed" or "cancelled").
func RecordListing(action string) {
	listingEvents.WithLabelValues(action).Inc()
}

// RecordSale records a completed purchase with its settlement amounts.
func RecordSale(price, royalty uint64, duration time.Duration) {
	if duration <= 0 {
		duration = time.Millisecond
	}
	sales.Inc()
	saleVolume.Add(float64(price))
	royaltyVolume.Add(float64(royalty))
	settlementDuration.Observe(duration.Seconds())
}
