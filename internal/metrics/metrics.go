package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Device selection metrics
	DeviceSelections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "device_selections_total",
		Help: "The total number of device selections by device and source (override or probe)",
	}, []string{"device", "source"})

	// Tracking server metrics
	TrackingRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tracking_requests_total",
		Help: "The total number of tracking server requests by endpoint and status code",
	}, []string{"endpoint", "status_code"})

	TrackingRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tracking_request_duration_ms",
		Help:    "Duration of tracking server requests in milliseconds",
		Buckets: prometheus.ExponentialBuckets(1, 2, 15), // 1ms to ~32s
	})

	RunDirsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "run_dirs_created_total",
		Help: "The total number of run directories created",
	})
)
