package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PhotosIngested = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "facetag",
		Name:      "photos_ingested_total",
		Help:      "Total number of photos uploaded to the photo bucket",
	})

	FacesDetected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "facetag",
		Name:      "faces_detected_total",
		Help:      "Total number of face rectangles produced by the detector",
	})

	FacesCut = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "facetag",
		Name:      "faces_cut_total",
		Help:      "Total number of face objects written by the cutter",
	})

	FacesLabeled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "facetag",
		Name:      "faces_labeled_total",
		Help:      "Total number of faces that received a name",
	})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "facetag",
		Name:      "stage_duration_seconds",
		Help:      "Duration of pipeline stages",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
	}, []string{"stage"})

	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "facetag",
		Name:      "queue_depth",
		Help:      "Number of pending face-cut tasks in the queue",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "facetag",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "facetag",
		Name:      "ws_connections",
		Help:      "Number of active WebSocket connections",
	})
)
