package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// OCR service client metrics.
var (
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ocrdesk",
			Name:      "api_requests_total",
			Help:      "Total number of OCR service API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ocrdesk",
			Name:      "api_request_duration_seconds",
			Help:      "OCR service API request duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "route"},
	)

	SessionExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ocrdesk",
			Name:      "session_expired_total",
			Help:      "Sessions discarded after an authorization failure",
		},
	)

	UploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ocrdesk",
			Name:      "uploads_total",
			Help:      "File uploads by outcome",
		},
		[]string{"outcome"}, // "ok" / "error"
	)

	UploadBytesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ocrdesk",
			Name:      "upload_bytes_total",
			Help:      "File bytes streamed to the OCR service",
		},
	)

	StaleResponsesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ocrdesk",
			Name:      "listing_stale_responses_total",
			Help:      "Listing responses discarded because a newer request superseded them",
		},
	)
)

// RegisterClientMetrics registers the client metrics on reg, reusing
// collectors that are already registered there.
func RegisterClientMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		APIRequestsTotal,
		APIRequestDuration,
		SessionExpiredTotal,
		UploadsTotal,
		UploadBytesTotal,
		StaleResponsesTotal,
	} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return fmt.Errorf("register client metric: %w", err)
		}
	}
	return nil
}
