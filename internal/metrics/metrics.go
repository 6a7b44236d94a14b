package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "slidesync",
		Name:      "active_rooms",
		Help:      "Number of live collaboration rooms",
	})

	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "slidesync",
		Name:      "active_connections",
		Help:      "Number of open collaboration connections",
	})

	UpdatesMerged = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "slidesync",
		Name:      "updates_merged_total",
		Help:      "Document updates merged into room state",
	})

	UpdatesDuplicate = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "slidesync",
		Name:      "updates_duplicate_total",
		Help:      "Document updates dropped as already merged",
	})

	FramesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "slidesync",
		Name:      "frames_dropped_total",
		Help:      "Inbound frames dropped as malformed",
	})

	HandshakeRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "slidesync",
		Name:      "handshake_rejections_total",
		Help:      "WebSocket handshakes rejected at the connection gate",
	}, []string{"reason"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "slidesync",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests received",
	}, []string{"method", "path", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "slidesync",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Hijack lets WebSocket upgrades pass through the recorder.
func (r *responseRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hj.Hijack()
}

// Middleware records request counts and latency per route.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		status := strconv.Itoa(rec.status)
		httpRequests.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpLatency.WithLabelValues(r.Method, r.URL.Path, status).Observe(time.Since(start).Seconds())
	})
}
