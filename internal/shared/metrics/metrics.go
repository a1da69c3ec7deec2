package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "resume_chat"

// Outcome labels shared by the counters below.
const (
	OutcomeSuccess  = "success"
	OutcomeGreeting = "greeting"
	OutcomeError    = "error"
	OutcomeSkipped  = "skipped"
	OutcomeFailed   = "failed"
)

// Registry holds every collector exported on /metrics.
var Registry = prometheus.NewRegistry()

var (
	chatRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_requests_total",
		Help:      "Chat questions handled, by outcome.",
	}, []string{"outcome"})

	chatDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "chat_duration_seconds",
		Help:      "End-to-end chat handling time, image step included.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30, 60, 120},
	})

	imageGenerationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_generations_total",
		Help:      "Background image attempts, by outcome.",
	}, []string{"outcome"})

	llmRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "llm_requests_total",
		Help:      "Text model calls, by provider and outcome.",
	}, []string{"provider", "outcome"})

	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests, by method, route and status.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

func init() {
	Registry.MustRegister(
		chatRequestsTotal,
		chatDuration,
		imageGenerationsTotal,
		llmRequestsTotal,
		httpRequestsTotal,
		httpRequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// IncChat counts a handled chat question.
func IncChat(outcome string) {
	chatRequestsTotal.WithLabelValues(outcome).Inc()
}

// ObserveChatDuration records how long a chat question took.
func ObserveChatDuration(d time.Duration) {
	if d < 0 {
		d = 0
	}
	chatDuration.Observe(d.Seconds())
}

// IncImage counts an image step outcome.
func IncImage(outcome string) {
	imageGenerationsTotal.WithLabelValues(outcome).Inc()
}

// IncLLM counts a text model call.
func IncLLM(provider, outcome string) {
	llmRequestsTotal.WithLabelValues(provider, outcome).Inc()
}

// ObserveHTTP records one served HTTP request.
func ObserveHTTP(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// HTTPHandler is the plain net/http form of Handler.
func HTTPHandler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
