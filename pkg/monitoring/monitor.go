package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// ChallengeSelections source: weak_skill / fallback / unbiased
	ChallengeSelections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "challenge_selections_total",
			Help: "Daily challenges selected, by selection source",
		},
		[]string{"source"},
	)

	// ChallengeSkips result: ok / exhausted / completed / conflict
	ChallengeSkips = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "challenge_skips_total",
			Help: "Skip attempts, by result",
		},
		[]string{"result"},
	)

	ChallengeCompletions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "challenge_completions_total",
			Help: "Daily challenges marked completed",
		},
	)

	AssessmentsScored = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "assessments_scored_total",
			Help: "Skill assessments scored and saved",
		},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			ChallengeSelections,
			ChallengeSkips,
			ChallengeCompletions,
			AssessmentsScored,
		)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
