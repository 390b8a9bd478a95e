package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ChatTurnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oneq_chat_turns_total",
			Help: "Total chat turns processed, by resolved intent",
		},
		[]string{"intent"},
	)

	RankDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "oneq_rank_duration_seconds",
			Help:    "Vendor ranking duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	RankTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oneq_rank_total",
			Help: "Total ranking calls",
		},
		[]string{"status"},
	)

	EligibleCandidates = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "oneq_rank_eligible_candidates",
			Help:    "Number of eligible vendors per ranking call",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 20, 50, 100},
		},
	)

	LLMTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oneq_llm_tokens_total",
			Help: "Total LLM tokens used",
		},
		[]string{"type"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oneq_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oneq_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)

	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "oneq_sessions_active",
			Help: "Chat sessions currently active",
		},
	)
)

func Init() {
	prometheus.MustRegister(ChatTurnsTotal)
	prometheus.MustRegister(RankDuration)
	prometheus.MustRegister(RankTotal)
	prometheus.MustRegister(EligibleCandidates)
	prometheus.MustRegister(LLMTokensTotal)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
	prometheus.MustRegister(SessionsActive)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
