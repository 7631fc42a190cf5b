package quiz

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	generationAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quiz_generation_attempts_total",
		Help: "Upstream generation attempts by outcome.",
	}, []string{"outcome"})

	generationFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quiz_generation_fallbacks_total",
		Help: "Generation requests answered with placeholder content.",
	}, []string{"reason"})

	randomRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quiz_random_requests_total",
		Help: "Random quiz requests by content source.",
	}, []string{"source"})
)
