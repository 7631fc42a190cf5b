package game

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var gameEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "game_events_total",
	Help: "Committed game state transitions by event.",
}, []string{"event"})
