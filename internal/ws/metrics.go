package ws

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	TablesActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "wheel_tables_active",
			Help: "Tables currently held by the hub",
		},
	)
	SpinsStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wheel_spins_started_total",
			Help: "Gestures that started a spin",
		},
	)
	GesturesIgnored = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wheel_gestures_ignored_total",
			Help: "Gestures too weak, too slow or made while input was closed",
		},
	)
	SpinsRepeated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wheel_spins_repeated_total",
			Help: "Spins discarded for not completing a full rotation",
		},
	)
	WheelTicks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wheel_ticks_total",
			Help: "Wheel advance ticks by outcome",
		},
		[]string{"outcome"}, // advanced | stopped | stale
	)
	InvalidActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wheel_invalid_actions_total",
			Help: "Client messages rejected by the turn controller",
		},
		[]string{"type"},
	)
	GamesFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wheel_games_finished_total",
			Help: "Finished games by outcome",
		},
		[]string{"outcome"}, // win | tie
	)
)

func init() {
	prometheus.MustRegister(TablesActive)
	prometheus.MustRegister(SpinsStarted)
	prometheus.MustRegister(GesturesIgnored)
	prometheus.MustRegister(SpinsRepeated)
	prometheus.MustRegister(WheelTicks)
	prometheus.MustRegister(InvalidActions)
	prometheus.MustRegister(GamesFinished)
}
