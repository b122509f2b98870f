package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the room service.
type Metrics struct {
	ActiveRooms      prometheus.Gauge
	ConnectedPlayers prometheus.Gauge
	RunningGames     prometheus.Gauge
	GamesStarted     prometheus.Counter
	AnswersTotal     *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		ActiveRooms: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "trivia",
			Subsystem: "rooms",
			Name:      "active",
			Help:      "Number of live rooms",
		}),
		ConnectedPlayers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "trivia",
			Subsystem: "rooms",
			Name:      "players",
			Help:      "Number of players across all rooms",
		}),
		RunningGames: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "trivia",
			Subsystem: "games",
			Name:      "running",
			Help:      "Number of game loops currently running",
		}),
		GamesStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "trivia",
			Subsystem: "games",
			Name:      "started_total",
			Help:      "Total number of games started",
		}),
		AnswersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "trivia",
				Subsystem: "answers",
				Name:      "evaluated_total",
				Help:      "Answers evaluated, by verdict",
			},
			[]string{"verdict"},
		),
		gatherer: reg,
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
