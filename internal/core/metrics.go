package core

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the prometheus collectors published by the service. A nil
// *Metrics disables instrumentation.
type Metrics struct {
	actions    *prometheus.CounterVec
	deaths     prometheus.Counter
	evolutions *prometheus.CounterVec
	awards     *prometheus.CounterVec
}

// NewMetrics builds and registers the petcore collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "petcore_actions_total",
			Help: "Completed pet actions by kind.",
		}, []string{"action"}),
		deaths: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "petcore_pet_deaths_total",
			Help: "Pets that reached zero health.",
		}),
		evolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "petcore_evolutions_total",
			Help: "Stage advancements by target stage.",
		}, []string{"stage"}),
		awards: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "petcore_achievements_awarded_total",
			Help: "Achievements granted by achievement id.",
		}, []string{"achievement"}),
	}
	reg.MustRegister(m.actions, m.deaths, m.evolutions, m.awards)
	return m
}

func (m *Metrics) observeAction(action string) {
	if m == nil {
		return
	}
	m.actions.WithLabelValues(action).Inc()
}

func (m *Metrics) observeDeath() {
	if m == nil {
		return
	}
	m.deaths.Inc()
}

func (m *Metrics) observeEvolution(stage string) {
	if m == nil {
		return
	}
	m.evolutions.WithLabelValues(stage).Inc()
}

// ObserveAward increments the per-achievement award counter. Exposed so the
// ledger's award hook can feed the same metrics set.
func (m *Metrics) ObserveAward(achievement string) {
	if m == nil {
		return
	}
	m.awards.WithLabelValues(achievement).Inc()
}
