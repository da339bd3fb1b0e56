// Package telemetry exports the events of a simulation as Prometheus metrics.
package telemetry

import (
	"math"

	spacetrains "github.com/irigi/SpaceTrains"
	"github.com/prometheus/client_golang/prometheus"
)

// Listener is a spacetrains.EventListener which records events in Prometheus collectors.
type Listener struct {
	Transitions *prometheus.CounterVec
	Burns       *prometheus.CounterVec
	Burned      *prometheus.CounterVec
	Δv          *prometheus.HistogramVec
	Propellant  *prometheus.GaugeVec
}

// NewListener creates the collectors and registers them with reg, if not nil.
func NewListener(reg prometheus.Registerer) *Listener {
	l := &Listener{
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spacetrains",
			Name:      "transitions_total",
			Help:      "Flight state transitions, by ship and regimes.",
		}, []string{"ship", "from", "to"}),
		Burns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spacetrains",
			Name:      "burns_total",
			Help:      "Propellant burns, by ship.",
		}, []string{"ship"}),
		Burned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spacetrains",
			Name:      "propellant_burned_kg_total",
			Help:      "Propellant burned in kg, by ship.",
		}, []string{"ship"}),
		Δv: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "spacetrains",
			Name:      "burn_delta_v_mps",
			Help:      "Magnitude of the Δv of each burn in m/s.",
			Buckets:   []float64{0, 500, 1000, 2000, 3000, 5000, 10000},
		}, []string{"ship"}),
		Propellant: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "spacetrains",
			Name:      "propellant_kg",
			Help:      "Burnable propellant left after the last burn, in kg.",
		}, []string{"ship"}),
	}
	if reg != nil {
		reg.MustRegister(l.Transitions, l.Burns, l.Burned, l.Δv, l.Propellant)
	}
	return l
}

// OnTransition implements the spacetrains.EventListener interface.
func (l *Listener) OnTransition(e spacetrains.TransitionEvent) {
	l.Transitions.WithLabelValues(e.Ship, regime(e.From), regime(e.To)).Inc()
}

// OnBurn implements the spacetrains.EventListener interface.
func (l *Listener) OnBurn(e spacetrains.BurnEvent) {
	l.Burns.WithLabelValues(e.Ship).Inc()
	if e.Burned > 0 {
		l.Burned.WithLabelValues(e.Ship).Add(e.Burned)
	}
	l.Δv.WithLabelValues(e.Ship).Observe(math.Abs(e.Δv))
	l.Propellant.WithLabelValues(e.Ship).Set(e.Remaining)
}

// regime returns the label of the regime of s.
func regime(s spacetrains.FlightState) string {
	if s.Regime() == 0 {
		return "unset"
	}
	return s.Regime().String()
}
