// Package metrics records node graph activity. The graph talks to a
// Recorder; Nop discards everything and Prometheus exports counters and
// gauges.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder receives graph events.
type Recorder interface {
	// NodeValidated is called after every node validation.
	NodeValidated(valid bool)
	// NodeUpdated is called after every node update.
	NodeUpdated(applied bool)
	// RegistrySize reports the live node count after a structural change.
	RegistrySize(n int)
	// Revalidated is called once per full-graph re-validation pass.
	Revalidated()
}

// Nop discards all events.
type Nop struct{}

func (Nop) NodeValidated(bool) {}
func (Nop) NodeUpdated(bool)   {}
func (Nop) RegistrySize(int)   {}
func (Nop) Revalidated()       {}

// Prometheus exports graph events as prometheus collectors.
type Prometheus struct {
	Validations   *prometheus.CounterVec
	Updates       *prometheus.CounterVec
	Nodes         prometheus.Gauge
	Revalidations prometheus.Counter
}

var _ Recorder = (*Prometheus)(nil)

// NewPrometheus registers the collectors with reg. Pass
// prometheus.DefaultRegisterer to export on the default handler.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	f := promauto.With(reg)
	return &Prometheus{
		Validations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mapgen",
			Subsystem: "node",
			Name:      "validations_total",
			Help:      "Node validations by result.",
		}, []string{"result"}),
		Updates: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mapgen",
			Subsystem: "node",
			Name:      "updates_total",
			Help:      "Node updates by outcome: applied or skipped.",
		}, []string{"outcome"}),
		Nodes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "mapgen",
			Subsystem: "registry",
			Name:      "nodes",
			Help:      "Live nodes in the registry.",
		}),
		Revalidations: f.NewCounter(prometheus.CounterOpts{
			Namespace: "mapgen",
			Subsystem: "registry",
			Name:      "revalidations_total",
			Help:      "Full-graph re-validation passes.",
		}),
	}
}

func (p *Prometheus) NodeValidated(valid bool) {
	p.Validations.WithLabelValues(resultLabel(valid)).Inc()
}

func (p *Prometheus) NodeUpdated(applied bool) {
	outcome := "skipped"
	if applied {
		outcome = "applied"
	}
	p.Updates.WithLabelValues(outcome).Inc()
}

func (p *Prometheus) RegistrySize(n int) { p.Nodes.Set(float64(n)) }

func (p *Prometheus) Revalidated() { p.Revalidations.Inc() }

func resultLabel(valid bool) string {
	if valid {
		return "valid"
	}
	return "invalid"
}
