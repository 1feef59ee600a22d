// SPDX-License-Identifier: Apache-2.0

package generator

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/projectgen/generator/graph"
)

// Failure stages
const (
	StageMerge   = "merge"
	StageMap     = "map"
	StageExecute = "execute"
)

// Metrics collects generation metrics on a private registry
type Metrics struct {
	registry *prometheus.Registry

	projects    prometheus.Counter
	sideEffects *prometheus.CounterVec
	failures    *prometheus.CounterVec
	duration    prometheus.Histogram
}

// NewMetrics ...
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		projects: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "projectgen_generated_projects_total",
				Help: "Number of projects run through the mapper pipeline.",
			},
		),
		sideEffects: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "projectgen_side_effects_total",
				Help: "Number of side effects produced, by kind.",
			},
			[]string{"kind"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "projectgen_generation_failures_total",
				Help: "Number of failed generations, by stage.",
			},
			[]string{"stage"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "projectgen_generation_duration_seconds",
				Help:    "Time taken to merge and map a workspace.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	m.registry.MustRegister(m.projects, m.sideEffects, m.failures, m.duration)
	return m
}

// Registry returns the registry holding the generation metrics
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteToTextfile writes the metrics in the text exposition format
func (m *Metrics) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}

func (m *Metrics) observeSideEffects(effects []graph.SideEffect) {
	for _, effect := range effects {
		m.sideEffects.WithLabelValues(sideEffectKind(effect)).Inc()
	}
}

func sideEffectKind(effect graph.SideEffect) string {
	switch effect.(type) {
	case graph.FileEffect:
		return "file"
	case graph.DirectoryEffect:
		return "directory"
	case graph.CommandEffect:
		return "command"
	}
	return "unknown"
}
