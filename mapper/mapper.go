// SPDX-License-Identifier: Apache-2.0

package mapper

import (
	"github.com/projectgen/generator/graph"
)

// ProjectMapper transforms a project and describes the side effects the
// transformation needs. Implementations never perform the side effects.
type ProjectMapper interface {
	Map(project graph.Project) (graph.Project, []graph.SideEffect, error)
}

// Func adapts a function to ProjectMapper
type Func func(project graph.Project) (graph.Project, []graph.SideEffect, error)

// Map calls f
func (f Func) Map(project graph.Project) (graph.Project, []graph.SideEffect, error) {
	return f(project)
}

// Sequential applies mappers in order, each receiving the previous one's
// project, and concatenates their side effects. The first error stops the
// pipeline: it is returned unchanged and the side effects collected so far
// are dropped.
type Sequential struct {
	Mappers []ProjectMapper
}

// NewSequential ...
func NewSequential(mappers ...ProjectMapper) *Sequential {
	return &Sequential{Mappers: mappers}
}

// Map runs the pipeline
func (s *Sequential) Map(project graph.Project) (graph.Project, []graph.SideEffect, error) {
	var sideEffects []graph.SideEffect
	for _, m := range s.Mappers {
		mapped, effects, err := m.Map(project)
		if err != nil {
			return graph.Project{}, nil, err
		}
		project = mapped
		sideEffects = append(sideEffects, effects...)
	}
	return project, sideEffects, nil
}
