// SPDX-License-Identifier: Apache-2.0

package merger

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/projectgen/generator/graph"
)

// Merge folds resolved external packages into the primary graph. The
// fragments are combined, their synthetic projects added, every external
// reference of the manifest projects replaced by its resolved edges, and
// the result checked for dangling references. primary is not modified.
func Merge(primary graph.Graph, fragments ...graph.DependenciesGraph) (graph.Graph, error) {
	deps, err := graph.Combine(fragments...)
	if err != nil {
		return graph.Graph{}, fmt.Errorf("combining resolved packages: %w", err)
	}

	out := primary.Copy()
	manifestPaths := out.ProjectPaths()

	// resolve against the manifest projects before synthetic ones are added
	for _, path := range manifestPaths {
		project, err := resolveProject(out.Projects[path], deps)
		if err != nil {
			return graph.Graph{}, err
		}
		out.Projects[path] = project
	}

	added := deps.ProjectPaths()
	for _, path := range added {
		synthetic := deps.ExternalProjects[path]
		if existing, ok := out.Projects[path]; ok {
			if !existing.Equal(synthetic) {
				return graph.Graph{}, &ProjectCollisionError{Path: path}
			}
			continue
		}
		out.Projects[path] = synthetic
	}
	out.Workspace = out.Workspace.Merging(added)

	if err := Validate(out); err != nil {
		return graph.Graph{}, err
	}

	log.Debugf("Merged %d external packages into %d projects", len(deps.ExternalDependencies), len(out.Projects))
	return out, nil
}

func resolveProject(project graph.Project, deps graph.DependenciesGraph) (graph.Project, error) {
	targets := make([]graph.Target, 0, len(project.Targets))
	for _, target := range project.Targets {
		resolved := graph.Dependencies{}
		for _, dep := range target.Dependencies {
			switch d := dep.(type) {
			case graph.ExternalDependency:
				edges, ok := deps.ExternalDependencies[d.Name]
				if !ok {
					return graph.Project{}, &UnresolvedDependencyError{Project: project.Path, Target: target.Name, Package: d.Name}
				}
				resolved = append(resolved, edges...)
			case graph.TargetDependency, graph.ProjectDependency, graph.XCFrameworkDependency, graph.SDKDependency:
				resolved = append(resolved, d)
			default:
				return graph.Project{}, &graph.UnknownDependencyError{Dependency: dep}
			}
		}
		if target.Dependencies == nil {
			resolved = nil
		}
		targets = append(targets, target.WithDependencies(resolved.Dedup()))
	}
	return project.WithTargets(targets), nil
}

// Validate checks that every edge of g points to an existing project and
// target, and that no external reference is left
func Validate(g graph.Graph) error {
	for _, path := range g.ProjectPaths() {
		project := g.Projects[path]
		for _, target := range project.Targets {
			for _, dep := range target.Dependencies {
				if err := validateEdge(g, project, target, dep); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func validateEdge(g graph.Graph, project graph.Project, target graph.Target, dep graph.Dependency) error {
	switch d := dep.(type) {
	case graph.TargetDependency:
		if _, ok := project.Target(d.Name); !ok {
			return &DanglingReferenceError{Project: project.Path, Target: target.Name, Dependency: d.String()}
		}
	case graph.ProjectDependency:
		other, ok := g.Projects[d.Path]
		if !ok {
			return &DanglingReferenceError{Project: project.Path, Target: target.Name, Dependency: d.String()}
		}
		if _, ok := other.Target(d.Target); !ok {
			return &DanglingReferenceError{Project: project.Path, Target: target.Name, Dependency: d.String()}
		}
	case graph.XCFrameworkDependency, graph.SDKDependency:
	case graph.ExternalDependency:
		return &UnresolvedDependencyError{Project: project.Path, Target: target.Name, Package: d.Name}
	default:
		return &graph.UnknownDependencyError{Dependency: dep}
	}
	return nil
}
