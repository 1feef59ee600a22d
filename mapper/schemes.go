// SPDX-License-Identifier: Apache-2.0

package mapper

import (
	"sort"

	"github.com/projectgen/generator/graph"
)

// AutogeneratedSchemesMapper replaces the generated schemes of a project
// with one scheme per target not covered by a user scheme of the same name
type AutogeneratedSchemesMapper struct {
	EnableCodeCoverage bool
}

// Map ...
func (m AutogeneratedSchemesMapper) Map(project graph.Project) (graph.Project, []graph.SideEffect, error) {
	schemes := make([]graph.Scheme, 0, len(project.Schemes)+len(project.Targets))
	userSchemes := map[string]struct{}{}
	for _, s := range project.Schemes {
		if s.Autogenerated {
			continue
		}
		userSchemes[s.Name] = struct{}{}
		schemes = append(schemes, s)
	}

	for _, target := range project.Targets {
		if _, ok := userSchemes[target.Name]; ok {
			continue
		}
		schemes = append(schemes, m.scheme(project, target))
	}

	sort.SliceStable(schemes, func(i, j int) bool { return schemes[i].Name < schemes[j].Name })
	return project.WithSchemes(schemes), nil, nil
}

func (m AutogeneratedSchemesMapper) scheme(project graph.Project, target graph.Target) graph.Scheme {
	ref := graph.TargetReference{ProjectPath: project.Path, Name: target.Name}
	scheme := graph.Scheme{
		Name:          target.Name,
		Shared:        true,
		Autogenerated: true,
		BuildTargets:  []graph.TargetReference{ref},
	}

	if target.Product.IsTests() {
		scheme.TestTargets = []graph.TargetReference{ref}
	} else {
		for _, t := range project.Targets {
			if t.Product.IsTests() && dependsOn(t, target.Name) {
				scheme.TestTargets = append(scheme.TestTargets, graph.TargetReference{ProjectPath: project.Path, Name: t.Name})
			}
		}
	}

	if isRunnable(target.Product) {
		run := ref
		scheme.RunTarget = &run
	}

	if m.EnableCodeCoverage {
		scheme.CodeCoverage = true
		scheme.CoverageTargets = []graph.TargetReference{ref}
	}
	return scheme
}

func dependsOn(target graph.Target, name string) bool {
	for _, dep := range target.Dependencies {
		if d, ok := dep.(graph.TargetDependency); ok && d.Name == name {
			return true
		}
	}
	return false
}

func isRunnable(product graph.Product) bool {
	switch product {
	case graph.App, graph.CommandLineTool, graph.WatchApplication, graph.AppExtension:
		return true
	}
	return false
}
