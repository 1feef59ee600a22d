// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/projectgen/generator/internal/helper"
)

// DependenciesGraph is the resolution of external packages: the edges a
// consumer gets for each package name, and the synthetic projects those
// edges point to, keyed by package root.
type DependenciesGraph struct {
	ExternalDependencies map[string]Dependencies `json:"externalDependencies"`
	ExternalProjects     map[string]Project      `json:"externalProjects"`
}

// NewDependenciesGraph returns an empty graph
func NewDependenciesGraph() DependenciesGraph {
	return DependenciesGraph{
		ExternalDependencies: map[string]Dependencies{},
		ExternalProjects:     map[string]Project{},
	}
}

// Size is the number of package names plus the number of synthetic projects
func (g DependenciesGraph) Size() int {
	return len(g.ExternalDependencies) + len(g.ExternalProjects)
}

// Names returns the package names in lexical order
func (g DependenciesGraph) Names() []string {
	names := make([]string, 0, len(g.ExternalDependencies))
	for name := range g.ExternalDependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ProjectPaths returns the synthetic project paths in lexical order
func (g DependenciesGraph) ProjectPaths() []string {
	paths := make([]string, 0, len(g.ExternalProjects))
	for p := range g.ExternalProjects {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Validate checks that every package name has at least one edge and that
// every synthetic project is referenced by a project edge.
func (g DependenciesGraph) Validate() error {
	referenced := map[string]bool{}
	for _, name := range g.Names() {
		deps := g.ExternalDependencies[name]
		if len(deps) == 0 {
			return &EmptyPackageError{Package: name}
		}
		for _, dep := range deps {
			switch d := dep.(type) {
			case ProjectDependency:
				referenced[d.Path] = true
			case TargetDependency, XCFrameworkDependency, SDKDependency:
			case ExternalDependency:
				return &InvalidEdgeError{Package: name, Dependency: d}
			default:
				return &UnknownDependencyError{Dependency: dep}
			}
		}
	}
	for _, path := range g.ProjectPaths() {
		if !referenced[path] {
			return &UnreferencedProjectError{Path: path}
		}
	}
	return nil
}

// Merging returns the union of both graphs. An entry present in both with
// the same content is kept once; differing content is a ConflictError.
func (g DependenciesGraph) Merging(other DependenciesGraph) (DependenciesGraph, error) {
	out := NewDependenciesGraph()
	for name, deps := range g.ExternalDependencies {
		out.ExternalDependencies[name] = append(Dependencies(nil), deps...)
	}
	for path, project := range g.ExternalProjects {
		out.ExternalProjects[path] = project
	}

	for _, name := range other.Names() {
		deps := other.ExternalDependencies[name]
		if existing, ok := out.ExternalDependencies[name]; ok {
			if !existing.Equal(deps) {
				return DependenciesGraph{}, &ConflictError{Kind: "package", Key: name}
			}
			continue
		}
		out.ExternalDependencies[name] = append(Dependencies(nil), deps...)
	}
	for _, path := range other.ProjectPaths() {
		project := other.ExternalProjects[path]
		if existing, ok := out.ExternalProjects[path]; ok {
			if !existing.Equal(project) {
				return DependenciesGraph{}, &ConflictError{Kind: "project", Key: path}
			}
			continue
		}
		out.ExternalProjects[path] = project
	}
	return out, nil
}

// Combine merges fragments in fingerprint order, so the outcome does not
// depend on the order they were produced in.
func Combine(fragments ...DependenciesGraph) (DependenciesGraph, error) {
	type keyed struct {
		fingerprint string
		graph       DependenciesGraph
	}
	sorted := make([]keyed, 0, len(fragments))
	for _, f := range fragments {
		fp, err := f.Fingerprint()
		if err != nil {
			return DependenciesGraph{}, err
		}
		sorted = append(sorted, keyed{fingerprint: fp, graph: f})
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].fingerprint < sorted[j].fingerprint
	})

	out := NewDependenciesGraph()
	for _, k := range sorted {
		merged, err := out.Merging(k.graph)
		if err != nil {
			return DependenciesGraph{}, err
		}
		out = merged
	}
	return out, nil
}

// Fingerprint is the SHA256 of the canonical snapshot
func (g DependenciesGraph) Fingerprint() (string, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("encoding dependencies graph: %w", err)
	}
	checksum := helper.Checksum{Algorithm: helper.HashAlgoSHA256, Content: data}
	return checksum.String(), nil
}

// MarshalJSON writes both fields, using empty objects for nil maps
func (g DependenciesGraph) MarshalJSON() ([]byte, error) {
	type snapshot struct {
		ExternalDependencies map[string]Dependencies `json:"externalDependencies"`
		ExternalProjects     map[string]Project      `json:"externalProjects"`
	}
	s := snapshot{
		ExternalDependencies: g.ExternalDependencies,
		ExternalProjects:     g.ExternalProjects,
	}
	if s.ExternalDependencies == nil {
		s.ExternalDependencies = map[string]Dependencies{}
	}
	if s.ExternalProjects == nil {
		s.ExternalProjects = map[string]Project{}
	}
	return json.Marshal(s)
}

// UnmarshalJSON reads a snapshot. externalProjects may be an object or
// a flat [path, project, path, project, ...] array.
func (g *DependenciesGraph) UnmarshalJSON(data []byte) error {
	var raw struct {
		ExternalDependencies map[string]Dependencies `json:"externalDependencies"`
		ExternalProjects     json.RawMessage         `json:"externalProjects"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := NewDependenciesGraph()
	for name, deps := range raw.ExternalDependencies {
		out.ExternalDependencies[name] = deps
	}

	projects := bytes.TrimSpace(raw.ExternalProjects)
	switch {
	case len(projects) == 0 || bytes.Equal(projects, []byte("null")):
	case projects[0] == '[':
		var flat []json.RawMessage
		if err := json.Unmarshal(projects, &flat); err != nil {
			return fmt.Errorf("decoding externalProjects: %w", err)
		}
		if len(flat)%2 != 0 {
			return fmt.Errorf("decoding externalProjects: odd number of elements (%d)", len(flat))
		}
		for i := 0; i < len(flat); i += 2 {
			var path string
			if err := json.Unmarshal(flat[i], &path); err != nil {
				return fmt.Errorf("decoding externalProjects path at %d: %w", i, err)
			}
			var project Project
			if err := json.Unmarshal(flat[i+1], &project); err != nil {
				return fmt.Errorf("decoding externalProjects[%s]: %w", path, err)
			}
			out.ExternalProjects[path] = project
		}
	default:
		if err := json.Unmarshal(projects, &out.ExternalProjects); err != nil {
			return fmt.Errorf("decoding externalProjects: %w", err)
		}
	}

	*g = out
	return nil
}
