// SPDX-License-Identifier: Apache-2.0

package graph

import "sort"

// Workspace aggregates projects and schemes. Its update methods return
// new values and never modify the receiver.
type Workspace struct {
	Path            string        `json:"path"`
	Name            string        `json:"name"`
	Projects        []string      `json:"projects"`
	XcodeProjPaths  []string      `json:"xcodeProjPaths,omitempty"`
	Schemes         []Scheme      `json:"schemes,omitempty"`
	AdditionalFiles []FileElement `json:"additionalFiles,omitempty"`
}

func (w Workspace) copy() Workspace {
	return Workspace{
		Path:            w.Path,
		Name:            w.Name,
		Projects:        append([]string(nil), w.Projects...),
		XcodeProjPaths:  append([]string(nil), w.XcodeProjPaths...),
		Schemes:         append([]Scheme(nil), w.Schemes...),
		AdditionalFiles: append([]FileElement(nil), w.AdditionalFiles...),
	}
}

// With returns a copy with a different name
func (w Workspace) With(name string) Workspace {
	out := w.copy()
	out.Name = name
	return out
}

// Adding returns a copy with the files appended to the additional files
func (w Workspace) Adding(files ...string) Workspace {
	out := w.copy()
	for _, f := range files {
		out.AdditionalFiles = append(out.AdditionalFiles, FileElement{Path: f})
	}
	return out
}

// Replacing returns a copy whose project list is exactly projects
func (w Workspace) Replacing(projects []string) Workspace {
	out := w.copy()
	out.Projects = append([]string(nil), projects...)
	return out
}

// Merging returns a copy whose project list is the union of the current
// projects and the given ones. Paths keep the order they were first seen in.
func (w Workspace) Merging(projects []string) Workspace {
	out := w.copy()
	out.Projects = union(w.Projects, projects)
	return out
}

// WithXcodeProjPaths returns a copy using the given native project paths
func (w Workspace) WithXcodeProjPaths(paths []string) Workspace {
	out := w.copy()
	out.XcodeProjPaths = append([]string(nil), paths...)
	return out
}

func union(lists ...[]string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, list := range lists {
		for _, p := range list {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

// Graph is a workspace together with the projects it references, keyed by path
type Graph struct {
	Workspace Workspace          `json:"workspace"`
	Projects  map[string]Project `json:"projects"`
}

// ProjectPaths returns the project paths in lexical order
func (g Graph) ProjectPaths() []string {
	paths := make([]string, 0, len(g.Projects))
	for p := range g.Projects {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Copy returns a graph whose project map can be modified independently
func (g Graph) Copy() Graph {
	projects := make(map[string]Project, len(g.Projects))
	for k, v := range g.Projects {
		projects[k] = v
	}
	return Graph{Workspace: g.Workspace.copy(), Projects: projects}
}
