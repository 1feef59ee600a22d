// SPDX-License-Identifier: Apache-2.0

package merger

import "fmt"

// ProjectCollisionError is returned when a synthetic project would replace
// a different manifest project at the same path
type ProjectCollisionError struct {
	Path string
}

func (e *ProjectCollisionError) Error() string {
	return fmt.Sprintf("external project at %s collides with a different project of the manifest", e.Path)
}

// UnresolvedDependencyError is returned for a reference to an external
// package no fragment resolves
type UnresolvedDependencyError struct {
	Project string
	Target  string
	Package string
}

func (e *UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("target %s of project %s depends on external package %s, which was not resolved", e.Target, e.Project, e.Package)
}

// DanglingReferenceError is returned for an edge to a project or target
// missing from the merged graph
type DanglingReferenceError struct {
	Project    string
	Target     string
	Dependency string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("target %s of project %s references missing %s", e.Target, e.Project, e.Dependency)
}
