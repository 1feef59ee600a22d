// SPDX-License-Identifier: Apache-2.0

package graph

import "fmt"

// ConflictError is returned when two fragments describe the same package
// name or project path with different content
type ConflictError struct {
	Kind string
	Key  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting resolution for %s %s: fragments disagree on its content", e.Kind, e.Key)
}

// EmptyPackageError is returned for a package name without edges
type EmptyPackageError struct {
	Package string
}

func (e *EmptyPackageError) Error() string {
	return fmt.Sprintf("external package %s resolves to no dependencies", e.Package)
}

// UnreferencedProjectError is returned for a synthetic project no edge points to
type UnreferencedProjectError struct {
	Path string
}

func (e *UnreferencedProjectError) Error() string {
	return fmt.Sprintf("external project at %s is not referenced by any package", e.Path)
}

// InvalidEdgeError is returned for an edge kind that cannot appear in a resolution
type InvalidEdgeError struct {
	Package    string
	Dependency Dependency
}

func (e *InvalidEdgeError) Error() string {
	return fmt.Sprintf("external package %s resolves to unresolved edge %s", e.Package, e.Dependency)
}
