// SPDX-License-Identifier: Apache-2.0

package plugin

import "github.com/projectgen/generator/graph"

// Plugin resolves the external packages of one package manager
type Plugin interface {
	GetVersion() (string, error)
	GetMetadata() Metadata
	IsValid(path string) bool
	HasModulesInstalled(path string) error
	Resolve(path string) (graph.DependenciesGraph, error)
}

// Metadata
type Metadata struct {
	Name       string
	Slug       string
	Manifest   []string
	ModulePath []string
}
