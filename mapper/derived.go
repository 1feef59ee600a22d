// SPDX-License-Identifier: Apache-2.0

package mapper

import (
	"path/filepath"

	"github.com/projectgen/generator/graph"
)

// DerivedDirectory holds the files generated next to a project
const DerivedDirectory = "Derived"

// DeleteDerivedDirectoryMapper removes the derived files of the previous generation
type DeleteDerivedDirectoryMapper struct{}

// Map ...
func (DeleteDerivedDirectoryMapper) Map(project graph.Project) (graph.Project, []graph.SideEffect, error) {
	return project, []graph.SideEffect{
		graph.DirectoryEffect{Path: filepath.Join(project.Path, DerivedDirectory), State: graph.Absent},
	}, nil
}
