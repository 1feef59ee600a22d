// SPDX-License-Identifier: Apache-2.0

package mapper

import (
	"path/filepath"

	"github.com/projectgen/generator/graph"
)

// AutomationPathMapper places the native project of every project in a
// temporary directory, so automation runs do not touch the sources tree
type AutomationPathMapper struct {
	TemporaryDirectory string
}

// Map relocates the native project file
func (m AutomationPathMapper) Map(project graph.Project) (graph.Project, []graph.SideEffect, error) {
	if m.TemporaryDirectory == "" {
		return graph.Project{}, nil, &MappingError{
			Mapper:  "AutomationPathMapper",
			Project: project.Path,
			Reason:  "no temporary directory",
		}
	}
	project.XcodeProjPath = filepath.Join(m.TemporaryDirectory, project.Name+".xcodeproj")
	return project, []graph.SideEffect{
		graph.DirectoryEffect{Path: m.TemporaryDirectory, State: graph.Present},
	}, nil
}
