// SPDX-License-Identifier: Apache-2.0

package mapper

import "fmt"

// MappingError is returned by a mapper that cannot transform a project
type MappingError struct {
	Mapper  string
	Project string
	Target  string
	Reason  string
}

func (e *MappingError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("%s failed for project %s: %s", e.Mapper, e.Project, e.Reason)
	}
	return fmt.Sprintf("%s failed for target %s of project %s: %s", e.Mapper, e.Target, e.Project, e.Reason)
}
