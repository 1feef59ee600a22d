// SPDX-License-Identifier: Apache-2.0

package graph

import "fmt"

// State tells whether a described file or directory should exist
type State string

const (
	Present State = "present"
	Absent  State = "absent"
)

// SideEffect is a deferred action produced while mapping a project.
// Implementations are FileEffect, DirectoryEffect and CommandEffect.
type SideEffect interface {
	String() string
	isSideEffect()
}

// FileEffect creates, overwrites or deletes a file
type FileEffect struct {
	Path     string
	Contents []byte
	State    State
}

// DirectoryEffect creates or deletes a directory
type DirectoryEffect struct {
	Path  string
	State State
}

// CommandEffect runs a command; Command[0] is the executable
type CommandEffect struct {
	Command []string
}

func (e FileEffect) String() string {
	return fmt.Sprintf("file %s (%s)", e.Path, e.State)
}

func (e DirectoryEffect) String() string {
	return fmt.Sprintf("directory %s (%s)", e.Path, e.State)
}

func (e CommandEffect) String() string {
	return fmt.Sprintf("command %v", e.Command)
}

func (FileEffect) isSideEffect()      {}
func (DirectoryEffect) isSideEffect() {}
func (CommandEffect) isSideEffect()   {}
