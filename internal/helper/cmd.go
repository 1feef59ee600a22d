// SPDX-License-Identifier: Apache-2.0

package helper

import (
	"fmt"
	"strings"

	"sigs.k8s.io/release-utils/command"
)

// CmdOptions describes an external command
type CmdOptions struct {
	Name      string
	Args      []string
	Directory string
}

// Cmd runs a toolchain command through release-utils
type Cmd struct {
	opts CmdOptions
}

// NewCmd ...
func NewCmd(opts CmdOptions) *Cmd {
	return &Cmd{opts: opts}
}

// String returns the command line
func (c *Cmd) String() string {
	return strings.TrimSpace(c.opts.Name + " " + strings.Join(c.opts.Args, " "))
}

func (c *Cmd) command() *command.Command {
	return command.NewWithWorkDir(c.opts.Directory, c.opts.Name, c.opts.Args...)
}

// Output runs the command and returns its stdout without the trailing newline
func (c *Cmd) Output() (string, error) {
	stream, err := c.command().RunSilentSuccessOutput()
	if err != nil {
		return "", fmt.Errorf("running %s: %w", c, err)
	}
	return stream.OutputTrimNL(), nil
}

// Run runs the command and fails on a non-zero exit status
func (c *Cmd) Run() error {
	if err := c.command().RunSilentSuccess(); err != nil {
		return fmt.Errorf("running %s: %w", c, err)
	}
	return nil
}

// Available reports whether all commands are found in PATH
func Available(commands ...string) bool {
	return command.Available(commands...)
}
