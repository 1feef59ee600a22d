// SPDX-License-Identifier: Apache-2.0

package generator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/projectgen/generator/graph"
	"github.com/projectgen/generator/internal/helper"
)

// CommandRunner runs the command of a side effect; command[0] is the executable
type CommandRunner interface {
	Run(command []string) error
}

type defaultRunner struct{}

func (defaultRunner) Run(command []string) error {
	return helper.NewCmd(helper.CmdOptions{Name: command[0], Args: command[1:]}).Run()
}

// Executor performs side effects on the file system
type Executor struct {
	runner CommandRunner
	logger logrus.FieldLogger
}

// NewExecutor ...
func NewExecutor(logger logrus.FieldLogger) *Executor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Executor{runner: defaultRunner{}, logger: logger}
}

// SetRunner replaces the runner of command side effects
func (e *Executor) SetRunner(runner CommandRunner) {
	e.runner = runner
}

// Execute performs the side effects in order and stops at the first failure
func (e *Executor) Execute(effects []graph.SideEffect) error {
	for _, effect := range effects {
		e.logger.Debugf("Executing side effect %s", effect)
		if err := e.execute(effect); err != nil {
			return fmt.Errorf("executing %s: %w", effect, err)
		}
	}
	return nil
}

func (e *Executor) execute(effect graph.SideEffect) error {
	switch s := effect.(type) {
	case graph.FileEffect:
		return writeFile(s)
	case graph.DirectoryEffect:
		if s.State == graph.Absent {
			return os.RemoveAll(s.Path)
		}
		return os.MkdirAll(s.Path, 0o755)
	case graph.CommandEffect:
		if len(s.Command) == 0 {
			return errEmptyCommand
		}
		return e.runner.Run(s.Command)
	}
	return errUnknownSideEffect
}

func writeFile(effect graph.FileEffect) error {
	if effect.State == graph.Absent {
		if err := os.Remove(effect.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(effect.Path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(effect.Path, effect.Contents, 0o644) // nolint:gosec
}
