// SPDX-License-Identifier: Apache-2.0

package generator_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/projectgen/generator/generator"
	"github.com/projectgen/generator/graph"
)

type recordingRunner struct {
	commands [][]string
	err      error
}

func (r *recordingRunner) Run(command []string) error {
	r.commands = append(r.commands, command)
	return r.err
}

func newExecutor(runner generator.CommandRunner) *generator.Executor {
	logger, _ := test.NewNullLogger()
	executor := generator.NewExecutor(logger)
	executor.SetRunner(runner)
	return executor
}

func TestExecute(t *testing.T) {
	root := t.TempDir()
	stale := filepath.Join(root, "stale.txt")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Derived", "Old"), 0o755))

	runner := &recordingRunner{}
	err := newExecutor(runner).Execute([]graph.SideEffect{
		graph.DirectoryEffect{Path: filepath.Join(root, "Derived"), State: graph.Absent},
		graph.FileEffect{Path: filepath.Join(root, "Derived", "InfoPlists", "App.plist"), Contents: []byte("plist"), State: graph.Present},
		graph.FileEffect{Path: stale, State: graph.Absent},
		graph.FileEffect{Path: filepath.Join(root, "never-existed"), State: graph.Absent},
		graph.DirectoryEffect{Path: filepath.Join(root, "tmp"), State: graph.Present},
		graph.CommandEffect{Command: []string{"xcodebuild", "-version"}},
	})
	require.NoError(t, err)

	require.NoDirExists(t, filepath.Join(root, "Derived", "Old"))
	contents, err := os.ReadFile(filepath.Join(root, "Derived", "InfoPlists", "App.plist"))
	require.NoError(t, err)
	require.Equal(t, "plist", string(contents))
	require.NoFileExists(t, stale)
	require.DirExists(t, filepath.Join(root, "tmp"))
	require.Equal(t, [][]string{{"xcodebuild", "-version"}}, runner.commands)
}

func TestExecuteStopsAtFirstFailure(t *testing.T) {
	root := t.TempDir()
	synthetic := errors.New("synthetic error")
	for _, tc := range []struct {
		name    string
		effects []graph.SideEffect
		runner  *recordingRunner
		is      error
	}{
		{
			name:    "empty command",
			effects: []graph.SideEffect{graph.CommandEffect{}},
			runner:  &recordingRunner{},
		},
		{
			name: "command fails",
			effects: []graph.SideEffect{
				graph.CommandEffect{Command: []string{"false"}},
				graph.DirectoryEffect{Path: filepath.Join(root, "after"), State: graph.Present},
			},
			runner: &recordingRunner{err: synthetic},
			is:     synthetic,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := newExecutor(tc.runner).Execute(tc.effects)
			require.Error(t, err)
			if tc.is != nil {
				require.True(t, errors.Is(err, tc.is))
			}
			require.NoDirExists(t, filepath.Join(root, "after"))
		})
	}
}
