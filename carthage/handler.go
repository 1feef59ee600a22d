// SPDX-License-Identifier: Apache-2.0

package carthage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/projectgen/generator/graph"
	"github.com/projectgen/generator/internal/helper"
	"github.com/projectgen/generator/plugin"
)

const (
	Cmd        = "carthage"
	VersionArg = "version"

	ManifestFile    string = "Cartfile"
	ResolvedFile    string = "Cartfile.resolved"
	BuildDirectory  string = "Carthage/Build"
	frameworkSuffix string = ".xcframework"
)

type Carthage struct {
	metadata plugin.Metadata
	logger   logrus.FieldLogger
}

// New creates a new Carthage instance
func New() *Carthage {
	return &Carthage{
		metadata: plugin.Metadata{
			Name:       "Carthage",
			Slug:       "carthage",
			Manifest:   []string{ManifestFile, ResolvedFile},
			ModulePath: []string{BuildDirectory},
		},
		logger: logrus.StandardLogger(),
	}
}

// SetLogger ...
func (m *Carthage) SetLogger(logger logrus.FieldLogger) {
	m.logger = logger
}

// GetVersion returns the carthage version
func (m *Carthage) GetVersion() (string, error) {
	return helper.NewCmd(helper.CmdOptions{Name: Cmd, Args: []string{VersionArg}}).Output()
}

// GetMetadata returns the plugin metadata
func (m *Carthage) GetMetadata() plugin.Metadata {
	return m.metadata
}

// IsValid checks if a Cartfile exists in path
func (m *Carthage) IsValid(path string) bool {
	return helper.Exists(filepath.Join(path, ManifestFile))
}

// HasModulesInstalled checks whether the build products directory exists
func (m *Carthage) HasModulesInstalled(path string) error {
	if helper.IsDir(filepath.Join(path, BuildDirectory)) {
		return nil
	}
	return errDependenciesNotFound
}

// Resolve maps every xcframework built by Carthage to a package of the same name
func (m *Carthage) Resolve(path string) (graph.DependenciesGraph, error) {
	buildDir := filepath.Join(path, BuildDirectory)
	entries, err := os.ReadDir(buildDir)
	if err != nil {
		return graph.DependenciesGraph{}, fmt.Errorf("reading %s: %w", buildDir, err)
	}

	res := graph.NewDependenciesGraph()
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasSuffix(entry.Name(), frameworkSuffix) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		pkg := strings.TrimSuffix(name, frameworkSuffix)
		res.ExternalDependencies[pkg] = graph.Dependencies{
			graph.XCFrameworkDependency{Path: filepath.Join(buildDir, name)},
		}
		m.logger.Debugf("Found Carthage xcframework %s", pkg)
	}
	return res, nil
}
