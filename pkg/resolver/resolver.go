// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/projectgen/generator/carthage"
	"github.com/projectgen/generator/graph"
	"github.com/projectgen/generator/plugin"
	"github.com/projectgen/generator/swift"
)

var (
	errNoPluginAvailable   = errors.New("no package manager found for the dependencies directory")
	errFailedToReadModules = errors.New("failed to resolve external packages")
)

// DefaultPlugins returns the package managers known to the generator
func DefaultPlugins(opts swift.Options) []plugin.Plugin {
	return []plugin.Plugin{
		carthage.New(),
		swift.New(opts),
	}
}

// Manager ...
type Manager struct {
	Config   Config
	Plugin   plugin.Plugin
	fragment graph.DependenciesGraph
}

// Config ...
type Config struct {
	// Path is the dependencies directory holding the package manifests
	Path    string
	Plugins []plugin.Plugin
}

// New returns a manager for every plugin whose manifest is found in cfg.Path
func New(cfg Config) ([]*Manager, error) {
	plugins := cfg.Plugins
	if plugins == nil {
		plugins = DefaultPlugins(swift.Options{})
	}

	var managerSlice []*Manager
	for _, p := range plugins {
		if p.IsValid(cfg.Path) {
			managerSlice = append(managerSlice, &Manager{
				Config: cfg,
				Plugin: p,
			})
		}
	}
	if len(managerSlice) == 0 {
		return nil, errNoPluginAvailable
	}

	return managerSlice, nil
}

// Run resolves the packages of the manager's plugin
func (m *Manager) Run() error {
	metadata := m.Plugin.GetMetadata()
	version, err := m.Plugin.GetVersion()
	if err != nil {
		log.Debugf("Unable to read %s version: %v", metadata.Name, err)
	} else {
		log.Infof("Current %s Version %s", metadata.Name, version)
	}

	if err := m.Plugin.HasModulesInstalled(m.Config.Path); err != nil {
		return err
	}

	fragment, err := m.Plugin.Resolve(m.Config.Path)
	if err != nil {
		log.Error(err)
		return fmt.Errorf("%w with %s: %w", errFailedToReadModules, metadata.Slug, err)
	}
	if err := fragment.Validate(); err != nil {
		return fmt.Errorf("%s resolution is inconsistent: %w", metadata.Slug, err)
	}

	m.fragment = fragment
	return nil
}

// GetSource returns the resolved fragment
func (m *Manager) GetSource() graph.DependenciesGraph {
	return m.fragment
}

// Resolve runs every applicable plugin and combines their fragments
func Resolve(cfg Config) (graph.DependenciesGraph, error) {
	managers, err := New(cfg)
	if err != nil {
		return graph.DependenciesGraph{}, err
	}

	fragments := make([]graph.DependenciesGraph, 0, len(managers))
	for _, m := range managers {
		if err := m.Run(); err != nil {
			return graph.DependenciesGraph{}, err
		}
		fragments = append(fragments, m.GetSource())
	}

	res, err := graph.Combine(fragments...)
	if err != nil {
		return graph.DependenciesGraph{}, err
	}
	log.Infof("Resolved %d external packages and %d projects", len(res.ExternalDependencies), len(res.ExternalProjects))
	return res, nil
}
