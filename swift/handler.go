// SPDX-License-Identifier: Apache-2.0

package swift

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/mod/semver"

	"github.com/projectgen/generator/graph"
	"github.com/projectgen/generator/internal/helper"
	"github.com/projectgen/generator/plugin"
)

const (
	ManifestFile       string = "Package.swift"
	ResolvedFile       string = "Package.resolved"
	BuildDirectory     string = ".build"
	CheckoutsDirectory string = "checkouts"
	ArtifactsDirectory string = "artifacts"

	cacheSize = 256
)

type Swift struct {
	metadata plugin.Metadata
	opts     Options
	impl     Implementation
	cache    *lru.Cache[string, PackageInfo]
	logger   logrus.FieldLogger
}

// New creates a new Swift package instance
func New(opts Options) *Swift {
	// only fails for a non-positive size
	cache, _ := lru.New[string, PackageInfo](cacheSize) // nolint:errcheck
	return &Swift{
		metadata: plugin.Metadata{
			Name:       "Swift Package Manager",
			Slug:       "swift",
			Manifest:   []string{ManifestFile, ResolvedFile},
			ModulePath: []string{filepath.Join(BuildDirectory, CheckoutsDirectory)},
		},
		opts:   opts,
		impl:   &defaultImplementation{},
		cache:  cache,
		logger: logrus.StandardLogger(),
	}
}

// SetImplementation replaces the toolchain access, used by tests
func (m *Swift) SetImplementation(impl Implementation) {
	m.impl = impl
}

// SetLogger ...
func (m *Swift) SetLogger(logger logrus.FieldLogger) {
	m.logger = logger
}

// GetVersion returns Swift language version
func (m *Swift) GetVersion() (string, error) {
	return m.impl.Version()
}

// GetMetadata returns the plugin metadata
func (m *Swift) GetMetadata() plugin.Metadata {
	return m.metadata
}

// IsValid checks if the package manifest exists in path
func (m *Swift) IsValid(path string) bool {
	return helper.Exists(filepath.Join(path, ManifestFile))
}

// HasModulesInstalled checks whether the packages of path are checked out
func (m *Swift) HasModulesInstalled(path string) error {
	if !m.IsValid(path) {
		return errNoManifest
	}
	if helper.IsDir(filepath.Join(path, BuildDirectory, CheckoutsDirectory)) {
		return nil
	}
	return errDependenciesNotFound
}

// Resolve describes every package checked out for the manifest in path and
// converts them into one DependenciesGraph
func (m *Swift) Resolve(path string) (graph.DependenciesGraph, error) {
	root, err := m.impl.ShowDependencies(path)
	if err != nil {
		return graph.DependenciesGraph{}, fmt.Errorf("listing swift packages in %s: %w", path, err)
	}

	var packages []ResolvedPackage // nolint: prealloc
	for _, dep := range flatten(root) {
		info, err := m.describe(dep)
		if err != nil {
			return graph.DependenciesGraph{}, err
		}
		packages = append(packages, ResolvedPackage{Root: dep.Path, Version: dep.Version, Info: info})
	}

	opts := m.opts
	if opts.ArtifactsDirectory == "" {
		opts.ArtifactsDirectory = filepath.Join(path, BuildDirectory, ArtifactsDirectory)
	}
	converter := NewConverter(opts, m.logger)
	index := converter.Index(packages)

	fragments := make([]graph.DependenciesGraph, 0, len(packages))
	for _, pkg := range packages {
		fragment, err := converter.Fragment(pkg.Info, pkg.Root, index)
		if err != nil {
			return graph.DependenciesGraph{}, err
		}
		m.logger.Debugf("Package %s resolved to %d products", pkg.Info.Name, len(fragment.ExternalDependencies))
		fragments = append(fragments, fragment)
	}

	return graph.Combine(fragments...)
}

// describe returns the package description of a checkout, from the cache
// when the checkout is pinned to a known version or revision
func (m *Swift) describe(dep PackageDependency) (PackageInfo, error) {
	key := m.cacheKey(dep)
	if key != "" {
		if info, ok := m.cache.Get(key); ok {
			return info, nil
		}
	}

	info, err := m.impl.DumpPackage(dep.Path)
	if err != nil {
		return PackageInfo{}, fmt.Errorf("describing swift package %s: %w", dep.Path, err)
	}
	if key != "" {
		m.cache.Add(key, info)
	}
	return info, nil
}

func (m *Swift) cacheKey(dep PackageDependency) string {
	version := dep.Version
	// semver requires a "v" prefix
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	if semver.IsValid(version) {
		return dep.Path + "@" + semver.Canonical(version)
	}

	revision, err := m.impl.Revision(dep.Path)
	if err != nil {
		m.logger.Debugf("Not caching %s: %v", dep.Path, err)
		return ""
	}
	return dep.Path + "#" + revision
}

// flatten returns every transitive dependency of root once, sorted by path
func flatten(root PackageDependency) []PackageDependency {
	seen := map[string]PackageDependency{}
	var recurse func(PackageDependency)
	recurse = func(dep PackageDependency) {
		for _, nested := range dep.Dependencies {
			if _, ok := seen[nested.Path]; ok {
				continue
			}
			seen[nested.Path] = nested
			recurse(nested)
		}
	}
	recurse(root)

	out := make([]PackageDependency, 0, len(seen))
	for _, dep := range seen {
		out = append(out, dep)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
