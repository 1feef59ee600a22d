// SPDX-License-Identifier: Apache-2.0

package swift

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/sirupsen/logrus"

	"github.com/projectgen/generator/graph"
)

// Options control how package targets become synthetic targets
type Options struct {
	// Platform of every synthetic target, iOS when empty
	Platform graph.Platform
	// DeploymentTargets is the minimum version per platform
	DeploymentTargets map[graph.Platform]string
	// ProductTypes overrides the product of a target by name
	ProductTypes map[string]graph.Product
	// ArtifactsDirectory holds binary artifacts as <dir>/<package>/<target>.xcframework
	ArtifactsDirectory string
}

// ProductIndex maps every product name of the resolved packages to the
// edges a consumer of the product gets
type ProductIndex map[string]graph.Dependencies

var bundleIDInvalidChars = regexp.MustCompile(`[^A-Za-z0-9.\-]`)

// Converter turns package descriptions into DependenciesGraph fragments
type Converter struct {
	opts   Options
	logger logrus.FieldLogger
}

// NewConverter ...
func NewConverter(opts Options, logger logrus.FieldLogger) *Converter {
	if opts.Platform == "" {
		opts.Platform = graph.IOS
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Converter{opts: opts, logger: logger}
}

// Index builds the product index of all resolved packages. When two
// packages vend a product with the same name the first package wins and a
// warning is logged.
func (c *Converter) Index(packages []ResolvedPackage) ProductIndex {
	index := ProductIndex{}
	owners := map[string]string{}
	for _, pkg := range packages {
		edges := c.productEdges(pkg.Info, pkg.Root)
		names := make([]string, 0, len(edges))
		for name := range edges {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			if owner, ok := owners[name]; ok {
				c.logger.Warnf("Product %s of package at %s is already vended by package at %s, ignoring it", name, pkg.Root, owner)
				continue
			}
			owners[name] = pkg.Root
			index[name] = edges[name]
		}
	}
	return index
}

// Fragment converts one package into a fragment holding an entry per
// product and one synthetic project at packageRoot
func (c *Converter) Fragment(info PackageInfo, packageRoot string, index ProductIndex) (graph.DependenciesGraph, error) {
	fragment := graph.NewDependenciesGraph()
	for name, deps := range c.productEdges(info, packageRoot) {
		if len(deps) == 0 {
			c.logger.Debugf("Product %s of package %s has no buildable target", name, info.Name)
			continue
		}
		fragment.ExternalDependencies[name] = deps
	}

	deploymentTarget, err := c.deploymentTarget(info)
	if err != nil {
		return graph.DependenciesGraph{}, fmt.Errorf("package %s: %w", info.Name, err)
	}

	project := graph.Project{
		Name:    info.Name,
		Path:    packageRoot,
		Targets: []graph.Target{},
	}
	for _, target := range info.Targets {
		if !isBuildable(target) {
			c.logger.Debugf("Skipping %s target %s of package %s", target.Type, target.Name, info.Name)
			continue
		}
		t, err := c.target(info, packageRoot, target, deploymentTarget, index)
		if err != nil {
			return graph.DependenciesGraph{}, err
		}
		project.Targets = append(project.Targets, t)
	}

	if len(project.Targets) > 0 {
		fragment.ExternalProjects[packageRoot] = project
	}
	return fragment, nil
}

func (c *Converter) productEdges(info PackageInfo, packageRoot string) map[string]graph.Dependencies {
	targets := make(map[string]Target, len(info.Targets))
	for _, t := range info.Targets {
		targets[t.Name] = t
	}

	edges := map[string]graph.Dependencies{}
	for _, product := range info.Products {
		deps := graph.Dependencies{}
		for _, name := range product.Targets {
			target, ok := targets[name]
			switch {
			case ok && target.Type == TargetTypeBinary:
				deps = append(deps, graph.XCFrameworkDependency{Path: c.artifactPath(packageRoot, target)})
			case ok && !isBuildable(target):
				// no synthetic target exists for it
			default:
				deps = append(deps, graph.ProjectDependency{Target: name, Path: packageRoot})
			}
		}
		edges[product.Name] = deps
	}
	return edges
}

// artifactPath locates a binary target. Downloaded artifacts live under a
// directory named after the package identity, which is the checkout
// directory name, not the manifest name.
func (c *Converter) artifactPath(packageRoot string, target Target) string {
	if target.Path != "" && target.URL == "" {
		return filepath.Join(packageRoot, target.Path)
	}
	return filepath.Join(c.opts.ArtifactsDirectory, filepath.Base(packageRoot), target.Name+".xcframework")
}

func isBuildable(target Target) bool {
	switch target.Type {
	case TargetTypeTest, TargetTypeBinary, TargetTypeSystem, TargetTypePlugin, TargetTypeMacro:
		return false
	}
	return true
}

func (c *Converter) target(info PackageInfo, root string, target Target, deploymentTarget *graph.DeploymentTarget, index ProductIndex) (graph.Target, error) {
	targetPath := target.Path
	if targetPath == "" {
		targetPath = filepath.Join("Sources", target.Name)
	}
	base := filepath.Join(root, targetPath)

	product := graph.StaticFramework
	if custom, ok := c.opts.ProductTypes[target.Name]; ok {
		product = custom
	}

	t := graph.Target{
		Name:             target.Name,
		Platform:         c.opts.Platform,
		Product:          product,
		BundleID:         bundleIDInvalidChars.ReplaceAllString(target.Name, "-"),
		DeploymentTarget: deploymentTarget,
		InfoPlist:        graph.DefaultInfoPlist,
	}

	if len(target.Sources) == 0 {
		t.Sources = []string{base + "/**"}
	}
	for _, src := range target.Sources {
		t.Sources = append(t.Sources, filepath.Join(base, src)+"/**")
	}
	for _, res := range target.Resources {
		t.Resources = append(t.Resources, filepath.Join(base, res.Path)+"/**")
	}
	if target.PublicHeadersPath != "" {
		t.Headers = &graph.Headers{Public: []string{filepath.Join(base, target.PublicHeadersPath) + "/**/*.h"}}
	}

	deps, err := c.targetDependencies(info, root, target, index)
	if err != nil {
		return graph.Target{}, err
	}
	if len(deps) > 0 {
		t.Dependencies = deps
	}

	settings := graph.PackageSettings(c.customSettings(target))
	t.Settings = &settings
	return t, nil
}

func (c *Converter) targetDependencies(info PackageInfo, root string, target Target, index ProductIndex) (graph.Dependencies, error) {
	local := make(map[string]Target, len(info.Targets))
	for _, t := range info.Targets {
		local[t.Name] = t
	}

	deps := graph.Dependencies{}
	for _, dep := range target.Dependencies {
		if dep.Kind != DependencyProduct {
			if t, ok := local[dep.Name]; ok {
				switch {
				case t.Type == TargetTypeBinary:
					deps = append(deps, graph.XCFrameworkDependency{Path: c.artifactPath(root, t)})
				case isBuildable(t):
					deps = append(deps, graph.TargetDependency{Name: t.Name})
				default:
					c.logger.Debugf("Dropping dependency of %s on %s target %s", target.Name, t.Type, t.Name)
				}
				continue
			}
			if dep.Kind == DependencyTarget {
				return nil, &UnknownTargetError{Package: info.Name, Target: target.Name, Dependency: dep.Name}
			}
		}

		edges, ok := index[dep.Name]
		if !ok {
			return nil, &UnknownProductError{Package: info.Name, Target: target.Name, Product: dep.Name}
		}
		deps = append(deps, edges...)
	}

	for _, setting := range c.applicableSettings(target) {
		if setting.Tool != ToolLinker {
			continue
		}
		for _, v := range setting.Value {
			switch setting.Name {
			case SettingLinkedFramework:
				deps = append(deps, graph.SDKDependency{Name: v + ".framework", Status: graph.SDKRequired})
			case SettingLinkedLibrary:
				deps = append(deps, graph.SDKDependency{Name: v + ".tbd", Status: graph.SDKRequired})
			}
		}
	}
	return deps.Dedup(), nil
}

func (c *Converter) customSettings(target Target) graph.SettingsDictionary {
	values := map[string][]string{}
	var keys []string
	add := func(key string, v ...string) {
		if _, ok := values[key]; !ok {
			keys = append(keys, key)
		}
		values[key] = append(values[key], v...)
	}

	for _, setting := range c.applicableSettings(target) {
		switch setting.Name {
		case SettingDefine:
			if setting.Tool == ToolSwift {
				add(graph.SwiftActiveCompilationConditions, setting.Value...)
			} else {
				add(graph.PreprocessorDefinitions, setting.Value...)
			}
		case SettingHeaderSearchPath:
			add(graph.HeaderSearchPaths, setting.Value...)
		case SettingUnsafeFlags:
			switch setting.Tool {
			case ToolC:
				add(graph.OtherCFlags, setting.Value...)
			case ToolCXX:
				add(graph.OtherCPlusPlusFlags, setting.Value...)
			case ToolSwift:
				add(graph.OtherSwiftFlags, setting.Value...)
			case ToolLinker:
				add(graph.OtherLinkerFlags, setting.Value...)
			}
		case SettingLinkedFramework, SettingLinkedLibrary:
		default:
			c.logger.Warnf("Ignoring unsupported %s setting %q of target %s", setting.Tool, setting.Name, target.Name)
		}
	}

	if len(keys) == 0 {
		return nil
	}
	dict := make(graph.SettingsDictionary, len(keys))
	for _, k := range keys {
		dict[k] = graph.ArrayValue(values[k]...)
	}
	return dict
}

// applicableSettings drops settings restricted to other platforms
func (c *Converter) applicableSettings(target Target) []TargetSetting {
	platform := strings.ToLower(string(c.opts.Platform))
	var out []TargetSetting
	for _, s := range target.Settings {
		if s.Condition != nil && len(s.Condition.PlatformNames) > 0 && !contains(s.Condition.PlatformNames, platform) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (c *Converter) deploymentTarget(info PackageInfo) (*graph.DeploymentTarget, error) {
	platform := strings.ToLower(string(c.opts.Platform))
	declared := ""
	for _, p := range info.Platforms {
		if strings.ToLower(p.PlatformName) == platform {
			declared = p.Version
		}
	}

	version, err := higherVersion(declared, c.opts.DeploymentTargets[c.opts.Platform])
	if err != nil {
		return nil, err
	}
	if version == "" {
		return nil, nil
	}

	dt := &graph.DeploymentTarget{Platform: c.opts.Platform, Version: version}
	if c.opts.Platform == graph.IOS {
		dt.Devices = []graph.Device{graph.IPhone, graph.IPad, graph.Mac}
	}
	return dt, nil
}

// higherVersion returns the greater of two dotted versions, ignoring empty ones
func higherVersion(a, b string) (string, error) {
	if a == "" || b == "" {
		return a + b, nil
	}
	va, err := semver.NewVersion(a)
	if err != nil {
		return "", fmt.Errorf("invalid deployment target %q: %w", a, err)
	}
	vb, err := semver.NewVersion(b)
	if err != nil {
		return "", fmt.Errorf("invalid deployment target %q: %w", b, err)
	}
	if va.LessThan(vb) {
		return b, nil
	}
	return a, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
