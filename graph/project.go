// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"bytes"
	"encoding/json"
)

// Platform a target is built for
type Platform string

const (
	IOS     Platform = "iOS"
	MacOS   Platform = "macOS"
	TvOS    Platform = "tvOS"
	WatchOS Platform = "watchOS"
)

// Product is the kind of artifact a target produces
type Product string

const (
	App              Product = "app"
	StaticLibrary    Product = "staticLibrary"
	DynamicLibrary   Product = "dynamicLibrary"
	Framework        Product = "framework"
	StaticFramework  Product = "staticFramework"
	Bundle           Product = "bundle"
	UnitTests        Product = "unitTests"
	UITests          Product = "uiTests"
	CommandLineTool  Product = "commandLineTool"
	AppExtension     Product = "appExtension"
	WatchApplication Product = "watch2App"
)

// IsTests reports whether the product is a test bundle
func (p Product) IsTests() bool {
	return p == UnitTests || p == UITests
}

// Device families for iOS deployment targets
type Device string

const (
	IPhone Device = "iphone"
	IPad   Device = "ipad"
	Mac    Device = "mac"
)

// DeploymentTarget is the minimum OS version a target supports
type DeploymentTarget struct {
	Platform Platform `json:"platform"`
	Version  string   `json:"version"`
	Devices  []Device `json:"devices,omitempty"`
}

// InfoPlistKind selects how a target's Info.plist is obtained
type InfoPlistKind string

const (
	InfoPlistDefault   InfoPlistKind = "default"
	InfoPlistFile      InfoPlistKind = "file"
	InfoPlistGenerated InfoPlistKind = "generated"
)

// InfoPlist references a target's property list
type InfoPlist struct {
	Kind InfoPlistKind     `json:"kind"`
	Path string            `json:"path,omitempty"`
	Keys map[string]string `json:"keys,omitempty"`
}

// DefaultInfoPlist is the Info.plist synthesised by the generator
var DefaultInfoPlist = InfoPlist{Kind: InfoPlistDefault}

// Headers lists header globs by visibility
type Headers struct {
	Public  []string `json:"public,omitempty"`
	Private []string `json:"private,omitempty"`
	Project []string `json:"project,omitempty"`
}

// Target is a buildable unit
type Target struct {
	Name             string            `json:"name"`
	Platform         Platform          `json:"platform"`
	Product          Product           `json:"product"`
	BundleID         string            `json:"bundleId"`
	DeploymentTarget *DeploymentTarget `json:"deploymentTarget,omitempty"`
	InfoPlist        InfoPlist         `json:"infoPlist"`
	Sources          []string          `json:"sources,omitempty"`
	Resources        []string          `json:"resources,omitempty"`
	Headers          *Headers          `json:"headers,omitempty"`
	Dependencies     Dependencies      `json:"dependencies,omitempty"`
	Settings         *Settings         `json:"settings,omitempty"`
}

// WithDependencies returns a copy of the target using the given edges
func (t Target) WithDependencies(deps Dependencies) Target {
	out := t
	out.Dependencies = append(Dependencies(nil), deps...)
	return out
}

// WithInfoPlist returns a copy of the target using the given Info.plist
func (t Target) WithInfoPlist(plist InfoPlist) Target {
	out := t
	out.InfoPlist = plist
	return out
}

// TargetReference points to a target of the project at ProjectPath
type TargetReference struct {
	ProjectPath string `json:"projectPath"`
	Name        string `json:"name"`
}

// Scheme describes how targets are built, run and tested together
type Scheme struct {
	Name            string            `json:"name"`
	Shared          bool              `json:"shared"`
	Autogenerated   bool              `json:"autogenerated,omitempty"`
	BuildTargets    []TargetReference `json:"buildTargets,omitempty"`
	TestTargets     []TargetReference `json:"testTargets,omitempty"`
	RunTarget       *TargetReference  `json:"runTarget,omitempty"`
	CodeCoverage    bool              `json:"codeCoverage,omitempty"`
	CoverageTargets []TargetReference `json:"coverageTargets,omitempty"`
}

// FileElement is a loose file added to a workspace or project
type FileElement struct {
	Path string `json:"path"`
}

// Project groups targets under one native project file
type Project struct {
	Name                 string        `json:"name"`
	Path                 string        `json:"path"`
	XcodeProjPath        string        `json:"xcodeProjPath,omitempty"`
	Targets              []Target      `json:"targets"`
	Schemes              []Scheme      `json:"schemes,omitempty"`
	Settings             Settings      `json:"settings"`
	AdditionalFiles      []FileElement `json:"additionalFiles,omitempty"`
	ResourceSynthesizers []string      `json:"resourceSynthesizers,omitempty"`
}

// Target returns the target with the given name
func (p Project) Target(name string) (Target, bool) {
	for _, t := range p.Targets {
		if t.Name == name {
			return t, true
		}
	}
	return Target{}, false
}

// WithTargets returns a copy of the project using the given targets
func (p Project) WithTargets(targets []Target) Project {
	out := p
	out.Targets = append([]Target(nil), targets...)
	return out
}

// WithSchemes returns a copy of the project using the given schemes
func (p Project) WithSchemes(schemes []Scheme) Project {
	out := p
	out.Schemes = append([]Scheme(nil), schemes...)
	return out
}

// Equal compares the canonical JSON encoding of both projects, so a nil
// and an empty target list are the same
func (p Project) Equal(other Project) bool {
	a, errA := p.canonical()
	b, errB := other.canonical()
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(a, b)
}

func (p Project) canonical() ([]byte, error) {
	if p.Targets == nil {
		p.Targets = []Target{}
	}
	return json.Marshal(p)
}
