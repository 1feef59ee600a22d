// SPDX-License-Identifier: Apache-2.0

package swift

import (
	"encoding/json"
	"fmt"
)

// PackageDependency is a node of `swift package show-dependencies --format json`
type PackageDependency struct {
	Name         string              `json:"name"`
	Identity     string              `json:"identity"`
	URL          string              `json:"url"`
	Version      string              `json:"version"`
	Path         string              `json:"path"`
	Dependencies []PackageDependency `json:"dependencies"`
}

// PackageInfo is the output of `swift package dump-package`
type PackageInfo struct {
	Name      string                `json:"name"`
	Platforms []PlatformRequirement `json:"platforms"`
	Products  []Product             `json:"products"`
	Targets   []Target              `json:"targets"`
}

// PlatformRequirement is a minimum OS version declared by a package
type PlatformRequirement struct {
	PlatformName string `json:"platformName"`
	Version      string `json:"version"`
}

// Product is a library or executable vended by a package
type Product struct {
	Name    string                 `json:"name"`
	Targets []string               `json:"targets"`
	Type    map[string]interface{} `json:"type"`
}

// Target types found in package descriptions
const (
	TargetTypeRegular = "regular"
	TargetTypeTest    = "test"
	TargetTypeBinary  = "binary"
	TargetTypeSystem  = "system"
	TargetTypePlugin  = "plugin"
	TargetTypeMacro   = "macro"
)

// Target is a module declared in a package
type Target struct {
	Name              string             `json:"name"`
	Type              string             `json:"type"`
	Path              string             `json:"path"`
	URL               string             `json:"url"`
	Sources           []string           `json:"sources"`
	Resources         []Resource         `json:"resources"`
	Exclude           []string           `json:"exclude"`
	PublicHeadersPath string             `json:"publicHeadersPath"`
	Dependencies      []TargetDependency `json:"dependencies"`
	Settings          []TargetSetting    `json:"settings"`
}

// Resource is a file or folder bundled with a target
type Resource struct {
	Rule string `json:"rule"`
	Path string `json:"path"`
}

// Target dependency kinds
const (
	DependencyByName  = "byName"
	DependencyTarget  = "target"
	DependencyProduct = "product"
)

// TargetDependency references a target of the same package or a product,
// encoded as {"byName": [name, condition]}, {"target": [name, condition]}
// or {"product": [name, package, ...]}.
type TargetDependency struct {
	Kind    string
	Name    string
	Package string
}

// UnmarshalJSON decodes the single-key tuple form
func (d *TargetDependency) UnmarshalJSON(data []byte) error {
	var raw map[string][]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 1 {
		return fmt.Errorf("target dependency must have exactly one kind, got %d", len(raw))
	}
	for kind, values := range raw {
		switch kind {
		case DependencyByName, DependencyTarget, DependencyProduct:
		default:
			return fmt.Errorf("unknown target dependency kind %q", kind)
		}
		if len(values) == 0 {
			return fmt.Errorf("target dependency %q has no name", kind)
		}
		d.Kind = kind
		if err := json.Unmarshal(values[0], &d.Name); err != nil {
			return fmt.Errorf("decoding %s dependency name: %w", kind, err)
		}
		if kind == DependencyProduct && len(values) > 1 {
			// the package name may be null
			var pkg *string
			if err := json.Unmarshal(values[1], &pkg); err != nil {
				return fmt.Errorf("decoding product package name: %w", err)
			}
			if pkg != nil {
				d.Package = *pkg
			}
		}
	}
	return nil
}

// Setting tools
const (
	ToolC      = "c"
	ToolCXX    = "cxx"
	ToolSwift  = "swift"
	ToolLinker = "linker"
)

// Setting names
const (
	SettingDefine           = "define"
	SettingHeaderSearchPath = "headerSearchPath"
	SettingUnsafeFlags      = "unsafeFlags"
	SettingLinkedFramework  = "linkedFramework"
	SettingLinkedLibrary    = "linkedLibrary"
)

// TargetSetting is a build setting declared by a target
type TargetSetting struct {
	Tool      string            `json:"tool"`
	Name      string            `json:"name"`
	Value     []string          `json:"value"`
	Condition *SettingCondition `json:"condition"`
}

// SettingCondition restricts a setting to platforms or a configuration
type SettingCondition struct {
	PlatformNames []string `json:"platformNames"`
	Config        string   `json:"config"`
}

// ResolvedPackage is a checkout together with its description
type ResolvedPackage struct {
	Root    string
	Version string
	Info    PackageInfo
}
