// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"encoding/json"
	"fmt"
)

// DependencyKind is the wire tag of a dependency edge
type DependencyKind string

const (
	KindTarget      DependencyKind = "target"
	KindProject     DependencyKind = "project"
	KindXCFramework DependencyKind = "xcframework"
	KindSDK         DependencyKind = "sdk"
	KindExternal    DependencyKind = "external"
)

// SDKStatus tells whether a system library is required or weakly linked
type SDKStatus string

const (
	SDKRequired SDKStatus = "required"
	SDKOptional SDKStatus = "optional"
)

// Dependency is an edge from a target to something it links against.
// The set of implementations is closed: TargetDependency, ProjectDependency,
// XCFrameworkDependency, SDKDependency and ExternalDependency.
type Dependency interface {
	Kind() DependencyKind
	String() string
	isDependency()
}

// TargetDependency references a target of the same project
type TargetDependency struct {
	Name string `json:"name"`
}

// ProjectDependency references a target of the project at Path
type ProjectDependency struct {
	Target string `json:"target"`
	Path   string `json:"path"`
}

// XCFrameworkDependency references a prebuilt binary artifact
type XCFrameworkDependency struct {
	Path string `json:"path"`
}

// SDKDependency references a system framework or library, e.g. "StoreKit.framework" or "z.tbd"
type SDKDependency struct {
	Name   string    `json:"name"`
	Status SDKStatus `json:"status"`
}

// ExternalDependency is the manifest-side reference to a package resolved
// by a package manager. It never survives merging.
type ExternalDependency struct {
	Name string `json:"name"`
}

func (TargetDependency) Kind() DependencyKind      { return KindTarget }
func (ProjectDependency) Kind() DependencyKind     { return KindProject }
func (XCFrameworkDependency) Kind() DependencyKind { return KindXCFramework }
func (SDKDependency) Kind() DependencyKind         { return KindSDK }
func (ExternalDependency) Kind() DependencyKind    { return KindExternal }

func (d TargetDependency) String() string      { return "target:" + d.Name }
func (d ProjectDependency) String() string     { return "project:" + d.Path + ":" + d.Target }
func (d XCFrameworkDependency) String() string { return "xcframework:" + d.Path }
func (d SDKDependency) String() string         { return "sdk:" + d.Name + ":" + string(d.Status) }
func (d ExternalDependency) String() string    { return "external:" + d.Name }

func (TargetDependency) isDependency()      {}
func (ProjectDependency) isDependency()     {}
func (XCFrameworkDependency) isDependency() {}
func (SDKDependency) isDependency()         {}
func (ExternalDependency) isDependency()    {}

// UnknownDependencyError is returned when an edge of an unexpected type is interpreted
type UnknownDependencyError struct {
	Dependency Dependency
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("unknown dependency type %T", e.Dependency)
}

// Dependencies is an ordered list of edges with a tagged JSON encoding
type Dependencies []Dependency

// Dedup removes edges equal to an earlier one, keeping first-seen order.
func (d Dependencies) Dedup() Dependencies {
	if d == nil {
		return nil
	}
	seen := make(map[Dependency]struct{}, len(d))
	out := make(Dependencies, 0, len(d))
	for _, dep := range d {
		if _, ok := seen[dep]; ok {
			continue
		}
		seen[dep] = struct{}{}
		out = append(out, dep)
	}
	return out
}

// Equal reports whether both lists contain the same edges in the same order
func (d Dependencies) Equal(other Dependencies) bool {
	if len(d) != len(other) {
		return false
	}
	for i := range d {
		if d[i] != other[i] {
			return false
		}
	}
	return true
}

type wireDependency struct {
	Kind   DependencyKind `json:"kind"`
	Name   string         `json:"name,omitempty"`
	Target string         `json:"target,omitempty"`
	Path   string         `json:"path,omitempty"`
	Status SDKStatus      `json:"status,omitempty"`
}

func toWire(dep Dependency) (wireDependency, error) {
	switch d := dep.(type) {
	case TargetDependency:
		return wireDependency{Kind: KindTarget, Name: d.Name}, nil
	case ProjectDependency:
		return wireDependency{Kind: KindProject, Target: d.Target, Path: d.Path}, nil
	case XCFrameworkDependency:
		return wireDependency{Kind: KindXCFramework, Path: d.Path}, nil
	case SDKDependency:
		return wireDependency{Kind: KindSDK, Name: d.Name, Status: d.Status}, nil
	case ExternalDependency:
		return wireDependency{Kind: KindExternal, Name: d.Name}, nil
	default:
		return wireDependency{}, &UnknownDependencyError{Dependency: dep}
	}
}

func fromWire(w wireDependency) (Dependency, error) {
	switch w.Kind {
	case KindTarget:
		return TargetDependency{Name: w.Name}, nil
	case KindProject:
		return ProjectDependency{Target: w.Target, Path: w.Path}, nil
	case KindXCFramework:
		return XCFrameworkDependency{Path: w.Path}, nil
	case KindSDK:
		status := w.Status
		if status == "" {
			status = SDKRequired
		}
		return SDKDependency{Name: w.Name, Status: status}, nil
	case KindExternal:
		return ExternalDependency{Name: w.Name}, nil
	default:
		return nil, fmt.Errorf("unknown dependency kind %q", w.Kind)
	}
}

// MarshalJSON encodes each edge as an object tagged by "kind"
func (d Dependencies) MarshalJSON() ([]byte, error) {
	wire := make([]wireDependency, 0, len(d))
	for _, dep := range d {
		w, err := toWire(dep)
		if err != nil {
			return nil, err
		}
		wire = append(wire, w)
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes the tagged edge objects
func (d *Dependencies) UnmarshalJSON(data []byte) error {
	var wire []wireDependency
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire == nil {
		*d = nil
		return nil
	}
	out := make(Dependencies, 0, len(wire))
	for _, w := range wire {
		dep, err := fromWire(w)
		if err != nil {
			return err
		}
		out = append(out, dep)
	}
	*d = out
	return nil
}
