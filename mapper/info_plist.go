// SPDX-License-Identifier: Apache-2.0

package mapper

import (
	"path/filepath"

	"github.com/projectgen/generator/graph"
	"github.com/projectgen/generator/internal/plist"
)

// InfoPlistsDirectory is where generated Info.plist files are written, inside DerivedDirectory
const InfoPlistsDirectory = "InfoPlists"

// GenerateInfoPlistMapper writes an Info.plist for every target that does
// not reference its own file and points the target to it
type GenerateInfoPlistMapper struct{}

// Map ...
func (GenerateInfoPlistMapper) Map(project graph.Project) (graph.Project, []graph.SideEffect, error) {
	targets := make([]graph.Target, 0, len(project.Targets))
	var sideEffects []graph.SideEffect

	for _, target := range project.Targets {
		if target.InfoPlist.Kind == graph.InfoPlistFile {
			targets = append(targets, target)
			continue
		}
		if target.BundleID == "" {
			return graph.Project{}, nil, &MappingError{
				Mapper:  "GenerateInfoPlistMapper",
				Project: project.Path,
				Target:  target.Name,
				Reason:  "bundle identifier is empty",
			}
		}

		contents, err := plist.Encode(infoPlistValues(target))
		if err != nil {
			return graph.Project{}, nil, &MappingError{
				Mapper:  "GenerateInfoPlistMapper",
				Project: project.Path,
				Target:  target.Name,
				Reason:  err.Error(),
			}
		}

		path := filepath.Join(project.Path, DerivedDirectory, InfoPlistsDirectory, target.Name+".plist")
		sideEffects = append(sideEffects, graph.FileEffect{
			Path:     path,
			Contents: contents,
			State:    graph.Present,
		})
		targets = append(targets, target.WithInfoPlist(graph.InfoPlist{Kind: graph.InfoPlistFile, Path: path}))
	}

	return project.WithTargets(targets), sideEffects, nil
}

func infoPlistValues(target graph.Target) map[string]string {
	values := map[string]string{
		"CFBundleDevelopmentRegion":     "$(DEVELOPMENT_LANGUAGE)",
		"CFBundleExecutable":            "$(EXECUTABLE_NAME)",
		"CFBundleIdentifier":            target.BundleID,
		"CFBundleInfoDictionaryVersion": "6.0",
		"CFBundleName":                  "$(PRODUCT_NAME)",
		"CFBundlePackageType":           packageType(target.Product),
		"CFBundleShortVersionString":    "1.0",
		"CFBundleVersion":               "1",
	}
	if target.InfoPlist.Kind == graph.InfoPlistGenerated {
		for k, v := range target.InfoPlist.Keys {
			values[k] = v
		}
	}
	return values
}

func packageType(product graph.Product) string {
	switch product {
	case graph.App, graph.WatchApplication:
		return "APPL"
	case graph.Framework, graph.StaticFramework:
		return "FMWK"
	case graph.AppExtension:
		return "XPC!"
	default:
		return "BNDL"
	}
}
