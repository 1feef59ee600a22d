// SPDX-License-Identifier: Apache-2.0

package swift_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/projectgen/generator/graph"
	"github.com/projectgen/generator/merger"
	"github.com/projectgen/generator/swift"
)

const spmFolder = "/spm"

func loadInfo(t *testing.T, name string) swift.PackageInfo {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("test_data", name+".json"))
	require.NoError(t, err)
	var info swift.PackageInfo
	require.NoError(t, json.Unmarshal(data, &info))
	return info
}

func checkout(name string) string {
	return spmFolder + "/checkouts/" + name
}

func newConverter(opts swift.Options) *swift.Converter {
	if opts.ArtifactsDirectory == "" {
		opts.ArtifactsDirectory = spmFolder + "/artifacts"
	}
	logger, _ := test.NewNullLogger()
	return swift.NewConverter(opts, logger)
}

func iOSTarget(version string) *graph.DeploymentTarget {
	return &graph.DeploymentTarget{
		Platform: graph.IOS,
		Version:  version,
		Devices:  []graph.Device{graph.IPhone, graph.IPad, graph.Mac},
	}
}

func TestFragmentAlamofire(t *testing.T) {
	root := checkout("Alamofire")
	fragment, err := newConverter(swift.Options{}).Fragment(loadInfo(t, "alamofire"), root, swift.ProductIndex{})
	require.NoError(t, err)
	require.NoError(t, fragment.Validate())

	require.Equal(t, graph.Dependencies{graph.ProjectDependency{Target: "Alamofire", Path: root}}, fragment.ExternalDependencies["Alamofire"])

	project, ok := fragment.ExternalProjects[root]
	require.True(t, ok)
	require.Equal(t, "Alamofire", project.Name)
	require.Len(t, project.Targets, 1)

	target := project.Targets[0]
	require.Equal(t, "Alamofire", target.Name)
	require.Equal(t, graph.IOS, target.Platform)
	require.Equal(t, graph.StaticFramework, target.Product)
	require.Equal(t, "Alamofire", target.BundleID)
	require.Equal(t, iOSTarget("10.0"), target.DeploymentTarget)
	require.Equal(t, graph.DefaultInfoPlist, target.InfoPlist)
	require.Equal(t, []string{root + "/Source/**"}, target.Sources)
	require.Equal(t, graph.Dependencies{graph.SDKDependency{Name: "CFNetwork.framework", Status: graph.SDKRequired}}, target.Dependencies)
	require.True(t, graph.PackageSettings(nil).Equal(*target.Settings))
}

func TestFragmentBinaryTargetsAndProducts(t *testing.T) {
	converter := newConverter(swift.Options{})
	index := converter.Index([]swift.ResolvedPackage{
		{Root: checkout("GoogleUtilities"), Info: loadInfo(t, "google_utilities")},
		{Root: checkout("nanopb"), Info: loadInfo(t, "nanopb")},
	})

	root := checkout("GoogleAppMeasurement")
	fragment, err := converter.Fragment(loadInfo(t, "google_app_measurement"), root, index)
	require.NoError(t, err)
	require.NoError(t, fragment.Validate())
	require.Equal(t, 3, fragment.Size())

	require.Equal(t, graph.Dependencies{
		graph.ProjectDependency{Target: "GoogleAppMeasurementTarget", Path: root},
	}, fragment.ExternalDependencies["GoogleAppMeasurement"])

	project := fragment.ExternalProjects[root]
	require.Len(t, project.Targets, 2)

	utilities := checkout("GoogleUtilities")
	require.Equal(t, graph.Dependencies{
		graph.XCFrameworkDependency{Path: "/spm/artifacts/GoogleAppMeasurement/GoogleAppMeasurement.xcframework"},
		graph.ProjectDependency{Target: "GULAppDelegateSwizzler", Path: utilities},
		graph.ProjectDependency{Target: "GULMethodSwizzler", Path: utilities},
		graph.ProjectDependency{Target: "GULNSData", Path: utilities},
		graph.ProjectDependency{Target: "GULNetwork", Path: utilities},
		graph.ProjectDependency{Target: "nanopb", Path: checkout("nanopb")},
		graph.SDKDependency{Name: "sqlite3.tbd", Status: graph.SDKRequired},
		graph.SDKDependency{Name: "c++.tbd", Status: graph.SDKRequired},
		graph.SDKDependency{Name: "z.tbd", Status: graph.SDKRequired},
		graph.SDKDependency{Name: "StoreKit.framework", Status: graph.SDKRequired},
	}, project.Targets[0].Dependencies)
	require.Equal(t, []string{root + "/GoogleAppMeasurementWrapper/**"}, project.Targets[0].Sources)

	// platform conditions for other platforms are ignored
	require.Equal(t, graph.Dependencies{
		graph.XCFrameworkDependency{Path: "/spm/artifacts/GoogleAppMeasurement/GoogleAppMeasurementWithoutAdIdSupport.xcframework"},
		graph.ProjectDependency{Target: "GULAppDelegateSwizzler", Path: utilities},
		graph.ProjectDependency{Target: "nanopb", Path: checkout("nanopb")},
		graph.SDKDependency{Name: "z.tbd", Status: graph.SDKRequired},
	}, project.Targets[1].Dependencies)
}

func TestFragmentSettingsAndLayout(t *testing.T) {
	index := swift.ProductIndex{
		"ALibrary": graph.Dependencies{
			graph.ProjectDependency{Target: "ALibrary", Path: "../a-dependency"},
			graph.ProjectDependency{Target: "ALibraryUtils", Path: "../a-dependency"},
		},
		"AnotherLibrary": graph.Dependencies{
			graph.ProjectDependency{Target: "AnotherLibrary", Path: "../another-dependency"},
		},
	}
	root := checkout("tuist")
	fragment, err := newConverter(swift.Options{}).Fragment(loadInfo(t, "tuist"), root, index)
	require.NoError(t, err)

	project := fragment.ExternalProjects[root]
	require.Equal(t, "test", project.Name)
	require.Len(t, project.Targets, 2, "plugin targets are skipped")

	tuist := project.Targets[0]
	require.Equal(t, iOSTarget("13.0"), tuist.DeploymentTarget)
	require.Equal(t, []string{root + "/customPath/customSources/**"}, tuist.Sources)
	require.Equal(t, []string{root + "/customPath/resources/**"}, tuist.Resources)
	require.Equal(t, &graph.Headers{Public: []string{root + "/customPath/include/**/*.h"}}, tuist.Headers)
	require.Equal(t, graph.Dependencies{
		graph.TargetDependency{Name: "TuistKit"},
		graph.ProjectDependency{Target: "ALibrary", Path: "../a-dependency"},
		graph.ProjectDependency{Target: "ALibraryUtils", Path: "../a-dependency"},
	}, tuist.Dependencies)

	base := tuist.Settings.Base
	require.Equal(t, []string{"cSearchPath", "cxxSearchPath"}, base[graph.HeaderSearchPaths].Values())
	require.Equal(t, []string{"CUSTOM_C_FLAG"}, base[graph.OtherCFlags].Values())
	require.Equal(t, []string{"CUSTOM_CXX_FLAG"}, base[graph.OtherCPlusPlusFlags].Values())
	require.Equal(t, []string{"CUSTOM_SWIFT_FLAG1", "CUSTOM_SWIFT_FLAG2"}, base[graph.OtherSwiftFlags].Values())
	require.Equal(t, []string{"CXX_DEFINE=CXX_VALUE", "C_DEFINE=C_VALUE", "SWIFT_PACKAGE=1"}, base[graph.PreprocessorDefinitions].Values())
	require.Equal(t, []string{"SWIFT_PACKAGE", "SWIFT_DEFINE"}, base[graph.SwiftActiveCompilationConditions].Values())
	require.Equal(t, "$(PLATFORM_DIR)/Developer/Library/Frameworks", base[graph.FrameworkSearchPaths].String())

	kit := project.Targets[1]
	require.Equal(t, []string{root + "/Sources/TuistKit/**"}, kit.Sources)
	require.Equal(t, graph.Dependencies{
		graph.ProjectDependency{Target: "AnotherLibrary", Path: "../another-dependency"},
	}, kit.Dependencies)
}

func TestFragmentOptions(t *testing.T) {
	for _, tc := range []struct {
		name            string
		opts            swift.Options
		expectedVersion string
		expectedProduct graph.Product
	}{
		{
			name:            "declared version wins over lower minimum",
			opts:            swift.Options{DeploymentTargets: map[graph.Platform]string{graph.IOS: "9.0"}},
			expectedVersion: "10.0",
			expectedProduct: graph.StaticFramework,
		},
		{
			name:            "configured minimum wins over lower declared version",
			opts:            swift.Options{DeploymentTargets: map[graph.Platform]string{graph.IOS: "13.0"}},
			expectedVersion: "13.0",
			expectedProduct: graph.StaticFramework,
		},
		{
			name:            "custom product type",
			opts:            swift.Options{ProductTypes: map[string]graph.Product{"GULNetwork": graph.Framework}},
			expectedVersion: "10.0",
			expectedProduct: graph.Framework,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			root := checkout("GoogleUtilities")
			fragment, err := newConverter(tc.opts).Fragment(loadInfo(t, "google_utilities"), root, swift.ProductIndex{})
			require.NoError(t, err)
			project := fragment.ExternalProjects[root]
			network, ok := project.Target("GULNetwork")
			require.True(t, ok)
			require.Equal(t, tc.expectedVersion, network.DeploymentTarget.Version)
			require.Equal(t, tc.expectedProduct, network.Product)

			other, ok := project.Target("GULNSData")
			require.True(t, ok)
			require.Equal(t, graph.StaticFramework, other.Product)
		})
	}
}

func TestFragmentMacOSHasNoDevices(t *testing.T) {
	root := checkout("Alamofire")
	fragment, err := newConverter(swift.Options{Platform: graph.MacOS}).Fragment(loadInfo(t, "alamofire"), root, swift.ProductIndex{})
	require.NoError(t, err)
	target := fragment.ExternalProjects[root].Targets[0]
	require.Equal(t, &graph.DeploymentTarget{Platform: graph.MacOS, Version: "10.12"}, target.DeploymentTarget)
}

func TestFragmentUnknownProduct(t *testing.T) {
	_, err := newConverter(swift.Options{}).Fragment(loadInfo(t, "google_app_measurement"), checkout("GoogleAppMeasurement"), swift.ProductIndex{})
	var unknown *swift.UnknownProductError
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, "GULAppDelegateSwizzler", unknown.Product)
	require.Equal(t, "GoogleAppMeasurementTarget", unknown.Target)
}

func TestFragmentBundleIDIsSanitised(t *testing.T) {
	info := swift.PackageInfo{
		Name:     "weird",
		Products: []swift.Product{{Name: "my_lib", Targets: []string{"my_lib"}}},
		Targets:  []swift.Target{{Name: "my_lib", Type: swift.TargetTypeRegular}},
	}
	fragment, err := newConverter(swift.Options{}).Fragment(info, "/weird", swift.ProductIndex{})
	require.NoError(t, err)
	target := fragment.ExternalProjects["/weird"].Targets[0]
	require.Equal(t, "my-lib", target.BundleID)
	require.Nil(t, target.DeploymentTarget)
}

func TestFragmentWarnsOnUnsupportedSetting(t *testing.T) {
	logger, hook := test.NewNullLogger()
	info := swift.PackageInfo{
		Name:     "Lib",
		Products: []swift.Product{{Name: "Lib", Targets: []string{"Lib"}}},
		Targets: []swift.Target{{
			Name: "Lib",
			Type: swift.TargetTypeRegular,
			Settings: []swift.TargetSetting{
				{Tool: swift.ToolSwift, Name: "enableUpcomingFeature", Value: []string{"BareSlashRegexLiterals"}},
			},
		}},
	}
	_, err := swift.NewConverter(swift.Options{}, logger).Fragment(info, "/lib", swift.ProductIndex{})
	require.NoError(t, err)
	require.Len(t, hook.Entries, 1)
	require.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func sqlitePackage() swift.PackageInfo {
	return swift.PackageInfo{
		Name: "SQLite.swift",
		Products: []swift.Product{
			{Name: "SQLite", Targets: []string{"SQLite", "CSQLite"}},
			{Name: "CSQLite", Targets: []string{"CSQLite"}},
		},
		Targets: []swift.Target{
			{
				Name: "SQLite",
				Type: swift.TargetTypeRegular,
				Dependencies: []swift.TargetDependency{
					{Kind: swift.DependencyTarget, Name: "CSQLite"},
				},
			},
			{Name: "CSQLite", Type: swift.TargetTypeSystem, Path: "Sources/CSQLite"},
		},
	}
}

func TestFragmentSkipsSystemTargets(t *testing.T) {
	root := checkout("SQLite.swift")
	converter := newConverter(swift.Options{})
	index := converter.Index([]swift.ResolvedPackage{{Root: root, Info: sqlitePackage()}})
	require.Equal(t, graph.Dependencies{}, index["CSQLite"])

	fragment, err := converter.Fragment(sqlitePackage(), root, index)
	require.NoError(t, err)
	require.NoError(t, fragment.Validate())

	require.Equal(t, []string{"SQLite"}, fragment.Names(), "products without buildable targets are omitted")
	require.Equal(t, graph.Dependencies{graph.ProjectDependency{Target: "SQLite", Path: root}}, fragment.ExternalDependencies["SQLite"])

	project := fragment.ExternalProjects[root]
	require.Len(t, project.Targets, 1)
	require.Empty(t, project.Targets[0].Dependencies)

	primary := graph.Graph{
		Workspace: graph.Workspace{Name: "App", Path: "/app", Projects: []string{"/app"}},
		Projects: map[string]graph.Project{
			"/app": {
				Name: "App",
				Path: "/app",
				Targets: []graph.Target{{
					Name: "App", Platform: graph.IOS, Product: graph.App, BundleID: "io.app",
					Dependencies: graph.Dependencies{graph.ExternalDependency{Name: "SQLite"}},
				}},
			},
		},
	}
	merged, err := merger.Merge(primary, fragment)
	require.NoError(t, err)
	app, _ := merged.Projects["/app"].Target("App")
	require.Equal(t, graph.Dependencies{graph.ProjectDependency{Target: "SQLite", Path: root}}, app.Dependencies)
}

func TestFragmentArtifactsFollowCheckoutName(t *testing.T) {
	info := swift.PackageInfo{
		Name:     "GoogleAppMeasurement",
		Products: []swift.Product{{Name: "GoogleAppMeasurement", Targets: []string{"GoogleAppMeasurement"}}},
		Targets: []swift.Target{{
			Name: "GoogleAppMeasurement",
			Type: swift.TargetTypeBinary,
			URL:  "https://dl.google.com/firebase/ios/swiftpm/8.3.0/GoogleAppMeasurement.zip",
		}},
	}
	fragment, err := newConverter(swift.Options{}).Fragment(info, checkout("googleappmeasurement"), swift.ProductIndex{})
	require.NoError(t, err)
	require.Equal(t, graph.Dependencies{
		graph.XCFrameworkDependency{Path: spmFolder + "/artifacts/googleappmeasurement/GoogleAppMeasurement.xcframework"},
	}, fragment.ExternalDependencies["GoogleAppMeasurement"])
}

func TestIndexKeepsFirstVendorOfProduct(t *testing.T) {
	logger, hook := test.NewNullLogger()
	vendor := func(pkg string) swift.PackageInfo {
		return swift.PackageInfo{
			Name:     pkg,
			Products: []swift.Product{{Name: "Logging", Targets: []string{pkg}}},
			Targets:  []swift.Target{{Name: pkg, Type: swift.TargetTypeRegular}},
		}
	}

	index := swift.NewConverter(swift.Options{}, logger).Index([]swift.ResolvedPackage{
		{Root: checkout("apple-logging"), Info: vendor("AppleLogging")},
		{Root: checkout("other-logging"), Info: vendor("OtherLogging")},
	})
	require.Equal(t, graph.Dependencies{
		graph.ProjectDependency{Target: "AppleLogging", Path: checkout("apple-logging")},
	}, index["Logging"])
	require.Len(t, hook.Entries, 1)
	require.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	require.Contains(t, hook.LastEntry().Message, checkout("other-logging"))
}

func TestTargetDependencyUnmarshal(t *testing.T) {
	for _, tc := range []struct {
		input     string
		expected  swift.TargetDependency
		shouldErr bool
	}{
		{`{"byName": ["A", null]}`, swift.TargetDependency{Kind: swift.DependencyByName, Name: "A"}, false},
		{`{"target": ["B", null]}`, swift.TargetDependency{Kind: swift.DependencyTarget, Name: "B"}, false},
		{`{"product": ["C", "pkg", null]}`, swift.TargetDependency{Kind: swift.DependencyProduct, Name: "C", Package: "pkg"}, false},
		{`{"product": ["C", null, null]}`, swift.TargetDependency{Kind: swift.DependencyProduct, Name: "C"}, false},
		{`{"unknown": ["D"]}`, swift.TargetDependency{}, true},
		{`{"target": []}`, swift.TargetDependency{}, true},
		{`{}`, swift.TargetDependency{}, true},
	} {
		var dep swift.TargetDependency
		err := json.Unmarshal([]byte(tc.input), &dep)
		if tc.shouldErr {
			require.Error(t, err, tc.input)
			continue
		}
		require.NoError(t, err, tc.input)
		require.Equal(t, tc.expected, dep)
	}
}
