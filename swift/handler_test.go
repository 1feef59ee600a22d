// SPDX-License-Identifier: Apache-2.0

package swift_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/projectgen/generator/swift"
	"github.com/projectgen/generator/swift/swiftfakes"
)

func prepareFake(t *testing.T) *swiftfakes.FakeImplementation {
	fake := &swiftfakes.FakeImplementation{}
	fake.ShowDependenciesReturns(swift.PackageDependency{
		Name: "root",
		Path: "/work",
		Dependencies: []swift.PackageDependency{
			{
				Name:    "GoogleAppMeasurement",
				Version: "8.3.0",
				Path:    checkout("GoogleAppMeasurement"),
				Dependencies: []swift.PackageDependency{
					{Name: "GoogleUtilities", Version: "7.5.0", Path: checkout("GoogleUtilities")},
					{Name: "nanopb", Version: "2.30908.0", Path: checkout("nanopb")},
				},
			},
			{Name: "Alamofire", Version: "main", Path: checkout("Alamofire")},
			{Name: "nanopb", Version: "2.30908.0", Path: checkout("nanopb")},
		},
	}, nil)
	fake.DumpPackageReturnsFor(checkout("GoogleAppMeasurement"), loadInfo(t, "google_app_measurement"))
	fake.DumpPackageReturnsFor(checkout("GoogleUtilities"), loadInfo(t, "google_utilities"))
	fake.DumpPackageReturnsFor(checkout("nanopb"), loadInfo(t, "nanopb"))
	fake.DumpPackageReturnsFor(checkout("Alamofire"), loadInfo(t, "alamofire"))
	fake.RevisionReturnsFor(checkout("Alamofire"), "4f0ad0ddc1b4b4e2b0d5f6ed5f0c3d3d7c5e2a11")
	return fake
}

func newSwift(fake swift.Implementation) *swift.Swift {
	sut := swift.New(swift.Options{ArtifactsDirectory: spmFolder + "/artifacts"})
	sut.SetImplementation(fake)
	logger, _ := test.NewNullLogger()
	sut.SetLogger(logger)
	return sut
}

func TestResolve(t *testing.T) {
	fake := prepareFake(t)
	sut := newSwift(fake)

	res, err := sut.Resolve("/work")
	require.NoError(t, err)
	require.NoError(t, res.Validate())

	// 1 + 2 + 4 + 1 products, 4 projects
	require.Equal(t, 12, res.Size())
	require.Equal(t, []string{
		checkout("Alamofire"),
		checkout("GoogleAppMeasurement"),
		checkout("GoogleUtilities"),
		checkout("nanopb"),
	}, res.ProjectPaths())
	require.Equal(t, 4, fake.DumpPackageCallCount(), "every checkout is described once")
}

func TestResolveUsesCache(t *testing.T) {
	fake := prepareFake(t)
	sut := newSwift(fake)

	first, err := sut.Resolve("/work")
	require.NoError(t, err)
	second, err := sut.Resolve("/work")
	require.NoError(t, err)

	fp1, err := first.Fingerprint()
	require.NoError(t, err)
	fp2, err := second.Fingerprint()
	require.NoError(t, err)
	require.Equal(t, fp1, fp2)
	require.Equal(t, 4, fake.DumpPackageCallCount())
}

func TestResolveWithoutRevisionIsNotCached(t *testing.T) {
	fake := prepareFake(t)
	fake.RevisionReturns(errors.New("not a git repository"))
	sut := newSwift(fake)

	_, err := sut.Resolve("/work")
	require.NoError(t, err)
	_, err = sut.Resolve("/work")
	require.NoError(t, err)

	// Alamofire is pinned to a branch without a readable revision
	require.Equal(t, 5, fake.DumpPackageCallCount())
}

func TestResolveErrors(t *testing.T) {
	synthetic := errors.New("synthetic error")
	for _, tc := range []struct {
		name    string
		prepare func(*swiftfakes.FakeImplementation)
	}{
		{
			name: "show-dependencies fails",
			prepare: func(f *swiftfakes.FakeImplementation) {
				f.ShowDependenciesReturns(swift.PackageDependency{}, synthetic)
			},
		},
		{
			name: "dump-package fails",
			prepare: func(f *swiftfakes.FakeImplementation) {
				f.DumpPackageReturns(synthetic)
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			fake := prepareFake(t)
			tc.prepare(fake)
			_, err := newSwift(fake).Resolve("/work")
			require.Error(t, err)
			require.True(t, errors.Is(err, synthetic))
		})
	}
}

func TestResolveMissingProduct(t *testing.T) {
	fake := &swiftfakes.FakeImplementation{}
	fake.ShowDependenciesReturns(swift.PackageDependency{
		Dependencies: []swift.PackageDependency{
			{Name: "GoogleAppMeasurement", Version: "8.3.0", Path: checkout("GoogleAppMeasurement")},
		},
	}, nil)
	fake.DumpPackageReturnsFor(checkout("GoogleAppMeasurement"), loadInfo(t, "google_app_measurement"))

	_, err := newSwift(fake).Resolve("/work")
	var unknown *swift.UnknownProductError
	require.True(t, errors.As(err, &unknown))
}

func TestIsValidAndInstalled(t *testing.T) {
	dir := t.TempDir()
	sut := newSwift(&swiftfakes.FakeImplementation{})

	require.False(t, sut.IsValid(dir))
	require.Error(t, sut.HasModulesInstalled(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, swift.ManifestFile), []byte("// swift-tools-version:5.5\n"), 0o600))
	require.True(t, sut.IsValid(dir))
	require.Error(t, sut.HasModulesInstalled(dir))

	require.NoError(t, os.MkdirAll(filepath.Join(dir, swift.BuildDirectory, swift.CheckoutsDirectory), 0o755))
	require.NoError(t, sut.HasModulesInstalled(dir))
}

func TestGetVersion(t *testing.T) {
	fake := &swiftfakes.FakeImplementation{}
	fake.VersionReturns("Swift version 5.9", nil)
	version, err := newSwift(fake).GetVersion()
	require.NoError(t, err)
	require.Equal(t, "Swift version 5.9", version)
	require.Equal(t, "swift", newSwift(fake).GetMetadata().Slug)
}
