// SPDX-License-Identifier: Apache-2.0

package swiftfakes

import (
	"sync"

	"github.com/projectgen/generator/swift"
)

// FakeImplementation is a configurable swift.Implementation
type FakeImplementation struct {
	mu sync.Mutex

	versionResult string
	versionErr    error

	showDependenciesResult swift.PackageDependency
	showDependenciesErr    error

	dumpPackageResults map[string]swift.PackageInfo
	dumpPackageErr     error
	dumpPackageCalls   []string

	revisionResults map[string]string
	revisionErr     error
}

var _ swift.Implementation = &FakeImplementation{}

func (f *FakeImplementation) VersionReturns(version string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.versionResult, f.versionErr = version, err
}

func (f *FakeImplementation) ShowDependenciesReturns(root swift.PackageDependency, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.showDependenciesResult, f.showDependenciesErr = root, err
}

// DumpPackageReturnsFor sets the description returned for the checkout at path
func (f *FakeImplementation) DumpPackageReturnsFor(path string, info swift.PackageInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dumpPackageResults == nil {
		f.dumpPackageResults = map[string]swift.PackageInfo{}
	}
	f.dumpPackageResults[path] = info
}

func (f *FakeImplementation) DumpPackageReturns(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dumpPackageErr = err
}

func (f *FakeImplementation) RevisionReturnsFor(path, revision string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.revisionResults == nil {
		f.revisionResults = map[string]string{}
	}
	f.revisionResults[path] = revision
}

func (f *FakeImplementation) RevisionReturns(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revisionErr = err
}

// DumpPackageCallCount returns how many descriptions were requested
func (f *FakeImplementation) DumpPackageCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.dumpPackageCalls)
}

func (f *FakeImplementation) Version() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.versionResult, f.versionErr
}

func (f *FakeImplementation) ShowDependencies(string) (swift.PackageDependency, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.showDependenciesResult, f.showDependenciesErr
}

func (f *FakeImplementation) DumpPackage(path string) (swift.PackageInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dumpPackageCalls = append(f.dumpPackageCalls, path)
	if f.dumpPackageErr != nil {
		return swift.PackageInfo{}, f.dumpPackageErr
	}
	return f.dumpPackageResults[path], nil
}

func (f *FakeImplementation) Revision(path string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.revisionErr != nil {
		return "", f.revisionErr
	}
	return f.revisionResults[path], nil
}
