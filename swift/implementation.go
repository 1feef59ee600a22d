// SPDX-License-Identifier: Apache-2.0

package swift

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"

	"github.com/projectgen/generator/internal/helper"
)

const (
	Cmd        = "swift"
	VersionArg = "--version"
)

// Implementation wraps the toolchain and repository access of the plugin
type Implementation interface {
	Version() (string, error)
	ShowDependencies(path string) (PackageDependency, error)
	DumpPackage(path string) (PackageInfo, error)
	Revision(path string) (string, error)
}

type defaultImplementation struct{}

func (d *defaultImplementation) Version() (string, error) {
	if !helper.Available(Cmd) {
		return "", errToolchainNotFound
	}
	return helper.NewCmd(helper.CmdOptions{Name: Cmd, Args: []string{VersionArg}}).Output()
}

func (d *defaultImplementation) ShowDependencies(path string) (PackageDependency, error) {
	output, err := helper.NewCmd(helper.CmdOptions{
		Name:      Cmd,
		Args:      []string{"package", "show-dependencies", "--disable-automatic-resolution", "--format", "json"},
		Directory: path,
	}).Output()
	if err != nil {
		return PackageDependency{}, err
	}

	var root PackageDependency
	if err := json.NewDecoder(strings.NewReader(output)).Decode(&root); err != nil {
		return PackageDependency{}, fmt.Errorf("decoding dependencies of %s: %w", path, err)
	}
	return root, nil
}

func (d *defaultImplementation) DumpPackage(path string) (PackageInfo, error) {
	output, err := helper.NewCmd(helper.CmdOptions{
		Name:      Cmd,
		Args:      []string{"package", "dump-package"},
		Directory: path,
	}).Output()
	if err != nil {
		return PackageInfo{}, err
	}

	var info PackageInfo
	if err := json.NewDecoder(strings.NewReader(output)).Decode(&info); err != nil {
		return PackageInfo{}, fmt.Errorf("decoding package description of %s: %w", path, err)
	}
	return info, nil
}

// Revision returns the HEAD commit of the checkout at path
func (d *defaultImplementation) Revision(path string) (string, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return "", fmt.Errorf("opening repository %s: %w", path, err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("reading HEAD of %s: %w", path, err)
	}
	return head.Hash().String(), nil
}
