// SPDX-License-Identifier: Apache-2.0

package swift

import (
	"errors"
	"fmt"
)

var (
	errDependenciesNotFound = errors.New("no package checkouts found, resolve them first, e.g.: `swift package resolve`")
	errNoManifest           = errors.New("no Package.swift found in the dependencies directory")
	errToolchainNotFound    = errors.New("swift toolchain not found in PATH")
)

// UnknownProductError is returned when a target depends on a product no
// resolved package vends
type UnknownProductError struct {
	Package string
	Target  string
	Product string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("target %s of package %s depends on unknown product %s", e.Target, e.Package, e.Product)
}

// UnknownTargetError is returned when a target depends on a target its
// package does not declare
type UnknownTargetError struct {
	Package    string
	Target     string
	Dependency string
}

func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("target %s of package %s depends on unknown target %s", e.Target, e.Package, e.Dependency)
}
