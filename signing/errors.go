// SPDX-License-Identifier: Apache-2.0

package signing

import (
	"errors"
	"fmt"
)

var errSecurityNotFound = errors.New("security tool not found in PATH, signing can only be installed on macOS")

// InvalidProvisioningProfileError is returned for a profile without a UUID
// or with a structure that cannot be read
type InvalidProvisioningProfileError struct {
	Path string
	Err  error
}

func (e *InvalidProvisioningProfileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provisioning profile at %s is invalid: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("provisioning profile at %s is invalid, check it has the expected structure", e.Path)
}

func (e *InvalidProvisioningProfileError) Unwrap() error {
	return e.Err
}

// NoFileExtensionError is returned for a signing file without an extension
type NoFileExtensionError struct {
	Path string
}

func (e *NoFileExtensionError) Error() string {
	return fmt.Sprintf("unable to parse extension from file at %s", e.Path)
}
