// SPDX-License-Identifier: Apache-2.0

package helper

import (
	"errors"
	"io/fs"
	"os"
)

// Exists reports whether a file or directory exists at path
func Exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

// IsDir reports whether path is an existing directory
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
