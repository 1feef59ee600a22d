// SPDX-License-Identifier: Apache-2.0

package signing

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// DirectoryLocator returns the regular files of a directory, sorted by name
type DirectoryLocator struct{}

// LocateSigningFiles ...
func (DirectoryLocator) LocateSigningFiles(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading signing directory %s: %w", path, err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			files = append(files, filepath.Join(path, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
