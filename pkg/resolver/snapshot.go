// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/projectgen/generator/graph"
)

// SnapshotFile is the name of the persisted resolution
const SnapshotFile = "graph.json"

// Save writes the snapshot of g to path, creating parent directories
func Save(path string, g graph.DependenciesGraph) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating snapshot directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", path, err)
	}
	return nil
}

// Load reads a snapshot written by Save
func Load(path string) (graph.DependenciesGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return graph.DependenciesGraph{}, fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	var g graph.DependenciesGraph
	if err := json.Unmarshal(data, &g); err != nil {
		return graph.DependenciesGraph{}, fmt.Errorf("decoding snapshot %s: %w", path, err)
	}
	return g, nil
}
