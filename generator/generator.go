// SPDX-License-Identifier: Apache-2.0

package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/projectgen/generator/config"
	"github.com/projectgen/generator/graph"
	"github.com/projectgen/generator/mapper"
	"github.com/projectgen/generator/merger"
)

// Result is a mapped workspace and the side effects needed to write it
type Result struct {
	Graph       graph.Graph
	SideEffects []graph.SideEffect
}

// Generator merges resolved dependencies into a workspace, maps every
// project and performs the resulting side effects
type Generator struct {
	cfg      config.Config
	provider mapper.Provider
	executor *Executor
	metrics  *Metrics
	logger   logrus.FieldLogger
}

// New returns a generator using the provider matching cfg
func New(cfg config.Config) *Generator {
	return NewWithProvider(cfg, ProviderFor(cfg))
}

// NewWithProvider ...
func NewWithProvider(cfg config.Config, provider mapper.Provider) *Generator {
	logger := logrus.StandardLogger()
	return &Generator{
		cfg:      cfg,
		provider: provider,
		executor: NewExecutor(logger),
		metrics:  NewMetrics(),
		logger:   logger,
	}
}

// ProviderFor returns the automation provider when cfg names a temporary
// directory and the default provider otherwise
func ProviderFor(cfg config.Config) mapper.Provider {
	if cfg.TemporaryDirectory != "" {
		return mapper.NewAutomationProvider(cfg.TemporaryDirectory, mapper.DefaultProvider{})
	}
	return mapper.DefaultProvider{}
}

// SetLogger ...
func (g *Generator) SetLogger(logger logrus.FieldLogger) {
	g.logger = logger
	g.executor.logger = logger
}

// SetExecutor ...
func (g *Generator) SetExecutor(executor *Executor) {
	g.executor = executor
}

// Metrics ...
func (g *Generator) Metrics() *Metrics {
	return g.metrics
}

// Map merges the fragments into primary and runs every project, in path
// order, through the mapper pipeline. Nothing is written.
func (g *Generator) Map(primary graph.Graph, fragments ...graph.DependenciesGraph) (Result, error) {
	timer := prometheus.NewTimer(g.metrics.duration)
	defer timer.ObserveDuration()

	merged, err := merger.Merge(primary, fragments...)
	if err != nil {
		g.metrics.failures.WithLabelValues(StageMerge).Inc()
		return Result{}, err
	}

	pipeline := g.provider.Mapper(g.cfg)
	sideEffects := []graph.SideEffect{}
	for _, path := range merged.ProjectPaths() {
		project, effects, err := pipeline.Map(merged.Projects[path])
		if err != nil {
			g.metrics.failures.WithLabelValues(StageMap).Inc()
			return Result{}, fmt.Errorf("mapping project %s: %w", path, err)
		}
		if project.XcodeProjPath == "" {
			project.XcodeProjPath = filepath.Join(project.Path, project.Name+".xcodeproj")
		}
		merged.Projects[path] = project
		sideEffects = append(sideEffects, effects...)
		g.metrics.projects.Inc()
		g.logger.Debugf("Mapped project %s with %d side effects", path, len(effects))
	}

	xcodeProjPaths := make([]string, 0, len(merged.Workspace.Projects))
	for _, path := range merged.Workspace.Projects {
		if project, ok := merged.Projects[path]; ok {
			xcodeProjPaths = append(xcodeProjPaths, project.XcodeProjPath)
		}
	}
	merged.Workspace = merged.Workspace.WithXcodeProjPaths(xcodeProjPaths)

	g.metrics.observeSideEffects(sideEffects)
	return Result{Graph: merged, SideEffects: sideEffects}, nil
}

// Generate maps the workspace and performs its side effects. Metrics are
// written to the configured file whether or not generation succeeds.
func (g *Generator) Generate(primary graph.Graph, fragments ...graph.DependenciesGraph) (res Result, err error) {
	defer func() {
		if g.cfg.MetricsFile == "" {
			return
		}
		if werr := g.metrics.WriteToTextfile(g.cfg.MetricsFile); werr != nil {
			g.logger.Warnf("Unable to write metrics: %v", werr)
		}
	}()

	res, err = g.Map(primary, fragments...)
	if err != nil {
		return Result{}, err
	}
	if err := g.executor.Execute(res.SideEffects); err != nil {
		g.metrics.failures.WithLabelValues(StageExecute).Inc()
		return Result{}, err
	}
	g.logger.Infof("Generated %d projects for workspace %s", len(res.Graph.Projects), res.Graph.Workspace.Name)
	return res, nil
}

// LoadGraph reads a workspace graph from a JSON file
func LoadGraph(path string) (graph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return graph.Graph{}, fmt.Errorf("reading graph %s: %w", path, err)
	}
	var g graph.Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return graph.Graph{}, fmt.Errorf("decoding graph %s: %w", path, err)
	}
	if g.Projects == nil {
		g.Projects = map[string]graph.Project{}
	}
	return g, nil
}
