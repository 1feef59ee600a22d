// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/projectgen/generator/graph"
)

var errUnsupportedFormat = errors.New("unsupported configuration format, use .yaml, .yml or .toml")

// GenerationOption is a flag changing how projects are generated
type GenerationOption string

const (
	DisableAutogeneratedSchemes GenerationOption = "disableAutogeneratedSchemes"
	EnableCodeCoverage          GenerationOption = "enableCodeCoverage"
)

var recognizedOptions = map[GenerationOption]struct{}{
	DisableAutogeneratedSchemes: {},
	EnableCodeCoverage:          {},
}

// Config is the generation configuration of a workspace
type Config struct {
	GenerationOptions []GenerationOption        `yaml:"generationOptions" toml:"generationOptions"`
	Platform          graph.Platform            `yaml:"platform" toml:"platform"`
	DeploymentTargets map[graph.Platform]string `yaml:"deploymentTargets" toml:"deploymentTargets"`
	ProductTypes      map[string]graph.Product  `yaml:"productTypes" toml:"productTypes"`
	// DependenciesPath holds the package manager manifests, relative to the config file
	DependenciesPath string `yaml:"dependenciesPath" toml:"dependenciesPath"`
	// TemporaryDirectory receives relocated native projects when set
	TemporaryDirectory string `yaml:"temporaryDirectory" toml:"temporaryDirectory"`
	// MetricsFile receives generation metrics in the text exposition format when set
	MetricsFile string `yaml:"metricsFile" toml:"metricsFile"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		Platform:         graph.IOS,
		DependenciesPath: filepath.Join("Tuist", "Dependencies"),
	}
}

// Contains reports whether the option is set
func (c Config) Contains(option GenerationOption) bool {
	for _, o := range c.GenerationOptions {
		if o == option {
			return true
		}
	}
	return false
}

// Load reads a YAML or TOML configuration file on top of the defaults
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading configuration file %s: %w", path, err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("unmarshaling yaml configuration %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("unmarshaling toml configuration %s: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("%s: %w", path, errUnsupportedFormat)
	}

	if cfg.DependenciesPath != "" && !filepath.IsAbs(cfg.DependenciesPath) {
		cfg.DependenciesPath = filepath.Join(filepath.Dir(path), cfg.DependenciesPath)
	}
	cfg.GenerationOptions = recognized(cfg.GenerationOptions)
	return cfg, nil
}

// Environment variables overriding file values
const (
	EnvGenerationOptions  = "PROJECTGEN_GENERATION_OPTIONS"
	EnvPlatform           = "PROJECTGEN_PLATFORM"
	EnvDependenciesPath   = "PROJECTGEN_DEPENDENCIES_PATH"
	EnvTemporaryDirectory = "PROJECTGEN_TEMPORARY_DIRECTORY"
	EnvMetricsFile        = "PROJECTGEN_METRICS_FILE"
)

// ApplyEnv overrides values with the PROJECTGEN_* variables found by lookup.
// Generation options are a comma separated list replacing the file's list.
func (c Config) ApplyEnv(lookup func(string) (string, bool)) Config {
	if v, ok := lookup(EnvGenerationOptions); ok {
		var options []GenerationOption
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				options = append(options, GenerationOption(o))
			}
		}
		c.GenerationOptions = recognized(options)
	}
	if v, ok := lookup(EnvPlatform); ok && v != "" {
		c.Platform = graph.Platform(v)
	}
	if v, ok := lookup(EnvDependenciesPath); ok && v != "" {
		c.DependenciesPath = v
	}
	if v, ok := lookup(EnvTemporaryDirectory); ok {
		c.TemporaryDirectory = v
	}
	if v, ok := lookup(EnvMetricsFile); ok {
		c.MetricsFile = v
	}
	return c
}

// recognized drops options the generator does not know
func recognized(options []GenerationOption) []GenerationOption {
	out := make([]GenerationOption, 0, len(options))
	for _, o := range options {
		if _, ok := recognizedOptions[o]; !ok {
			log.Debugf("Ignoring unknown generation option %q", o)
			continue
		}
		out = append(out, o)
	}
	return out
}
