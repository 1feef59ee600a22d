// SPDX-License-Identifier: Apache-2.0

package mapper

import (
	"github.com/projectgen/generator/config"
)

// Provider builds the mapper pipeline for a configuration
type Provider interface {
	Mapper(cfg config.Config) ProjectMapper
}

// DefaultProvider builds the pipeline of a regular generation
type DefaultProvider struct{}

// Mapper ...
func (DefaultProvider) Mapper(cfg config.Config) ProjectMapper {
	mappers := []ProjectMapper{
		DeleteDerivedDirectoryMapper{},
		GenerateInfoPlistMapper{},
	}
	if !cfg.Contains(config.DisableAutogeneratedSchemes) {
		mappers = append(mappers, AutogeneratedSchemesMapper{
			EnableCodeCoverage: cfg.Contains(config.EnableCodeCoverage),
		})
	}
	return NewSequential(mappers...)
}

// AutomationProvider builds the pipeline of automation runs: the native
// projects are relocated first, then Provider's mappers run, and schemes are
// regenerated last when the configuration disables autogenerated schemes
type AutomationProvider struct {
	TemporaryDirectory string
	Provider           Provider
}

// NewAutomationProvider ...
func NewAutomationProvider(temporaryDirectory string, provider Provider) *AutomationProvider {
	if provider == nil {
		provider = DefaultProvider{}
	}
	return &AutomationProvider{TemporaryDirectory: temporaryDirectory, Provider: provider}
}

// Mapper ...
func (p *AutomationProvider) Mapper(cfg config.Config) ProjectMapper {
	mappers := []ProjectMapper{
		AutomationPathMapper{TemporaryDirectory: p.TemporaryDirectory},
		p.Provider.Mapper(cfg),
	}
	if cfg.Contains(config.DisableAutogeneratedSchemes) {
		mappers = append(mappers, AutogeneratedSchemesMapper{
			EnableCodeCoverage: cfg.Contains(config.EnableCodeCoverage),
		})
	}
	return NewSequential(mappers...)
}
