// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/projectgen/generator/config"
	"github.com/projectgen/generator/generator"
	"github.com/projectgen/generator/graph"
	"github.com/projectgen/generator/pkg/resolver"
	"github.com/projectgen/generator/signing"
	"github.com/projectgen/generator/swift"
)

type CLI struct {
	Config         string            `short:"c" help:"Configuration file (.yaml, .yml or .toml)" type:"path"`
	Debug          bool              `short:"d" help:"Enable debug logging"`
	Resolve        ResolveCmd        `cmd:"" help:"Resolve external packages and write the dependencies snapshot"`
	Generate       GenerateCmd       `cmd:"" help:"Merge resolved packages into a workspace graph and generate its projects"`
	InstallSigning InstallSigningCmd `cmd:"" help:"Install the provisioning profiles and certificates of a directory"`
}

type ResolveCmd struct {
	Directory string `arg:"" optional:"" help:"Project directory (defaults to current directory)" type:"path"`
}

type GenerateCmd struct {
	Graph     string `arg:"" help:"Workspace graph JSON file" type:"existingfile"`
	Directory string `arg:"" optional:"" help:"Project directory (defaults to current directory)" type:"path"`
	Output    string `short:"o" help:"Write the generated graph to this file" type:"path"`
}

type InstallSigningCmd struct {
	Directory string `arg:"" help:"Directory holding the signing files" type:"existingdir"`
}

func main() {
	// a missing .env is fine
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("projectgen"),
		kong.Description("Generates native projects from a workspace graph and its external packages."),
	)
	if cli.Debug {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := loadConfig(cli.Config)
	if err != nil {
		fail(err)
	}

	switch ctx.Command() {
	case "resolve", "resolve <directory>":
		err = runResolve(cfg, cli.Resolve)
	case "generate <graph>", "generate <graph> <directory>":
		err = runGenerate(cfg, cli.Generate)
	case "install-signing <directory>":
		err = runInstallSigning(cli.InstallSigning)
	default:
		err = fmt.Errorf("unknown command %s", ctx.Command())
	}
	if err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func loadConfig(path string) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, err
		}
	}
	return cfg.ApplyEnv(os.LookupEnv), nil
}

func projectDirectory(dir string) (string, error) {
	if dir == "" {
		var err error
		if dir, err = os.Getwd(); err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
	}
	return filepath.Abs(dir)
}

func dependenciesPath(cfg config.Config, dir string) string {
	if filepath.IsAbs(cfg.DependenciesPath) {
		return cfg.DependenciesPath
	}
	return filepath.Join(dir, cfg.DependenciesPath)
}

func swiftOptions(cfg config.Config) swift.Options {
	return swift.Options{
		Platform:          cfg.Platform,
		DeploymentTargets: cfg.DeploymentTargets,
		ProductTypes:      cfg.ProductTypes,
	}
}

func runResolve(cfg config.Config, cmd ResolveCmd) error {
	dir, err := projectDirectory(cmd.Directory)
	if err != nil {
		return err
	}
	deps := dependenciesPath(cfg, dir)

	res, err := resolver.Resolve(resolver.Config{
		Path:    deps,
		Plugins: resolver.DefaultPlugins(swiftOptions(cfg)),
	})
	if err != nil {
		return err
	}
	snapshot := filepath.Join(deps, resolver.SnapshotFile)
	if err := resolver.Save(snapshot, res); err != nil {
		return err
	}
	log.Infof("Dependencies snapshot written to %s", snapshot)
	return nil
}

func runGenerate(cfg config.Config, cmd GenerateCmd) error {
	dir, err := projectDirectory(cmd.Directory)
	if err != nil {
		return err
	}
	primary, err := generator.LoadGraph(cmd.Graph)
	if err != nil {
		return err
	}

	var fragments []graph.DependenciesGraph
	snapshot := filepath.Join(dependenciesPath(cfg, dir), resolver.SnapshotFile)
	if _, statErr := os.Stat(snapshot); statErr == nil {
		fragment, err := resolver.Load(snapshot)
		if err != nil {
			return err
		}
		fragments = append(fragments, fragment)
	} else {
		log.Debugf("No dependencies snapshot at %s", snapshot)
	}

	res, err := generator.New(cfg).Generate(primary, fragments...)
	if err != nil {
		return err
	}
	if cmd.Output == "" {
		return nil
	}
	return writeGraph(cmd.Output, res.Graph)
}

func runInstallSigning(cmd InstallSigningCmd) error {
	installer, err := signing.New()
	if err != nil {
		return err
	}
	return installer.InstallSigning(cmd.Directory)
}
