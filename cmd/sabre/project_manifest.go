package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const noSabreTomlMessage = "no sabre.toml found\nplease specify the package directory explicitly, e.g.:\n  sabre check path/to/package"

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Package packageConfig `toml:"package"`
	Check   checkConfig   `toml:"check"`
}

type packageConfig struct {
	Name string `toml:"name"`
	Main string `toml:"main"`
}

type checkConfig struct {
	Output string `toml:"output"`
}

func findSabreToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "sabre.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findSabreToml(startDir)
	if err != nil || !ok {
		return nil, false, err
	}
	var config projectConfig
	if _, err := toml.DecodeFile(manifestPath, &config); err != nil {
		return nil, false, fmt.Errorf("failed to parse %q: %w", manifestPath, err)
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: config,
	}, true, nil
}

// resolvePackageDir picks the package directory for a command: the explicit
// argument wins; otherwise the sabre.toml manifest decides, using its main
// entry if set and its own directory if not. Without an argument and without
// a manifest it returns an error.
func resolvePackageDir(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	manifest, ok, err := loadProjectManifest(".")
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.New(noSabreTomlMessage)
	}
	if manifest.Config.Package.Main != "" {
		return filepath.Join(manifest.Root, manifest.Config.Package.Main), nil
	}
	return manifest.Root, nil
}
