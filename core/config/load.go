package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// ErrExists is returned by Initialize if a configuration is already present.
var ErrExists = errors.New("configuration already exists")

// resolve returns the path to the config.yaml file given either a directory
// or a path to the file itself.
func resolve(path string) string {
	if filepath.Base(path) == ConfigurationName {
		return path
	}
	return filepath.Join(path, ConfigurationName)
}

// Load loads the configuration from the directory. Values missing from the
// file keep their defaults.
func Load(fsys afero.Fs, path string) (*Configuration, error) {
	configContents, err := afero.ReadFile(fsys, resolve(path))
	if err != nil {
		return nil, err
	}

	out := defaultConfig()
	if err := yaml.UnmarshalStrict(configContents, out); err != nil {
		return nil, fmt.Errorf("%s: %w", resolve(path), err)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", resolve(path), err)
	}
	return out, nil
}

// LoadOrDefault is like Load but returns the default configuration if no
// file is present.
func LoadOrDefault(fsys afero.Fs, path string) (*Configuration, error) {
	cfg, err := Load(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return defaultConfig(), nil
	}
	return cfg, err
}

// Initialize writes the default configuration into the directory and returns
// the path of the written file.
func Initialize(fsys afero.Fs, dir string) (string, error) {
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	path := resolve(dir)
	switch _, err := fsys.Stat(path); {
	case err == nil:
		return "", fmt.Errorf("%s: %w", path, ErrExists)
	case !errors.Is(err, os.ErrNotExist):
		return "", err
	}

	if err := afero.WriteFile(fsys, path, defaultConfigData, 0644); err != nil {
		return "", err
	}
	return path, nil
}
