// Package config loads .roswtf.yaml configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/hersh/ros-comm/internal/pipdeb"
	"github.com/hersh/ros-comm/internal/pyenv"
	"github.com/hersh/ros-comm/internal/validation"
)

// FileName is the configuration file roswtf looks for.
const FileName = ".roswtf.yaml"

// maxSearchDepth bounds the upward walk when looking for FileName.
const maxSearchDepth = 10

// PackageEntry is one registry row in the configuration file.
type PackageEntry struct {
	Package string `mapstructure:"package"`
	Deb     string `mapstructure:"deb"`
}

// Config holds the settings the installation auditor honors.
type Config struct {
	// Interpreter is the Python executable used to probe imports.
	Interpreter string `mapstructure:"interpreter"`
	// Packages overrides the audited package registry. Empty means the
	// built-in core ROS registry.
	Packages []PackageEntry `mapstructure:"packages"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{Interpreter: pyenv.DefaultInterpreter}
}

// Registry converts the configured packages into an ordered audit
// registry, falling back to the built-in one.
func (c *Config) Registry() pipdeb.Registry {
	if len(c.Packages) == 0 {
		return pipdeb.DefaultRegistry()
	}
	reg := make(pipdeb.Registry, 0, len(c.Packages))
	for _, p := range c.Packages {
		reg = append(reg, pipdeb.Package{Name: p.Package, Deb: p.Deb})
	}
	return reg
}

// Load finds FileName by walking up from startDir and merges it onto
// defaults. A missing file yields the defaults.
func Load(startDir string) (*Config, error) {
	data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}
	return parse(data)
}

// LoadFile reads the configuration at an explicit path. Unlike Load,
// a missing file is an error here: the caller asked for it by name.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return parse(data)
}

func parse(data []byte) (*Config, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}

	cfg := New()
	if doc == nil {
		return cfg, nil
	}
	if errs := validation.ValidateConfig(doc); len(errs) > 0 {
		return nil, fmt.Errorf("invalid %s: %s", FileName, strings.Join(errs, "; "))
	}

	var fileCfg Config
	if err := mapstructure.Decode(doc, &fileCfg); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", FileName, err)
	}

	if fileCfg.Interpreter != "" {
		cfg.Interpreter = fileCfg.Interpreter
	}
	if len(fileCfg.Packages) > 0 {
		cfg.Packages = fileCfg.Packages
	}
	return cfg, nil
}

// findConfigFile walks up from dir looking for FileName. It returns
// os.ErrNotExist when no file is found and propagates real I/O errors
// instead of swallowing them.
func findConfigFile(dir string) ([]byte, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < maxSearchDepth; i++ {
		data, err := os.ReadFile(filepath.Join(dir, FileName))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}
