// Package coreconfig loads the application-shell configuration that wraps
// the core: it governs nothing in the data model itself (series are built
// directly by callers and loaders), only the demo shell's defaults for
// entity-registry namespacing, default geometry image size, and operator
// progress granularity.
package coreconfig

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ImageSize is the (width, height) recorded by geometry-bearing
// containers for rendering-time coordinate scaling; semantic in-core
// operations never consult it.
type ImageSize struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ShellConfig is the top-level YAML document the demo application shell
// (cmd/corebench) reads at startup: a single YAML-decoded Config struct.
type ShellConfig struct {
	// EntityNamespace labels which logical registry a shell session
	// allocates entities from; purely a diagnostic label threaded into
	// log lines, not consulted by entity.Registry itself.
	EntityNamespace string `yaml:"entity_namespace"`

	DefaultImageSize ImageSize `yaml:"default_image_size"`

	// ProgressMilestones lists progress percentages beyond 0/100. No
	// operator reads this field: peak.Compute reports its own fixed
	// milestones (0, 10, 15, one per search range, 100).
	ProgressMilestones []int `yaml:"progress_milestones"`
}

// Default returns the shell's built-in configuration, used when no
// config file is supplied.
func Default() ShellConfig {
	return ShellConfig{
		EntityNamespace:    "default",
		DefaultImageSize:   ImageSize{Width: 640, Height: 480},
		ProgressMilestones: []int{10, 15},
	}
}

// Load reads and decodes a ShellConfig from path.
func Load(path string) (ShellConfig, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return ShellConfig{}, errors.Wrapf(err, "coreconfig: reading %s", path)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return ShellConfig{}, errors.Wrapf(err, "coreconfig: parsing %s", path)
	}
	return cfg, nil
}
