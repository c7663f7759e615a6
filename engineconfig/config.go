// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package engineconfig loads the tunables an Engine exposes through its
// SetUpdatesPerSec/SetUpdateImages/SetBatchAccelerated/SetMaxBatchTimeSec
// setters from a YAML file, so a deployment can adjust batching behavior
// without a rebuild.
package engineconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config mirrors the four engine tunables that govern adaptive batching
// and per-update image rendering.
type Config struct {
	UpdatesPerSec    float64 `yaml:"updatesPerSec"`
	UpdateImages     bool    `yaml:"updateImages"`
	BatchAccelerated bool    `yaml:"batchAccelerated"`
	MaxBatchTimeSec  float64 `yaml:"maxBatchTimeSec"`
}

// Default returns the same tunable values NewEngine starts with, for
// callers that want a Config to override field-by-field rather than load
// one wholesale from disk.
func Default() Config {
	return Config{
		UpdatesPerSec:    0,
		UpdateImages:     false,
		BatchAccelerated: true,
		MaxBatchTimeSec:  0,
	}
}

// Load reads and parses a YAML file at path, starting from Default() so an
// omitted field keeps its default rather than zeroing out.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("engineconfig: read %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("engineconfig: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("engineconfig: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values an Engine could never sensibly run with.
func (c Config) Validate() error {
	if c.UpdatesPerSec < 0 {
		return fmt.Errorf("updatesPerSec must be >= 0, got %v", c.UpdatesPerSec)
	}
	if c.MaxBatchTimeSec < 0 {
		return fmt.Errorf("maxBatchTimeSec must be >= 0, got %v", c.MaxBatchTimeSec)
	}
	return nil
}

// engineTunables is the subset of *flame.Engine's setter methods this
// package needs, kept narrow so engineconfig doesn't have to import the
// root flame package (which would create an import cycle if flame ever
// wanted to depend on engineconfig for its own defaults).
type engineTunables interface {
	SetUpdatesPerSec(float64)
	SetUpdateImages(bool)
	SetBatchAccelerated(bool)
	SetMaxBatchTimeSec(float64)
}

// Apply pushes every field of c onto an engine's tunable setters.
func (c Config) Apply(e engineTunables) {
	e.SetUpdatesPerSec(c.UpdatesPerSec)
	e.SetUpdateImages(c.UpdateImages)
	e.SetBatchAccelerated(c.BatchAccelerated)
	e.SetMaxBatchTimeSec(c.MaxBatchTimeSec)
}
