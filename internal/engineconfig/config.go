// Package engineconfig loads engine-wide configuration from a YAML file
// via gopkg.in/yaml.v3. The engine reads no environment variables; a
// config file plus hardcoded defaults is the whole surface.
package engineconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PipelineConfig configures the System Pipeline executor.
type PipelineConfig struct {
	MaxParallelSystems int `yaml:"max_parallel_systems"`
}

// FlowTreeConfig configures FlowTree recursion behavior.
type FlowTreeConfig struct {
	MaxCallDepth              int `yaml:"max_call_depth"`
	InitialDepthStateCapacity int `yaml:"initial_depth_state_capacity"`
}

// WorldBoundsConfig is a YAML-friendly AABB for broad-phase strategies that
// require bounded worlds (Octree, MBP).
type WorldBoundsConfig struct {
	Min [3]float32 `yaml:"min"`
	Max [3]float32 `yaml:"max"`
}

// SpatialConfig configures the Collision/Spatial World.
type SpatialConfig struct {
	BroadPhase          string            `yaml:"broad_phase"`
	WorldBounds         WorldBoundsConfig `yaml:"world_bounds"`
	GridCellSize        float32           `yaml:"grid_cell_size"`
	CandidateBufferSize int               `yaml:"candidate_buffer_size"`
}

// LoggingConfig configures internal/logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// TracingConfig configures internal/tracing.
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Config is the root configuration document for an engine instance.
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline"`
	FlowTree FlowTreeConfig `yaml:"flowtree"`
	Spatial  SpatialConfig  `yaml:"spatial"`
	Logging  LoggingConfig  `yaml:"logging"`
	Tracing  TracingConfig  `yaml:"tracing"`
}

// Default returns the engine's hardcoded default configuration, used when no
// file is supplied.
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{MaxParallelSystems: 8},
		FlowTree: FlowTreeConfig{MaxCallDepth: 64, InitialDepthStateCapacity: 4},
		Spatial: SpatialConfig{
			BroadPhase: "bvh",
			WorldBounds: WorldBoundsConfig{
				Min: [3]float32{-1000, -1000, -1000},
				Max: [3]float32{1000, 1000, 1000},
			},
			GridCellSize:        8,
			CandidateBufferSize: 256,
		},
		Logging: LoggingConfig{Level: "info"},
		Tracing: TracingConfig{Enabled: false},
	}
}

// Load reads and parses a YAML config file at path, filling any field left
// unset with Default's value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("engineconfig: read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("engineconfig: parse %s: %w", path, err)
	}

	return cfg, nil
}
