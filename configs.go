package enginecore

import (
	"github.com/ridgeline-games/enginecore/internal/domain"
	"github.com/ridgeline-games/enginecore/internal/engineconfig"
)

// Config is the root configuration document for an engine instance,
// covering the pipeline, flowtree, spatial, logging, and tracing sections.
type Config = engineconfig.Config

// Re-export the per-subsystem configuration sections for public use.
type (
	PipelineConfig    = engineconfig.PipelineConfig
	FlowTreeConfig    = engineconfig.FlowTreeConfig
	SpatialConfig     = engineconfig.SpatialConfig
	WorldBoundsConfig = engineconfig.WorldBoundsConfig
	LoggingConfig     = engineconfig.LoggingConfig
	TracingConfig     = engineconfig.TracingConfig
)

// DefaultConfig returns the engine's hardcoded default configuration.
func DefaultConfig() *Config {
	return engineconfig.Default()
}

// LoadConfig reads and parses a YAML config file, filling any field left
// unset with DefaultConfig's value.
func LoadConfig(path string) (*Config, error) {
	return engineconfig.Load(path)
}

// domainAABBFromConfig converts a YAML-friendly WorldBoundsConfig into the
// domain.AABB the broad-phase strategies expect.
func domainAABBFromConfig(b WorldBoundsConfig) domain.AABB {
	return domain.AABB{
		Min: domain.Vector3{X: b.Min[0], Y: b.Min[1], Z: b.Min[2]},
		Max: domain.Vector3{X: b.Max[0], Y: b.Max[1], Z: b.Max[2]},
	}
}
