package testsupport

import (
	"path/filepath"
	"testing"

	"poselabel/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults a small three-node skeleton and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ProjectDir = filepath.Join(base, "project")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Skeleton.Name = "test-skeleton"
	cfg.Skeleton.Nodes = []string{"head", "thorax", "abdomen"}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithSkeletonNodes overrides the skeleton node names on the test config.
func WithSkeletonNodes(nodes ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Skeleton.Nodes = nodes
	}
}
