package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"poselabel/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected missing config to report exists=false")
	}
	if resolved != path {
		t.Fatalf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if len(cfg.Skeleton.Nodes) != 0 {
		t.Fatalf("expected empty default skeleton, got %v", cfg.Skeleton.Nodes)
	}
	if !cfg.Export.Pretty {
		t.Fatal("expected pretty export by default")
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
project_dir = "` + filepath.Join(dir, "project") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[logging]
format = " JSON "
level = "DEBUG"

[skeleton]
name = " fly "
nodes = ["head", " thorax ", ""]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging not normalized: %+v", cfg.Logging)
	}
	if cfg.Skeleton.Name != "fly" {
		t.Fatalf("skeleton name = %q", cfg.Skeleton.Name)
	}
	if len(cfg.Skeleton.Nodes) != 2 || cfg.Skeleton.Nodes[1] != "thorax" {
		t.Fatalf("skeleton nodes not trimmed: %v", cfg.Skeleton.Nodes)
	}
}

func TestLoadRejectsUnknownLogFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[logging]\nformat = \"xml\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "logging.format") {
		t.Fatalf("expected logging.format error, got %v", err)
	}
}

func TestLoadRejectsDuplicateSkeletonNodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[skeleton]\nnodes = [\"head\", \"Head\"]\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate node error, got %v", err)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load of sample failed: %v", err)
	}
	if !exists {
		t.Fatal("sample config not found after CreateSample")
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("sample logging format = %q", cfg.Logging.Format)
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ProjectDir = filepath.Join(dir, "project")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, d := range []string{cfg.Paths.ProjectDir, cfg.Paths.LogDir} {
		info, err := os.Stat(d)
		if err != nil || !info.IsDir() {
			t.Fatalf("directory %s not created: %v", d, err)
		}
	}
}
