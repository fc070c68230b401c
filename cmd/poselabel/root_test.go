package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"poselabel/internal/config"
	"poselabel/internal/labelstudio"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	content := `[paths]
project_dir = "` + filepath.Join(dir, "project") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[logging]
format = "json"
level = "error"

[skeleton]
name = "fly"
nodes = ["head", "tail"]

[export]
pretty = true
`
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigInitWritesLoadableSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("output should mention target path:\n%s", out)
	}

	if _, _, exists, err := config.Load(target); err != nil {
		t.Fatalf("generated sample does not load: %v", err)
	} else if !exists {
		t.Fatal("generated sample not found by Load")
	}
}

func TestConfigInitRefusesExistingFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(target, []byte("# keep me\n"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error without --overwrite")
	}

	if _, err := runCommand(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("--overwrite should replace the file: %v", err)
	}
}

func TestConvertCommandRoundTrip(t *testing.T) {
	cfgPath := writeTestConfig(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "in.json")
	output := filepath.Join(dir, "out.json")

	tasks := `[
  {
    "id": 1,
    "data": {},
    "meta": {"video": {"filename": "clip.mp4", "frame_idx": 4, "shape": [60, 100, 200, 1]}},
    "annotations": [
      {
        "result": [
          {
            "id": "kp-head",
            "type": "keypointlabels",
            "original_width": 200,
            "original_height": 100,
            "value": {"x": 50.0, "y": 25.0, "keypointlabels": ["head"]}
          },
          {
            "id": "kp-tail",
            "type": "keypointlabels",
            "original_width": 200,
            "original_height": 100,
            "value": {"x": 10.0, "y": 80.0, "keypointlabels": ["tail"]}
          }
        ]
      }
    ]
  }
]`
	if err := os.WriteFile(input, []byte(tasks), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	if _, err := runCommand(t, "--config", cfgPath, "convert", input, output); err != nil {
		t.Fatalf("convert failed: %v", err)
	}

	raw, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	converted, err := labelstudio.DecodeTasks(raw)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(converted) != 1 {
		t.Fatalf("expected 1 task, got %d", len(converted))
	}
	sets, ok := converted[0].AnnotationSets()
	if !ok || len(sets) != 1 {
		t.Fatalf("expected a single annotation set: %+v", converted[0])
	}
	// One rectangle, two keypoints, two relations.
	if len(sets[0].Result) != 5 {
		t.Fatalf("expected 5 result items, got %d", len(sets[0].Result))
	}
	if converted[0].Meta == nil || converted[0].Meta.Video == nil || converted[0].Meta.Video.Filename != "clip.mp4" {
		t.Fatalf("video metadata lost: %+v", converted[0].Meta)
	}
}

func TestConvertCommandRequiresSkeletonNodes(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	content := `[paths]
project_dir = "` + filepath.Join(dir, "project") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := runCommand(t, "--config", cfgPath, "convert", "in.json", "out.json")
	if err == nil || !strings.Contains(err.Error(), "skeleton.nodes") {
		t.Fatalf("expected skeleton.nodes error, got %v", err)
	}
}

func TestImportThenExport(t *testing.T) {
	cfgPath := writeTestConfig(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "in.json")
	output := filepath.Join(dir, "out.json")

	tasks := `[
  {
    "id": 7,
    "data": {},
    "meta": {"video": {"filename": "clip.mp4", "frame_idx": 0, "shape": [10, 100, 200, 3]}},
    "annotations": [
      {
        "result": [
          {
            "id": "kp-head",
            "type": "keypointlabels",
            "original_width": 200,
            "original_height": 100,
            "value": {"x": 50.0, "y": 50.0, "keypointlabels": ["head"]}
          }
        ]
      }
    ]
  }
]`
	if err := os.WriteFile(input, []byte(tasks), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	if _, err := runCommand(t, "--config", cfgPath, "import", input); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if _, err := runCommand(t, "--config", cfgPath, "export", output); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	raw, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	exported, err := labelstudio.DecodeTasks(raw)
	if err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if len(exported) != 1 {
		t.Fatalf("expected 1 exported task, got %d", len(exported))
	}
	if exported[0].Meta == nil || exported[0].Meta.Video == nil || exported[0].Meta.Video.FrameIdx != 0 {
		t.Fatalf("frame metadata lost: %+v", exported[0].Meta)
	}
}
