package labelstudio

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"poselabel/internal/pose"
)

// ReadLabelsFile loads a Label Studio export from path and parses it into a
// label collection.
func ReadLabelsFile(path string, skeleton pose.Skeleton, logger *slog.Logger) (pose.Labels, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return pose.Labels{}, fmt.Errorf("read annotation file: %w", err)
	}
	tasks, err := DecodeTasks(raw)
	if err != nil {
		return pose.Labels{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return ParseTasks(tasks, skeleton, logger)
}

// WriteLabelsFile converts a label collection and writes the resulting task
// document to path. The write goes through a temp file in the same
// directory followed by a rename, so readers never observe a partial
// document.
func WriteLabelsFile(path string, labels pose.Labels, pretty bool) error {
	data, err := EncodeTasks(WriteLabels(labels), pretty)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".labelstudio-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write tasks: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
