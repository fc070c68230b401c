package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.normalizeSkeleton()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.ProjectDir) == "" {
		c.Paths.ProjectDir = defaultProjectDir
	}
	if c.Paths.ProjectDir, err = expandPath(c.Paths.ProjectDir); err != nil {
		return fmt.Errorf("paths.project_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeSkeleton() {
	c.Skeleton.Name = strings.TrimSpace(c.Skeleton.Name)
	if c.Skeleton.Name == "" {
		c.Skeleton.Name = defaultSkeletonName
	}
	nodes := make([]string, 0, len(c.Skeleton.Nodes))
	for _, node := range c.Skeleton.Nodes {
		node = strings.TrimSpace(node)
		if node == "" {
			continue
		}
		nodes = append(nodes, node)
	}
	c.Skeleton.Nodes = nodes
}
