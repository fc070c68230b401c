package config

import (
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateSkeleton(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateSkeleton() error {
	seen := make(map[string]struct{}, len(c.Skeleton.Nodes))
	for _, node := range c.Skeleton.Nodes {
		key := strings.ToLower(node)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("skeleton.nodes contains duplicate node %q", node)
		}
		seen[key] = struct{}{}
	}
	return nil
}
