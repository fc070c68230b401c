package main

import (
	"log/slog"
	"strings"
	"sync"

	"poselabel/internal/config"
	"poselabel/internal/logging"
	"poselabel/internal/pose"
	"poselabel/internal/store"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// skeleton builds the pose skeleton from the configured node names.
func (c *commandContext) skeleton() (pose.Skeleton, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return pose.Skeleton{}, err
	}
	return pose.NewSkeleton(cfg.Skeleton.Name, cfg.Skeleton.Nodes), nil
}

// withStore opens the project store for the duration of fn.
func (c *commandContext) withStore(fn func(*store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}
