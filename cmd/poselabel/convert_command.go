package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"poselabel/internal/labelstudio"
	"poselabel/internal/logging"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <in.json> <out.json>",
		Short: "Round-trip a Label Studio export through the pose model without touching the store",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			skeleton, err := ctx.skeleton()
			if err != nil {
				return err
			}
			if len(skeleton.Nodes) == 0 {
				return errors.New("skeleton.nodes must be configured before converting (see 'poselabel config init')")
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			logger = logging.NewComponentLogger(logger, "convert")

			labels, err := labelstudio.ReadLabelsFile(args[0], skeleton, logger)
			if err != nil {
				return fmt.Errorf("convert %s: %w", args[0], err)
			}
			if err := labelstudio.WriteLabelsFile(args[1], labels, cfg.Export.Pretty); err != nil {
				return fmt.Errorf("convert %s: %w", args[1], err)
			}

			logger.Info("conversion complete",
				logging.String("input", args[0]),
				logging.String("output", args[1]),
				logging.Int("frames", labels.NumFrames()),
				logging.Int("instances", labels.NumInstances()))
			return nil
		},
	}
}
