package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"poselabel/internal/labelstudio"
	"poselabel/internal/logging"
	"poselabel/internal/pose"
	"poselabel/internal/store"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export <out.json>",
		Short: "Write the stored labels as a Label Studio task document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			skeleton, err := ctx.skeleton()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			logger = logging.NewComponentLogger(logger, "export")

			var labels pose.Labels
			if err := ctx.withStore(func(st *store.Store) error {
				var loadErr error
				labels, loadErr = st.LoadLabels(cmd.Context(), skeleton)
				return loadErr
			}); err != nil {
				return err
			}

			if err := labelstudio.WriteLabelsFile(args[0], labels, cfg.Export.Pretty); err != nil {
				return fmt.Errorf("export %s: %w", args[0], err)
			}

			logger.Info("export complete",
				logging.String(logging.FieldPath, args[0]),
				logging.Int("frames", labels.NumFrames()),
				logging.Int("instances", labels.NumInstances()))
			return nil
		},
	}
}
