package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"poselabel/internal/labelstudio"
	"poselabel/internal/logging"
	"poselabel/internal/store"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <tasks.json>",
		Short: "Parse a Label Studio export and store it in the project database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			skeleton, err := ctx.skeleton()
			if err != nil {
				return err
			}
			if len(skeleton.Nodes) == 0 {
				return errors.New("skeleton.nodes must be configured before importing (see 'poselabel config init')")
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			logger = logging.NewComponentLogger(logger, "import")

			labels, err := labelstudio.ReadLabelsFile(args[0], skeleton, logger)
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}

			if err := ctx.withStore(func(st *store.Store) error {
				return st.SaveLabels(cmd.Context(), labels)
			}); err != nil {
				return err
			}

			logger.Info("import complete",
				logging.String(logging.FieldPath, args[0]),
				logging.Int("frames", labels.NumFrames()),
				logging.Int("instances", labels.NumInstances()),
				logging.Int("videos", len(labels.Videos())))
			return nil
		},
	}
}
