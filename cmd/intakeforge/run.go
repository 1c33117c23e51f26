package main

import (
	"fmt"

	"github.com/mrsinham/intakeforge/cmd/intakeforge/wizard"
	"github.com/mrsinham/intakeforge/internal/capture"
	"github.com/spf13/cobra"
)

var (
	presetPath string
	noGallery  bool
)

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&presetPath, "from", "", "pre-fill the event from a YAML preset")
	cmd.Flags().BoolVar(&noGallery, "no-gallery", false, "do not watch the gallery folder for new photos")
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the intake wizard",
		Long: `Start the interactive intake wizard. A session interrupted by a crash or
restart is offered for resumption.`,
		Args: cobra.NoArgs,
		RunE: runWizard,
	}
	addRunFlags(cmd)
	return cmd
}

func runWizard(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	var preset *wizard.EventPreset
	if presetPath != "" {
		p, err := wizard.LoadEventPreset(presetPath)
		if err != nil {
			return fmt.Errorf("loading preset: %w", err)
		}
		preset = p
	}

	store, cleanup, err := openStore()
	if err != nil {
		return err
	}
	defer cleanup()

	var gallery *capture.GalleryWatcher
	if !noGallery {
		gallery, err = capture.NewGalleryWatcher(cfg.Gallery.Dir, cfg.Gallery.Settle)
		if err != nil {
			logger.Warn().Err(err).Str("dir", cfg.Gallery.Dir).Msg("gallery watcher unavailable")
			gallery = nil
		}
	}

	logger.Info().
		Str("data_dir", cfg.DataDir).
		Str("snapshot_backend", cfg.Snapshot.Backend).
		Bool("dicom", cfg.Packet.DICOM).
		Msg("station starting")

	return wizard.Run(ctx, wizard.Options{
		Controller: newController(store),
		Gallery:    gallery,
		Preset:     preset,
		Logger:     logger.With().Str("component", "wizard").Logger(),
	})
}
