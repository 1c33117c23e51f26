package main

import (
	"fmt"
	"os"

	"github.com/mrsinham/intakeforge/internal/intake"
	"github.com/spf13/cobra"
)

func normalizeCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "normalize <input> <output.jpg>",
		Short: "Normalize a document photo the way the station stores it",
		Long: `Decode an image (JPEG, PNG, GIF, BMP, TIFF or WebP), rotate portrait
photos to landscape, bound the width and re-encode as JPEG.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			captureRole, err := intake.ParseCaptureRole(role)
			if err != nil {
				return err
			}

			art, err := normalizer().IngestFile(captureRole, args[0])
			if err != nil {
				return err
			}
			if !art.IsImage() {
				return fmt.Errorf("%s is not an image", args[0])
			}

			if err := os.WriteFile(args[1], art.Data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", args[1], err)
			}

			logger.Debug().Str("in", args[0]).Str("out", args[1]).Msg("normalized")
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %dx%d, %d bytes\n", args[1], art.Width, art.Height, len(art.Data))
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", string(intake.CaptureLicense), "document role (insuranceFront, insuranceBack, license, prescription)")
	return cmd
}
