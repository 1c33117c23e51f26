package main

import (
	"fmt"
	"time"

	"github.com/mrsinham/intakeforge/internal/intake"
	"github.com/mrsinham/intakeforge/internal/persist"
	"github.com/spf13/cobra"
)

func snapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Inspect or discard the saved session",
	}
	cmd.AddCommand(snapshotShowCmd())
	cmd.AddCommand(snapshotDiscardCmd())
	return cmd
}

func snapshotShowCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, cleanup, err := openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			snap, err := store.Pending(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if snap == nil {
				fmt.Fprintln(out, "No saved session.")
				return nil
			}

			if asJSON {
				data, err := persist.Encode(snap)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			printSnapshot(cmd, snap)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw snapshot document")
	return cmd
}

func printSnapshot(cmd *cobra.Command, snap *persist.Snapshot) {
	out := cmd.OutOrStdout()

	name := snap.Data.FullName()
	if name == "" {
		name = "(no name)"
	}
	step := "-"
	if snap.Mode == intake.ModeIntake {
		step = fmt.Sprintf("%d/%d %s", snap.Step, intake.TotalSteps, intake.StepTitle(snap.Step))
	}

	fmt.Fprintf(out, "Event:     %s (%s)\n", snap.EventName, snap.EventDate)
	fmt.Fprintf(out, "Patient:   %s\n", name)
	fmt.Fprintf(out, "Mode:      %s\n", snap.Mode)
	fmt.Fprintf(out, "Step:      %s\n", step)
	if snap.Company != "" {
		fmt.Fprintf(out, "Billing:   %s\n", intake.LookupCompany(snap.Company).Name)
	}

	signed := 0
	for _, role := range intake.AllSignatureRoles() {
		if snap.Signatures[role] {
			signed++
		}
	}
	fmt.Fprintf(out, "Signed:    %d of %d\n", signed, len(intake.AllSignatureRoles()))
	fmt.Fprintf(out, "Documents: front=%t back=%t license=%t rx=%t\n",
		snap.HasInsuranceCardFront, snap.HasInsuranceCardBack, snap.HasDriversLicense, snap.HasRx)
	fmt.Fprintf(out, "Saved:     %s\n", snap.Timestamp.Local().Format(time.DateTime))
}

func snapshotDiscardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discard",
		Short: "Delete the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, cleanup, err := openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			if err := store.Discard(cmd.Context()); err != nil {
				return err
			}
			logger.Info().Msg("saved session discarded")
			fmt.Fprintln(cmd.OutOrStdout(), "Saved session discarded.")
			return nil
		},
	}
}
