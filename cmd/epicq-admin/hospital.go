package main

import (
	"epicq/lib/data"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// newHospitalCommand creates the hospital command group
func newHospitalCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hospital",
		Short: "Analyze or delete a hospital",
	}
	cmd.AddCommand(newHospitalAnalyzeCommand(opts))
	cmd.AddCommand(newHospitalDeleteCommand(opts))
	return cmd
}

func newHospitalAnalyzeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <hospital-id>",
		Short: "Show what deleting a hospital would do, without changing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hospitalID, err := parseID("hospital-id", args[0])
			if err != nil {
				return err
			}
			plan, err := opts.cascade().AnalyzeHospitalDeletion(cmd.Context(), hospitalID)
			if err != nil {
				return err
			}
			return writePlan(cmd.OutOrStdout(), opts.Format, plan)
		},
	}
}

func newHospitalDeleteCommand(opts *rootOptions) *cobra.Command {
	var deleteCoordinators, yes bool

	cmd := &cobra.Command{
		Use:   "delete <hospital-id>",
		Short: "Delete a hospital and everything it owns",
		Long: `Delete a hospital and everything it owns.

Without --yes only the plan is printed. Hospitals taking part in an active project
cannot be deleted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hospitalID, err := parseID("hospital-id", args[0])
			if err != nil {
				return err
			}

			cascade := opts.cascade()
			if !yes {
				plan, err := cascade.AnalyzeHospitalDeletion(cmd.Context(), hospitalID)
				if err != nil {
					return err
				}
				if err := writePlan(cmd.OutOrStdout(), opts.Format, plan); err != nil {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "Nothing deleted; re-run with --yes to execute")
				return nil
			}

			result, err := cascade.ExecuteHospitalDeletion(cmd.Context(), hospitalID, deleteCoordinators)
			if err != nil {
				return err
			}
			archive, identity := opts.followUps()
			return writeDeletion(cmd.OutOrStdout(), opts.Format, data.FinalizeDeletion(cmd.Context(), result, archive, identity, opts.logger))
		},
	}

	cmd.Flags().BoolVar(&deleteCoordinators, "delete-coordinators", false, "delete coordinators whose only hospital is this one")
	cmd.Flags().BoolVar(&yes, "yes", false, "execute the deletion")
	return cmd
}

func parseID(name, value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	return id, nil
}
