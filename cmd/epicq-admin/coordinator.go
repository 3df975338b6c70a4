package main

import (
	"epicq/lib/data"
	"fmt"

	"github.com/spf13/cobra"
)

// newCoordinatorCommand creates the coordinator command group
func newCoordinatorCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coordinator",
		Short: "Analyze or delete a coordinator account",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "analyze <user-id>",
		Short: "Show what deleting a coordinator would do, without changing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID("user-id", args[0])
			if err != nil {
				return err
			}
			plan, err := opts.cascade().AnalyzeCoordinatorDeletion(cmd.Context(), userID)
			if err != nil {
				return err
			}
			return writePlan(cmd.OutOrStdout(), opts.Format, plan)
		},
	})

	var yes bool
	deleteCmd := &cobra.Command{
		Use:   "delete <user-id>",
		Short: "Delete a coordinator and deactivate their assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID("user-id", args[0])
			if err != nil {
				return err
			}

			cascade := opts.cascade()
			if !yes {
				plan, err := cascade.AnalyzeCoordinatorDeletion(cmd.Context(), userID)
				if err != nil {
					return err
				}
				if err := writePlan(cmd.OutOrStdout(), opts.Format, plan); err != nil {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "Nothing deleted; re-run with --yes to execute")
				return nil
			}

			result, err := cascade.ExecuteCoordinatorDeletion(cmd.Context(), userID)
			if err != nil {
				return err
			}
			archive, identity := opts.followUps()
			return writeDeletion(cmd.OutOrStdout(), opts.Format, data.FinalizeDeletion(cmd.Context(), result, archive, identity, opts.logger))
		},
	}
	deleteCmd.Flags().BoolVar(&yes, "yes", false, "execute the deletion")
	cmd.AddCommand(deleteCmd)

	return cmd
}
