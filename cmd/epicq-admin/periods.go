package main

import (
	"epicq/lib/data"
	"epicq/lib/models"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// newPeriodsCommand creates the periods command group
func newPeriodsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "periods",
		Short: "Inspect recruitment periods",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list <project-hospital-id>",
		Short: "List the recruitment periods of a project hospital with their status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectHospitalID, err := parseID("project-hospital-id", args[0])
			if err != nil {
				return err
			}

			dao := &data.RecruitmentPeriodDao{
				DB:             opts.db,
				Logger:         opts.logger,
				MaxPeriods:     opts.cfg.MaxPeriods,
				StrictSchedule: opts.cfg.StrictSchedule,
				Now:            opts.now,
			}
			list, err := dao.ListPeriods(cmd.Context(), projectHospitalID)
			if err != nil {
				return err
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), list)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Project hospital %d: %d of %d periods (required %d)\n",
				list.ProjectHospitalID, list.Total, list.MaxPeriods, list.RequiredPeriods)
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "#\tSTART\tEND\tSTATUS")
			for _, p := range list.Periods {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.PeriodNumber,
					p.StartDate.Format(models.DateLayout), p.EndDate.Format(models.DateLayout), p.Status)
			}
			return w.Flush()
		},
	})

	return cmd
}
