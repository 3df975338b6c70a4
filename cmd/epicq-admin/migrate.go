package main

import (
	"epicq/lib/data"
	"fmt"

	"github.com/spf13/cobra"
)

// newMigrateCommand creates the migrate command
func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			applied, err := data.ApplyMigrations(cmd.Context(), opts.db, opts.logger)
			if err != nil {
				return err
			}
			if opts.Format == "json" {
				if applied == nil {
					applied = []string{}
				}
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{"applied": applied})
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Database is up to date")
				return nil
			}
			for _, name := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", name)
			}
			return nil
		},
	}
}
