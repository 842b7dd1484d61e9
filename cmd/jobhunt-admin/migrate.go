package main

import (
	"github.com/spf13/cobra"
)

func newMigrateCmd(a *admin) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations for the configured driver",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, _, err := a.openDB(cmd.Context(), true)
			if err != nil {
				return err
			}
			a.closeDB(cmd.Context(), db)
			return nil
		},
	}
}
