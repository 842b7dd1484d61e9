package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jobhuntos/jobhunt-api/internal/devseed"
)

func newSeedCmd(a *admin) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Run migrations and insert demo applications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			db, dialect, err := a.openDB(ctx, true)
			if err != nil {
				return err
			}
			defer a.closeDB(ctx, db)

			n, err := devseed.Run(ctx, a.repo(db, dialect), a.logger)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "inserted %d applications\n", n)
			return err
		},
	}
}
