package main

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/jobhuntos/jobhunt-api/internal/domain/model"
	"github.com/jobhuntos/jobhunt-api/internal/service"
)

type exportFlags struct {
	search   string
	stage    string
	status   string
	orderBy  string
	orderDir string
	output   string
}

// values maps the flags onto the query parameters accepted by GET /export.csv.
func (f exportFlags) values() url.Values {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("search", f.search)
	set("stage", f.stage)
	set("status", f.status)
	set("order_by", f.orderBy)
	set("order_dir", f.orderDir)
	return v
}

func newExportCmd(a *admin) *cobra.Command {
	var flags exportFlags
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered applications as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			filter, err := model.ParseExportFilter(flags.values())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, dialect, err := a.openDB(ctx, false)
			if err != nil {
				return err
			}
			defer a.closeDB(ctx, db)

			var w io.Writer = cmd.OutOrStdout()
			if flags.output != "" && flags.output != "-" {
				f, createErr := os.Create(flags.output)
				if createErr != nil {
					return fmt.Errorf("create output: %w", createErr)
				}
				defer func() {
					if cerr := f.Close(); cerr != nil {
						err = errors.Join(err, fmt.Errorf("close output: %w", cerr))
					}
				}()
				w = f
			}

			return service.NewCSVProjector(a.repo(db, dialect), nil).Export(ctx, filter, w)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&flags.search, "search", "", "case-insensitive substring of company or role")
	fs.StringVar(&flags.stage, "stage", "", "exact stage")
	fs.StringVar(&flags.status, "status", "", "exact status")
	fs.StringVar(&flags.orderBy, "order-by", "", "created_at, updated_at or next_action_date")
	fs.StringVar(&flags.orderDir, "order-dir", "", "asc or desc")
	fs.StringVarP(&flags.output, "output", "o", "", "output file (default stdout)")
	return cmd
}
