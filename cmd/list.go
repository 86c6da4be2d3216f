package cmd

import (
	"github.com/spf13/cobra"

	"github.com/warna720/TDP003/api"
	"github.com/warna720/TDP003/errs"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	var countOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print every project in catalog order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			portfolio, release, err := rootOpts.openPortfolio(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			if countOnly {
				total, err := portfolio.Count(cmd.Context())
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), map[string]int{"total": total})
			}

			projects, ok := portfolio.Load(cmd.Context())
			if !ok {
				return errs.ErrCatalogUnavailable
			}
			return writeJSON(cmd.OutOrStdout(), api.ProjectCollection{Projects: projects, Total: len(projects)})
		},
	}
	cmd.Flags().BoolVar(&countOnly, "count", false, "print only the number of projects")

	return cmd
}
