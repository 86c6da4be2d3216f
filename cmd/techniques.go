package cmd

import (
	"github.com/spf13/cobra"

	"github.com/warna720/TDP003/api"
)

// NewTechniquesCommand creates the techniques command.
func NewTechniquesCommand(rootOpts *RootOptions) *cobra.Command {
	var stats bool

	cmd := &cobra.Command{
		Use:   "techniques",
		Short: "Print every technique, or the projects using each with --stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			portfolio, release, err := rootOpts.openPortfolio(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			if stats {
				usage, err := portfolio.TechniqueStats(cmd.Context())
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), api.TechniqueStatsResponse{Techniques: usage})
			}

			techniques, err := portfolio.ListTechniques(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), techniques)
		},
	}
	cmd.Flags().BoolVar(&stats, "stats", false, "list the projects using each technique")

	return cmd
}
