package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/warna720/TDP003/models"
)

// NewProjectCommand creates the project command.
func NewProjectCommand(rootOpts *RootOptions) *cobra.Command {
	var random bool

	cmd := &cobra.Command{
		Use:   "project <id>",
		Short: "Print one project, by id or at random",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id int
			switch {
			case random && len(args) > 0:
				return errors.New("an id cannot be combined with --random")
			case !random && len(args) == 0:
				return errors.New("an id or --random is required")
			case !random:
				var err error
				if id, err = strconv.Atoi(args[0]); err != nil {
					return fmt.Errorf("invalid project id %q", args[0])
				}
			}

			portfolio, release, err := rootOpts.openPortfolio(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			var project models.Project
			if random {
				project, err = portfolio.RandomProject(cmd.Context())
			} else {
				project, err = portfolio.Project(cmd.Context(), id)
			}
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), project)
		},
	}
	cmd.Flags().BoolVar(&random, "random", false, "pick a project at random")

	return cmd
}
