package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/warna720/TDP003/models"
	"github.com/warna720/TDP003/query"
)

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		opts     = query.DefaultOptions()
		fields   []string
		noFields bool
	)

	cmd := &cobra.Command{
		Use:   "search [text]",
		Short: "Search, filter and sort projects",
		Long: fmt.Sprintf(`Search projects and print the matches as JSON.

Only the first word of the text is matched, case-insensitively, as a
substring of each searched field. Without --field every field is searched;
names that are not project fields are ignored.

Fields for --sort-by and --field:
  %s

Examples:
  portfolio search data
  portfolio search --technique python --technique go --sort-by id --sort-order asc
  portfolio search flask --field name --field techniques`, strings.Join(models.FieldNames(), ", ")),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.SearchText = strings.Join(args, " ")
			switch {
			case noFields:
				opts.SearchFields = []string{}
			case len(fields) > 0:
				opts.SearchFields = fields
			}

			portfolio, release, err := rootOpts.openPortfolio(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			projects, err := portfolio.Search(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), projects)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.SortBy, "sort-by", opts.SortBy, "field to sort on")
	flags.StringVar(&opts.SortOrder, "sort-order", opts.SortOrder, "asc, anything else sorts descending")
	flags.StringArrayVarP(&opts.Techniques, "technique", "t", nil, "keep projects using this technique (repeatable)")
	flags.StringArrayVarP(&fields, "field", "f", nil, "search only this field (repeatable)")
	flags.BoolVar(&noFields, "no-fields", false, "search no fields at all, which matches nothing")
	cmd.MarkFlagsMutuallyExclusive("field", "no-fields")

	return cmd
}
