// Package query filters, sorts and aggregates a loaded catalog. Everything
// here is a pure function of its arguments: projects are never mutated and
// nothing is shared between calls, so callers may run queries concurrently.
package query

import (
	"fmt"
	"slices"
	"strings"

	"github.com/warna720/TDP003/errs"
	"github.com/warna720/TDP003/models"
	"github.com/warna720/TDP003/normalize"
)

const (
	DefaultSortBy    = "start_date"
	DefaultSortOrder = OrderDesc

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Options are the search parameters.
type Options struct {
	// SortBy names the field to sort on. Legacy names such as "project_no"
	// are accepted.
	SortBy string
	// SortOrder is "asc" for ascending. Any other value sorts descending.
	SortOrder string
	// Techniques keeps projects carrying at least one of these tags. Empty
	// means no technique filter.
	Techniques []string
	// SearchText is matched case-insensitively as a substring. Only its
	// first whitespace-separated token is used. Blank means no text filter.
	SearchText string
	// SearchFields restricts the text match. nil searches every field; a
	// non-nil empty slice matches nothing, so Search returns no projects.
	// Unknown names are ignored.
	SearchFields []string
}

// DefaultOptions sorts by start date, newest first, without filters.
func DefaultOptions() Options {
	return Options{SortBy: DefaultSortBy, SortOrder: DefaultSortOrder}
}

// Search returns the projects matching opts, one per id, sorted. The
// result is a new slice.
func Search(projects []models.Project, opts Options) ([]models.Project, error) {
	// Searching no fields matches nothing, whatever else was asked.
	if opts.SearchFields != nil && len(opts.SearchFields) == 0 {
		return []models.Project{}, nil
	}

	if opts.SortBy == "" {
		opts.SortBy = DefaultSortBy
	}
	sortField, ok := models.LookupField(opts.SortBy)
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrUnknownSortField, opts.SortBy)
	}
	searchFields := resolveFields(opts.SearchFields)

	token, hasToken := firstToken(opts.SearchText)

	matches := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if hasToken && !matchesText(p, token, searchFields) {
			continue
		}
		if len(opts.Techniques) > 0 && !matchesTechniques(p, opts.Techniques) {
			continue
		}
		matches = append(matches, p)
	}

	matches = dedupe(matches)
	sortProjects(matches, sortField, opts.SortOrder)
	return matches, nil
}

// resolveFields maps names to fields. Names projects do not have are
// skipped, so a search over only unknown fields matches no text.
func resolveFields(names []string) []models.Field {
	if names == nil {
		return models.Fields()
	}
	fields := make([]models.Field, 0, len(names))
	for _, name := range names {
		if f, ok := models.LookupField(name); ok {
			fields = append(fields, f)
		}
	}
	return fields
}

// firstToken trims the text and keeps only the first word, lowercased.
// "data science" searches for "data".
func firstToken(text string) (string, bool) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return "", false
	}
	return normalize.Lower(words[0]), true
}

func matchesText(p models.Project, token string, fields []models.Field) bool {
	for _, f := range fields {
		if strings.Contains(normalize.Lower(f.Text(p)), token) {
			return true
		}
	}
	return false
}

func matchesTechniques(p models.Project, techniques []string) bool {
	return slices.ContainsFunc(techniques, p.HasTechnique)
}

// dedupe keeps the first project seen for each id.
func dedupe(projects []models.Project) []models.Project {
	seen := make(map[int]bool, len(projects))
	out := projects[:0]
	for _, p := range projects {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}

// sortProjects sorts stably. Descending reverses the comparison rather than
// the result, so equal keys keep their input order either way.
func sortProjects(projects []models.Project, f models.Field, order string) {
	if order == OrderAsc {
		slices.SortStableFunc(projects, f.Compare)
		return
	}
	slices.SortStableFunc(projects, func(a, b models.Project) int {
		return f.Compare(b, a)
	})
}
