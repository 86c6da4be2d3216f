//go:build property
// +build property

package query

import (
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/warna720/TDP003/models"
)

// TestSearchProperties checks search invariants over generated catalogs.
func TestSearchProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("results never repeat an id", prop.ForAll(
		func(projects []models.Project, text string, techniques []string) bool {
			got, err := Search(projects, Options{SearchText: text, Techniques: techniques})
			if err != nil {
				return false
			}
			seen := make(map[int]bool)
			for _, p := range got {
				if seen[p.ID] {
					return false
				}
				seen[p.ID] = true
			}
			return true
		},
		genProjects(),
		genWord(),
		gen.SliceOfN(2, genTag()),
	))

	properties.Property("empty search fields match nothing", prop.ForAll(
		func(projects []models.Project, text string, sortBy string) bool {
			got, err := Search(projects, Options{SearchText: text, SortBy: sortBy, SearchFields: []string{}})
			return err == nil && got != nil && len(got) == 0
		},
		genProjects(),
		genWord(),
		gen.OneConstOf("id", "name", "budget", ""),
	))

	properties.Property("id ascending is non-decreasing", prop.ForAll(
		func(projects []models.Project) bool {
			got, err := Search(projects, Options{SortBy: "id", SortOrder: OrderAsc})
			if err != nil {
				return false
			}
			return slices.IsSortedFunc(got, func(a, b models.Project) int { return a.ID - b.ID })
		},
		genProjects(),
	))

	properties.Property("descending is the reverse order of ascending keys", prop.ForAll(
		func(projects []models.Project) bool {
			asc, err := Search(projects, Options{SortBy: "start_date", SortOrder: OrderAsc})
			if err != nil {
				return false
			}
			desc, err := Search(projects, Options{SortBy: "start_date", SortOrder: OrderDesc})
			if err != nil || len(asc) != len(desc) {
				return false
			}
			for i := range asc {
				if asc[i].StartDate != desc[len(desc)-1-i].StartDate {
					return false
				}
			}
			return true
		},
		genProjects(),
	))

	properties.Property("every result carries a requested technique", prop.ForAll(
		func(projects []models.Project, techniques []string) bool {
			got, err := Search(projects, Options{Techniques: techniques})
			if err != nil {
				return false
			}
			for _, p := range got {
				if !slices.ContainsFunc(techniques, p.HasTechnique) {
					return false
				}
			}
			return true
		},
		genProjects(),
		gen.SliceOfN(2, genTag()).SuchThat(func(v []string) bool { return len(v) > 0 }),
	))

	properties.TestingRun(t)
}

// TestTechniqueProperties checks the technique aggregates over generated
// catalogs.
func TestTechniqueProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("list is strictly ascending", prop.ForAll(
		func(projects []models.Project) bool {
			tags := ListTechniques(projects)
			for i := 1; i < len(tags); i++ {
				if tags[i-1] >= tags[i] {
					return false
				}
			}
			return true
		},
		genProjects(),
	))

	properties.Property("stats keys equal the list", prop.ForAll(
		func(projects []models.Project) bool {
			stats := TechniqueStats(projects)
			tags := ListTechniques(projects)
			if len(stats) != len(tags) {
				return false
			}
			for _, tag := range tags {
				if _, ok := stats[tag]; !ok {
					return false
				}
			}
			return true
		},
		genProjects(),
	))

	properties.Property("stats lists are sorted by name", prop.ForAll(
		func(projects []models.Project) bool {
			for _, usages := range TechniqueStats(projects) {
				if !slices.IsSortedFunc(usages, func(a, b models.TechniqueUsage) int {
					switch {
					case a.Name < b.Name:
						return -1
					case a.Name > b.Name:
						return 1
					}
					return 0
				}) {
					return false
				}
			}
			return true
		},
		genProjects(),
	))

	properties.TestingRun(t)
}

func genWord() gopter.Gen {
	return gen.OneConstOf("", "a", "data", "go", "PROJ", "2021", "  x y ", "ö")
}

func genTag() gopter.Gen {
	return gen.OneConstOf("go", "rust", "python", "c++", "flask", "linux")
}

func genProject() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(1, 12),
		gen.OneConstOf("Alpha", "Beta", "Gamma data", "proj"),
		gen.OneConstOf("2020-01-01", "2021-06-15", "2022-09-01"),
		gen.SliceOfN(3, genTag()),
	).Map(func(values []interface{}) models.Project {
		tags := values[3].([]string)
		unique := make([]string, 0, len(tags))
		for _, tag := range tags {
			if !slices.Contains(unique, tag) {
				unique = append(unique, tag)
			}
		}
		return models.Project{
			ID:         values[0].(int),
			Name:       values[1].(string),
			StartDate:  values[2].(string),
			Techniques: unique,
		}
	})
}

func genProjects() gopter.Gen {
	return gen.SliceOfN(8, genProject())
}
