package query

import (
	"slices"
	"strings"

	"github.com/warna720/TDP003/models"
)

// ListTechniques returns every tag used by any project, sorted, once each.
func ListTechniques(projects []models.Project) []string {
	seen := make(map[string]bool)
	tags := make([]string, 0)
	for _, p := range projects {
		for _, tag := range p.Techniques {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	slices.Sort(tags)
	return tags
}

// TechniqueStats lists, for every tag from ListTechniques, the projects
// carrying it sorted by name. A project appears once under a tag however
// often it repeats that tag.
func TechniqueStats(projects []models.Project) map[string][]models.TechniqueUsage {
	stats := make(map[string][]models.TechniqueUsage)
	for _, tag := range ListTechniques(projects) {
		usages := []models.TechniqueUsage{}
		for _, p := range projects {
			if p.HasTechnique(tag) {
				usages = append(usages, models.TechniqueUsage{ID: p.ID, Name: p.Name})
			}
		}
		slices.SortStableFunc(usages, func(a, b models.TechniqueUsage) int {
			return strings.Compare(a.Name, b.Name)
		})
		stats[tag] = usages
	}
	return stats
}
