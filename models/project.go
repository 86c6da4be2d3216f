package models

// Project represents one catalog entry as served to the site
type Project struct {
	ID               int      `json:"id" yaml:"id"`
	Name             string   `json:"name" yaml:"name"`
	StartDate        string   `json:"start_date" yaml:"start_date"`
	EndDate          string   `json:"end_date" yaml:"end_date"`
	CourseID         string   `json:"course_id" yaml:"course_id"`
	CourseName       string   `json:"course_name" yaml:"course_name"`
	ShortDescription string   `json:"short_description" yaml:"short_description"`
	LongDescription  string   `json:"long_description" yaml:"long_description"`
	ExternalLink     string   `json:"external_link" yaml:"external_link"`
	SmallImagePath   string   `json:"small_image_path" yaml:"small_image_path"`
	BigImagePath     string   `json:"big_image_path" yaml:"big_image_path"`
	AcademicCredits  float64  `json:"academic_credits" yaml:"academic_credits"`
	Techniques       []string `json:"techniques" yaml:"techniques"`
}

// HasTechnique reports whether tag is one of the project's techniques.
func (p Project) HasTechnique(tag string) bool {
	for _, t := range p.Techniques {
		if t == tag {
			return true
		}
	}
	return false
}

// TechniqueUsage is the summary of a project listed under a technique
type TechniqueUsage struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
