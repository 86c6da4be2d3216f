package models

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Kind says how a field takes part in free-text matching
type Kind int

const (
	KindText Kind = iota
	KindNumeric
	KindCollection
)

// String returns the string representation of the Kind
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumeric:
		return "numeric"
	case KindCollection:
		return "collection"
	default:
		return "unknown"
	}
}

// Field describes one searchable and sortable attribute of a Project.
type Field struct {
	Name    string
	Kind    Kind
	Aliases []string

	// Text renders the value for substring matching.
	Text func(Project) string
	// Compare orders two projects by the value using its natural type.
	Compare func(a, b Project) int
}

func textField(name string, get func(Project) string, aliases ...string) Field {
	return Field{
		Name:    name,
		Kind:    KindText,
		Aliases: aliases,
		Text:    get,
		Compare: func(a, b Project) int { return strings.Compare(get(a), get(b)) },
	}
}

var fields = []Field{
	{
		Name:    "id",
		Kind:    KindNumeric,
		Aliases: []string{"project_no"},
		Text:    func(p Project) string { return strconv.Itoa(p.ID) },
		Compare: func(a, b Project) int { return cmp.Compare(a.ID, b.ID) },
	},
	textField("name", func(p Project) string { return p.Name }, "project_name"),
	textField("start_date", func(p Project) string { return p.StartDate }),
	textField("end_date", func(p Project) string { return p.EndDate }),
	textField("course_id", func(p Project) string { return p.CourseID }),
	textField("course_name", func(p Project) string { return p.CourseName }),
	{
		Name:    "techniques",
		Kind:    KindCollection,
		Aliases: []string{"techniques_used"},
		Text:    func(p Project) string { return strings.Join(p.Techniques, ", ") },
		Compare: func(a, b Project) int { return slices.Compare(a.Techniques, b.Techniques) },
	},
	textField("short_description", func(p Project) string { return p.ShortDescription }),
	textField("long_description", func(p Project) string { return p.LongDescription }),
	textField("small_image_path", func(p Project) string { return p.SmallImagePath }, "small_image"),
	textField("big_image_path", func(p Project) string { return p.BigImagePath }, "big_image"),
	textField("external_link", func(p Project) string { return p.ExternalLink }),
	{
		Name:    "academic_credits",
		Kind:    KindNumeric,
		Text:    func(p Project) string { return FormatCredits(p.AcademicCredits) },
		Compare: func(a, b Project) int { return cmp.Compare(a.AcademicCredits, b.AcademicCredits) },
	},
}

var fieldsByName = func() map[string]Field {
	m := make(map[string]Field, len(fields)*2)
	for _, f := range fields {
		m[f.Name] = f
		for _, alias := range f.Aliases {
			m[alias] = f
		}
	}
	return m
}()

// Fields returns every project field in declaration order.
func Fields() []Field {
	return slices.Clone(fields)
}

// FieldNames returns the canonical name of every project field.
func FieldNames() []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// LookupField resolves a canonical field name or a legacy alias.
func LookupField(name string) (Field, bool) {
	f, ok := fieldsByName[name]
	return f, ok
}

// FormatCredits renders credits the way the catalog has always displayed
// them: integral values keep a trailing ".0".
func FormatCredits(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") && !math.IsInf(v, 0) && !math.IsNaN(v) {
		s += ".0"
	}
	return s
}
