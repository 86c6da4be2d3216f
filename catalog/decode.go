package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/warna720/TDP003/models"
)

type format int

const (
	formatJSON format = iota
	formatYAML
)

// schemaError marks decode failures that are structural rather than syntactic.
type schemaError struct {
	index int
	msg   string
}

func (e *schemaError) Error() string {
	if e.index < 0 {
		return e.msg
	}
	return fmt.Sprintf("project %d: %s", e.index, e.msg)
}

func schemaErrorf(index int, msg string, args ...any) error {
	return &schemaError{index: index, msg: fmt.Sprintf(msg, args...)}
}

// parseDocument reads exactly one document in the given format into
// generic values. Trailing content is an error.
func parseDocument(f format, data []byte) (any, error) {
	var doc any
	switch f {
	case formatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		var root yaml.Node
		if err := dec.Decode(&root); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		var extra yaml.Node
		if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
			return nil, errors.New("parse yaml: more than one document")
		}
		v, err := fromYAML(&root, map[*yaml.Node]bool{})
		if err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		doc = v
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
		var extra any
		if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
			return nil, errors.New("parse json: trailing data after catalog")
		}
	}
	return doc, nil
}

// fromYAML turns a node tree into the generic values the JSON decoder
// produces, except that non-null scalars stay *yaml.Node so their source
// text survives. yaml.v3 would otherwise turn 2020-09-01 into a time.Time.
func fromYAML(n *yaml.Node, expanding map[*yaml.Node]bool) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromYAML(n.Content[0], expanding)
	case yaml.AliasNode:
		if expanding[n.Alias] {
			return nil, fmt.Errorf("line %d: alias %q refers to itself", n.Line, n.Value)
		}
		expanding[n.Alias] = true
		defer delete(expanding, n.Alias)
		return fromYAML(n.Alias, expanding)
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromYAML(c, expanding)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	case yaml.MappingNode:
		obj := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", key.Line)
			}
			if _, dup := obj[key.Value]; dup {
				return nil, fmt.Errorf("line %d: mapping key %q already defined", key.Line, key.Value)
			}
			v, err := fromYAML(n.Content[i+1], expanding)
			if err != nil {
				return nil, err
			}
			obj[key.Value] = v
		}
		return obj, nil
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return nil, nil
		}
		return n, nil
	default:
		return nil, fmt.Errorf("line %d: unexpected yaml node", n.Line)
	}
}

// typeName describes a decoded value in schema errors.
func typeName(v any) string {
	if n, ok := v.(*yaml.Node); ok {
		return n.ShortTag()
	}
	return fmt.Sprintf("%T", v)
}

// toProjects validates the generic document against the project schema.
// Every field is required and unknown fields are rejected.
func toProjects(doc any) ([]models.Project, error) {
	items, ok := doc.([]any)
	if !ok {
		return nil, schemaErrorf(-1, "catalog must be a list of projects, got %s", typeName(doc))
	}

	projects := make([]models.Project, 0, len(items))
	seen := make(map[int]bool, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, schemaErrorf(i, "expected an object, got %s", typeName(item))
		}
		p, err := toProject(i, obj)
		if err != nil {
			return nil, err
		}
		if seen[p.ID] {
			return nil, schemaErrorf(i, "duplicate id %d", p.ID)
		}
		seen[p.ID] = true
		projects = append(projects, p)
	}
	return projects, nil
}

func toProject(i int, obj map[string]any) (models.Project, error) {
	for key := range obj {
		// Legacy aliases are accepted in queries, not in the stored catalog.
		if f, ok := models.LookupField(key); !ok || f.Name != key {
			return models.Project{}, schemaErrorf(i, "unknown field %q", key)
		}
	}

	var p models.Project
	var err error
	if p.ID, err = intField(i, obj, "id"); err != nil {
		return p, err
	}
	if p.AcademicCredits, err = numberField(i, obj, "academic_credits"); err != nil {
		return p, err
	}
	if p.Techniques, err = tagsField(i, obj, "techniques"); err != nil {
		return p, err
	}

	texts := []struct {
		key string
		dst *string
	}{
		{"name", &p.Name},
		{"start_date", &p.StartDate},
		{"end_date", &p.EndDate},
		{"course_id", &p.CourseID},
		{"course_name", &p.CourseName},
		{"short_description", &p.ShortDescription},
		{"long_description", &p.LongDescription},
		{"external_link", &p.ExternalLink},
		{"small_image_path", &p.SmallImagePath},
		{"big_image_path", &p.BigImagePath},
	}
	for _, t := range texts {
		if *t.dst, err = stringField(i, obj, t.key); err != nil {
			return p, err
		}
	}
	return p, nil
}

func required(i int, obj map[string]any, key string) (any, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil, schemaErrorf(i, "missing field %q", key)
	}
	return v, nil
}

func stringField(i int, obj map[string]any, key string) (string, error) {
	v, err := required(i, obj, key)
	if err != nil {
		return "", err
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case *yaml.Node:
		// Any YAML scalar is text here: dates, course codes like 123, yes/no.
		return s.Value, nil
	default:
		return "", schemaErrorf(i, "field %q must be a string, got %T", key, v)
	}
}

func numberField(i int, obj map[string]any, key string) (float64, error) {
	v, err := required(i, obj, key)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, schemaErrorf(i, "field %q: %v", key, err)
		}
		return f, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float64:
		return n, nil
	case *yaml.Node:
		switch n.ShortTag() {
		case "!!int":
			var whole int64
			if err := n.Decode(&whole); err != nil {
				return 0, schemaErrorf(i, "field %q: %v", key, err)
			}
			return float64(whole), nil
		case "!!float":
			var f float64
			if err := n.Decode(&f); err != nil {
				return 0, schemaErrorf(i, "field %q: %v", key, err)
			}
			return f, nil
		}
		return 0, schemaErrorf(i, "field %q must be a number, got %s", key, n.ShortTag())
	default:
		return 0, schemaErrorf(i, "field %q must be a number, got %T", key, v)
	}
}

func intField(i int, obj map[string]any, key string) (int, error) {
	v, err := required(i, obj, key)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case json.Number:
		id, err := n.Int64()
		if err != nil || id < math.MinInt || id > math.MaxInt {
			return 0, schemaErrorf(i, "field %q must be an integer, got %s", key, n)
		}
		return int(id), nil
	case int:
		return n, nil
	case int64:
		if n < math.MinInt || n > math.MaxInt {
			return 0, schemaErrorf(i, "field %q out of range", key)
		}
		return int(n), nil
	case *yaml.Node:
		var id int64
		if n.ShortTag() != "!!int" || n.Decode(&id) != nil || id < math.MinInt || id > math.MaxInt {
			return 0, schemaErrorf(i, "field %q must be an integer, got %s %q", key, n.ShortTag(), n.Value)
		}
		return int(id), nil
	default:
		return 0, schemaErrorf(i, "field %q must be an integer, got %T", key, v)
	}
}

func tagsField(i int, obj map[string]any, key string) ([]string, error) {
	v, err := required(i, obj, key)
	if err != nil {
		return nil, err
	}
	list, ok := v.([]any)
	if !ok {
		return nil, schemaErrorf(i, "field %q must be a list of strings, got %s", key, typeName(v))
	}
	tags := make([]string, 0, len(list))
	for _, item := range list {
		tag, ok := item.(string)
		if n, isNode := item.(*yaml.Node); isNode && n.ShortTag() == "!!str" {
			tag, ok = n.Value, true
		}
		if !ok {
			return nil, schemaErrorf(i, "field %q must be a list of strings, got element %s", key, typeName(item))
		}
		if strings.TrimSpace(tag) == "" {
			return nil, schemaErrorf(i, "field %q contains an empty tag", key)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
