package openapischema

import (
	"sort"
)

// Field describes one top-level property of an object schema, in the order
// prompts and listings should present them.
type Field struct {
	Name        string
	Title       string
	Description string
	Type        string
	Format      string
	Required    bool
	Enum        []any
	Secret      bool
}

// Fields lists the object properties of the schema. Required properties come
// first, then the rest, each group sorted by name.
func (s *Schema[T]) Fields() []Field {
	if s.root == nil || len(s.root.Properties) == 0 {
		return nil
	}

	required := make(map[string]bool, len(s.root.Required))
	for _, name := range s.root.Required {
		required[name] = true
	}

	fields := make([]Field, 0, len(s.root.Properties))
	for name, ref := range s.root.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		prop := ref.Value
		field := Field{
			Name:        name,
			Title:       prop.Title,
			Description: prop.Description,
			Format:      prop.Format,
			Required:    required[name],
			Secret:      prop.Format == "password" || prop.WriteOnly,
		}
		if prop.Type != nil && len(prop.Type.Slice()) > 0 {
			field.Type = prop.Type.Slice()[0]
		}
		if len(prop.Enum) > 0 {
			field.Enum = append([]any(nil), prop.Enum...)
		}
		fields = append(fields, field)
	}

	sort.SliceStable(fields, func(i, j int) bool {
		if fields[i].Required != fields[j].Required {
			return fields[i].Required
		}
		return fields[i].Name < fields[j].Name
	})
	return fields
}
