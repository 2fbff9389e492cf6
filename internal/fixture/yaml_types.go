package fixture

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML implements custom YAML unmarshaling for StringOrArray.
// Accepts either a single string or an array of strings.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		err := node.Decode(&str)
		if err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string

		err := node.Decode(&arr)
		if err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("expected string or array, got %v", node.Kind)
	}
}

// Contains returns true if the array contains the given string.
func (s StringOrArray) Contains(str string) bool {
	return slices.Contains(s, str)
}

// UnmarshalYAML implements custom YAML unmarshaling for FieldList.
// Accepts:
//   - Mapping: {inner: P, label: "&'static str"}
//   - List: [{name: inner, type: P}]
func (f *FieldList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		fields := make(FieldList, 0, len(node.Content)/2)

		for i := 0; i+1 < len(node.Content); i += 2 {
			var fd FieldDef

			if err := node.Content[i].Decode(&fd.Name); err != nil {
				return err
			}

			if err := node.Content[i+1].Decode(&fd.Type); err != nil {
				return fmt.Errorf("field %q: %w", fd.Name, err)
			}

			fields = append(fields, fd)
		}

		*f = fields

		return nil

	case yaml.SequenceNode:
		var fields []FieldDef

		if err := node.Decode(&fields); err != nil {
			return err
		}

		*f = fields

		return nil

	default:
		return fmt.Errorf("expected mapping or list of fields, got %v", node.Kind)
	}
}

// Names returns the field names in order.
func (f FieldList) Names() []string {
	names := make([]string, len(f))
	for i, fd := range f {
		names[i] = fd.Name
	}

	return names
}
