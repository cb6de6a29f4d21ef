package plugin

import (
	"fmt"
	"strings"

	"github.com/rendis/khimera/pkg/model"
	"github.com/rendis/khimera/pkg/schema"
	"github.com/rendis/khimera/pkg/spec"
	"gopkg.in/yaml.v3"
)

// Descriptor is the raw form of a plugin produced by a discovery
// collaborator. It decodes from YAML or JSON:
//
//	name: csv-tools
//	version: 0.3.0
//	contributions:
//	  author: Jane Doe
//	  commands:
//	    - {name: convert, group: csv}
//	    - {name: stats, group: csv}
type Descriptor struct {
	Name          string        `yaml:"name" json:"name"`
	Version       string        `yaml:"version" json:"version"`
	Contributions Contributions `yaml:"contributions" json:"contributions"`
}

// Contribution is the ordered list of raw values under one name.
type Contribution struct {
	Name   string
	Values []any
}

// Contributions keeps descriptor entries in document order.
type Contributions []Contribution

// UnmarshalYAML decodes a mapping of name to a single value or a sequence of
// values. A sequence always means several values; a single list-valued
// contribution is written as a one-element sequence.
func (c *Contributions) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*c = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: contributions must be a mapping", node.Line)
	}

	out := make(Contributions, 0, len(node.Content)/2)
	seen := make(map[string]int, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]

		var name string
		if err := key.Decode(&name); err != nil {
			return fmt.Errorf("line %d: contribution name: %w", key.Line, err)
		}
		if prev, dup := seen[name]; dup {
			return fmt.Errorf("line %d: contribution %q already declared on line %d", key.Line, name, prev)
		}
		seen[name] = key.Line

		values, err := decodeValues(val)
		if err != nil {
			return fmt.Errorf("line %d: contribution %q: %w", val.Line, name, err)
		}
		out = append(out, Contribution{Name: name, Values: values})
	}
	*c = out
	return nil
}

func decodeValues(node *yaml.Node) ([]any, error) {
	if node.Kind != yaml.SequenceNode {
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		return []any{v}, nil
	}
	values := make([]any, 0, len(node.Content))
	for _, item := range node.Content {
		var v any
		if err := item.Decode(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// ParseDescriptor decodes a YAML or JSON descriptor.
func ParseDescriptor(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, schema.NewError(schema.ErrCodeInvalidDescriptor, "parse descriptor").WithCause(err)
	}
	if err := d.check(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *Descriptor) check() error {
	if strings.TrimSpace(d.Name) == "" {
		return schema.NewError(schema.ErrCodeInvalidDescriptor, "descriptor name is empty")
	}
	return nil
}

// FromDescriptor builds a plugin bound to m. Values under names that m
// declares are decoded into the spec's value type; a value that fails to
// decode is kept raw so that validation reports it.
func FromDescriptor(d *Descriptor, m *model.Model) (*Plugin, error) {
	if d == nil {
		return nil, schema.NewError(schema.ErrCodeInvalidDescriptor, "descriptor is nil")
	}
	if err := d.check(); err != nil {
		return nil, err
	}

	p := New(d.Name, d.Version).Bind(m)
	for _, c := range d.Contributions {
		var s *spec.ComponentSpec
		if m != nil {
			s, _ = m.Spec(c.Name)
		}
		for _, raw := range c.Values {
			v := raw
			if s != nil {
				if decoded, err := spec.Decode(s.Kind(), raw); err == nil {
					v = decoded
				}
			}
			p.Add(c.Name, v)
		}
	}
	return p, nil
}
