package schema

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/weso/pschema-go/ident"
)

// yamlDocument is the on-disk form of a shape registry:
//
//	shapes:
//	  - name: IsHuman
//	    rules:
//	      - predicate: P31
//	        value: Q5
//	  - name: NotMale
//	    rules:
//	      - predicate: P21
//	        value: Q6581097
//	        polarity: exclusive
//
// Each rule names exactly one of value, shape, or any; polarity defaults
// to inclusive.
type yamlDocument struct {
	Shapes []yamlShape `yaml:"shapes"`
}

type yamlShape struct {
	Name  string     `yaml:"name"`
	Rules []yamlRule `yaml:"rules"`
}

type yamlRule struct {
	Predicate string `yaml:"predicate"`
	Value     string `yaml:"value,omitempty"`
	Shape     string `yaml:"shape,omitempty"`
	Any       bool   `yaml:"any,omitempty"`
	Polarity  string `yaml:"polarity,omitempty"`
}

// ParseYAML decodes a shape document and registers every shape it defines.
// Decode and target-form problems surface as ErrBadDocument; registration
// problems keep their usual kinds (ErrBadRule, ErrDuplicateShape).
func ParseYAML(data []byte) (*Registry, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDocument, err)
	}
	if len(doc.Shapes) == 0 {
		return nil, fmt.Errorf("%w: no shapes defined", ErrBadDocument)
	}
	reg := NewRegistry()
	for _, ys := range doc.Shapes {
		rules := make([]Rule, 0, len(ys.Rules))
		for i, yr := range ys.Rules {
			rule, err := yr.toRule()
			if err != nil {
				return nil, fmt.Errorf("%w: shape %q rule %d: %v", ErrBadDocument, ys.Name, i, err)
			}
			rules = append(rules, rule)
		}
		if err := reg.Register(NewShape(ys.Name, rules...)); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// LoadYAML reads and parses a shape document from disk.
func LoadYAML(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %q: %w", path, err)
	}
	return ParseYAML(data)
}

// EncodeYAML renders the registry back into document form, shapes sorted
// by name. ParseYAML(EncodeYAML(r)) reproduces r exactly.
func EncodeYAML(r *Registry) ([]byte, error) {
	doc := yamlDocument{Shapes: make([]yamlShape, 0, r.Len())}
	for _, name := range r.Names() {
		s := r.shapes[name]
		ys := yamlShape{Name: name, Rules: make([]yamlRule, 0, len(s.Rules))}
		for _, rule := range s.Rules {
			yr := yamlRule{Predicate: string(rule.Predicate)}
			switch rule.Kind {
			case TargetValue:
				yr.Value = string(rule.Value)
			case TargetShape:
				yr.Shape = rule.Shape
			case TargetAny:
				yr.Any = true
			}
			if rule.Polarity == Exclusive {
				yr.Polarity = Exclusive.String()
			}
			ys.Rules = append(ys.Rules, yr)
		}
		doc.Shapes = append(doc.Shapes, ys)
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDocument, err)
	}
	return out, nil
}

func (yr yamlRule) toRule() (Rule, error) {
	var pol Polarity
	switch yr.Polarity {
	case "", Inclusive.String():
		pol = Inclusive
	case Exclusive.String():
		pol = Exclusive
	default:
		return Rule{}, fmt.Errorf("unknown polarity %q", yr.Polarity)
	}

	targets := 0
	if yr.Value != "" {
		targets++
	}
	if yr.Shape != "" {
		targets++
	}
	if yr.Any {
		targets++
	}
	if targets != 1 {
		return Rule{}, errors.New("rule must set exactly one of value, shape, any")
	}

	switch {
	case yr.Value != "":
		return Rule{Predicate: ident.ID(yr.Predicate), Kind: TargetValue, Value: ident.ID(yr.Value), Polarity: pol}, nil
	case yr.Shape != "":
		return Rule{Predicate: ident.ID(yr.Predicate), Kind: TargetShape, Shape: yr.Shape, Polarity: pol}, nil
	default:
		return Rule{Predicate: ident.ID(yr.Predicate), Kind: TargetAny, Polarity: pol}, nil
	}
}
