package style

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	yaml "gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes a mapping node keeping key order. Integer and float
// scalars become numbers, every other scalar is kept as text.
func (d *Description) UnmarshalYAML(node *yaml.Node) error {
	dd, err := descriptionFromNode(node)
	if err != nil {
		return err
	}
	*d = *dd
	return nil
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	return node
}

func descriptionFromNode(node *yaml.Node) (*Description, error) {
	node = resolveAlias(node)
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = resolveAlias(node.Content[0])
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: style description must be a mapping", node.Line)
	}

	d := New()
	for i := 0; i+1 < len(node.Content); i += 2 {
		kn, vn := resolveAlias(node.Content[i]), node.Content[i+1]
		if kn.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: style key must be a scalar", kn.Line)
		}
		if _, exists := d.Get(kn.Value); exists {
			return nil, fmt.Errorf("line %d: duplicate style key %q", kn.Line, kn.Value)
		}
		v, err := valueFromNode(vn)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", kn.Value, err)
		}
		d.Set(kn.Value, v)
	}
	return d, nil
}

func valueFromNode(node *yaml.Node) (Value, error) {
	node = resolveAlias(node)
	switch node.Kind {
	case yaml.MappingNode:
		d, err := descriptionFromNode(node)
		if err != nil {
			return Value{}, err
		}
		return Nested(d), nil
	case yaml.SequenceNode:
		vs := make([]Value, 0, len(node.Content))
		for _, item := range node.Content {
			v, err := valueFromNode(item)
			if err != nil {
				return Value{}, err
			}
			if !v.IsScalar() {
				return Value{}, fmt.Errorf("line %d: list items must be scalars", item.Line)
			}
			vs = append(vs, v)
		}
		return List(vs...), nil
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!int", "!!float":
			var n float64
			if err := node.Decode(&n); err != nil {
				return Value{}, fmt.Errorf("line %d: %w", node.Line, err)
			}
			return Number(n), nil
		case "!!null":
			return Value{}, fmt.Errorf("line %d: null style value", node.Line)
		default:
			return String(node.Value), nil
		}
	default:
		return Value{}, fmt.Errorf("line %d: unsupported yaml node", node.Line)
	}
}

// UnmarshalJSON decodes a JSON object keeping key order.
func (d *Description) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("style description must be a JSON object")
	}
	dd, err := decodeObject(dec)
	if err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after style description")
	}
	*d = *dd
	return nil
}

// decodeObject reads members after the opening brace.
func decodeObject(dec *json.Decoder) (*Description, error) {
	d := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}
		if _, exists := d.Get(key); exists {
			return nil, fmt.Errorf("duplicate style key %q", key)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		d.Set(key, v)
	}
	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return d, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	switch t := tok.(type) {
	case string:
		return String(t), nil
	case json.Number:
		n, err := strconv.ParseFloat(t.String(), 64)
		if err != nil {
			return Value{}, err
		}
		return Number(n), nil
	case json.Delim:
		switch t {
		case '{':
			d, err := decodeObject(dec)
			if err != nil {
				return Value{}, err
			}
			return Nested(d), nil
		case '[':
			var vs []Value
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				if !v.IsScalar() {
					return Value{}, errors.New("list items must be scalars")
				}
				vs = append(vs, v)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return List(vs...), nil
		}
	}
	return Value{}, fmt.Errorf("unsupported style value %v", tok)
}

// Named is a description with a caller chosen name.
type Named struct {
	Name        string
	Description *Description
}

// Sheet is an ordered set of named descriptions, the file format accepted
// by the command line tool:
//
//	button:
//	  color: red
//	  "&&:hover":
//	    color: blue
type Sheet []Named

// UnmarshalYAML decodes a mapping of names to descriptions keeping order.
func (s *Sheet) UnmarshalYAML(node *yaml.Node) error {
	node = resolveAlias(node)
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: style sheet must be a mapping of names to descriptions", node.Line)
	}
	seen := make(map[string]bool, len(node.Content)/2)
	sheet := make(Sheet, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		kn := resolveAlias(node.Content[i])
		if kn.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: style name must be a scalar", kn.Line)
		}
		if seen[kn.Value] {
			return fmt.Errorf("line %d: duplicate style name %q", kn.Line, kn.Value)
		}
		seen[kn.Value] = true
		d, err := descriptionFromNode(node.Content[i+1])
		if err != nil {
			return fmt.Errorf("style %q: %w", kn.Value, err)
		}
		sheet = append(sheet, Named{Name: kn.Value, Description: d})
	}
	*s = sheet
	return nil
}

// Get returns description called name or nil.
func (s Sheet) Get(name string) *Description {
	for _, n := range s {
		if n.Name == name {
			return n.Description
		}
	}
	return nil
}

// LoadSheet reads a YAML sheet. An empty input yields an empty sheet.
func LoadSheet(r io.Reader) (Sheet, error) {
	var s Sheet
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return Sheet{}, nil
		}
		return nil, fmt.Errorf("unable to decode style sheet: %w", err)
	}
	return s, nil
}
