// Package codec turns YAML, JSON and TOML documents into fractal records
// while keeping the document's field order, and writes records back as YAML.
//
// Decoding works on byte slices only; reading files is left to the caller.
package codec

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	fractal "github.com/goliatone/go-fractal"
	"gopkg.in/yaml.v3"
)

// ErrNotRecord indicates a document whose root is not a mapping.
var ErrNotRecord = errors.New("codec: document root is not a mapping")

// DecodeYAML parses a single YAML document into a record.
func DecodeYAML(data []byte) (*fractal.Record, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("codec: parse yaml: %w", err)
	}
	if doc.Kind == 0 {
		return fractal.NewRecord(), nil
	}
	return DecodeYAMLNode(&doc)
}

// DecodeJSON parses a JSON object into a record. JSON is read through the YAML
// parser, which accepts it as a subset and keeps key order.
func DecodeJSON(data []byte) (*fractal.Record, error) {
	return DecodeYAML(data)
}

// DecodeYAMLNode converts a parsed YAML node whose root is a mapping.
func DecodeYAMLNode(node *yaml.Node) (*fractal.Record, error) {
	if node == nil {
		return nil, ErrNotRecord
	}
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return fractal.NewRecord(), nil
		}
		node = node.Content[0]
	}
	value, err := valueFromNode(node)
	if err != nil {
		return nil, err
	}
	if value.Kind() != fractal.KindRecord {
		return nil, ErrNotRecord
	}
	return value.Record(), nil
}

func valueFromNode(node *yaml.Node) (fractal.Value, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return fractal.Null(), nil
		}
		return valueFromNode(node.Content[0])
	case yaml.AliasNode:
		return valueFromNode(node.Alias)
	case yaml.MappingNode:
		record := fractal.NewRecord()
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if key.Kind != yaml.ScalarNode {
				return fractal.Value{}, fmt.Errorf("codec: line %d: mapping key must be a scalar", key.Line)
			}
			if key.ShortTag() == "!!merge" {
				if err := mergeKey(record, node.Content[i+1]); err != nil {
					return fractal.Value{}, err
				}
				continue
			}
			value, err := valueFromNode(node.Content[i+1])
			if err != nil {
				return fractal.Value{}, err
			}
			record.Set(key.Value, value)
		}
		return fractal.Nested(record), nil
	case yaml.SequenceNode:
		items := make([]fractal.Value, len(node.Content))
		for i, child := range node.Content {
			item, err := valueFromNode(child)
			if err != nil {
				return fractal.Value{}, err
			}
			items[i] = item
		}
		return fractal.Sequence(items...), nil
	case yaml.ScalarNode:
		return scalarFromNode(node)
	default:
		return fractal.Value{}, fmt.Errorf("codec: line %d: unsupported yaml node kind %d", node.Line, node.Kind)
	}
}

// mergeKey applies a YAML "<<" merge key: fields not yet set are copied from
// the referenced mapping(s).
func mergeKey(record *fractal.Record, node *yaml.Node) error {
	sources := []*yaml.Node{node}
	if node.Kind == yaml.SequenceNode {
		sources = node.Content
	}
	for _, source := range sources {
		value, err := valueFromNode(source)
		if err != nil {
			return err
		}
		if value.Kind() != fractal.KindRecord {
			return fmt.Errorf("codec: line %d: merge key must reference a mapping", source.Line)
		}
		for name, field := range value.Record().All() {
			if !record.Has(name) {
				record.Set(name, field)
			}
		}
	}
	return nil
}

func scalarFromNode(node *yaml.Node) (fractal.Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return fractal.Null(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return fractal.Value{}, fmt.Errorf("codec: line %d: %w", node.Line, err)
		}
		return fractal.Bool(b), nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			return fractal.Value{}, fmt.Errorf("codec: line %d: %w", node.Line, err)
		}
		return fractal.Int(i), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return fractal.Value{}, fmt.Errorf("codec: line %d: %w", node.Line, err)
		}
		return fractal.Float(f), nil
	case "!!timestamp":
		var t time.Time
		if err := node.Decode(&t); err != nil {
			return fractal.Value{}, fmt.Errorf("codec: line %d: %w", node.Line, err)
		}
		return fractal.Time(t), nil
	default:
		return fractal.String(node.Value), nil
	}
}

// EncodeYAML writes r as a YAML mapping in field order.
func EncodeYAML(r *fractal.Record) ([]byte, error) {
	node, err := NodeOf(r)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(node)
}

// NodeOf builds the YAML node tree for r.
func NodeOf(r *fractal.Record) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for name, value := range r.All() {
		child, err := nodeOfValue(value)
		if err != nil {
			return nil, fmt.Errorf("codec: field %q: %w", name, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
			child,
		)
	}
	return node, nil
}

func nodeOfValue(value fractal.Value) (*yaml.Node, error) {
	switch value.Kind() {
	case fractal.KindRecord:
		return NodeOf(value.Record())
	case fractal.KindSequence:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range value.Items() {
			child, err := nodeOfValue(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case fractal.KindScalar:
		return scalarNode(value.ScalarValue())
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}
}

func scalarNode(v any) (*yaml.Node, error) {
	switch typed := v.(type) {
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: typed}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(typed)}, nil
	case int64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(typed, 10)}, nil
	case float64:
		if math.IsInf(typed, 0) || math.IsNaN(typed) {
			break
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(typed, 'g', -1, 64)}, nil
	case time.Time:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!timestamp", Value: typed.Format(time.RFC3339Nano)}, nil
	}
	node := &yaml.Node{}
	if err := node.Encode(v); err != nil {
		return nil, err
	}
	return node, nil
}
