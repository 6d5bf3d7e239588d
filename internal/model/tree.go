package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Limits applied by ParseTree. YAML aliases are expanded at every use, so
// the node and text budgets bound the decoded tree rather than the input.
const (
	MaxParseDepth = 512
	MaxTreeNodes  = 1 << 20
	MaxTreeText   = 64 << 20
)

var (
	// ErrTooDeep is returned when a document nests deeper than MaxParseDepth
	ErrTooDeep = errors.New("document tree too deep")
	// ErrTooLarge is returned when a decoded document exceeds MaxTreeNodes
	// nodes or MaxTreeText bytes of text
	ErrTooLarge = errors.New("document tree too large")
	// ErrEmptyDocument is returned when the input holds no document at all
	ErrEmptyDocument = errors.New("empty document")
)

// TreeKind tags the variant held by a Tree
type TreeKind int

const (
	KindNull   TreeKind = iota // absent or null value
	KindString                 // text leaf
	KindList                   // ordered list of trees
	KindMap                    // ordered key -> tree mapping
)

// Tree is a document tree: a string, a list of trees or a keyed map of trees.
// Map fields keep the order they had in the source document.
type Tree struct {
	Kind   TreeKind
	Str    string
	Items  []Tree
	Fields []Field
}

// Field is one key/value entry of a map tree
type Field struct {
	Key   string
	Value Tree
}

// Str builds a text leaf
func Str(s string) Tree {
	return Tree{Kind: KindString, Str: s}
}

// List builds a list tree
func List(items ...Tree) Tree {
	return Tree{Kind: KindList, Items: items}
}

// Map builds a map tree from ordered fields
func Map(fields ...Field) Tree {
	return Tree{Kind: KindMap, Fields: fields}
}

// F is shorthand for a map field
func F(key string, value Tree) Field {
	return Field{Key: key, Value: value}
}

// IsEmpty reports whether the tree carries no content
func (t Tree) IsEmpty() bool {
	switch t.Kind {
	case KindString:
		return t.Str == ""
	case KindList:
		return len(t.Items) == 0
	case KindMap:
		return len(t.Fields) == 0
	default:
		return true
	}
}

// Get returns the value stored under key in a map tree
func (t Tree) Get(key string) (Tree, bool) {
	if t.Kind != KindMap {
		return Tree{}, false
	}
	for _, f := range t.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Tree{}, false
}

// Keys returns the keys of a map tree in document order
func (t Tree) Keys() []string {
	if t.Kind != KindMap {
		return nil
	}
	keys := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		keys[i] = f.Key
	}
	return keys
}

// TextSize returns the total length in bytes of every string leaf
func (t Tree) TextSize() int {
	switch t.Kind {
	case KindString:
		return len(t.Str)
	case KindList:
		n := 0
		for _, item := range t.Items {
			n += item.TextSize()
		}
		return n
	case KindMap:
		n := 0
		for _, f := range t.Fields {
			n += f.Value.TextSize()
		}
		return n
	default:
		return 0
	}
}

// MarshalJSON encodes the tree preserving map key order
func (t Tree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := t.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (t Tree) writeJSON(buf *bytes.Buffer) error {
	switch t.Kind {
	case KindString:
		b, err := json.Marshal(t.Str)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindList:
		buf.WriteByte('[')
		for i, item := range t.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		buf.WriteByte('{')
		for i, f := range t.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(f.Key)
			if err != nil {
				return err
			}
			buf.Write(k)
			buf.WriteByte(':')
			if err := f.Value.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		buf.WriteString("null")
	}
	return nil
}

// ParseTree decodes a JSON or YAML document into a Tree.
// JSON is handled by the YAML decoder, which keeps mapping order.
func ParseTree(data []byte) (Tree, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Tree{}, ErrEmptyDocument
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Tree{}, fmt.Errorf("decode document: %w", err)
	}

	d := &treeDecoder{nodes: MaxTreeNodes, text: MaxTreeText}
	return d.fromNode(&root, 0)
}

// treeDecoder converts yaml nodes while spending a node and text budget
type treeDecoder struct {
	nodes int
	text  int
}

func (d *treeDecoder) spend(text int) error {
	d.nodes--
	d.text -= text
	if d.nodes < 0 || d.text < 0 {
		return ErrTooLarge
	}
	return nil
}

func (d *treeDecoder) fromNode(n *yaml.Node, depth int) (Tree, error) {
	if depth > MaxParseDepth {
		return Tree{}, ErrTooDeep
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Tree{}, nil
		}
		return d.fromNode(n.Content[0], depth+1)
	case yaml.AliasNode:
		if n.Alias == nil {
			return Tree{}, nil
		}
		return d.fromNode(n.Alias, depth+1)
	case yaml.ScalarNode:
		if err := d.spend(len(n.Value)); err != nil {
			return Tree{}, err
		}
		if n.Tag == "!!null" {
			return Tree{}, nil
		}
		return Str(n.Value), nil
	case yaml.SequenceNode:
		if err := d.spend(0); err != nil {
			return Tree{}, err
		}
		items := make([]Tree, 0, len(n.Content))
		for _, c := range n.Content {
			item, err := d.fromNode(c, depth+1)
			if err != nil {
				return Tree{}, err
			}
			items = append(items, item)
		}
		return List(items...), nil
	case yaml.MappingNode:
		if err := d.spend(0); err != nil {
			return Tree{}, err
		}
		fields := make([]Field, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			if err := d.spend(len(key)); err != nil {
				return Tree{}, err
			}
			value, err := d.fromNode(n.Content[i+1], depth+1)
			if err != nil {
				return Tree{}, err
			}
			fields = append(fields, F(key, value))
		}
		return Map(fields...), nil
	default:
		return Tree{}, nil
	}
}

// TreeFromValue converts decoded Go values (map[string]any, []any, string)
// into a Tree. Go maps carry no order, so their keys are sorted.
func TreeFromValue(v any) Tree {
	return treeFromValue(v, 0)
}

func treeFromValue(v any, depth int) Tree {
	if depth > MaxParseDepth {
		return Tree{}
	}

	switch val := v.(type) {
	case nil:
		return Tree{}
	case Tree:
		return val
	case string:
		return Str(val)
	case []any:
		items := make([]Tree, 0, len(val))
		for _, item := range val {
			items = append(items, treeFromValue(item, depth+1))
		}
		return List(items...)
	case []string:
		items := make([]Tree, 0, len(val))
		for _, item := range val {
			items = append(items, Str(item))
		}
		return List(items...)
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]Field, 0, len(keys))
		for _, k := range keys {
			fields = append(fields, F(k, treeFromValue(val[k], depth+1)))
		}
		return Map(fields...)
	case map[string]string:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]Field, 0, len(keys))
		for _, k := range keys {
			fields = append(fields, F(k, Str(val[k])))
		}
		return Map(fields...)
	default:
		return Str(fmt.Sprint(val))
	}
}
