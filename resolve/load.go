package resolve

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// ErrSchemaShape is returned when a schema document is not a "types"
// mapping of names to expressions or field mappings.
var ErrSchemaShape = errors.New("resolve: malformed schema document")

// DuplicateKeyError reports a duplicate key found in a schema mapping with
// both the first occurrence position and the duplicate occurrence position.
type DuplicateKeyError struct {
	Key       string
	FirstLine int
	FirstCol  int
	Line      int
	Col       int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate schema key %q at %d:%d (first at %d:%d)", e.Key, e.Line, e.Col, e.FirstLine, e.FirstCol)
}

// LoadFile reads a schema file into a new registry. Files ending in .json
// or .jsonc are read as JSON with comments, anything else as YAML.
func LoadFile(path string) (*Registry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r := NewRegistry()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		err = r.LoadJSONC(b)
	default:
		err = r.LoadYAML(bytes.NewReader(b))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// LoadJSONC adds the definitions of a JSON schema document that may
// contain comments and trailing commas.
func (r *Registry) LoadJSONC(b []byte) error {
	return r.LoadYAML(bytes.NewReader(jsonc.ToJSON(b)))
}

// LoadYAML adds the definitions of a schema document:
//
//	types:
//	  Root: Bytes32
//	  Checkpoint:
//	    epoch: uint64
//	    root: Root
//
// A string value defines an alias or inline expression, a mapping value a
// container whose fields keep document order. Every definition is resolved
// before LoadYAML returns.
func (r *Registry) LoadYAML(rd io.Reader) error {
	var root yaml.Node
	if err := yaml.NewDecoder(rd).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty document", ErrSchemaShape)
		}
		return err
	}
	doc := &root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	if doc.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: line %d: top level must be a mapping", ErrSchemaShape, doc.Line)
	}
	types, err := lookup(doc, "types")
	if err != nil {
		return err
	}
	if types == nil {
		return fmt.Errorf("%w: missing \"types\"", ErrSchemaShape)
	}
	pairs, err := mappingPairs(types)
	if err != nil {
		return err
	}
	var defined []string
	for _, kv := range pairs {
		name, v := kv[0].Value, kv[1]
		switch v.Kind {
		case yaml.ScalarNode:
			err = r.Define(name, v.Value)
		case yaml.MappingNode:
			err = r.defineFields(name, v)
		default:
			err = fmt.Errorf("%w: line %d: %q must be a type expression or a field mapping", ErrSchemaShape, v.Line, name)
		}
		if err != nil {
			return err
		}
		defined = append(defined, name)
	}
	for _, name := range defined {
		if _, err := r.Resolve(name); err != nil {
			return fmt.Errorf("resolving %q: %w", name, err)
		}
	}
	return nil
}

func (r *Registry) defineFields(name string, n *yaml.Node) error {
	pairs, err := mappingPairs(n)
	if err != nil {
		return err
	}
	fields := make([]FieldDef, 0, len(pairs))
	for _, kv := range pairs {
		if kv[1].Kind != yaml.ScalarNode {
			return fmt.Errorf("%w: line %d: field %q of %q must be a type expression", ErrSchemaShape, kv[1].Line, kv[0].Value, name)
		}
		fields = append(fields, FieldDef{Name: kv[0].Value, Expr: kv[1].Value})
	}
	return r.DefineContainer(name, fields)
}

// mappingPairs returns the key/value node pairs of a mapping in document
// order, rejecting duplicate keys.
func mappingPairs(n *yaml.Node) ([][2]*yaml.Node, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: expected a mapping", ErrSchemaShape, n.Line)
	}
	out := make([][2]*yaml.Node, 0, len(n.Content)/2)
	first := make(map[string][2]int, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if pos, dup := first[k.Value]; dup {
			return nil, &DuplicateKeyError{Key: k.Value, FirstLine: pos[0], FirstCol: pos[1], Line: k.Line, Col: k.Column}
		}
		first[k.Value] = [2]int{k.Line, k.Column}
		out = append(out, [2]*yaml.Node{k, v})
	}
	return out, nil
}

func lookup(n *yaml.Node, key string) (*yaml.Node, error) {
	pairs, err := mappingPairs(n)
	if err != nil {
		return nil, err
	}
	for _, kv := range pairs {
		if kv[0].Value == key {
			return kv[1], nil
		}
	}
	return nil, nil
}
