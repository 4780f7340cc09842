package sszero

import (
	"bytes"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Entry is one named value of a Record.
type Entry struct {
	Name  string
	Value any
}

// Record is a synthesized container value. Entries appear in the order the
// container descriptor declares its fields.
type Record []Entry

// Get returns the value stored under name.
func (r Record) Get(name string) (any, bool) {
	for _, e := range r {
		if e.Name == name {
			return e.Value, true
		}
	}
	return nil, false
}

// Names lists the entry names in order.
func (r Record) Names() []string {
	out := make([]string, len(r))
	for i, e := range r {
		out[i] = e.Name
	}
	return out
}

// Map flattens the record into a map. Nested records are left as Records.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r))
	for _, e := range r {
		m[e.Name] = e.Value
	}
	return m
}

// MarshalJSON writes the record as a JSON object, keeping entry order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML writes the record as a YAML mapping, keeping entry order.
func (r Record) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range r {
		k := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Name}
		v := &yaml.Node{}
		if err := v.Encode(e.Value); err != nil {
			return nil, err
		}
		n.Content = append(n.Content, k, v)
	}
	return n, nil
}
