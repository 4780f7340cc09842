package sszero

import (
	"fmt"
	"strconv"
	"strings"
)

// PathRef builds JSON Pointer paths in a chain-safe way and creates Issues.
// Segments are kept as a parent chain and rendered only when Pointer is
// called, so building paths for every visited node stays cheap.
type PathRef interface {
	Field(name string) PathRef
	Index(i int) PathRef
	Pointer() string
	Issue(code, msg string, kv ...any) Issue
}

type pathRef struct {
	parent *pathRef
	seg    string
	depth  int
}

var root = &pathRef{}

func rootPath() *pathRef { return root }

// RootPath returns the PathRef of the top-level value.
func RootPath() PathRef { return root }

func (p *pathRef) Field(name string) PathRef { return p.field(name) }

func (p *pathRef) Index(i int) PathRef { return p.index(i) }

func (p *pathRef) field(name string) *pathRef {
	// escape '~' -> '~0', '/' -> '~1' per RFC6901
	esc := strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
	return &pathRef{parent: p, seg: esc, depth: p.depth + 1}
}

func (p *pathRef) index(i int) *pathRef {
	return &pathRef{parent: p, seg: strconv.Itoa(i), depth: p.depth + 1}
}

func (p *pathRef) Pointer() string {
	if p.depth == 0 {
		return "/"
	}
	parts := make([]string, p.depth)
	for cur := p; cur.depth > 0; cur = cur.parent {
		parts[cur.depth-1] = cur.seg
	}
	return "/" + strings.Join(parts, "/")
}

func (p *pathRef) Issue(code, msg string, kv ...any) Issue {
	var m map[string]any
	if len(kv) > 1 {
		m = make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			m[fmt.Sprint(kv[i])] = kv[i+1]
		}
	}
	return Issue{Path: p.Pointer(), Code: code, Message: msg, Params: m}
}
