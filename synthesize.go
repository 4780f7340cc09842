package sszero

import (
	"fmt"
	"math/big"
	"reflect"
	"sort"

	"go.uber.org/zap"

	"github.com/reoring/sszero/i18n"
)

// Synthesize returns the default value of t with override merged in.
//
// A nil override (or a nil entry anywhere inside it) means "absent" and
// yields the zero value of the corresponding type. Leaf overrides are checked
// by ValidateLeaf and returned verbatim. Vectors always have exactly Length
// entries, lists have one entry per supplied override element, and
// containers produce a Record holding every declared field in declaration
// order. Either the whole value is built or an error is returned; the
// override and the descriptor are never modified.
//
// Result values are uint64 or *big.Int for uints (see Uint.Native), bool,
// Bitfield, []byte, []any for vectors and lists, and Record for containers.
func Synthesize(t Type, override any, opts ...Options) (any, error) {
	s := &synth{opt: pickOptions(opts)}
	return s.run(t, override)
}

// SynthesizeWithMeta is Synthesize plus a PresenceMap telling which paths
// came from the override, which were defaulted and which override keys were
// ignored.
func SynthesizeWithMeta(t Type, override any, opts ...Options) (Decoded, error) {
	s := &synth{opt: pickOptions(opts), pm: PresenceMap{}}
	v, err := s.run(t, override)
	if err != nil {
		return Decoded{}, err
	}
	return Decoded{Value: v, Presence: s.pm}, nil
}

// task is one pending unit of work. Regular tasks synthesize t at path;
// assemble tasks pop n finished child values and build a sequence, or a
// Record when names is set.
type task struct {
	t        Type
	override any
	path     *pathRef
	depth    int

	assemble bool
	n        int
	names    []string
}

// synth evaluates a descriptor tree with an explicit stack instead of
// recursion, so stack use does not grow with schema depth. Children are
// pushed in reverse so they complete in declaration order, and each
// composite is constructed once its assemble task runs.
type synth struct {
	opt     Options
	pm      PresenceMap
	stack   []task
	results []any
}

func (s *synth) run(t Type, override any) (any, error) {
	s.stack = append(s.stack, task{t: t, override: override, path: rootPath()})
	for len(s.stack) > 0 {
		tk := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
		if tk.assemble {
			s.assemble(tk)
			continue
		}
		if err := s.step(tk); err != nil {
			return nil, err
		}
	}
	s.opt.Logger.Debug("synthesized value", zap.Stringer("kind", t.Kind()), zap.Bool("override", override != nil))
	return s.results[0], nil
}

func (s *synth) step(tk task) error {
	if s.opt.MaxDepth > 0 && tk.depth > s.opt.MaxDepth {
		iss := tk.path.Issue(CodeDepthExceeded, i18n.T(CodeDepthExceeded, nil), "maxDepth", s.opt.MaxDepth)
		iss.Hint = fmt.Sprintf("descriptor nests deeper than %d", s.opt.MaxDepth)
		return Issues{iss}
	}
	if nilDescriptor(tk.t) {
		return invalidDescriptor(tk.path, "nil descriptor")
	}
	switch d := tk.t.(type) {
	case *Uint, *Boolean, *BitVector, *BitList, *ByteVector, *ByteList:
		return s.leaf(tk)
	case *Vector:
		return s.vector(d, tk)
	case *List:
		return s.list(d, tk)
	case *Container:
		return s.container(d, tk)
	default:
		return unknownKind(tk.path, tk.t)
	}
}

func (s *synth) leaf(tk task) error {
	if tk.override == nil {
		s.mark(tk.path, PresenceDefaultApplied)
		s.push(zeroLeaf(tk.t))
		return nil
	}
	if err := validateLeaf(tk.t, tk.override, tk.path); err != nil {
		return err
	}
	s.mark(tk.path, PresenceSeen)
	s.push(tk.override)
	return nil
}

// zeroLeaf returns the zero value of a leaf descriptor. Bounded bit
// sequences default to a single zero bit when their limit allows it.
func zeroLeaf(t Type) any {
	switch d := t.(type) {
	case *Uint:
		if d.Native() {
			return uint64(0)
		}
		return new(big.Int)
	case *Boolean:
		return false
	case *BitVector:
		return NewBitfield(d.Length)
	case *BitList:
		if d.Limit == 0 {
			return NewBitfield(0)
		}
		return NewBitfield(1)
	case *ByteVector:
		return make([]byte, d.Length)
	case *ByteList:
		return []byte{}
	}
	return nil
}

func (s *synth) vector(d *Vector, tk task) error {
	items, err := s.sequence(tk)
	if err != nil {
		return err
	}
	s.stack = append(s.stack, task{assemble: true, n: d.Length})
	for i := d.Length - 1; i >= 0; i-- {
		var ov any
		if i < len(items) {
			ov = items[i]
		}
		s.stack = append(s.stack, task{t: d.Elem, override: ov, path: tk.path.index(i), depth: tk.depth + 1})
	}
	return nil
}

func (s *synth) list(d *List, tk task) error {
	items, err := s.sequence(tk)
	if err != nil {
		return err
	}
	if len(items) > d.Limit {
		return shapeIssue(tk.path, fmt.Sprintf("list holds %d elements, limit is %d", len(items), d.Limit), "limit", d.Limit, "got", len(items))
	}
	if len(items) == 0 {
		s.push([]any{})
		return nil
	}
	s.stack = append(s.stack, task{assemble: true, n: len(items)})
	for i := len(items) - 1; i >= 0; i-- {
		s.stack = append(s.stack, task{t: d.Elem, override: items[i], path: tk.path.index(i), depth: tk.depth + 1})
	}
	return nil
}

func (s *synth) container(d *Container, tk task) error {
	fields, err := s.mapping(tk)
	if err != nil {
		return err
	}
	if err := s.unknownKeys(d, fields, tk.path); err != nil {
		return err
	}
	names := make([]string, len(d.Fields))
	s.stack = append(s.stack, task{assemble: true, n: len(d.Fields), names: names})
	for i := len(d.Fields) - 1; i >= 0; i-- {
		f := d.Fields[i]
		names[i] = f.Name
		s.stack = append(s.stack, task{t: f.Type, override: fields[f.Name], path: tk.path.field(f.Name), depth: tk.depth + 1})
	}
	return nil
}

// unknownKeys applies the UnknownPolicy to override keys the container does
// not declare. Keys are visited in sorted order so issues are deterministic.
func (s *synth) unknownKeys(d *Container, fields map[string]any, p *pathRef) error {
	if len(fields) == 0 {
		return nil
	}
	declared := make(map[string]struct{}, len(d.Fields))
	for _, f := range d.Fields {
		declared[f.Name] = struct{}{}
	}
	var unknown []string
	for k := range fields {
		if _, ok := declared[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	if s.opt.Unknown == UnknownStrict {
		var iss Issues
		for _, k := range unknown {
			it := p.field(k).Issue(CodeShapeMismatch, i18n.T(CodeShapeMismatch, nil), "key", k)
			it.Hint = "field is not declared by the container"
			iss = AppendIssues(iss, it)
		}
		return iss
	}
	for _, k := range unknown {
		fp := p.field(k)
		s.mark(fp, PresenceIgnored)
		s.opt.Logger.Debug("ignoring undeclared override key", zap.String("path", fp.Pointer()))
	}
	return nil
}

func (s *synth) assemble(tk task) {
	start := len(s.results) - tk.n
	done := s.results[start:]
	var v any
	if tk.names == nil {
		seq := make([]any, tk.n)
		copy(seq, done)
		v = seq
	} else {
		rec := make(Record, tk.n)
		for i := range rec {
			rec[i] = Entry{Name: tk.names[i], Value: done[i]}
		}
		v = rec
	}
	clear(done)
	s.results = append(s.results[:start], v)
}

// sequence narrows a vector or list override. A nil override yields no
// items; anything that is not a slice or array is a shape mismatch.
func (s *synth) sequence(tk task) ([]any, error) {
	if tk.override == nil {
		s.mark(tk.path, PresenceDefaultApplied)
		return nil, nil
	}
	items, ok := asSequence(tk.override)
	if !ok {
		return nil, shapeIssue(tk.path, "expected sequence", "got", typeName(tk.override))
	}
	s.mark(tk.path, PresenceSeen)
	return items, nil
}

// mapping narrows a container override. A nil override yields no fields;
// anything that is not a string-keyed map or a Record is a shape mismatch.
func (s *synth) mapping(tk task) (map[string]any, error) {
	if tk.override == nil {
		s.mark(tk.path, PresenceDefaultApplied)
		return nil, nil
	}
	m, ok := asMapping(tk.override)
	if !ok {
		return nil, shapeIssue(tk.path, "expected mapping", "got", typeName(tk.override))
	}
	s.mark(tk.path, PresenceSeen)
	return m, nil
}

// asSequence accepts []any and any other slice or array except Record and
// byte sequences of any named type, which are leaf representations.
func asSequence(v any) ([]any, bool) {
	switch items := v.(type) {
	case []any:
		return items, true
	case Record:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, false
		}
	default:
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

func asMapping(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Record:
		return m.Map(), true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

func shapeIssue(p PathRef, hint string, kv ...any) error {
	iss := p.Issue(CodeShapeMismatch, i18n.T(CodeShapeMismatch, nil), kv...)
	iss.Hint = hint
	return Issues{iss}
}

func (s *synth) push(v any) { s.results = append(s.results, v) }

func (s *synth) mark(p *pathRef, f Presence) {
	if s.pm != nil {
		s.pm[p.Pointer()] |= f
	}
}
