package resolve

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/reoring/sszero"
	"github.com/reoring/sszero/internal/ir"
)

var (
	// ErrUnknownType is returned when a reference names no builtin and no
	// defined type.
	ErrUnknownType = errors.New("resolve: unknown type")
	// ErrCycle is returned when named types refer to each other without
	// end.
	ErrCycle = errors.New("resolve: reference cycle")
	// ErrDuplicateType is returned when a name is defined twice.
	ErrDuplicateType = errors.New("resolve: duplicate type name")
	// ErrReservedName is returned when a definition would shadow a builtin.
	ErrReservedName = errors.New("resolve: reserved type name")
	// ErrBadArguments is returned when a parameterized type gets the wrong
	// arguments.
	ErrBadArguments = errors.New("resolve: bad type arguments")
)

// FieldDef is one field of a container definition, with its type written as
// a type expression.
type FieldDef struct {
	Name string
	Expr string
}

// Registry maps type names to type expressions and resolves references into
// canonical descriptors. Resolved descriptors are cached and shared; they
// must not be modified. A Registry is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	defs  map[string]ir.Expr
	src   map[string]string
	order []string
	cache map[string]sszero.Type
}

// NewRegistry returns an empty registry. Builtins are always available.
func NewRegistry() *Registry {
	return &Registry{
		defs:  map[string]ir.Expr{},
		src:   map[string]string{},
		cache: map[string]sszero.Type{},
	}
}

var _ sszero.Resolver = (*Registry)(nil)

// Define binds name to a type expression. References inside expr are
// resolved lazily, so definitions may appear in any order.
func (r *Registry) Define(name, expr string) error {
	e, err := ParseExpr(expr)
	if err != nil {
		return fmt.Errorf("defining %q: %w", name, err)
	}
	return r.define(name, e, expr)
}

// DefineContainer binds name to a container whose fields keep the given
// order.
func (r *Registry) DefineContainer(name string, fields []FieldDef) error {
	c := &ir.Container{}
	parts := make([]string, len(fields))
	for i, f := range fields {
		e, err := ParseExpr(f.Expr)
		if err != nil {
			return fmt.Errorf("defining %q field %q: %w", name, f.Name, err)
		}
		c.Fields = append(c.Fields, ir.Field{Name: f.Name, Type: e})
		parts[i] = f.Name + ": " + f.Expr
	}
	return r.define(name, c, "Container{"+strings.Join(parts, ", ")+"}")
}

func (r *Registry) define(name string, e ir.Expr, src string) error {
	if !validName(name) {
		return fmt.Errorf("%w: %q is not an identifier", ErrReservedName, name)
	}
	if isBuiltin(name) {
		return fmt.Errorf("%w: %q", ErrReservedName, name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.defs[name]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateType, name)
	}
	r.defs[name] = e
	r.src[name] = src
	r.order = append(r.order, name)
	clear(r.cache)
	sszero.Logger().Debug("defined type", zap.String("name", name), zap.String("expr", src))
	return nil
}

// Names lists the defined names in definition order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Expr returns the source expression a name was defined with.
func (r *Registry) Expr(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.src[name]
	return s, ok
}

// Resolve turns a defined name or an inline type expression into a
// checked descriptor. Equal references yield the same descriptor.
func (r *Registry) Resolve(ref string) (sszero.Type, error) {
	r.mu.RLock()
	t, ok := r.cache[ref]
	r.mu.RUnlock()
	if ok {
		return t, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.cache[ref]; ok {
		return t, nil
	}
	l := &lowering{defs: r.defs, done: r.cache, visiting: map[string]bool{}}
	if _, ok := r.defs[ref]; ok {
		return l.named(ref)
	}
	e, err := ParseExpr(ref)
	if err != nil {
		return nil, err
	}
	t, err = l.lower(e)
	if err != nil {
		return nil, err
	}
	if err := sszero.Check(t); err != nil {
		return nil, fmt.Errorf("type %q: %w", ref, err)
	}
	r.cache[ref] = t
	return t, nil
}

// lowering converts syntax trees into descriptors. done caches named types
// already lowered and checked; visiting holds the names currently being
// lowered, in order, to report cycles.
type lowering struct {
	defs     map[string]ir.Expr
	done     map[string]sszero.Type
	visiting map[string]bool
	chain    []string
}

func (l *lowering) named(name string) (sszero.Type, error) {
	if t, ok := l.done[name]; ok {
		return t, nil
	}
	if l.visiting[name] {
		return nil, fmt.Errorf("%w: %s -> %s", ErrCycle, strings.Join(l.chain, " -> "), name)
	}
	l.visiting[name] = true
	l.chain = append(l.chain, name)
	t, err := l.lower(l.defs[name])
	l.chain = l.chain[:len(l.chain)-1]
	delete(l.visiting, name)
	if err != nil {
		return nil, err
	}
	if err := sszero.Check(t); err != nil {
		return nil, fmt.Errorf("type %q: %w", name, err)
	}
	l.done[name] = t
	return t, nil
}

func (l *lowering) lower(e ir.Expr) (sszero.Type, error) {
	switch n := e.(type) {
	case *ir.Name:
		if t, ok := builtinName(n.Ident); ok {
			return t, nil
		}
		if _, ok := l.defs[n.Ident]; ok {
			return l.named(n.Ident)
		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, n.Ident)
	case *ir.Generic:
		return l.generic(n)
	case *ir.Container:
		fields := make([]sszero.Field, len(n.Fields))
		for i, f := range n.Fields {
			t, err := l.lower(f.Type)
			if err != nil {
				return nil, err
			}
			fields[i] = sszero.Field{Name: f.Name, Type: t}
		}
		c, err := sszero.NewContainer(fields...)
		if err != nil {
			return nil, err
		}
		return c, nil
	case *ir.Int:
		return nil, fmt.Errorf("%w: integer %d where a type was expected", ErrBadArguments, n.Value)
	}
	return nil, fmt.Errorf("%w: unsupported expression", ErrBadArguments)
}

func (l *lowering) generic(g *ir.Generic) (sszero.Type, error) {
	switch g.Head {
	case "Uint":
		if len(g.Args) < 1 || len(g.Args) > 2 {
			return nil, badArgs(g, "Uint[bits] or Uint[bits, native|big|auto]")
		}
		bits, ok := g.Args[0].(*ir.Int)
		if !ok {
			return nil, badArgs(g, "bit width must be an integer")
		}
		u := &sszero.Uint{Bits: bits.Value}
		if len(g.Args) == 2 {
			w, ok := g.Args[1].(*ir.Name)
			if !ok {
				return nil, badArgs(g, "representation must be native, big or auto")
			}
			switch w.Ident {
			case "auto":
				u.Use = sszero.UseAuto
			case "native":
				u.Use = sszero.UseNative
			case "big":
				u.Use = sszero.UseBig
			default:
				return nil, badArgs(g, "representation must be native, big or auto")
			}
		}
		return u, nil
	case "Bitvector", "Bitlist", "ByteVector", "ByteList":
		n, err := sizeArg(g, 0, 1)
		if err != nil {
			return nil, err
		}
		switch g.Head {
		case "Bitvector":
			return &sszero.BitVector{Length: n}, nil
		case "Bitlist":
			return &sszero.BitList{Limit: n}, nil
		case "ByteVector":
			return &sszero.ByteVector{Length: n}, nil
		default:
			return &sszero.ByteList{Limit: n}, nil
		}
	case "Vector", "List":
		n, err := sizeArg(g, 1, 2)
		if err != nil {
			return nil, err
		}
		elem, err := l.lower(g.Args[0])
		if err != nil {
			return nil, err
		}
		if g.Head == "Vector" {
			return &sszero.Vector{Elem: elem, Length: n}, nil
		}
		return &sszero.List{Elem: elem, Limit: n}, nil
	}
	return nil, fmt.Errorf("%w: %q takes no arguments", ErrBadArguments, g.Head)
}

// sizeArg returns the integer argument at index i of a generic that takes
// exactly want arguments.
func sizeArg(g *ir.Generic, i, want int) (int, error) {
	if len(g.Args) != want {
		return 0, badArgs(g, fmt.Sprintf("expected %d argument(s), got %d", want, len(g.Args)))
	}
	n, ok := g.Args[i].(*ir.Int)
	if !ok {
		return 0, badArgs(g, "size must be an integer")
	}
	return n.Value, nil
}

func badArgs(g *ir.Generic, msg string) error {
	return fmt.Errorf("%w: %s at offset %d: %s", ErrBadArguments, g.Head, g.Pos, msg)
}

var builtinHeads = map[string]struct{}{
	"Uint": {}, "Bitvector": {}, "Bitlist": {}, "ByteVector": {}, "ByteList": {},
	"Vector": {}, "List": {}, "Container": {},
}

// builtinName resolves the bare builtin names: bool, byte, uintN and BytesN.
func builtinName(s string) (sszero.Type, bool) {
	switch s {
	case "bool", "boolean":
		return &sszero.Boolean{}, true
	case "byte":
		return &sszero.Uint{Bits: 8}, true
	}
	if n, ok := numberSuffix(s, "uint"); ok {
		return &sszero.Uint{Bits: n}, true
	}
	if n, ok := numberSuffix(s, "Bytes"); ok {
		return &sszero.ByteVector{Length: n}, true
	}
	return nil, false
}

func isBuiltin(s string) bool {
	if _, ok := builtinHeads[s]; ok {
		return true
	}
	_, ok := builtinName(s)
	return ok
}

func numberSuffix(s, prefix string) (int, bool) {
	rest, ok := strings.CutPrefix(s, prefix)
	if !ok || rest == "" {
		return 0, false
	}
	for i := 0; i < len(rest); i++ {
		if !isDigit(rest[i]) {
			return 0, false
		}
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

func validName(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentPart(s[i]) {
			return false
		}
	}
	return true
}
