package sszero

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/reoring/sszero/i18n"
)

// Type is a canonical, resolved type descriptor. The set of implementations
// is closed: *Uint, *Boolean, *BitVector, *BitList, *ByteVector, *ByteList,
// *Vector, *List and *Container. Descriptors are read-only once built and may
// be shared between goroutines.
type Type interface {
	Kind() Kind
}

// Use is the representation hint of an unsigned integer descriptor.
type Use int

const (
	UseAuto   Use = iota // native for widths up to 32 bits, arbitrary precision above
	UseNative            // always uint64
	UseBig               // always *big.Int
)

var useNames = [...]string{UseAuto: "auto", UseNative: "native", UseBig: "big"}

func (u Use) String() string {
	if u >= 0 && int(u) < len(useNames) {
		return useNames[u]
	}
	return "unknown"
}

// Uint is a fixed-width unsigned integer.
type Uint struct {
	Bits int
	Use  Use
}

// Boolean is a single bit truth value.
type Boolean struct{}

// BitVector is a bit sequence of exactly Length bits.
type BitVector struct {
	Length int
}

// BitList is a bit sequence of at most Limit bits.
type BitList struct {
	Limit int
}

// ByteVector is a byte sequence of exactly Length bytes.
type ByteVector struct {
	Length int
}

// ByteList is a byte sequence of at most Limit bytes.
type ByteList struct {
	Limit int
}

// Vector is a homogeneous sequence of exactly Length elements.
type Vector struct {
	Elem   Type
	Length int
}

// List is a homogeneous sequence of at most Limit elements.
type List struct {
	Elem  Type
	Limit int
}

// Field is a named member of a Container.
type Field struct {
	Name string
	Type Type
}

// Container is an ordered record of uniquely named fields.
type Container struct {
	Fields []Field
}

func (*Uint) Kind() Kind       { return KindUint }
func (*Boolean) Kind() Kind    { return KindBool }
func (*BitVector) Kind() Kind  { return KindBitVector }
func (*BitList) Kind() Kind    { return KindBitList }
func (*ByteVector) Kind() Kind { return KindByteVector }
func (*ByteList) Kind() Kind   { return KindByteList }
func (*Vector) Kind() Kind     { return KindVector }
func (*List) Kind() Kind       { return KindList }
func (*Container) Kind() Kind  { return KindContainer }

func (t *Uint) String() string       { return TypeString(t) }
func (t *Boolean) String() string    { return TypeString(t) }
func (t *BitVector) String() string  { return TypeString(t) }
func (t *BitList) String() string    { return TypeString(t) }
func (t *ByteVector) String() string { return TypeString(t) }
func (t *ByteList) String() string   { return TypeString(t) }
func (t *Vector) String() string     { return TypeString(t) }
func (t *List) String() string       { return TypeString(t) }
func (t *Container) String() string  { return TypeString(t) }

// Native reports whether values of u are represented as uint64 rather than
// *big.Int.
func (u *Uint) Native() bool {
	switch u.Use {
	case UseNative:
		return true
	case UseBig:
		return false
	default:
		return u.Bits <= 32
	}
}

// NewContainer builds a container, rejecting empty and duplicate field names.
func NewContainer(fields ...Field) (*Container, error) {
	seen := make(map[string]struct{}, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			return nil, invalidDescriptor(rootPath().Index(i), "empty field name")
		}
		if _, dup := seen[f.Name]; dup {
			return nil, invalidDescriptor(rootPath().Field(f.Name), "duplicate field name")
		}
		seen[f.Name] = struct{}{}
	}
	out := make([]Field, len(fields))
	copy(out, fields)
	return &Container{Fields: out}, nil
}

// MustContainer is like NewContainer but panics on error.
func MustContainer(fields ...Field) *Container {
	c, err := NewContainer(fields...)
	if err != nil {
		panic(err)
	}
	return c
}

// Field returns the declared type of the named field.
func (c *Container) Field(name string) (Type, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

// Check verifies that t honors the resolver contract: every node is one of
// the known kinds, widths and lengths are sane and container field names are
// unique. It walks the tree with an explicit stack.
func Check(t Type) error {
	type item struct {
		t    Type
		path PathRef
	}
	stack := []item{{t: t, path: rootPath()}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if nilDescriptor(it.t) {
			return invalidDescriptor(it.path, "nil descriptor")
		}
		switch d := it.t.(type) {
		case *Uint:
			if d.Bits <= 0 || d.Bits > 256 || d.Bits%8 != 0 {
				return invalidDescriptor(it.path, "uint width must be a multiple of 8 between 8 and 256", "bits", d.Bits)
			}
			if d.Use == UseNative && d.Bits > 64 {
				return invalidDescriptor(it.path, "native representation holds at most 64 bits", "bits", d.Bits)
			}
			if d.Use < UseAuto || d.Use > UseBig {
				return invalidDescriptor(it.path, "unknown representation hint", "use", int(d.Use))
			}
		case *Boolean:
		case *BitVector:
			if d.Length < 0 {
				return invalidDescriptor(it.path, "negative length", "length", d.Length)
			}
		case *BitList:
			if d.Limit < 0 {
				return invalidDescriptor(it.path, "negative limit", "limit", d.Limit)
			}
		case *ByteVector:
			if d.Length < 0 {
				return invalidDescriptor(it.path, "negative length", "length", d.Length)
			}
		case *ByteList:
			if d.Limit < 0 {
				return invalidDescriptor(it.path, "negative limit", "limit", d.Limit)
			}
		case *Vector:
			if d.Length < 0 {
				return invalidDescriptor(it.path, "negative length", "length", d.Length)
			}
			stack = append(stack, item{t: d.Elem, path: it.path.Index(0)})
		case *List:
			if d.Limit < 0 {
				return invalidDescriptor(it.path, "negative limit", "limit", d.Limit)
			}
			stack = append(stack, item{t: d.Elem, path: it.path.Index(0)})
		case *Container:
			seen := make(map[string]struct{}, len(d.Fields))
			for i := len(d.Fields) - 1; i >= 0; i-- {
				f := d.Fields[i]
				if f.Name == "" {
					return invalidDescriptor(it.path.Index(i), "empty field name")
				}
				if _, dup := seen[f.Name]; dup {
					return invalidDescriptor(it.path.Field(f.Name), "duplicate field name")
				}
				seen[f.Name] = struct{}{}
				stack = append(stack, item{t: f.Type, path: it.path.Field(f.Name)})
			}
		default:
			return unknownKind(it.path, it.t)
		}
	}
	return nil
}

// nilDescriptor reports a typed nil pointer such as (*Vector)(nil). An
// untyped nil is not a descriptor at all and is reported as an unknown kind.
func nilDescriptor(t Type) bool {
	if t == nil {
		return false
	}
	rv := reflect.ValueOf(t)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func invalidDescriptor(p PathRef, hint string, kv ...any) error {
	iss := p.Issue(CodeInvalidDescriptor, i18n.T(CodeInvalidDescriptor, nil), kv...)
	iss.Hint = hint
	return Issues{iss}
}

// TypeString renders t in the type expression syntax understood by the
// resolve package.
func TypeString(t Type) string {
	b := &strings.Builder{}
	writeType(b, t)
	return b.String()
}

func writeType(b *strings.Builder, t Type) {
	if nilDescriptor(t) {
		b.WriteString("<nil>")
		return
	}
	switch d := t.(type) {
	case *Uint:
		if d.Use == UseAuto {
			b.WriteString("uint")
			b.WriteString(strconv.Itoa(d.Bits))
			return
		}
		b.WriteString("Uint[")
		b.WriteString(strconv.Itoa(d.Bits))
		b.WriteString(", ")
		b.WriteString(d.Use.String())
		b.WriteByte(']')
	case *Boolean:
		b.WriteString("bool")
	case *BitVector:
		writeSized(b, "Bitvector", d.Length)
	case *BitList:
		writeSized(b, "Bitlist", d.Limit)
	case *ByteVector:
		writeSized(b, "ByteVector", d.Length)
	case *ByteList:
		writeSized(b, "ByteList", d.Limit)
	case *Vector:
		b.WriteString("Vector[")
		writeType(b, d.Elem)
		b.WriteString(", ")
		b.WriteString(strconv.Itoa(d.Length))
		b.WriteByte(']')
	case *List:
		b.WriteString("List[")
		writeType(b, d.Elem)
		b.WriteString(", ")
		b.WriteString(strconv.Itoa(d.Limit))
		b.WriteByte(']')
	case *Container:
		b.WriteString("Container{")
		for i, f := range d.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			b.WriteString(": ")
			writeType(b, f.Type)
		}
		b.WriteByte('}')
	default:
		b.WriteString("<unknown>")
	}
}

func writeSized(b *strings.Builder, name string, n int) {
	b.WriteString(name)
	b.WriteByte('[')
	b.WriteString(strconv.Itoa(n))
	b.WriteByte(']')
}
