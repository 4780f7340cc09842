package ir

// Package ir defines the syntax tree of type expressions read by the
// resolve package. This package is internal and not part of the public API.

// NodeKind identifies an IR node type.
type NodeKind int

const (
	NodeName NodeKind = iota
	NodeInt
	NodeGeneric
	NodeContainer
)

// Expr is the root IR node interface.
type Expr interface {
	Kind() NodeKind
	// Offset is the byte position of the node in the source expression.
	Offset() int
}

// Name is a bare identifier: a builtin such as "bool", "uint64" or
// "Bytes32", a representation word such as "native", or a user-defined
// type name.
type Name struct {
	Ident string
	Pos   int
}

func (n *Name) Kind() NodeKind { return NodeName }
func (n *Name) Offset() int    { return n.Pos }

// Int is a non-negative integer argument (a length or a limit).
type Int struct {
	Value int
	Pos   int
}

func (n *Int) Kind() NodeKind { return NodeInt }
func (n *Int) Offset() int    { return n.Pos }

// Generic is a parameterized expression such as List[uint8, 4].
type Generic struct {
	Head string
	Args []Expr
	Pos  int
}

func (g *Generic) Kind() NodeKind { return NodeGeneric }
func (g *Generic) Offset() int    { return g.Pos }

// Container is an inline record expression such as Container{a: uint8}.
// Fields keep their source order.
type Container struct {
	Fields []Field
	Pos    int
}

func (c *Container) Kind() NodeKind { return NodeContainer }
func (c *Container) Offset() int    { return c.Pos }

// Field maps a field name to its type expression.
type Field struct {
	Name string
	Type Expr
	Pos  int
}
