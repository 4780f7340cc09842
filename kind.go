package sszero

// Kind is the structural category of a type descriptor.
type Kind uint8

const (
	KindUint Kind = iota
	KindBool
	KindBitVector
	KindBitList
	KindByteVector
	KindByteList
	KindVector
	KindList
	KindContainer
)

var kindNames = [...]string{
	KindUint:       "uint",
	KindBool:       "bool",
	KindBitVector:  "bitvector",
	KindBitList:    "bitlist",
	KindByteVector: "bytevector",
	KindByteList:   "bytelist",
	KindVector:     "vector",
	KindList:       "list",
	KindContainer:  "container",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsLeaf reports whether values of this kind are validated as a whole
// rather than decomposed into elements or fields.
func (k Kind) IsLeaf() bool {
	return k <= KindByteList
}
