package sexp

import (
	"strings"

	"github.com/rdatakit/rdata/format"
)

// Kind identifies the variant a Node holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindSymbol
	KindPairlist
	KindChar
	KindLogical
	KindInteger
	KindReal
	KindString
	KindRaw
	KindList
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "NULL"
	case KindSymbol:
		return "symbol"
	case KindPairlist:
		return "pairlist"
	case KindChar:
		return "char"
	case KindLogical:
		return "logical"
	case KindInteger:
		return "integer"
	case KindReal:
		return "double"
	case KindString:
		return "character"
	case KindRaw:
		return "raw"
	case KindList:
		return "list"
	case KindUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Attr is one entry of a node's ordered attribute map.
type Attr struct {
	Name  string
	Value *Node
}

// Pair is one (tag, value) cell of a decoded pairlist. Untagged cells have
// an empty Tag.
type Pair struct {
	Tag   string
	Value *Node
}

// Node is the generic decoded unit of the object graph. The populated
// payload fields depend on Kind. Nodes are transient: they live between
// decode and column mapping, never beyond the decode call. Nodes reached
// through the reference table may be shared; attributes are always owned by
// the node carrying them.
type Node struct {
	Kind Kind

	// Str holds the symbol name (KindSymbol), the string payload
	// (KindChar), or the wire tag name (KindUnsupported).
	Str string
	// Enc is the declared encoding of a KindChar payload.
	Enc format.Encoding
	// NA marks the NA string (KindChar only).
	NA bool

	// Ints backs both integer and logical vectors; logical vectors reuse
	// the integer NA sentinel so both wire modes land on one storage form.
	Ints  []int32
	Reals []float64
	// Chars holds the KindChar elements of a character vector. Elements
	// may be shared through the reference table.
	Chars []*Node
	Bytes []byte
	// Elems holds the elements of a generic list.
	Elems []*Node

	// Pairs holds a pairlist already walked into ordered entries.
	Pairs []Pair

	// Object mirrors the is-object flag bit (a class attribute follows).
	Object bool
	Attrs  []Attr
}

// Attr returns the named attribute's value, or nil when absent.
func (n *Node) Attr(name string) *Node {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value
		}
	}

	return nil
}

// Classes returns the node's class attribute as strings, nil when absent.
func (n *Node) Classes() []string {
	cls := n.Attr("class")
	if cls == nil || cls.Kind != KindString {
		return nil
	}
	out := make([]string, 0, len(cls.Chars))
	for _, c := range cls.Chars {
		if !c.NA {
			out = append(out, c.Text())
		}
	}

	return out
}

// HasClass reports whether the class attribute contains name.
func (n *Node) HasClass(name string) bool {
	for _, c := range n.Classes() {
		if c == name {
			return true
		}
	}

	return false
}

// Len returns the element count of a vector or list node, zero otherwise.
func (n *Node) Len() int {
	switch n.Kind {
	case KindLogical, KindInteger:
		return len(n.Ints)
	case KindReal:
		return len(n.Reals)
	case KindString:
		return len(n.Chars)
	case KindRaw:
		return len(n.Bytes)
	case KindList:
		return len(n.Elems)
	case KindPairlist:
		return len(n.Pairs)
	default:
		return 0
	}
}

// Text returns the string payload of a KindChar or KindSymbol node as
// UTF-8, transcoding Latin-1 payloads. Byte-encoded and NA strings come
// back verbatim and empty respectively.
func (n *Node) Text() string {
	if n.NA {
		return ""
	}
	if n.Enc == format.EncodingLatin1 {
		return latin1ToUTF8(n.Str)
	}

	return n.Str
}

func latin1ToUTF8(s string) string {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) * 2)
	for i := 0; i < len(s); i++ {
		b.WriteRune(rune(s[i]))
	}

	return b.String()
}
