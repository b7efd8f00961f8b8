package sexp

import (
	"errors"
	"io"
	"slices"

	"github.com/rdatakit/rdata/errs"
	"github.com/rdatakit/rdata/format"
	"github.com/rdatakit/rdata/internal/cursor"
)

const (
	// maxDepth bounds the recursion a hostile stream can force.
	maxDepth = 10000
	// maxVectorLen rejects length words beyond any plausible vector.
	maxVectorLen = int64(1) << 48
	// vectorBatch is the element granularity of incremental vector
	// allocation, so a lying count word runs the stream dry before it can
	// force a huge allocation.
	vectorBatch = 16 * 1024
	// maxPersistentStrings bounds the name part of namespace, package and
	// persistent records.
	maxPersistentStrings = 1 << 16
)

// Decoder reads serialized items from a cursor and resolves
// back-references through its per-decode reference table.
//
// A Decoder is single-use and not safe for concurrent use: it belongs to
// exactly one decode call, which keeps concurrent decodes of independent
// streams free of shared state.
type Decoder struct {
	cur     *cursor.Cursor
	version int
	refs    []*Node
	depth   int
}

// NewDecoder creates a Decoder for one stream. version is the
// serialization format version from the stream header.
func NewDecoder(cur *cursor.Cursor, version int) *Decoder {
	return &Decoder{cur: cur, version: version}
}

// ReadItem decodes one serialized item, recursively. Any failure aborts the
// decode with a positioned error; no partial results are returned.
func (d *Decoder) ReadItem() (*Node, error) {
	d.depth++
	defer func() { d.depth-- }()
	if d.depth > maxDepth {
		return nil, errs.At(d.cur.Offset(), errs.ErrMalformedRecord, "object graph deeper than %d levels", maxDepth)
	}

	start := d.cur.Offset()
	w, err := d.cur.ReadInt32()
	if err != nil {
		return nil, err
	}
	f := uint32(w)
	ty := int(f & flagTypeMask)

	switch ty {
	case tagNil, tagNilValue:
		return &Node{Kind: KindNull}, nil

	case tagRef:
		return d.readRef(f, start)

	case tagSymbol:
		return d.readSymbol(start)

	case tagPairlist:
		return d.readPairlist(f)

	case tagAttrPairlist:
		// Wire alias for a pairlist whose first cell carries attributes.
		return d.readPairlist(f | flagHasAttr)

	case tagChar:
		node, err := d.readChar(f)
		if err != nil {
			return nil, err
		}

		return d.finish(node, f)

	case tagLogical, tagInteger:
		n, err := d.readLength()
		if err != nil {
			return nil, err
		}
		ints, err := d.readInt32s(n)
		if err != nil {
			return nil, err
		}
		kind := KindInteger
		if ty == tagLogical {
			kind = KindLogical
		}

		return d.finish(&Node{Kind: kind, Ints: ints}, f)

	case tagReal:
		n, err := d.readLength()
		if err != nil {
			return nil, err
		}
		reals, err := d.readFloat64s(n)
		if err != nil {
			return nil, err
		}

		return d.finish(&Node{Kind: KindReal, Reals: reals}, f)

	case tagString:
		n, err := d.readLength()
		if err != nil {
			return nil, err
		}
		node, err := d.readStringVector(n)
		if err != nil {
			return nil, err
		}

		return d.finish(node, f)

	case tagList:
		n, err := d.readLength()
		if err != nil {
			return nil, err
		}
		node, err := d.readGenericList(n)
		if err != nil {
			return nil, err
		}

		return d.finish(node, f)

	case tagRaw:
		n, err := d.readLength()
		if err != nil {
			return nil, err
		}
		bytes, err := d.readRawVector(n)
		if err != nil {
			return nil, err
		}

		return d.finish(&Node{Kind: KindRaw, Bytes: bytes}, f)

	case tagAltrep:
		return d.readAltrep(start)

	case tagNamespace, tagPackage, tagPersist:
		return d.readPersistent(ty, start)

	case tagGlobalEnv, tagBaseEnv, tagEmptyEnv, tagBaseNamespace, tagMissingArg, tagUnboundValue:
		// Payload-less runtime markers: representable but not decodable
		// into values.
		return &Node{Kind: KindUnsupported, Str: tagName(ty)}, nil

	case tagClosure, tagEnvironment, tagPromise, tagLanguage, tagDots,
		tagSpecial, tagBuiltin, tagComplex, tagExpression, tagBytecode,
		tagExternalPtr, tagWeakRef, tagS4, tagAttrLanguage, tagBCRepDef,
		tagBCRepRef, tagGenericRef, tagClassRef, tagAny:
		return nil, errs.At(start, errs.ErrUnsupportedType, "cannot decode %s object", tagName(ty))

	default:
		return nil, errs.At(start, errs.ErrMalformedRecord, "invalid type tag %d", ty)
	}
}

// Refs returns the number of entries in the reference table.
func (d *Decoder) Refs() int {
	return len(d.refs)
}

// finish applies the flag bits that trail a payload: the is-object bit and
// the optional attribute pairlist. A tag bit outside a pairlist is a
// protocol violation.
func (d *Decoder) finish(node *Node, f uint32) (*Node, error) {
	if f&flagHasTag != 0 {
		return nil, errs.At(d.cur.Offset(), errs.ErrMalformedRecord, "unexpected tag flag on %s", node.Kind)
	}
	node.Object = f&flagIsObject != 0
	if f&flagHasAttr != 0 {
		attrs, err := d.readAttributes()
		if err != nil {
			return nil, err
		}
		node.Attrs = attrs
	}

	return node, nil
}

func (d *Decoder) readRef(f uint32, start int64) (*Node, error) {
	idx := int(f >> 8)
	if idx == 0 {
		w, err := d.cur.ReadInt32()
		if err != nil {
			return nil, err
		}
		idx = int(w)
	}
	if idx < 1 || idx > len(d.refs) {
		return nil, errs.At(start, errs.ErrMalformedRecord, "reference index %d outside table of %d entries", idx, len(d.refs))
	}

	return d.refs[idx-1], nil
}

func (d *Decoder) readSymbol(start int64) (*Node, error) {
	name, err := d.ReadItem()
	if err != nil {
		return nil, err
	}
	if name.Kind != KindChar || name.NA {
		return nil, errs.At(start, errs.ErrMalformedRecord, "symbol name is %s, want char", name.Kind)
	}

	sym := &Node{Kind: KindSymbol, Str: name.Text(), Enc: name.Enc}
	d.refs = append(d.refs, sym)

	return sym, nil
}

// readPairlist walks a chain of cells iteratively into ordered pairs. The
// wire order within each cell is attributes, tag, value; the chain ends at
// a NULL.
func (d *Decoder) readPairlist(f uint32) (*Node, error) {
	node := &Node{Kind: KindPairlist}
	flags := f
	first := true
	for {
		if flags&flagHasAttr != 0 {
			attrs, err := d.readAttributes()
			if err != nil {
				return nil, err
			}
			if first {
				node.Object = flags&flagIsObject != 0
				node.Attrs = attrs
			}
			// Attributes on interior cells have no representable home and
			// no known writer emits them; the bytes are consumed above.
		}

		var tag string
		if flags&flagHasTag != 0 {
			tagStart := d.cur.Offset()
			tn, err := d.ReadItem()
			if err != nil {
				return nil, err
			}
			if tn.Kind != KindSymbol {
				return nil, errs.At(tagStart, errs.ErrMalformedRecord, "pairlist tag is %s, want symbol", tn.Kind)
			}
			tag = tn.Str
		}

		car, err := d.ReadItem()
		if err != nil {
			return nil, err
		}
		node.Pairs = append(node.Pairs, Pair{Tag: tag, Value: car})
		first = false

		start := d.cur.Offset()
		w, err := d.cur.ReadInt32()
		if err != nil {
			return nil, err
		}
		nf := uint32(w)
		switch int(nf & flagTypeMask) {
		case tagPairlist:
			flags = nf
		case tagNil, tagNilValue:
			return node, nil
		default:
			return nil, errs.At(start, errs.ErrMalformedRecord,
				"pairlist continued by %s, want pairlist or NULL", tagName(int(nf&flagTypeMask)))
		}
	}
}

func (d *Decoder) readChar(f uint32) (*Node, error) {
	start := d.cur.Offset()
	n, err := d.cur.ReadInt32()
	if err != nil {
		return nil, err
	}

	node := &Node{Kind: KindChar, Enc: charEncoding(f)}
	switch {
	case n == naStringLength:
		node.NA = true
	case n < 0:
		return nil, errs.At(start, errs.ErrMalformedRecord, "invalid string length %d", n)
	default:
		s, err := d.cur.ReadString(int(n))
		if err != nil {
			return nil, d.countErr(err, int64(n))
		}
		node.Str = s
	}

	return node, nil
}

func charEncoding(f uint32) format.Encoding {
	levels := f >> flagLevelsShift
	switch {
	case levels&charBytes != 0:
		return format.EncodingBytes
	case levels&charLatin1 != 0:
		return format.EncodingLatin1
	case levels&charUTF8 != 0:
		return format.EncodingUTF8
	case levels&charASCII != 0:
		return format.EncodingASCII
	default:
		return format.EncodingNative
	}
}

// readLength reads an element count, following the long-vector extension
// when the 32-bit word holds the sentinel.
func (d *Decoder) readLength() (int64, error) {
	start := d.cur.Offset()
	n, err := d.cur.ReadInt32()
	if err != nil {
		return 0, err
	}

	var length int64
	if n == longVectorSentinel {
		hi, err := d.cur.ReadInt32()
		if err != nil {
			return 0, err
		}
		lo, err := d.cur.ReadInt32()
		if err != nil {
			return 0, err
		}
		length = int64(uint64(uint32(hi))<<32 | uint64(uint32(lo)))
	} else {
		length = int64(n)
	}

	if length < 0 || length > maxVectorLen {
		return 0, errs.At(start, errs.ErrMalformedRecord, "implausible vector length %d", length)
	}

	return length, nil
}

// countErr reclassifies running the stream dry while consuming a declared
// element count: the count word, not the I/O, is what lied. The bounded
// batch reads above guarantee this fires before any large allocation.
func (d *Decoder) countErr(err error, n int64) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return errs.At(d.cur.Offset(), errs.ErrMalformedRecord, "declared length %d exceeds remaining stream", n)
	}

	return err
}

// readInt32s reads n elements, growing the result in bounded batches.
func (d *Decoder) readInt32s(n int64) ([]int32, error) {
	out := make([]int32, 0, min(n, vectorBatch))
	for int64(len(out)) < n {
		batch := int(min(n-int64(len(out)), vectorBatch))
		out = slices.Grow(out, batch)
		out = out[:len(out)+batch]
		if err := d.cur.ReadInt32s(out[len(out)-batch:]); err != nil {
			return nil, d.countErr(err, n)
		}
	}

	return out, nil
}

func (d *Decoder) readFloat64s(n int64) ([]float64, error) {
	out := make([]float64, 0, min(n, vectorBatch))
	for int64(len(out)) < n {
		batch := int(min(n-int64(len(out)), vectorBatch))
		out = slices.Grow(out, batch)
		out = out[:len(out)+batch]
		if err := d.cur.ReadFloat64s(out[len(out)-batch:]); err != nil {
			return nil, d.countErr(err, n)
		}
	}

	return out, nil
}

func (d *Decoder) readRawVector(n int64) ([]byte, error) {
	out := make([]byte, 0, min(n, vectorBatch))
	for int64(len(out)) < n {
		batch := int(min(n-int64(len(out)), vectorBatch))
		out = slices.Grow(out, batch)
		out = out[:len(out)+batch]
		if err := d.cur.ReadRaw(out[len(out)-batch:]); err != nil {
			return nil, d.countErr(err, n)
		}
	}

	return out, nil
}

func (d *Decoder) readStringVector(n int64) (*Node, error) {
	node := &Node{Kind: KindString, Chars: make([]*Node, 0, min(n, vectorBatch))}
	for i := int64(0); i < n; i++ {
		start := d.cur.Offset()
		el, err := d.ReadItem()
		if err != nil {
			return nil, err
		}
		if el.Kind != KindChar {
			return nil, errs.At(start, errs.ErrMalformedRecord, "character vector element %d is %s, want char", i, el.Kind)
		}
		node.Chars = append(node.Chars, el)
	}

	return node, nil
}

func (d *Decoder) readGenericList(n int64) (*Node, error) {
	node := &Node{Kind: KindList, Elems: make([]*Node, 0, min(n, vectorBatch))}
	for i := int64(0); i < n; i++ {
		el, err := d.ReadItem()
		if err != nil {
			return nil, err
		}
		node.Elems = append(node.Elems, el)
	}

	return node, nil
}

func (d *Decoder) readAttributes() ([]Attr, error) {
	start := d.cur.Offset()
	item, err := d.ReadItem()
	if err != nil {
		return nil, err
	}
	switch item.Kind {
	case KindNull:
		return nil, nil
	case KindPairlist:
	default:
		return nil, errs.At(start, errs.ErrMalformedRecord, "attributes are %s, want pairlist", item.Kind)
	}

	attrs := make([]Attr, 0, len(item.Pairs))
	for _, p := range item.Pairs {
		if p.Tag == "" {
			return nil, errs.At(start, errs.ErrMalformedRecord, "attribute without a name")
		}
		attrs = append(attrs, Attr{Name: p.Tag, Value: p.Value})
	}

	return attrs, nil
}

// readPersistent consumes a namespace, package, or persistent record: a
// zero marker, a count, then that many char items naming the object. The
// resulting node is interned so later references resolve, but it only
// becomes an error if something uses it as a value.
func (d *Decoder) readPersistent(ty int, start int64) (*Node, error) {
	m, err := d.cur.ReadInt32()
	if err != nil {
		return nil, err
	}
	if m != 0 {
		return nil, errs.At(start, errs.ErrMalformedRecord, "named persistent strings are not defined by the protocol")
	}
	n, err := d.cur.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n < 0 || int64(n) > maxPersistentStrings {
		return nil, errs.At(start, errs.ErrMalformedRecord, "persistent string count %d", n)
	}
	for i := int32(0); i < n; i++ {
		elStart := d.cur.Offset()
		el, err := d.ReadItem()
		if err != nil {
			return nil, err
		}
		if el.Kind != KindChar {
			return nil, errs.At(elStart, errs.ErrMalformedRecord, "persistent string element is %s, want char", el.Kind)
		}
	}

	node := &Node{Kind: KindUnsupported, Str: tagName(ty)}
	d.refs = append(d.refs, node)

	return node, nil
}
